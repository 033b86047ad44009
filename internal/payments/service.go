// Package payments is the typed client for the /payments resource plus the
// processor-side confirmation step of checkout.
package payments

import (
	"context"
	"strings"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

type Service struct {
	api *api.Client
}

func NewService(c *api.Client) *Service { return &Service{api: c} }

// CreateIntent asks the backend for a payment setup handle for a quote.
func (s *Service) CreateIntent(ctx context.Context, quoteID string) (*models.PaymentIntentResponse, error) {
	var out models.PaymentIntentResponse
	if err := s.api.Post(ctx, "/payments/create-intent/"+quoteID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Confirm reports a captured processor intent back to the backend, which
// transitions the quote to accepted and the case to engaged.
func (s *Service) Confirm(ctx context.Context, paymentIntentID string) (*models.Payment, error) {
	var out models.Payment
	if err := s.api.Post(ctx, "/payments/confirm/"+paymentIntentID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the backend's view of a payment.
func (s *Service) Status(ctx context.Context, paymentID string) (*models.Payment, error) {
	var out models.Payment
	if err := s.api.Get(ctx, "/payments/"+paymentID+"/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IntentIDFromClientSecret recovers the PaymentIntent id from a client
// secret of the form "pi_xxx_secret_yyy".
func IntentIDFromClientSecret(secret string) string {
	if i := strings.Index(secret, "_secret_"); i > 0 {
		return secret[:i]
	}
	return secret
}

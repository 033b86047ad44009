package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// Terminal processor states the checkout flow acts on. Anything else is
// still in flight and must not trigger backend confirmation.
const (
	IntentSucceeded       = "succeeded"
	IntentRequiresCapture = "requires_capture"
	IntentFailed          = "failed"
)

// Intent is the processor's view of a payment attempt.
type Intent struct {
	ID     string
	Status string
}

// Captured reports whether the intent reached a state the backend may be
// told about.
func (i Intent) Captured() bool {
	return i.Status == IntentSucceeded || i.Status == IntentRequiresCapture
}

// Processor confirms a payment with the external payment processor. The
// provider is selected by configuration, mirroring the backend's
// PAYMENT_PROVIDER switch.
type Processor interface {
	// ConfirmIntent confirms the intent behind clientSecret using the given
	// payment method and returns the resulting terminal state.
	ConfirmIntent(ctx context.Context, clientSecret, paymentMethod string) (Intent, error)
}

/* ================================ Stripe ================================ */

// StripeProcessor confirms PaymentIntents through the Stripe API.
type StripeProcessor struct{}

// NewStripeProcessor sets the account key and returns the processor.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	stripe.Key = secretKey
	return &StripeProcessor{}
}

func (p *StripeProcessor) ConfirmIntent(ctx context.Context, clientSecret, paymentMethod string) (Intent, error) {
	id := IntentIDFromClientSecret(clientSecret)
	params := &stripe.PaymentIntentConfirmParams{
		Params:        stripe.Params{Context: ctx},
		PaymentMethod: stripe.String(paymentMethod),
	}
	pi, err := paymentintent.Confirm(id, params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe confirm: %w", err)
	}
	return Intent{ID: pi.ID, Status: string(pi.Status)}, nil
}

/* ================================= Mock ================================= */

// MockProcessor stands in for Stripe in dev mode and in tests. A payment
// method of "pm_fail" fails the intent; "pm_capture" stops at
// requires_capture; anything else succeeds.
type MockProcessor struct{}

func (MockProcessor) ConfirmIntent(_ context.Context, clientSecret, paymentMethod string) (Intent, error) {
	intent := Intent{ID: IntentIDFromClientSecret(clientSecret)}
	switch paymentMethod {
	case "pm_fail":
		intent.Status = IntentFailed
	case "pm_capture":
		intent.Status = IntentRequiresCapture
	default:
		intent.Status = IntentSucceeded
	}
	return intent, nil
}

package views

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aldoetobex/legal-mp-client/internal/payments"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// ErrIntentNotTerminal is surfaced when the processor leaves the intent in a
// non-terminal state; the payment is still processing and the backend must
// not be told it completed.
var ErrIntentNotTerminal = errors.New("payment still processing")

// Checkout is the computed checkout view: the target quote plus the payment
// setup handle the collection form binds to.
type Checkout struct {
	Case         models.Case
	Quote        *models.Quote
	ClientSecret string
	PaymentID    string
}

// LoadCheckout loads the case, locates the target quote by id, and requests
// a payment setup handle for it.
func (c *Controllers) LoadCheckout(ctx context.Context, caseID, quoteID string) (Checkout, error) {
	cs, err := c.Cases.Get(ctx, caseID)
	if err != nil {
		return Checkout{}, err
	}

	out := Checkout{Case: *cs}
	for i := range cs.Quotes {
		if cs.Quotes[i].ID.String() == quoteID {
			out.Quote = &cs.Quotes[i]
			break
		}
	}
	if out.Quote == nil {
		return out, fmt.Errorf("quote %s not found on case %s", quoteID, caseID)
	}

	intent, err := c.Payments.CreateIntent(ctx, quoteID)
	if err != nil {
		return out, err
	}
	if intent.ClientSecret == "" {
		return out, errors.New("no payment setup handle from server")
	}
	out.ClientSecret = intent.ClientSecret
	out.PaymentID = intent.PaymentID
	return out, nil
}

// Pay runs the two-step confirmation: processor first, then the backend with
// the processor's intent id. On a terminal success state it navigates to the
// case detail; on any failure it surfaces the error and changes nothing
// locally. The caller re-reads case/quote state by fresh fetch only.
func (c *Controllers) Pay(ctx context.Context, co Checkout, paymentMethod string) (*models.Payment, error) {
	action := "checkout:" + co.PaymentID
	if !c.flight.begin(action) {
		return nil, ErrActionInFlight
	}
	defer c.flight.end(action)

	intent, err := c.Processor.ConfirmIntent(ctx, co.ClientSecret, paymentMethod)
	if err != nil {
		return nil, err
	}
	if !intent.Captured() {
		if intent.Status == payments.IntentFailed {
			return nil, errors.New("payment failed")
		}
		return nil, ErrIntentNotTerminal
	}

	pay, err := c.Payments.Confirm(ctx, intent.ID)
	if err != nil {
		// The processor captured but the backend was not told; the user
		// must re-trigger confirmation, nothing is assumed locally.
		return nil, err
	}

	c.Log.Info("payment completed",
		zap.String("case", co.Case.ID.String()),
		zap.String("intent", intent.ID),
	)
	c.Nav.To("/cases/" + co.Case.ID.String())
	return pay, nil
}

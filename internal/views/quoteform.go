package views

import (
	"context"

	"github.com/google/uuid"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// QuoteForm is the computed quote-submission view for one case.
type QuoteForm struct {
	Case     models.Case
	NotFound bool
	// CanSubmit: viewer is a lawyer and the case is still open.
	CanSubmit bool
	// Existing is the viewer's prior quote on this case, if any; submitting
	// with Existing set edits it in place rather than duplicating.
	Existing *models.Quote
}

// ResolveExistingQuote finds the lawyer's prior quote for a case across the
// two possible sources. Resolution order is fixed: the lawyer's own quote
// list is authoritative; the case's quote list is the fallback.
func ResolveExistingQuote(myQuotes, caseQuotes []models.Quote, lawyerID, caseID uuid.UUID) *models.Quote {
	for i := range myQuotes {
		if myQuotes[i].CaseID == caseID {
			return &myQuotes[i]
		}
	}
	for i := range caseQuotes {
		if caseQuotes[i].LawyerID == lawyerID {
			return &caseQuotes[i]
		}
	}
	return nil
}

// LoadQuoteForm fetches the case and the viewer's existing quote, if any.
func (c *Controllers) LoadQuoteForm(ctx context.Context, caseID string) (QuoteForm, error) {
	viewer := c.Session.Current()

	cs, err := c.Cases.Get(ctx, caseID)
	if err != nil {
		if api.IsNotFound(err) {
			return QuoteForm{NotFound: true}, nil
		}
		return QuoteForm{}, err
	}

	form := QuoteForm{
		Case:      *cs,
		CanSubmit: viewer != nil && viewer.Role == models.RoleLawyer && cs.Status == models.CaseOpen,
	}
	if viewer == nil || viewer.Role != models.RoleLawyer {
		return form, nil
	}

	// The my-quotes fetch is best effort; the case's own list still covers
	// the lookup when it fails.
	var mine []models.Quote
	if page, err := c.Quotes.ListMine(ctx, models.QuoteListParams{Page: 1, Limit: 100}); err == nil {
		mine = page.Items
	}

	caseQuotes := cs.Quotes
	if caseQuotes == nil {
		if fetched, err := c.Cases.Quotes(ctx, caseID); err == nil {
			caseQuotes = fetched
		}
	}

	form.Existing = ResolveExistingQuote(mine, caseQuotes, viewer.ID, cs.ID)
	return form, nil
}

// SubmitQuote creates or edits the viewer's quote for the case, picking
// update over create when a prior quote exists. Duplicate submissions are
// rejected while one is pending.
func (c *Controllers) SubmitQuote(ctx context.Context, form QuoteForm, req models.QuoteRequest) (*models.Quote, error) {
	action := "quote:" + form.Case.ID.String()
	if !c.flight.begin(action) {
		return nil, ErrActionInFlight
	}
	defer c.flight.end(action)

	var (
		q   *models.Quote
		err error
	)
	if form.Existing != nil {
		q, err = c.Quotes.Update(ctx, form.Existing.ID.String(), req)
	} else {
		q, err = c.Quotes.SubmitForCase(ctx, form.Case.ID.String(), req)
	}
	if err != nil {
		return nil, err
	}

	c.Nav.To("/cases/" + form.Case.ID.String())
	return q, nil
}

package views

import (
	"context"
	"fmt"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// DocumentRow is one attached file plus whether the viewer may download it.
// Inaccessible files are listed, not omitted.
type DocumentRow struct {
	File        models.CaseFile
	CanDownload bool
}

// QuoteRow is one quote plus the affordances the viewer gets on it.
type QuoteRow struct {
	Quote models.Quote
	// AcceptedBadge: quote accepted and the case engaged.
	AcceptedBadge bool
	// CanAcceptAndPay routes the owning client into checkout.
	CanAcceptAndPay bool
	CheckoutPath    string
}

// CaseDetail is the computed case-detail view.
type CaseDetail struct {
	Case      models.Case
	NotFound  bool
	IsOwner   bool
	Documents []DocumentRow
	Quotes    []QuoteRow
}

// viewerHasAcceptedQuote reports whether the viewer holds an accepted quote
// on the case.
func viewerHasAcceptedQuote(viewer *models.User, cs *models.Case) bool {
	for _, q := range cs.Quotes {
		if q.LawyerID == viewer.ID && q.Status == models.QuoteAccepted {
			return true
		}
	}
	return false
}

// BuildCaseDetail computes the view for a (case, viewer) pair. These are the
// rules every protected view must enforce identically:
//
//   - documents are downloadable by the owning client always, and by a
//     lawyer only once the case is engaged and that lawyer's quote accepted;
//   - "Accept & Pay" renders only for the owning client, on an open case,
//     against a proposed quote, and routes into the checkout flow.
func BuildCaseDetail(viewer *models.User, cs *models.Case) CaseDetail {
	out := CaseDetail{Case: *cs}

	// An anonymous viewer still gets the rows; everything is inaccessible.
	if viewer != nil {
		out.IsOwner = viewer.Role == models.RoleClient && viewer.ID == cs.ClientID
	}

	lawyerAccess := viewer != nil &&
		viewer.Role == models.RoleLawyer &&
		cs.Status == models.CaseEngaged &&
		viewerHasAcceptedQuote(viewer, cs)

	for _, f := range cs.Files {
		out.Documents = append(out.Documents, DocumentRow{
			File:        f,
			CanDownload: out.IsOwner || lawyerAccess,
		})
	}

	for _, q := range cs.Quotes {
		row := QuoteRow{
			Quote:         q,
			AcceptedBadge: q.Status == models.QuoteAccepted && cs.Status == models.CaseEngaged,
		}
		if out.IsOwner && cs.Status == models.CaseOpen && q.Status == models.QuoteProposed {
			row.CanAcceptAndPay = true
			row.CheckoutPath = fmt.Sprintf("/cases/%s/checkout/%s", cs.ID, q.ID)
		}
		out.Quotes = append(out.Quotes, row)
	}
	return out
}

// LoadCaseDetail fetches the case fresh and computes the view. A missing
// case renders an explicit not-found state, never a blank screen.
func (c *Controllers) LoadCaseDetail(ctx context.Context, id string) (CaseDetail, error) {
	cs, err := c.Cases.Get(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			return CaseDetail{NotFound: true}, nil
		}
		return CaseDetail{}, err
	}
	return BuildCaseDetail(c.Session.Current(), cs), nil
}

// DownloadFile performs the secondary authorization step and resolves the
// secure handle to a fetchable location.
func (c *Controllers) DownloadFile(ctx context.Context, fileID string) (string, error) {
	handle, err := c.Files.SecureURL(ctx, fileID)
	if err != nil {
		return "", err
	}
	return handle.Location(fileID)
}

package views

import (
	"context"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// FilterOption is a labelled value for a marketplace filter control.
type FilterOption struct {
	Value string
	Label string
}

// CategoryOptions is the fixed category filter list.
var CategoryOptions = []FilterOption{
	{Value: "", Label: "All Categories"},
	{Value: "Contract Law", Label: "Contract Law"},
	{Value: "Criminal Law", Label: "Criminal Law"},
	{Value: "Family Law", Label: "Family Law"},
	{Value: "Personal Injury", Label: "Personal Injury"},
	{Value: "Employment Law", Label: "Employment Law"},
	{Value: "Real Estate", Label: "Real Estate"},
	{Value: "Intellectual Property", Label: "Intellectual Property"},
	{Value: "Tax Law", Label: "Tax Law"},
	{Value: "Immigration", Label: "Immigration"},
	{Value: "Bankruptcy", Label: "Bankruptcy"},
	{Value: "Other", Label: "Other"},
}

// TimeFilterOptions maps the time-window labels to absolute cutoffs. The
// values are fixed timestamps, not offsets from now; see DESIGN.md before
// changing the semantics.
var TimeFilterOptions = []FilterOption{
	{Value: "", Label: "Any time"},
	{Value: "2024-01-01T00:00:00.000Z", Label: "Last 30 days"},
	{Value: "2024-06-01T00:00:00.000Z", Label: "Last 6 months"},
	{Value: "2023-01-01T00:00:00.000Z", Label: "Last year"},
}

// Marketplace is the computed browse view for lawyers.
type Marketplace struct {
	Cases []models.Case
	Total int
	Page  int
	Limit int
}

// LoadMarketplace fetches a filtered page of open cases.
func (c *Controllers) LoadMarketplace(ctx context.Context, p models.CaseListParams) (Marketplace, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	page, err := c.Cases.List(ctx, p)
	if err != nil {
		return Marketplace{}, err
	}
	return Marketplace{
		Cases: page.Items,
		Total: page.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}, nil
}

// LoadMyCases fetches the signed-in client's cases.
func (c *Controllers) LoadMyCases(ctx context.Context, page, limit int) (Marketplace, error) {
	return c.LoadMarketplace(ctx, models.CaseListParams{Page: page, Limit: limit})
}

// LoadMyQuotes fetches the signed-in lawyer's quotes.
func (c *Controllers) LoadMyQuotes(ctx context.Context, p models.QuoteListParams) (models.Page[models.Quote], error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return c.Quotes.ListMine(ctx, p)
}

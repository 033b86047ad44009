// Package quotes is the typed client for the /quotes resource.
package quotes

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
	"github.com/aldoetobex/legal-mp-client/pkg/validation"
)

type Service struct {
	api *api.Client
}

func NewService(c *api.Client) *Service { return &Service{api: c} }

// SubmitForCase creates a new quote against an open case.
func (s *Service) SubmitForCase(ctx context.Context, caseID string, req models.QuoteRequest) (*models.Quote, error) {
	if errs, err := validation.Validate(req); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, &api.Error{Status: 400, Message: "Validation failed", Fields: errs}
	}

	var out models.Quote
	if err := s.api.Post(ctx, "/quotes/cases/"+caseID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMine fetches the signed-in lawyer's quotes.
func (s *Service) ListMine(ctx context.Context, p models.QuoteListParams) (models.Page[models.Quote], error) {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var raw json.RawMessage
	if err := s.api.Get(ctx, "/quotes", q, &raw); err != nil {
		return models.Page[models.Quote]{}, err
	}
	items, total := api.DecodePage[models.Quote](raw)
	return models.Page[models.Quote]{Items: items, Total: total}, nil
}

// Get fetches one quote.
func (s *Service) Get(ctx context.Context, id string) (*models.Quote, error) {
	var out models.Quote
	if err := s.api.Get(ctx, "/quotes/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edits an existing proposed quote in place.
func (s *Service) Update(ctx context.Context, id string, req models.QuoteRequest) (*models.Quote, error) {
	if errs, err := validation.Validate(req); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, &api.Error{Status: 400, Message: "Validation failed", Fields: errs}
	}

	var out models.Quote
	if err := s.api.Patch(ctx, "/quotes/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete withdraws a quote.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/quotes/"+id, nil)
}

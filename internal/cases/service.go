// Package cases is the typed client for the /cases resource. Operations are
// pure request/response: no retries, no caching beyond the call itself.
package cases

import (
	"context"
	"encoding/json"
	"fmt"
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

// Create posts a new case and returns the backend's copy.
func (s *Service) Create(ctx context.Context, req models.CreateCaseRequest) (*models.Case, error) {
	if errs, err := validation.Validate(req); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, &api.Error{Status: 400, Message: "Validation failed", Fields: errs}
	}

	var out models.Case
	if err := s.api.Post(ctx, "/cases", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches a filtered, paginated page of cases. The raw envelope shape
// varies by endpoint version; it is normalized here.
func (s *Service) List(ctx context.Context, p models.CaseListParams) (models.Page[models.Case], error) {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.CreatedSince != "" {
		q.Set("createdSince", p.CreatedSince)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var raw json.RawMessage
	if err := s.api.Get(ctx, "/cases", q, &raw); err != nil {
		return models.Page[models.Case]{}, err
	}
	items, total := api.DecodePage[models.Case](raw)
	return models.Page[models.Case]{Items: items, Total: total}, nil
}

// Get fetches one case with its quotes and files.
func (s *Service) Get(ctx context.Context, id string) (*models.Case, error) {
	var out models.Case
	if err := s.api.Get(ctx, "/cases/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches fields of an owned case.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateCaseRequest) (*models.Case, error) {
	if errs, err := validation.Validate(req); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, &api.Error{Status: 400, Message: "Validation failed", Fields: errs}
	}

	var out models.Case
	if err := s.api.Patch(ctx, "/cases/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadFiles attaches documents to an owned case (multipart, field "files").
func (s *Service) UploadFiles(ctx context.Context, id string, files []api.Upload) ([]models.CaseFile, error) {
	var raw json.RawMessage
	if err := s.api.PostMultipart(ctx, fmt.Sprintf("/cases/%s/files", id), files, &raw); err != nil {
		return nil, err
	}
	return api.ExtractList[models.CaseFile](raw), nil
}

// Quotes lists the quotes attached to a case (owner view).
func (s *Service) Quotes(ctx context.Context, caseID string) ([]models.Quote, error) {
	var raw json.RawMessage
	if err := s.api.Get(ctx, "/quotes/cases/"+caseID, nil, &raw); err != nil {
		return nil, err
	}
	return api.ExtractList[models.Quote](raw), nil
}

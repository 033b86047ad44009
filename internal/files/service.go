// Package files is the typed client for secure file retrieval. Download
// access needs a secondary authorization step: the backend hands out either
// a direct short-lived URL or a token to append to the retrieval path.
package files

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aldoetobex/legal-mp-client/internal/api"
)

// SecureHandle is a short-lived grant for one file: exactly one of URL or
// Token is expected to be set.
type SecureHandle struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Location resolves the handle to a fetchable location, or ErrNoSecureHandle
// when the backend returned neither form. The caller must surface that, not
// swallow it.
func (h SecureHandle) Location(fileID string) (string, error) {
	switch {
	case h.URL != "":
		return h.URL, nil
	case h.Token != "":
		return fmt.Sprintf("/files/secure/%s?token=%s", fileID, url.QueryEscape(h.Token)), nil
	default:
		return "", api.ErrNoSecureHandle
	}
}

type Service struct {
	api *api.Client
}

func NewService(c *api.Client) *Service { return &Service{api: c} }

// SecureURL requests a retrieval handle for a file id.
func (s *Service) SecureURL(ctx context.Context, fileID string) (SecureHandle, error) {
	var out SecureHandle
	if err := s.api.Get(ctx, "/files/"+fileID+"/secure-url", nil, &out); err != nil {
		return SecureHandle{}, err
	}
	return out, nil
}

// Download fetches a file's bytes through the token path.
func (s *Service) Download(ctx context.Context, fileID, token string) ([]byte, error) {
	q := url.Values{}
	q.Set("token", token)
	return s.api.GetBytes(ctx, "/files/secure/"+fileID, q)
}

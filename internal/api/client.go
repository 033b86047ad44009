package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource yields the current bearer credential, or "" when the session
// is unauthenticated. The session store implements it.
type TokenSource interface {
	Token() string
}

// Client is the single HTTP gateway to the marketplace backend. It attaches
// the bearer credential to every request and centralizes 401 handling: any
// unauthorized response fires the registered hook (session teardown + forced
// navigation) and the call still fails with *Error.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client for the given base URL (e.g. http://host:3000/api).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OnUnauthorized registers the global 401 hook. There is exactly one; the
// session store owns it.
func (c *Client) OnUnauthorized(fn func()) { c.onUnauthorized = fn }

/* ============================ Verb helpers ============================== */

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", out)
}

// Upload carries a multipart form. Each entry of files is written under the
// field name "files", matching the backend's attachment endpoint.
type Upload struct {
	Name    string
	Content io.Reader
}

func (c *Client) PostMultipart(ctx context.Context, path string, files []Upload, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), out)
}

// GetBytes fetches a raw body (file downloads).
func (c *Client) GetBytes(ctx context.Context, path string, query url.Values) ([]byte, error) {
	res, err := c.roundTrip(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if err := c.checkStatus(res); err != nil {
		return nil, err
	}
	return io.ReadAll(res.Body)
}

/* =============================== Internals ============================== */

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, nil, rd, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	res, err := c.roundTrip(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := c.checkStatus(res); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, err
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// checkStatus decodes the backend error envelope for non-2xx responses and
// runs the 401 hook before returning.
func (c *Client) checkStatus(res *http.Response) error {
	if res.StatusCode < 300 {
		return nil
	}

	apiErr := &Error{Status: res.StatusCode}
	var envelope struct {
		Message string              `json:"message"`
		Code    string              `json:"code"`
		Errors  map[string][]string `json:"errors"`
	}
	raw, _ := io.ReadAll(res.Body)
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Message = envelope.Message
		apiErr.Code = envelope.Code
		apiErr.Fields = envelope.Errors
	}

	if res.StatusCode == http.StatusUnauthorized {
		c.log.Warn("unauthorized response; tearing down session",
			zap.String("path", res.Request.URL.Path))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return apiErr
}

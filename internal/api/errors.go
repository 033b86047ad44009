package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSecureHandle is returned when a secure-download response carries
// neither a direct URL nor a retrieval token.
var ErrNoSecureHandle = errors.New("no secure download URL from server")

// Error is a non-2xx backend response decoded into the marketplace's error
// envelope. Views surface Message when present and fall back to a generic
// string otherwise.
type Error struct {
	Status  int
	Code    string
	Message string
	// Laravel-style field errors when the backend rejected validation.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// MessageOr returns the backend-provided message, else the fallback.
func MessageOr(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

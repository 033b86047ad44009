package mockapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RoundTripper adapts an in-process fiber app into an http.RoundTripper so
// the real API client can be driven against the stub without a listener.
type RoundTripper struct {
	App *fiber.App
}

func (rt RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.App.Test(req, -1)
}

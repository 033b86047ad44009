// Package mockapi is an in-process stand-in for the marketplace backend. It
// implements the REST surface the client consumes, with enough lifecycle logic
// to make the client's contract testable end to end and nothing more.
// cmd/mockapi serves it for dev runs; the integration tests mount the same
// app with app.Test.
package mockapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// Server carries the stub's state and settings.
type Server struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithTokenTTL overrides the issued-token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.tokenTTL = ttl }
}

// New builds the stub and mounts its routes under /api.
func New(db *gorm.DB, jwtSecret string, opts ...Option) *fiber.App {
	s := &Server{db: db, jwtSecret: jwtSecret, tokenTTL: 7 * 24 * time.Hour}
	for _, o := range opts {
		o(s)
	}

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := app.Group("/api")

	api.Post("/auth/signup", s.signup)
	api.Post("/auth/signin", s.signin)

	// The grant token is the authorization here, not the session.
	api.Get("/files/secure/:id", s.secureDownload)

	authed := api.Group("", s.requireAuth())

	authed.Get("/cases", s.listCases)
	authed.Post("/cases", requireRole(models.RoleClient), s.createCase)
	authed.Get("/cases/:id", s.getCase)
	authed.Patch("/cases/:id", requireRole(models.RoleClient), s.updateCase)
	authed.Post("/cases/:id/files", requireRole(models.RoleClient), s.uploadFiles)

	authed.Get("/quotes", requireRole(models.RoleLawyer), s.listMyQuotes)
	authed.Get("/quotes/cases/:caseId", s.listCaseQuotes)
	authed.Post("/quotes/cases/:id", requireRole(models.RoleLawyer), s.createQuote)
	authed.Get("/quotes/:id", s.getQuote)
	authed.Patch("/quotes/:id", requireRole(models.RoleLawyer), s.updateQuote)
	authed.Delete("/quotes/:id", requireRole(models.RoleLawyer), s.deleteQuote)

	authed.Post("/payments/create-intent/:quoteId", requireRole(models.RoleClient), s.createIntent)
	authed.Post("/payments/confirm/:paymentIntentId", requireRole(models.RoleClient), s.confirmPayment)
	authed.Get("/payments/:id/status", s.paymentStatus)

	authed.Get("/files/:id/secure-url", s.secureURL)

	return app
}

/* =========================== Error formatting =========================== */

func httpCodeToString(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// errorHandler returns the backend's consistent JSON error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		if strings.TrimSpace(e.Message) != "" {
			msg = e.Message
		}
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Code:    httpCodeToString(code),
		Error:   true,
		Message: msg,
	})
}

func parsePage(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return
}

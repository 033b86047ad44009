package cases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/internal/mockapi"
	"github.com/aldoetobex/legal-mp-client/internal/session"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

func newService(t *testing.T, app *fiber.App, role models.Role, email string) *Service {
	t.Helper()
	store := session.New(filepath.Join(t.TempDir(), "session.json"), nil)
	client := api.New("http://backend/api", store,
		api.WithHTTPClient(&http.Client{Transport: mockapi.RoundTripper{App: app}}))
	store.UseAPI(client)
	store.Initialize()

	req := models.SignUpRequest{Role: string(role), Email: email, Password: "secret123"}
	if role == models.RoleLawyer {
		req.Jurisdiction = "SG"
		req.BarNumber = "SG/12345"
	}
	if _, err := store.SignUp(context.Background(), req); err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return NewService(client)
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := mockapi.OpenStore("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return mockapi.New(db, "test-secret")
}

func TestCreateValidatesLocally(t *testing.T) {
	app := newApp(t)
	svc := newService(t, app, models.RoleClient, "client@example.com")

	_, err := svc.Create(context.Background(), models.CreateCaseRequest{Category: "IP"})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if len(apiErr.Fields["title"]) == 0 {
		t.Fatalf("expected title field error, got %v", apiErr.Fields)
	}
}

func TestListPaginationAndFilters(t *testing.T) {
	app := newApp(t)
	ctx := context.Background()
	client := newService(t, app, models.RoleClient, "client@example.com")
	lawyer := newService(t, app, models.RoleLawyer, "lawyer@example.com")

	for i := 0; i < 3; i++ {
		category := "Corporate"
		if i == 0 {
			category = "IP"
		}
		if _, err := client.Create(ctx, models.CreateCaseRequest{
			Title:    fmt.Sprintf("Case %d", i),
			Category: category,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// The lawyer marketplace sees all open cases; the envelope total covers
	// the full result set regardless of page size.
	page, err := lawyer.List(ctx, models.CaseListParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 3 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(page.Items), page.Total)
	}

	page, err = lawyer.List(ctx, models.CaseListParams{Category: "IP"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 IP case, got %d", page.Total)
	}
}

func TestGetHidesOtherClientsCases(t *testing.T) {
	app := newApp(t)
	ctx := context.Background()
	owner := newService(t, app, models.RoleClient, "owner@example.com")
	other := newService(t, app, models.RoleClient, "other@example.com")

	cs, err := owner.Create(ctx, models.CreateCaseRequest{Title: "Lease review", Category: "Property"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Existence is not leaked to unrelated clients.
	_, err = other.Get(ctx, cs.ID.String())
	if !api.IsNotFound(err) {
		t.Fatalf("expected not found for unrelated client, got %v", err)
	}
}

func TestUpdateOwnedCase(t *testing.T) {
	app := newApp(t)
	ctx := context.Background()
	owner := newService(t, app, models.RoleClient, "owner@example.com")

	cs, err := owner.Create(ctx, models.CreateCaseRequest{Title: "Lease review", Category: "Property"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Lease review (urgent)"
	updated, err := owner.Update(ctx, cs.ID.String(), models.UpdateCaseRequest{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Category != "Property" {
		t.Fatalf("untouched field changed: %q", updated.Category)
	}
}

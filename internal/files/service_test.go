package files

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/internal/cases"
	"github.com/aldoetobex/legal-mp-client/internal/mockapi"
	"github.com/aldoetobex/legal-mp-client/internal/session"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

type testUser struct {
	files *Service
	cases *cases.Service
}

func newTestUser(t *testing.T, app *fiber.App, role models.Role, email string) testUser {
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
	return testUser{files: NewService(client), cases: cases.NewService(client)}
}

func TestSecureDownloadRoundTrip(t *testing.T) {
	db, err := mockapi.OpenStore("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	app := mockapi.New(db, "test-secret")
	ctx := context.Background()

	owner := newTestUser(t, app, models.RoleClient, "owner@example.com")

	cs, err := owner.cases.Create(ctx, models.CreateCaseRequest{
		Title: "Trademark filing", Category: "IP",
	})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}

	content := []byte("%PDF-1.4 fake agreement body")
	uploaded, err := owner.cases.UploadFiles(ctx, cs.ID.String(), []api.Upload{
		{Name: "agreement.pdf", Content: bytes.NewReader(content)},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(uploaded) != 1 {
		t.Fatalf("expected 1 uploaded file, got %d", len(uploaded))
	}
	fileID := uploaded[0].ID.String()

	handle, err := owner.files.SecureURL(ctx, fileID)
	if err != nil {
		t.Fatalf("secure-url: %v", err)
	}
	if handle.Token == "" {
		t.Fatalf("expected a grant token, got %+v", handle)
	}
	loc, err := handle.Location(fileID)
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if !strings.Contains(loc, fileID) || !strings.Contains(loc, "token=") {
		t.Fatalf("unexpected location %q", loc)
	}

	got, err := owner.files.Download(ctx, fileID, handle.Token)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("downloaded bytes differ: %q", got)
	}

	// Secondary authorization: neither an unrelated client nor a lawyer
	// without an accepted quote gets a grant for this file.
	stranger := newTestUser(t, app, models.RoleClient, "stranger@example.com")
	if _, err := stranger.files.SecureURL(ctx, fileID); err == nil {
		t.Fatal("expected grant refusal for unrelated client")
	}
	lawyer := newTestUser(t, app, models.RoleLawyer, "lawyer@example.com")
	if _, err := lawyer.files.SecureURL(ctx, fileID); err == nil {
		t.Fatal("expected grant refusal for lawyer without accepted quote")
	}

	// A forged or mismatched token must not be honored on the token path.
	if _, err := owner.files.Download(ctx, fileID, "not-a-token"); err == nil {
		t.Fatal("expected download with bogus token to fail")
	}
}

func TestSecureHandleLocation(t *testing.T) {
	h := SecureHandle{URL: "https://cdn.example.com/f/abc"}
	loc, err := h.Location("abc")
	if err != nil || loc != "https://cdn.example.com/f/abc" {
		t.Fatalf("direct URL not honored: %q %v", loc, err)
	}

	h = SecureHandle{Token: "t k"}
	loc, err = h.Location("abc")
	if err != nil {
		t.Fatal(err)
	}
	if loc != "/files/secure/abc?token=t+k" && loc != "/files/secure/abc?token=t%20k" {
		t.Fatalf("token location not escaped: %q", loc)
	}

	if _, err := (SecureHandle{}).Location("abc"); err != api.ErrNoSecureHandle {
		t.Fatalf("expected ErrNoSecureHandle, got %v", err)
	}
}

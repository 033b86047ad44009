package views

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/internal/cases"
	"github.com/aldoetobex/legal-mp-client/internal/files"
	"github.com/aldoetobex/legal-mp-client/internal/mockapi"
	"github.com/aldoetobex/legal-mp-client/internal/payments"
	"github.com/aldoetobex/legal-mp-client/internal/quotes"
	"github.com/aldoetobex/legal-mp-client/internal/session"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

/* ============================ Test harness ============================== */

type recordingNav struct {
	paths []string
}

func (n *recordingNav) To(path string) { n.paths = append(n.paths, path) }

func (n *recordingNav) last() string {
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

func newBackend(t *testing.T) *fiber.App {
	t.Helper()
	db, err := mockapi.OpenStore("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return mockapi.New(db, "test-secret")
}

// actor is one signed-in user driving the full client stack against the
// in-process backend.
type actor struct {
	user  *models.User
	store *session.Store
	nav   *recordingNav
	ctrl  *Controllers
}

func newActor(t *testing.T, app *fiber.App) *actor {
	t.Helper()
	store := session.New(filepath.Join(t.TempDir(), "session.json"), nil)
	client := api.New("http://backend/api", store,
		api.WithHTTPClient(&http.Client{Transport: mockapi.RoundTripper{App: app}}))
	store.UseAPI(client)

	nav := &recordingNav{}
	client.OnUnauthorized(func() {
		store.SignOut()
		nav.To("/login")
	})

	ctrl := New(store,
		cases.NewService(client),
		quotes.NewService(client),
		payments.NewService(client),
		files.NewService(client),
		payments.MockProcessor{},
		nav, nil)
	store.Initialize()
	return &actor{store: store, nav: nav, ctrl: ctrl}
}

func signedUp(t *testing.T, app *fiber.App, role models.Role, email string) *actor {
	t.Helper()
	a := newActor(t, app)
	req := models.SignUpRequest{
		Role:     string(role),
		Name:     "Test User",
		Email:    email,
		Password: "secret123",
	}
	if role == models.RoleLawyer {
		req.Jurisdiction = "SG"
		req.BarNumber = "SG/12345"
	}
	u, err := a.store.SignUp(context.Background(), req)
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	a.user = u
	return a
}

func postCase(t *testing.T, a *actor) *models.Case {
	t.Helper()
	cs, err := a.ctrl.Cases.Create(context.Background(), models.CreateCaseRequest{
		Title:       "Shareholder dispute",
		Category:    "Corporate",
		Description: "Two founders disagree over vesting terms.",
	})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	return cs
}

func postQuote(t *testing.T, lawyer *actor, caseID uuid.UUID, amount float64) *models.Quote {
	t.Helper()
	q, err := lawyer.ctrl.Quotes.SubmitForCase(context.Background(), caseID.String(), models.QuoteRequest{
		Amount:       amount,
		ExpectedDays: 14,
		Note:         "Fixed fee, filings included.",
	})
	if err != nil {
		t.Fatalf("submit quote: %v", err)
	}
	return q
}

/* ============================ Quote lifecycle =========================== */

func TestQuoteSubmitThenEditInPlace(t *testing.T) {
	app := newBackend(t)
	client := signedUp(t, app, models.RoleClient, "client@example.com")
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")
	ctx := context.Background()

	cs := postCase(t, client)

	form, err := lawyer.ctrl.LoadQuoteForm(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("load quote form: %v", err)
	}
	if !form.CanSubmit {
		t.Fatal("expected lawyer to be able to quote an open case")
	}
	if form.Existing != nil {
		t.Fatal("expected no existing quote on first visit")
	}

	q, err := lawyer.ctrl.SubmitQuote(ctx, form, models.QuoteRequest{Amount: 1500, ExpectedDays: 10})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := lawyer.nav.last(); got != "/cases/"+cs.ID.String() {
		t.Fatalf("expected redirect to case detail, got %q", got)
	}

	// A second visit resolves the prior quote and submitting edits it in
	// place instead of duplicating.
	form, err = lawyer.ctrl.LoadQuoteForm(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("reload quote form: %v", err)
	}
	if form.Existing == nil || form.Existing.ID != q.ID {
		t.Fatalf("expected existing quote %s to be resolved, got %+v", q.ID, form.Existing)
	}

	if _, err := lawyer.ctrl.SubmitQuote(ctx, form, models.QuoteRequest{Amount: 1200, ExpectedDays: 7}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	all, err := client.ctrl.Cases.Quotes(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("list case quotes: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 quote after edit, got %d", len(all))
	}
	if all[0].Amount != 1200 || all[0].ExpectedDays != 7 {
		t.Fatalf("edit not applied: %+v", all[0])
	}
}

func TestQuoteFormClosedForEveryNonOpenStatus(t *testing.T) {
	db, err := mockapi.OpenStore("")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	app := mockapi.New(db, "test-secret")
	ctx := context.Background()

	client := signedUp(t, app, models.RoleClient, "client@example.com")
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")

	statuses := []models.CaseStatus{
		models.CaseOpen, models.CaseEngaged, models.CaseClosed, models.CaseCancelled,
	}
	for _, status := range statuses {
		cs := postCase(t, client)
		if status != models.CaseOpen {
			if err := db.Model(&models.Case{}).Where("id = ?", cs.ID).
				Update("status", status).Error; err != nil {
				t.Fatalf("force status %s: %v", status, err)
			}
		}

		form, err := lawyer.ctrl.LoadQuoteForm(ctx, cs.ID.String())
		if err != nil {
			t.Fatalf("load quote form (%s): %v", status, err)
		}
		if want := status == models.CaseOpen; form.CanSubmit != want {
			t.Fatalf("CanSubmit on %s case: got %v, want %v", status, form.CanSubmit, want)
		}
	}
}

func TestSubmitQuoteRejectsDuplicateInFlight(t *testing.T) {
	app := newBackend(t)
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")

	form := QuoteForm{Case: models.Case{ID: uuid.New()}, CanSubmit: true}
	action := "quote:" + form.Case.ID.String()
	if !lawyer.ctrl.flight.begin(action) {
		t.Fatal("latch should be free")
	}
	defer lawyer.ctrl.flight.end(action)

	_, err := lawyer.ctrl.SubmitQuote(context.Background(), form, models.QuoteRequest{Amount: 100, ExpectedDays: 5})
	if err != ErrActionInFlight {
		t.Fatalf("expected ErrActionInFlight, got %v", err)
	}
}

/* ============================== Case detail ============================= */

func TestLoadCaseDetailNotFound(t *testing.T) {
	app := newBackend(t)
	client := signedUp(t, app, models.RoleClient, "client@example.com")

	detail, err := client.ctrl.LoadCaseDetail(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("expected not-found state, got error: %v", err)
	}
	if !detail.NotFound {
		t.Fatal("expected NotFound to be set")
	}
}

/* =============================== Checkout =============================== */

func engagedCase(t *testing.T, app *fiber.App) (client, winner, loser *actor, cs *models.Case, won, lost *models.Quote) {
	t.Helper()
	ctx := context.Background()

	client = signedUp(t, app, models.RoleClient, "client@example.com")
	winner = signedUp(t, app, models.RoleLawyer, "winner@example.com")
	loser = signedUp(t, app, models.RoleLawyer, "loser@example.com")

	cs = postCase(t, client)
	won = postQuote(t, winner, cs.ID, 1500)
	lost = postQuote(t, loser, cs.ID, 2500)

	co, err := client.ctrl.LoadCheckout(ctx, cs.ID.String(), won.ID.String())
	if err != nil {
		t.Fatalf("load checkout: %v", err)
	}
	if co.ClientSecret == "" || co.PaymentID == "" {
		t.Fatalf("incomplete checkout setup: %+v", co)
	}

	if _, err := client.ctrl.Pay(ctx, co, "pm_card_visa"); err != nil {
		t.Fatalf("pay: %v", err)
	}
	return
}

func TestCheckoutHappyPath(t *testing.T) {
	app := newBackend(t)
	ctx := context.Background()

	client, winner, _, cs, won, lost := engagedCase(t, app)

	if got := client.nav.last(); got != "/cases/"+cs.ID.String() {
		t.Fatalf("expected redirect to case detail, got %q", got)
	}

	// Single winner: quote accepted, competitor rejected, case engaged.
	fresh, err := client.ctrl.Cases.Get(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("refetch case: %v", err)
	}
	if fresh.Status != models.CaseEngaged {
		t.Fatalf("expected engaged case, got %s", fresh.Status)
	}
	statuses := map[uuid.UUID]models.QuoteStatus{}
	for _, q := range fresh.Quotes {
		statuses[q.ID] = q.Status
	}
	if statuses[won.ID] != models.QuoteAccepted {
		t.Fatalf("expected winning quote accepted, got %s", statuses[won.ID])
	}
	if statuses[lost.ID] != models.QuoteRejected {
		t.Fatalf("expected losing quote rejected, got %s", statuses[lost.ID])
	}

	// The winning lawyer now gets the download affordance.
	detail, err := winner.ctrl.LoadCaseDetail(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("lawyer case detail: %v", err)
	}
	for _, d := range detail.Documents {
		if !d.CanDownload {
			t.Fatal("winning lawyer should be able to download on an engaged case")
		}
	}

	// The engaged case takes no further quotes, so the form closes.
	form, err := winner.ctrl.LoadQuoteForm(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("quote form on engaged case: %v", err)
	}
	if form.CanSubmit {
		t.Fatal("quote form must be closed once the case is engaged")
	}
}

func TestCheckoutFailedPaymentChangesNothing(t *testing.T) {
	app := newBackend(t)
	ctx := context.Background()

	client := signedUp(t, app, models.RoleClient, "client@example.com")
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")
	cs := postCase(t, client)
	q := postQuote(t, lawyer, cs.ID, 1500)

	co, err := client.ctrl.LoadCheckout(ctx, cs.ID.String(), q.ID.String())
	if err != nil {
		t.Fatalf("load checkout: %v", err)
	}
	navBefore := len(client.nav.paths)

	if _, err := client.ctrl.Pay(ctx, co, "pm_fail"); err == nil {
		t.Fatal("expected failed payment to error")
	}
	if len(client.nav.paths) != navBefore {
		t.Fatalf("failed payment must not navigate, got %v", client.nav.paths)
	}

	fresh, err := client.ctrl.Cases.Get(ctx, cs.ID.String())
	if err != nil {
		t.Fatalf("refetch case: %v", err)
	}
	if fresh.Status != models.CaseOpen {
		t.Fatalf("case must stay open after failed payment, got %s", fresh.Status)
	}
	if fresh.Quotes[0].Status != models.QuoteProposed {
		t.Fatalf("quote must stay proposed, got %s", fresh.Quotes[0].Status)
	}
}

func TestCheckoutRequiresCaptureCountsAsCaptured(t *testing.T) {
	app := newBackend(t)
	ctx := context.Background()

	client := signedUp(t, app, models.RoleClient, "client@example.com")
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")
	cs := postCase(t, client)
	q := postQuote(t, lawyer, cs.ID, 900)

	co, err := client.ctrl.LoadCheckout(ctx, cs.ID.String(), q.ID.String())
	if err != nil {
		t.Fatalf("load checkout: %v", err)
	}
	pay, err := client.ctrl.Pay(ctx, co, "pm_capture")
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if pay.Status != models.PaymentCompleted {
		t.Fatalf("expected completed payment, got %s", pay.Status)
	}
}

func TestCheckoutRejectedOnEngagedCase(t *testing.T) {
	app := newBackend(t)
	ctx := context.Background()

	client, _, _, cs, _, lost := engagedCase(t, app)

	// Re-running checkout against the already-decided case must be refused
	// by the backend at intent creation.
	if _, err := client.ctrl.LoadCheckout(ctx, cs.ID.String(), lost.ID.String()); err == nil {
		t.Fatal("expected checkout on engaged case to fail")
	}
}

/* ============================ Session teardown ========================== */

func TestUnauthorizedResponseTearsDownSession(t *testing.T) {
	app := newBackend(t)
	a := newActor(t, app)

	// No credential at all: the first protected call 401s, the global hook
	// clears the session and forces navigation to the sign-in view.
	_, err := a.ctrl.Cases.List(context.Background(), models.CaseListParams{})
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if a.store.Current() != nil {
		t.Fatal("session should be cleared after a 401")
	}
	if got := a.nav.last(); got != "/login" {
		t.Fatalf("expected forced navigation to /login, got %q", got)
	}
}

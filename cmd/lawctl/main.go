// lawctl is a terminal front end for the legal marketplace: clients post
// cases and accept quotes through checkout, lawyers browse the marketplace
// and submit quotes. It talks to the backend configured by API_BASE_URL
// (run cmd/mockapi for a local one).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/aldoetobex/legal-mp-client/internal/api"
	"github.com/aldoetobex/legal-mp-client/internal/cases"
	"github.com/aldoetobex/legal-mp-client/internal/config"
	"github.com/aldoetobex/legal-mp-client/internal/files"
	"github.com/aldoetobex/legal-mp-client/internal/guard"
	"github.com/aldoetobex/legal-mp-client/internal/payments"
	"github.com/aldoetobex/legal-mp-client/internal/quotes"
	"github.com/aldoetobex/legal-mp-client/internal/session"
	"github.com/aldoetobex/legal-mp-client/internal/views"
	"github.com/aldoetobex/legal-mp-client/pkg/logger"
	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// printNavigator renders forced navigation as a hint; a terminal has no
// address bar to rewrite.
type printNavigator struct{}

func (printNavigator) To(path string) { fmt.Printf("→ %s\n", path) }

type app struct {
	store *session.Store
	ctrl  *views.Controllers
	files *files.Service
	log   *zap.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	store := session.New(cfg.SessionFile, log)
	client := api.New(cfg.APIBaseURL, store, api.WithLogger(log))
	store.UseAPI(client)

	nav := printNavigator{}
	// Global invariant: a 401 from any endpoint tears the session down and
	// forces navigation to sign-in.
	client.OnUnauthorized(func() {
		store.SignOut()
		nav.To("/login")
	})

	var proc payments.Processor
	if cfg.Payment.Provider == config.ProviderStripe {
		proc = payments.NewStripeProcessor(cfg.Payment.StripeSecretKey)
	} else {
		proc = payments.MockProcessor{}
	}

	ctrl := views.New(
		store,
		cases.NewService(client),
		quotes.NewService(client),
		payments.NewService(client),
		files.NewService(client),
		proc,
		nav,
		log,
	)

	// Rehydrate before any guard decision.
	store.Initialize()

	a := &app{store: store, ctrl: ctrl, files: files.NewService(client), log: log}
	if err := a.run(os.Args[1:]); err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			for field, msgs := range verr.Fields {
				for _, m := range msgs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, m)
				}
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", api.MessageOr(err, err.Error()))
		os.Exit(1)
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}
	ctx := context.Background()

	switch args[0] {
	case "signup":
		return a.signup(ctx, args[1:])
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		a.store.SignOut()
		fmt.Println("signed out")
		return nil
	case "me":
		if u := a.store.Current(); u != nil {
			fmt.Printf("%s <%s> (%s)\n", u.Name, u.Email, u.Role)
		} else {
			fmt.Println("not signed in")
		}
		return nil
	case "my-cases":
		return a.myCases(ctx, args[1:])
	case "marketplace":
		return a.marketplace(ctx, args[1:])
	case "create-case":
		return a.createCase(ctx, args[1:])
	case "case":
		return a.caseDetail(ctx, args[1:])
	case "upload":
		return a.upload(ctx, args[1:])
	case "download":
		return a.download(ctx, args[1:])
	case "quote":
		return a.quote(ctx, args[1:])
	case "my-quotes":
		return a.myQuotes(ctx, args[1:])
	case "checkout":
		return a.checkout(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// allow runs the route guard for a path and reports whether the view may
// render; redirects are printed as navigation hints.
func (a *app) allow(path string) bool {
	sess := guard.Session{Initialized: a.store.Initialized(), User: a.store.Current()}
	switch d := guard.Decide(sess, path); d.Action {
	case guard.Render:
		return true
	case guard.RenderLoading:
		fmt.Println("loading session…")
		return false
	default:
		fmt.Printf("→ %s\n", d.Target)
		return false
	}
}

/* ================================ Auth ================================= */

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	role := fs.String("role", "client", "client | lawyer")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 6 chars)")
	name := fs.String("name", "", "display name")
	jurisdiction := fs.String("jurisdiction", "", "ISO-3166 alpha-2 (lawyers)")
	barNumber := fs.String("bar", "", "bar number (lawyers)")
	fs.Parse(args)

	u, err := a.store.SignUp(ctx, models.SignUpRequest{
		Role:         *role,
		Email:        *email,
		Password:     *password,
		Name:         *name,
		Jurisdiction: *jurisdiction,
		BarNumber:    *barNumber,
	})
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", u.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	u, err := a.store.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome back, %s\n", u.Email)
	return nil
}

/* ================================ Cases ================================ */

func (a *app) myCases(ctx context.Context, args []string) error {
	if !a.allow("/my-cases") {
		return nil
	}
	fs := flag.NewFlagSet("my-cases", flag.ExitOnError)
	page := fs.Int("page", 1, "page")
	limit := fs.Int("limit", 10, "page size")
	fs.Parse(args)

	mp, err := a.ctrl.LoadMyCases(ctx, *page, *limit)
	if err != nil {
		return err
	}
	for _, cs := range mp.Cases {
		fmt.Printf("%s  [%s]  %s (%d quotes)\n", cs.ID, cs.Status, cs.Title, len(cs.Quotes))
	}
	fmt.Printf("%d total\n", mp.Total)
	return nil
}

func (a *app) marketplace(ctx context.Context, args []string) error {
	if !a.allow("/marketplace") {
		return nil
	}
	fs := flag.NewFlagSet("marketplace", flag.ExitOnError)
	category := fs.String("category", "", "category filter")
	since := fs.String("since", "", "created-since filter (ISO timestamp)")
	page := fs.Int("page", 1, "page")
	limit := fs.Int("limit", 10, "page size")
	fs.Parse(args)

	mp, err := a.ctrl.LoadMarketplace(ctx, models.CaseListParams{
		Category:     *category,
		CreatedSince: *since,
		Page:         *page,
		Limit:        *limit,
	})
	if err != nil {
		return err
	}
	for _, cs := range mp.Cases {
		fmt.Printf("%s  %-22s  %s\n", cs.ID, cs.Category, cs.Title)
	}
	fmt.Printf("%d open cases\n", mp.Total)
	return nil
}

func (a *app) createCase(ctx context.Context, args []string) error {
	if !a.allow("/create-case") {
		return nil
	}
	fs := flag.NewFlagSet("create-case", flag.ExitOnError)
	title := fs.String("title", "", "case title")
	category := fs.String("category", "", "case category")
	description := fs.String("description", "", "case description")
	fs.Parse(args)

	cs, err := a.ctrl.Cases.Create(ctx, models.CreateCaseRequest{
		Title:       *title,
		Category:    *category,
		Description: *description,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created case %s\n", cs.ID)
	return nil
}

func (a *app) caseDetail(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: lawctl case <id>")
	}
	if !a.allow("/cases/" + args[0]) {
		return nil
	}

	detail, err := a.ctrl.LoadCaseDetail(ctx, args[0])
	if err != nil {
		return err
	}
	if detail.NotFound {
		fmt.Println("case not found")
		return nil
	}

	cs := detail.Case
	fmt.Printf("%s  [%s]\n%s\n\n%s\n\n", cs.Title, cs.Status, cs.Category, cs.Description)

	fmt.Println("documents:")
	for _, d := range detail.Documents {
		if d.CanDownload {
			fmt.Printf("  %s  %s\n", d.File.ID, d.File.OriginalName)
		} else {
			fmt.Printf("  %s  %s (no access)\n", d.File.ID, d.File.OriginalName)
		}
	}

	fmt.Println("quotes:")
	for _, q := range detail.Quotes {
		line := fmt.Sprintf("  %s  $%.2f in %d days [%s]", q.Quote.ID, q.Quote.Amount, q.Quote.ExpectedDays, q.Quote.Status)
		if q.AcceptedBadge {
			line += "  ✓ accepted"
		}
		if q.CanAcceptAndPay {
			line += "  accept & pay: lawctl checkout " + cs.ID.String() + " " + q.Quote.ID.String()
		}
		fmt.Println(line)
	}
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: lawctl upload <caseID> <file>...")
	}
	if !a.allow("/cases/" + args[0]) {
		return nil
	}

	var ups []api.Upload
	for _, p := range args[1:] {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		ups = append(ups, api.Upload{Name: f.Name(), Content: f})
	}

	out, err := a.ctrl.Cases.UploadFiles(ctx, args[0], ups)
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %d file(s)\n", len(out))
	return nil
}

func (a *app) download(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: lawctl download <fileID>")
	}

	handle, err := a.files.SecureURL(ctx, args[0])
	if err != nil {
		return err
	}
	loc, err := handle.Location(args[0])
	if err != nil {
		return err
	}
	if handle.Token == "" {
		fmt.Println(loc)
		return nil
	}

	data, err := a.files.Download(ctx, args[0], handle.Token)
	if err != nil {
		return err
	}
	out := args[0] + ".download"
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("saved %d bytes to %s\n", len(data), out)
	return nil
}

/* ================================ Quotes =============================== */

func (a *app) quote(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: lawctl quote <caseID> -amount N -days N [-note ...]")
	}
	caseID := args[0]
	if !a.allow("/cases/" + caseID + "/quote") {
		return nil
	}

	fs := flag.NewFlagSet("quote", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "quote amount")
	days := fs.Int("days", 0, "expected duration in days")
	note := fs.String("note", "", "optional note")
	fs.Parse(args[1:])

	form, err := a.ctrl.LoadQuoteForm(ctx, caseID)
	if err != nil {
		return err
	}
	if form.NotFound {
		fmt.Println("case not found")
		return nil
	}
	if !form.CanSubmit {
		fmt.Println("case is not open for quotes")
		return nil
	}

	q, err := a.ctrl.SubmitQuote(ctx, form, models.QuoteRequest{
		Amount:       *amount,
		ExpectedDays: *days,
		Note:         *note,
	})
	if err != nil {
		return err
	}
	if form.Existing != nil {
		fmt.Printf("quote %s updated\n", q.ID)
	} else {
		fmt.Printf("quote %s submitted\n", q.ID)
	}
	return nil
}

func (a *app) myQuotes(ctx context.Context, args []string) error {
	if !a.allow("/my-quotes") {
		return nil
	}
	fs := flag.NewFlagSet("my-quotes", flag.ExitOnError)
	status := fs.String("status", "", "proposed | accepted | rejected")
	page := fs.Int("page", 1, "page")
	limit := fs.Int("limit", 10, "page size")
	fs.Parse(args)

	pg, err := a.ctrl.LoadMyQuotes(ctx, models.QuoteListParams{Status: *status, Page: *page, Limit: *limit})
	if err != nil {
		return err
	}
	for _, q := range pg.Items {
		fmt.Printf("%s  case %s  $%.2f in %d days [%s]\n", q.ID, q.CaseID, q.Amount, q.ExpectedDays, q.Status)
	}
	fmt.Printf("%d total\n", pg.Total)
	return nil
}

/* =============================== Checkout ============================== */

func (a *app) checkout(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: lawctl checkout <caseID> <quoteID> [-pm pm_...]")
	}
	caseID, quoteID := args[0], args[1]
	if !a.allow("/cases/" + caseID + "/checkout/" + quoteID) {
		return nil
	}

	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	pm := fs.String("pm", "pm_card_visa", "payment method id")
	fs.Parse(args[2:])

	co, err := a.ctrl.LoadCheckout(ctx, caseID, quoteID)
	if err != nil {
		return err
	}
	fmt.Printf("paying $%.2f for %q\n", co.Quote.Amount, co.Case.Title)

	pay, err := a.ctrl.Pay(ctx, co, *pm)
	if err != nil {
		return err
	}
	fmt.Printf("payment %s: %s\n", pay.ID, pay.Status)
	return nil
}

func usage() {
	fmt.Println(`lawctl - legal marketplace client

auth:
  signup -role client|lawyer -email ... -password ... [-name ...] [-jurisdiction XX] [-bar ...]
  login -email ... -password ...
  logout | me

client:
  create-case -title ... -category ... [-description ...]
  my-cases | case <id> | upload <caseID> <file>... | checkout <caseID> <quoteID>

lawyer:
  marketplace [-category ...] [-since ...] | my-quotes [-status ...]
  quote <caseID> -amount N -days N [-note ...]

files:
  download <fileID>`)
}

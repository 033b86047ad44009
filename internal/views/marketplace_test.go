package views

import (
	"context"
	"strings"
	"testing"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

func TestLoadMarketplaceDefaultsAndRedaction(t *testing.T) {
	app := newBackend(t)
	ctx := context.Background()
	client := signedUp(t, app, models.RoleClient, "client@example.com")
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")

	if _, err := client.ctrl.Cases.Create(ctx, models.CreateCaseRequest{
		Title:       "Divorce proceedings",
		Category:    "Family Law",
		Description: "Urgent, call me on +65 9123 4567 anytime.",
	}); err != nil {
		t.Fatalf("create case: %v", err)
	}

	mp, err := lawyer.ctrl.LoadMarketplace(ctx, models.CaseListParams{})
	if err != nil {
		t.Fatalf("load marketplace: %v", err)
	}
	if mp.Page != 1 || mp.Limit != 10 {
		t.Fatalf("expected default paging, got page=%d limit=%d", mp.Page, mp.Limit)
	}
	if mp.Total != 1 || len(mp.Cases) != 1 {
		t.Fatalf("expected the open case to be listed, got %+v", mp)
	}
	if strings.Contains(mp.Cases[0].Description, "9123") {
		t.Fatalf("marketplace listing leaked a phone number: %q", mp.Cases[0].Description)
	}
}

func TestLoadMyQuotes(t *testing.T) {
	app := newBackend(t)
	ctx := context.Background()
	client := signedUp(t, app, models.RoleClient, "client@example.com")
	lawyer := signedUp(t, app, models.RoleLawyer, "lawyer@example.com")

	cs := postCase(t, client)
	postQuote(t, lawyer, cs.ID, 1100)

	page, err := lawyer.ctrl.LoadMyQuotes(ctx, models.QuoteListParams{})
	if err != nil {
		t.Fatalf("load my quotes: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("expected one quote, got %+v", page)
	}
	if page.Items[0].CaseID != cs.ID {
		t.Fatalf("quote bound to wrong case: %+v", page.Items[0])
	}
}

func TestFilterOptionsAreStable(t *testing.T) {
	if CategoryOptions[0].Value != "" {
		t.Fatal("first category option must mean no filter")
	}
	if TimeFilterOptions[0].Value != "" {
		t.Fatal("first time option must mean no filter")
	}
	for _, o := range TimeFilterOptions[1:] {
		if !strings.HasSuffix(o.Value, "Z") {
			t.Fatalf("time filter value %q is not an ISO timestamp", o.Value)
		}
	}
}

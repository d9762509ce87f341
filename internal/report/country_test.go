package report_test

import (
	"testing"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/report"
)

func TestByCountry(t *testing.T) {
	leads := []domain.Lead{
		{Country: "UAE", Verified: true, Interest: "wholesale"},
		{Country: "UAE", Verified: false, Interest: "retail"},
		{Country: "UAE", Verified: true},
		{Country: "Canada", Verified: true, Interest: "wholesale"},
		{Country: ""},
	}

	got := report.ByCountry(leads)

	if got.TotalLeads != 5 || got.TotalCountries != 3 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	first := got.Rankings[0]
	if first.Country != "UAE" || first.Rank != 1 || first.Total != 3 {
		t.Errorf("expected UAE ranked first with 3 leads, got %+v", first)
	}
	if first.Verified != 2 || first.Wholesale != 1 || first.Retail != 1 {
		t.Errorf("unexpected UAE aggregates: %+v", first)
	}
	if first.VerificationRate != "66.7%" {
		t.Errorf("expected 66.7%%, got %q", first.VerificationRate)
	}

	var unknown *report.CountryRanking
	for i := range got.Rankings {
		if got.Rankings[i].Country == "Unknown" {
			unknown = &got.Rankings[i]
		}
	}
	if unknown == nil || unknown.Total != 1 {
		t.Errorf("expected Unknown bucket with 1 lead, got %+v", unknown)
	}

	if got.RegionalSummary["gcc"] != 3 {
		t.Errorf("expected gcc total 3, got %d", got.RegionalSummary["gcc"])
	}
	if got.RegionalSummary["americas"] != 1 {
		t.Errorf("expected americas total 1, got %d", got.RegionalSummary["americas"])
	}
	if got.RegionalSummary["europe"] != 0 {
		t.Errorf("expected europe total 0, got %d", got.RegionalSummary["europe"])
	}
}

func TestByCountry_SubstringRegionMatch(t *testing.T) {
	got := report.ByCountry([]domain.Lead{{Country: "United Arab Emirates (UAE)"}})
	if got.RegionalSummary["gcc"] != 1 {
		t.Errorf("expected substring match into gcc, got %d", got.RegionalSummary["gcc"])
	}
}

func TestByCountry_Empty(t *testing.T) {
	got := report.ByCountry(nil)
	if !got.Success || got.TotalCountries != 0 || len(got.Rankings) != 0 {
		t.Errorf("expected empty report, got %+v", got)
	}
}

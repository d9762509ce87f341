package report_test

import (
	"testing"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/report"
)

func TestFlavorRankings(t *testing.T) {
	leads := []domain.Lead{
		{Flavor: "Maple"},
		{Flavor: "Maple"},
		{Flavor: "Original"},
		{Flavor: ""},
	}

	got := report.FlavorRankings(leads)

	if got.TotalLeads != 4 || len(got.Rankings) != 3 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	first := got.Rankings[0]
	if first.Flavor != "Maple" || first.Rank != 1 || first.Count != 2 || first.Percentage != "50.0" {
		t.Errorf("unexpected top flavor: %+v", first)
	}
	for _, r := range got.Rankings {
		if r.Flavor == "Unknown" && r.Count != 1 {
			t.Errorf("expected Unknown count 1, got %d", r.Count)
		}
	}
}

func TestFlavorRankings_Empty(t *testing.T) {
	got := report.FlavorRankings(nil)
	if !got.Success || len(got.Rankings) != 0 {
		t.Errorf("expected empty report, got %+v", got)
	}
}

func TestFlavorByCountry(t *testing.T) {
	leads := []domain.Lead{
		{Country: "UAE", Flavor: "Maple"},
		{Country: "UAE", Flavor: "Maple"},
		{Country: "UAE", Flavor: "Original"},
		{Country: "Canada", Flavor: "Original"},
	}

	got := report.FlavorByCountry(leads)

	if got.TotalCountries != 2 {
		t.Fatalf("expected 2 countries, got %d", got.TotalCountries)
	}
	uae := got.Data[0]
	if uae.Country != "UAE" || uae.TotalLeads != 3 {
		t.Fatalf("expected UAE first, got %+v", uae)
	}
	if uae.TopFlavor != "Maple" {
		t.Errorf("expected top flavor Maple, got %q", uae.TopFlavor)
	}
	if len(uae.FlavorBreakdown) != 2 || uae.FlavorBreakdown[0].Count != 2 {
		t.Errorf("unexpected breakdown: %+v", uae.FlavorBreakdown)
	}
}

package report_test

import (
	"testing"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/report"
)

func TestDailySummary(t *testing.T) {
	inventory := []domain.InventoryItem{
		{Flavor: "Maple", Total: 200, Remaining: 50},
		{Flavor: "Original", Total: 100, Remaining: 100},
	}

	got := report.DailySummary("2026-03-02", 75, inventory)

	if got.Date != "2026-03-02" || got.TotalLeads != 75 {
		t.Fatalf("unexpected header: %+v", got)
	}
	maple := got.Flavors[0]
	if maple.Distributed != 150 || maple.Remaining != 50 || maple.PercentageUsed != 75 {
		t.Errorf("unexpected maple stock: %+v", maple)
	}
	if got.Flavors[1].Distributed != 0 || got.Flavors[1].PercentageUsed != 0 {
		t.Errorf("unexpected original stock: %+v", got.Flavors[1])
	}
	if got.TotalDistributed != 150 {
		t.Errorf("expected 150 distributed, got %d", got.TotalDistributed)
	}
}

func TestDailySummary_GuardsBadCounts(t *testing.T) {
	// Remaining above total never reports negative distribution.
	got := report.DailySummary("2026-03-02", 0, []domain.InventoryItem{
		{Flavor: "Maple", Total: 10, Remaining: 12},
	})
	if got.Flavors[0].Distributed != 0 {
		t.Errorf("expected clamped distribution, got %d", got.Flavors[0].Distributed)
	}
}

func TestDailySummary_EmptyInventory(t *testing.T) {
	got := report.DailySummary("2026-03-02", 5, nil)
	if !got.Success || len(got.Flavors) != 0 || got.TotalDistributed != 0 {
		t.Errorf("unexpected report: %+v", got)
	}
}

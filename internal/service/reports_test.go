package service

import (
	"context"
	"testing"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/cache"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"

	"go.uber.org/zap"
)

func newReports(store *mockLeadStore, inv *mockInventoryStore) *Reports {
	if inv == nil {
		inv = &mockInventoryStore{}
	}
	s := NewReports(store, inv, cache.New[any](time.Minute), observability.NewMetrics(), zap.NewNop())
	// 12:00 UTC = 16:00 in Dubai on 2026-03-02.
	s.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestReportsHotLeads_UsesCache(t *testing.T) {
	store := &mockLeadStore{leads: []domain.Lead{
		{ID: "1", FirstName: "Ali", Interest: "wholesale", Verified: true, Company: "Gulf Foods", JobTitle: "Buyer", Country: "UAE"},
	}}
	s := newReports(store, nil)

	first, err := s.HotLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Summary.HotLeads != 1 {
		t.Errorf("unexpected summary: %+v", first.Summary)
	}

	second, err := s.HotLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listCalls != 1 {
		t.Errorf("expected cached second call, store hit %d times", store.listCalls)
	}
	if second.Summary != first.Summary {
		t.Errorf("cached result differs: %+v vs %+v", second.Summary, first.Summary)
	}
}

func TestReportsByHour_DateFilter(t *testing.T) {
	store := &mockLeadStore{}
	s := newReports(store, nil)

	if _, err := s.ByHour(context.Background(), "2026-03-02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := store.lastQuery
	if len(q.Filters) != 2 {
		t.Fatalf("expected 2 date filters, got %+v", q.Filters)
	}
	// Dubai midnight 2026-03-02 is 2026-03-01T20:00:00 UTC.
	if q.Filters[0].Op != "gte" || q.Filters[0].Value != "2026-03-01T20:00:00" {
		t.Errorf("unexpected lower bound: %+v", q.Filters[0])
	}
	if q.Filters[1].Op != "lt" || q.Filters[1].Value != "2026-03-02T20:00:00" {
		t.Errorf("unexpected upper bound: %+v", q.Filters[1])
	}
}

func TestReportsByHour_BadDate(t *testing.T) {
	s := newReports(&mockLeadStore{}, nil)

	_, err := s.ByHour(context.Background(), "03/02/2026")
	if _, ok := err.(*domain.ErrValidation); !ok {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestReportsGoalTracker(t *testing.T) {
	store := &mockLeadStore{leads: []domain.Lead{{ID: "1"}, {ID: "2"}}}
	inv := &mockInventoryStore{items: []domain.InventoryItem{
		{Flavor: "Maple", Total: 100, Remaining: 40},
	}}
	s := newReports(store, inv)

	got, err := s.GoalTracker(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Goals["samples_distributed"].Current != 60 {
		t.Errorf("expected 60 samples distributed, got %+v", got.Goals["samples_distributed"])
	}
	if got.Date != "2026-03-02" {
		t.Errorf("unexpected date %q", got.Date)
	}
}

func TestReportsDailySummary_DefaultsToToday(t *testing.T) {
	store := &mockLeadStore{leads: []domain.Lead{{ID: "1"}}}
	inv := &mockInventoryStore{items: []domain.InventoryItem{{Flavor: "Maple", Total: 10, Remaining: 5}}}
	s := newReports(store, inv)

	got, err := s.DailySummary(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2026-03-02" || got.TotalLeads != 1 {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestReportsExportLeads_Filters(t *testing.T) {
	store := &mockLeadStore{}
	s := newReports(store, nil)

	_, err := s.ExportLeads(context.Background(), ExportQuery{
		Country:      "uae",
		Interest:     "wholesale",
		VerifiedOnly: true,
		DateFrom:     "2026-03-01",
		DateTo:       "2026-03-02",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := store.lastQuery
	if len(q.Filters) != 5 {
		t.Fatalf("expected 5 filters, got %+v", q.Filters)
	}
	if q.Filters[0].Field != "country" || q.Filters[0].Op != "ilike" || q.Filters[0].Value != "%uae%" {
		t.Errorf("unexpected country filter: %+v", q.Filters[0])
	}
	if q.OrderBy != "created_at" || !q.Descending {
		t.Errorf("expected newest-first ordering, got %+v", q)
	}
}

func TestReportsExportLeads_BadDate(t *testing.T) {
	s := newReports(&mockLeadStore{}, nil)

	_, err := s.ExportLeads(context.Background(), ExportQuery{DateFrom: "yesterday"})
	if _, ok := err.(*domain.ErrValidation); !ok {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

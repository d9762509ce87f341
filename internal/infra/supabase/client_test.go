package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/infra/resilience"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.Client(), srv.URL, "test-key", "test-role-key",
		resilience.NewCircuitBreaker("test"),
		resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond},
		observability.NewMetrics(),
		zap.NewNop(),
	)
	return c, srv
}

func TestEncodeQuery(t *testing.T) {
	q := domain.LeadQuery{
		Select: []string{"id", "first_name"},
		Filters: []domain.LeadFilter{
			{Field: "first_name", Op: "ilike", Value: "%ahmed%"},
			{Field: "verified", Op: "eq", Value: "true"},
		},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      10,
	}

	got := encodeQuery(q)
	want := "first_name=ilike.%25ahmed%25&limit=10&order=created_at.desc&select=id%2Cfirst_name&verified=eq.true"
	if got != want {
		t.Errorf("encodeQuery = %q, want %q", got, want)
	}

	if encodeQuery(domain.LeadQuery{}) != "" {
		t.Error("empty query must encode to empty string")
	}
}

func TestEncodeQuery_DateRange(t *testing.T) {
	// gte and lt land on the same column; both must survive encoding.
	q := domain.LeadQuery{
		Filters: []domain.LeadFilter{
			{Field: "created_at", Op: "gte", Value: "2026-02-04T06:00:00"},
			{Field: "created_at", Op: "lt", Value: "2026-02-04T20:00:00"},
		},
	}

	got := encodeQuery(q)
	want := "created_at=gte.2026-02-04T06%3A00%3A00&created_at=lt.2026-02-04T20%3A00%3A00"
	if got != want {
		t.Errorf("encodeQuery = %q, want %q", got, want)
	}
}

func TestListLeads(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("missing apikey header")
		}
		if r.Header.Get("Authorization") != "Bearer test-role-key" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[{"id":"l1","first_name":"Ahmed","verified":true,"created_at":"2026-03-01T08:00:00Z"}]`))
	})

	leads, err := c.ListLeads(context.Background(), domain.LeadQuery{
		Filters: []domain.LeadFilter{{Field: "verified", Op: "eq", Value: "true"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 1 || leads[0].ID != "l1" || !leads[0].Verified {
		t.Errorf("unexpected leads: %+v", leads)
	}
	if leads[0].CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
	if gotPath != "/rest/v1/leads?verified=eq.true" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestParseCreatedAt(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-01T08:00:00Z", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"2026-03-01T08:00:00+04:00", time.Date(2026, 3, 1, 8, 0, 0, 0, time.FixedZone("", 4*3600))},
		{"2026-03-01T08:00:00.123456", time.Date(2026, 3, 1, 8, 0, 0, 123456000, time.UTC)},
		{"2026-03-01T08:00:00", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseCreatedAt(tc.in)
		if err != nil {
			t.Errorf("parseCreatedAt(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("parseCreatedAt(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := parseCreatedAt("yesterday"); err == nil {
		t.Error("expected error for garbage timestamp")
	}
}

func TestListLeads_FractionalCreatedAt(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","first_name":"Ahmed","created_at":"2026-03-01T08:00:00.123456"}]`))
	})

	leads, err := c.ListLeads(context.Background(), domain.LeadQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 1, 8, 0, 0, 123456000, time.UTC)
	if !leads[0].CreatedAt.Equal(want) {
		t.Errorf("created_at = %v, want %v", leads[0].CreatedAt, want)
	}
}

func TestListLeads_UpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	})

	_, err := c.ListLeads(context.Background(), domain.LeadQuery{})
	var upstream *domain.ErrUpstream
	if !errors.As(err, &upstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if upstream.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", upstream.Status)
	}
}

func TestUpdateLeadNotes(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.RequestURI()
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.UpdateLeadNotes(context.Background(), "l1", "note text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/rest/v1/leads?id=eq.l1" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestGetTemplate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RequestURI() != "/rest/v1/message_templates?name=eq.staff_notification&active=eq.true&limit=1" {
			t.Errorf("unexpected path %q", r.URL.RequestURI())
		}
		w.Write([]byte(`[{"id":"t1","name":"staff_notification","body":"Hi {{first_name}}","active":true}]`))
	})

	tmpl, err := c.GetTemplate(context.Background(), "staff_notification")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.Body != "Hi {{first_name}}" {
		t.Errorf("unexpected template: %+v", tmpl)
	}
}

func TestGetTemplate_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := c.GetTemplate(context.Background(), "missing")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

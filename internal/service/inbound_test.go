package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"

	"go.uber.org/zap"
)

var testStaff = map[string]string{
	"971501168462": "Taona",
	"16476480066":  "Naheed",
}

func newInbound(store *mockLeadStore) *Inbound {
	s := NewInbound(store, testStaff, observability.NewMetrics(), zap.NewNop())
	// 08:30 UTC = 12:30 in Dubai on 2026-03-02.
	s.now = func() time.Time { return time.Date(2026, 3, 2, 8, 30, 45, 0, time.UTC) }
	return s
}

func inboundMsg(from, text string) []byte {
	return []byte(`{"from": "` + from + `", "message": "` + text + `"}`)
}

func TestHandleMessage_NoteAdded(t *testing.T) {
	store := &mockLeadStore{leads: []domain.Lead{
		{ID: "l1", FirstName: "Ahmed", LastName: "Hassan", Notes: "existing note"},
	}}
	s := newInbound(store)

	got, err := s.HandleMessage(context.Background(), inboundMsg("+971501168462", "Ahmed: wants wholesale pricing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != domain.ActionNoteAdded || got.Lead != "Ahmed Hassan" {
		t.Errorf("unexpected result: %+v", got)
	}

	if store.updatedID != "l1" {
		t.Errorf("wrong lead updated: %q", store.updatedID)
	}
	if !strings.HasPrefix(store.updatedNote, "existing note\n[") {
		t.Errorf("note not appended: %q", store.updatedNote)
	}
	if !strings.Contains(store.updatedNote, "via Taona] wants wholesale pricing") {
		t.Errorf("attribution missing: %q", store.updatedNote)
	}
	// 08:30:45 UTC is 12:30:45 PM in Dubai.
	if !strings.Contains(store.updatedNote, "3/2/2026, 12:30:45 PM") {
		t.Errorf("timestamp not booth local: %q", store.updatedNote)
	}

	q := store.lastQuery
	if len(q.Filters) != 1 || q.Filters[0].Value != "%Ahmed%" {
		t.Errorf("unexpected search filter: %+v", q.Filters)
	}
	if q.Limit != 10 || !q.Descending {
		t.Errorf("unexpected query shape: %+v", q)
	}
}

func TestHandleMessage_LastNameNarrowing(t *testing.T) {
	store := &mockLeadStore{leads: []domain.Lead{
		{ID: "l1", FirstName: "Ahmed", LastName: "Khan"},
		{ID: "l2", FirstName: "Ahmed", LastName: "Hassan"},
	}}
	s := newInbound(store)

	got, err := s.HandleMessage(context.Background(), inboundMsg("971501168462", "Ahmed Hassan: met at booth"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lead != "Ahmed Hassan" || store.updatedID != "l2" {
		t.Errorf("last-name narrowing failed: %+v updated=%q", got, store.updatedID)
	}
}

func TestHandleMessage_Unauthorized(t *testing.T) {
	store := &mockLeadStore{}
	s := newInbound(store)

	got, err := s.HandleMessage(context.Background(), inboundMsg("15555550100", "Ahmed: note"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != domain.ActionUnauthorized || !got.Received {
		t.Errorf("unexpected result: %+v", got)
	}
	if store.listCalls != 0 {
		t.Error("store must not be queried for unauthorized senders")
	}
}

func TestHandleMessage_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		raw    []byte
		action string
	}{
		{"status callback", []byte(`{"entry":[{"changes":[{"value":{"statuses":[{}]}}]}]}`), domain.ActionIgnored},
		{"no colon", inboundMsg("971501168462", "just chatting"), domain.ActionNoNameFormat},
		{"empty name", inboundMsg("971501168462", ": note without name"), domain.ActionEmptyNameOrNote},
		{"empty note", inboundMsg("971501168462", "Ahmed:   "), domain.ActionEmptyNameOrNote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newInbound(&mockLeadStore{})
			got, err := s.HandleMessage(context.Background(), tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Action != tt.action {
				t.Errorf("expected action %q, got %q", tt.action, got.Action)
			}
		})
	}
}

func TestHandleMessage_NoLeadFound(t *testing.T) {
	s := newInbound(&mockLeadStore{})

	got, err := s.HandleMessage(context.Background(), inboundMsg("971501168462", "Zainab: follow up"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != domain.ActionNoLeadFound || got.Searched != "Zainab" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestHandleMessage_StoreError(t *testing.T) {
	store := &mockLeadStore{listErr: errors.New("connection refused")}
	s := newInbound(store)

	if _, err := s.HandleMessage(context.Background(), inboundMsg("971501168462", "Ahmed: note")); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

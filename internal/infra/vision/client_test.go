package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.Client(), "test-key", "claude-test-model", zap.NewNop())
	c.baseURL = srv.URL
	return c
}

func modelReply(text string) string {
	reply := map[string]any{"content": []map[string]string{{"type": "text", "text": text}}}
	raw, _ := json.Marshal(reply)
	return string(raw)
}

func TestExtract(t *testing.T) {
	var gotReq request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("missing version header")
		}
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotReq)
		w.Write([]byte(modelReply(`{"first_name":"Ahmed","last_name":"Hassan","company":"Gulf Foods","job_title":"Buyer","email":"a@gulf.example","phone":"+971501234567"}`)))
	})

	card, err := c.Extract(context.Background(), "data:image/png;base64,iVBORw0KGgo=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.FirstName != "Ahmed" || card.Company != "Gulf Foods" {
		t.Errorf("unexpected card: %+v", card)
	}

	if gotReq.Model != "claude-test-model" || gotReq.MaxTokens != maxTokens {
		t.Errorf("unexpected request: %+v", gotReq)
	}
	img := gotReq.Messages[0].Content[0].Source
	if img.MediaType != "image/png" || img.Data != "iVBORw0KGgo=" {
		t.Errorf("unexpected image source: %+v", img)
	}
}

func TestExtract_FencedReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply("```json\n{\"first_name\":\"Ahmed\"}\n```")))
	})

	card, err := c.Extract(context.Background(), "iVBORw0KGgo=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.FirstName != "Ahmed" {
		t.Errorf("unexpected card: %+v", card)
	}
}

func TestExtract_UnparseableReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(modelReply("The card shows Ahmed Hassan from Gulf Foods.")))
	})

	_, err := c.Extract(context.Background(), "iVBORw0KGgo=")
	var parse *domain.ErrParse
	if !errors.As(err, &parse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if parse.Raw == "" {
		t.Error("expected raw model text to survive")
	}
}

func TestExtract_MissingKey(t *testing.T) {
	c := NewClient(http.DefaultClient, "", "claude-test-model", zap.NewNop())

	_, err := c.Extract(context.Background(), "iVBORw0KGgo=")
	var cfg *domain.ErrConfiguration
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestSplitDataURL(t *testing.T) {
	tests := []struct {
		in, mediaType, data string
	}{
		{"data:image/png;base64,abc123", "image/png", "abc123"},
		{"data:image/jpeg;base64,abc123", "image/jpeg", "abc123"},
		{"base64,abc123", "image/jpeg", "abc123"},
		{"abc123", "image/jpeg", "abc123"},
	}
	for _, tt := range tests {
		mt, data := splitDataURL(tt.in)
		if mt != tt.mediaType || data != tt.data {
			t.Errorf("splitDataURL(%q) = %q/%q, want %q/%q", tt.in, mt, data, tt.mediaType, tt.data)
		}
	}
}

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/port"

	"go.uber.org/zap"
)

func TestSendGridSend(t *testing.T) {
	var gotAuth string
	var gotBody sendGridPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewSendGridClient(srv.Client(), "sg-key", "info@canadamade.com", "CanadaMade", zap.NewNop())
	c.baseURL = srv.URL

	err := c.Send(context.Background(), port.EmailMessage{
		To: "lead@example.com", ToName: "Ahmed",
		Subject:  "Your CanadaMade sample is ready",
		TextBody: "Hi Ahmed",
		HTMLBody: "<p>Hi Ahmed</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer sg-key" {
		t.Errorf("unexpected auth %q", gotAuth)
	}
	if gotBody.From.Email != "info@canadamade.com" || gotBody.From.Name != "CanadaMade" {
		t.Errorf("unexpected from: %+v", gotBody.From)
	}
	if len(gotBody.Personalizations) != 1 || gotBody.Personalizations[0].To[0].Email != "lead@example.com" {
		t.Errorf("unexpected recipients: %+v", gotBody.Personalizations)
	}
	if len(gotBody.Content) != 2 || gotBody.Content[0].Type != "text/plain" {
		t.Errorf("unexpected content: %+v", gotBody.Content)
	}
}

func TestSendGridSend_MissingKey(t *testing.T) {
	c := NewSendGridClient(http.DefaultClient, "", "info@canadamade.com", "CanadaMade", zap.NewNop())

	err := c.Send(context.Background(), port.EmailMessage{To: "lead@example.com"})
	var cfg *domain.ErrConfiguration
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestSendGridSend_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewSendGridClient(srv.Client(), "sg-key", "info@canadamade.com", "CanadaMade", zap.NewNop())
	c.baseURL = srv.URL

	err := c.Send(context.Background(), port.EmailMessage{To: "lead@example.com"})
	var upstream *domain.ErrUpstream
	if !errors.As(err, &upstream) || upstream.Status != http.StatusUnauthorized {
		t.Fatalf("expected ErrUpstream with 401, got %v", err)
	}
}

func TestTwilioSend(t *testing.T) {
	var gotPath string
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, _ := r.BasicAuth()
		if user != "AC123" || pass != "token" {
			t.Errorf("unexpected basic auth %s/%s", user, pass)
		}
		r.ParseForm()
		gotForm = map[string]string{
			"To":   r.PostForm.Get("To"),
			"From": r.PostForm.Get("From"),
			"Body": r.PostForm.Get("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewTwilioClient(srv.Client(), "AC123", "token", "+15550001111", zap.NewNop())
	c.baseURL = srv.URL

	if err := c.Send(context.Background(), "971501234567", "Your code is 123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotForm["To"] != "+971501234567" || gotForm["From"] != "+15550001111" {
		t.Errorf("unexpected form: %+v", gotForm)
	}
}

func TestWhatsAppSend(t *testing.T) {
	var gotURI, gotAuth string
	var gotPayload whatsAppPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotPayload)
		w.Write([]byte(`{"status":"sent"}`))
	}))
	defer srv.Close()

	c := NewWhatsAppClient(srv.Client(), srv.URL, "vendor-uid", "wa-token", "phone-id-1", zap.NewNop())

	if err := c.Send(context.Background(), "971501234567", "Ahmed", "Hi!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURI != "/vendor-uid/contact/send-message?token=wa-token" {
		t.Errorf("unexpected uri %q", gotURI)
	}
	if gotAuth != "Bearer wa-token" {
		t.Errorf("unexpected auth %q", gotAuth)
	}
	if gotPayload.PhoneNumber != "971501234567" || gotPayload.Contact.FirstName != "Ahmed" {
		t.Errorf("unexpected payload: %+v", gotPayload)
	}
	if gotPayload.Contact.LanguageCode != "en" || gotPayload.FromPhoneNumberID != "phone-id-1" {
		t.Errorf("unexpected payload: %+v", gotPayload)
	}
}

func TestWhatsAppSend_MissingToken(t *testing.T) {
	c := NewWhatsAppClient(http.DefaultClient, "https://gateway.example", "vendor", "", "phone", zap.NewNop())

	err := c.Send(context.Background(), "971501234567", "Ahmed", "Hi!")
	var cfg *domain.ErrConfiguration
	if !errors.As(err, &cfg) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

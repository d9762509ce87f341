// Package messaging holds the outbound delivery adapters: transactional
// email, SMS, WhatsApp, and the SMTP backup mailer.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("messaging")

const sendGridURL = "https://api.sendgrid.com/v3/mail/send"

// SendGridClient delivers transactional email through SendGrid
// (implements port.EmailSender).
type SendGridClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	fromEmail  string
	fromName   string
	logger     *zap.Logger
}

// NewSendGridClient creates a SendGrid email sender.
func NewSendGridClient(httpClient *http.Client, apiKey, fromEmail, fromName string, logger *zap.Logger) *SendGridClient {
	return &SendGridClient{
		httpClient: httpClient,
		baseURL:    sendGridURL,
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		logger:     logger,
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// Send delivers one email. SendGrid answers 202 on acceptance; anything
// else surfaces as an upstream error with the provider's status.
func (c *SendGridClient) Send(ctx context.Context, msg port.EmailMessage) error {
	ctx, span := tracer.Start(ctx, "SendGrid.Send")
	defer span.End()

	if c.apiKey == "" {
		return &domain.ErrConfiguration{Name: "Email service"}
	}

	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: msg.To, Name: msg.ToName}}},
		},
		From:    sendGridAddress{Email: c.fromEmail, Name: c.fromName},
		Subject: msg.Subject,
	}
	if msg.TextBody != "" {
		payload.Content = append(payload.Content, sendGridContent{Type: "text/plain", Value: msg.TextBody})
	}
	if msg.HTMLBody != "" {
		payload.Content = append(payload.Content, sendGridContent{Type: "text/html", Value: msg.HTMLBody})
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sendgrid: request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("sendgrid: non-2xx response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return &domain.ErrUpstream{Service: "sendgrid", Status: resp.StatusCode, Details: string(body)}
	}

	c.logger.Info("sendgrid: email sent", zap.String("to", msg.To))
	return nil
}

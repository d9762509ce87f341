package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.uber.org/zap"
)

// WhatsAppClient delivers WhatsApp messages through the gateway vendor
// (implements port.WhatsAppSender). The vendor authenticates twice: a
// token query parameter and the same token as a Bearer header.
type WhatsAppClient struct {
	httpClient  *http.Client
	baseURL     string
	vendorUID   string
	token       string
	fromPhoneID string
	logger      *zap.Logger
}

// NewWhatsAppClient creates a gateway WhatsApp sender.
func NewWhatsAppClient(httpClient *http.Client, baseURL, vendorUID, token, fromPhoneID string, logger *zap.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		httpClient:  httpClient,
		baseURL:     baseURL,
		vendorUID:   vendorUID,
		token:       token,
		fromPhoneID: fromPhoneID,
		logger:      logger,
	}
}

type whatsAppContact struct {
	FirstName    string `json:"first_name"`
	LanguageCode string `json:"language_code"`
}

type whatsAppPayload struct {
	FromPhoneNumberID string          `json:"from_phone_number_id"`
	PhoneNumber       string          `json:"phone_number"`
	MessageBody       string          `json:"message_body"`
	Contact           whatsAppContact `json:"contact"`
}

// Send delivers one WhatsApp message. to is digits with country code.
func (c *WhatsAppClient) Send(ctx context.Context, to, firstName, body string) error {
	ctx, span := tracer.Start(ctx, "WhatsApp.Send")
	defer span.End()

	if c.token == "" || c.vendorUID == "" || c.baseURL == "" {
		return &domain.ErrConfiguration{Name: "WhatsApp service"}
	}

	endpoint := fmt.Sprintf("%s/%s/contact/send-message?token=%s", c.baseURL, c.vendorUID, c.token)
	payload := whatsAppPayload{
		FromPhoneNumberID: c.fromPhoneID,
		PhoneNumber:       to,
		MessageBody:       body,
		Contact:           whatsAppContact{FirstName: firstName, LanguageCode: "en"},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("whatsapp: request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Warn("whatsapp: non-2xx response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return &domain.ErrUpstream{Service: "whatsapp", Status: resp.StatusCode, Details: string(respBody)}
	}

	c.logger.Info("whatsapp: message sent", zap.String("to", to))
	return nil
}

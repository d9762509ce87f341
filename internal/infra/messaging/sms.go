package messaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.uber.org/zap"
)

// TwilioClient delivers SMS through the Twilio REST API (implements
// port.SMSSender).
type TwilioClient struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	logger     *zap.Logger
}

// NewTwilioClient creates a Twilio SMS sender.
func NewTwilioClient(httpClient *http.Client, accountSID, authToken, fromNumber string, logger *zap.Logger) *TwilioClient {
	return &TwilioClient{
		httpClient: httpClient,
		baseURL:    "https://api.twilio.com",
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

// Send delivers one SMS. to is digits only; the + prefix is added here.
func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	ctx, span := tracer.Start(ctx, "Twilio.Send")
	defer span.End()

	if c.accountSID == "" || c.authToken == "" {
		return &domain.ErrConfiguration{Name: "SMS service"}
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	form := url.Values{}
	form.Set("To", "+"+to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("twilio: request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Warn("twilio: non-2xx response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return &domain.ErrUpstream{Service: "twilio", Status: resp.StatusCode, Details: string(respBody)}
	}

	c.logger.Info("twilio: sms sent", zap.String("to", to))
	return nil
}

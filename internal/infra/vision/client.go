// Package vision extracts structured contact data from business-card
// photos using the Anthropic messages API.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("vision")

const (
	anthropicURL     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	maxTokens        = 1024
)

// extractionPrompt asks for exactly the fields CardData carries. The
// model is told to leave unreadable fields empty rather than guess.
const extractionPrompt = `Extract the contact details from this business card. Respond with only a JSON object with these keys: first_name, last_name, company, job_title, email, phone. Use an empty string for anything you cannot read. Do not include any other text.`

// dataURLRe captures the media type and payload of a base64 data URL.
var dataURLRe = regexp.MustCompile(`^data:(image/\w+);base64,(.+)$`)

// Client calls the Anthropic messages API (implements
// port.CardExtractor).
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// NewClient creates a vision extraction client.
func NewClient(httpClient *http.Client, apiKey, model string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    anthropicURL,
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Extract sends the card image to the vision model and parses its JSON
// answer. A model reply that is not parseable JSON comes back as
// ErrParse carrying the raw text, which the handler reports without
// failing the request.
func (c *Client) Extract(ctx context.Context, image string) (*domain.CardData, error) {
	ctx, span := tracer.Start(ctx, "Vision.Extract")
	defer span.End()

	if c.apiKey == "" {
		return nil, &domain.ErrConfiguration{Name: "Vision service"}
	}

	mediaType, data := splitDataURL(image)

	reqBody := request{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: "image", Source: &imageSource{Type: "base64", MediaType: mediaType, Data: data}},
				{Type: "text", Text: extractionPrompt},
			},
		}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("vision: request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("vision: non-2xx response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, &domain.ErrUpstream{Service: "anthropic", Status: resp.StatusCode, Details: string(body)}
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, &domain.ErrParse{Raw: string(body)}
	}

	text := stripFences(parsed.Content[0].Text)

	var card domain.CardData
	if err := json.Unmarshal([]byte(text), &card); err != nil {
		c.logger.Warn("vision: unparseable extraction", zap.String("raw", text))
		return nil, &domain.ErrParse{Raw: parsed.Content[0].Text}
	}

	return &card, nil
}

// splitDataURL separates media type and base64 payload. Bare base64 is
// accepted and assumed to be a JPEG.
func splitDataURL(image string) (mediaType, data string) {
	if m := dataURLRe.FindStringSubmatch(image); m != nil {
		return m[1], m[2]
	}
	if idx := strings.Index(image, "base64,"); idx >= 0 {
		return "image/jpeg", image[idx+len("base64,"):]
	}
	return "image/jpeg", image
}

// stripFences removes a ```json ... ``` wrapper the model sometimes
// adds despite the prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

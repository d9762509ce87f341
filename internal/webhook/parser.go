// Package webhook parses inbound WhatsApp webhook deliveries. Providers
// disagree on payload shape, so extraction tries the Meta cloud format
// first and falls back to the flatter vendor and direct formats.
package webhook

import (
	"encoding/json"
	"strings"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// metaPayload is the Meta WhatsApp Cloud API delivery shape.
type metaPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// flatPayload covers the vendor gateway and direct test formats, which
// put sender and message at the top level under varying key names.
type flatPayload struct {
	From        string `json:"from"`
	PhoneNumber string `json:"phone_number"`
	Sender      string `json:"sender"`
	SenderPhone string `json:"sender_phone"`
	Message     string `json:"message"`
	Text        string `json:"text"`
	Body        string `json:"body"`
	MessageBody string `json:"message_body"`
}

// ExtractMessage pulls the sender phone and message text out of a raw
// webhook body. ok is false for status callbacks and anything else that
// carries no inbound message.
func ExtractMessage(raw []byte) (phone, text string, ok bool) {
	var meta metaPayload
	if err := json.Unmarshal(raw, &meta); err == nil {
		if len(meta.Entry) > 0 && len(meta.Entry[0].Changes) > 0 {
			msgs := meta.Entry[0].Changes[0].Value.Messages
			if len(msgs) > 0 && msgs[0].From != "" {
				return msgs[0].From, msgs[0].Text.Body, true
			}
		}
	}

	var flat flatPayload
	if err := json.Unmarshal(raw, &flat); err != nil {
		return "", "", false
	}
	phone = firstNonEmpty(flat.From, flat.PhoneNumber, flat.Sender, flat.SenderPhone)
	text = firstNonEmpty(flat.Message, flat.Text, flat.Body, flat.MessageBody)
	if phone == "" || text == "" {
		return "", "", false
	}
	return phone, text, true
}

// CleanPhone strips everything but digits so numbers compare regardless
// of +, spaces, or dashes.
func CleanPhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitNameNote splits a staff message of the form "Name: note text".
// ok is false when there is no colon at all; empty halves are returned
// as-is for the caller to reject.
func SplitNameNote(text string) (name, note string, ok bool) {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+1:]), true
}

// PickLead chooses among first-name matches. With a single name token
// the newest match wins. With more tokens the remainder is matched
// against last names, falling back to the newest match when nobody's
// last name fits.
func PickLead(candidates []domain.Lead, nameTokens []string) *domain.Lead {
	if len(candidates) == 0 {
		return nil
	}
	if len(nameTokens) > 1 {
		rest := strings.ToLower(strings.Join(nameTokens[1:], " "))
		for i := range candidates {
			if strings.Contains(strings.ToLower(candidates[i].LastName), rest) {
				return &candidates[i]
			}
		}
	}
	return &candidates[0]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

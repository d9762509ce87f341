package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// createdAtLayouts covers the timestamp shapes PostgREST emits for a
// timestamptz column: full RFC 3339, and fractional or whole seconds
// without a zone suffix (implicitly UTC).
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseCreatedAt(s string) (time.Time, error) {
	var err error
	for _, layout := range createdAtLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// supabaseLead maps the leads table columns to our domain. created_at
// arrives as an ISO string in UTC, sometimes without the timezone suffix.
type supabaseLead struct {
	ID               string `json:"id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	WhatsAppNumber   string `json:"whatsapp_number"`
	Company          string `json:"company"`
	JobTitle         string `json:"job_title"`
	Country          string `json:"country"`
	City             string `json:"city"`
	Interest         string `json:"interest"`
	Flavor           string `json:"flavor"`
	CommPreference   string `json:"comm_preference"`
	Verified         bool   `json:"verified"`
	VerificationCode string `json:"verification_code"`
	BoothNotified    bool   `json:"booth_notified"`
	Notes            string `json:"notes"`
	CreatedAt        string `json:"created_at"`
}

func (r *supabaseLead) toDomain(logger *zap.Logger) domain.Lead {
	created, err := parseCreatedAt(r.CreatedAt)
	if err != nil && r.CreatedAt != "" {
		// Zero time mis-buckets the lead in every report, so make the
		// bad row visible instead of hiding it.
		logger.Warn("supabase: unparseable created_at",
			zap.String("lead_id", r.ID),
			zap.String("created_at", r.CreatedAt),
			zap.Error(err),
		)
	}
	return domain.Lead{
		ID:               r.ID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		WhatsAppNumber:   r.WhatsAppNumber,
		Company:          r.Company,
		JobTitle:         r.JobTitle,
		Country:          r.Country,
		City:             r.City,
		Interest:         r.Interest,
		Flavor:           r.Flavor,
		CommPreference:   r.CommPreference,
		Verified:         r.Verified,
		VerificationCode: r.VerificationCode,
		BoothNotified:    r.BoothNotified,
		Notes:            r.Notes,
		CreatedAt:        created,
	}
}

// ListLeads fetches leads matching the query (implements port.LeadStore).
func (c *Client) ListLeads(ctx context.Context, q domain.LeadQuery) ([]domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListLeads")
	defer span.End()
	span.SetAttributes(attribute.Int("query.filters", len(q.Filters)))

	var leads []domain.Lead

	err := c.execute(ctx, func() error {
		path := "leads"
		if params := encodeQuery(q); params != "" {
			path += "?" + params
		}
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}

		var rows []supabaseLead
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode leads: %w", err)
		}

		leads = make([]domain.Lead, 0, len(rows))
		for i := range rows {
			leads = append(leads, rows[i].toDomain(c.logger))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return leads, nil
}

// UpdateLeadNotes replaces the notes column of one lead (implements
// port.LeadStore). Callers append to the value they last read; two
// staff writing the same lead at once can lose a note, which we accept
// for booth-scale traffic.
func (c *Client) UpdateLeadNotes(ctx context.Context, leadID, notes string) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateLeadNotes")
	defer span.End()
	span.SetAttributes(attribute.String("lead.id", leadID))

	return c.execute(ctx, func() error {
		path := fmt.Sprintf("leads?id=eq.%s", url.QueryEscape(leadID))
		return c.doPatch(ctx, path, map[string]any{"notes": notes})
	})
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.uber.org/zap"
)

// supabaseContact maps the contacts table columns.
type supabaseContact struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	JobTitle   string `json:"job_title"`
	Country    string `json:"country"`
	LeadStatus string `json:"lead_status"`
	LeadScore  int    `json:"lead_score"`
	CreatedAt  string `json:"created_at"`
}

// ListContacts fetches all CRM contacts, newest first (implements
// port.ContactStore).
func (c *Client) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListContacts")
	defer span.End()

	var contacts []domain.Contact

	err := c.execute(ctx, func() error {
		body, err := c.doGet(ctx, "contacts?order=created_at.desc")
		if err != nil {
			return err
		}

		var rows []supabaseContact
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode contacts: %w", err)
		}

		contacts = make([]domain.Contact, 0, len(rows))
		for _, r := range rows {
			created, err := parseCreatedAt(r.CreatedAt)
			if err != nil && r.CreatedAt != "" {
				c.logger.Warn("supabase: unparseable created_at",
					zap.String("contact_id", r.ID),
					zap.String("created_at", r.CreatedAt),
					zap.Error(err),
				)
			}
			status := r.LeadStatus
			if status == "" {
				status = "new"
			}
			contacts = append(contacts, domain.Contact{
				ID:         r.ID,
				FirstName:  r.FirstName,
				LastName:   r.LastName,
				Email:      r.Email,
				Phone:      r.Phone,
				Company:    r.Company,
				JobTitle:   r.JobTitle,
				Country:    r.Country,
				LeadStatus: status,
				LeadScore:  r.LeadScore,
				CreatedAt:  created,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

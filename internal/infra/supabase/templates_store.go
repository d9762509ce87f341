package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// GetTemplate fetches one active message template by name (implements
// port.TemplateStore). Inactive templates are invisible so staff can
// stage drafts without them going out.
func (c *Client) GetTemplate(ctx context.Context, name string) (*domain.MessageTemplate, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTemplate")
	defer span.End()
	span.SetAttributes(attribute.String("template.name", name))

	var tmpl *domain.MessageTemplate

	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("message_templates?name=eq.%s&active=eq.true&limit=1", url.QueryEscape(name))
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}

		var rows []domain.MessageTemplate
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode template: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "template", ID: name}
		}

		tmpl = &rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tmpl, nil
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ListInventory fetches per-flavor sample stock for one expo day
// (implements port.InventoryStore). date is YYYY-MM-DD in booth local
// time.
func (c *Client) ListInventory(ctx context.Context, date string) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListInventory")
	defer span.End()
	span.SetAttributes(attribute.String("inventory.date", date))

	var items []domain.InventoryItem

	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("sample_inventory?select=flavor,total,remaining,date&date=eq.%s", url.QueryEscape(date))
		body, err := c.doGet(ctx, path)
		if err != nil {
			return err
		}

		if err := json.Unmarshal(body, &items); err != nil {
			return fmt.Errorf("failed to decode inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

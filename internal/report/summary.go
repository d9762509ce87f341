package report

import (
	"math"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// FlavorStock is one flavor's sample stock position for the day.
type FlavorStock struct {
	Name           string `json:"name"`
	Distributed    int    `json:"distributed"`
	Remaining      int    `json:"remaining"`
	Total          int    `json:"total"`
	PercentageUsed int    `json:"percentage_used"`
}

// DailySummaryReport combines the day's lead count with sample
// inventory burn-down.
type DailySummaryReport struct {
	Success          bool          `json:"success"`
	Date             string        `json:"date"`
	TotalLeads       int           `json:"total_leads"`
	Flavors          []FlavorStock `json:"flavors"`
	TotalDistributed int           `json:"total_distributed"`
}

// DailySummary derives per-flavor distribution from the inventory
// snapshot. Distributed is total minus remaining; the booth decrements
// remaining as samples go out.
func DailySummary(date string, leadCount int, inventory []domain.InventoryItem) DailySummaryReport {
	flavors := make([]FlavorStock, 0, len(inventory))
	totalDistributed := 0
	for _, item := range inventory {
		distributed := item.Total - item.Remaining
		if distributed < 0 {
			distributed = 0
		}
		used := 0
		if item.Total > 0 {
			used = int(math.Round(float64(distributed) / float64(item.Total) * 100))
		}
		flavors = append(flavors, FlavorStock{
			Name:           item.Flavor,
			Distributed:    distributed,
			Remaining:      item.Remaining,
			Total:          item.Total,
			PercentageUsed: used,
		})
		totalDistributed += distributed
	}

	return DailySummaryReport{
		Success:          true,
		Date:             date,
		TotalLeads:       leadCount,
		Flavors:          flavors,
		TotalDistributed: totalDistributed,
	}
}

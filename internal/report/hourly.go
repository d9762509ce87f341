package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// Expo floor opening hours in booth local time, inclusive.
const (
	expoOpenHour  = 10
	expoCloseHour = 18
)

// HourBucket is the lead count for one local-time hour of the day.
type HourBucket struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HourlyReport shows when leads arrive across the day.
type HourlyReport struct {
	Success         bool         `json:"success"`
	TotalLeads      int          `json:"total_leads"`
	Timezone        string       `json:"timezone"`
	HourlyBreakdown []HourBucket `json:"hourly_breakdown"`
	PeakHours       []HourBucket `json:"peak_hours"`
	ExpoHoursTotal  int          `json:"expo_hours_total"`
	Recommendation  string       `json:"recommendation"`
}

// ByHour buckets leads into 24 local-time hours. All 24 buckets are
// always present so charts render a full axis even on quiet days.
func ByHour(leads []domain.Lead) HourlyReport {
	buckets := make([]HourBucket, 24)
	for h := range buckets {
		buckets[h] = HourBucket{Hour: h, Label: hourLabel(h)}
	}

	for i := range leads {
		h := leads[i].CreatedAt.In(dubai).Hour()
		buckets[h].Count++
	}

	nonzero := make([]HourBucket, 0, 24)
	for _, b := range buckets {
		if b.Count > 0 {
			nonzero = append(nonzero, b)
		}
	}
	sort.SliceStable(nonzero, func(i, j int) bool { return nonzero[i].Count > nonzero[j].Count })
	if len(nonzero) > 3 {
		nonzero = nonzero[:3]
	}

	expoTotal := 0
	for h := expoOpenHour; h <= expoCloseHour; h++ {
		expoTotal += buckets[h].Count
	}

	recommendation := "Not enough data for recommendations"
	if len(nonzero) > 0 {
		labels := make([]string, 0, len(nonzero))
		for _, b := range nonzero {
			labels = append(labels, b.Label)
		}
		recommendation = "Staff up during " + strings.Join(labels, ", ")
	}

	return HourlyReport{
		Success:         true,
		TotalLeads:      len(leads),
		Timezone:        "Dubai (UTC+4)",
		HourlyBreakdown: buckets,
		PeakHours:       nonzero,
		ExpoHoursTotal:  expoTotal,
		Recommendation:  recommendation,
	}
}

func hourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

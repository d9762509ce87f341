package report

import (
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// DayStats are the headline counts for a single expo day.
type DayStats struct {
	Total     int `json:"total"`
	Verified  int `json:"verified"`
	Collected int `json:"collected"`
	Wholesale int `json:"wholesale"`
}

// MetricComparison is one metric across both days.
type MetricComparison struct {
	Today     int    `json:"today"`
	Yesterday int    `json:"yesterday"`
	Change    string `json:"change"`
}

// DailyComparisonReport compares today's booth performance with
// yesterday's.
type DailyComparisonReport struct {
	Success     bool                        `json:"success"`
	Dates       map[string]string           `json:"dates"`
	Today       DayStats                    `json:"today"`
	Yesterday   DayStats                    `json:"yesterday"`
	Comparison  map[string]MetricComparison `json:"comparison"`
	Performance string                      `json:"performance"`
	Insight     string                      `json:"insight"`
}

// TodayVsYesterday buckets leads by local date and compares the two
// days. now anchors which dates count as today and yesterday; leads
// outside both days are ignored.
func TodayVsYesterday(leads []domain.Lead, now time.Time) DailyComparisonReport {
	local := now.In(dubai)
	todayDate := local.Format("2006-01-02")
	yesterdayDate := local.AddDate(0, 0, -1).Format("2006-01-02")

	var today, yesterday DayStats
	for i := range leads {
		l := &leads[i]
		var d *DayStats
		switch LocalDate(l.CreatedAt) {
		case todayDate:
			d = &today
		case yesterdayDate:
			d = &yesterday
		default:
			continue
		}
		d.Total++
		if l.Verified {
			d.Verified++
		}
		if l.BoothNotified {
			d.Collected++
		}
		if l.Interest == string(domain.InterestWholesale) {
			d.Wholesale++
		}
	}

	performance, insight := assessPerformance(today.Total, yesterday.Total)

	return DailyComparisonReport{
		Success:   true,
		Dates:     map[string]string{"today": todayDate, "yesterday": yesterdayDate},
		Today:     today,
		Yesterday: yesterday,
		Comparison: map[string]MetricComparison{
			"leads":     {Today: today.Total, Yesterday: yesterday.Total, Change: changePct(today.Total, yesterday.Total)},
			"verified":  {Today: today.Verified, Yesterday: yesterday.Verified, Change: changePct(today.Verified, yesterday.Verified)},
			"collected": {Today: today.Collected, Yesterday: yesterday.Collected, Change: changePct(today.Collected, yesterday.Collected)},
			"wholesale": {Today: today.Wholesale, Yesterday: yesterday.Wholesale, Change: changePct(today.Wholesale, yesterday.Wholesale)},
		},
		Performance: performance,
		Insight:     insight,
	}
}

func assessPerformance(today, yesterday int) (string, string) {
	switch {
	case today >= yesterday:
		return "UP", "Today is outpacing yesterday. Keep the momentum going!"
	case float64(today) >= 0.8*float64(yesterday):
		return "STABLE", "Today is tracking close to yesterday's pace."
	default:
		return "DOWN", "Today is behind yesterday's pace. Consider more active outreach on the floor."
	}
}

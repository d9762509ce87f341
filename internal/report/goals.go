package report

import (
	"fmt"
	"math"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// Expo goal targets. Fixed for the event, not configuration.
const (
	goalDailyLeads     = 100
	goalDailyVerified  = 80
	goalDailyWholesale = 20
	goalTotalLeads     = 1000
	goalTotalSamples   = 1000
)

// GoalProgress is progress toward a single target.
type GoalProgress struct {
	Current    int    `json:"current"`
	Goal       int    `json:"goal"`
	Percentage string `json:"percentage"`
	Remaining  int    `json:"remaining"`
	Achieved   bool   `json:"achieved"`
}

// GoalProjection extrapolates today's lead rate over the remaining expo
// hours.
type GoalProjection struct {
	LeadsPerHour        string `json:"leads_per_hour"`
	HoursRemaining      int    `json:"hours_remaining"`
	ProjectedDailyTotal int    `json:"projected_daily_total"`
	WillHitDailyGoal    bool   `json:"will_hit_daily_goal"`
}

// GoalReport tracks expo targets with a same-day projection.
type GoalReport struct {
	Success         bool                    `json:"success"`
	Date            string                  `json:"date"`
	CurrentTime     string                  `json:"current_time"`
	Goals           map[string]GoalProgress `json:"goals"`
	OverallProgress string                  `json:"overall_progress"`
	Projection      GoalProjection          `json:"projection"`
	Motivation      string                  `json:"motivation"`
}

// GoalTracker measures today's and cumulative progress against the expo
// targets. totalLeads is the all-time lead count and samplesDistributed
// comes from the inventory table; both are fetched by the caller.
func GoalTracker(todayLeads []domain.Lead, totalLeads, samplesDistributed int, now time.Time) GoalReport {
	local := now.In(dubai)

	var verified, wholesale int
	for i := range todayLeads {
		if todayLeads[i].Verified {
			verified++
		}
		if todayLeads[i].Interest == string(domain.InterestWholesale) {
			wholesale++
		}
	}
	daily := len(todayLeads)

	goals := map[string]GoalProgress{
		"daily_leads":         progress(daily, goalDailyLeads),
		"daily_verified":      progress(verified, goalDailyVerified),
		"daily_wholesale":     progress(wholesale, goalDailyWholesale),
		"total_leads":         progress(totalLeads, goalTotalLeads),
		"samples_distributed": progress(samplesDistributed, goalTotalSamples),
	}

	overall := (cappedPct(daily, goalDailyLeads) +
		cappedPct(verified, goalDailyVerified) +
		cappedPct(totalLeads, goalTotalLeads)) / 3

	hour := local.Hour()
	hoursRemaining := expoCloseHour - hour
	if hoursRemaining < 0 {
		hoursRemaining = 0
	}
	rate := 0.0
	if hour > expoOpenHour {
		rate = float64(daily) / float64(hour-expoOpenHour)
	}
	projected := int(math.Round(float64(daily) + rate*float64(hoursRemaining)))

	return GoalReport{
		Success:         true,
		Date:            local.Format("2006-01-02"),
		CurrentTime:     local.Format(time.RFC3339),
		Goals:           goals,
		OverallProgress: fmt.Sprintf("%.1f%%", overall),
		Projection: GoalProjection{
			LeadsPerHour:        fmt.Sprintf("%.1f", rate),
			HoursRemaining:      hoursRemaining,
			ProjectedDailyTotal: projected,
			WillHitDailyGoal:    projected >= goalDailyLeads,
		},
		Motivation: motivation(overall),
	}
}

func progress(current, goal int) GoalProgress {
	return GoalProgress{
		Current:    current,
		Goal:       goal,
		Percentage: fmt.Sprintf("%.1f%%", cappedPct(current, goal)),
		Remaining:  max(0, goal-current),
		Achieved:   current >= goal,
	}
}

func cappedPct(current, goal int) float64 {
	if goal == 0 {
		return 0
	}
	return math.Min(100, float64(current)/float64(goal)*100)
}

func motivation(overall float64) string {
	switch {
	case overall >= 100:
		return "All goals smashed. Outstanding work, team!"
	case overall >= 75:
		return "Almost there. One final push!"
	case overall >= 50:
		return "Halfway mark passed. Keep it up!"
	case overall >= 25:
		return "Good start. Plenty of floor left to work."
	default:
		return "Early days. Get out there and scan some badges!"
	}
}

// Package report contains the aggregation reporters behind the analytics
// endpoints. Every reporter is a pure function over a slice of leads the
// service layer has already fetched, so the whole package is trivially
// testable without a store.
//
// All time bucketing uses booth local time (Dubai). created_at is stored
// in UTC and shifted here, never at the store.
package report

import (
	"fmt"
	"time"
)

var dubai = loadDubai()

func loadDubai() *time.Location {
	loc, err := time.LoadLocation("Asia/Dubai")
	if err != nil {
		// Containers without tzdata still get the correct fixed offset.
		return time.FixedZone("GST", 4*3600)
	}
	return loc
}

// Location returns the booth timezone used for all date bucketing.
func Location() *time.Location {
	return dubai
}

// LocalDate formats t as YYYY-MM-DD in booth local time.
func LocalDate(t time.Time) string {
	return t.In(dubai).Format("2006-01-02")
}

// pct renders n/d as a percentage string with one decimal and a % sign.
// A zero denominator reads as "0%" rather than NaN.
func pct(n, d int) string {
	if d == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(d)*100)
}

// changePct renders day-over-day movement as a signed percentage.
// Growth from zero is reported as +100% because a ratio is undefined.
func changePct(today, yesterday int) string {
	if yesterday == 0 {
		if today > 0 {
			return "+100%"
		}
		return "0%"
	}
	delta := float64(today-yesterday) / float64(yesterday) * 100
	return fmt.Sprintf("%+.1f%%", delta)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

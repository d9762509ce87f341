package report

import (
	"testing"
	"time"
)

func TestPct(t *testing.T) {
	tests := []struct {
		n, d int
		want string
	}{
		{0, 0, "0%"},
		{5, 0, "0%"},
		{1, 2, "50.0%"},
		{2, 3, "66.7%"},
		{3, 3, "100.0%"},
	}
	for _, tt := range tests {
		if got := pct(tt.n, tt.d); got != tt.want {
			t.Errorf("pct(%d, %d) = %q, want %q", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestChangePct(t *testing.T) {
	tests := []struct {
		today, yesterday int
		want             string
	}{
		{0, 0, "0%"},
		{5, 0, "+100%"},
		{10, 10, "+0.0%"},
		{15, 10, "+50.0%"},
		{5, 10, "-50.0%"},
	}
	for _, tt := range tests {
		if got := changePct(tt.today, tt.yesterday); got != tt.want {
			t.Errorf("changePct(%d, %d) = %q, want %q", tt.today, tt.yesterday, got, tt.want)
		}
	}
}

func TestLocalDate(t *testing.T) {
	// 22:30 UTC is 02:30 next day in Dubai.
	utc := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)
	if got := LocalDate(utc); got != "2026-03-02" {
		t.Errorf("LocalDate = %q, want 2026-03-02", got)
	}
}

func TestHourLabel(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{1, "1 AM"},
		{11, "11 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{23, "11 PM"},
	}
	for _, tt := range tests {
		if got := hourLabel(tt.hour); got != tt.want {
			t.Errorf("hourLabel(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

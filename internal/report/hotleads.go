package report

import (
	"sort"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/scoring"
)

const (
	hotListLimit    = 20
	scoredListLimit = 50
)

// ScoredLead is one lead annotated with its score for the priority lists.
// Display fields default to "-" so the booth tablet never renders blanks.
type ScoredLead struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Company   string      `json:"company"`
	JobTitle  string      `json:"job_title"`
	Country   string      `json:"country"`
	Interest  string      `json:"interest"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Flavor    string      `json:"flavor"`
	Notes     string      `json:"notes"`
	Verified  bool        `json:"verified"`
	Score     int         `json:"score"`
	Reasons   []string    `json:"reasons"`
	Priority  domain.Tier `json:"priority"`
	CreatedAt time.Time   `json:"created_at"`
}

// HotLeadsSummary counts leads per tier of interest.
type HotLeadsSummary struct {
	TotalLeads int `json:"total_leads"`
	HotLeads   int `json:"hot_leads"`
	WarmLeads  int `json:"warm_leads"`
}

// HotLeadsReport is the scored priority view for booth staff.
type HotLeadsReport struct {
	Success   bool            `json:"success"`
	Summary   HotLeadsSummary `json:"summary"`
	HotLeads  []ScoredLead    `json:"hot_leads"`
	WarmLeads []ScoredLead    `json:"warm_leads"`
	AllScored []ScoredLead    `json:"all_scored"`
}

// HotLeads scores every lead, sorts by score descending, and returns the
// top slices per tier. Ties keep insertion order so repeated calls over
// the same data agree.
func HotLeads(leads []domain.Lead) HotLeadsReport {
	scored := make([]ScoredLead, 0, len(leads))
	for i := range leads {
		l := &leads[i]
		r := scoring.Score(l)
		phone := l.Phone
		if phone == "" {
			phone = l.WhatsAppNumber
		}
		scored = append(scored, ScoredLead{
			ID:        l.ID,
			Name:      l.FullName(),
			Company:   orDash(l.Company),
			JobTitle:  orDash(l.JobTitle),
			Country:   orDash(l.Country),
			Interest:  orDash(l.Interest),
			Email:     orDash(l.Email),
			Phone:     orDash(phone),
			Flavor:    orDash(l.Flavor),
			Notes:     l.Notes,
			Verified:  l.Verified,
			Score:     r.Score,
			Reasons:   r.Reasons,
			Priority:  r.Tier,
			CreatedAt: l.CreatedAt,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	hot := make([]ScoredLead, 0)
	warm := make([]ScoredLead, 0)
	for _, s := range scored {
		switch s.Priority {
		case domain.TierHot:
			hot = append(hot, s)
		case domain.TierWarm:
			warm = append(warm, s)
		}
	}

	return HotLeadsReport{
		Success:   true,
		Summary:   HotLeadsSummary{TotalLeads: len(scored), HotLeads: len(hot), WarmLeads: len(warm)},
		HotLeads:  truncate(hot, hotListLimit),
		WarmLeads: truncate(warm, hotListLimit),
		AllScored: truncate(scored, scoredListLimit),
	}
}

func truncate(s []ScoredLead, n int) []ScoredLead {
	if len(s) > n {
		return s[:n]
	}
	return s
}

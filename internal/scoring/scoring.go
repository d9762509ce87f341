// Package scoring implements the lead scoring heuristic: additive point
// rules over a single lead producing a score, the reasons that fired,
// and a follow-up tier.
package scoring

import (
	"strings"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// Point values per rule.
const (
	pointsWholesale     = 40
	pointsDistributor   = 35
	pointsRetail        = 20
	pointsVerified      = 25
	pointsCompany       = 15
	pointsDecisionMaker = 20
	pointsGCC           = 10
)

// Tier boundaries.
const (
	hotThreshold  = 70
	warmThreshold = 50
)

// decisionTitles are job-title substrings that signal a decision maker.
var decisionTitles = []string{"ceo", "owner", "director", "manager", "buyer", "procurement", "purchasing", "head"}

// gccCountries are country-name substrings that place a lead in the GCC.
var gccCountries = []string{"uae", "saudi", "qatar", "kuwait", "bahrain", "oman", "dubai", "abu dhabi"}

// Result is the scoring output for one lead. Reasons preserve rule
// evaluation order so results are deterministic.
type Result struct {
	Score   int         `json:"score"`
	Reasons []string    `json:"reasons"`
	Tier    domain.Tier `json:"tier"`
}

// Score evaluates every rule independently and sums the points.
// Missing fields simply don't match; Score never fails.
func Score(lead *domain.Lead) Result {
	score := 0
	reasons := []string{}

	switch lead.Interest {
	case string(domain.InterestWholesale):
		score += pointsWholesale
		reasons = append(reasons, "Wholesale buyer")
	case string(domain.InterestDistributor):
		score += pointsDistributor
		reasons = append(reasons, "Distributor")
	case string(domain.InterestRetail):
		score += pointsRetail
		reasons = append(reasons, "Retail")
	}

	if lead.Verified {
		score += pointsVerified
		reasons = append(reasons, "Verified")
	}

	if len(strings.TrimSpace(lead.Company)) > 2 {
		score += pointsCompany
		reasons = append(reasons, "Company provided")
	}

	if containsAny(lead.JobTitle, decisionTitles) {
		score += pointsDecisionMaker
		reasons = append(reasons, "Decision maker")
	}

	if containsAny(lead.Country, gccCountries) {
		score += pointsGCC
		reasons = append(reasons, "GCC region")
	}

	return Result{Score: score, Reasons: reasons, Tier: tierFor(score)}
}

func tierFor(score int) domain.Tier {
	switch {
	case score >= hotThreshold:
		return domain.TierHot
	case score >= warmThreshold:
		return domain.TierWarm
	default:
		return domain.TierNormal
	}
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

package report

import (
	"sort"
	"strings"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// regionCountries maps region keys to the country names rolled up into
// that region. Matching is substring based so "United Arab Emirates" and
// "UAE" both land in gcc.
var regionCountries = map[string][]string{
	"gcc":      {"UAE", "Saudi Arabia", "Qatar", "Kuwait", "Bahrain", "Oman"},
	"mena":     {"Egypt", "Jordan", "Lebanon", "Morocco", "Tunisia"},
	"asia":     {"India", "Pakistan", "China", "Japan", "Singapore", "Malaysia"},
	"americas": {"USA", "Canada", "Mexico", "Brazil"},
	"europe":   {"UK", "Germany", "France", "Italy", "Spain", "Netherlands"},
}

// CountryRanking is one country's position in the leaderboard.
type CountryRanking struct {
	Rank             int    `json:"rank"`
	Country          string `json:"country"`
	Total            int    `json:"total"`
	Verified         int    `json:"verified"`
	Wholesale        int    `json:"wholesale"`
	Retail           int    `json:"retail"`
	VerificationRate string `json:"verification_rate"`
}

// CountryReport ranks lead volume per country with a regional rollup.
type CountryReport struct {
	Success         bool             `json:"success"`
	TotalLeads      int              `json:"total_leads"`
	TotalCountries  int              `json:"total_countries"`
	Rankings        []CountryRanking `json:"rankings"`
	RegionalSummary map[string]int   `json:"regional_summary"`
}

// ByCountry groups leads by country, sorts by volume, and sums regional
// totals. Leads without a country group under "Unknown".
func ByCountry(leads []domain.Lead) CountryReport {
	type agg struct {
		total, verified, wholesale, retail int
	}
	groups := make(map[string]*agg)
	order := make([]string, 0)

	for i := range leads {
		l := &leads[i]
		country := l.Country
		if country == "" {
			country = "Unknown"
		}
		g, ok := groups[country]
		if !ok {
			g = &agg{}
			groups[country] = g
			order = append(order, country)
		}
		g.total++
		if l.Verified {
			g.verified++
		}
		switch l.Interest {
		case string(domain.InterestWholesale):
			g.wholesale++
		case string(domain.InterestRetail):
			g.retail++
		}
	}

	rankings := make([]CountryRanking, 0, len(order))
	for _, country := range order {
		g := groups[country]
		rankings = append(rankings, CountryRanking{
			Country:          country,
			Total:            g.total,
			Verified:         g.verified,
			Wholesale:        g.wholesale,
			Retail:           g.retail,
			VerificationRate: pct(g.verified, g.total),
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool { return rankings[i].Total > rankings[j].Total })
	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	regional := make(map[string]int, len(regionCountries))
	for region, names := range regionCountries {
		sum := 0
		for _, r := range rankings {
			lower := strings.ToLower(r.Country)
			for _, name := range names {
				if strings.Contains(lower, strings.ToLower(name)) {
					sum += r.Total
					break
				}
			}
		}
		regional[region] = sum
	}

	return CountryReport{
		Success:         true,
		TotalLeads:      len(leads),
		TotalCountries:  len(rankings),
		Rankings:        rankings,
		RegionalSummary: regional,
	}
}

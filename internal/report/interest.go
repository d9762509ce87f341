package report

import (
	"sort"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// interestPriority orders interest categories by business value. Unknown
// categories sort last.
var interestPriority = map[string]int{
	"wholesale":   1,
	"distributor": 2,
	"retail":      3,
	"personal":    4,
	"unspecified": 5,
}

// InterestBucket is the aggregate for one interest category.
type InterestBucket struct {
	Interest         string `json:"interest"`
	Count            int    `json:"count"`
	Verified         int    `json:"verified"`
	Percentage       string `json:"percentage"`
	VerificationRate string `json:"verification_rate"`
}

// WholesaleCompany is one B2B wholesale prospect with a named company.
type WholesaleCompany struct {
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Country  string `json:"country"`
	Verified bool   `json:"verified"`
}

// InterestReport breaks leads down by declared interest.
type InterestReport struct {
	Success            bool               `json:"success"`
	TotalLeads         int                `json:"total_leads"`
	Breakdown          []InterestBucket   `json:"breakdown"`
	ByPriority         []InterestBucket   `json:"by_priority"`
	WholesaleCompanies []WholesaleCompany `json:"wholesale_companies"`
}

// ByInterest aggregates leads per interest category, once sorted by
// volume and once by business priority, and lists wholesale leads that
// named a company.
func ByInterest(leads []domain.Lead) InterestReport {
	type agg struct {
		count, verified int
	}
	groups := make(map[string]*agg)
	order := make([]string, 0)
	companies := make([]WholesaleCompany, 0)

	for i := range leads {
		l := &leads[i]
		interest := l.Interest
		if interest == "" {
			interest = string(domain.InterestUnspecified)
		}
		g, ok := groups[interest]
		if !ok {
			g = &agg{}
			groups[interest] = g
			order = append(order, interest)
		}
		g.count++
		if l.Verified {
			g.verified++
		}
		if interest == string(domain.InterestWholesale) && l.Company != "" {
			companies = append(companies, WholesaleCompany{
				Company:  l.Company,
				JobTitle: orDash(l.JobTitle),
				Country:  orDash(l.Country),
				Verified: l.Verified,
			})
		}
	}

	breakdown := make([]InterestBucket, 0, len(order))
	for _, interest := range order {
		g := groups[interest]
		breakdown = append(breakdown, InterestBucket{
			Interest:         interest,
			Count:            g.count,
			Verified:         g.verified,
			Percentage:       pct(g.count, len(leads)),
			VerificationRate: pct(g.verified, g.count),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool { return breakdown[i].Count > breakdown[j].Count })

	byPriority := make([]InterestBucket, len(breakdown))
	copy(byPriority, breakdown)
	sort.SliceStable(byPriority, func(i, j int) bool {
		return priorityOf(byPriority[i].Interest) < priorityOf(byPriority[j].Interest)
	})

	return InterestReport{
		Success:            true,
		TotalLeads:         len(leads),
		Breakdown:          breakdown,
		ByPriority:         byPriority,
		WholesaleCompanies: companies,
	}
}

func priorityOf(interest string) int {
	if p, ok := interestPriority[interest]; ok {
		return p
	}
	return 99
}

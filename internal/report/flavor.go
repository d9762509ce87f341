package report

import (
	"fmt"
	"sort"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// FlavorRanking is one flavor's share of total interest.
type FlavorRanking struct {
	Rank       int    `json:"rank"`
	Flavor     string `json:"flavor"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// FlavorReport ranks flavor preference across all leads.
type FlavorReport struct {
	Success    bool            `json:"success"`
	TotalLeads int             `json:"total_leads"`
	Rankings   []FlavorRanking `json:"rankings"`
}

// FlavorRankings counts flavor choices and ranks them by popularity.
// Leads without a flavor count under "Unknown".
func FlavorRankings(leads []domain.Lead) FlavorReport {
	counts := make(map[string]int)
	order := make([]string, 0)
	for i := range leads {
		flavor := leads[i].Flavor
		if flavor == "" {
			flavor = "Unknown"
		}
		if _, ok := counts[flavor]; !ok {
			order = append(order, flavor)
		}
		counts[flavor]++
	}

	rankings := make([]FlavorRanking, 0, len(order))
	for _, flavor := range order {
		p := "0"
		if len(leads) > 0 {
			p = fmt.Sprintf("%.1f", float64(counts[flavor])/float64(len(leads))*100)
		}
		rankings = append(rankings, FlavorRanking{Flavor: flavor, Count: counts[flavor], Percentage: p})
	}
	sort.SliceStable(rankings, func(i, j int) bool { return rankings[i].Count > rankings[j].Count })
	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	return FlavorReport{Success: true, TotalLeads: len(leads), Rankings: rankings}
}

// FlavorCount is one flavor's count inside a country breakdown.
type FlavorCount struct {
	Flavor string `json:"flavor"`
	Count  int    `json:"count"`
}

// CountryFlavors is the flavor breakdown for one country.
type CountryFlavors struct {
	Country         string        `json:"country"`
	TotalLeads      int           `json:"total_leads"`
	TopFlavor       string        `json:"top_flavor"`
	FlavorBreakdown []FlavorCount `json:"flavor_breakdown"`
}

// FlavorByCountryReport cross-tabulates flavor preference per country.
type FlavorByCountryReport struct {
	Success        bool             `json:"success"`
	TotalCountries int              `json:"total_countries"`
	Data           []CountryFlavors `json:"data"`
}

// FlavorByCountry breaks flavor counts down per country, most active
// countries first.
func FlavorByCountry(leads []domain.Lead) FlavorByCountryReport {
	type agg struct {
		total       int
		counts      map[string]int
		flavorOrder []string
	}
	groups := make(map[string]*agg)
	order := make([]string, 0)

	for i := range leads {
		l := &leads[i]
		country := l.Country
		if country == "" {
			country = "Unknown"
		}
		flavor := l.Flavor
		if flavor == "" {
			flavor = "Unknown"
		}
		g, ok := groups[country]
		if !ok {
			g = &agg{counts: make(map[string]int)}
			groups[country] = g
			order = append(order, country)
		}
		g.total++
		if _, ok := g.counts[flavor]; !ok {
			g.flavorOrder = append(g.flavorOrder, flavor)
		}
		g.counts[flavor]++
	}

	data := make([]CountryFlavors, 0, len(order))
	for _, country := range order {
		g := groups[country]
		breakdown := make([]FlavorCount, 0, len(g.flavorOrder))
		for _, flavor := range g.flavorOrder {
			breakdown = append(breakdown, FlavorCount{Flavor: flavor, Count: g.counts[flavor]})
		}
		sort.SliceStable(breakdown, func(i, j int) bool { return breakdown[i].Count > breakdown[j].Count })
		top := "N/A"
		if len(breakdown) > 0 {
			top = breakdown[0].Flavor
		}
		data = append(data, CountryFlavors{
			Country:         country,
			TotalLeads:      g.total,
			TopFlavor:       top,
			FlavorBreakdown: breakdown,
		})
	}
	sort.SliceStable(data, func(i, j int) bool { return data[i].TotalLeads > data[j].TotalLeads })

	return FlavorByCountryReport{Success: true, TotalCountries: len(data), Data: data}
}

package report

import (
	"sort"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// FunnelStage is one step of the registration-to-sample funnel.
type FunnelStage struct {
	Stage      string `json:"stage"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
	DropOff    int    `json:"drop_off"`
}

// ChannelStats breaks funnel conversion down by verification channel.
type ChannelStats struct {
	Method           string `json:"method"`
	Total            int    `json:"total"`
	Verified         int    `json:"verified"`
	Collected        int    `json:"collected"`
	VerificationRate string `json:"verification_rate"`
	CollectionRate   string `json:"collection_rate"`
}

// FunnelInsights are the actionable numbers next to the funnel chart.
type FunnelInsights struct {
	PendingVerification int    `json:"pending_verification"`
	PendingCollection   int    `json:"pending_collection"`
	BestChannel         string `json:"best_channel"`
}

// FunnelReport is the full conversion funnel view.
type FunnelReport struct {
	Success           bool           `json:"success"`
	TotalLeads        int            `json:"total_leads"`
	Funnel            []FunnelStage  `json:"funnel"`
	ByChannel         []ChannelStats `json:"by_channel"`
	OverallConversion string         `json:"overall_conversion"`
	Insights          FunnelInsights `json:"insights"`
}

// ConversionFunnel computes the registered -> verified -> collected
// funnel. Each stage's percentage is relative to the stage before it,
// so collection rate reads as "of those verified". booth_notified marks
// sample collection and is counted independently of verification.
func ConversionFunnel(leads []domain.Lead) FunnelReport {
	total := len(leads)
	verified := 0
	collected := 0
	type chAgg struct {
		total, verified, collected int
	}
	channels := make(map[string]*chAgg)
	chOrder := make([]string, 0)

	for i := range leads {
		l := &leads[i]
		if l.Verified {
			verified++
		}
		if l.BoothNotified {
			collected++
		}
		method := l.CommPreference
		if method == "" {
			method = string(domain.CommUnknown)
		}
		c, ok := channels[method]
		if !ok {
			c = &chAgg{}
			channels[method] = c
			chOrder = append(chOrder, method)
		}
		c.total++
		if l.Verified {
			c.verified++
		}
		if l.BoothNotified {
			c.collected++
		}
	}

	registeredPct := "0%"
	if total > 0 {
		registeredPct = "100%"
	}
	funnel := []FunnelStage{
		{Stage: "Scanned QR / Registered", Count: total, Percentage: registeredPct, DropOff: 0},
		{Stage: "Verified (Email/WhatsApp/SMS)", Count: verified, Percentage: pct(verified, total), DropOff: total - verified},
		{Stage: "Collected Sample", Count: collected, Percentage: pct(collected, verified), DropOff: verified - collected},
	}

	byChannel := make([]ChannelStats, 0, len(chOrder))
	for _, method := range chOrder {
		c := channels[method]
		byChannel = append(byChannel, ChannelStats{
			Method:           method,
			Total:            c.total,
			Verified:         c.verified,
			Collected:        c.collected,
			VerificationRate: pct(c.verified, c.total),
			CollectionRate:   pct(c.collected, c.verified),
		})
	}
	sort.SliceStable(byChannel, func(i, j int) bool { return byChannel[i].Total > byChannel[j].Total })

	best := "N/A"
	bestRate := -1.0
	for _, c := range byChannel {
		if c.Total == 0 {
			continue
		}
		rate := float64(c.Verified) / float64(c.Total)
		if rate > bestRate {
			bestRate = rate
			best = c.Method
		}
	}

	return FunnelReport{
		Success:           true,
		TotalLeads:        total,
		Funnel:            funnel,
		ByChannel:         byChannel,
		OverallConversion: pct(collected, total),
		Insights: FunnelInsights{
			PendingVerification: total - verified,
			PendingCollection:   verified - collected,
			BestChannel:         best,
		},
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/port"
	"github.com/canadamade/expo-leads-api/internal/report"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/reports")

// leadColumns is the projection shared by the scoring and breakdown
// reports. Reports never need verification codes.
var leadColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "whatsapp_number",
	"company", "job_title", "country", "interest", "flavor",
	"comm_preference", "verified", "booth_notified", "notes", "created_at",
}

// Reports orchestrates lead fetching and the pure aggregation functions
// behind every analytics endpoint. Results are cached briefly because
// booth tablets poll the dashboards every few seconds.
type Reports struct {
	leads     port.LeadStore
	inventory port.InventoryStore
	cache     port.Cache[any]
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewReports creates the reports service with all dependencies injected.
func NewReports(
	leads port.LeadStore,
	inventory port.InventoryStore,
	cache port.Cache[any],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Reports {
	return &Reports{
		leads:     leads,
		inventory: inventory,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// cached wraps a report computation with the shared TTL cache.
func (s *Reports) cached(ctx context.Context, key string, compute func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("leads")
		return v, nil
	}
	s.metrics.IncrCacheMiss("leads")

	v, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, v)
	return v, nil
}

func (s *Reports) allLeads(ctx context.Context) ([]domain.Lead, error) {
	return s.leads.ListLeads(ctx, domain.LeadQuery{Select: leadColumns})
}

// leadsBetween fetches leads created within [from, to) expressed in
// booth local time. The instants are converted to UTC before filtering
// because created_at is stored in UTC.
func (s *Reports) leadsBetween(ctx context.Context, from, to time.Time) ([]domain.Lead, error) {
	const layout = "2006-01-02T15:04:05"
	return s.leads.ListLeads(ctx, domain.LeadQuery{
		Select: leadColumns,
		Filters: []domain.LeadFilter{
			{Field: "created_at", Op: "gte", Value: from.UTC().Format(layout)},
			{Field: "created_at", Op: "lt", Value: to.UTC().Format(layout)},
		},
	})
}

// localDay returns the UTC instants bounding one booth-local calendar
// day, offset days from today.
func (s *Reports) localDay(offset int) (time.Time, time.Time) {
	local := s.now().In(report.Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, report.Location()).AddDate(0, 0, offset)
	return start, start.AddDate(0, 0, 1)
}

// HotLeads scores every lead and returns the priority lists.
func (s *Reports) HotLeads(ctx context.Context) (report.HotLeadsReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.HotLeads")
	defer span.End()
	s.metrics.IncrReportServed("hot-leads")

	v, err := s.cached(ctx, "report:hot-leads", func(ctx context.Context) (any, error) {
		leads, err := s.allLeads(ctx)
		if err != nil {
			return nil, err
		}
		return report.HotLeads(leads), nil
	})
	if err != nil {
		return report.HotLeadsReport{}, err
	}
	return v.(report.HotLeadsReport), nil
}

// ByCountry ranks lead volume per country.
func (s *Reports) ByCountry(ctx context.Context) (report.CountryReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.ByCountry")
	defer span.End()
	s.metrics.IncrReportServed("by-country")

	v, err := s.cached(ctx, "report:by-country", func(ctx context.Context) (any, error) {
		leads, err := s.leads.ListLeads(ctx, domain.LeadQuery{
			Select: []string{"country", "verified", "interest"},
		})
		if err != nil {
			return nil, err
		}
		return report.ByCountry(leads), nil
	})
	if err != nil {
		return report.CountryReport{}, err
	}
	return v.(report.CountryReport), nil
}

// FlavorRankings ranks flavor preference.
func (s *Reports) FlavorRankings(ctx context.Context) (report.FlavorReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.FlavorRankings")
	defer span.End()
	s.metrics.IncrReportServed("flavor-rankings")

	v, err := s.cached(ctx, "report:flavor-rankings", func(ctx context.Context) (any, error) {
		leads, err := s.leads.ListLeads(ctx, domain.LeadQuery{Select: []string{"flavor"}})
		if err != nil {
			return nil, err
		}
		return report.FlavorRankings(leads), nil
	})
	if err != nil {
		return report.FlavorReport{}, err
	}
	return v.(report.FlavorReport), nil
}

// FlavorByCountry cross-tabulates flavors per country.
func (s *Reports) FlavorByCountry(ctx context.Context) (report.FlavorByCountryReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.FlavorByCountry")
	defer span.End()
	s.metrics.IncrReportServed("flavor-by-country")

	v, err := s.cached(ctx, "report:flavor-by-country", func(ctx context.Context) (any, error) {
		leads, err := s.leads.ListLeads(ctx, domain.LeadQuery{Select: []string{"country", "flavor"}})
		if err != nil {
			return nil, err
		}
		return report.FlavorByCountry(leads), nil
	})
	if err != nil {
		return report.FlavorByCountryReport{}, err
	}
	return v.(report.FlavorByCountryReport), nil
}

// ByInterest breaks leads down by declared interest.
func (s *Reports) ByInterest(ctx context.Context) (report.InterestReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.ByInterest")
	defer span.End()
	s.metrics.IncrReportServed("by-interest")

	v, err := s.cached(ctx, "report:by-interest", func(ctx context.Context) (any, error) {
		leads, err := s.leads.ListLeads(ctx, domain.LeadQuery{
			Select: []string{"interest", "verified", "company", "job_title", "country"},
		})
		if err != nil {
			return nil, err
		}
		return report.ByInterest(leads), nil
	})
	if err != nil {
		return report.InterestReport{}, err
	}
	return v.(report.InterestReport), nil
}

// ByHour buckets lead arrival by local hour, optionally for one date.
func (s *Reports) ByHour(ctx context.Context, date string) (report.HourlyReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.ByHour")
	defer span.End()
	span.SetAttributes(attribute.String("report.date", date))
	s.metrics.IncrReportServed("by-hour")

	key := fmt.Sprintf("report:by-hour:%s", date)
	v, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		q := domain.LeadQuery{Select: []string{"created_at"}}
		if date != "" {
			day, err := time.ParseInLocation("2006-01-02", date, report.Location())
			if err != nil {
				return nil, &domain.ErrValidation{Message: "Invalid date", Details: "Expected YYYY-MM-DD"}
			}
			const layout = "2006-01-02T15:04:05"
			q.Filters = []domain.LeadFilter{
				{Field: "created_at", Op: "gte", Value: day.UTC().Format(layout)},
				{Field: "created_at", Op: "lt", Value: day.AddDate(0, 0, 1).UTC().Format(layout)},
			}
		}
		leads, err := s.leads.ListLeads(ctx, q)
		if err != nil {
			return nil, err
		}
		return report.ByHour(leads), nil
	})
	if err != nil {
		return report.HourlyReport{}, err
	}
	return v.(report.HourlyReport), nil
}

// TodayVsYesterday compares the current and previous booth days.
func (s *Reports) TodayVsYesterday(ctx context.Context) (report.DailyComparisonReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.TodayVsYesterday")
	defer span.End()
	s.metrics.IncrReportServed("today-vs-yesterday")

	v, err := s.cached(ctx, "report:today-vs-yesterday", func(ctx context.Context) (any, error) {
		yesterdayStart, _ := s.localDay(-1)
		_, todayEnd := s.localDay(0)
		leads, err := s.leadsBetween(ctx, yesterdayStart, todayEnd)
		if err != nil {
			return nil, err
		}
		return report.TodayVsYesterday(leads, s.now()), nil
	})
	if err != nil {
		return report.DailyComparisonReport{}, err
	}
	return v.(report.DailyComparisonReport), nil
}

// GoalTracker measures progress against the expo targets. Today's
// leads, the all-time count, and the inventory snapshot are fetched
// concurrently.
func (s *Reports) GoalTracker(ctx context.Context) (report.GoalReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.GoalTracker")
	defer span.End()
	s.metrics.IncrReportServed("goal-tracker")

	v, err := s.cached(ctx, "report:goal-tracker", func(ctx context.Context) (any, error) {
		var (
			todayLeads []domain.Lead
			totalLeads int
			inventory  []domain.InventoryItem
		)

		today := report.LocalDate(s.now())
		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			start, end := s.localDay(0)
			var err error
			todayLeads, err = s.leadsBetween(gCtx, start, end)
			return err
		})
		g.Go(func() error {
			all, err := s.leads.ListLeads(gCtx, domain.LeadQuery{Select: []string{"id"}})
			if err != nil {
				return err
			}
			totalLeads = len(all)
			return nil
		})
		g.Go(func() error {
			var err error
			inventory, err = s.inventory.ListInventory(gCtx, today)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		distributed := 0
		for _, item := range inventory {
			if d := item.Total - item.Remaining; d > 0 {
				distributed += d
			}
		}

		return report.GoalTracker(todayLeads, totalLeads, distributed, s.now()), nil
	})
	if err != nil {
		return report.GoalReport{}, err
	}
	return v.(report.GoalReport), nil
}

// ConversionFunnel computes the registration-to-sample funnel.
func (s *Reports) ConversionFunnel(ctx context.Context) (report.FunnelReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.ConversionFunnel")
	defer span.End()
	s.metrics.IncrReportServed("conversion-funnel")

	v, err := s.cached(ctx, "report:conversion-funnel", func(ctx context.Context) (any, error) {
		leads, err := s.leads.ListLeads(ctx, domain.LeadQuery{
			Select: []string{"verified", "booth_notified", "comm_preference"},
		})
		if err != nil {
			return nil, err
		}
		return report.ConversionFunnel(leads), nil
	})
	if err != nil {
		return report.FunnelReport{}, err
	}
	return v.(report.FunnelReport), nil
}

// DailySummary combines the day's lead count with inventory burn-down.
// An empty date means the current booth day.
func (s *Reports) DailySummary(ctx context.Context, date string) (report.DailySummaryReport, error) {
	ctx, span := tracer.Start(ctx, "Reports.DailySummary")
	defer span.End()
	s.metrics.IncrReportServed("daily-summary")

	if date == "" {
		date = report.LocalDate(s.now())
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return report.DailySummaryReport{}, &domain.ErrValidation{Message: "Invalid date", Details: "Expected YYYY-MM-DD"}
	}

	key := fmt.Sprintf("report:daily-summary:%s", date)
	v, err := s.cached(ctx, key, func(ctx context.Context) (any, error) {
		var (
			leadCount int
			inventory []domain.InventoryItem
		)

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			day, _ := time.ParseInLocation("2006-01-02", date, report.Location())
			leads, err := s.leadsBetween(gCtx, day, day.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			leadCount = len(leads)
			return nil
		})
		g.Go(func() error {
			var err error
			inventory, err = s.inventory.ListInventory(gCtx, date)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return report.DailySummary(date, leadCount, inventory), nil
	})
	if err != nil {
		return report.DailySummaryReport{}, err
	}
	return v.(report.DailySummaryReport), nil
}

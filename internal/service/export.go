package service

import (
	"context"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/report"

	"go.opentelemetry.io/otel/attribute"
)

// ExportQuery holds the optional filters for a lead export. Dates are
// YYYY-MM-DD in booth local time and inclusive on both ends.
type ExportQuery struct {
	Country      string
	Interest     string
	VerifiedOnly bool
	DateFrom     string
	DateTo       string
}

// ExportLeads fetches leads matching the export filters, newest first.
// Exports bypass the cache so staff always download current data.
func (s *Reports) ExportLeads(ctx context.Context, q ExportQuery) ([]domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "Reports.ExportLeads")
	defer span.End()
	span.SetAttributes(attribute.String("export.country", q.Country))

	const layout = "2006-01-02T15:04:05"

	filters := make([]domain.LeadFilter, 0, 4)
	if q.Country != "" {
		filters = append(filters, domain.LeadFilter{Field: "country", Op: "ilike", Value: "%" + q.Country + "%"})
	}
	if q.Interest != "" {
		filters = append(filters, domain.LeadFilter{Field: "interest", Op: "eq", Value: q.Interest})
	}
	if q.VerifiedOnly {
		filters = append(filters, domain.LeadFilter{Field: "verified", Op: "eq", Value: "true"})
	}
	if q.DateFrom != "" {
		day, err := time.ParseInLocation("2006-01-02", q.DateFrom, report.Location())
		if err != nil {
			return nil, &domain.ErrValidation{Message: "Invalid date_from", Details: "Expected YYYY-MM-DD"}
		}
		filters = append(filters, domain.LeadFilter{Field: "created_at", Op: "gte", Value: day.UTC().Format(layout)})
	}
	if q.DateTo != "" {
		day, err := time.ParseInLocation("2006-01-02", q.DateTo, report.Location())
		if err != nil {
			return nil, &domain.ErrValidation{Message: "Invalid date_to", Details: "Expected YYYY-MM-DD"}
		}
		filters = append(filters, domain.LeadFilter{Field: "created_at", Op: "lt", Value: day.AddDate(0, 0, 1).UTC().Format(layout)})
	}

	return s.leads.ListLeads(ctx, domain.LeadQuery{
		Select:     leadColumns,
		Filters:    filters,
		OrderBy:    "created_at",
		Descending: true,
	})
}

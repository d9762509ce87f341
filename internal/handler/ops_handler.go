package handler

import (
	"net/http"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/port"

	"go.uber.org/zap"
)

func healthzHandler(leads port.LeadStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "expo-leads-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if leads != nil {
			start := time.Now()
			_, err := leads.ListLeads(ctx, domain.LeadQuery{Select: []string{"id"}, Limit: 1})
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				status = "degraded"
				logger.Warn("health probe against supabase failed", zap.Error(err))
			}
			services = append(services, domain.ServiceHealth{
				Name: "supabase", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// opsMetricsHandler serves a JSON counter snapshot for the booth tablet's
// admin screen; the full Prometheus exposition lives at /metrics.
func opsMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}

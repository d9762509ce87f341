package handler

import (
	"net/http"
	"time"

	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/port"
	"github.com/canadamade/expo-leads-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps carries everything the router needs. Handlers stay thin closures
// over the service they call.
type Deps struct {
	Reports   *service.Reports
	Notifier  *service.Notifier
	Inbound   *service.Inbound
	Contacts  *service.Contacts
	Extractor port.CardExtractor
	Leads     port.LeadStore
	Metrics   *observability.Metrics

	// WebhookVerifyToken must match what the WhatsApp vendor sends on
	// the GET handshake.
	WebhookVerifyToken string
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(deps Deps, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(durationMiddleware(deps.Metrics))
	// The dashboard is a static site on a different origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(deps.Leads, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Leads: priority list, export, backup
		// =============================================
		r.Get("/leads/hot", hotLeadsHandler(deps.Reports, logger))
		r.Get("/leads/export", exportLeadsHandler(deps.Reports, logger))
		r.Post("/leads/backup", backupLeadHandler(deps.Notifier, logger))

		// =============================================
		// Reports
		// =============================================
		r.Route("/reports", func(r chi.Router) {
			r.Get("/by-country", byCountryHandler(deps.Reports, logger))
			r.Get("/flavors", flavorRankingsHandler(deps.Reports, logger))
			r.Get("/flavor-by-country", flavorByCountryHandler(deps.Reports, logger))
			r.Get("/by-interest", byInterestHandler(deps.Reports, logger))
			r.Get("/by-hour", byHourHandler(deps.Reports, logger))
			r.Get("/today-vs-yesterday", todayVsYesterdayHandler(deps.Reports, logger))
			r.Get("/goals", goalTrackerHandler(deps.Reports, logger))
			r.Get("/funnel", conversionFunnelHandler(deps.Reports, logger))
			r.Get("/daily-summary", dailySummaryHandler(deps.Reports, logger))
		})

		// =============================================
		// Outbound messages
		// =============================================
		r.Route("/messages", func(r chi.Router) {
			r.Post("/email", sendEmailHandler(deps.Notifier, logger))
			r.Post("/verification-email", sendVerificationEmailHandler(deps.Notifier, logger))
			r.Post("/sms", sendSMSHandler(deps.Notifier, logger))
			r.Post("/verification-sms", sendVerificationSMSHandler(deps.Notifier, logger))
			r.Post("/whatsapp", sendWhatsAppHandler(deps.Notifier, logger))
			r.Post("/confirmation", sendConfirmationHandler(deps.Notifier, logger))
		})
		r.Post("/notify-staff", notifyStaffHandler(deps.Notifier, logger))

		// =============================================
		// Inbound WhatsApp webhook
		// =============================================
		r.Get("/webhooks/whatsapp", verifyWebhookHandler(deps.WebhookVerifyToken, logger))
		r.Post("/webhooks/whatsapp", inboundWebhookHandler(deps.Inbound, logger))

		// =============================================
		// Business card extraction
		// =============================================
		r.Post("/cards/extract", extractCardHandler(deps.Extractor, deps.Metrics, logger))

		// =============================================
		// CRM contacts
		// =============================================
		r.Get("/contacts", listContactsHandler(deps.Contacts, logger))
		r.Get("/contacts/stats", contactStatsHandler(deps.Contacts, logger))

		// =============================================
		// Ops counters (JSON)
		// =============================================
		r.Get("/metrics/snapshot", opsMetricsHandler(deps.Metrics, logger))
	})

	return r
}

// durationMiddleware records per-route request duration. The route
// pattern is only known after routing, so the timer reads it on the way
// out.
func durationMiddleware(metrics *observability.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			metrics.RecordRequestDuration(r.Method+" "+pattern, time.Since(start))
		})
	}
}

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the leads API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	reportsServed   *prometheus.CounterVec
	messagesSent    *prometheus.CounterVec
	webhookInbound  *prometheus.CounterVec
	cardExtractions *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leads_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		reportsServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_reports_served_total",
				Help: "Total report requests served.",
			},
			[]string{"report"},
		),
		messagesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_messages_sent_total",
				Help: "Total outbound messages by channel and outcome.",
			},
			[]string{"channel", "outcome"},
		),
		webhookInbound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_webhook_inbound_total",
				Help: "Total inbound webhook messages by action.",
			},
			[]string{"action"},
		),
		cardExtractions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leads_card_extractions_total",
				Help: "Total business card extractions by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrReportServed increments the per-report counter.
func (m *Metrics) IncrReportServed(report string) {
	m.reportsServed.WithLabelValues(report).Inc()
}

// IncrMessageSent counts one outbound message attempt.
func (m *Metrics) IncrMessageSent(channel, outcome string) {
	m.messagesSent.WithLabelValues(channel, outcome).Inc()
}

// IncrWebhookInbound counts one inbound webhook message by action taken.
func (m *Metrics) IncrWebhookInbound(action string) {
	m.webhookInbound.WithLabelValues(action).Inc()
}

// IncrCardExtraction counts one card extraction attempt.
func (m *Metrics) IncrCardExtraction(outcome string) {
	m.cardExtractions.WithLabelValues(outcome).Inc()
}

// OpsSnapshot is a point-in-time view of operational counters for the
// ops endpoint, cheaper to consume than the full Prometheus exposition.
type OpsSnapshot struct {
	ReportsServed    float64 `json:"reports_served"`
	MessagesSent     float64 `json:"messages_sent"`
	MessagesFailed   float64 `json:"messages_failed"`
	WebhookNotes     float64 `json:"webhook_notes_added"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	ExtractionErrors float64 `json:"extraction_errors"`
}

// GetOpsSnapshot gathers current counter values.
func (m *Metrics) GetOpsSnapshot() *OpsSnapshot {
	sent := getCounterValue(m.messagesSent, "email", "success") +
		getCounterValue(m.messagesSent, "sms", "success") +
		getCounterValue(m.messagesSent, "whatsapp", "success")
	failed := getCounterValue(m.messagesSent, "email", "error") +
		getCounterValue(m.messagesSent, "sms", "error") +
		getCounterValue(m.messagesSent, "whatsapp", "error")

	hits := getCounterValue(m.cacheHits, "leads")
	misses := getCounterValue(m.cacheMisses, "leads")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	reports := float64(0)
	for _, name := range []string{"hot-leads", "by-country", "flavor-rankings", "flavor-by-country", "by-interest", "by-hour", "today-vs-yesterday", "goal-tracker", "conversion-funnel", "daily-summary"} {
		reports += getCounterValue(m.reportsServed, name)
	}

	return &OpsSnapshot{
		ReportsServed:    reports,
		MessagesSent:     sent,
		MessagesFailed:   failed,
		WebhookNotes:     getCounterValue(m.webhookInbound, "note_added"),
		CacheHitRate:     hitRate,
		ExtractionErrors: getCounterValue(m.cardExtractions, "error"),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

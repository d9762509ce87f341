package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/port"
	"github.com/canadamade/expo-leads-api/internal/report"
	"github.com/canadamade/expo-leads-api/internal/webhook"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var inboundTracer = otel.Tracer("service/inbound")

// Inbound handles WhatsApp messages from booth staff. A message like
// "Ahmed: wants wholesale pricing" finds the newest lead named Ahmed
// and appends a timestamped note.
type Inbound struct {
	leads   port.LeadStore
	staff   map[string]string
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewInbound creates the inbound webhook service. staff maps cleaned
// phone numbers to staff names and acts as the allow-list.
func NewInbound(leads port.LeadStore, staff map[string]string, metrics *observability.Metrics, logger *zap.Logger) *Inbound {
	return &Inbound{
		leads:   leads,
		staff:   staff,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleMessage processes one raw webhook delivery. Every rejection is
// still a success from the provider's point of view; only store
// failures return an error.
func (s *Inbound) HandleMessage(ctx context.Context, raw []byte) (*domain.InboundResult, error) {
	ctx, span := inboundTracer.Start(ctx, "Inbound.HandleMessage")
	defer span.End()

	eventID := uuid.NewString()
	span.SetAttributes(attribute.String("webhook.event_id", eventID))

	phone, text, ok := webhook.ExtractMessage(raw)
	if !ok {
		s.metrics.IncrWebhookInbound(domain.ActionIgnored)
		return &domain.InboundResult{Received: true, Action: domain.ActionIgnored}, nil
	}

	cleaned := webhook.CleanPhone(phone)
	staffName, authorized := s.staff[cleaned]
	if !authorized {
		s.logger.Warn("inbound: message from unknown number",
			zap.String("event_id", eventID),
			zap.String("phone", cleaned),
		)
		s.metrics.IncrWebhookInbound(domain.ActionUnauthorized)
		return &domain.InboundResult{Received: true, Action: domain.ActionUnauthorized}, nil
	}

	name, note, ok := webhook.SplitNameNote(text)
	if !ok {
		s.metrics.IncrWebhookInbound(domain.ActionNoNameFormat)
		return &domain.InboundResult{Received: true, Action: domain.ActionNoNameFormat}, nil
	}
	if name == "" || note == "" {
		s.metrics.IncrWebhookInbound(domain.ActionEmptyNameOrNote)
		return &domain.InboundResult{Received: true, Action: domain.ActionEmptyNameOrNote}, nil
	}

	tokens := strings.Fields(name)
	candidates, err := s.leads.ListLeads(ctx, domain.LeadQuery{
		Select: []string{"id", "first_name", "last_name", "notes"},
		Filters: []domain.LeadFilter{
			{Field: "first_name", Op: "ilike", Value: "%" + tokens[0] + "%"},
		},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      10,
	})
	if err != nil {
		return nil, err
	}

	lead := webhook.PickLead(candidates, tokens)
	if lead == nil {
		s.metrics.IncrWebhookInbound(domain.ActionNoLeadFound)
		return &domain.InboundResult{Received: true, Action: domain.ActionNoLeadFound, Searched: name}, nil
	}

	// Read-modify-write on the notes column. Two staff noting the same
	// lead simultaneously can drop one note; acceptable at booth scale.
	stamp := s.now().In(report.Location()).Format("1/2/2006, 3:04:05 PM")
	line := fmt.Sprintf("[%s via %s] %s", stamp, staffName, note)
	notes := lead.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += line

	if err := s.leads.UpdateLeadNotes(ctx, lead.ID, notes); err != nil {
		return nil, err
	}

	s.logger.Info("inbound: note added",
		zap.String("event_id", eventID),
		zap.String("lead_id", lead.ID),
		zap.String("staff", staffName),
	)
	s.metrics.IncrWebhookInbound(domain.ActionNoteAdded)

	return &domain.InboundResult{
		Received: true,
		Action:   domain.ActionNoteAdded,
		Lead:     lead.FullName(),
		Note:     line,
	}, nil
}

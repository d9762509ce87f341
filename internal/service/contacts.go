package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var contactsTracer = otel.Tracer("service/contacts")

// A contact counts as hot in the CRM views from this lead_score up.
// The CRM score is 0-10, unrelated to the scoring engine's points.
const hotContactScore = 7

// Contacts serves the CRM dashboard views over the contacts table.
type Contacts struct {
	store   port.ContactStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewContacts creates the contacts service.
func NewContacts(store port.ContactStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *Contacts {
	return &Contacts{store: store, cache: cache, metrics: metrics, logger: logger, now: time.Now}
}

// ContactFilter narrows and orders the contact list. All fields optional.
type ContactFilter struct {
	// Status keeps only contacts in one pipeline status.
	Status string
	// Search is a case-insensitive substring match over name, company,
	// and email.
	Search string
	// Sort is one of "created_at" (default, newest first), "name", or
	// "score" (highest first).
	Sort string
}

// List returns CRM contacts, filtered and sorted in-process. The full
// table fetch is cached; filters are cheap against the cached copy.
func (s *Contacts) List(ctx context.Context, filter ContactFilter) ([]domain.Contact, error) {
	ctx, span := contactsTracer.Start(ctx, "Contacts.List")
	defer span.End()

	contacts, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Contact, 0, len(contacts))
	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, c := range contacts {
		if filter.Status != "" && c.LeadStatus != filter.Status {
			continue
		}
		if needle != "" && !contactMatches(&c, needle) {
			continue
		}
		out = append(out, c)
	}

	switch filter.Sort {
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].FirstName) < strings.ToLower(out[j].FirstName)
		})
	case "score":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LeadScore > out[j].LeadScore
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

func contactMatches(c *domain.Contact, needle string) bool {
	for _, field := range []string{c.FirstName, c.LastName, c.Company, c.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *Contacts) all(ctx context.Context) ([]domain.Contact, error) {
	if v, ok := s.cache.Get("contacts:list"); ok {
		s.metrics.IncrCacheHit("contacts")
		return v.([]domain.Contact), nil
	}
	s.metrics.IncrCacheMiss("contacts")

	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set("contacts:list", contacts)
	return contacts, nil
}

// Dashboard backs the CRM stat cards and the pipeline board.
type Dashboard struct {
	Success        bool                        `json:"success"`
	TotalContacts  int                         `json:"total_contacts"`
	HotContacts    int                         `json:"hot_contacts"`
	QualifiedCount int                         `json:"qualified_count"`
	NewThisWeek    int                         `json:"new_this_week"`
	ByStatus       map[string]int              `json:"by_status"`
	Board          map[string][]domain.Contact `json:"board"`
}

// GetDashboard groups contacts into the fixed pipeline columns. Every
// status column is always present so the board renders empty lanes.
func (s *Contacts) GetDashboard(ctx context.Context) (*Dashboard, error) {
	ctx, span := contactsTracer.Start(ctx, "Contacts.GetDashboard")
	defer span.End()

	contacts, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(domain.LeadStatuses))
	board := make(map[string][]domain.Contact, len(domain.LeadStatuses))
	for _, status := range domain.LeadStatuses {
		byStatus[status] = 0
		board[status] = []domain.Contact{}
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	hot, recent := 0, 0
	for _, c := range contacts {
		status := c.LeadStatus
		if _, known := board[status]; !known {
			status = "new"
		}
		byStatus[status]++
		board[status] = append(board[status], c)
		if c.LeadScore >= hotContactScore {
			hot++
		}
		if c.CreatedAt.After(weekAgo) {
			recent++
		}
	}

	return &Dashboard{
		Success:        true,
		TotalContacts:  len(contacts),
		HotContacts:    hot,
		QualifiedCount: byStatus["qualified"],
		NewThisWeek:    recent,
		ByStatus:       byStatus,
		Board:          board,
	}, nil
}

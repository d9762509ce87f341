// Package domain holds the core entities and typed errors shared across
// the expo leads API.
package domain

import "time"

// Interest classifies what a lead wants to do with the product.
type Interest string

const (
	InterestWholesale   Interest = "wholesale"
	InterestDistributor Interest = "distributor"
	InterestRetail      Interest = "retail"
	InterestPersonal    Interest = "personal"
	InterestUnspecified Interest = "unspecified"
)

// CommPreference is the channel a lead chose for verification messages.
type CommPreference string

const (
	CommWhatsApp CommPreference = "whatsapp"
	CommEmail    CommPreference = "email"
	CommSMS      CommPreference = "sms"
	CommUnknown  CommPreference = "unknown"
)

// Tier is the follow-up priority bucket produced by the scoring engine.
type Tier string

const (
	TierHot    Tier = "HOT"
	TierWarm   Tier = "WARM"
	TierNormal Tier = "NORMAL"
)

// Lead is a prospective customer captured at the booth.
// created_at is authoritative for every time-bucketed report and never
// changes after insert. notes is an append-only log.
type Lead struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	WhatsAppNumber   string    `json:"whatsapp_number,omitempty"`
	Company          string    `json:"company,omitempty"`
	JobTitle         string    `json:"job_title,omitempty"`
	Country          string    `json:"country,omitempty"`
	City             string    `json:"city,omitempty"`
	Interest         string    `json:"interest,omitempty"`
	Flavor           string    `json:"flavor,omitempty"`
	CommPreference   string    `json:"comm_preference,omitempty"`
	Verified         bool      `json:"verified"`
	VerificationCode string    `json:"verification_code,omitempty"`
	BoothNotified    bool      `json:"booth_notified"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// FullName joins first and last name for display.
func (l *Lead) FullName() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Contact is the CRM dashboard variant of a lead. lead_score here is the
// 0-10 value shown in the board/table views and is unrelated to the
// 0-100+ score computed by the scoring engine.
type Contact struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Company    string    `json:"company,omitempty"`
	JobTitle   string    `json:"job_title,omitempty"`
	Country    string    `json:"country,omitempty"`
	LeadStatus string    `json:"lead_status"`
	LeadScore  int       `json:"lead_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeadStatuses is the fixed column order of the CRM board view.
var LeadStatuses = []string{"new", "contacted", "qualified", "negotiation", "won", "lost", "cold"}

// MessageTemplate is a named message body with {{field}} placeholders,
// looked up by name immediately before rendering.
type MessageTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
	Active  bool   `json:"active"`
}

// InventoryItem tracks per-flavor sample stock for one expo day.
type InventoryItem struct {
	Flavor    string `json:"flavor"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
	Date      string `json:"date"`
}

// CardData is the structured result of business-card extraction.
// Fields the vision model cannot read stay empty.
type CardData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// LeadFilter is a single field predicate for a record store query.
// Op is one of eq, ilike, gte, lt, lte.
type LeadFilter struct {
	Field string
	Op    string
	Value string
}

// LeadQuery describes a filtered read against the leads table.
// Select lists the columns the caller actually needs; reporters are
// expected to project only their own columns.
type LeadQuery struct {
	Select     []string
	Filters    []LeadFilter
	OrderBy    string
	Descending bool
	Limit      int
}

// InboundResult is the outcome of one inbound webhook message.
// Action is machine-readable; rejection paths still ack with 200.
type InboundResult struct {
	Received bool   `json:"received"`
	Action   string `json:"action"`
	Lead     string `json:"lead,omitempty"`
	Note     string `json:"note,omitempty"`
	Searched string `json:"searched,omitempty"`
}

// Webhook actions.
const (
	ActionIgnored         = "ignored"
	ActionUnauthorized    = "unauthorized"
	ActionNoNameFormat    = "no_name_format"
	ActionEmptyNameOrNote = "empty_name_or_note"
	ActionNoLeadFound     = "no_lead_found"
	ActionNoteAdded       = "note_added"
)

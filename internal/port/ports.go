// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/canadamade/expo-leads-api/internal/domain"
)

// LeadStore is the filtered-read (plus notes-append) surface of the
// leads table. Implemented by the Supabase adapter.
type LeadStore interface {
	ListLeads(ctx context.Context, q domain.LeadQuery) ([]domain.Lead, error)
	UpdateLeadNotes(ctx context.Context, leadID, notes string) error
}

// TemplateStore looks up active message templates by name.
type TemplateStore interface {
	GetTemplate(ctx context.Context, name string) (*domain.MessageTemplate, error)
}

// ContactStore reads the CRM contacts table backing the dashboard views.
type ContactStore interface {
	ListContacts(ctx context.Context) ([]domain.Contact, error)
}

// InventoryStore reads per-flavor sample stock for one expo day.
type InventoryStore interface {
	ListInventory(ctx context.Context, date string) ([]domain.InventoryItem, error)
}

// EmailMessage is one outbound email.
type EmailMessage struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailSender delivers email through the transactional provider.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender delivers a plain-text SMS.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// WhatsAppSender delivers a WhatsApp message. to must already be
// normalized to digits with country code.
type WhatsAppSender interface {
	Send(ctx context.Context, to, firstName, body string) error
}

// BackupMailer ships a full lead summary to the ops inbox over SMTP.
type BackupMailer interface {
	SendLeadBackup(ctx context.Context, subject, body string) error
}

// CardExtractor turns a business-card image into structured contact data.
type CardExtractor interface {
	Extract(ctx context.Context, image string) (*domain.CardData, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

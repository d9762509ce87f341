package service

import (
	"context"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/port"
)

type mockLeadStore struct {
	leads       []domain.Lead
	listErr     error
	lastQuery   domain.LeadQuery
	listCalls   int
	updatedID   string
	updatedNote string
	updateErr   error
}

func (m *mockLeadStore) ListLeads(ctx context.Context, q domain.LeadQuery) ([]domain.Lead, error) {
	m.listCalls++
	m.lastQuery = q
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.leads, nil
}

func (m *mockLeadStore) UpdateLeadNotes(ctx context.Context, leadID, notes string) error {
	m.updatedID = leadID
	m.updatedNote = notes
	return m.updateErr
}

type mockInventoryStore struct {
	items []domain.InventoryItem
	err   error
}

func (m *mockInventoryStore) ListInventory(ctx context.Context, date string) ([]domain.InventoryItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

type mockTemplateStore struct {
	tmpl *domain.MessageTemplate
	err  error
}

func (m *mockTemplateStore) GetTemplate(ctx context.Context, name string) (*domain.MessageTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tmpl, nil
}

type mockContactStore struct {
	contacts []domain.Contact
	err      error
}

func (m *mockContactStore) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.contacts, nil
}

type mockEmailSender struct {
	sent []port.EmailMessage
	err  error
}

func (m *mockEmailSender) Send(ctx context.Context, msg port.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockSMSSender struct {
	to, body string
	err      error
}

func (m *mockSMSSender) Send(ctx context.Context, to, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.body = to, body
	return nil
}

type mockWhatsAppSender struct {
	to, firstName, body string
	err                 error
}

func (m *mockWhatsAppSender) Send(ctx context.Context, to, firstName, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.firstName, m.body = to, firstName, body
	return nil
}

type mockBackupMailer struct {
	subject, body string
	err           error
}

func (m *mockBackupMailer) SendLeadBackup(ctx context.Context, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.subject, m.body = subject, body
	return nil
}

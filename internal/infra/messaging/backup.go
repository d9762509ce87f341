package messaging

import (
	"context"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPBackupMailer ships plain-text lead summaries to the ops inbox
// over SMTP (implements port.BackupMailer). It is the independent
// fallback channel when SendGrid has problems, so it deliberately
// shares nothing with the SendGrid client.
type SMTPBackupMailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
	logger *zap.Logger
}

// NewSMTPBackupMailer creates the backup mailer.
func NewSMTPBackupMailer(host string, smtpPort int, username, password, from, to string, logger *zap.Logger) *SMTPBackupMailer {
	return &SMTPBackupMailer{
		dialer: gomail.NewDialer(host, smtpPort, username, password),
		from:   from,
		to:     to,
		logger: logger,
	}
}

// SendLeadBackup delivers one lead summary. gomail dials per message,
// which is fine at booth volume.
func (m *SMTPBackupMailer) SendLeadBackup(ctx context.Context, subject, body string) error {
	_, span := tracer.Start(ctx, "SMTPBackup.SendLeadBackup")
	defer span.End()

	if m.dialer.Username == "" {
		return &domain.ErrConfiguration{Name: "Backup email service"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("backup: smtp send failed", zap.Error(err))
		return err
	}

	m.logger.Info("backup: lead summary sent", zap.String("to", m.to))
	return nil
}

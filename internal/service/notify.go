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
	"github.com/canadamade/expo-leads-api/internal/template"
	"github.com/canadamade/expo-leads-api/internal/webhook"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var notifyTracer = otel.Tracer("service/notify")

// Template names looked up in the record store.
const (
	tmplSampleEmail  = "customer_confirmation_email"
	tmplStaffMessage = "staff_notification"
)

const defaultSampleSubject = "Your CanadaMade sample is ready"

// Notifier drives all outbound messaging: sample confirmations,
// verification codes, staff alerts, and the SMTP lead backup.
type Notifier struct {
	templates port.TemplateStore
	email     port.EmailSender
	sms       port.SMSSender
	whatsapp  port.WhatsAppSender
	backup    port.BackupMailer
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotifier creates the notifier service with all dependencies injected.
func NewNotifier(
	templates port.TemplateStore,
	email port.EmailSender,
	sms port.SMSSender,
	whatsapp port.WhatsAppSender,
	backup port.BackupMailer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		templates: templates,
		email:     email,
		sms:       sms,
		whatsapp:  whatsapp,
		backup:    backup,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// SendSampleEmail sends the sample-ready confirmation email, rendered
// from the store template so marketing can edit copy without a deploy.
func (n *Notifier) SendSampleEmail(ctx context.Context, email, firstName, flavor string) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendSampleEmail")
	defer span.End()

	if email == "" || firstName == "" || flavor == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: email, first_name, flavor",
		}
	}

	tmpl, err := n.templates.GetTemplate(ctx, tmplSampleEmail)
	if err != nil {
		n.metrics.IncrMessageSent("email", "error")
		return err
	}

	subject := tmpl.Subject
	if subject == "" {
		subject = defaultSampleSubject
	}
	body := template.Render(tmpl.Body, map[string]string{
		"first_name": firstName,
		"flavor":     flavor,
	})

	if err := n.email.Send(ctx, port.EmailMessage{
		To:       email,
		ToName:   firstName,
		Subject:  subject,
		HTMLBody: body,
	}); err != nil {
		n.metrics.IncrMessageSent("email", "error")
		return err
	}

	n.metrics.IncrMessageSent("email", "success")
	n.logger.Info("sample email sent", zap.String("to", email))
	return nil
}

// SendVerificationEmail sends the fixed-copy verification code email.
func (n *Notifier) SendVerificationEmail(ctx context.Context, email, code string) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendVerificationEmail")
	defer span.End()

	if email == "" || code == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: email, code",
		}
	}

	text := fmt.Sprintf("Your CanadaMade verification code is: %s\n\nEnter this code to verify. Expires in 10 minutes.", code)
	html := fmt.Sprintf(
		`<div style="font-family:sans-serif"><h2>CanadaMade</h2><p>Your verification code is:</p><p style="font-size:28px;font-weight:bold;letter-spacing:4px">%s</p><p>Enter this code to verify. Expires in 10 minutes.</p></div>`,
		code,
	)

	if err := n.email.Send(ctx, port.EmailMessage{
		To:       email,
		Subject:  "Your CanadaMade verification code",
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		n.metrics.IncrMessageSent("email", "error")
		return err
	}

	n.metrics.IncrMessageSent("email", "success")
	return nil
}

// SendVerificationSMS sends the verification code by SMS.
func (n *Notifier) SendVerificationSMS(ctx context.Context, phone, code string) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendVerificationSMS")
	defer span.End()

	if phone == "" || code == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: phone, code",
		}
	}
	normalized, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your CanadaMade verification code is %s. Expires in 10 minutes.", code)
	if err := n.sms.Send(ctx, normalized, body); err != nil {
		n.metrics.IncrMessageSent("sms", "error")
		return err
	}

	n.metrics.IncrMessageSent("sms", "success")
	return nil
}

// SendSMS sends an arbitrary SMS body, used for the confirmation text
// and ad-hoc booth messages.
func (n *Notifier) SendSMS(ctx context.Context, phone, body string) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendSMS")
	defer span.End()

	if phone == "" || body == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: phone, message",
		}
	}
	normalized, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	if err := n.sms.Send(ctx, normalized, body); err != nil {
		n.metrics.IncrMessageSent("sms", "error")
		return err
	}

	n.metrics.IncrMessageSent("sms", "success")
	return nil
}

// SendVerificationWhatsApp sends the verification code over WhatsApp.
func (n *Notifier) SendVerificationWhatsApp(ctx context.Context, phone, firstName, code string) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendVerificationWhatsApp")
	defer span.End()

	if phone == "" || code == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: phone, code",
		}
	}
	normalized, err := normalizePhone(phone)
	if err != nil {
		return err
	}

	name := firstName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("🍁 *CanadaMade*\n\nHi %s!\n\nYour verification code is: *%s*\n\nEnter this code to verify.\nExpires in 10 minutes.", name, code)

	if err := n.whatsapp.Send(ctx, normalized, firstName, body); err != nil {
		n.metrics.IncrMessageSent("whatsapp", "error")
		return err
	}

	n.metrics.IncrMessageSent("whatsapp", "success")
	return nil
}

// SendConfirmation dispatches the sample confirmation on the lead's
// chosen channel.
func (n *Notifier) SendConfirmation(ctx context.Context, method, email, phone, firstName, flavor string) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendConfirmation")
	defer span.End()

	if method == "" || firstName == "" || flavor == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: method, first_name, flavor",
		}
	}

	switch method {
	case string(domain.CommEmail):
		return n.SendSampleEmail(ctx, email, firstName, flavor)
	case string(domain.CommSMS):
		normalized, err := normalizePhone(phone)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("Hi %s! Your CanadaMade %s sample is ready for pickup at the booth.", firstName, flavor)
		if err := n.sms.Send(ctx, normalized, body); err != nil {
			n.metrics.IncrMessageSent("sms", "error")
			return err
		}
		n.metrics.IncrMessageSent("sms", "success")
		return nil
	case string(domain.CommWhatsApp):
		normalized, err := normalizePhone(phone)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("🍁 *CanadaMade*\n\nHi %s!\n\nYour %s sample is ready for pickup at the booth. See you there!", firstName, flavor)
		if err := n.whatsapp.Send(ctx, normalized, firstName, body); err != nil {
			n.metrics.IncrMessageSent("whatsapp", "error")
			return err
		}
		n.metrics.IncrMessageSent("whatsapp", "success")
		return nil
	default:
		return &domain.ErrValidation{
			Message: "Invalid method",
			Details: "Expected one of: whatsapp, email, sms",
		}
	}
}

// StaffMessage is a rendered staff notification, returned to the booth
// frontend for display and manual forwarding.
type StaffMessage struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// PrepareStaffNotification renders the staff alert template for a new
// lead. It prepares the message only; delivery is the frontend's job.
func (n *Notifier) PrepareStaffNotification(ctx context.Context, lead *domain.Lead, photoURL string) (*StaffMessage, error) {
	ctx, span := notifyTracer.Start(ctx, "Notifier.PrepareStaffNotification")
	defer span.End()

	if lead.FirstName == "" || lead.LastName == "" || lead.Flavor == "" {
		return nil, &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: first_name, last_name, flavor",
		}
	}

	tmpl, err := n.templates.GetTemplate(ctx, tmplStaffMessage)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"first_name": lead.FirstName,
		"last_name":  lead.LastName,
		"flavor":     lead.Flavor,
		"company":    lead.Company,
		"job_title":  lead.JobTitle,
		"country":    lead.Country,
		"email":      lead.Email,
		"phone":      lead.Phone,
		"photo_url":  photoURL,
		"timestamp":  n.now().In(report.Location()).Format(time.RFC3339),
	}

	return &StaffMessage{
		Subject: template.Render(tmpl.Subject, vars),
		Body:    template.Render(tmpl.Body, vars),
	}, nil
}

// SendLeadBackup ships a plain-text lead summary to the ops inbox over
// SMTP, independent of SendGrid.
func (n *Notifier) SendLeadBackup(ctx context.Context, lead *domain.Lead) error {
	ctx, span := notifyTracer.Start(ctx, "Notifier.SendLeadBackup")
	defer span.End()

	if lead.FirstName == "" {
		return &domain.ErrValidation{
			Message: "Missing required fields",
			Details: "Required: first_name",
		}
	}

	var b strings.Builder
	b.WriteString("NEW LEAD - GULF EXPO 2026\n")
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Name:      %s\n", lead.FullName())
	fmt.Fprintf(&b, "Email:     %s\n", orBlank(lead.Email))
	fmt.Fprintf(&b, "Phone:     %s\n", orBlank(lead.Phone))
	fmt.Fprintf(&b, "WhatsApp:  %s\n", orBlank(lead.WhatsAppNumber))
	fmt.Fprintf(&b, "Company:   %s\n", orBlank(lead.Company))
	fmt.Fprintf(&b, "Job Title: %s\n", orBlank(lead.JobTitle))
	fmt.Fprintf(&b, "Country:   %s\n", orBlank(lead.Country))
	fmt.Fprintf(&b, "Interest:  %s\n", orBlank(lead.Interest))
	fmt.Fprintf(&b, "Flavor:    %s\n", orBlank(lead.Flavor))
	fmt.Fprintf(&b, "Captured:  %s\n", n.now().In(report.Location()).Format("1/2/2006, 3:04:05 PM"))

	subject := fmt.Sprintf("New Lead: %s", lead.FullName())
	if err := n.backup.SendLeadBackup(ctx, subject, b.String()); err != nil {
		n.metrics.IncrMessageSent("backup", "error")
		return err
	}

	n.metrics.IncrMessageSent("backup", "success")
	return nil
}

// normalizePhone reduces a phone number to digits and checks it looks
// like an international number.
func normalizePhone(phone string) (string, error) {
	digits := webhook.CleanPhone(phone)
	if len(digits) < 10 || len(digits) > 15 {
		return "", &domain.ErrValidation{
			Message: "Invalid phone number",
			Details: "Expected 10 to 15 digits including country code",
		}
	}
	return digits, nil
}

func orBlank(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

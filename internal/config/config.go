// Package config loads application configuration from the environment.
// Credentials have no embedded fallbacks; Validate reports what is
// missing so main can refuse to start half-configured.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Supabase
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// SendGrid
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	// Twilio
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// WhatsApp gateway
	WhatsAppBaseURL   string
	WhatsAppVendorUID string
	WhatsAppToken     string
	WhatsAppPhoneID   string

	// Vision
	AnthropicAPIKey string
	VisionModel     string

	// Inbound webhook
	WebhookVerifyToken string
	// StaffNumbers maps a cleaned phone number to the staff member's
	// name. Only these numbers may add notes via WhatsApp.
	StaffNumbers map[string]string

	// Backup SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	BackupFrom   string
	BackupTo     string
}

// Load reads configuration from environment variables. Operational
// knobs get defaults; credentials do not.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "info@canadamade.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "CanadaMade"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		WhatsAppBaseURL:   getEnv("WHATSAPP_API_URL", ""),
		WhatsAppVendorUID: getEnv("WHATSAPP_VENDOR_UID", ""),
		WhatsAppToken:     getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneID:   getEnv("WHATSAPP_PHONE_ID", ""),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		VisionModel:     getEnv("VISION_MODEL", "claude-3-5-sonnet-20241022"),

		WebhookVerifyToken: getEnv("WEBHOOK_VERIFY_TOKEN", ""),
		StaffNumbers:       parseStaffNumbers(getEnv("STAFF_NUMBERS", "")),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		BackupFrom:   getEnv("BACKUP_EMAIL_FROM", "info@canadamade.com"),
		BackupTo:     getEnv("BACKUP_EMAIL_TO", "info@canadamade.com"),
	}
}

// Validate returns the names of required settings that are missing.
// Only the record store and webhook token are hard requirements; the
// delivery providers degrade to per-request configuration errors.
func (c *Config) Validate() []string {
	var missing []string
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseAnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if c.SupabaseServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if c.WebhookVerifyToken == "" {
		missing = append(missing, "WEBHOOK_VERIFY_TOKEN")
	}
	return missing
}

// parseStaffNumbers parses "phone:name,phone:name" into a lookup map.
// Phones are reduced to digits so the format tolerates + and spaces.
func parseStaffNumbers(raw string) map[string]string {
	numbers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		phone, name, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		phone = digitsOnly(phone)
		name = strings.TrimSpace(name)
		if phone == "" || name == "" {
			continue
		}
		numbers[phone] = name
	}
	return numbers
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/canadamade/expo-leads-api/internal/config"
	"github.com/canadamade/expo-leads-api/internal/handler"
	"github.com/canadamade/expo-leads-api/internal/infra/cache"
	"github.com/canadamade/expo-leads-api/internal/infra/messaging"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/infra/resilience"
	"github.com/canadamade/expo-leads-api/internal/infra/supabase"
	"github.com/canadamade/expo-leads-api/internal/infra/vision"
	"github.com/canadamade/expo-leads-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if missing := cfg.Validate(); len(missing) > 0 {
		logger.Fatal("missing required configuration",
			zap.String("variables", strings.Join(missing, ", ")),
		)
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("staff_numbers", len(cfg.StaffNumbers)),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "expo-leads-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	reportCache := cache.New[any](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		metrics,
		logger,
	)

	emailClient := messaging.NewSendGridClient(httpClient, cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, logger)
	smsClient := messaging.NewTwilioClient(httpClient, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger)
	whatsappClient := messaging.NewWhatsAppClient(httpClient, cfg.WhatsAppBaseURL, cfg.WhatsAppVendorUID, cfg.WhatsAppToken, cfg.WhatsAppPhoneID, logger)
	backupMailer := messaging.NewSMTPBackupMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.BackupFrom, cfg.BackupTo, logger)
	visionClient := vision.NewClient(httpClient, cfg.AnthropicAPIKey, cfg.VisionModel, logger)

	// --- Services ---
	reportsSvc := service.NewReports(store, store, reportCache, metrics, logger)
	notifierSvc := service.NewNotifier(store, emailClient, smsClient, whatsappClient, backupMailer, metrics, logger)
	inboundSvc := service.NewInbound(store, cfg.StaffNumbers, metrics, logger)
	contactsSvc := service.NewContacts(store, reportCache, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Reports:            reportsSvc,
		Notifier:           notifierSvc,
		Inbound:            inboundSvc,
		Contacts:           contactsSvc,
		Extractor:          visionClient,
		Leads:              store,
		Metrics:            metrics,
		WebhookVerifyToken: cfg.WebhookVerifyToken,
	}, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

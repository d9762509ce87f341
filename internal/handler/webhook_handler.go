package handler

import (
	"io"
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/service"

	"go.uber.org/zap"
)

// verifyWebhookHandler answers the Meta webhook subscription handshake.
// A wrong token still gets a 200 so the vendor's health probe does not
// flap the subscription; it just never receives the challenge back.
func verifyWebhookHandler(verifyToken string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if params.Get("hub.verify_token") != verifyToken {
			logger.Warn("webhook verification with wrong token")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
			return
		}

		challenge := params.Get("hub.challenge")
		if challenge == "" {
			challenge = "verified"
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
	}
}

// inboundWebhookHandler receives staff WhatsApp messages and turns them
// into lead notes. Always acks 200 for recognised-but-rejected payloads;
// only a storage failure surfaces as an error.
func inboundWebhookHandler(svc *service.Inbound, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		result, err := svc.HandleMessage(r.Context(), raw)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

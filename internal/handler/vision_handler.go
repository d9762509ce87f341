package handler

import (
	"errors"
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/infra/observability"
	"github.com/canadamade/expo-leads-api/internal/port"

	"go.uber.org/zap"
)

type extractCardRequest struct {
	Image string `json:"image"`
}

type extractCardResponse struct {
	Success bool             `json:"success"`
	Data    *domain.CardData `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
	Raw     string           `json:"raw,omitempty"`
}

// extractCardHandler runs a business card photo through the vision model.
// A model reply we cannot parse is still a 200: the booth tablet shows
// the raw text and staff type the fields in by hand.
func extractCardHandler(extractor port.CardExtractor, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extractCardRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.Image == "" {
			handleServiceError(w, &domain.ErrValidation{
				Message: "Missing image",
				Details: "Required: image (base64 or data URL)",
			}, logger)
			return
		}

		card, err := extractor.Extract(r.Context(), req.Image)
		if err != nil {
			var parseErr *domain.ErrParse
			if errors.As(err, &parseErr) {
				metrics.IncrCardExtraction("parse_error")
				writeJSON(w, http.StatusOK, extractCardResponse{
					Success: false,
					Error:   "Could not parse extraction",
					Raw:     parseErr.Raw,
				})
				return
			}
			metrics.IncrCardExtraction("error")
			handleServiceError(w, err, logger)
			return
		}

		metrics.IncrCardExtraction("success")
		writeJSON(w, http.StatusOK, extractCardResponse{Success: true, Data: card})
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON parses a request body into dst with a size cap so a bad
// client cannot stream us an unbounded payload.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 10<<20))
	if err := dec.Decode(dst); err != nil {
		return &domain.ErrValidation{Message: "Invalid JSON body", Details: err.Error()}
	}
	return nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validation *domain.ErrValidation
	var notFound *domain.ErrNotFound
	var configuration *domain.ErrConfiguration
	var upstream *domain.ErrUpstream
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   validation.Message,
			Details: validation.Details,
		})
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &configuration):
		// Which credential is missing is for the logs, not the client.
		logger.Error("missing configuration", zap.String("name", configuration.Name))
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &upstream):
		logger.Error("upstream failure",
			zap.String("service", upstream.Service),
			zap.Int("status", upstream.Status),
		)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   "Upstream service error",
			Status:  upstream.Status,
			Details: upstream.Details,
		})
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Server error",
			Message: err.Error(),
		})
	}
}

package handler

import (
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/service"

	"go.uber.org/zap"
)

type sendEmailRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Flavor    string `json:"flavor"`
}

func sendEmailHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendEmailRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendSampleEmail(r.Context(), req.Email, req.FirstName, req.Flavor); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "sent_to": req.Email})
	}
}

type sendVerificationEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func sendVerificationEmailHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendVerificationEmailRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendVerificationEmail(r.Context(), req.Email, req.Code); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type sendSMSRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func sendSMSHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendSMSRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendSMS(r.Context(), req.Phone, req.Message); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type sendVerificationSMSRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func sendVerificationSMSHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendVerificationSMSRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendVerificationSMS(r.Context(), req.Phone, req.Code); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type sendWhatsAppRequest struct {
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	Code      string `json:"code"`
}

func sendWhatsAppHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendWhatsAppRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendVerificationWhatsApp(r.Context(), req.Phone, req.FirstName, req.Code); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type sendConfirmationRequest struct {
	Method    string `json:"method"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	Flavor    string `json:"flavor"`
}

func sendConfirmationHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendConfirmationRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendConfirmation(r.Context(), req.Method, req.Email, req.Phone, req.FirstName, req.Flavor); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "method": req.Method})
	}
}

type notifyStaffRequest struct {
	domain.Lead
	PhotoURL string `json:"photo_url"`
}

func notifyStaffHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req notifyStaffRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		msg, err := svc.PrepareStaffNotification(r.Context(), &req.Lead, req.PhotoURL)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
	}
}

func backupLeadHandler(svc *service.Notifier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lead domain.Lead
		if err := decodeJSON(r, &lead); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.SendLeadBackup(r.Context(), &lead); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

package handler

import (
	"net/http"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/service"

	"go.uber.org/zap"
)

type contactListResponse struct {
	Success  bool             `json:"success"`
	Count    int              `json:"count"`
	Contacts []domain.Contact `json:"contacts"`
}

func listContactsHandler(svc *service.Contacts, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		contacts, err := svc.List(r.Context(), service.ContactFilter{
			Status: params.Get("status"),
			Search: params.Get("search"),
			Sort:   params.Get("sort"),
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, contactListResponse{
			Success:  true,
			Count:    len(contacts),
			Contacts: contacts,
		})
	}
}

func contactStatsHandler(svc *service.Contacts, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.GetDashboard(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

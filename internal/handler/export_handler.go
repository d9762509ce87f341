package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/canadamade/expo-leads-api/internal/domain"
	"github.com/canadamade/expo-leads-api/internal/report"
	"github.com/canadamade/expo-leads-api/internal/service"

	"go.uber.org/zap"
)

// nowFn is swapped in tests to pin the export filename date.
var nowFn = time.Now

// csvHeader is the fixed column order the sales team's spreadsheet
// imports expect. Do not reorder.
var csvHeader = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "WhatsApp",
	"Company", "Job Title", "Country", "Interest", "Flavor",
	"Verified", "Collected", "Created At",
}

type exportJSONResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []domain.Lead `json:"data"`
}

// exportLeadsHandler serves GET /api/export/leads. format=json returns
// the raw rows; anything else downloads a CSV.
func exportLeadsHandler(svc *service.Reports, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		leads, err := svc.ExportLeads(r.Context(), service.ExportQuery{
			Country:      params.Get("country"),
			Interest:     params.Get("interest"),
			VerifiedOnly: params.Get("verified") == "true",
			DateFrom:     params.Get("date_from"),
			DateTo:       params.Get("date_to"),
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if params.Get("format") == "json" {
			writeJSON(w, http.StatusOK, exportJSONResponse{Success: true, Count: len(leads), Data: leads})
			return
		}

		filename := fmt.Sprintf("canadamade_leads_%s.csv", report.LocalDate(nowFn()))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)

		cw := csv.NewWriter(w)
		cw.Write(csvHeader)
		for i := range leads {
			cw.Write(csvRow(&leads[i]))
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			logger.Error("csv export write failed", zap.Error(err))
		}
	}
}

func csvRow(l *domain.Lead) []string {
	return []string{
		l.ID,
		l.FirstName,
		l.LastName,
		l.Email,
		l.Phone,
		l.WhatsAppNumber,
		l.Company,
		l.JobTitle,
		l.Country,
		l.Interest,
		l.Flavor,
		yesNo(l.Verified),
		yesNo(l.BoothNotified),
		l.CreatedAt.In(report.Location()).Format("1/2/2006, 3:04:05 PM"),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

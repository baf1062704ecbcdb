package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/metrics"
	"github.com/drugsafe/drugscan-api/reports"
	"github.com/drugsafe/drugscan-api/resolver"
	"github.com/google/uuid"
)

// SubmitReport validates a report submission, computes the high-dose flag
// against the current dataset snapshot and appends it to the log. Nothing
// is persisted when validation fails.
func SubmitReport(store interfaces.ReportStore, res *resolver.Resolver, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report reports.Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validator.ValidateReport(&report); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// Server-side fields: id, date and the dose flag are never trusted
		// from the client
		report.ID = uuid.NewString()
		if report.Date == "" {
			report.Date = time.Now().UTC().Format(time.RFC3339)
		}
		report.HighDose = res.EvaluateDose(report.Drug, report.AmountMg)

		if err := store.Append(r.Context(), report); err != nil {
			logging.Error("Failed to append report", "error", err, "drug", report.Drug)
			RespondWithError(w, http.StatusInternalServerError, "Failed to store report")
			return
		}

		if report.HighDose {
			metrics.HighDoseReportTotal.Inc()
			logging.Warn("High dose report submitted", "drug", report.Drug, "amount_mg", report.AmountMg)
		}

		RespondWithJSON(w, http.StatusCreated, report)
	}
}

// ListReports returns the full report log in append order
func ListReports(store interfaces.ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := store.ReadAll(r.Context())
		if err != nil {
			logging.Error("Failed to read report log", "error", err)
			RespondWithError(w, http.StatusInternalServerError, "Failed to read reports")
			return
		}

		RespondWithJSON(w, http.StatusOK, all)
	}
}

// ClearReports removes every stored report
func ClearReports(store interfaces.ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearAll(r.Context()); err != nil {
			logging.Error("Failed to clear report log", "error", err)
			RespondWithError(w, http.StatusInternalServerError, "Failed to clear reports")
			return
		}

		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

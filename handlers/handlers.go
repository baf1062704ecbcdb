// Package handlers provides HTTP request handlers for the drug scan API
// endpoints. It includes handlers for payload resolution, local drug lookup,
// dose evaluation, the report log, health checks, and response formatting
// with proper input validation and error handling.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/resolver"
	"github.com/drugsafe/drugscan-api/scan/entities"
	"github.com/go-chi/chi/v5"
)

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error body
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// resolveRequest is the POST /resolve body for payloads that do not fit a
// path segment (structured QR payloads, GS1 strings with separators)
type resolveRequest struct {
	Payload string                 `json:"payload"`
	Origin  entities.PayloadOrigin `json:"origin"`
}

// ResolvePayload resolves a scanned or typed payload given as a path segment
func ResolvePayload(res *resolver.Resolver, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := chi.URLParam(r, "term")
		if term == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing search term")
			return
		}

		origin := entities.PayloadOrigin(r.URL.Query().Get("origin"))
		if origin == "" {
			origin = entities.OriginManual
		}

		if err := validator.ValidateSearchTerm(term, origin == entities.OriginManual); err != nil {
			logging.Warn("Unusual user input", "term", term, "error", err)
			RespondWithError(w, http.StatusBadRequest, "Invalid search term")
			return
		}

		merged := res.Resolve(r.Context(), term)
		RespondWithJSON(w, http.StatusOK, merged)
	}
}

// ResolvePayloadPost resolves a payload submitted in a JSON body
func ResolvePayloadPost(res *resolver.Resolver, validator interfaces.DataValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Origin == "" {
			req.Origin = entities.OriginCamera
		}

		if err := validator.ValidateSearchTerm(req.Payload, req.Origin == entities.OriginManual); err != nil {
			logging.Warn("Unusual scan payload", "origin", req.Origin, "error", err)
			RespondWithError(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		merged := res.Resolve(r.Context(), req.Payload)
		RespondWithJSON(w, http.StatusOK, merged)
	}
}

// EvaluateDose flags a dose amount against the configured maximum of a drug
func EvaluateDose(res *resolver.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		amountStr := chi.URLParam(r, "amountMg")

		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid amount")
			return
		}

		response := map[string]any{
			"drug":     name,
			"amountMg": amount,
			"highDose": res.EvaluateDose(name, amount),
		}

		RespondWithJSON(w, http.StatusOK, response)
	}
}

// ServeAllDrugs returns the full dataset snapshot
func ServeAllDrugs(dataStore interfaces.DataStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, dataStore.GetRecords())
	}
}

// ServePagedDrugs returns a page of the dataset
func ServePagedDrugs(dataStore interfaces.DataStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNumber := chi.URLParam(r, "pageNumber")
		page, err := strconv.Atoi(pageNumber)
		if err != nil || page < 1 {
			logging.Warn("Unusual user input", "pageNumber", pageNumber)
			RespondWithError(w, http.StatusBadRequest, "Invalid page number")
			return
		}

		records := dataStore.GetRecords()
		pageSize := 10
		start := (page - 1) * pageSize
		end := start + pageSize

		if start >= len(records) {
			RespondWithError(w, http.StatusNotFound, "Page not found")
			return
		}

		if end > len(records) {
			end = len(records)
		}

		response := map[string]interface{}{
			"data":       records[start:end],
			"page":       page,
			"pageSize":   pageSize,
			"totalItems": len(records),
			"maxPage":    (len(records) + pageSize - 1) / pageSize,
		}

		RespondWithJSON(w, http.StatusOK, response)
	}
}

// FindDrug looks a drug up in the local index only (exact then substring),
// without triggering the fallback path
func FindDrug(dataStore interfaces.DataStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing drug name")
			return
		}

		record := dataStore.GetIndex().Lookup(name)
		if record == nil {
			RespondWithError(w, http.StatusNotFound, "No drug found")
			return
		}

		RespondWithJSON(w, http.StatusOK, record)
	}
}

// HealthCheck returns server health information
func HealthCheck(checker interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, data, httpStatus := checker.HealthCheck()

		response := map[string]any{
			"status": status,
			"data":   data,
		}

		RespondWithJSON(w, httpStatus, response)
	}
}

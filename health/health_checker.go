// Package health provides health checking functionality for the drug scan API.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/drugsafe/drugscan-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements the interface
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore   interfaces.DataStore
	reportStore interfaces.ReportStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(dataStore interfaces.DataStore, reportStore interfaces.ReportStore) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		dataStore:   dataStore,
		reportStore: reportStore,
	}
}

// HealthCheck returns HTTP-specific health data. An empty dataset is
// "degraded" rather than "unhealthy": the service still resolves through
// the fallback path in that state.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	records := h.dataStore.GetRecords()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := time.Since(lastUpdate)

	reportsOK := true
	if h.reportStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := h.reportStore.ReadAll(ctx); err != nil {
			reportsOK = false
		}
	}

	switch {
	case !reportsOK:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case len(records) == 0:
		status = "degraded"
		httpStatus = http.StatusOK

	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"drug_records":   len(records),
		"index_keys":     h.dataStore.GetIndex().Len(),
		"is_updating":    isUpdating,
		"report_log_ok":  reportsOK,
		"next_update":    h.CalculateNextUpdate().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// CalculateNextUpdate returns the next scheduled dataset refresh time
func (h *HealthCheckerImpl) CalculateNextUpdate() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	if now.Before(sixAM) {
		return sixAM
	}

	if now.Before(sixPM) {
		return sixPM
	}

	return sixAM.AddDate(0, 0, 1)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drugsafe/drugscan-api/reports"
	"github.com/drugsafe/drugscan-api/validation"
)

func TestSubmitReportHandler(t *testing.T) {
	_, res, store := testFixtures(t, panadolDataset())
	validator := validation.NewDataValidator()

	body := `{
		"id": "client-supplied-ignored",
		"drug": "Panadol",
		"patientName": "Jane Doe",
		"patientAge": 34,
		"amountMg": 5000,
		"description": "Accidental double dose"
	}`
	req := httptest.NewRequest("POST", "/reports", strings.NewReader(body))
	w := httptest.NewRecorder()
	SubmitReport(store, res, validator)(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var stored reports.Report
	if err := json.NewDecoder(w.Body).Decode(&stored); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if stored.ID == "" || stored.ID == "client-supplied-ignored" {
		t.Errorf("Expected a server-assigned ID, got %q", stored.ID)
	}
	if stored.Date == "" {
		t.Error("Expected a server-assigned date")
	}
	if !stored.HighDose {
		t.Error("Expected the 5000mg report to be flagged high dose against the 4000mg maximum")
	}

	all, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != stored.ID {
		t.Errorf("Expected the report in the log, got %v", all)
	}
}

func TestSubmitReportValidationFailureStoresNothing(t *testing.T) {
	_, res, store := testFixtures(t, panadolDataset())
	validator := validation.NewDataValidator()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"drug": broken`},
		{"missing drug", `{"patientName":"Jane Doe","amountMg":500}`},
		{"missing patient", `{"drug":"Panadol","amountMg":500}`},
		{"zero amount", `{"drug":"Panadol","patientName":"Jane Doe","amountMg":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/reports", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			SubmitReport(store, res, validator)(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
		})
	}

	all, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Rejected submissions must not be persisted, found %d", len(all))
	}
}

func TestSubmitReportUnknownDrugNotHighDose(t *testing.T) {
	_, res, store := testFixtures(t, nil)
	validator := validation.NewDataValidator()

	body := `{"drug":"Mysteriol","patientName":"Jane Doe","amountMg":99999}`
	req := httptest.NewRequest("POST", "/reports", strings.NewReader(body))
	w := httptest.NewRecorder()
	SubmitReport(store, res, validator)(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var stored reports.Report
	if err := json.NewDecoder(w.Body).Decode(&stored); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stored.HighDose {
		t.Error("A drug without a configured maximum must never be flagged")
	}
}

func TestListAndClearReports(t *testing.T) {
	_, res, store := testFixtures(t, panadolDataset())
	validator := validation.NewDataValidator()

	for i := 0; i < 3; i++ {
		body := `{"drug":"Panadol","patientName":"Jane Doe","amountMg":500}`
		req := httptest.NewRequest("POST", "/reports", strings.NewReader(body))
		w := httptest.NewRecorder()
		SubmitReport(store, res, validator)(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("Submission %d failed: %d", i, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/reports", nil)
	w := httptest.NewRecorder()
	ListReports(store)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var all []reports.Report
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 reports, got %d", len(all))
	}

	req = httptest.NewRequest("DELETE", "/reports", nil)
	w = httptest.NewRecorder()
	ClearReports(store)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from clear, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/reports", nil)
	w = httptest.NewRecorder()
	ListReports(store)(w, req)

	all = nil
	if err := json.NewDecoder(w.Body).Decode(&all); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected empty log after clear, got %d", len(all))
	}
}

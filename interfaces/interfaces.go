// Package interfaces defines core abstractions for the drug scan API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/drugsafe/drugscan-api/index"
	"github.com/drugsafe/drugscan-api/reports"
	"github.com/drugsafe/drugscan-api/scan/entities"
)

// DataQualityReport provides a summary of dataset quality issues found at load
type DataQualityReport struct {
	DuplicateKeys          []string // Names or synonyms mapping to more than one record
	RecordsWithoutUses     int
	RecordsWithoutAdrs     int
	RecordsWithoutMaxDose  int // Records the dose safety check cannot cover
	SynonymsShadowingNames int // Synonym keys that collided with a primary name
}

// DataStore defines the contract for data storage operations.
// It provides thread-safe access to the drug dataset and its lookup index
// with atomic operations for zero-downtime updates.
type DataStore interface {
	GetRecords() []entities.DrugRecord
	GetIndex() *index.Index
	GetLastUpdated() time.Time
	IsUpdating() bool

	UpdateData(records []entities.DrugRecord, idx *index.Index)
	BeginUpdate() bool
	EndUpdate()
}

// DatasetParser defines the contract for loading the authoritative drug
// dataset from an external source into validated records.
type DatasetParser interface {
	ParseDataset() ([]entities.DrugRecord, error)
}

// FallbackClient defines the contract for the external lookup service used
// when the local index has no match. Both queries are best-effort: a failed
// query yields an empty result, never an aborted resolution.
type FallbackClient interface {
	FetchLabel(ctx context.Context, name string) (uses []string, dosage string, err error)
	FetchEvents(ctx context.Context, name string) ([]string, error)
}

// ReportStore defines the contract for the persisted report log.
// The log is append-only and ordered; entries are immutable once written.
type ReportStore interface {
	Append(ctx context.Context, report reports.Report) error
	ReadAll(ctx context.Context) ([]reports.Report, error)
	ClearAll(ctx context.Context) error
	Close() error
}

// Scheduler defines the contract for job scheduling and health monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
type DataValidator interface {
	ValidateDrugRecord(r *entities.DrugRecord) error
	ValidateInput(input string) error
	ValidateSearchTerm(input string, typed bool) error
	ValidateReport(r *reports.Report) error
	ReportDataQuality(records []entities.DrugRecord) *DataQualityReport
}

// Package scheduler provides automated dataset refresh scheduling and
// staleness monitoring for the drug scan API, coordinating refreshes with
// the data container using dependency injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/drugsafe/drugscan-api/index"
	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles dataset refreshes and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.DatasetParser
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.DatasetParser) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial dataset load and schedules refreshes. A failed
// initial load is not fatal: the container keeps its empty index and the
// service runs in fallback-only mode until a refresh succeeds.
func (s *Scheduler) Start() error {
	if err := s.updateData(); err != nil {
		logging.Warn("Initial dataset load failed, continuing in fallback-only mode", "error", err)
	}

	// Refresh at 06:00 and 18:00 daily
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to refresh dataset", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule dataset refresh", "error", err)
		return fmt.Errorf("failed to schedule dataset refresh: %w", err)
	}

	s.scheduler.StartAsync()

	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// updateData performs a complete dataset refresh using injected dependencies
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Dataset refresh already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting dataset refresh")
	start := time.Now()

	records, err := s.parser.ParseDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	validator := validation.NewDataValidator()
	report := validator.ReportDataQuality(records)

	if len(report.DuplicateKeys) > 0 {
		logging.Warn("Duplicate index keys detected, last record wins",
			"total", len(report.DuplicateKeys),
			"keys", report.DuplicateKeys,
		)
	}

	if report.SynonymsShadowingNames > 0 {
		logging.Warn("Synonyms colliding with primary names", "count", report.SynonymsShadowingNames)
	}

	if report.RecordsWithoutMaxDose > 0 {
		logging.Info("Records without a configured max dose (dose check cannot cover them)",
			"count", report.RecordsWithoutMaxDose)
	}

	// Atomic swap using the injected data store (zero downtime)
	s.dataStore.UpdateData(records, index.Build(records))

	elapsed := time.Since(start)
	logging.Info("Dataset refresh completed", "duration", elapsed.String(), "record_count", len(records))

	return nil
}

// startHealthMonitoring warns when the dataset has gone stale
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastUpdate := s.dataStore.GetLastUpdated()
			if time.Since(lastUpdate) > 25*time.Hour {
				logging.Warn("Dataset hasn't been refreshed in over 25 hours")
			}
		}
	}()
}

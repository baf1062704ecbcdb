// Package data provides thread-safe data storage and management for the
// drug scan API. It includes the DataContainer struct with atomic operations
// for zero-downtime dataset refreshes and read access to the lookup index.
package data

import (
	"sync/atomic"
	"time"

	"github.com/drugsafe/drugscan-api/index"
	"github.com/drugsafe/drugscan-api/interfaces"
	"github.com/drugsafe/drugscan-api/logging"
	"github.com/drugsafe/drugscan-api/scan/entities"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer holds the dataset and its index with atomic pointers for
// zero-downtime updates. The index is rebuilt on every refresh and swapped
// in whole; readers never see a partially built index.
type DataContainer struct {
	records         atomic.Value // []entities.DrugRecord
	index           atomic.Value // *index.Index
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer creates a new DataContainer with empty data
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.records.Store(make([]entities.DrugRecord, 0))
	dc.index.Store(index.Build(nil))
	dc.lastUpdated.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// Thread-safe getters with type check

// GetRecords returns the current dataset snapshot
func (dc *DataContainer) GetRecords() []entities.DrugRecord {
	if v := dc.records.Load(); v != nil {
		if records, ok := v.([]entities.DrugRecord); ok {
			return records
		}
	}

	logging.Warn("Drug record list is empty or invalid")
	return []entities.DrugRecord{}
}

// GetIndex returns the current lookup index
func (dc *DataContainer) GetIndex() *index.Index {
	if v := dc.index.Load(); v != nil {
		if idx, ok := v.(*index.Index); ok {
			return idx
		}
	}

	logging.Warn("Lookup index is empty or invalid")
	return index.Build(nil)
}

// GetLastUpdated returns the timestamp of the last data update
func (dc *DataContainer) GetLastUpdated() time.Time {
	if v := dc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a data update is currently in progress
func (dc *DataContainer) IsUpdating() bool {
	return dc.updating.Load()
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically swaps the dataset and its index (zero downtime)
func (dc *DataContainer) UpdateData(records []entities.DrugRecord, idx *index.Index) {
	dc.records.Store(records)
	dc.index.Store(idx)
	dc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a data update operation.
// Returns true if update can proceed, false if another update is in progress
func (dc *DataContainer) BeginUpdate() bool {
	return dc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a data update operation
func (dc *DataContainer) EndUpdate() {
	dc.updating.Store(false)
}

package reports

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store is the SQLite-backed report log. A single writer appends; readers
// always see the full current snapshot because every Append commits before
// returning.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the report log at the given file path
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating report log directory: %w", err)
		}
	}

	// WAL mode so history reads never block a report submission
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening report log: %w", err)
	}

	s := &Store{db: db, path: path}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing report log schema: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT NOT NULL UNIQUE,
			drug         TEXT NOT NULL,
			batch        TEXT NOT NULL DEFAULT '',
			patient_name TEXT NOT NULL,
			patient_age  INTEGER NOT NULL DEFAULT 0,
			amount_mg    REAL NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			date         TEXT NOT NULL,
			high_dose    INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Append stores one report at the end of the log
func (s *Store) Append(ctx context.Context, report Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, drug, batch, patient_name, patient_age, amount_mg, description, date, high_dose)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Drug, report.Batch, report.PatientName, report.PatientAge,
		report.AmountMg, report.Description, report.Date, boolToInt(report.HighDose),
	)
	if err != nil {
		return fmt.Errorf("appending report %s: %w", report.ID, err)
	}
	return nil
}

// ReadAll returns every stored report in append order
func (s *Store) ReadAll(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, drug, batch, patient_name, patient_age, amount_mg, description, date, high_dose
		FROM reports ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("reading report log: %w", err)
	}
	defer rows.Close()

	all := make([]Report, 0)
	for rows.Next() {
		var r Report
		var highDose int
		if err := rows.Scan(&r.ID, &r.Drug, &r.Batch, &r.PatientName, &r.PatientAge,
			&r.AmountMg, &r.Description, &r.Date, &highDose); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		r.HighDose = highDose != 0
		all = append(all, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report log: %w", err)
	}

	return all, nil
}

// ClearAll removes every stored report. Individual entries are immutable,
// bulk clear is the only deletion the log supports.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reports`); err != nil {
		return fmt.Errorf("clearing report log: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

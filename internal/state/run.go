package state

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordRun stores a finished run and its per-package outcomes in a
// single transaction.
func (db *DB) RecordRun(run *Run) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, dispatched, succeeded, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Dispatched, run.Succeeded, run.Failed, run.Skipped)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range run.Packages {
		_, err = tx.Exec(`
			INSERT INTO run_packages (run_id, package_id, name, from_version, to_version, state, error_message, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, p.PackageID, p.Name, p.FromVersion, p.ToVersion, p.State, p.ErrorMessage, p.Duration.Milliseconds())
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert run package %s: %w", p.PackageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run with its packages, or nil if not found.
func (db *DB) GetRun(id string) (*Run, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	run := &Run{}
	row := db.conn.QueryRow(`
		SELECT id, started_at, finished_at, dispatched, succeeded, failed, skipped
		FROM runs WHERE id = ?
	`, id)
	err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.Dispatched, &run.Succeeded, &run.Failed, &run.Skipped)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT package_id, name, from_version, to_version, state, error_message, duration_ms
		FROM run_packages WHERE run_id = ? ORDER BY package_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query run packages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p RunPackage
		var errMsg sql.NullString
		var durMS int64
		if err := rows.Scan(&p.PackageID, &p.Name, &p.FromVersion, &p.ToVersion,
			&p.State, &errMsg, &durMS); err != nil {
			return nil, fmt.Errorf("scan run package: %w", err)
		}
		p.ErrorMessage = errMsg.String
		p.Duration = time.Duration(durMS) * time.Millisecond
		run.Packages = append(run.Packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run packages: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. Packages are not
// loaded; use GetRun for the full record.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(`
		SELECT id, started_at, finished_at, dispatched, succeeded, failed, skipped
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.Dispatched, &run.Succeeded, &run.Failed, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

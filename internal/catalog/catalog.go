// Package catalog keeps a sqlite index of reporting runs and every file they
// export, so a run's output can be located and audited without walking the
// export tree.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	subfolder   TEXT,
	started_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exports (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	name        TEXT NOT NULL,
	entity_id   TEXT,
	step        INTEGER NOT NULL,
	path        TEXT NOT NULL,
	format      TEXT NOT NULL,
	written_at  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion schema

// #region catalog-struct

// Catalog manages the run/export index in SQLite.
type Catalog struct {
	db *sql.DB
}

// #endregion catalog-struct

// #region constructor

// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. inspect).
func (c *Catalog) DB() *sql.DB {
	return c.db
}

// #endregion constructor

// #region begin-run

// BeginRun registers a new run and returns its generated id.
func (c *Catalog) BeginRun(subfolder string) (RunRecord, error) {
	rec := RunRecord{
		RunID:     uuid.New().String(),
		Subfolder: subfolder,
		StartedAt: time.Now().UTC(),
	}
	_, err := c.db.Exec(
		`INSERT INTO runs (run_id, subfolder, started_at) VALUES (?, ?, ?)`,
		rec.RunID, nullIfEmpty(rec.Subfolder), rec.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}

// #endregion begin-run

// #region record-export

// RecordExport appends one exported-file row for a run.
func (c *Catalog) RecordExport(rec ExportRecord) error {
	if rec.WrittenAt.IsZero() {
		rec.WrittenAt = time.Now().UTC()
	}
	_, err := c.db.Exec(
		`INSERT INTO exports (run_id, name, entity_id, step, path, format, written_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Name,
		nullIfEmpty(rec.EntityID),
		rec.Step,
		rec.Path,
		rec.Format,
		rec.WrittenAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// #endregion record-export

// #region list-runs

// ListRuns returns the most recent runs.
func (c *Catalog) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := c.db.Query(
		`SELECT run_id, subfolder, started_at FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var subfolder sql.NullString
		var startedStr string
		if err := rows.Scan(&rec.RunID, &subfolder, &startedStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if subfolder.Valid {
			rec.Subfolder = subfolder.String
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-runs

// #region list-exports

// ListExports returns the exports of one run in write order.
func (c *Catalog) ListExports(runID string, limit int) ([]ExportRecord, error) {
	rows, err := c.db.Query(
		`SELECT run_id, name, entity_id, step, path, format, written_at
		 FROM exports WHERE run_id = ? ORDER BY id ASC LIMIT ?`, runID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var entityID sql.NullString
		var writtenStr string
		if err := rows.Scan(&rec.RunID, &rec.Name, &entityID, &rec.Step, &rec.Path, &rec.Format, &writtenStr); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		if entityID.Valid {
			rec.EntityID = entityID.String
		}
		rec.WrittenAt, _ = time.Parse(time.RFC3339Nano, writtenStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-exports

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

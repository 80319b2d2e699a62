package catalog

import "time"

// #region run-record
// RunRecord is a single row in the runs table.
type RunRecord struct {
	RunID     string
	Subfolder string
	StartedAt time.Time
}

// #endregion run-record

// #region export-record
// ExportRecord is a single row in the exports table: one file written by one
// directive at one step. EntityID is set only for split directives.
type ExportRecord struct {
	RunID     string
	Name      string
	EntityID  string
	Step      int
	Path      string
	Format    string
	WrittenAt time.Time
}

// #endregion export-record

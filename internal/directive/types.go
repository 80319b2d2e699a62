// Package directive models the report table: one named entry per observable,
// describing what to extract from the population, how to reduce it, and how
// to persist it.
package directive

import (
	"fmt"

	"simreport/internal/reduce"
)

// #region config-error

// ConfigError is a fatal configuration problem, always naming the offending
// directive. Save policy and format are validated at the point of first use,
// not at load time.
type ConfigError struct {
	Directive string
	Field     string
	Msg       string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("directive %q: %s", e.Directive, e.Msg)
}

// #endregion config-error

// #region save-policy

// SavePolicy controls whether a value is buffered in memory, exported to
// disk immediately, or both.
type SavePolicy string

const (
	SaveOnly      SavePolicy = "save"
	ExportOnly    SavePolicy = "export"
	SaveAndExport SavePolicy = "save+export"
)

// Validate checks the policy on first use.
func (p SavePolicy) Validate(directive string) error {
	switch p {
	case "":
		return &ConfigError{Directive: directive, Field: "save", Msg: "save type must be specified (save/save+export/export)"}
	case SaveOnly, ExportOnly, SaveAndExport:
		return nil
	}
	return &ConfigError{Directive: directive, Field: "save", Msg: fmt.Sprintf("save type %q must be 'save', 'save+export' or 'export'", string(p))}
}

// ShouldSave reports whether values are buffered in memory.
func (p SavePolicy) ShouldSave() bool {
	return p == SaveOnly || p == SaveAndExport
}

// ShouldExport reports whether values are written to disk per step.
func (p SavePolicy) ShouldExport() bool {
	return p == ExportOnly || p == SaveAndExport
}

// #endregion save-policy

// #region format

// Format tags the on-disk serialization of exported values.
type Format string

const (
	// FormatNPY is the dense binary numeric format.
	FormatNPY Format = "npy"
	// FormatCSV writes one value per line as text.
	FormatCSV Format = "csv"
	// FormatXLSX is the spreadsheet format, valid for finalized tables.
	FormatXLSX Format = "xlsx"
)

// #endregion format

// #region directive

// Directive is one immutable entry of the report table. Config field names
// in comments are the keys of the report mapping.
type Directive struct {
	Name        string
	EntityType  string           // type: which agent collection to read
	VarName     string           // varname: attribute to fetch
	Reduction   reduce.Reduction // function: resolved once at construction
	GroupScale  string           // scale: attribute holding per-entity group ids
	GroupCount  int              // ids: total number of groups; 0 means no per-group reduction
	Split       bool             // split: apply per entity instead of per collection
	Format      Format           // format: required whenever export is requested
	Save        SavePolicy       // save: save / export / save+export
	InitialOnly bool             // initial_only: export only on the first step
}

// PerGroup reports whether the reduction runs per group.
func (d *Directive) PerGroup() bool { return d.GroupCount > 0 }

// #endregion directive

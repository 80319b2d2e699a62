// Package export writes pipeline values to the export root: one file per
// step for snapshot directives, one table per buffered series at finalize.
package export

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"simreport/internal/directive"
)

// largeCSVThreshold is the flattened-value count above which a csv export
// logs an advisory suggesting the binary format.
const largeCSVThreshold = 100_000

// #region exporter

// Exporter owns the export root directory. Snapshot files land in a per-name
// subfolder; finalized tables land directly under the root.
type Exporter struct {
	Root string
}

// NewExporter creates an exporter for the given root. The root is not
// touched until EnsureRoot.
func NewExporter(root string) *Exporter {
	return &Exporter{Root: root}
}

// EnsureRoot creates the export root. Idempotent: a pre-existing folder is
// not an error.
func (e *Exporter) EnsureRoot() error {
	if err := os.MkdirAll(e.Root, 0o755); err != nil {
		return fmt.Errorf("create export folder %s: %w", e.Root, err)
	}
	return nil
}

// #endregion exporter

// #region write-snapshot

// WriteSnapshot writes one value to <root>/<name>/<filename>.<ext> and
// returns the written path. name is the directive's effective key: the plain
// directive name, or name/entityID for split directives. The filename is
// "initial" for initial-only directives, otherwise the recorded time with
// separators stripped.
func (e *Exporter) WriteSnapshot(name string, d *directive.Directive, value any, recordedTime time.Time) (string, error) {
	folder := filepath.Join(e.Root, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("create export folder %s: %w", folder, err)
	}
	if d.Format == "" {
		return "", &directive.ConfigError{Directive: d.Name, Field: "format", Msg: "export format must be specified (npy/csv/xlsx)"}
	}

	fn := "initial"
	if !d.InitialOnly {
		fn = recordedTime.Format("20060102T150405")
	}

	switch d.Format {
	case directive.FormatNPY:
		path := filepath.Join(folder, fn+".npy")
		return path, writeNPY(path, value)
	case directive.FormatCSV:
		path := filepath.Join(folder, fn+".csv")
		lines := flatten(value)
		if len(lines) > largeCSVThreshold {
			log.Printf("[REPORT] exporting %d items to csv for %s; this may take long and a lot of space, consider the binary format (npy)", len(lines), d.Name)
		}
		return path, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	}
	return "", &directive.ConfigError{Directive: d.Name, Field: "format", Msg: fmt.Sprintf("format %q not recognized", string(d.Format))}
}

// #endregion write-snapshot

// #region value-helpers

func writeNPY(path string, value any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch v := value.(type) {
	case []float64:
		return npyio.Write(f, v)
	case []int:
		return npyio.Write(f, intsToFloats(v))
	case [][]float64:
		m, err := denseFromRows(v)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return npyio.Write(f, m)
	}
	return npyio.Write(f, []float64{cellFloat(value)})
}

func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return mat.NewDense(1, 1, []float64{math.NaN()}), nil
	}
	cols := len(rows[0])
	m := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged rows: row %d has %d values, want %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// flatten renders a value as one text line per element.
func flatten(value any) []string {
	switch v := value.(type) {
	case []float64:
		lines := make([]string, len(v))
		for i, x := range v {
			lines[i] = formatFloat(x)
		}
		return lines
	case []int:
		lines := make([]string, len(v))
		for i, x := range v {
			lines[i] = strconv.Itoa(x)
		}
		return lines
	case [][]float64:
		lines := make([]string, len(v))
		for i, row := range v {
			parts := make([]string, len(row))
			for j, x := range row {
				parts[j] = formatFloat(x)
			}
			lines[i] = strings.Join(parts, ",")
		}
		return lines
	case nil:
		return []string{""}
	}
	return []string{formatCell(value)}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return fmt.Sprint(v)
}

// cellFloat coerces a cell to float64 for the dense binary format. Anything
// non-numeric (including nil) becomes NaN.
func cellFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return math.NaN()
}

func intsToFloats(v []int) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// #endregion value-helpers

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"simreport/internal/directive"
)

// #region table

// Table is the two-dimensional result of flushing one buffered series:
// Rows[i][j] is the value of column j at index entry i. For step-indexed
// series the index holds recorded timestamps.
type Table struct {
	Columns []string
	Index   []string
	Rows    [][]any
}

// #endregion table

// #region write-table

// WriteTable serializes a finalized table to <root>/<name>.<format> and
// returns the written path.
func (e *Exporter) WriteTable(name string, t Table, format directive.Format) (string, error) {
	path := filepath.Join(e.Root, name+"."+string(format))
	switch format {
	case directive.FormatCSV:
		return path, writeTableCSV(path, t)
	case directive.FormatXLSX:
		return path, writeTableXLSX(path, t)
	case directive.FormatNPY:
		return path, writeTableNPY(path, t)
	case "":
		return "", &directive.ConfigError{Directive: name, Field: "format", Msg: "key 'format' not specified in config file"}
	}
	return "", &directive.ConfigError{Directive: name, Field: "format", Msg: fmt.Sprintf("save format %q unknown", string(format))}
}

func writeTableCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{""}, t.Columns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, t.Index[i])
		for _, cell := range row {
			rec = append(rec, formatCell(cell))
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeTableXLSX(path string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for j, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(j+2, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, t.Index[i]); err != nil {
			return err
		}
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return err
			}
			if v == nil {
				continue
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeTableNPY(path string, t Table) error {
	rows := len(t.Rows)
	cols := len(t.Columns)
	if rows == 0 || cols == 0 {
		return fmt.Errorf("write %s: empty table", path)
	}
	m := mat.NewDense(rows, cols, nil)
	for i, row := range t.Rows {
		for j, v := range row {
			m.Set(i, j, cellFloat(v))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return npyio.Write(f, m)
}

// #endregion write-table

package report

import (
	"strconv"
	"time"

	"simreport/internal/export"
)

// #region finalize

// Finalize flushes every buffered series to <root>/<name>.<format> and
// returns the in-memory tables for callers who want the data without
// touching disk. A buffering directive without a format field fails here:
// format is required for the tabular path.
func (r *Reporter) Finalize() (map[string]export.Table, error) {
	tables := make(map[string]export.Table)
	for i := range r.table {
		d := &r.table[i]
		if !d.Save.ShouldSave() {
			continue
		}

		var tbl export.Table
		if d.Split {
			byID, ids := r.store.getSplit(d.Name)
			tbl = buildSplitTable(ids, byID, r.timesteps)
		} else {
			tbl = buildSeriesTable(d.Name, r.store.get(d.Name), r.timesteps)
		}

		p, err := r.exporter.WriteTable(d.Name, tbl, d.Format)
		if err != nil {
			return nil, err
		}
		r.recordExport(key{name: d.Name}, p, d.Format)
		tables[d.Name] = tbl
	}
	return tables, nil
}

// #endregion finalize

// #region build-tables

// buildSeriesTable lays out a non-split series. Scalar series become one
// column indexed by timestamps; array series become one column per timestep
// indexed by element position.
func buildSeriesTable(name string, series []any, timesteps []time.Time) export.Table {
	if len(series) > 0 {
		if first, ok := series[0].([]float64); ok {
			cols := make([]string, len(series))
			height := len(first)
			for j, v := range series {
				cols[j] = formatTime(timesteps[j])
				if arr, ok := v.([]float64); ok && len(arr) > height {
					height = len(arr)
				}
			}
			rows := make([][]any, height)
			index := make([]string, height)
			for i := 0; i < height; i++ {
				index[i] = strconv.Itoa(i)
				row := make([]any, len(series))
				for j, v := range series {
					if arr, ok := v.([]float64); ok && i < len(arr) {
						row[j] = arr[i]
					}
				}
				rows[i] = row
			}
			return export.Table{Columns: cols, Index: index, Rows: rows}
		}
	}

	index := make([]string, len(series))
	rows := make([][]any, len(series))
	for i, v := range series {
		index[i] = formatTime(timesteps[i])
		rows[i] = []any{v}
	}
	return export.Table{Columns: []string{name}, Index: index, Rows: rows}
}

// buildSplitTable lays out a split series: one column per entity id in
// first-appearance order, one row per recorded step.
func buildSplitTable(ids []string, byID map[string][]any, timesteps []time.Time) export.Table {
	index := make([]string, len(timesteps))
	rows := make([][]any, len(timesteps))
	for i, ts := range timesteps {
		index[i] = formatTime(ts)
		row := make([]any, len(ids))
		for j, id := range ids {
			series := byID[id]
			if i < len(series) {
				row[j] = series[i]
			}
		}
		rows[i] = row
	}
	return export.Table{Columns: ids, Index: index, Rows: rows}
}

func formatTime(ts time.Time) string {
	return ts.Format(time.RFC3339)
}

// #endregion build-tables

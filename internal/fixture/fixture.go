// Package fixture loads JSON scenario fixtures: a report table plus a
// scripted population snapshot per step. The harness drives a real Reporter
// over the script, which gives tests and the replay tool end-to-end runs
// without a live simulation.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a scenario fixture.
type Fixture struct {
	Description string                    `json:"description"`
	Report      map[string]map[string]any `json:"report"`
	Steps       []Step                    `json:"steps"`
	Expected    []Expectation             `json:"expected_series"`
}

// Step scripts the population for one simulation step. The first step is
// consumed by reporter construction.
type Step struct {
	Time        time.Time             `json:"time"`
	Collections map[string]Collection `json:"collections"`
}

// Collection scripts one agent collection: its id list and attribute arrays.
// Attribute values are arrays of numbers, or arrays of arrays for
// per-entity rows.
type Collection struct {
	IDs        []string       `json:"ids"`
	Attributes map[string]any `json:"attributes"`
}

// Expectation is an expected buffered-series length after the run. For
// split directives the length is per sub-series.
type Expectation struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// convertAttr turns a decoded JSON attribute into the concrete array shape
// the pipeline consumes.
func convertAttr(v any) (any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("attribute must be an array, got %T", v)
	}
	if len(arr) == 0 {
		return []float64{}, nil
	}
	switch arr[0].(type) {
	case float64:
		out := make([]float64, len(arr))
		for i, x := range arr {
			f, ok := x.(float64)
			if !ok {
				return nil, fmt.Errorf("mixed attribute array at %d: %T", i, x)
			}
			out[i] = f
		}
		return out, nil
	case []any:
		out := make([][]float64, len(arr))
		for i, x := range arr {
			row, ok := x.([]any)
			if !ok {
				return nil, fmt.Errorf("mixed attribute array at %d: %T", i, x)
			}
			out[i] = make([]float64, len(row))
			for j, y := range row {
				f, ok := y.(float64)
				if !ok {
					return nil, fmt.Errorf("non-numeric cell at %d,%d: %T", i, j, y)
				}
				out[i][j] = f
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported attribute element %T", arr[0])
}

// #endregion fixture-loader

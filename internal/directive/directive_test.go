package directive

import (
	"errors"
	"testing"

	"simreport/internal/reduce"
)

const sampleConfig = `
report:
  region_wealth:
    type: farmer
    varname: wealth
    function: sum
    scale: region
    ids: 3
    format: npy
    save: save+export
  mean_energy:
    type: walker
    varname: energy
    function: mean
    format: csv
    save: save
  raw_position:
    type: walker
    varname: position
    save: save
    initial_only: true
`

func TestParsePreservesDeclaredOrder(t *testing.T) {
	table, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(table))
	}
	want := []string{"region_wealth", "mean_energy", "raw_position"}
	for i, name := range want {
		if table[i].Name != name {
			t.Fatalf("order lost: slot %d is %q, want %q", i, table[i].Name, name)
		}
	}
}

func TestParseFields(t *testing.T) {
	table, err := Parse([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	d := table[0]
	if d.EntityType != "farmer" || d.VarName != "wealth" {
		t.Fatalf("unexpected extraction fields: %+v", d)
	}
	if d.Reduction.Kind != reduce.KindSum || !d.PerGroup() || d.GroupCount != 3 || d.GroupScale != "region" {
		t.Fatalf("unexpected reduction fields: %+v", d)
	}
	if d.Format != FormatNPY || d.Save != SaveAndExport {
		t.Fatalf("unexpected persistence fields: %+v", d)
	}

	if table[2].Reduction.Kind != reduce.KindNone || !table[2].InitialOnly {
		t.Fatalf("unexpected raw directive: %+v", table[2])
	}
}

func TestParseUnknownReduction(t *testing.T) {
	_, err := Parse([]byte("report:\n  x:\n    type: a\n    varname: b\n    function: median\n    save: save\n"))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if ce.Directive != "x" {
		t.Fatalf("error should name the directive: %v", ce)
	}
}

func TestFromMap(t *testing.T) {
	table, err := FromMap(map[string]any{
		"b_second": map[string]any{"type": "walker", "varname": "energy", "save": "save"},
		"a_first":  map[string]any{"type": "walker", "varname": "position", "function": "mean", "ids": 2.0, "scale": "region", "save": "export", "format": "csv"},
	})
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if table[0].Name != "a_first" || table[1].Name != "b_second" {
		t.Fatalf("expected sorted order, got %v %v", table[0].Name, table[1].Name)
	}
	if table[0].GroupCount != 2 {
		t.Fatalf("float ids field should coerce to int, got %d", table[0].GroupCount)
	}
}

func TestSavePolicy(t *testing.T) {
	if err := SavePolicy("").Validate("x"); err == nil {
		t.Fatal("missing save policy must fail validation")
	}
	if err := SavePolicy("both").Validate("x"); err == nil {
		t.Fatal("unknown save policy must fail validation")
	}
	if err := SaveAndExport.Validate("x"); err != nil {
		t.Fatalf("save+export should validate: %v", err)
	}

	if !SaveOnly.ShouldSave() || SaveOnly.ShouldExport() {
		t.Fatal("save policy flags wrong for save")
	}
	if ExportOnly.ShouldSave() || !ExportOnly.ShouldExport() {
		t.Fatal("save policy flags wrong for export")
	}
	if !SaveAndExport.ShouldSave() || !SaveAndExport.ShouldExport() {
		t.Fatal("save policy flags wrong for save+export")
	}
}

package fixture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"simreport/internal/report"
)

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "basic.json"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if len(f.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(f.Steps))
	}
	if len(f.Report) != 3 {
		t.Fatalf("expected 3 directives, got %d", len(f.Report))
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !f.Steps[0].Time.Equal(want) {
		t.Fatalf("unexpected step time: %v", f.Steps[0].Time)
	}
}

func TestRunBasicFixture(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "basic.json"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	root := t.TempDir()
	summary, err := Run(f, root, report.Options{})
	if err != nil {
		t.Fatalf("run fixture: %v", err)
	}
	if summary.Steps != 3 {
		t.Fatalf("expected 3 steps, got %d", summary.Steps)
	}
	if err := Verify(f, summary); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// save+export wrote one snapshot per step plus the finalized table.
	entries, err := os.ReadDir(filepath.Join(root, "mean_wealth"))
	if err != nil {
		t.Fatalf("read snapshot folder: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(entries))
	}
	for _, name := range []string{"region_wealth.csv", "mean_wealth.csv", "wealth_by_farmer.xlsx"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Fatalf("missing finalized table %s: %v", name, err)
		}
	}
}

func TestVerifyDetectsLengthMismatch(t *testing.T) {
	f := &Fixture{Expected: []Expectation{{Name: "x", Length: 2}}}
	s := &RunSummary{Buffered: map[string]int{"x": 1}}
	if err := Verify(f, s); err == nil {
		t.Fatal("expected length mismatch error")
	}

	s = &RunSummary{Buffered: map[string]int{}}
	if err := Verify(f, s); err == nil {
		t.Fatal("expected missing series error")
	}
}

func TestConvertAttr(t *testing.T) {
	v, err := convertAttr([]any{1.0, 2.0})
	if err != nil {
		t.Fatalf("convert flat: %v", err)
	}
	if v.([]float64)[1] != 2 {
		t.Fatalf("unexpected flat conversion: %v", v)
	}

	v, err = convertAttr([]any{[]any{1.0}, []any{2.0}})
	if err != nil {
		t.Fatalf("convert nested: %v", err)
	}
	if v.([][]float64)[1][0] != 2 {
		t.Fatalf("unexpected nested conversion: %v", v)
	}

	if _, err := convertAttr("nope"); err == nil {
		t.Fatal("expected error for non-array attribute")
	}
}

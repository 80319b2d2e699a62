package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"simreport/internal/directive"
)

var stepTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func TestEnsureRootIdempotent(t *testing.T) {
	e := NewExporter(filepath.Join(t.TempDir(), "report"))
	if err := e.EnsureRoot(); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := e.EnsureRoot(); err != nil {
		t.Fatalf("second create must not fail: %v", err)
	}
}

func TestSnapshotNPYRoundTrip(t *testing.T) {
	e := NewExporter(t.TempDir())
	d := &directive.Directive{Name: "wealth", Format: directive.FormatNPY}

	in := []float64{1.5, 2.5, 3.5}
	path, err := e.WriteSnapshot(d.Name, d, in, stepTime)
	if err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()

	var out []float64
	if err := npyio.Read(f, &out); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip length: got %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("round trip mismatch at %d: %f != %f", i, out[i], in[i])
		}
	}
}

func TestSnapshotFilenames(t *testing.T) {
	e := NewExporter(t.TempDir())

	d := &directive.Directive{Name: "wealth", Format: directive.FormatCSV}
	path, err := e.WriteSnapshot(d.Name, d, []float64{1}, stepTime)
	if err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if filepath.Base(path) != "20240301T123000.csv" {
		t.Fatalf("unexpected timestamp filename: %s", path)
	}

	d = &directive.Directive{Name: "wealth", Format: directive.FormatCSV, InitialOnly: true}
	path, err = e.WriteSnapshot(d.Name, d, []float64{1}, stepTime)
	if err != nil {
		t.Fatalf("write initial snapshot: %v", err)
	}
	if filepath.Base(path) != "initial.csv" {
		t.Fatalf("unexpected initial filename: %s", path)
	}
}

func TestSnapshotCSVContent(t *testing.T) {
	e := NewExporter(t.TempDir())
	d := &directive.Directive{Name: "wealth", Format: directive.FormatCSV}

	path, err := e.WriteSnapshot(d.Name, d, []float64{1, 2.5, 3}, stepTime)
	if err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "1\n2.5\n3" {
		t.Fatalf("unexpected csv content: %q", string(data))
	}
}

func TestSnapshotFormatErrors(t *testing.T) {
	e := NewExporter(t.TempDir())
	var ce *directive.ConfigError

	_, err := e.WriteSnapshot("wealth", &directive.Directive{Name: "wealth"}, []float64{1}, stepTime)
	if !errors.As(err, &ce) {
		t.Fatalf("missing format must be a config error, got %v", err)
	}
	if !strings.Contains(ce.Error(), "wealth") {
		t.Fatalf("error should name the directive: %v", ce)
	}

	_, err = e.WriteSnapshot("wealth", &directive.Directive{Name: "wealth", Format: "parquet"}, []float64{1}, stepTime)
	if !errors.As(err, &ce) {
		t.Fatalf("unknown format must be a config error, got %v", err)
	}

	// xlsx is a table format, not a snapshot format.
	_, err = e.WriteSnapshot("wealth", &directive.Directive{Name: "wealth", Format: directive.FormatXLSX}, []float64{1}, stepTime)
	if !errors.As(err, &ce) {
		t.Fatalf("xlsx snapshot must be a config error, got %v", err)
	}
}

func TestWriteTableCSV(t *testing.T) {
	e := NewExporter(t.TempDir())
	tbl := Table{
		Columns: []string{"wealth"},
		Index:   []string{"2024-03-01T12:30:00Z", "2024-03-01T12:31:00Z"},
		Rows:    [][]any{{10.0}, {nil}},
	}

	path, err := e.WriteTable("wealth", tbl, directive.FormatCSV)
	if err != nil {
		t.Fatalf("write table: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != ",wealth" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2024-03-01T12:30:00Z,10" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "2024-03-01T12:31:00Z," {
		t.Fatalf("nil cell should be empty: %q", lines[2])
	}
}

func TestWriteTableXLSX(t *testing.T) {
	e := NewExporter(t.TempDir())
	tbl := Table{
		Columns: []string{"f1", "f2"},
		Index:   []string{"t0"},
		Rows:    [][]any{{1.0, 2.0}},
	}

	path, err := e.WriteTable("split_wealth", tbl, directive.FormatXLSX)
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat written file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("xlsx file is empty")
	}
}

func TestWriteTableNPYRoundTrip(t *testing.T) {
	e := NewExporter(t.TempDir())
	tbl := Table{
		Columns: []string{"a", "b"},
		Index:   []string{"t0", "t1"},
		Rows:    [][]any{{1.0, 2.0}, {3.0, 4.0}},
	}

	path, err := e.WriteTable("pair", tbl, directive.FormatNPY)
	if err != nil {
		t.Fatalf("write table: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()

	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		t.Fatalf("read back: %v", err)
	}
	r, c := m.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("unexpected dims %dx%d", r, c)
	}
	if m.At(1, 0) != 3.0 {
		t.Fatalf("unexpected cell value %f", m.At(1, 0))
	}
}

func TestWriteTableFormatErrors(t *testing.T) {
	e := NewExporter(t.TempDir())
	tbl := Table{Columns: []string{"a"}, Index: []string{"t0"}, Rows: [][]any{{1.0}}}
	var ce *directive.ConfigError

	if _, err := e.WriteTable("a", tbl, ""); !errors.As(err, &ce) {
		t.Fatalf("missing table format must be a config error, got %v", err)
	}
	if _, err := e.WriteTable("a", tbl, "parquet"); !errors.As(err, &ce) {
		t.Fatalf("unknown table format must be a config error, got %v", err)
	}
}

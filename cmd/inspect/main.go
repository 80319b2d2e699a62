package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"simreport/internal/catalog"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to catalog sqlite database")
	runID := flag.String("run", "", "show exports of a single run")
	last := flag.Int("last", 20, "show N most recent runs (or exports)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/catalog.db [--run id] [--last N] [--json]")
		os.Exit(2)
	}

	cat, err := catalog.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer cat.Close()

	if *runID != "" {
		if err := runExportMode(cat, *runID, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(cat, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type runRow struct {
	RunID     string `json:"run_id"`
	Subfolder string `json:"subfolder,omitempty"`
	StartedAt string `json:"started_at"`
	Exports   int    `json:"exports"`
}

func runListMode(cat *catalog.Catalog, last int, jsonOut bool) error {
	runs, err := cat.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]runRow, len(runs))
	for i, r := range runs {
		var n int
		if err := cat.DB().QueryRow(`SELECT COUNT(*) FROM exports WHERE run_id = ?`, r.RunID).Scan(&n); err != nil {
			return fmt.Errorf("count exports: %w", err)
		}
		rows[i] = runRow{
			RunID:     r.RunID,
			Subfolder: r.Subfolder,
			StartedAt: r.StartedAt.Format("2006-01-02T15:04:05Z"),
			Exports:   n,
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	fmt.Printf("%-36s  %-16s  %-20s  %s\n", "Run", "Subfolder", "Started", "Exports")
	for _, r := range rows {
		fmt.Printf("%-36s  %-16s  %-20s  %d\n", r.RunID, r.Subfolder, r.StartedAt, r.Exports)
	}
	return nil
}

// #endregion list-mode

// #region export-mode

type exportRow struct {
	Name      string `json:"name"`
	EntityID  string `json:"entity_id,omitempty"`
	Step      int    `json:"step"`
	Path      string `json:"path"`
	Format    string `json:"format"`
	WrittenAt string `json:"written_at"`
}

func runExportMode(cat *catalog.Catalog, runID string, last int, jsonOut bool) error {
	exports, err := cat.ListExports(runID, last)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Fprintln(os.Stderr, "no exports found")
		return nil
	}

	rows := make([]exportRow, len(exports))
	for i, e := range exports {
		rows[i] = exportRow{
			Name:      e.Name,
			EntityID:  e.EntityID,
			Step:      e.Step,
			Path:      e.Path,
			Format:    e.Format,
			WrittenAt: e.WrittenAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	fmt.Printf("%-20s  %-8s  %4s  %-6s  %s\n", "Name", "Entity", "Step", "Fmt", "Path")
	for _, r := range rows {
		fmt.Printf("%-20s  %-8s  %4d  %-6s  %s\n", r.Name, r.EntityID, r.Step, r.Format, r.Path)
	}
	return nil
}

// #endregion export-mode

// #region helpers

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers

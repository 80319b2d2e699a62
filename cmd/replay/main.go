package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"simreport/internal/catalog"
	"simreport/internal/fixture"
	"simreport/internal/report"

	_ "modernc.org/sqlite"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to scenario fixture JSON")
	out := flag.String("out", "report", "export root directory")
	catalogPath := flag.String("catalog", "", "optional sqlite catalog path")
	jsonOut := flag.Bool("json", false, "output summary as JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/scenario.json [--out dir] [--catalog path] [--json]")
		os.Exit(2)
	}

	os.Exit(run(*fixturePath, *out, *catalogPath, *jsonOut))
}

// #endregion main

// #region run

func run(fixturePath, out, catalogPath string, jsonOut bool) int {
	f, err := fixture.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	opts := report.Options{}
	if catalogPath != "" {
		cat, err := catalog.Open(catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open catalog: %v\n", err)
			return 2
		}
		defer cat.Close()
		opts.Catalog = cat
	}

	summary, err := fixture.Run(f, out, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 1
	}

	verifyErr := fixture.Verify(f, summary)

	if jsonOut {
		printJSON(f, summary, verifyErr)
	} else {
		printTable(f, summary, verifyErr)
	}
	if verifyErr != nil {
		return 1
	}
	return 0
}

// #endregion run

// #region output

type jsonSummary struct {
	Description string         `json:"description"`
	Steps       int            `json:"steps"`
	Buffered    map[string]int `json:"buffered"`
	Tables      int            `json:"tables"`
	RunID       string         `json:"run_id,omitempty"`
	Verified    bool           `json:"verified"`
	VerifyError string         `json:"verify_error,omitempty"`
}

func printJSON(f *fixture.Fixture, s *fixture.RunSummary, verifyErr error) {
	out := jsonSummary{
		Description: f.Description,
		Steps:       s.Steps,
		Buffered:    s.Buffered,
		Tables:      s.Tables,
		RunID:       s.RunID,
		Verified:    verifyErr == nil,
	}
	if verifyErr != nil {
		out.VerifyError = verifyErr.Error()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printTable(f *fixture.Fixture, s *fixture.RunSummary, verifyErr error) {
	if f.Description != "" {
		fmt.Println(f.Description)
	}
	fmt.Printf("steps: %d, finalized tables: %d\n", s.Steps, s.Tables)

	names := make([]string, 0, len(s.Buffered))
	for name := range s.Buffered {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-24s %d buffered\n", name, s.Buffered[name])
	}

	if verifyErr != nil {
		fmt.Printf("FAIL: %v\n", verifyErr)
	} else if len(f.Expected) > 0 {
		fmt.Println("all expectations met")
	}
}

// #endregion output

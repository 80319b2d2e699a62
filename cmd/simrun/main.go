package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"simreport/internal/agents"
	"simreport/internal/catalog"
	"simreport/internal/directive"
	"simreport/internal/report"
)

// defaultConfig drives the built-in random-walk demo when no config file is
// given. Every save policy and both reduction shapes are exercised.
const defaultConfig = `
report:
  mean_position:
    type: walker
    varname: position
    function: mean
    format: csv
    save: save
  region_energy:
    type: walker
    varname: energy
    function: sum
    scale: region
    ids: 2
    format: npy
    save: save+export
  position:
    type: walker
    varname: position
    format: npy
    save: export
  initial_energy:
    type: walker
    varname: energy
    format: csv
    save: export
    initial_only: true
`

// #region main

func main() {
	configPath := flag.String("config", "", "YAML report config (default: built-in demo config)")
	out := flag.String("out", "report", "export root directory")
	steps := flag.Int("steps", 10, "number of simulation steps after the initial one")
	nWalkers := flag.Int("walkers", 50, "number of walker agents")
	catalogPath := flag.String("catalog", "", "optional sqlite catalog path")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	var table []directive.Directive
	var err error
	if *configPath != "" {
		table, err = directive.Load(*configPath)
	} else {
		table, err = directive.Parse([]byte(defaultConfig))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	opts := report.Options{Subfolder: uuid.New().String()}
	if *catalogPath != "" {
		cat, err := catalog.Open(*catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open catalog: %v\n", err)
			os.Exit(2)
		}
		defer cat.Close()
		opts.Catalog = cat
	}

	model := newWalkModel(*nWalkers, rand.New(rand.NewSource(*seed)))
	reporter, err := report.NewReporter(model, table, *out, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reporter: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *steps; i++ {
		model.step()
		if err := reporter.Step(); err != nil {
			fmt.Fprintf(os.Stderr, "step %d: %v\n", i+1, err)
			os.Exit(1)
		}
	}

	tables, err := reporter.Finalize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "finalize: %v\n", err)
		os.Exit(1)
	}

	log.Printf("[SIMRUN] %d steps, %d finalized tables under %s/%s",
		len(reporter.Timesteps()), len(tables), *out, opts.Subfolder)
}

// #endregion main

// #region walk-model

// walkModel is a minimal host simulation: walkers drift on a line and burn
// energy. Attribute slices are mutated in place every step, which is exactly
// the aliasing the pipeline's defensive copies guard against.
type walkModel struct {
	now      time.Time
	pop      *agents.Memory
	rng      *rand.Rand
	position []float64
	energy   []float64
}

func newWalkModel(n int, rng *rand.Rand) *walkModel {
	m := &walkModel{
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		pop:      agents.NewMemory(),
		rng:      rng,
		position: make([]float64, n),
		energy:   make([]float64, n),
	}
	ids := make([]string, n)
	region := make([]int, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("w%d", i+1)
		region[i] = i % 2
		m.energy[i] = 100
	}
	col := m.pop.AddCollection("walker", ids)
	col.SetAttribute("position", m.position)
	col.SetAttribute("energy", m.energy)
	col.SetAttribute("region", region)
	return m
}

func (m *walkModel) CurrentTime() time.Time    { return m.now }
func (m *walkModel) Agents() agents.Population { return m.pop }

func (m *walkModel) step() {
	for i := range m.position {
		m.position[i] += m.rng.NormFloat64()
		m.energy[i] -= m.rng.Float64()
	}
	m.now = m.now.Add(24 * time.Hour)
}

// #endregion walk-model

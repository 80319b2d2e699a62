package report

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"simreport/internal/catalog"
	"simreport/internal/directive"
	"simreport/internal/export"
)

// #region reporter-struct

// Reporter owns the export root, the immutable directive table, the value
// store and the record of simulation times. It is driven synchronously by
// the simulation loop: Step once per tick, Finalize once at end of run. One
// reporter instance is owned by one run; nothing here is safe for
// concurrent use.
type Reporter struct {
	model     Model
	table     []directive.Directive
	exporter  *export.Exporter
	store     *valueStore
	timesteps []time.Time

	cat *catalog.Catalog
	run catalog.RunRecord
}

// #endregion reporter-struct

// #region constructor

// NewReporter wires a reporter and performs the initial step, so a step-0
// record exists even if the caller never steps again. It fails when the
// population is not available yet: the reporter must be created after the
// agents.
func NewReporter(model Model, table []directive.Directive, root string, opts Options) (*Reporter, error) {
	if model.Agents() == nil {
		return nil, errors.New("population does not exist yet; reporter created before the agents")
	}
	if opts.Subfolder != "" {
		root = filepath.Join(root, opts.Subfolder)
	}

	r := &Reporter{
		model:    model,
		table:    table,
		exporter: export.NewExporter(root),
		store:    newValueStore(),
		cat:      opts.Catalog,
	}
	if err := r.exporter.EnsureRoot(); err != nil {
		return nil, err
	}

	// Pre-create one empty series per buffering directive, so id-keyed
	// appends can detect directives that were never part of the table.
	for i := range table {
		d := &table[i]
		if !d.Save.ShouldSave() {
			continue
		}
		if d.Split {
			r.store.registerSplit(d.Name)
		} else {
			r.store.register(d.Name)
		}
	}

	if r.cat != nil {
		run, err := r.cat.BeginRun(opts.Subfolder)
		if err != nil {
			return nil, fmt.Errorf("begin catalog run: %w", err)
		}
		r.run = run
	}

	if err := r.Step(); err != nil {
		return nil, fmt.Errorf("initial step: %w", err)
	}
	return r, nil
}

// #endregion constructor

// #region step

// Step records the current simulation time and runs every directive, in
// table order, through the pipeline. An error aborts the step and must be
// treated as fatal to the run: a silently skipped directive would
// desynchronize the value store against the timestep record.
func (r *Reporter) Step() error {
	r.timesteps = append(r.timesteps, r.model.CurrentTime())
	for i := range r.table {
		if err := r.extract(&r.table[i]); err != nil {
			return fmt.Errorf("report %q: %w", r.table[i].Name, err)
		}
	}
	return nil
}

// stepIndex is the zero-based index of the step in progress (or, between
// steps, of the last completed step). The construction step is step 0.
func (r *Reporter) stepIndex() int {
	return len(r.timesteps) - 1
}

// #endregion step

// #region accessors

// Timesteps returns the recorded simulation times, one per step.
func (r *Reporter) Timesteps() []time.Time {
	out := make([]time.Time, len(r.timesteps))
	copy(out, r.timesteps)
	return out
}

// Series returns the buffered history of a non-split directive.
func (r *Reporter) Series(name string) []any {
	return r.store.get(name)
}

// SplitSeries returns the buffered per-entity histories of a split
// directive.
func (r *Reporter) SplitSeries(name string) map[string][]any {
	byID, _ := r.store.getSplit(name)
	return byID
}

// RunID returns the catalog run id, or "" when no catalog is attached.
func (r *Reporter) RunID() string {
	return r.run.RunID
}

// #endregion accessors

// #region record-export

func (r *Reporter) recordExport(k key, path string, format directive.Format) {
	if r.cat == nil {
		return
	}
	err := r.cat.RecordExport(catalog.ExportRecord{
		RunID:    r.run.RunID,
		Name:     k.name,
		EntityID: k.id,
		Step:     r.stepIndex(),
		Path:     path,
		Format:   string(format),
	})
	if err != nil {
		log.Printf("[REPORT] failed to record export of %s: %v", k.name, err)
	}
}

// #endregion record-export

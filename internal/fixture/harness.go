package fixture

import (
	"fmt"
	"time"

	"simreport/internal/agents"
	"simreport/internal/directive"
	"simreport/internal/report"
)

// #region model

// scriptModel plays fixture steps back as the reporter's model. Each applied
// step rebuilds the population, which also exercises the pipeline's
// defensive copying: nothing buffered may point into a discarded snapshot.
type scriptModel struct {
	now time.Time
	pop *agents.Memory
}

func (m *scriptModel) CurrentTime() time.Time { return m.now }

func (m *scriptModel) Agents() agents.Population {
	if m.pop == nil {
		return nil
	}
	return m.pop
}

func (m *scriptModel) apply(step Step) error {
	pop := agents.NewMemory()
	for entityType, col := range step.Collections {
		mc := pop.AddCollection(entityType, col.IDs)
		for name, raw := range col.Attributes {
			v, err := convertAttr(raw)
			if err != nil {
				return fmt.Errorf("collection %s attribute %s: %w", entityType, name, err)
			}
			mc.SetAttribute(name, v)
		}
	}
	m.now = step.Time
	m.pop = pop
	return nil
}

// #endregion model

// #region run

// RunSummary provides aggregate stats from a fixture run.
type RunSummary struct {
	Steps    int
	Buffered map[string]int
	Tables   int
	RunID    string
}

// Run drives a reporter over every fixture step and finalizes. The first
// step backs the reporter's construction step.
func Run(f *Fixture, root string, opts report.Options) (*RunSummary, error) {
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("fixture has no steps")
	}
	rep := make(map[string]any, len(f.Report))
	for name, fields := range f.Report {
		rep[name] = fields
	}
	table, err := directive.FromMap(rep)
	if err != nil {
		return nil, err
	}

	model := &scriptModel{}
	if err := model.apply(f.Steps[0]); err != nil {
		return nil, err
	}
	r, err := report.NewReporter(model, table, root, opts)
	if err != nil {
		return nil, err
	}

	for i, step := range f.Steps[1:] {
		if err := model.apply(step); err != nil {
			return nil, err
		}
		if err := r.Step(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	tables, err := r.Finalize()
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Steps:    len(f.Steps),
		Buffered: map[string]int{},
		Tables:   len(tables),
		RunID:    r.RunID(),
	}
	for _, d := range table {
		if !d.Save.ShouldSave() {
			continue
		}
		if d.Split {
			length := 0
			for _, series := range r.SplitSeries(d.Name) {
				if len(series) > length {
					length = len(series)
				}
			}
			summary.Buffered[d.Name] = length
		} else {
			summary.Buffered[d.Name] = len(r.Series(d.Name))
		}
	}
	return summary, nil
}

// Verify compares a run summary against the fixture's expected series
// lengths.
func Verify(f *Fixture, s *RunSummary) error {
	for _, exp := range f.Expected {
		got, ok := s.Buffered[exp.Name]
		if !ok {
			return fmt.Errorf("expected series %q was never buffered", exp.Name)
		}
		if got != exp.Length {
			return fmt.Errorf("series %q has length %d, expected %d", exp.Name, got, exp.Length)
		}
	}
	return nil
}

// #endregion run

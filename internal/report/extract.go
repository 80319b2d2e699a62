package report

import (
	"fmt"
	"path"

	"simreport/internal/agents"
	"simreport/internal/directive"
	"simreport/internal/reduce"
	"simreport/internal/validate"
)

// #region extract

// extract resolves a directive against the population and hands the fetched
// attribute to the reduction stage, once for the whole collection or once
// per entity for split directives.
func (r *Reporter) extract(d *directive.Directive) error {
	col, err := r.model.Agents().Collection(d.EntityType)
	if err != nil {
		return err
	}
	values, err := col.Attribute(d.VarName)
	if err != nil {
		return err
	}

	if d.Split {
		rows, err := splitRows(values)
		if err != nil {
			return err
		}
		// Lengths matching the id list is the collection's contract, not
		// re-validated here; zip to the shorter.
		ids := col.IDs()
		n := len(ids)
		if len(rows) < n {
			n = len(rows)
		}
		for i := 0; i < n; i++ {
			k := key{name: d.Name, id: ids[i], split: true}
			if err := r.parse(d, k, rows[i], col); err != nil {
				return err
			}
		}
		return nil
	}
	return r.parse(d, key{name: d.Name}, values, col)
}

// #endregion extract

// #region parse

// parse applies the directive's reduction and forwards the result.
func (r *Reporter) parse(d *directive.Directive, k key, values any, col agents.Collection) error {
	if d.Reduction.Kind == reduce.KindNone {
		// The raw value aliases agent-owned storage; copy before it can
		// cross into the store or the exporter.
		return r.report(d, k, deepCopy(values))
	}

	vals, err := asFloats(values)
	if err != nil {
		return err
	}

	if d.PerGroup() {
		raw, err := col.Attribute(d.GroupScale)
		if err != nil {
			return err
		}
		groupIDs, err := asInts(raw)
		if err != nil {
			return err
		}

		var out []float64
		switch d.Reduction.Kind {
		case reduce.KindMean:
			out, err = reduce.MeanPerGroup(vals, groupIDs, d.GroupCount)
		case reduce.KindSum:
			out, err = reduce.SumPerGroup(vals, groupIDs, d.GroupCount)
		case reduce.KindCustom:
			out, err = d.Reduction.Custom(vals, groupIDs, d.GroupCount)
		}
		if err != nil {
			return err
		}
		return r.report(d, k, out)
	}

	switch d.Reduction.Kind {
	case reduce.KindMean:
		return r.report(d, k, reduce.Mean(vals))
	case reduce.KindSum:
		return r.report(d, k, reduce.Sum(vals))
	case reduce.KindCustom:
		out, err := d.Reduction.Custom(vals, nil, 0)
		if err != nil {
			return err
		}
		return r.report(d, k, out)
	}
	return fmt.Errorf("reduction %s unknown", d.Reduction)
}

// #endregion parse

// #region report

// report validates a value and buffers and/or exports it per the
// directive's save policy.
func (r *Reporter) report(d *directive.Directive, k key, value any) error {
	v, err := validate.Value(value)
	if err != nil {
		return err
	}
	if err := d.Save.Validate(d.Name); err != nil {
		return err
	}

	if d.Save.ShouldExport() {
		if !d.InitialOnly || r.stepIndex() == 0 {
			name := k.name
			if k.split {
				name = path.Join(k.name, k.id)
			}
			p, err := r.exporter.WriteSnapshot(name, d, v, r.timesteps[len(r.timesteps)-1])
			if err != nil {
				return err
			}
			r.recordExport(k, p, d.Format)
		}
	}

	if d.Save.ShouldSave() {
		if k.split {
			return r.store.appendID(k.name, k.id, v)
		}
		return r.store.append(k.name, v)
	}
	return nil
}

// #endregion report

// #region conversions

// splitRows explodes an attribute array into one sub-value per entity.
func splitRows(values any) ([]any, error) {
	switch v := values.(type) {
	case [][]float64:
		rows := make([]any, len(v))
		for i, row := range v {
			rows[i] = row
		}
		return rows, nil
	case []float64:
		rows := make([]any, len(v))
		for i, x := range v {
			rows[i] = x
		}
		return rows, nil
	case []int:
		rows := make([]any, len(v))
		for i, x := range v {
			rows[i] = x
		}
		return rows, nil
	}
	return nil, fmt.Errorf("cannot split value of type %T", values)
}

func asFloats(values any) ([]float64, error) {
	switch v := values.(type) {
	case []float64:
		return v, nil
	case []int:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	case float64:
		return []float64{v}, nil
	case int:
		return []float64{float64(v)}, nil
	}
	return nil, fmt.Errorf("cannot reduce value of type %T", values)
}

func asInts(values any) ([]int, error) {
	switch v := values.(type) {
	case []int:
		return v, nil
	case []float64:
		out := make([]int, len(v))
		for i, x := range v {
			out[i] = int(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("group scale must be an integer array, got %T", values)
}

// deepCopy detaches a value from agent-owned storage.
func deepCopy(values any) any {
	switch v := values.(type) {
	case []float64:
		return append([]float64(nil), v...)
	case []int:
		return append([]int(nil), v...)
	case [][]float64:
		rows := make([][]float64, len(v))
		for i, row := range v {
			rows[i] = append([]float64(nil), row...)
		}
		return rows
	}
	return values
}

// #endregion conversions

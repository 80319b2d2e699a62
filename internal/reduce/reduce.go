// Package reduce holds the numeric kernels that collapse a per-entity value
// array into a whole-collection scalar or a per-group array.
package reduce

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"simreport/internal/narray"
)

// #region bounds-error

// BoundsError reports a value/group-id mismatch: unequal array lengths or a
// group id outside [0, nGroups). Both indicate broken config or agent data,
// and callers must treat them as fatal.
type BoundsError struct {
	Msg string
}

func (e *BoundsError) Error() string { return e.Msg }

// #endregion bounds-error

// #region per-group

// SumPerGroup accumulates values into one sum per group. Slot g of the
// result is the sum of all values whose group id equals g, in input order.
func SumPerGroup(values []float64, groupIDs []int, nGroups int) ([]float64, error) {
	if len(values) != len(groupIDs) {
		return nil, &BoundsError{Msg: fmt.Sprintf("values length %d != group ids length %d", len(values), len(groupIDs))}
	}
	sums := narray.Default().Zeros(nGroups)
	for i, v := range values {
		g := groupIDs[i]
		if g < 0 || g >= nGroups {
			return nil, &BoundsError{Msg: fmt.Sprintf("group id %d out of range [0, %d)", g, nGroups)}
		}
		sums.Set(g, sums.At(g)+v)
	}
	return sums.Host(), nil
}

// MeanPerGroup computes the arithmetic mean per group. A group with zero
// members divides 0 by 0 and yields NaN; that is input-dependent behaviour
// the caller accepts, not an error.
func MeanPerGroup(values []float64, groupIDs []int, nGroups int) ([]float64, error) {
	if len(values) != len(groupIDs) {
		return nil, &BoundsError{Msg: fmt.Sprintf("values length %d != group ids length %d", len(values), len(groupIDs))}
	}
	backend := narray.Default()
	sums := backend.Zeros(nGroups)
	counts := backend.Zeros(nGroups)
	for i, v := range values {
		g := groupIDs[i]
		if g < 0 || g >= nGroups {
			return nil, &BoundsError{Msg: fmt.Sprintf("group id %d out of range [0, %d)", g, nGroups)}
		}
		sums.Set(g, sums.At(g)+v)
		counts.Set(g, counts.At(g)+1)
	}
	sums.Div(counts)
	return sums.Host(), nil
}

// #endregion per-group

// #region whole-collection

// Sum collapses a value array to its arithmetic sum.
func Sum(values []float64) float64 {
	return floats.Sum(values)
}

// Mean collapses a value array to its arithmetic mean.
func Mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// #endregion whole-collection

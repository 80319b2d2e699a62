// Package narray provides a narrow numeric-array capability so that the
// reduction kernels and the exporter do not care where their accumulators
// live. The host backend is always available; an accelerator backend can be
// installed at startup with SetDefault, and its absence is never an error.
package narray

// #region backend

// Backend allocates arrays. Implementations must return arrays whose Host()
// view is an ordinary []float64 owned by the caller.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Zeros allocates a zero-initialized array of length n.
	Zeros(n int) Array
}

// Array is the minimal surface the pipeline needs: indexed accumulation,
// elementwise division, and conversion to a host slice.
type Array interface {
	Len() int
	At(i int) float64
	Set(i int, v float64)
	// Div divides elementwise by other. Lengths must match.
	Div(other Array)
	// Host returns the array as a host slice. For the host backend this is
	// the backing slice itself, not a copy.
	Host() []float64
}

// #endregion backend

// #region default

var defaultBackend Backend = hostBackend{}

// Default returns the currently installed backend.
func Default() Backend {
	return defaultBackend
}

// SetDefault installs an alternate backend. Passing nil restores the host
// backend.
func SetDefault(b Backend) {
	if b == nil {
		defaultBackend = hostBackend{}
		return
	}
	defaultBackend = b
}

// #endregion default

package narray

import "gonum.org/v1/gonum/floats"

// #region host-backend

// hostBackend allocates plain Go slices.
type hostBackend struct{}

func (hostBackend) Name() string { return "host" }

func (hostBackend) Zeros(n int) Array {
	a := make(hostArray, n)
	return &a
}

// #endregion host-backend

// #region host-array

type hostArray []float64

func (a *hostArray) Len() int             { return len(*a) }
func (a *hostArray) At(i int) float64     { return (*a)[i] }
func (a *hostArray) Set(i int, v float64) { (*a)[i] = v }

func (a *hostArray) Div(other Array) {
	floats.Div(*a, other.Host())
}

func (a *hostArray) Host() []float64 { return *a }

// #endregion host-array

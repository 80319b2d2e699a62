package narray

import (
	"math"
	"testing"
)

func TestHostZeros(t *testing.T) {
	a := Default().Zeros(4)
	if a.Len() != 4 {
		t.Fatalf("expected length 4, got %d", a.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != 0 {
			t.Fatalf("expected zero at %d, got %f", i, a.At(i))
		}
	}
}

func TestHostDiv(t *testing.T) {
	a := Default().Zeros(3)
	b := Default().Zeros(3)
	a.Set(0, 6)
	a.Set(1, 9)
	b.Set(0, 2)
	b.Set(1, 3)

	a.Div(b)

	if a.At(0) != 3 || a.At(1) != 3 {
		t.Fatalf("unexpected quotients: %v", a.Host())
	}
	// 0/0 must propagate as NaN, not panic.
	if !math.IsNaN(a.At(2)) {
		t.Fatalf("expected NaN for 0/0, got %f", a.At(2))
	}
}

func TestSetDefaultNilRestoresHost(t *testing.T) {
	SetDefault(nil)
	if Default().Name() != "host" {
		t.Fatalf("expected host backend, got %s", Default().Name())
	}
}

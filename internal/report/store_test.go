package report

import "testing"

func TestStoreAppendOrdered(t *testing.T) {
	s := newValueStore()
	s.register("wealth")

	for _, v := range []float64{1, 2, 3} {
		if err := s.append("wealth", v); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	series := s.get("wealth")
	if len(series) != 3 {
		t.Fatalf("expected 3 values, got %d", len(series))
	}
	for i, want := range []float64{1, 2, 3} {
		if series[i] != want {
			t.Fatalf("order lost at %d: %v", i, series[i])
		}
	}
}

func TestStoreAppendUnregistered(t *testing.T) {
	s := newValueStore()
	if err := s.append("wealth", 1.0); err == nil {
		t.Fatal("append to unregistered name must fail")
	}
	if err := s.appendID("wealth", "f1", 1.0); err == nil {
		t.Fatal("id append to unregistered name must fail")
	}
}

func TestStoreSplitLazyPerID(t *testing.T) {
	s := newValueStore()
	s.registerSplit("wealth")

	if err := s.appendID("wealth", "f2", 20.0); err != nil {
		t.Fatalf("append f2: %v", err)
	}
	if err := s.appendID("wealth", "f1", 10.0); err != nil {
		t.Fatalf("append f1: %v", err)
	}
	if err := s.appendID("wealth", "f2", 21.0); err != nil {
		t.Fatalf("append f2 again: %v", err)
	}

	byID, ids := s.getSplit("wealth")
	if len(byID["f2"]) != 2 || byID["f2"][1] != 21.0 {
		t.Fatalf("unexpected f2 series: %v", byID["f2"])
	}
	// ids keep first-appearance order for stable table columns.
	if len(ids) != 2 || ids[0] != "f2" || ids[1] != "f1" {
		t.Fatalf("unexpected id order: %v", ids)
	}
}

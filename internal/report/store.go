package report

import "fmt"

// #region value-store

// valueStore accumulates per-step values: an append-only ordered sequence
// per directive name, further keyed by entity id for split directives.
// Series are pre-registered at reporter construction; appending to an
// unregistered name means a directive/agent mismatch.
type valueStore struct {
	series map[string][]any
	split  map[string]map[string][]any
	// splitIDs keeps entity ids in first-appearance order so finalized
	// tables have stable columns.
	splitIDs map[string][]string
}

func newValueStore() *valueStore {
	return &valueStore{
		series:   map[string][]any{},
		split:    map[string]map[string][]any{},
		splitIDs: map[string][]string{},
	}
}

// #endregion value-store

// #region register

func (s *valueStore) register(name string) {
	if _, ok := s.series[name]; !ok {
		s.series[name] = []any{}
	}
}

func (s *valueStore) registerSplit(name string) {
	if _, ok := s.split[name]; !ok {
		s.split[name] = map[string][]any{}
	}
}

// #endregion register

// #region append

func (s *valueStore) append(name string, v any) error {
	if _, ok := s.series[name]; !ok {
		return fmt.Errorf("variable %q not initialized; an agent is reporting for a group that is not in the reporter", name)
	}
	s.series[name] = append(s.series[name], v)
	return nil
}

func (s *valueStore) appendID(name, id string, v any) error {
	byID, ok := s.split[name]
	if !ok {
		return fmt.Errorf("variable %q not initialized; an agent is reporting for a group that is not in the reporter", name)
	}
	if _, ok := byID[id]; !ok {
		byID[id] = []any{}
		s.splitIDs[name] = append(s.splitIDs[name], id)
	}
	byID[id] = append(byID[id], v)
	return nil
}

// #endregion append

// #region accessors

func (s *valueStore) get(name string) []any {
	return s.series[name]
}

func (s *valueStore) getSplit(name string) (map[string][]any, []string) {
	return s.split[name], s.splitIDs[name]
}

// #endregion accessors

package fieldstate

import "slices"

// State is the state of one field.
type State struct {
	DefaultValue any      `json:"default_value"`
	Value        any      `json:"value"`
	Errors       []string `json:"errors"`
	Pending      bool     `json:"pending"`
	Dirty        bool     `json:"dirty"`
	Touched      bool     `json:"touched"`
	Valid        bool     `json:"valid"`
}

// New returns the initial state of a field holding defaultValue.
func New(defaultValue any) State {
	return State{
		DefaultValue: defaultValue,
		Value:        defaultValue,
	}
}

// Clone returns a copy that shares no mutable data with s.
func (s State) Clone() State {
	s.Errors = slices.Clone(s.Errors)
	return s
}

// With returns a copy of s with changes applied in order.
func (s State) With(changes ...Change) State {
	next := s.Clone()
	for _, change := range changes {
		if change != nil {
			change(&next)
		}
	}
	return next
}

// HasErrors reports whether the state carries any error messages.
func (s State) HasErrors() bool {
	return len(s.Errors) > 0
}

// Change mutates a State copy. See State.With.
type Change func(*State)

func WithValue(v any) Change {
	return func(s *State) { s.Value = v }
}

func WithDefaultValue(v any) Change {
	return func(s *State) { s.DefaultValue = v }
}

func WithDirty(dirty bool) Change {
	return func(s *State) { s.Dirty = dirty }
}

func WithTouched(touched bool) Change {
	return func(s *State) { s.Touched = touched }
}

func WithPending(pending bool) Change {
	return func(s *State) { s.Pending = pending }
}

func WithValid(valid bool) Change {
	return func(s *State) { s.Valid = valid }
}

// WithErrors replaces the error list and derives Valid from it.
func WithErrors(errs []string) Change {
	return func(s *State) {
		if len(errs) == 0 {
			s.Errors = nil
		} else {
			s.Errors = slices.Clone(errs)
		}
		s.Valid = len(errs) == 0
	}
}

// Settled clears Pending and applies the final error list.
func Settled(errs []string) Change {
	return func(s *State) {
		s.Pending = false
		WithErrors(errs)(s)
	}
}

// Validating marks the start of a validation run for value. Errors are
// cleared while Valid keeps its previous value until the run settles.
func Validating(value any) Change {
	return func(s *State) {
		s.Value = value
		s.Dirty = true
		s.Pending = true
		s.Errors = nil
	}
}

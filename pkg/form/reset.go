package form

import (
	"maps"
	"slices"

	"github.com/dmitrymomot/formkit/pkg/fieldstate"
)

// ResetOptions controls what Reset keeps.
type ResetOptions struct {
	// DirtyFields keeps the value and dirty flag of fields that are dirty.
	DirtyFields bool
	// Errors clears the errors map. Without it field errors survive the reset.
	Errors bool
}

// Reset returns fields to their default values. Entries of values become the
// new default of the field with the same name. Scheduled and running
// validations are discarded.
func (f *Form) Reset(values map[string]any, opts ResetOptions) {
	f.mu.Lock()
	fields := make([]*field, 0, len(f.fields))
	for _, name := range slices.Sorted(maps.Keys(f.fields)) {
		fields = append(fields, f.fields[name])
	}
	if opts.Errors {
		clear(f.extra)
	}
	f.mu.Unlock()

	for _, fd := range fields {
		gen := fd.gen.Add(1)
		next, hasNext := values[fd.name]

		fd.store.Update(func(cur fieldstate.State) fieldstate.State {
			def := cur.DefaultValue
			if hasNext {
				def = next
			}

			out := fieldstate.State{
				DefaultValue: def,
				Value:        def,
				Valid:        !fd.hasRules(),
			}
			if opts.DirtyFields && cur.Dirty {
				out.Value = cur.Value
				out.Dirty = true
				// a running validation is discarded, so its value counts as unchecked
				if len(cur.Errors) == 0 && !cur.Pending {
					out.Valid = cur.Valid
				}
			}
			if !opts.Errors && len(cur.Errors) > 0 {
				out.Errors = cur.Errors
				out.Valid = false
			}
			return out
		})

		fd.debounce.Cancel(fd.store.Get(), nil)
		fd.markSettled(gen)
	}

	f.publish()
	f.logger.Debug("form reset")
}

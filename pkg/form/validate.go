package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/formkit/pkg/dotpath"
	"github.com/dmitrymomot/formkit/pkg/fieldstate"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Result is the outcome of Validate.
type Result struct {
	Valid bool
	// Data holds the values of the validated fields nested by path.
	Data map[string]any
}

// Validate validates the named fields, or every field when names is empty,
// without debouncing. Fields removed while validating are left out of the
// result. The error is non-nil for unknown names or a cancelled ctx.
func (f *Form) Validate(ctx context.Context, names ...string) (Result, error) {
	fields, err := f.pick(names)
	if err != nil {
		return Result{}, err
	}

	states := make([]fieldstate.State, len(fields))
	present := make([]bool, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	for i, fd := range fields {
		g.Go(func() error {
			st, err := f.validateNow(gctx, fd).AwaitContext(gctx)
			if errors.Is(err, ErrFieldNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			states[i] = st
			present[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	valid := true
	pairs := make([]dotpath.Pair, 0, len(fields))
	for i, fd := range fields {
		if !present[i] {
			continue
		}
		valid = valid && states[i].Valid
		pairs = append(pairs, dotpath.Pair{Path: fd.name, Value: states[i].Value})
	}

	f.logger.DebugContext(ctx, "form validated", logger.Fields(names), logger.Valid(valid))
	return Result{Valid: valid, Data: dotpath.Build(pairs...)}, nil
}

// pick returns the records for names in the given order, or all records
// sorted by name.
func (f *Form) pick(names []string) ([]*field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(names) == 0 {
		out := make([]*field, 0, len(f.fields))
		for _, name := range slices.Sorted(maps.Keys(f.fields)) {
			out = append(out, f.fields[name])
		}
		return out, nil
	}

	out := make([]*field, 0, len(names))
	var errs []error
	for _, name := range names {
		fd, ok := f.fields[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrFieldNotFound, name))
			continue
		}
		out = append(out, fd)
	}
	return out, errors.Join(errs...)
}

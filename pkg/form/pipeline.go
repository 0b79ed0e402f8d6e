package form

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/fieldstate"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/rule"
)

// schedule stores value and queues a debounced validation of it.
func (f *Form) schedule(ctx context.Context, fd *field, value any) *async.Future[fieldstate.State] {
	gen := fd.gen.Add(1)
	fd.store.Apply(fieldstate.WithValue(value), fieldstate.WithDirty(true))
	// the batch may run after the caller's context is gone
	return fd.debounce.Call(request{ctx: context.WithoutCancel(ctx), value: value, gen: gen})
}

// validateNow validates the field's current value without debouncing.
func (f *Form) validateNow(ctx context.Context, fd *field) *async.Future[fieldstate.State] {
	if !fd.hasRules() {
		fd.store.Apply(fieldstate.Settled(nil))
		return async.Resolved(fd.store.Get(), nil)
	}
	return async.Async(ctx, fd, func(ctx context.Context, fd *field) (fieldstate.State, error) {
		// taken when the run starts so a run that never starts supersedes nothing
		gen := fd.gen.Add(1)
		return f.run(ctx, fd, fd.store.Get().Value, gen)
	})
}

// debounced is the function behind a field's debouncer. A batch whose
// request was superseded by a later Validate or Reset leaves the store alone.
func (f *Form) debounced(fd *field) func(request) (fieldstate.State, error) {
	return func(req request) (fieldstate.State, error) {
		return f.run(req.ctx, fd, req.value, req.gen)
	}
}

// run moves the field through pending to settled. Nothing is written once
// gen is superseded or the field has left the form; a superseded run waits
// for and returns the state settled by the newer request.
func (f *Form) run(ctx context.Context, fd *field, value any, gen uint64) (fieldstate.State, error) {
	if !f.current(fd) {
		return fd.store.Get(), fmt.Errorf("%w: %q", ErrFieldNotFound, fd.name)
	}
	if !fd.hasRules() {
		fd.store.Apply(fieldstate.Settled(nil))
		return fd.store.Get(), nil
	}

	live := func() bool { return fd.gen.Load() == gen && f.current(fd) }

	started := false
	fd.store.Update(func(cur fieldstate.State) fieldstate.State {
		if !live() {
			return cur
		}
		started = true
		return cur.With(fieldstate.Validating(value))
	})
	if !started {
		return fd.awaitSettled(ctx, gen, func() bool { return f.current(fd) })
	}

	begin := time.Now()
	errs := f.evaluate(ctx, fd, value)

	settled := false
	fd.store.Update(func(cur fieldstate.State) fieldstate.State {
		if !live() {
			return cur
		}
		settled = true
		return cur.With(fieldstate.Settled(errs))
	})
	if !settled {
		// superseded while running: report the state of the newer request
		return fd.awaitSettled(ctx, gen, func() bool { return f.current(fd) })
	}
	fd.markSettled(gen)

	f.logger.DebugContext(ctx, "field validated",
		logger.Field(fd.name),
		logger.Valid(len(errs) == 0),
		logger.Duration(time.Since(begin)),
	)
	return fd.store.Get(), nil
}

// evaluate returns the error messages of fd's rules for value in
// declaration order. In bail mode it stops at the first failure.
func (f *Form) evaluate(ctx context.Context, fd *field, value any) []string {
	ctrl := control{form: f}
	exec := func(ctx context.Context, r rule.Rule) (rule.Result, error) {
		return r.Run(ctx, value, ctrl)
	}

	if fd.bail {
		for _, r := range fd.rules {
			res, err := async.Async(ctx, r, exec).Await()
			if msg, failed := f.outcome(ctx, fd, r, res, err); failed {
				return []string{msg}
			}
		}
		return nil
	}

	futures := make([]*async.Future[rule.Result], len(fd.rules))
	for i, r := range fd.rules {
		futures[i] = async.Async(ctx, r, exec)
	}

	var errs []string
	for i, fut := range futures {
		res, err := fut.Await()
		if msg, failed := f.outcome(ctx, fd, fd.rules[i], res, err); failed {
			errs = append(errs, msg)
		}
	}
	return errs
}

// outcome turns a rule result into an error message. Faults fail closed.
func (f *Form) outcome(ctx context.Context, fd *field, r rule.Rule, res rule.Result, err error) (string, bool) {
	if err != nil {
		f.logger.WarnContext(ctx, "validator fault",
			logger.Field(fd.name),
			logger.Rule(r.Name),
			logger.Error(fmt.Errorf("%w: %w", ErrValidatorFault, err)),
		)
		return FaultMessage, true
	}
	if res.Valid() {
		return "", false
	}
	if msg := res.Message(); msg != "" {
		return msg, true
	}
	// a failure without a message still needs a visible entry
	return r.Name, true
}

package form

import (
	"context"

	"github.com/dmitrymomot/formkit/pkg/fieldstate"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// Event is the triggering event of a submission as seen by a UI layer.
type Event interface {
	PreventDefault()
	StopPropagation()
}

// SuccessFunc receives the nested form data of a valid submission.
type SuccessFunc func(ctx context.Context, data map[string]any, ev Event) error

// ErrorFunc receives the errors map of an invalid submission.
type ErrorFunc func(ctx context.Context, errs map[string][]string, ev Event)

// OnSubmit returns a submit handler. The handler marks the form as
// submitting, validates every field (or runs the resolver), then calls
// onSuccess or onError. Submitting is cleared after the callback returns.
//
// The handler returns onSuccess's error, or a non-nil error when validation
// could not complete. An invalid form is reported through onError only.
// ev may be nil.
func (f *Form) OnSubmit(onSuccess SuccessFunc, onError ErrorFunc) func(ctx context.Context, ev Event) error {
	if onSuccess == nil {
		f.logger.Error("on submit: nil success callback")
		return func(context.Context, Event) error { return ErrNilCallback }
	}
	return func(ctx context.Context, ev Event) error {
		return f.submit(ctx, ev, onSuccess, onError)
	}
}

func (f *Form) submit(ctx context.Context, ev Event, onSuccess SuccessFunc, onError ErrorFunc) error {
	f.setSubmitting(1)
	defer f.setSubmitting(-1)

	if ev != nil {
		ev.PreventDefault()
		ev.StopPropagation()
	}

	f.clearExtraErrors()

	var (
		data  map[string]any
		valid bool
	)
	if f.resolver != nil {
		data = f.GetValues()
		err := f.resolver.Validate(ctx, data)
		valid = err == nil
		f.applyResolverErrors(ctx, err)
	} else {
		res, err := f.Validate(ctx)
		if err != nil {
			f.logger.WarnContext(ctx, "submit: validation interrupted", logger.Error(err))
			return err
		}
		data, valid = res.Data, res.Valid
	}

	f.logger.InfoContext(ctx, "form submitted", logger.Valid(valid))

	if valid {
		return onSuccess(ctx, data, ev)
	}
	if onError != nil {
		onError(ctx, f.Errors(), ev)
	}
	return nil
}

func (f *Form) setSubmitting(delta int) {
	f.mu.Lock()
	f.submitting += delta
	f.mu.Unlock()
	f.publish()
}

func (f *Form) clearExtraErrors() {
	f.mu.Lock()
	clear(f.extra)
	f.mu.Unlock()
	f.publish()
}

// applyResolverErrors settles every field from the resolver outcome.
// Errors under names that are not fields stay in the errors map until the
// next submit or Reset with Errors set.
func (f *Form) applyResolverErrors(ctx context.Context, err error) {
	errs := map[string][]string{}
	if err != nil {
		if verrs := validator.ExtractValidationErrors(err); len(verrs) > 0 {
			errs = verrs.ToMap()
		} else {
			f.logger.WarnContext(ctx, "resolver fault", logger.Error(err))
			errs[RootErrorKey] = []string{err.Error()}
		}
	}

	f.mu.Lock()
	fields := make([]*field, 0, len(f.fields))
	for _, fd := range f.fields {
		fields = append(fields, fd)
	}
	for key, msgs := range errs {
		if _, ok := f.fields[key]; !ok {
			f.extra[key] = msgs
		}
	}
	f.mu.Unlock()

	for _, fd := range fields {
		gen := fd.gen.Add(1)
		fd.store.Apply(fieldstate.Settled(errs[fd.name]))
		fd.markSettled(gen)
	}
	f.publish()
}

// Package form is a reactive form-state engine. A Form keeps the state of a
// set of named fields, runs their validation rules and derives an aggregate
// state that stays consistent while values change and validators run
// concurrently.
//
// # Fields
//
// Fields are registered by name. Names are paths: "users[0].name" places the
// value under users → first element → name when the form data is assembled.
//
//	f := form.New(form.WithDebounce(150 * time.Millisecond))
//	email, _ := f.Register("email", form.FieldOptions{Rules: "required|email"})
//	unsubscribe := email.Subscribe(func(st fieldstate.State) {
//	    render(st.Value, st.Errors)
//	})
//	defer unsubscribe()
//
// Rules are resolved through a rule.Registry. A form created without
// WithRegistry gets its own registry holding the validator built-ins.
//
// # Validation
//
// SetValue stores the value at once and, with validate-on-change enabled,
// schedules validation after a quiet window. Calls inside the window are
// coalesced: the rules run once with the last value and every returned
// future resolves with the same settled state.
//
// While rules run the field is pending with its errors cleared. Rules run
// concurrently and report errors in declaration order, or one by one stopping
// at the first failure when the field was registered with Bail. A rule that
// returns an error or panics records FaultMessage and leaves the field
// invalid.
//
// Each field carries a generation counter. A run superseded by a newer
// SetValue, Validate or Reset, or by unregistering the field, does not touch
// the field state.
//
// # Aggregate state
//
// State is maintained with counting sets updated on every field change:
// Valid when no field is invalid, Pending while any field is pending, Dirty
// and Touched when every field is. Errors returns the field → messages map;
// fields without errors are absent.
//
// Subscribe and SubscribeErrors call observers synchronously and replay the
// current value on subscription. Observers must not call mutating Form
// methods from the callback; use Watch to react from another goroutine.
//
// # Submission
//
// OnSubmit builds a handler that validates every field (or hands the nested
// data to a Resolver), then calls the success or error callback:
//
//	submit := f.OnSubmit(
//	    func(ctx context.Context, data map[string]any, _ form.Event) error {
//	        return store.Save(ctx, data)
//	    },
//	    func(ctx context.Context, errs map[string][]string, _ form.Event) {
//	        log.Printf("invalid: %v", errs)
//	    },
//	)
//	err := submit(ctx, nil)
//
// # Configuration
//
// Defaults come from DefaultConfig. ConfigFromEnv reads FORM_VALIDATE_ON_CHANGE,
// FORM_DEBOUNCE and FORM_LOG_LEVEL. Definitions loaded from YAML with
// LoadDefinition describe a whole form at once.
package form

// Package formkit is a reactive form-state engine for Go.
//
// A form is a set of named fields. Each field has a value, a default value, a
// list of validation rules and derived flags (dirty, touched, pending, valid).
// Changes are observable per field and for the form as a whole, validation is
// debounced and runs asynchronously, and the values of all fields can be
// assembled into a nested document keyed by their dotted names.
//
// The module is a toolkit of small packages:
//
//   - pkg/form: the form controller (register, set value, validate, reset, submit)
//   - pkg/rule: rule registry, rule functions and rule expression parsing
//   - pkg/validator: built-in rules and structured validation errors
//   - pkg/fieldstate: per-field observable state store
//   - pkg/observable: generic value with replay-on-subscribe observers
//   - pkg/dotpath: nested document assembly from dotted paths
//   - pkg/async: futures used for asynchronous validation
//   - pkg/schemaresolver: JSON Schema backed form resolver
//   - pkg/config: environment configuration loading
//   - pkg/logger: slog logger factory and attribute helpers
//
// Basic Usage:
//
//	f := form.New(form.WithDebounce(50 * time.Millisecond))
//	defer f.Close()
//
//	email, _ := f.Register("email", form.FieldOptions{Rules: "required|email"})
//	unsubscribe := email.Subscribe(func(st fieldstate.State) {
//		fmt.Println(st.Value, st.Valid, st.Errors)
//	})
//	defer unsubscribe()
//
//	st, err := f.SetValue(ctx, "email", "user@example.com").Await()
//
//	submit := f.OnSubmit(
//		func(ctx context.Context, data map[string]any, _ form.Event) error {
//			return save(ctx, data)
//		},
//		func(ctx context.Context, errs map[string][]string, _ form.Event) {
//			log.Println(errs)
//		},
//	)
//	err = submit(ctx, nil)
//
// Forms can also be declared in YAML and loaded with form.LoadDefinition; the
// cmd/formcheck tool validates a values file against such a definition.
package formkit

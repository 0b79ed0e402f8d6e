// Package rule defines validation rules for form fields and the registry that
// resolves them by name.
//
// A rule is a Func that receives the field value, the positional parameters
// parsed from the rule expression and a Control giving read/write access to the
// owning form. It returns a Result describing pass or failure. Failures are data,
// not errors: a non-nil error from a Func means the rule itself could not run.
//
// # Registry
//
// Registry is an explicitly constructed name→Func table. Construct one per
// application (or per test) and pass it to the form instead of relying on a
// process-wide table:
//
//	reg := rule.NewRegistry(rule.WithLogger(log))
//	_ = reg.Define("required", requiredFn)
//
// # Rule expressions
//
// Normalize turns any accepted rule expression into an ordered []Rule:
//
//	reg.Normalize("required|min:3")
//	reg.Normalize([]any{"required", rule.Named("even", evenFn), nil})
//	reg.Normalize(map[string]any{"between": []any{1, 10}})
//
// Order is preserved and doubles as execution order. Map keys are applied in
// sorted order. Unknown rule names and unsupported shapes never abort
// normalization; the offending entries are skipped and reported through the
// returned error.
package rule

// Package validator holds the built-in form rules and the structured error
// collection shared by the form engine and external resolvers.
//
// # Built-in rules
//
// Each rule is a rule.Func and can be installed under its expression name:
//
//	reg := rule.NewRegistry()
//	if err := validator.RegisterDefaults(reg); err != nil {
//	    return err
//	}
//	rules, _ := reg.Normalize("required|email|min_length:6")
//
// Available names: required, email, url, alpha_num, integer, min, max,
// min_length, between, same, contains, unique.
//
// min and max compare numbers (numeric strings included) by value and other
// strings or collections by length. between is exclusive on both ends.
// same reads the other field through rule.Control. Rules that receive
// malformed parameters return ErrMissingParam or ErrInvalidParam, which the
// form reports as a fault rather than a failed check.
//
// # Errors
//
// ValidationErrors is a slice of ValidationError that implements error.
// ToMap and FromMap convert it to and from the field → messages map exposed by
// the form, and ExtractValidationErrors unwraps it from an error chain:
//
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	    for field, msgs := range verrs.ToMap() {
//	        ...
//	    }
//	}
package validator

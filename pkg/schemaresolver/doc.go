// Package schemaresolver validates whole form submissions against a JSON
// Schema using github.com/santhosh-tekuri/jsonschema/v6.
//
//	r, err := schemaresolver.New(schemaJSON)
//	if err != nil {
//	    return err
//	}
//	f := form.New(form.WithResolver(r))
//
// Violations come back as validator.ValidationErrors. Instance locations are
// turned into form field paths ("users[0].name"), missing required
// properties are reported on the property itself and document-level errors
// use RootField. Messages are rendered with a golang.org/x/text printer;
// WithLanguage selects the language.
package schemaresolver

package schemaresolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// RootField names errors that apply to the document as a whole.
const RootField = "_root"

const resourceURL = "schema.json"

// Resolver validates assembled form data against a JSON Schema.
type Resolver struct {
	schema  *jsonschema.Schema
	printer *message.Printer
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLanguage sets the language of error messages.
func WithLanguage(tag language.Tag) Option {
	return func(r *Resolver) {
		r.printer = message.NewPrinter(tag)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New compiles schema, a JSON document. Draft 2020-12 applies unless the
// schema declares another draft with $schema. Format keywords are asserted.
func New(schema []byte, opts ...Option) (*Resolver, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	c.AssertFormat()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	r := &Resolver{
		schema:  sch,
		printer: message.NewPrinter(language.English),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFromFS compiles the schema stored at path in fsys.
func NewFromFS(fsys fs.FS, path string, opts ...Option) (*Resolver, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schemaresolver: read %s: %w", path, err)
	}
	return New(data, opts...)
}

// Validate checks data against the schema. Schema violations are returned
// as validator.ValidationErrors keyed by form field path, e.g. "users[0].name".
func (r *Resolver) Validate(ctx context.Context, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	inst, err := instance(data)
	if err != nil {
		return err
	}

	err = r.schema.Validate(inst)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		r.logger.WarnContext(ctx, "schema validation failed", logger.Component("schemaresolver"), logger.Error(err))
		return err
	}

	errs := r.collect(verr, nil)
	r.logger.DebugContext(ctx, "schema rejected data",
		logger.Component("schemaresolver"),
		logger.Fields(errs.Fields()),
	)
	return errs
}

// collect flattens the error tree into its leaves.
func (r *Resolver) collect(verr *jsonschema.ValidationError, out validator.ValidationErrors) validator.ValidationErrors {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			out = r.collect(cause, out)
		}
		return out
	}

	code := keyword(verr.ErrorKind)
	msg := verr.ErrorKind.LocalizedString(r.printer)

	// report a missing property on the property itself so it reaches its field
	if req, ok := verr.ErrorKind.(*kind.Required); ok {
		for _, prop := range req.Missing {
			out = append(out, validator.ValidationError{
				Field:   FieldPath(append(slices.Clone(verr.InstanceLocation), prop)),
				Message: msg,
				Code:    code,
			})
		}
		return out
	}

	return append(out, validator.ValidationError{
		Field:   FieldPath(verr.InstanceLocation),
		Message: msg,
		Code:    code,
	})
}

// FieldPath converts a JSON pointer token list into a form field path:
// ["users", "0", "name"] becomes "users[0].name". The empty location is RootField.
func FieldPath(location []string) string {
	if len(location) == 0 {
		return RootField
	}
	var b strings.Builder
	for i, tok := range location {
		if _, err := strconv.Atoi(tok); err == nil && i > 0 {
			b.WriteString("[" + tok + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func keyword(k jsonschema.ErrorKind) string {
	if k == nil {
		return ""
	}
	path := k.KeywordPath()
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

// instance converts form data into the value model the schema validator
// expects, with numbers as json.Number.
func instance(data map[string]any) (any, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	return inst, nil
}

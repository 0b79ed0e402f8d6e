package form

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/formkit/pkg/rule"
)

// Resolver validates the assembled form data as a whole. A failing resolver
// returns an error; validator.ValidationErrors is mapped onto fields.
type Resolver interface {
	Validate(ctx context.Context, data map[string]any) error
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, data map[string]any) error

func (fn ResolverFunc) Validate(ctx context.Context, data map[string]any) error {
	return fn(ctx, data)
}

// Option configures a Form.
type Option func(*Form)

// WithConfig replaces the form settings.
func WithConfig(cfg Config) Option {
	return func(f *Form) {
		f.cfg = cfg
	}
}

func WithValidateOnChange(enabled bool) Option {
	return func(f *Form) {
		f.cfg.ValidateOnChange = enabled
	}
}

// WithDebounce sets the quiet window for change-driven validation.
// Negative values are treated as zero.
func WithDebounce(d time.Duration) Option {
	return func(f *Form) {
		f.cfg.Debounce = max(d, 0)
	}
}

// WithResolver makes r the only validation source on submit.
func WithResolver(r Resolver) Option {
	return func(f *Form) {
		f.resolver = r
	}
}

// WithRegistry sets the registry used to resolve rule names.
// By default each form gets a registry with the built-in rules.
func WithRegistry(reg *rule.Registry) Option {
	return func(f *Form) {
		if reg != nil {
			f.registry = reg
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// FieldOptions describes a field at registration.
//
// Rules accepts any expression rule.Registry.Normalize understands:
// "required|min:3", []any{"required", rule.Named("even", fn)} or
// map[string]any{"between": []string{"1", "10"}}.
type FieldOptions struct {
	DefaultValue    any
	Rules           any
	Bail            bool
	ValidateOnMount bool
}

package rule

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Registry stores rule functions by name. All methods are safe for concurrent use.
type Registry struct {
	rules  map[string]Func
	logger *slog.Logger
	mu     sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for non-fatal registry warnings.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRules pre-populates the registry.
func WithRules(rules map[string]Func) Option {
	return func(r *Registry) {
		for name, fn := range rules {
			_ = r.Define(name, fn)
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rules:  make(map[string]Func),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define stores fn under name, replacing any previous definition.
// A nil fn is not stored; the problem is logged and returned.
func (r *Registry) Define(name string, fn Func) error {
	if name == "" {
		r.logger.Warn("rule definition without a name")
		return ErrEmptyRuleName
	}
	if fn == nil {
		r.logger.Warn("rule definition is not callable", logger.Rule(name))
		return fmt.Errorf("%w: %q", ErrNilRule, name)
	}

	r.mu.Lock()
	r.rules[name] = fn
	r.mu.Unlock()
	return nil
}

// Resolve returns the function stored under name.
// Missing rules are logged as warnings.
func (r *Registry) Resolve(name string) (Func, bool) {
	fn, ok := r.lookup(name)
	if !ok {
		r.logger.Warn("unknown validation rule", logger.Rule(name))
	}
	return fn, ok
}

// Has reports whether name is defined.
func (r *Registry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Names returns the defined rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (r *Registry) lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.rules[name]
	return fn, ok
}

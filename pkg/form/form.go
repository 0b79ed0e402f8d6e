package form

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/dotpath"
	"github.com/dmitrymomot/formkit/pkg/fieldstate"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/observable"
	"github.com/dmitrymomot/formkit/pkg/rule"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// State is the aggregate state of all registered fields.
type State struct {
	Dirty      bool `json:"dirty"`
	Submitting bool `json:"submitting"`
	Touched    bool `json:"touched"`
	Pending    bool `json:"pending"`
	Valid      bool `json:"valid"`
}

// Form owns a set of fields, their validation and the aggregate state.
type Form struct {
	id       string
	cfg      Config
	registry *rule.Registry
	resolver Resolver
	logger   *slog.Logger

	mu         sync.Mutex
	fields     map[string]*field
	invalid    map[string]struct{}
	notDirty   map[string]struct{}
	notTouched map[string]struct{}
	pending    map[string]struct{}
	errs       map[string][]string
	// errors reported by a resolver under names that are not fields
	extra      map[string][]string
	submitting int
	closed     bool

	state  *observable.Value[State]
	errors *observable.Value[map[string][]string]
}

// New creates an empty form.
func New(opts ...Option) *Form {
	f := &Form{
		id:         uuid.NewString(),
		cfg:        DefaultConfig(),
		logger:     logger.Discard(),
		fields:     make(map[string]*field),
		invalid:    make(map[string]struct{}),
		notDirty:   make(map[string]struct{}),
		notTouched: make(map[string]struct{}),
		pending:    make(map[string]struct{}),
		errs:       make(map[string][]string),
		extra:      make(map[string][]string),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.logger = f.logger.With(logger.Component("form"), logger.FormID(f.id))
	if f.registry == nil {
		f.registry = rule.NewRegistry(
			rule.WithLogger(f.logger),
			rule.WithRules(validator.Defaults()),
		)
	}

	f.state = observable.New(State{Valid: true})
	f.errors = observable.New(map[string][]string{})
	return f
}

// ID returns the form instance identifier.
func (f *Form) ID() string { return f.id }

// Config returns the effective settings.
func (f *Form) Config() Config { return f.cfg }

// Registry returns the rule registry used to resolve rule names.
func (f *Form) Registry() *rule.Registry { return f.registry }

// Register adds the field called name, or replaces it when it exists.
// Replacing destroys the previous store, which ends its subscriptions.
//
// Rule expression problems are logged and the offending rules are dropped;
// the returned error is non-nil only when no field was registered.
func (f *Form) Register(name string, opts FieldOptions) (fieldstate.Reader, error) {
	if name == "" {
		f.logger.Warn("register: missing field name")
		return nil, ErrMissingFieldName
	}

	rules, err := f.registry.Normalize(opts.Rules)
	if err != nil {
		f.logger.Warn("register: invalid rule expression", logger.Field(name), logger.Error(err))
	}

	fd := newField(name, rules, opts.Bail)
	fd.debounce = newDebouncer(f.cfg.Debounce, f.debounced(fd))
	fd.store = fieldstate.NewStore(name, fd.initialState(opts.DefaultValue),
		fieldstate.WithOnDestroy(fd.stopValidation))

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	prev := f.fields[name]
	f.fields[name] = fd
	f.mu.Unlock()

	if prev != nil {
		prev.destroy()
		f.logger.Debug("field replaced", logger.Field(name))
	}

	// replay tracks the initial state
	fd.watch(fd.store.Subscribe(func(st fieldstate.State) {
		f.track(fd, st)
	}))

	f.logger.Debug("field registered", logger.Field(name), slog.Int("rules", len(rules)), slog.Bool("bail", fd.bail))

	if opts.ValidateOnMount {
		f.validateNow(context.Background(), fd)
	}
	return fd.store, nil
}

// Unregister removes the field and its errors. Pending validations of the
// field are discarded.
func (f *Form) Unregister(name string) error {
	f.mu.Lock()
	fd, ok := f.fields[name]
	if ok {
		delete(f.fields, name)
		f.untrackLocked(name)
	}
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}

	fd.destroy()
	f.publish()
	f.logger.Debug("field unregistered", logger.Field(name))
	return nil
}

// Field returns the state reader of a registered field.
func (f *Form) Field(name string) (fieldstate.Reader, bool) {
	fd, ok := f.lookup(name)
	if !ok {
		return nil, false
	}
	return fd.store, true
}

// Fields returns the registered field names in sorted order.
func (f *Form) Fields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Sorted(maps.Keys(f.fields))
}

// SetValue stores value. With validate-on-change enabled and rules present,
// validation is debounced and the returned future resolves with the settled
// state shared by every call in the batch. A batch superseded by a newer
// request resolves with the state that request settles. Otherwise the field is marked
// dirty and the future is already resolved.
func (f *Form) SetValue(ctx context.Context, name string, value any) *async.Future[fieldstate.State] {
	fd, ok := f.lookup(name)
	if !ok {
		f.logger.WarnContext(ctx, "set value: unknown field", logger.Field(name))
		return async.Resolved(fieldstate.State{}, fmt.Errorf("%w: %q", ErrFieldNotFound, name))
	}

	if f.cfg.ValidateOnChange && fd.hasRules() {
		return f.schedule(ctx, fd, value)
	}

	fd.store.Apply(fieldstate.WithValue(value), fieldstate.WithDirty(true))
	return async.Resolved(fd.store.Get(), nil)
}

// SetError replaces the field's errors without running its rules.
func (f *Form) SetError(name string, errs []string) error {
	fd, ok := f.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	fd.store.Apply(fieldstate.WithErrors(errs))
	return nil
}

// SetTouched sets the touched flag. It does not trigger validation.
func (f *Form) SetTouched(name string, touched bool) error {
	fd, ok := f.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	fd.store.Apply(fieldstate.WithTouched(touched))
	return nil
}

// GetValue returns the field's value, or nil for unknown fields.
func (f *Form) GetValue(name string) any {
	fd, ok := f.lookup(name)
	if !ok {
		return nil
	}
	return fd.store.Get().Value
}

// GetValues assembles the values of all fields into a nested structure
// following their path names.
func (f *Form) GetValues() map[string]any {
	f.mu.Lock()
	names := slices.Sorted(maps.Keys(f.fields))
	pairs := make([]dotpath.Pair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, dotpath.Pair{Path: name, Value: f.fields[name].store.Get().Value})
	}
	f.mu.Unlock()

	return dotpath.Build(pairs...)
}

// State returns the current aggregate state.
func (f *Form) State() State {
	return f.state.Get()
}

// Errors returns a copy of the errors map. Fields without errors are absent.
func (f *Form) Errors() map[string][]string {
	return cloneErrors(f.errors.Get())
}

// Subscribe calls fn with the current aggregate state and every change.
// fn runs synchronously and must not call mutating Form methods; use Watch
// to react from another goroutine.
func (f *Form) Subscribe(fn func(State)) (unsubscribe func()) {
	return f.state.Subscribe(fn)
}

// SubscribeErrors calls fn with a copy of the errors map now and on every change.
// The same restrictions as Subscribe apply.
func (f *Form) SubscribeErrors(fn func(map[string][]string)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	return f.errors.Subscribe(func(m map[string][]string) { fn(cloneErrors(m)) })
}

// Watch returns a feed of aggregate states that closes with ctx or Close.
// Slow readers miss intermediate states but always see the latest one
// once they catch up.
func (f *Form) Watch(ctx context.Context) <-chan State {
	return f.state.Watch(ctx)
}

// Close unregisters every field and ends all subscriptions.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	fields := slices.Collect(maps.Values(f.fields))
	clear(f.fields)
	for _, fd := range fields {
		f.untrackLocked(fd.name)
	}
	f.mu.Unlock()

	for _, fd := range fields {
		fd.destroy()
	}
	f.publish()
	f.state.Close()
	f.errors.Close()
}

func (f *Form) lookup(name string) (*field, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fd, ok := f.fields[name]
	return fd, ok
}

// current reports whether fd is still the registered record for its name.
func (f *Form) current(fd *field) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[fd.name] == fd
}

// track folds a field state change into the counting sets and the errors map.
func (f *Form) track(fd *field, st fieldstate.State) {
	f.mu.Lock()
	if f.fields[fd.name] != fd {
		f.mu.Unlock()
		return
	}
	name := fd.name
	mark(f.invalid, name, !st.Valid)
	mark(f.notDirty, name, !st.Dirty)
	mark(f.notTouched, name, !st.Touched)
	mark(f.pending, name, st.Pending)
	if len(st.Errors) > 0 {
		f.errs[name] = slices.Clone(st.Errors)
	} else {
		delete(f.errs, name)
	}
	f.mu.Unlock()

	f.publish()
}

func (f *Form) untrackLocked(name string) {
	delete(f.invalid, name)
	delete(f.notDirty, name)
	delete(f.notTouched, name)
	delete(f.pending, name)
	delete(f.errs, name)
}

// publish pushes the latest snapshots. Snapshots are taken inside Update so
// concurrent publishers cannot reorder them.
func (f *Form) publish() {
	f.state.Update(func(State) State {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.snapshotLocked()
	})
	f.errors.Update(func(map[string][]string) map[string][]string {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.errorsLocked()
	})
}

func (f *Form) snapshotLocked() State {
	n := len(f.fields)
	return State{
		Valid:      len(f.invalid) == 0 && len(f.extra) == 0,
		Dirty:      n > 0 && len(f.notDirty) == 0,
		Touched:    n > 0 && len(f.notTouched) == 0,
		Pending:    len(f.pending) > 0,
		Submitting: f.submitting > 0,
	}
}

func (f *Form) errorsLocked() map[string][]string {
	out := make(map[string][]string, len(f.errs)+len(f.extra))
	for k, v := range f.extra {
		out[k] = slices.Clone(v)
	}
	for k, v := range f.errs {
		out[k] = slices.Clone(v)
	}
	return out
}

func mark(set map[string]struct{}, name string, member bool) {
	if member {
		set[name] = struct{}{}
	} else {
		delete(set, name)
	}
}

func cloneErrors(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

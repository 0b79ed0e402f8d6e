package form_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/fieldstate"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/rule"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const window = 20 * time.Millisecond

func newForm(t *testing.T, opts ...form.Option) *form.Form {
	t.Helper()
	f := form.New(append([]form.Option{form.WithDebounce(window)}, opts...)...)
	t.Cleanup(f.Close)
	return f
}

func failWith(msg string) rule.Func {
	return func(context.Context, any, []string, rule.Control) (rule.Result, error) {
		return rule.Fail(msg), nil
	}
}

func TestForm_EmailScenario(t *testing.T) {
	t.Parallel()
	f := newForm(t)

	_, err := f.Register("email", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)

	st, err := f.SetValue(t.Context(), "email", "").Await()
	require.NoError(t, err)
	assert.False(t, st.Valid)
	assert.Equal(t, []string{validator.MsgRequired}, st.Errors)
	assert.True(t, st.Dirty)
	assert.False(t, st.Pending)
	assert.False(t, f.State().Valid)
	assert.Equal(t, map[string][]string{"email": {validator.MsgRequired}}, f.Errors())

	st, err = f.SetValue(t.Context(), "email", "a@b.com").Await()
	require.NoError(t, err)
	assert.True(t, st.Valid)
	assert.Empty(t, st.Errors)
	assert.True(t, f.State().Valid)
	assert.Empty(t, f.Errors())
}

func TestForm_Register(t *testing.T) {
	t.Parallel()

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		_, err := f.Register("", form.FieldOptions{})
		assert.ErrorIs(t, err, form.ErrMissingFieldName)
	})

	t.Run("initial state", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		withRules, err := f.Register("a", form.FieldOptions{DefaultValue: "x", Rules: "required"})
		require.NoError(t, err)
		without, err := f.Register("b", form.FieldOptions{DefaultValue: 1})
		require.NoError(t, err)

		assert.Equal(t, "x", withRules.Get().Value)
		assert.Equal(t, "x", withRules.Get().DefaultValue)
		assert.False(t, withRules.Get().Valid)
		assert.True(t, without.Get().Valid)
		assert.Equal(t, []string{"a", "b"}, f.Fields())
		assert.False(t, f.State().Valid)
	})

	t.Run("unknown rules are dropped", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		r, err := f.Register("a", form.FieldOptions{Rules: "emial"})
		require.NoError(t, err)
		assert.True(t, r.Get().Valid)
	})

	t.Run("re-register terminates old subscribers", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		old, err := f.Register("a", form.FieldOptions{DefaultValue: "old"})
		require.NoError(t, err)
		feed := old.Watch(t.Context())
		<-feed

		fresh, err := f.Register("a", form.FieldOptions{DefaultValue: "new"})
		require.NoError(t, err)

		_, open := <-feed
		assert.False(t, open)
		assert.Equal(t, "new", f.GetValue("a"))
		assert.Equal(t, "new", fresh.Get().Value)
	})

	t.Run("validate on mount", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		r, err := f.Register("a", form.FieldOptions{Rules: "required", ValidateOnMount: true})
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			st := r.Get()
			return !st.Pending && len(st.Errors) == 1
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{validator.MsgRequired}, r.Get().Errors)
	})
}

func TestForm_ZeroValidators(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	r, err := f.Register("note", form.FieldOptions{})
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []fieldstate.State
	unsubscribe := r.Subscribe(func(st fieldstate.State) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, f.SetError("note", []string{"server says no"}))
	assert.False(t, f.State().Valid)

	res, err := f.Validate(t.Context(), "note")
	require.NoError(t, err)
	assert.True(t, res.Valid)

	st := r.Get()
	assert.True(t, st.Valid)
	assert.Empty(t, st.Errors)

	mu.Lock()
	defer mu.Unlock()
	for _, s := range seen {
		assert.False(t, s.Pending)
	}
}

func TestForm_Debounce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var lastValue atomic.Value
	count := func(_ context.Context, v any, _ []string, _ rule.Control) (rule.Result, error) {
		calls.Add(1)
		lastValue.Store(v)
		return rule.Check(v != "bad", "bad value"), nil
	}

	f := form.New(form.WithDebounce(50 * time.Millisecond))
	t.Cleanup(f.Close)
	_, err := f.Register("a", form.FieldOptions{Rules: []any{rule.Named("count", count)}})
	require.NoError(t, err)

	values := []string{"v1", "v2", "v3", "v4", "bad"}
	futures := make([]interface {
		Await() (fieldstate.State, error)
	}, 0, len(values))
	for _, v := range values {
		futures = append(futures, f.SetValue(t.Context(), "a", v))
	}

	// the value is stored before validation runs
	assert.Equal(t, "bad", f.GetValue("a"))

	var states []fieldstate.State
	for _, fut := range futures {
		st, err := fut.Await()
		require.NoError(t, err)
		states = append(states, st)
	}

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "bad", lastValue.Load())
	for _, st := range states {
		assert.Equal(t, states[0], st)
	}
	assert.Equal(t, []string{"bad value"}, states[0].Errors)
}

func TestForm_ErrorOrder(t *testing.T) {
	t.Parallel()

	slowA := func(context.Context, any, []string, rule.Control) (rule.Result, error) {
		time.Sleep(20 * time.Millisecond)
		return rule.Fail("A"), nil
	}
	var bRan atomic.Bool
	fastB := func(context.Context, any, []string, rule.Control) (rule.Result, error) {
		bRan.Store(true)
		return rule.Fail("B"), nil
	}
	rules := []any{
		rule.Named("a", slowA),
		rule.Named("pass", func(context.Context, any, []string, rule.Control) (rule.Result, error) {
			return rule.Pass(), nil
		}),
		rule.Named("b", fastB),
	}

	t.Run("parallel keeps declaration order", func(t *testing.T) {
		f := newForm(t)
		_, err := f.Register("x", form.FieldOptions{Rules: rules})
		require.NoError(t, err)

		res, err := f.Validate(t.Context())
		require.NoError(t, err)
		assert.False(t, res.Valid)
		r, _ := f.Field("x")
		assert.Equal(t, []string{"A", "B"}, r.Get().Errors)
	})

	t.Run("bail stops at first failure", func(t *testing.T) {
		bRan.Store(false)
		f := newForm(t)
		_, err := f.Register("x", form.FieldOptions{Rules: rules, Bail: true})
		require.NoError(t, err)

		st, err := f.SetValue(t.Context(), "x", "v").Await()
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, st.Errors)
		assert.False(t, bRan.Load())
	})
}

func TestForm_ValidatorFaults(t *testing.T) {
	t.Parallel()

	broken := func(context.Context, any, []string, rule.Control) (rule.Result, error) {
		return rule.Result{}, errors.New("backend down")
	}
	panicky := func(context.Context, any, []string, rule.Control) (rule.Result, error) {
		panic("boom")
	}

	f := newForm(t)
	_, err := f.Register("a", form.FieldOptions{Rules: []any{rule.Named("broken", broken)}})
	require.NoError(t, err)
	_, err = f.Register("b", form.FieldOptions{Rules: []any{rule.Named("panicky", panicky), "required"}})
	require.NoError(t, err)

	res, err := f.Validate(t.Context())
	require.NoError(t, err)
	assert.False(t, res.Valid)

	errs := f.Errors()
	assert.Equal(t, []string{form.FaultMessage}, errs["a"])
	assert.Equal(t, []string{form.FaultMessage, validator.MsgRequired}, errs["b"])
	assert.False(t, f.State().Pending)
}

func TestForm_StaleResultDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	gate := func(_ context.Context, v any, _ []string, _ rule.Control) (rule.Result, error) {
		if v == "slow" {
			started <- struct{}{}
			<-release
			return rule.Fail("slow failed"), nil
		}
		return rule.Pass(), nil
	}

	f := newForm(t)
	r, err := f.Register("a", form.FieldOptions{Rules: []any{rule.Named("gate", gate)}})
	require.NoError(t, err)

	slow := f.SetValue(t.Context(), "a", "slow")
	<-started

	fast, err := f.SetValue(t.Context(), "a", "fast").Await()
	require.NoError(t, err)
	assert.True(t, fast.Valid)

	close(release)
	_, err = slow.Await()
	require.NoError(t, err)

	st := r.Get()
	assert.Equal(t, "fast", st.Value)
	assert.True(t, st.Valid)
	assert.Empty(t, st.Errors)
	assert.False(t, st.Pending)
}

func TestForm_SupersededBatchResolvesSettled(t *testing.T) {
	t.Parallel()

	gates := map[any]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	started := make(chan any, 2)
	gate := func(_ context.Context, v any, _ []string, _ rule.Control) (rule.Result, error) {
		started <- v
		<-gates[v]
		if v == "first" {
			return rule.Fail("first failed"), nil
		}
		return rule.Pass(), nil
	}

	f := newForm(t)
	_, err := f.Register("a", form.FieldOptions{Rules: []any{rule.Named("gate", gate)}})
	require.NoError(t, err)

	first := f.SetValue(t.Context(), "a", "first")
	require.Equal(t, "first", <-started)
	second := f.SetValue(t.Context(), "a", "second")
	require.Equal(t, "second", <-started)

	close(gates["first"])
	select {
	case <-first.Done():
		t.Fatal("superseded batch resolved before the newer run settled")
	case <-time.After(2 * window):
	}

	close(gates["second"])
	for _, fut := range []*async.Future[fieldstate.State]{first, second} {
		st, err := fut.Await()
		require.NoError(t, err)
		assert.False(t, st.Pending)
		assert.True(t, st.Valid)
		assert.Equal(t, "second", st.Value)
		assert.Empty(t, st.Errors)
	}
}

func TestForm_RegisterRacesUnregister(t *testing.T) {
	t.Parallel()

	f := newForm(t)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.Register("a", form.FieldOptions{Rules: "required"})
		}()
		go func() {
			defer wg.Done()
			_ = f.Unregister("a")
		}()
	}
	wg.Wait()

	_ = f.Unregister("a")
	assert.Empty(t, f.Fields())
	assert.Empty(t, f.Errors())
	assert.True(t, f.State().Valid)
}

func TestForm_SetValueWithoutValidation(t *testing.T) {
	t.Parallel()
	f := newForm(t, form.WithValidateOnChange(false))
	r, err := f.Register("a", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)

	fut := f.SetValue(t.Context(), "a", "")
	assert.True(t, fut.IsComplete())
	st, err := fut.Await()
	require.NoError(t, err)
	assert.True(t, st.Dirty)
	assert.Empty(t, st.Errors)
	assert.Equal(t, st, r.Get())

	_, err = f.SetValue(t.Context(), "missing", 1).Await()
	assert.ErrorIs(t, err, form.ErrFieldNotFound)
}

func TestForm_Touched(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	_, err := f.Register("a", form.FieldOptions{})
	require.NoError(t, err)
	_, err = f.Register("b", form.FieldOptions{})
	require.NoError(t, err)

	require.NoError(t, f.SetTouched("a", true))
	assert.False(t, f.State().Touched)
	require.NoError(t, f.SetTouched("b", true))
	assert.True(t, f.State().Touched)

	assert.ErrorIs(t, f.SetTouched("c", true), form.ErrFieldNotFound)
	assert.ErrorIs(t, f.SetError("c", nil), form.ErrFieldNotFound)
}

func TestForm_GetValues(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	for name, def := range map[string]any{
		"title":         "hello",
		"users[0].name": "ann",
		"users[1].name": "bob",
		"meta.tags[1]":  "go",
		"[literal.key]": true,
	} {
		_, err := f.Register(name, form.FieldOptions{DefaultValue: def})
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]any{
		"title": "hello",
		"users": []any{
			map[string]any{"name": "ann"},
			map[string]any{"name": "bob"},
		},
		"meta":        map[string]any{"tags": []any{nil, "go"}},
		"literal.key": true,
	}, f.GetValues())
	assert.Equal(t, "ann", f.GetValue("users[0].name"))
	assert.Nil(t, f.GetValue("nope"))
}

func TestForm_Unregister(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	_, err := f.Register("email", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)
	_, err = f.Register("name", form.FieldOptions{DefaultValue: "x"})
	require.NoError(t, err)

	_, err = f.SetValue(t.Context(), "email", "").Await()
	require.NoError(t, err)
	require.Contains(t, f.Errors(), "email")
	assert.False(t, f.State().Valid)

	require.NoError(t, f.Unregister("email"))
	assert.NotContains(t, f.Errors(), "email")
	assert.NotContains(t, f.GetValues(), "email")
	assert.True(t, f.State().Valid)

	assert.ErrorIs(t, f.Unregister("email"), form.ErrFieldNotFound)
}

func TestForm_UnregisterDuringValidation(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	gate := func(context.Context, any, []string, rule.Control) (rule.Result, error) {
		started <- struct{}{}
		<-release
		return rule.Fail("late"), nil
	}

	f := newForm(t)
	_, err := f.Register("a", form.FieldOptions{Rules: []any{rule.Named("gate", gate)}})
	require.NoError(t, err)

	fut := f.SetValue(t.Context(), "a", "v")
	<-started
	assert.True(t, f.State().Pending)

	require.NoError(t, f.Unregister("a"))
	close(release)
	_, _ = fut.Await()

	assert.Empty(t, f.Errors())
	assert.False(t, f.State().Pending)
	assert.True(t, f.State().Valid)
}

func TestForm_UnregisterCancelsScheduled(t *testing.T) {
	t.Parallel()
	f := form.New(form.WithDebounce(time.Hour))
	t.Cleanup(f.Close)
	_, err := f.Register("a", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)

	fut := f.SetValue(t.Context(), "a", "v")
	require.NoError(t, f.Unregister("a"))

	_, err = fut.AwaitWithTimeout(time.Second)
	assert.ErrorIs(t, err, form.ErrFieldNotFound)
}

func TestForm_Reset(t *testing.T) {
	t.Parallel()

	t.Run("restores defaults", func(t *testing.T) {
		t.Parallel()
		f := newForm(t, form.WithValidateOnChange(false))
		r, err := f.Register("a", form.FieldOptions{DefaultValue: "x"})
		require.NoError(t, err)
		f.SetValue(t.Context(), "a", "y")
		require.NoError(t, f.SetTouched("a", true))

		f.Reset(nil, form.ResetOptions{})
		st := r.Get()
		assert.Equal(t, "x", st.Value)
		assert.False(t, st.Dirty)
		assert.False(t, st.Touched)
		assert.False(t, f.State().Dirty)
	})

	t.Run("keeps dirty fields", func(t *testing.T) {
		t.Parallel()
		f := newForm(t, form.WithValidateOnChange(false))
		dirty, err := f.Register("a", form.FieldOptions{DefaultValue: "x"})
		require.NoError(t, err)
		clean, err := f.Register("b", form.FieldOptions{DefaultValue: "z"})
		require.NoError(t, err)
		f.SetValue(t.Context(), "a", "y")

		f.Reset(map[string]any{"b": "w"}, form.ResetOptions{DirtyFields: true})
		assert.Equal(t, "y", dirty.Get().Value)
		assert.True(t, dirty.Get().Dirty)
		assert.Equal(t, "w", clean.Get().Value)
		assert.Equal(t, "w", clean.Get().DefaultValue)
	})

	t.Run("dirty field validating is not valid", func(t *testing.T) {
		t.Parallel()
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		gate := func(_ context.Context, v any, _ []string, _ rule.Control) (rule.Result, error) {
			if v == "slow" {
				started <- struct{}{}
				<-release
			}
			return rule.Pass(), nil
		}
		f := newForm(t)
		r, err := f.Register("a", form.FieldOptions{Rules: []any{rule.Named("gate", gate)}})
		require.NoError(t, err)
		_, err = f.SetValue(t.Context(), "a", "ok").Await()
		require.NoError(t, err)
		require.True(t, r.Get().Valid)

		slow := f.SetValue(t.Context(), "a", "slow")
		<-started
		f.Reset(nil, form.ResetOptions{DirtyFields: true})

		st := r.Get()
		assert.Equal(t, "slow", st.Value)
		assert.True(t, st.Dirty)
		assert.False(t, st.Pending)
		assert.False(t, st.Valid)

		close(release)
		st, err = slow.Await()
		require.NoError(t, err)
		assert.False(t, st.Pending)
		assert.False(t, st.Valid)
		assert.False(t, r.Get().Valid)
		assert.False(t, f.State().Valid)
	})

	t.Run("values become defaults", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		r, err := f.Register("a", form.FieldOptions{DefaultValue: "x"})
		require.NoError(t, err)

		f.Reset(map[string]any{"a": "new"}, form.ResetOptions{})
		f.SetValue(t.Context(), "a", "typed")
		f.Reset(nil, form.ResetOptions{})
		assert.Equal(t, "new", r.Get().Value)
	})

	t.Run("errors survive unless cleared", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		_, err := f.Register("a", form.FieldOptions{Rules: "required"})
		require.NoError(t, err)
		_, err = f.SetValue(t.Context(), "a", "").Await()
		require.NoError(t, err)

		f.Reset(nil, form.ResetOptions{})
		assert.Contains(t, f.Errors(), "a")

		f.Reset(nil, form.ResetOptions{Errors: true})
		assert.Empty(t, f.Errors())
	})

	t.Run("discards scheduled validation", func(t *testing.T) {
		t.Parallel()
		f := newForm(t)
		r, err := f.Register("a", form.FieldOptions{DefaultValue: "x", Rules: "required"})
		require.NoError(t, err)

		fut := f.SetValue(t.Context(), "a", "")
		f.Reset(nil, form.ResetOptions{})
		st, err := fut.Await()
		require.NoError(t, err)
		assert.Equal(t, "x", st.Value)

		time.Sleep(3 * window)
		assert.Empty(t, r.Get().Errors)
		assert.False(t, r.Get().Pending)
	})
}

func TestForm_AggregateInvariant(t *testing.T) {
	t.Parallel()
	f := newForm(t)

	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		_, err := f.Register(name, form.FieldOptions{Rules: "required|min_length:2"})
		require.NoError(t, err)
	}

	check := func() {
		t.Helper()
		anyInvalid, anyPending := false, false
		for _, name := range f.Fields() {
			r, ok := f.Field(name)
			require.True(t, ok)
			st := r.Get()
			anyInvalid = anyInvalid || !st.Valid
			anyPending = anyPending || st.Pending
		}
		state := f.State()
		assert.Equal(t, !anyInvalid, state.Valid)
		assert.Equal(t, anyPending, state.Pending)
	}

	var wg sync.WaitGroup
	values := []any{"", "x", "ok", "longer"}
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 5 {
				_, _ = f.SetValue(context.Background(), name, values[(i+j)%len(values)]).Await()
			}
		}()
	}
	wg.Wait()
	check()

	require.NoError(t, f.Unregister("b"))
	check()

	res, err := f.Validate(t.Context())
	require.NoError(t, err)
	check()
	assert.Equal(t, res.Valid, f.State().Valid)

	for _, name := range f.Fields() {
		_, err := f.SetValue(t.Context(), name, "valid").Await()
		require.NoError(t, err)
	}
	check()
	assert.True(t, f.State().Valid)
	assert.True(t, f.State().Dirty)
}

func TestForm_Validate(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	_, err := f.Register("user.email", form.FieldOptions{DefaultValue: "a@b.com", Rules: "required|email"})
	require.NoError(t, err)
	_, err = f.Register("user.age", form.FieldOptions{DefaultValue: 30, Rules: map[string]any{"between": []any{17, 100}}})
	require.NoError(t, err)
	_, err = f.Register("other", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)

	res, err := f.Validate(t.Context(), "user.email", "user.age")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, map[string]any{
		"user": map[string]any{"email": "a@b.com", "age": 30},
	}, res.Data)

	res, err = f.Validate(t.Context())
	require.NoError(t, err)
	assert.False(t, res.Valid)

	_, err = f.Validate(t.Context(), "ghost")
	assert.ErrorIs(t, err, form.ErrFieldNotFound)
}

func TestForm_CrossFieldRule(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	_, err := f.Register("password", form.FieldOptions{DefaultValue: "secret"})
	require.NoError(t, err)
	_, err = f.Register("confirm", form.FieldOptions{Rules: "same:password"})
	require.NoError(t, err)

	st, err := f.SetValue(t.Context(), "confirm", "other").Await()
	require.NoError(t, err)
	assert.Equal(t, []string{"The field must have the same value as password"}, st.Errors)

	st, err = f.SetValue(t.Context(), "confirm", "secret").Await()
	require.NoError(t, err)
	assert.True(t, st.Valid)
}

func TestForm_CustomRegistry(t *testing.T) {
	t.Parallel()
	reg := rule.NewRegistry()
	require.NoError(t, reg.Define("even", func(_ context.Context, v any, _ []string, _ rule.Control) (rule.Result, error) {
		n, _ := v.(int)
		return rule.Check(n%2 == 0, "must be even"), nil
	}))

	f := newForm(t, form.WithRegistry(reg))
	assert.Same(t, reg, f.Registry())

	_, err := f.Register("n", form.FieldOptions{Rules: "even|required"})
	require.NoError(t, err)
	st, err := f.SetValue(t.Context(), "n", 3).Await()
	require.NoError(t, err)
	// required is not in the custom registry and was dropped
	assert.Equal(t, []string{"must be even"}, st.Errors)
}

func TestForm_Observers(t *testing.T) {
	t.Parallel()
	f := newForm(t)

	var mu sync.Mutex
	var states []form.State
	var errMaps []map[string][]string
	unsubState := f.Subscribe(func(s form.State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	defer unsubState()
	unsubErrs := f.SubscribeErrors(func(m map[string][]string) {
		mu.Lock()
		errMaps = append(errMaps, m)
		mu.Unlock()
	})
	defer unsubErrs()

	mu.Lock()
	require.Len(t, states, 1)
	assert.True(t, states[0].Valid)
	require.Len(t, errMaps, 1)
	assert.Empty(t, errMaps[0])
	mu.Unlock()

	_, err := f.Register("a", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)
	_, err = f.SetValue(t.Context(), "a", "").Await()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, states[len(states)-1].Valid)
	assert.Equal(t, map[string][]string{"a": {validator.MsgRequired}}, errMaps[len(errMaps)-1])

	sawPending := false
	for _, s := range states {
		sawPending = sawPending || s.Pending
	}
	assert.True(t, sawPending)
}

func TestForm_Watch(t *testing.T) {
	t.Parallel()
	f := newForm(t)
	ctx, cancel := context.WithCancel(t.Context())
	feed := f.Watch(ctx)

	first := <-feed
	assert.True(t, first.Valid)

	_, err := f.Register("a", form.FieldOptions{Rules: "required"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case s := <-feed:
			return !s.Valid
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-feed:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, time.Millisecond)
}

func TestForm_Close(t *testing.T) {
	t.Parallel()
	f := form.New()
	r, err := f.Register("a", form.FieldOptions{})
	require.NoError(t, err)
	feed := r.Watch(t.Context())
	<-feed

	f.Close()
	f.Close()

	_, open := <-feed
	assert.False(t, open)
	assert.Empty(t, f.Fields())

	_, err = f.Register("b", form.FieldOptions{})
	assert.ErrorIs(t, err, form.ErrClosed)
}

func TestForm_ID(t *testing.T) {
	t.Parallel()
	a, b := form.New(), form.New()
	defer a.Close()
	defer b.Close()
	assert.Len(t, a.ID(), 36)
	assert.NotEqual(t, a.ID(), b.ID())
}

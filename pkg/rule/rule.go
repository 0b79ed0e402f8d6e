package rule

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// Control is the view of the owning form that rules may use for cross-field checks.
type Control interface {
	GetValue(name string) any
	GetValues() map[string]any
	SetError(name string, errs []string)
	SetTouched(name string, touched bool)
}

// Result is the outcome of a single rule evaluation. The zero value passes.
type Result struct {
	message string
	failed  bool
}

// Pass returns a passing Result.
func Pass() Result { return Result{} }

// Fail returns a failing Result carrying msg.
func Fail(msg string) Result { return Result{message: msg, failed: true} }

// Check returns Pass when ok is true and Fail(msg) otherwise.
func Check(ok bool, msg string) Result {
	if ok {
		return Pass()
	}
	return Fail(msg)
}

// Valid reports whether the rule passed.
func (r Result) Valid() bool { return !r.failed }

// Message returns the failure message, empty when the rule passed.
func (r Result) Message() string { return r.message }

func (r Result) String() string {
	if !r.failed {
		return "pass"
	}
	return r.message
}

// Func evaluates a value. A returned error means the rule could not be evaluated
// and is distinct from a failing Result.
type Func func(ctx context.Context, value any, params []string, c Control) (Result, error)

// Rule is a normalized validator bound to its parameters.
type Rule struct {
	Name     string
	Validate Func
	Params   []string
}

// Run evaluates the rule against value.
func (r Rule) Run(ctx context.Context, value any, c Control) (Result, error) {
	if r.Validate == nil {
		return Result{}, fmt.Errorf("%w: %q", ErrNilRule, r.Name)
	}
	return r.Validate(ctx, value, r.Params, c)
}

// NamedFunc is a function rule with an explicit identity.
type NamedFunc struct {
	Name string
	Func Func
}

// Named attaches name to fn so it can be used in rule lists.
func Named(name string, fn Func) NamedFunc {
	return NamedFunc{Name: name, Func: fn}
}

var anonymousFunc = regexp.MustCompile(`^(func)?\d+$`)

// FuncName returns the declared name of fn, or "" for anonymous closures.
func FuncName(fn Func) string {
	if fn == nil {
		return ""
	}
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if anonymousFunc.MatchString(name) {
		return ""
	}
	return name
}

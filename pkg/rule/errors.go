package rule

import "errors"

var (
	// ErrEmptyRuleName is returned when a rule is defined or referenced without a name.
	ErrEmptyRuleName = errors.New("rule: empty rule name")

	// ErrNilRule is returned when a nil Func is defined.
	ErrNilRule = errors.New("rule: rule function is nil")

	// ErrUnknownRule is returned when a rule name cannot be resolved in the registry.
	ErrUnknownRule = errors.New("rule: unknown rule")

	// ErrUnsupportedExpression is returned when a rule expression has a shape Normalize does not understand.
	ErrUnsupportedExpression = errors.New("rule: unsupported rule expression")

	// ErrNilRegistry is returned when a nil registry is passed where one is required.
	ErrNilRegistry = errors.New("rule: nil registry")
)

package validator

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/formkit/pkg/rule"
)

// Messages produced by the built-in rules.
const (
	MsgRequired     = "This field is required."
	MsgEmail        = "This field must be a valid email."
	MsgURL          = "This field is not url."
	MsgAlphaNum     = "The field is not alphanumeric."
	MsgInteger      = "The field is not an integer"
	MsgUnique       = "This field is not unique."
	MsgMinLengthBad = "invalid data type for minLength"
)

var (
	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	integerRegex      = regexp.MustCompile(`^\d+$`)
)

// Defaults returns the built-in rules keyed by the names used in rule expressions.
func Defaults() map[string]rule.Func {
	return map[string]rule.Func{
		"required":   Required,
		"email":      Email,
		"url":        URL,
		"alpha_num":  AlphaNum,
		"integer":    Integer,
		"min":        Min,
		"max":        Max,
		"min_length": MinLength,
		"between":    Between,
		"same":       Same,
		"contains":   Contains,
		"unique":     Unique,
	}
}

// RegisterDefaults installs every built-in rule into reg.
func RegisterDefaults(reg *rule.Registry) error {
	if reg == nil {
		return rule.ErrNilRegistry
	}
	defaults := Defaults()
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		if err := reg.Define(name, defaults[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Required fails for nil, empty strings, numeric zero and empty collections.
func Required(_ context.Context, value any, _ []string, _ rule.Control) (rule.Result, error) {
	return rule.Check(!isEmpty(value), MsgRequired), nil
}

// Email checks that value is a bare address with a dotted domain.
func Email(_ context.Context, value any, _ []string, _ rule.Control) (rule.Result, error) {
	return rule.Check(isEmail(stringOf(value)), MsgEmail), nil
}

// URL accepts http(s) URLs and scheme-less "www." hosts.
func URL(_ context.Context, value any, _ []string, _ rule.Control) (rule.Result, error) {
	return rule.Check(isURL(stringOf(value)), MsgURL), nil
}

func AlphaNum(_ context.Context, value any, _ []string, _ rule.Control) (rule.Result, error) {
	return rule.Check(alphanumericRegex.MatchString(stringOf(value)), MsgAlphaNum), nil
}

// Integer accepts unsigned decimal digits only.
func Integer(_ context.Context, value any, _ []string, _ rule.Control) (rule.Result, error) {
	return rule.Check(integerRegex.MatchString(stringOf(value)), MsgInteger), nil
}

// Min compares numbers (including numeric strings) by value and everything
// else by length: measure >= params[0].
func Min(_ context.Context, value any, params []string, _ rule.Control) (rule.Result, error) {
	limit, err := floatParam(params, 0)
	if err != nil {
		return rule.Result{}, err
	}
	msg := fmt.Sprintf("This field must be at least %s characters.", formatFloat(limit))
	m, ok := measure(value)
	return rule.Check(ok && m >= limit, msg), nil
}

// Max is the exclusive upper bound counterpart of Min: measure < params[0].
func Max(_ context.Context, value any, params []string, _ rule.Control) (rule.Result, error) {
	limit, err := floatParam(params, 0)
	if err != nil {
		return rule.Result{}, err
	}
	msg := fmt.Sprintf("This field must be less than %s characters.", formatFloat(limit))
	m, ok := measure(value)
	return rule.Check(ok && m < limit, msg), nil
}

// MinLength checks string length in runes or the number of collection items.
func MinLength(_ context.Context, value any, params []string, _ rule.Control) (rule.Result, error) {
	limit, err := floatParam(params, 0)
	if err != nil {
		return rule.Result{}, err
	}
	n := formatFloat(limit)

	if s, ok := value.(string); ok {
		return rule.Check(float64(utf8.RuneCountInString(s)) >= limit,
			fmt.Sprintf("This field must be at least %s characters.", n)), nil
	}
	if l, ok := collectionLen(value); ok {
		return rule.Check(float64(l) >= limit, fmt.Sprintf("Array must contains %s items.", n)), nil
	}
	return rule.Fail(MsgMinLengthBad), nil
}

// Between is exclusive on both ends: params[0] < value < params[1].
func Between(_ context.Context, value any, params []string, _ rule.Control) (rule.Result, error) {
	lo, err := floatParam(params, 0)
	if err != nil {
		return rule.Result{}, err
	}
	hi, err := floatParam(params, 1)
	if err != nil {
		return rule.Result{}, err
	}
	msg := fmt.Sprintf("The field is not between %s and %s.", params[0], params[1])
	v, ok := toFloat(value)
	return rule.Check(ok && v > lo && v < hi, msg), nil
}

// Same requires value to equal the value of the field named by params[0].
func Same(_ context.Context, value any, params []string, c rule.Control) (rule.Result, error) {
	if len(params) == 0 || params[0] == "" {
		return rule.Result{}, fmt.Errorf("%w: same needs a field name", ErrMissingParam)
	}
	if c == nil {
		return rule.Result{}, fmt.Errorf("%w: same needs a form control", ErrMissingParam)
	}
	other := c.GetValue(params[0])
	return rule.Check(reflect.DeepEqual(value, other),
		fmt.Sprintf("The field must have the same value as %s", params[0])), nil
}

// Contains requires the string form of value to be one of params.
func Contains(_ context.Context, value any, params []string, _ rule.Control) (rule.Result, error) {
	if len(params) == 0 {
		return rule.Result{}, fmt.Errorf("%w: contains needs at least one option", ErrMissingParam)
	}
	return rule.Check(slices.Contains(params, stringOf(value)),
		fmt.Sprintf("This field doesn't have valid value (such as %s)", strings.Join(params, ", "))), nil
}

// Unique requires every element of a slice or array to be distinct.
// Values that are not collections pass.
func Unique(_ context.Context, value any, _ []string, _ rule.Control) (rule.Result, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return rule.Pass(), nil
	}
	seen := make(map[string]struct{}, rv.Len())
	for i := range rv.Len() {
		key := fmt.Sprintf("%#v", rv.Index(i).Interface())
		if _, dup := seen[key]; dup {
			return rule.Fail(MsgUnique), nil
		}
		seen[key] = struct{}{}
	}
	return rule.Pass(), nil
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

func isEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func isURL(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t\n") {
		return false
	}
	if strings.HasPrefix(value, "www.") {
		value = "http://" + value
	}

	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	dot := strings.LastIndex(host, ".")
	return dot > 0 && len(host)-dot-1 >= 2
}

func stringOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// toFloat converts numbers and numeric strings.
func toFloat(value any) (float64, bool) {
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func collectionLen(value any) (int, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// measure returns the numeric value of numbers and numeric strings, and the
// length of other strings and collections.
func measure(value any) (float64, bool) {
	if f, ok := toFloat(value); ok {
		return f, true
	}
	if s, ok := value.(string); ok {
		return float64(utf8.RuneCountInString(s)), true
	}
	if l, ok := collectionLen(value); ok {
		return float64(l), true
	}
	return 0, false
}

func floatParam(params []string, i int) (float64, error) {
	if i >= len(params) {
		return 0, fmt.Errorf("%w: expected at least %d", ErrMissingParam, i+1)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(params[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidParam, params[i])
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

package rule

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Spec is a parsed rule reference: a rule name plus its positional parameters.
type Spec struct {
	Name   string
	Params []string
}

// Parse splits a pipe-delimited rule string ("required|between:1,10") into specs.
// Empty segments are ignored. Parameters are percent-decoded.
func Parse(expr string) []Spec {
	var specs []Spec
	for _, seg := range strings.Split(expr, "|") {
		if spec, ok := ParseSegment(seg); ok {
			specs = append(specs, spec)
		}
	}
	return specs
}

// ParseSegment parses a single "name:p1,p2" reference. The name is everything
// before the first colon. It reports false for blank input.
func ParseSegment(seg string) (Spec, bool) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return Spec{}, false
	}

	name, rawParams, hasParams := strings.Cut(seg, ":")
	spec := Spec{Name: strings.TrimSpace(name)}
	if hasParams && rawParams != "" {
		for _, p := range strings.Split(rawParams, ",") {
			spec.Params = append(spec.Params, decodeParam(p))
		}
	}
	return spec, true
}

func decodeParam(p string) string {
	decoded, err := url.PathUnescape(p)
	if err != nil {
		return p
	}
	return decoded
}

// Normalize converts a rule expression into an ordered list of rules.
//
// Supported shapes: nil, string, []string, []any (entries: string, Func,
// NamedFunc, Rule, nil), []Rule, map[string]any, map[string][]string and
// map[string]string. Entries that cannot be resolved are skipped and reported
// in the returned error; the returned rules are always usable.
func (r *Registry) Normalize(expr any) ([]Rule, error) {
	switch v := expr.(type) {
	case nil:
		return nil, nil
	case string:
		return r.fromSpecs(Parse(v))
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return r.fromList(items)
	case []any:
		return r.fromList(v)
	case []Rule:
		return slices.Clone(v), nil
	case map[string]any:
		return r.fromMap(v)
	case map[string][]string:
		m := make(map[string]any, len(v))
		for k, p := range v {
			m[k] = p
		}
		return r.fromMap(m)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, p := range v {
			m[k] = p
		}
		return r.fromMap(m)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedExpression, expr)
	}
}

func (r *Registry) fromSpecs(specs []Spec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	var errs []error
	for _, spec := range specs {
		rl, err := r.bind(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, rl)
	}
	return rules, errors.Join(errs...)
}

func (r *Registry) fromList(items []any) ([]Rule, error) {
	rules := make([]Rule, 0, len(items))
	var errs []error
	for i, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			spec, ok := ParseSegment(v)
			if !ok {
				continue
			}
			rl, err := r.bind(spec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			rules = append(rules, rl)
		case Func:
			if v == nil {
				continue
			}
			name := FuncName(v)
			if name == "" {
				errs = append(errs, fmt.Errorf("%w: function rule at position %d", ErrEmptyRuleName, i))
			}
			rules = append(rules, Rule{Name: name, Validate: v})
		case func(context.Context, any, []string, Control) (Result, error):
			if v == nil {
				continue
			}
			fn := Func(v)
			name := FuncName(fn)
			if name == "" {
				errs = append(errs, fmt.Errorf("%w: function rule at position %d", ErrEmptyRuleName, i))
			}
			rules = append(rules, Rule{Name: name, Validate: fn})
		case NamedFunc:
			if v.Func == nil {
				continue
			}
			if v.Name == "" {
				errs = append(errs, fmt.Errorf("%w: function rule at position %d", ErrEmptyRuleName, i))
			}
			rules = append(rules, Rule{Name: v.Name, Validate: v.Func})
		case Rule:
			rules = append(rules, v)
		case bool:
			// false marks a disabled conditional entry
			if v {
				errs = append(errs, fmt.Errorf("%w: bool at position %d", ErrUnsupportedExpression, i))
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %T at position %d", ErrUnsupportedExpression, item, i))
		}
	}
	return rules, errors.Join(errs...)
}

func (r *Registry) fromMap(m map[string]any) ([]Rule, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	rules := make([]Rule, 0, len(names))
	var errs []error
	for _, name := range names {
		params, enabled := mapParams(m[name])
		if !enabled {
			continue
		}
		rl, err := r.bind(Spec{Name: name, Params: params})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, rl)
	}
	return rules, errors.Join(errs...)
}

// mapParams converts a map value into rule params. true and nil mean
// "no params", false disables the rule.
func mapParams(v any) ([]string, bool) {
	switch p := v.(type) {
	case nil:
		return nil, true
	case bool:
		return nil, p
	case string:
		return []string{p}, true
	case []string:
		return slices.Clone(p), true
	case []any:
		out := make([]string, 0, len(p))
		for _, item := range p {
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	default:
		return []string{fmt.Sprint(p)}, true
	}
}

func (r *Registry) bind(spec Spec) (Rule, error) {
	if spec.Name == "" {
		return Rule{}, ErrEmptyRuleName
	}
	fn, ok := r.lookup(spec.Name)
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownRule, spec.Name)
	}
	return Rule{Name: spec.Name, Validate: fn, Params: spec.Params}, nil
}

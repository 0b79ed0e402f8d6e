package form

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Definition is a declarative description of a form, usually read from YAML:
//
//	validate_on_change: true
//	debounce: 150ms
//	fields:
//	  - name: email
//	    rules: required|email
//	  - name: users[0].age
//	    default: 18
//	    rules: {between: [17, 100]}
//	    bail: true
type Definition struct {
	ValidateOnChange *bool             `yaml:"validate_on_change"`
	Debounce         string            `yaml:"debounce"`
	Fields           []FieldDefinition `yaml:"fields"`
}

// FieldDefinition describes one field of a Definition. Rules holds any rule
// expression shape: a pipe-delimited string, a list or a name → params map.
type FieldDefinition struct {
	Name            string `yaml:"name"`
	Default         any    `yaml:"default"`
	Rules           any    `yaml:"rules"`
	Bail            bool   `yaml:"bail"`
	ValidateOnMount bool   `yaml:"validate_on_mount"`
}

// ParseDefinition decodes a YAML (or JSON) definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if err := def.check(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinition reads a definition from r.
func LoadDefinition(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("form: read definition: %w", err)
	}
	return ParseDefinition(data)
}

// LoadDefinitionFS reads the definition stored at path in fsys.
func LoadDefinitionFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("form: read definition %s: %w", path, err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func (d *Definition) check() error {
	if _, err := d.debounce(); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for i, fd := range d.Fields {
		name := strings.TrimSpace(fd.Name)
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidDefinition, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func (d *Definition) debounce() (time.Duration, error) {
	if d.Debounce == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(d.Debounce)
	if err != nil || dur < 0 {
		return 0, fmt.Errorf("%w: debounce %q", ErrInvalidDefinition, d.Debounce)
	}
	return dur, nil
}

// Options returns the form options the definition sets.
func (d *Definition) Options() []Option {
	var opts []Option
	if d.ValidateOnChange != nil {
		opts = append(opts, WithValidateOnChange(*d.ValidateOnChange))
	}
	if d.Debounce != "" {
		if dur, err := d.debounce(); err == nil {
			opts = append(opts, WithDebounce(dur))
		}
	}
	return opts
}

// NewFromDefinition creates a form configured by def with all its fields
// registered. opts are applied after the definition's own options.
func NewFromDefinition(def *Definition, opts ...Option) (*Form, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}
	f := New(append(def.Options(), opts...)...)
	if err := f.Apply(def); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Apply registers every field of def in order.
func (f *Form) Apply(def *Definition) error {
	if def == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}
	var errs []error
	for _, fd := range def.Fields {
		_, err := f.Register(strings.TrimSpace(fd.Name), FieldOptions{
			DefaultValue:    fd.Default,
			Rules:           fd.Rules,
			Bail:            fd.Bail,
			ValidateOnMount: fd.ValidateOnMount,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", fd.Name, err))
		}
	}
	return errors.Join(errs...)
}

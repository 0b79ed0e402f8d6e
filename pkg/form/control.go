package form

import "github.com/dmitrymomot/formkit/pkg/logger"

// control is the rule.Control handed to validators.
type control struct {
	form *Form
}

func (c control) GetValue(name string) any { return c.form.GetValue(name) }

func (c control) GetValues() map[string]any { return c.form.GetValues() }

func (c control) SetError(name string, errs []string) {
	if err := c.form.SetError(name, errs); err != nil {
		c.form.logger.Warn("rule: set error failed", logger.Field(name), logger.Error(err))
	}
}

func (c control) SetTouched(name string, touched bool) {
	if err := c.form.SetTouched(name, touched); err != nil {
		c.form.logger.Warn("rule: set touched failed", logger.Field(name), logger.Error(err))
	}
}

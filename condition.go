package unbox

import "github.com/boan2010/unbox/option"

type (
	condition struct {
		component string
		operator  operator
		value     string
	}

	operator = func(string, string) bool

	// ConditionBuilder builds a registration condition against a named
	// string component.
	ConditionBuilder struct {
		component string
	}
)

var (
	equals operator = func(a, b string) bool {
		return a == b
	}

	notEquals operator = func(a, b string) bool {
		return a != b
	}
)

// When starts a condition on the named string component. A registration
// carrying conditions is silently skipped when any condition is unmet, or
// when the component cannot be resolved to a string.
func When(component string) ConditionBuilder {
	return ConditionBuilder{component: component}
}

func (b ConditionBuilder) Equals(value string) option.Option[RegisterOptions] {
	return func(opts *RegisterOptions) {
		opts.conditions = append(
			opts.conditions,
			condition{component: b.component, operator: equals, value: value},
		)
	}
}

func (b ConditionBuilder) NotEquals(value string) option.Option[RegisterOptions] {
	return func(opts *RegisterOptions) {
		opts.conditions = append(
			opts.conditions,
			condition{component: b.component, operator: notEquals, value: value},
		)
	}
}

// validateCondition resolves the condition's component and applies the
// operator. Called with the container mutex held.
func (c *Container) validateCondition(cond condition) bool {
	comp, err := c.registry.resolve(cond.component, newTracker())
	if err != nil {
		return false
	}
	str, ok := comp.(string)
	if !ok {
		return false
	}
	return cond.operator(str, cond.value)
}

package unbox

import (
	"fmt"
)

// ConfigurationError reports a malformed registration or configuration call,
// such as an empty component name or a configure target that cannot be
// inferred.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// NotFoundError reports a resolution request for a name with no recipe,
// including an alias whose target is undefined at resolution time.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no recipe registered for component %q", e.Name)
}

// UnresolvedDependencyError reports a parameter that could not be satisfied
// by an explicit value, a type lookup, a name lookup, or a default.
type UnresolvedDependencyError struct {
	Parameter    string
	DeclaredType string
	Owner        string
}

func (e *UnresolvedDependencyError) Error() string {
	param := e.Parameter
	if param == "" {
		param = "<unnamed>"
	}
	if e.DeclaredType != "" {
		return fmt.Sprintf("unable to resolve parameter %s (%s) of %s", param, e.DeclaredType, e.Owner)
	}
	return fmt.Sprintf("unable to resolve parameter %s of %s", param, e.Owner)
}

// CyclicDependencyError reports a component that depends on itself, directly
// or transitively. Path holds the cycle, starting and ending at the
// re-entered name.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle detected:\n%s", formatCycle(e.Path))
}

func formatCycle(cycle []string) string {
	str := ""
	tabs := 0
	for i := len(cycle) - 1; i >= 0; i-- {
		prefix := ""
		if i != len(cycle)-1 {
			prefix = " -> "
		}
		str += fmt.Sprintf("%s%s%s\n", generateTabs(tabs), prefix, cycle[i])
		tabs++
	}
	return str
}

func generateTabs(n int) string {
	str := ""
	for i := 0; i < n; i++ {
		str += "\t"
	}
	return str
}

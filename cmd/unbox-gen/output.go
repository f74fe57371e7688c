package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/boan2010/unbox/set"
	"github.com/boan2010/unbox/slices"
)

// ParamDefinition describes one parameter of a component constructor, as
// extracted from the source AST.
type ParamDefinition struct {
	Name       string
	HasDefault bool
	Default    string
}

// ComponentDefinition describes one constructor function annotated with
// @component.
type ComponentDefinition struct {
	Named      string
	FnName     string
	ImportPath string
	Params     []ParamDefinition
}

func (c ComponentDefinition) String() string {
	paramNames := slices.Map(c.Params, func(p ParamDefinition) string {
		if p.HasDefault {
			return fmt.Sprintf("%s (default %s)", p.Name, p.Default)
		}
		return p.Name
	})
	return fmt.Sprintf(
		`✨ Component: %s
Import Path: %s
Named: %s
Params: [%s]`,
		c.FnName,
		c.ImportPath,
		c.Named,
		strings.Join(paramNames, ", "),
	)
}

// findSuitableAlias generates an import alias for the given import path that
// does not collide with any alias already in use. It starts with the last
// segment of the path, then prepends the first letter of each previous
// segment until the alias is unique, and finally falls back to a numbered
// suffix.
func findSuitableAlias(importPath string, usedAliases set.Set[string]) string {
	tokens := strings.Split(importPath, "/")

	alias := sanitizeAliasToken(tokens[len(tokens)-1])
	if !usedAliases.Contains(alias) {
		return alias
	}

	for i := len(tokens) - 2; i >= 0; i-- {
		token := sanitizeAliasToken(tokens[i])
		if token == "" {
			continue
		}
		alias = token[:1] + alias
		if !usedAliases.Contains(alias) {
			return alias
		}
	}

	// all segments exhausted, fall back to a numbered suffix
	for i := 0; ; i++ {
		candidate := alias + strconv.Itoa(i)
		if !usedAliases.Contains(candidate) {
			return candidate
		}
	}
}

func sanitizeAliasToken(token string) string {
	var builder strings.Builder
	for _, r := range token {
		if r == '-' || r == '.' {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// generateFQN generates the qualified name for the given type, using the
// alias registered for its import path. Types from the target package itself
// have no import path and are emitted unqualified.
func generateFQN(importPath string, typeName string, importsWithAliases map[string]string) string {
	pointer := ""
	if strings.HasPrefix(typeName, "*") {
		pointer = "*"
		typeName = strings.TrimPrefix(typeName, "*")
	}

	if importPath == "" {
		return pointer + typeName
	}

	alias, found := importsWithAliases[importPath]
	if !found {
		return pointer + typeName
	}

	return fmt.Sprintf("%s%s.%s", pointer, alias, typeName)
}

// generateCode emits the registration file for the given components. The
// generated file declares a single RegisterComponents function, registering
// every component with its declared parameter signature.
func generateCode(targetPackage string, targetImportPath string, components []ComponentDefinition) string {
	usedAliases := set.NewWithValues("unbox")
	importsWithAliases := make(map[string]string)

	for _, component := range components {
		if component.ImportPath == "" || component.ImportPath == targetImportPath {
			continue
		}
		if _, found := importsWithAliases[component.ImportPath]; found {
			continue
		}
		alias := findSuitableAlias(component.ImportPath, usedAliases)
		usedAliases.Add(alias)
		importsWithAliases[component.ImportPath] = alias
	}

	var builder strings.Builder

	builder.WriteString("// Code generated by unbox-gen. DO NOT EDIT.\n\n")
	builder.WriteString(fmt.Sprintf("package %s\n\n", targetPackage))

	builder.WriteString("import (\n")
	builder.WriteString("\tunbox \"github.com/boan2010/unbox\"\n")
	for _, importPath := range sortedKeys(importsWithAliases) {
		builder.WriteString(fmt.Sprintf("\t%s %q\n", importsWithAliases[importPath], importPath))
	}
	builder.WriteString(")\n\n")

	builder.WriteString("// RegisterComponents registers every annotated constructor on the given\n")
	builder.WriteString("// container.\n")
	builder.WriteString("func RegisterComponents(c *unbox.Container) error {\n")

	for _, component := range components {
		fqn := component.FnName
		if component.ImportPath != "" && component.ImportPath != targetImportPath {
			fqn = generateFQN(component.ImportPath, component.FnName, importsWithAliases)
		}

		builder.WriteString(fmt.Sprintf(
			"\tif err := c.Register(%q, %s, nil%s); err != nil {\n",
			component.Named,
			fqn,
			generateSignatureOption(component.Params),
		))
		builder.WriteString("\t\treturn err\n")
		builder.WriteString("\t}\n")
	}

	builder.WriteString("\treturn nil\n")
	builder.WriteString("}\n")

	return builder.String()
}

func generateSignatureOption(params []ParamDefinition) string {
	if len(params) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(", unbox.Describe(\n")
	for _, param := range params {
		builder.WriteString(fmt.Sprintf("\t\tunbox.Param(%q)", param.Name))
		if param.HasDefault {
			builder.WriteString(fmt.Sprintf(".Default(%s)", formatDefaultLiteral(param.Default)))
		}
		builder.WriteString(",\n")
	}
	builder.WriteString("\t)")
	return builder.String()
}

// formatDefaultLiteral emits the default value as a Go literal: numbers and
// booleans as-is, anything else as a quoted string.
func formatDefaultLiteral(value string) string {
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return value
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value
	}
	if value == "true" || value == "false" {
		return value
	}
	return strconv.Quote(value)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

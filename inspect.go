package unbox

import (
	"fmt"
	"reflect"
	"strconv"
)

// ParameterDescriptor describes a single parameter of a callable: its name,
// its declared type key, and its default value if any. Descriptors drive the
// parameter resolution priority, so a descriptor without a name can still be
// satisfied by an explicit positional value, a type lookup, or a default.
type ParameterDescriptor struct {
	Name         string
	DeclaredType string
	HasDefault   bool
	DefaultValue any

	typ reflect.Type
}

// Param starts a descriptor for the parameter with the given name.
func Param(name string) ParameterDescriptor {
	return ParameterDescriptor{Name: name}
}

// OfType sets the declared type key. When left empty, the type key is filled
// in from the callable's reflected signature.
func (d ParameterDescriptor) OfType(typeName string) ParameterDescriptor {
	d.DeclaredType = typeName
	return d
}

// Default sets the value used when no explicit, type, or name resolution
// matches.
func (d ParameterDescriptor) Default(value any) ParameterDescriptor {
	d.HasDefault = true
	d.DefaultValue = value
	return d
}

// SignatureInspector extracts ordered parameter descriptors from a callable.
// The resolution engine consumes descriptors exclusively through this
// interface and never parses source itself.
type SignatureInspector interface {
	Describe(target *Callable) ([]ParameterDescriptor, error)
}

// Inspector is the default SignatureInspector. Constructor callables are
// described from their struct fields (`inject` tag for the name, `default`
// tag for the default value). Function and method callables are described
// from their reflected parameter types, enriched with names and defaults
// previously registered via Declare.
type Inspector struct {
	declared map[uintptr][]ParameterDescriptor
}

func NewInspector() *Inspector {
	return &Inspector{
		declared: make(map[uintptr][]ParameterDescriptor),
	}
}

// Declare attaches parameter names and defaults to a function, one
// descriptor per parameter in order. Go reflection cannot recover parameter
// names, so this is where they enter the system, either hand-written or
// emitted by cmd/unbox-gen.
func (i *Inspector) Declare(fn any, descs ...ParameterDescriptor) error {
	c, err := Func(fn)
	if err != nil {
		return &ConfigurationError{Reason: err.Error()}
	}
	merged, err := mergeWithSignature(c, descs)
	if err != nil {
		return err
	}
	i.declared[c.key] = merged
	return nil
}

func (i *Inspector) Describe(target *Callable) ([]ParameterDescriptor, error) {
	if target.kind == kindConstructor {
		return structDescriptors(target.typ)
	}
	if descs, found := i.declared[target.key]; found {
		return descs, nil
	}
	return reflectDescriptors(target.fn.Type()), nil
}

// reflectDescriptors derives descriptors from a function type alone: types
// are known, names and defaults are not.
func reflectDescriptors(t reflect.Type) []ParameterDescriptor {
	descs := make([]ParameterDescriptor, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		descs[i] = ParameterDescriptor{
			DeclaredType: typeKey(in),
			typ:          in,
		}
	}
	return descs
}

// mergeWithSignature overlays user-supplied descriptors on the callable's
// reflected signature. The reflected parameter types are authoritative.
func mergeWithSignature(c *Callable, descs []ParameterDescriptor) ([]ParameterDescriptor, error) {
	if c.kind == kindConstructor {
		return nil, &ConfigurationError{Reason: "constructor parameters are described by struct fields, not descriptors"}
	}
	t := c.fn.Type()
	if len(descs) != t.NumIn() {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("%s has %d parameters, %d descriptors given", c.Name(), t.NumIn(), len(descs)),
		}
	}
	merged := make([]ParameterDescriptor, len(descs))
	for i, desc := range descs {
		in := t.In(i)
		desc.typ = in
		if desc.DeclaredType == "" {
			desc.DeclaredType = typeKey(in)
		}
		merged[i] = desc
	}
	return merged, nil
}

func structDescriptors(t reflect.Type) ([]ParameterDescriptor, error) {
	fields := injectableFields(t)
	descs := make([]ParameterDescriptor, len(fields))
	for i, field := range fields {
		name := field.Name
		if tag := field.Tag.Get("inject"); tag != "" {
			name = tag
		}
		desc := ParameterDescriptor{
			Name:         name,
			DeclaredType: typeKey(field.Type),
			typ:          field.Type,
		}
		if raw, found := field.Tag.Lookup("default"); found {
			value, err := parseDefault(raw, field.Type)
			if err != nil {
				return nil, &ConfigurationError{
					Reason: fmt.Sprintf("invalid default %q for field %s of %s: %v", raw, field.Name, typeKey(t), err),
				}
			}
			desc.HasDefault = true
			desc.DefaultValue = value
		}
		descs[i] = desc
	}
	return descs, nil
}

func parseDefault(raw string, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(parsed).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(parsed).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(parsed).Convert(t).Interface(), nil
	default:
		return nil, fmt.Errorf("default tags are only supported on strings, booleans and numbers, not %s", t.Kind())
	}
}

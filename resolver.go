package unbox

import (
	"fmt"
	"reflect"
)

// resolveParameter computes the value for a single parameter, trying each
// strategy in strict priority order and stopping at the first match:
//
//  1. an explicit value from the param map, positional slot first, then by
//     parameter name (boxed references are unboxed here);
//  2. a component registered under the parameter's declared type key;
//  3. a component registered under the parameter's name;
//  4. the parameter's declared default.
//
// Type lookup ignores the parameter name; name lookup ignores the type hint.
func (r *registry) resolveParameter(
	owner *Callable,
	index int,
	desc ParameterDescriptor,
	params *ParamMap,
	tr *tracker,
) (any, error) {
	if value, found := params.at(index); found {
		return r.unbox(value, tr)
	}
	if desc.Name != "" {
		if value, found := params.lookup(desc.Name); found {
			return r.unbox(value, tr)
		}
	}

	if desc.DeclaredType != "" && r.has(desc.DeclaredType) {
		value, err := r.resolve(desc.DeclaredType, tr)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parameter %s of %s by type:\n\t%w", desc.Name, owner.Name(), err)
		}
		return value, nil
	}

	if desc.Name != "" && r.has(desc.Name) {
		value, err := r.resolve(desc.Name, tr)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parameter %s of %s by name:\n\t%w", desc.Name, owner.Name(), err)
		}
		return value, nil
	}

	if desc.HasDefault {
		return desc.DefaultValue, nil
	}

	return nil, &UnresolvedDependencyError{
		Parameter:    desc.Name,
		DeclaredType: desc.DeclaredType,
		Owner:        owner.Name(),
	}
}

// unbox materializes boxed references from explicit parameter values. A box
// pointing back into the same container shares the caller's resolution stack
// so cycles through references are still detected.
func (r *registry) unbox(value any, tr *tracker) (any, error) {
	boxed, ok := value.(*BoxedValue)
	if !ok {
		return value, nil
	}
	if boxed.container != nil && boxed.container.registry == r {
		resolved, err := r.resolve(boxed.name, tr)
		if err != nil {
			return nil, fmt.Errorf("failed to unbox reference to %q:\n\t%w", boxed.name, err)
		}
		return resolved, nil
	}
	return boxed.Unbox()
}

// reentrantView substitutes the owning container, when it flows into an
// argument list, with an unlocked view bound to the in-flight resolution
// stack. The owner's mutex is held for the whole build, so handing the
// owner itself to a factory would deadlock on its first container call.
func (r *registry) reentrantView(value any, tr *tracker) any {
	if injected, ok := value.(*Container); ok && injected == r.owner {
		return &Container{registry: r, inFlight: tr}
	}
	return value
}

// coerce adapts a resolved value to the reflected parameter type.
func coerce(value any, desc ParameterDescriptor, owner *Callable) (reflect.Value, error) {
	target := desc.typ
	if target == nil {
		return reflect.ValueOf(value), nil
	}
	if value == nil {
		switch target.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), nil
		default:
			return reflect.Value{}, fmt.Errorf("parameter %s of %s: nil is not a valid %s", desc.Name, owner.Name(), target)
		}
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if v.Type().ConvertibleTo(target) && compatibleKinds(v.Type(), target) {
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf(
		"parameter %s of %s: value of type %s is not assignable to %s",
		desc.Name, owner.Name(), v.Type(), target,
	)
}

// compatibleKinds limits conversions to ones that preserve meaning: numeric
// widening and named-type renaming, not e.g. int-to-string.
func compatibleKinds(from, to reflect.Type) bool {
	if from.Kind() == to.Kind() {
		return true
	}
	return isNumeric(from.Kind()) && isNumeric(to.Kind())
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

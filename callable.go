package unbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
)

type callableKind int

const (
	kindFunc callableKind = iota
	kindMethod
	kindConstructor
)

// Callable is a uniform invocation target: a free function, a bound method,
// or a struct constructor. Functions and methods may return the instance, or
// the instance and an error, or only an error. A constructor builds the
// struct by filling its injectable fields in declaration order and returns a
// pointer to it.
type Callable struct {
	kind callableKind
	fn   reflect.Value
	typ  reflect.Type
	name string
	key  uintptr
}

// Func wraps a function as a Callable.
func Func(fn any) (*Callable, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("callable must be a function, got %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, errors.New("variadic functions are not supported as callables")
	}
	if err := checkResults(t); err != nil {
		return nil, err
	}

	fnName := runtime.FuncForPC(v.Pointer()).Name()

	return &Callable{
		kind: kindFunc,
		fn:   v,
		name: filepath.Base(fnName),
		key:  v.Pointer(),
	}, nil
}

// Method wraps a method bound to the given receiver as a Callable. The
// receiver itself is not a parameter of the resulting callable.
func Method(receiver any, name string) (*Callable, error) {
	v := reflect.ValueOf(receiver)
	if !v.IsValid() {
		return nil, errors.New("method receiver must not be nil")
	}
	m := v.MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("type %T has no method %s", receiver, name)
	}
	if m.Type().IsVariadic() {
		return nil, errors.New("variadic functions are not supported as callables")
	}
	if err := checkResults(m.Type()); err != nil {
		return nil, err
	}

	return &Callable{
		kind: kindMethod,
		fn:   m,
		name: fmt.Sprintf("%T.%s", receiver, name),
		key:  m.Pointer(),
	}, nil
}

// Constructor wraps a struct type as a Callable. The prototype may be a
// struct value, a pointer to a struct, or a reflect.Type. Invoking the
// callable allocates the struct, assigns its injectable fields from the
// arguments, and returns a pointer to it.
func Constructor(prototype any) (*Callable, error) {
	var t reflect.Type
	switch p := prototype.(type) {
	case reflect.Type:
		t = p
	default:
		t = reflect.TypeOf(prototype)
	}
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("constructor target must be a struct type, got %T", prototype)
	}

	return &Callable{
		kind: kindConstructor,
		typ:  t,
		name: typeKey(t),
	}, nil
}

// asCallable normalizes a registration or invocation target.
func asCallable(target any) (*Callable, error) {
	switch v := target.(type) {
	case *Callable:
		return v, nil
	case nil:
		return nil, errors.New("callable target must not be nil")
	}
	if reflect.TypeOf(target).Kind() == reflect.Func {
		return Func(target)
	}
	return Constructor(target)
}

// Name returns a human-readable identifier used in errors and logs.
func (c *Callable) Name() string {
	return c.name
}

func checkResults(t reflect.Type) error {
	if t.NumOut() > 2 {
		return errors.New("callable must either return the instance and an error, or just the instance")
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return errors.New("if callable returns two elements, it must return an error as the second element")
	}
	return nil
}

// invoke calls the target with the prepared arguments. Panics raised by the
// target are recovered and returned as errors. The returned value is nil
// when the target returns nothing, or only an error.
func (c *Callable) invoke(args []reflect.Value) (any, error) {
	if c.kind == kindConstructor {
		ptr := reflect.New(c.typ)
		elem := ptr.Elem()
		fields := injectableFields(c.typ)
		if len(args) != len(fields) {
			return nil, fmt.Errorf("constructor %s expects %d arguments, got %d", c.name, len(fields), len(args))
		}
		for i, field := range fields {
			elem.FieldByIndex(field.Index).Set(args[i])
		}
		return ptr.Interface(), nil
	}

	// panic recovery, as `Call` can panic if the callable panics
	var results []reflect.Value
	var callErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				callErr = fmt.Errorf("panic calling %s: %v", c.name, r)
			}
		}()
		results = c.fn.Call(args)
	}()

	if callErr != nil {
		return nil, callErr
	}

	return interpretResults(c.fn.Type(), results)
}

func interpretResults(t reflect.Type, results []reflect.Value) (any, error) {
	switch t.NumOut() {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errorType {
			if !results[0].IsNil() {
				return nil, results[0].Interface().(error)
			}
			return nil, nil
		}
		return results[0].Interface(), nil
	default:
		if !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}
}

// injectableFields lists the exported fields of a struct type that take part
// in construction, skipping fields tagged `inject:"-"`.
func injectableFields(t reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Tag.Get("inject") == "-" {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

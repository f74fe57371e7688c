package unbox

import (
	"reflect"
)

var (
	errorType = TypeOf[error]()
	anyType   = TypeOf[any]()
)

// Closeable is an interface that can be used to close resources.
type Closeable interface {
	Close() error
}

// TypeOf returns the reflect.Type for I, including interface types.
func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}

// NameOf returns the type key under which components of type I are looked up
// when a parameter declares that type. Registering (or aliasing) a component
// under this key makes it resolvable by type.
func NameOf[I any]() string {
	return typeKey(TypeOf[I]())
}

func typeKey(t reflect.Type) string {
	return t.String()
}

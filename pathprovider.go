package unbox

import (
	"fmt"

	"github.com/boan2010/unbox/structs"
)

// PathProvider is a factory extracting a single value out of a larger
// configuration component resolved by type.
type PathProvider[C any, T any] func(cfg C) (T, error)

// FromPath builds a factory that resolves a component of type C (typically a
// configuration struct) and returns the value at the dotted path inside it.
//
//	c.Register("cache_path", unbox.FromPath[*AppConfig, string]("Cache.Path"), nil)
func FromPath[C any, T any](path string) PathProvider[C, T] {
	return func(cfg C) (v T, err error) {
		raw, err := structs.Get(cfg, path)
		if err != nil {
			return v, fmt.Errorf("unable to get value from config %T:\n\t%w", cfg, err)
		}
		value, ok := raw.(T)
		if !ok {
			return v, fmt.Errorf("config value at %s is not of type %T", path, v)
		}
		return value, nil
	}
}

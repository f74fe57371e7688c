// Package unbox is a dependency-injection container keyed by component
// names. Components are registered as recipes (factory functions, struct
// constructors, aliases or direct values) and built lazily on first access.
// Every named component is a singleton within its container: once built, the
// value is cached until the name is registered again.
//
// Parameters of factories and constructors are resolved in strict priority
// order: explicit values from a ParamMap first, then a component registered
// under the parameter's type key, then a component registered under the
// parameter's name, then the parameter's declared default. References
// created with Ref are unboxed only when an argument list is materialized,
// which allows registering components that point at names registered later.
//
// Basic usage:
//
//	c := unbox.New()
//	_ = c.Set("cachePath", "/tmp/cache")
//	_ = c.Register("cache", NewFileCache, nil, unbox.Describe(unbox.Param("cachePath")))
//	_ = c.Alias(unbox.NameOf[CacheProvider](), "cache")
//	_ = c.Register("repository", NewUserRepository, nil)
//	repo, err := unbox.Resolve[*UserRepository](c, "repository")
//
// Go reflection exposes parameter types but not parameter names or default
// values. Names and defaults can be attached per registration with the
// Describe option, declared once with DeclareSignature, carried by struct
// tags for constructor recipes, or generated from source by cmd/unbox-gen.
package unbox

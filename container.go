package unbox

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/boan2010/unbox/option"
	"github.com/rs/zerolog"
)

type (
	// Options configures a Container at construction time.
	Options struct {
		logger    zerolog.Logger
		inspector SignatureInspector
	}

	// RegisterOptions carries per-registration settings.
	RegisterOptions struct {
		signature  []ParameterDescriptor
		conditions []condition
	}

	// Container is the public façade over the component registry, the
	// parameter resolver and the signature inspector. A container
	// exclusively owns its recipes, configuration chains and activated
	// values; instances are independent and never share state.
	Container struct {
		registry *registry
		mu       sync.Mutex

		// non-nil on the re-entrant view injected into in-flight builds:
		// the owner's mutex is already held, so the view skips locking and
		// shares the caller's resolution stack
		inFlight *tracker
	}
)

// lock acquires the container mutex and returns the unlock function. A
// re-entrant view runs under the owner's already-held lock, so it locks
// nothing.
func (c *Container) lock() func() {
	if c.inFlight != nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// newResolution returns the tracker for a fresh resolution entry point. A
// re-entrant view keeps extending the in-flight stack, so cycles crossing a
// factory's container calls are still detected.
func (c *Container) newResolution() *tracker {
	if c.inFlight != nil {
		return c.inFlight
	}
	return newTracker()
}

// WithLogger makes the container log registrations and activations at debug
// level. The default is a no-op logger.
func WithLogger(logger zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithInspector replaces the default signature inspector.
func WithInspector(inspector SignatureInspector) option.Option[Options] {
	return func(opts *Options) {
		opts.inspector = inspector
	}
}

// Describe attaches parameter descriptors to a registration, one per
// parameter in order. They take precedence over whatever the signature
// inspector would report for the callable.
func Describe(descs ...ParameterDescriptor) option.Option[RegisterOptions] {
	return func(opts *RegisterOptions) {
		opts.signature = descs
	}
}

// New creates an empty container.
//
// The container registers itself under its own type key, so factories may
// declare a *Container parameter to resolve dependencies dynamically. The
// container injected into a factory is a view over the in-flight resolution
// and must not be retained past the factory call.
func New(opts ...option.Option[Options]) *Container {
	options := option.Build(
		&Options{logger: zerolog.Nop()},
		opts...,
	)
	if options.inspector == nil {
		options.inspector = NewInspector()
	}

	c := &Container{
		registry: newRegistry(options.inspector, options.logger),
	}
	c.registry.owner = c
	_ = c.Set(NameOf[*Container](), c)

	return c
}

// Register stores a recipe for the name. The target is a factory function, a
// struct prototype (whose exported fields become constructor parameters), or
// a prepared *Callable. The optional param map provides explicit arguments;
// remaining parameters resolve against the registry.
//
// Registering an existing name replaces its recipe and resets its activation
// state without clearing its configuration chain.
func (c *Container) Register(name string, target any, params *ParamMap, opts ...option.Option[RegisterOptions]) error {
	callable, err := asCallable(target)
	if err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("cannot register %q: %v", name, err)}
	}

	options := option.Build(&RegisterOptions{}, opts...)

	rec := &recipe{kind: buildRecipe, callable: callable, params: params}
	if options.signature != nil {
		rec.signature, err = mergeWithSignature(callable, options.signature)
		if err != nil {
			return err
		}
	}

	defer c.lock()()

	// conditions might prevent the registration
	for _, cond := range options.conditions {
		if !c.validateCondition(cond) {
			return nil
		}
	}

	return c.registry.register(name, rec)
}

// MustRegister is Register, panicking on error, and returns the container
// for chaining.
func (c *Container) MustRegister(name string, target any, params *ParamMap, opts ...option.Option[RegisterOptions]) *Container {
	if err := c.Register(name, target, params, opts...); err != nil {
		panic(fmt.Sprintf("failed to register component %q:\n\t%v", name, err))
	}
	return c
}

// Alias registers name as an alias of target. The target does not have to
// exist yet; resolution always forwards to the target's current value, so
// redefining the target changes what the alias yields afterwards.
func (c *Container) Alias(name, target string) error {
	if target == "" {
		return &ConfigurationError{Reason: "alias target must not be empty"}
	}
	if name == target {
		return &ConfigurationError{Reason: fmt.Sprintf("component %q cannot be aliased to itself", name)}
	}

	defer c.lock()()
	return c.registry.register(name, &recipe{kind: aliasRecipe, target: target})
}

// Set stores an already-constructed value under the name, active
// immediately.
func (c *Container) Set(name string, value any) error {
	defer c.lock()()
	if err := c.registry.register(name, &recipe{kind: valueRecipe, value: value}); err != nil {
		return err
	}
	c.registry.store.Put(name, value)
	return nil
}

// Configure appends fn to the name's configuration chain. The function
// receives the component as its first argument, then any extra parameters
// resolved from the param map and the registry; a non-nil return value
// replaces the component. Entries run in registration order right after
// activation, or immediately when the component is already active.
func (c *Container) Configure(name string, fn any, params *ParamMap) error {
	callable, err := asCallable(fn)
	if err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid configuration function: %v", err)}
	}
	if callable.kind == kindConstructor {
		return &ConfigurationError{Reason: "configuration target must be a function or a bound method"}
	}

	defer c.lock()()

	if name == "" {
		name, err = c.registry.inferConfigureTarget(callable)
		if err != nil {
			return err
		}
	}

	return c.registry.configure(name, &configEntry{callable: callable, params: params})
}

// ConfigureFn is Configure with the component name inferred from the
// function's first parameter: its declared type if present, else its
// parameter name.
func (c *Container) ConfigureFn(fn any, params *ParamMap) error {
	return c.Configure("", fn, params)
}

// Get resolves the named component, building and caching it on first use.
func (c *Container) Get(name string) (any, error) {
	defer c.lock()()
	return c.registry.resolve(name, c.newResolution())
}

// Has reports whether a recipe is registered for the name, following alias
// edges transitively. It never triggers resolution.
func (c *Container) Has(name string) bool {
	defer c.lock()()
	return c.registry.has(name)
}

// IsActive reports whether a cached value currently exists for the name. It
// never triggers resolution.
func (c *Container) IsActive(name string) bool {
	defer c.lock()()
	return c.registry.store.Has(name)
}

// Create builds a fresh instance from the target and the given overrides,
// exactly like recipe resolution would, but never caches or registers the
// result.
func (c *Container) Create(target any, params *ParamMap, opts ...option.Option[RegisterOptions]) (any, error) {
	callable, err := asCallable(target)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot create from target: %v", err)}
	}

	options := option.Build(&RegisterOptions{}, opts...)
	rec := &recipe{kind: buildRecipe, callable: callable, params: params}
	if options.signature != nil {
		rec.signature, err = mergeWithSignature(callable, options.signature)
		if err != nil {
			return nil, err
		}
	}

	defer c.lock()()
	return c.registry.build(rec, c.newResolution())
}

// Call resolves every parameter of fn against the registry and the given
// overrides, invokes it, and passes the return value through unchanged.
func (c *Container) Call(fn any, params *ParamMap) (any, error) {
	callable, err := asCallable(fn)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot call target: %v", err)}
	}
	if callable.kind == kindConstructor {
		return nil, &ConfigurationError{Reason: "call target must be a function or a bound method, use Create for struct types"}
	}

	defer c.lock()()
	return c.registry.build(&recipe{kind: buildRecipe, callable: callable, params: params}, c.newResolution())
}

// DeclareSignature registers parameter names and defaults for a function
// with the default inspector.
func (c *Container) DeclareSignature(fn any, descs ...ParameterDescriptor) error {
	inspector, ok := c.registry.inspector.(*Inspector)
	if !ok {
		return &ConfigurationError{Reason: "the configured signature inspector does not accept declarations"}
	}
	defer c.lock()()
	return inspector.Declare(fn, descs...)
}

// Close closes all the activated components implementing Closeable. The
// container's own self-registration is skipped, closing it there would
// re-enter Close.
func (c *Container) Close() error {
	defer c.lock()()
	return c.registry.store.Close(NameOf[*Container]())
}

// Describe renders the registered recipes and activated components, for
// debugging.
func (c *Container) Describe() string {
	defer c.lock()()

	names := make([]string, 0, len(c.registry.recipes))
	for name := range c.registry.recipes {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("* Recipes:\n")
	for _, name := range names {
		b.WriteString(fmt.Sprintf("\t- %s: %s\n", name, describeRecipe(c.registry.recipes[name])))
		for _, entry := range c.registry.configurators[name] {
			b.WriteString(fmt.Sprintf("\t\tconfigured by: %s\n", entry.callable.Name()))
		}
	}
	b.WriteString("* Activated components:\n")
	for _, name := range c.registry.store.ListNames() {
		comp, _ := c.registry.store.Get(name)
		b.WriteString(fmt.Sprintf("\t- %s: %v\n", name, comp))
	}
	return b.String()
}

func describeRecipe(rec *recipe) string {
	switch rec.kind {
	case valueRecipe:
		return fmt.Sprintf("value (%T)", rec.value)
	case aliasRecipe:
		return fmt.Sprintf("alias -> %s", rec.target)
	default:
		if rec.callable.kind == kindConstructor {
			return fmt.Sprintf("constructor %s", rec.callable.Name())
		}
		return fmt.Sprintf("factory %s", rec.callable.Name())
	}
}

// Resolve resolves the named component and asserts its type.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	comp, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, fmt.Errorf("component %q is of type %T, not %s", name, comp, TypeOf[T]())
	}
	return typed, nil
}

package unbox

import (
	"fmt"
	"reflect"

	"github.com/boan2010/unbox/set"
	"github.com/rs/zerolog"
)

type recipeKind int

const (
	valueRecipe recipeKind = iota
	aliasRecipe
	buildRecipe
)

// recipe is the registered means of producing a component: a direct value,
// an alias edge to another name, or a callable (factory or constructor) with
// its explicit parameters.
type recipe struct {
	kind      recipeKind
	value     any
	target    string
	callable  *Callable
	params    *ParamMap
	signature []ParameterDescriptor
}

type configEntry struct {
	callable *Callable
	params   *ParamMap
}

// registry owns all recipes, configuration chains and activated values of a
// container. It is single-writer: the container serializes every entry point
// behind its mutex, so the recursive internals below run lock-free.
type registry struct {
	recipes       map[string]*recipe
	configurators map[string][]*configEntry
	store         *Store
	inspector     SignatureInspector
	logger        zerolog.Logger
	owner         *Container
}

func newRegistry(inspector SignatureInspector, logger zerolog.Logger) *registry {
	return &registry{
		recipes:       make(map[string]*recipe),
		configurators: make(map[string][]*configEntry),
		store:         NewStore(),
		inspector:     inspector,
		logger:        logger,
	}
}

// register stores or replaces the recipe for a name. Replacing a recipe
// resets the activation state, but previously attached configuration entries
// stay in place: the next value built for the name runs through the same
// chain.
func (r *registry) register(name string, rec *recipe) error {
	if name == "" {
		return &ConfigurationError{Reason: "component name must not be empty"}
	}
	r.recipes[name] = rec
	r.store.Delete(name)
	r.logger.Debug().Str("component", name).Msg("recipe registered")
	return nil
}

// has reports whether a recipe is registered for the name, following alias
// edges transitively.
func (r *registry) has(name string) bool {
	seen := set.New[string]()
	for {
		rec, found := r.recipes[name]
		if !found {
			return false
		}
		if rec.kind != aliasRecipe {
			return true
		}
		if seen.Contains(name) {
			return false
		}
		seen.Add(name)
		name = rec.target
	}
}

// resolve implements the core lookup-or-build algorithm. A cached value wins
// immediately; otherwise the recipe runs through parameter resolution, the
// configuration chain is applied, and the final value is cached. Aliases are
// never cached under their own name, so re-resolving an alias always
// forwards to the target's current value.
func (r *registry) resolve(name string, tr *tracker) (any, error) {
	if comp, found := r.store.Get(name); found {
		return comp, nil
	}

	rec, found := r.recipes[name]
	if !found {
		return nil, &NotFoundError{Name: name}
	}

	switch rec.kind {
	case valueRecipe:
		r.store.Put(name, rec.value)
		return rec.value, nil

	case aliasRecipe:
		if err := tr.push(name); err != nil {
			return nil, err
		}
		comp, err := r.resolve(rec.target, tr)
		tr.pop()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve alias %q:\n\t%w", name, err)
		}
		return comp, nil

	default:
		if err := tr.push(name); err != nil {
			return nil, err
		}
		comp, err := r.build(rec, tr)
		if err != nil {
			tr.pop()
			return nil, fmt.Errorf("failed to build component %q:\n\t%w", name, err)
		}
		// the name stays on the stack through the configuration chain, so
		// an entry re-entering its own subject surfaces the cycle
		comp, err = r.applyConfigurators(name, comp, tr)
		tr.pop()
		if err != nil {
			return nil, err
		}
		r.store.Put(name, comp)
		r.logger.Debug().Str("component", name).Msg("component activated")
		return comp, nil
	}
}

// build materializes the argument list for a callable and invokes it. Used
// both for registered recipes and for uncached Create/Call requests.
func (r *registry) build(rec *recipe, tr *tracker) (any, error) {
	descs, err := r.describe(rec)
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, len(descs))
	for i, desc := range descs {
		value, err := r.resolveParameter(rec.callable, i, desc, rec.params, tr)
		if err != nil {
			return nil, err
		}
		args[i], err = coerce(r.reentrantView(value, tr), desc, rec.callable)
		if err != nil {
			return nil, err
		}
	}

	return rec.callable.invoke(args)
}

func (r *registry) describe(rec *recipe) ([]ParameterDescriptor, error) {
	if rec.signature != nil {
		return rec.signature, nil
	}
	descs, err := r.inspector.Describe(rec.callable)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s:\n\t%w", rec.callable.Name(), err)
	}
	return descs, nil
}

// configure appends an entry to the name's configuration chain. When the
// component is already activated, the entry is applied to the cached value
// right away, replacing it if the entry returns a non-nil result.
func (r *registry) configure(name string, entry *configEntry) error {
	r.configurators[name] = append(r.configurators[name], entry)

	if comp, found := r.store.Get(name); found {
		replacement, err := r.runConfigurator(entry, comp, newTracker())
		if err != nil {
			return fmt.Errorf("failed to configure component %q:\n\t%w", name, err)
		}
		if replacement != nil {
			r.store.Put(name, replacement)
		}
	}
	return nil
}

// inferConfigureTarget derives the component name for a configuration
// function from its first parameter: the declared type key when the
// parameter is typed, else the parameter name.
func (r *registry) inferConfigureTarget(c *Callable) (string, error) {
	descs, err := r.inspector.Describe(c)
	if err != nil {
		return "", err
	}
	if len(descs) == 0 {
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("%s takes no parameters, configuration functions receive the component first", c.Name()),
		}
	}
	first := descs[0]
	if first.DeclaredType != "" && first.typ != anyType {
		return first.DeclaredType, nil
	}
	if first.Name != "" {
		return first.Name, nil
	}
	return "", &ConfigurationError{
		Reason: fmt.Sprintf("unable to infer the configured component from the first parameter of %s", c.Name()),
	}
}

func (r *registry) applyConfigurators(name string, comp any, tr *tracker) (any, error) {
	for _, entry := range r.configurators[name] {
		replacement, err := r.runConfigurator(entry, comp, tr)
		if err != nil {
			return nil, fmt.Errorf("failed to configure component %q:\n\t%w", name, err)
		}
		if replacement != nil {
			comp = replacement
		}
	}
	return comp, nil
}

// runConfigurator invokes a configuration entry with (subject, extras...).
// Extra parameters resolve like recipe parameters, with the entry's param
// map shifted so its first positional slot feeds the first extra.
func (r *registry) runConfigurator(entry *configEntry, subject any, tr *tracker) (any, error) {
	descs, err := r.inspector.Describe(entry.callable)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s:\n\t%w", entry.callable.Name(), err)
	}
	if len(descs) == 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("%s takes no parameters, configuration functions receive the component first", entry.callable.Name()),
		}
	}

	args := make([]reflect.Value, len(descs))
	args[0], err = coerce(subject, descs[0], entry.callable)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(descs); i++ {
		value, err := r.resolveParameter(entry.callable, i-1, descs[i], entry.params, tr)
		if err != nil {
			return nil, err
		}
		args[i], err = coerce(r.reentrantView(value, tr), descs[i], entry.callable)
		if err != nil {
			return nil, err
		}
	}

	return entry.callable.invoke(args)
}

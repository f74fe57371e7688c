package unbox

// ParamMap carries explicit argument values for a recipe, a configuration
// function, or a direct Call/Create. Positional values consume parameter
// slots left to right, named values match parameters by name regardless of
// position, and a map may mix both. Values may be *BoxedValue references,
// unboxed when the argument list is materialized.
//
// A nil *ParamMap is valid and empty.
type ParamMap struct {
	positional []any
	named      map[string]any
}

// Params creates a ParamMap from positional values.
func Params(positional ...any) *ParamMap {
	return &ParamMap{positional: positional}
}

// Named adds a named value, returning the map for chaining.
func (p *ParamMap) Named(name string, value any) *ParamMap {
	if p.named == nil {
		p.named = make(map[string]any)
	}
	p.named[name] = value
	return p
}

func (p *ParamMap) at(index int) (any, bool) {
	if p == nil || index < 0 || index >= len(p.positional) {
		return nil, false
	}
	return p.positional[index], true
}

func (p *ParamMap) lookup(name string) (any, bool) {
	if p == nil || p.named == nil {
		return nil, false
	}
	v, found := p.named[name]
	return v, found
}

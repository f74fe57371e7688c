package unbox

// BoxedValue is a deferred handle to a component. Creating one never touches
// the registry; the reference is unboxed when an argument list consuming it
// is materialized, or explicitly via Unbox. Unboxing is not memoized on the
// box itself: every unbox re-enters resolution, which is cheap once the
// underlying name is activated.
type BoxedValue struct {
	name      string
	container *Container
}

// Ref returns a deferred reference to the named component. The name does not
// have to be registered yet, as long as it exists by the time the reference
// is first unboxed.
//
// A reference into a foreign container locks that container when unboxed,
// while the consuming container's lock is held: two containers boxing into
// each other must not be resolved concurrently.
func (c *Container) Ref(name string) *BoxedValue {
	return &BoxedValue{name: name, container: c}
}

// Name returns the component name the reference points at.
func (b *BoxedValue) Name() string {
	return b.name
}

// Unbox resolves the referenced component.
func (b *BoxedValue) Unbox() (any, error) {
	return b.container.Get(b.name)
}

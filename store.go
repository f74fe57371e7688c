package unbox

import (
	"errors"
	"fmt"
	"sort"

	"github.com/boan2010/unbox/set"
)

// Store holds activated component values. It is guarded by the owning
// container's mutex and must not be shared across containers.
type Store struct {
	inner map[string]any
}

func NewStore() *Store {
	return &Store{inner: make(map[string]any)}
}

func (s *Store) Put(name string, comp any) {
	s.inner[name] = comp
}

func (s *Store) Get(name string) (comp any, found bool) {
	comp, found = s.inner[name]
	return comp, found
}

func (s *Store) Has(name string) bool {
	_, found := s.inner[name]
	return found
}

func (s *Store) Delete(name string) {
	delete(s.inner, name)
}

func (s *Store) ListNames() []string {
	names := make([]string, 0, len(s.inner))
	for name := range s.inner {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes all the stored components implementing Closeable, skipping
// the given names.
func (s *Store) Close(skip ...string) error {
	skipped := set.NewWithValues(skip...)
	closeErrors := make([]error, 0)
	for name, comp := range s.inner {
		if skipped.Contains(name) {
			continue
		}
		if closeable, ok := comp.(Closeable); ok {
			if err := closeable.Close(); err != nil {
				closeErrors = append(
					closeErrors,
					fmt.Errorf("failed to close component %s:\n\t%w", name, err),
				)
			}
		}
	}

	return errors.Join(closeErrors...)
}

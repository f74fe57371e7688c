// Package runner runs long-lived components resolved from an unbox
// container.
package runner

import (
	"context"
	"fmt"

	"github.com/boan2010/unbox"
	"github.com/boan2010/unbox/fn"
	"golang.org/x/sync/errgroup"
)

// Runnable represents a component that can be run with a context.
type Runnable interface {
	Run(ctx context.Context) error
}

// RunAll runs all the provided runnables concurrently and waits for all of them to finish.
//
// This method is blocking and will return an error if any of the runnables returns an error.
func RunAll(parentCtx context.Context, runnables ...Runnable) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for _, runnable := range runnables {
		innerRunnable := runnable
		group.Go(func() error {
			return innerRunnable.Run(ctx)
		})
	}

	return group.Wait()
}

type entry struct {
	runnable Runnable
	priority int
}

// Group collects runnables and runs them concurrently, started in
// descending priority order so infrastructure components come up before the
// ones depending on them.
type Group struct {
	entries *sortedCOWSlice[entry]
}

func NewGroup() *Group {
	return &Group{
		entries: newSortedCOWSlice(fn.ReverseComparator(compareByPriority)),
	}
}

// Add registers a runnable with the given start priority.
func (g *Group) Add(runnable Runnable, priority int) *Group {
	g.entries.Add(entry{runnable: runnable, priority: priority})
	return g
}

// Run starts every runnable under an errgroup and blocks until all finish.
func (g *Group) Run(parentCtx context.Context) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for _, e := range g.entries.All() {
		innerRunnable := e.runnable
		group.Go(func() error {
			return innerRunnable.Run(ctx)
		})
	}

	return group.Wait()
}

// FromContainer resolves the named components and runs them as a group.
// Every name must resolve to a Runnable; earlier names start first.
func FromContainer(ctx context.Context, c *unbox.Container, names ...string) error {
	group := NewGroup()
	for i, name := range names {
		runnable, err := unbox.Resolve[Runnable](c, name)
		if err != nil {
			return fmt.Errorf("component %q is not runnable:\n\t%w", name, err)
		}
		group.Add(runnable, len(names)-i)
	}
	return group.Run(ctx)
}

func compareByPriority(e1, e2 entry) fn.ComparisonResult {
	if e1.priority < e2.priority {
		return fn.Less
	}
	if e1.priority > e2.priority {
		return fn.Greater
	}
	return fn.Equal
}

package unbox

import (
	"github.com/boan2010/unbox/set"
)

// tracker records the names currently being resolved on a single resolve
// call stack, so that re-entering a name surfaces the cycle instead of
// recursing forever.
type tracker struct {
	visited set.Set[string]
	stack   []string
}

func newTracker() *tracker {
	return &tracker{
		visited: set.New[string](),
		stack:   make([]string, 0),
	}
}

func (t *tracker) push(name string) error {
	if t.visited.Contains(name) {
		cycle := []string{name}
		for i := len(t.stack) - 1; i >= 0; i-- {
			cycle = append(cycle, t.stack[i])
			if t.stack[i] == name {
				break
			}
		}

		return &CyclicDependencyError{Path: cycle}
	}
	t.visited.Add(name)
	t.stack = append(t.stack, name)

	return nil
}

func (t *tracker) pop() string {
	if len(t.stack) == 0 {
		panic("tracker: pop from empty stack")
	}
	n := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.visited.Remove(n)

	return n
}

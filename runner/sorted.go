package runner

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/boan2010/unbox/fn"
)

// sortedCOWSlice keeps its items sorted through copy-on-write, so reads
// never block behind writers.
type sortedCOWSlice[T any] struct {
	data       atomic.Pointer[[]T]
	comparator fn.Comparator[T]
	mu         sync.Mutex
}

func newSortedCOWSlice[T any](comparator fn.Comparator[T]) *sortedCOWSlice[T] {
	cowSlice := &sortedCOWSlice[T]{
		comparator: comparator,
	}
	initial := make([]T, 0)
	cowSlice.data.Store(&initial)
	return cowSlice
}

func (r *sortedCOWSlice[T]) Add(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.data.Load()
	pos := sort.Search(len(current), func(i int) bool {
		return r.comparator(current[i], item) != fn.Less
	})

	newSlice := make([]T, len(current)+1)
	copy(newSlice[:pos], current[:pos])
	newSlice[pos] = item
	copy(newSlice[pos+1:], current[pos:])

	r.data.Store(&newSlice)
}

func (r *sortedCOWSlice[T]) All() []T {
	return *r.data.Load()
}

func (r *sortedCOWSlice[T]) Len() int {
	return len(*r.data.Load())
}

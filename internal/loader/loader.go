// Package loader schedules incremental loading of URL-addressed resources
// under a caller-supplied concurrency quota.
//
// A Loader never blocks. Items are stepped from Update, and each step reports
// back through a continuation that may fire on a later tick. The continuation
// must be called exactly once per step; a step that never reports keeps its
// slot busy forever.
package loader

// Item is a resource that loads in one or more steps.
type Item interface {
	// LoadNext performs one unit of loading work and calls done exactly
	// once, now or later. requeue=true returns the item to the pending
	// queue for another step; false marks it completed.
	LoadNext(done func(requeue bool))
}

// Loader tracks items by URL and steps the best pending item while capacity
// allows. It is not safe for concurrent use.
type Loader[T Item] struct {
	create   func(url string) T
	compare  func(a, b T) int
	finished func(item T)

	items     map[string]T
	queue     []T
	active    int
	completed int
}

// Option configures a Loader.
type Option[T Item] func(*Loader[T])

// WithPriority sets the comparator used to pick the next item. compare(a, b)
// returns a negative value when a should load before b. Items that compare
// equal load in queue order.
func WithPriority[T Item](compare func(a, b T) int) Option[T] {
	return func(l *Loader[T]) {
		l.compare = compare
	}
}

// WithStepFinished registers a hook run after every completed or requeued step.
func WithStepFinished[T Item](fn func(item T)) Option[T] {
	return func(l *Loader[T]) {
		l.finished = fn
	}
}

// New creates a loader that builds items with create.
func New[T Item](create func(url string) T, opts ...Option[T]) *Loader[T] {
	l := &Loader[T]{
		create: create,
		items:  make(map[string]T),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the item for url, creating and enqueueing it on first use.
func (l *Loader[T]) Load(url string) T {
	if item, ok := l.items[url]; ok {
		return item
	}

	item := l.create(url)
	l.items[url] = item
	l.queue = append(l.queue, item)
	return item
}

// Lookup returns the item for url without creating it.
func (l *Loader[T]) Lookup(url string) (T, bool) {
	item, ok := l.items[url]
	return item, ok
}

// Each calls fn for every item ever loaded, in no particular order.
func (l *Loader[T]) Each(fn func(url string, item T)) {
	for url, item := range l.items {
		fn(url, item)
	}
}

// QueueCount returns the number of pending items.
func (l *Loader[T]) QueueCount() int {
	return len(l.queue)
}

// ActiveCount returns the number of items with a step in flight.
func (l *Loader[T]) ActiveCount() int {
	return l.active
}

// CompletedCount returns the number of finished items.
func (l *Loader[T]) CompletedCount() int {
	return l.completed
}

// TotalCount returns pending + active + completed.
func (l *Loader[T]) TotalCount() int {
	return len(l.queue) + l.active + l.completed
}

// Update starts steps until quota items are active or nothing is pending,
// and returns the active count.
func (l *Loader[T]) Update(quota int) int {
	for l.active < quota && len(l.queue) > 0 {
		next := l.takeNext()
		l.active++
		next.LoadNext(l.continuation(next))
	}
	return l.active
}

func (l *Loader[T]) continuation(item T) func(requeue bool) {
	return func(requeue bool) {
		l.active--
		if requeue {
			l.queue = append(l.queue, item)
		} else {
			l.completed++
		}
		if l.finished != nil {
			l.finished(item)
		}
	}
}

// takeNext removes and returns the best pending item. The scan is linear;
// queues are short-lived and small.
func (l *Loader[T]) takeNext() T {
	best := 0
	if l.compare != nil {
		for i := 1; i < len(l.queue); i++ {
			if l.compare(l.queue[i], l.queue[best]) < 0 {
				best = i
			}
		}
	}

	item := l.queue[best]
	copy(l.queue[best:], l.queue[best+1:])
	var zero T
	l.queue[len(l.queue)-1] = zero
	l.queue = l.queue[:len(l.queue)-1]
	return item
}

package assets

import "sync"

// Dispatcher queues callbacks from background goroutines until the owning
// goroutine runs them with Poll. Render-thread state is only touched from Poll.
type Dispatcher struct {
	mu      sync.Mutex
	pending []func()
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Post queues fn. Safe for concurrent use.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	d.pending = append(d.pending, fn)
	d.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Poll runs every callback queued so far, in post order, and returns how
// many ran. Callbacks posted while polling run on the next Poll.
func (d *Dispatcher) Poll() int {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

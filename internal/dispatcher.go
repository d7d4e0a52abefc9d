package internal

import (
	"net/http"
	"slices"
)

// Dispatcher drives one pass over an ordered handler list.
//
// Every call to Process invokes the handler at the cursor and moves the
// cursor one step forward, so a Dispatcher serves exactly one request.
// Build it fresh per request (Chain.Dispatcher does that) or call Reset
// before reusing it.
type Dispatcher struct {
	handlers []Handler
	cursor   int
}

// NewDispatcher creates a Dispatcher over the given handlers.
// Nil handlers are skipped.
func NewDispatcher(handlers ...Handler) *Dispatcher {
	d := &Dispatcher{handlers: make([]Handler, 0, len(handlers))}
	for _, h := range handlers {
		d.Pipe(h)
	}
	return d
}

// Pipe appends h to the handler list and returns the Dispatcher for chaining.
// A nil handler is ignored.
func (d *Dispatcher) Pipe(h Handler) *Dispatcher {
	if h != nil {
		d.handlers = append(d.handlers, h)
	}
	return d
}

// Process invokes the next unvisited handler with the Dispatcher as its
// continuation and returns its result unchanged.
// Returns ErrExhaustedChain when every handler has already been visited.
func (d *Dispatcher) Process(r *http.Request) (*Response, error) {
	if d.cursor >= len(d.handlers) {
		return nil, ErrExhaustedChain
	}

	h := d.handlers[d.cursor]
	d.cursor++

	return h.Handle(r, d)
}

// Position returns the number of handlers visited so far.
func (d *Dispatcher) Position() int {
	return d.cursor
}

// Len returns the number of piped handlers.
func (d *Dispatcher) Len() int {
	return len(d.handlers)
}

// Reset rewinds the cursor to the first handler.
func (d *Dispatcher) Reset() {
	d.cursor = 0
}

// newDispatcherFrom wraps an existing handler slice without copying it.
// The slice is clipped so a later Pipe never writes into the caller's array.
func newDispatcherFrom(handlers []Handler) *Dispatcher {
	return &Dispatcher{handlers: slices.Clip(handlers)}
}

var _ Delegate = (*Dispatcher)(nil)

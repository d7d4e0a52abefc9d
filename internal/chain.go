package internal

import "net/http"

// Chain is an immutable, ordered list of handlers.
//
// A Chain is safe for concurrent use: it never holds a cursor. Each request
// runs on its own Dispatcher obtained from Dispatcher or implicitly via Process.
type Chain struct {
	handlers []Handler
}

// NewChain creates a Chain from the given handlers in invocation order.
// Nil handlers are skipped.
func NewChain(handlers ...Handler) Chain {
	return Chain{}.Pipe(handlers...)
}

// Pipe returns a new Chain with more handlers appended.
// The receiver is never mutated and the returned Chain does not share
// its backing array with the receiver.
func (c Chain) Pipe(more ...Handler) Chain {
	out := make([]Handler, 0, len(c.handlers)+len(more))
	out = append(out, c.handlers...)
	for _, h := range more {
		if h != nil {
			out = append(out, h)
		}
	}
	return Chain{handlers: out}
}

// Len returns the number of handlers in the chain.
func (c Chain) Len() int {
	return len(c.handlers)
}

// Dispatcher returns a fresh Dispatcher positioned at the first handler.
func (c Chain) Dispatcher() *Dispatcher {
	return newDispatcherFrom(c.handlers)
}

// Process runs r through the chain on a fresh Dispatcher.
func (c Chain) Process(r *http.Request) (*Response, error) {
	return c.Dispatcher().Process(r)
}

// Handle lets a Chain be nested inside another chain.
// The inner handlers run first; if they all delegate, control returns to next.
func (c Chain) Handle(r *http.Request, next Delegate) (*Response, error) {
	return c.Pipe(HandlerFunc(func(r *http.Request, _ Delegate) (*Response, error) {
		return next.Process(r)
	})).Process(r)
}

package internal

import "net/http"

// Delegate continues the chain.
// The Dispatcher is the Delegate handed to every Handler it invokes.
type Delegate interface {
	Process(r *http.Request) (*Response, error)
}

// Handler is a single step of the pipeline.
// It either answers the request itself or calls next.Process to hand the
// request to the following handler.
//
// Example:
//
//	type Maintenance struct{ on bool }
//
//	func (m Maintenance) Handle(r *http.Request, next pipeline.Delegate) (*pipeline.Response, error) {
//	    if m.on {
//	        return pipeline.Text(http.StatusServiceUnavailable, "maintenance"), nil
//	    }
//	    return next.Process(r)
//	}
type Handler interface {
	Handle(r *http.Request, next Delegate) (*Response, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(r *http.Request, next Delegate) (*Response, error)

// Handle calls f(r, next).
func (f HandlerFunc) Handle(r *http.Request, next Delegate) (*Response, error) {
	return f(r, next)
}

// Terminal adapts a function that always answers into a Handler.
// Use it as the last element of a chain.
func Terminal(fn func(r *http.Request) (*Response, error)) Handler {
	return HandlerFunc(func(r *http.Request, _ Delegate) (*Response, error) {
		return fn(r)
	})
}

// ErrorHandler renders an error returned from the chain.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

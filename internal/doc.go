// Package internal provides the core types and implementation for the pipeline module.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/pipeline" instead, which re-exports the public API.
//
// # Core Types
//
//   - Handler: one step of the pipeline, Handle(r, next) (*Response, error)
//   - Delegate: the continuation handed to a Handler, Process(r) (*Response, error)
//   - Dispatcher: a single-pass cursor over an ordered handler list
//   - Chain: an immutable handler list that hands out a fresh Dispatcher per request
//   - Response: the value a Handler answers with
//   - Server: an http.Handler that runs each request through a Chain
//
// # Dispatch
//
// A Dispatcher invokes the handler at its cursor and passes itself as next.
// A handler that wants the rest of the chain to run calls next.Process(r);
// each such call moves the cursor one step. When the cursor runs past the
// last handler, Process returns ErrExhaustedChain.
//
//	d := internal.NewDispatcher().
//	    Pipe(trailingSlash).
//	    Pipe(csrf).
//	    Pipe(app)
//	resp, err := d.Process(r)
//
// A Dispatcher holds per-request state. For servers, build a Chain once and
// let Server (or Chain.Process) create a Dispatcher for every request.
//
// # Running
//
// Run serves any http.Handler with production timeouts and graceful
// shutdown on SIGINT/SIGTERM, running startup and shutdown hooks around it.
//
// # Errors
//
// Errors returned by handlers propagate unchanged to the caller. Server maps
// them to a status code through StatusOf: errors exposing StatusCode() use it,
// everything else (ErrExhaustedChain included) becomes 500.
package internal

// Package pipeline is a chain-of-responsibility request pipeline for
// net/http, with single-use CSRF tokens and trailing slash redirects in
// the middlewares package.
//
// A [Handler] receives the request and a [Delegate]. It either answers with
// a [Response] or calls next.Process(r) to hand the request to the handler
// after it. A [Dispatcher] drives one request through an ordered list;
// when every handler delegated, Process returns [ErrExhaustedChain].
//
// # Quick Start
//
//	csrf, err := middlewares.NewCSRF(session.Map{})
//	if err != nil {
//	    return err
//	}
//
//	app := pipeline.Terminal(func(r *http.Request) (*pipeline.Response, error) {
//	    return pipeline.Text(http.StatusOK, "saved"), nil
//	})
//
//	chain := pipeline.NewChain(
//	    middlewares.TrailingSlash(),
//	    middlewares.ParseBody(),
//	    csrf,
//	    app,
//	)
//
//	err = pipeline.Run(pipeline.NewServer(chain), pipeline.Address(":8080"))
//
// # Chains and Dispatchers
//
// A Dispatcher keeps a cursor and must not be shared between concurrent
// requests. A [Chain] is immutable: [Chain.Pipe] returns a new chain, and
// every [Chain.Process] call runs on a fresh Dispatcher. [Server] does that
// for each HTTP request. A Chain is itself a Handler, so chains nest.
//
// # Errors
//
// Handlers return errors instead of writing responses. Server renders them
// with the status from [StatusOf]: errors exposing StatusCode() (such as
// [HTTPError] and the middlewares' PanicError and TimeoutError) use it,
// everything else becomes 500.
package pipeline

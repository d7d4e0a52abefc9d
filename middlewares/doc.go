// Package middlewares provides pipeline handlers: CSRF protection, trailing
// slash redirects, body parsing, request IDs, panic recovery and timeouts.
//
// Every constructor returns an internal.Handler (pipeline.Handler), so the
// pieces compose in a Chain in priority order:
//
//	store := session.Map{}
//	csrf, err := middlewares.NewCSRF(store)
//	if err != nil {
//	    return err
//	}
//
//	chain := pipeline.NewChain(
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	    middlewares.RequestID(),
//	    middlewares.TrailingSlash(),
//	    middlewares.Timeout(10*time.Second),
//	    middlewares.ParseBody(),
//	    csrf,
//	    app,
//	)
//
// # CSRF
//
// [CSRF] keeps up to 50 outstanding tokens per session, oldest first.
// [CSRF.GenerateToken] appends a fresh random token; once the cap is reached
// the oldest token is dropped. Safe methods (GET, HEAD, OPTIONS) always pass.
// Every other request must carry an outstanding token in its parsed body
// (field "_csrf"), otherwise the chain stops with:
//
//   - [ErrNoCSRFToken] when the field is absent (403, code "csrf_missing")
//   - [ErrInvalidCSRFToken] when the value is not outstanding (403, code "csrf_invalid")
//
// An accepted token is removed before the rest of the chain runs, so every
// token validates at most one request. Handlers render tokens with
// [CSRFToken], which finds the middleware through the request context.
//
// [SessionCSRF] resolves a store per request for per-client sessions; pair it
// with session.NewCacheStore over a Memory or Redis cache so token updates stay
// atomic across concurrent requests and processes.
//
// # Trailing slash
//
// [TrailingSlash] answers "/path/" with a 301 to "/path" and never calls the
// rest of the chain for such requests. "/" is left alone.
//
// # Errors
//
// [PanicError] (500) and [TimeoutError] (504) expose StatusCode, so the
// pipeline Server renders them without extra configuration. Use
// [IsPanicError] / [AsPanicError] and [IsTimeoutError] / [AsTimeoutError] to
// inspect them in a custom error handler.
package middlewares

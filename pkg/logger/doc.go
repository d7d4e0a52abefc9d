// Package logger builds the structured slog loggers used across the pipeline.
//
// [New] reads a [Config] (level, json or text format, optional Sentry DSN)
// and returns a *slog.Logger whose records are enriched by context
// extractors. The request ID middleware ships one:
//
//	log, err := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	if err != nil {
//		return err
//	}
//	log.InfoContext(ctx, "token issued")
//	// {"level":"INFO","msg":"token issued","request_id":"01J..."}
//
// When SENTRY_DSN is set, warnings and errors are also forwarded to Sentry
// (errors become issues). Without a DSN, or if the SDK fails to start,
// logging stays on stdout. Call [Flush] during shutdown.
//
// [LogHandlerDecorator] can wrap any slog.Handler to add extraction.
// Library components default to [NewNope] when no logger is given.
package logger

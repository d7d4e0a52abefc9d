// Package health provides liveness and readiness HTTP probes for the demo
// server.
//
// [LivenessHandler] always answers 200. [ReadinessHandler] runs named
// [Checks] concurrently with [Run] and answers 503 if any fails:
//
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithTimeout(2*time.Second)))
//
// Responses are plain text ("OK" or "Service Unavailable") unless the client
// asks for JSON with ?format=json or an Accept header:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"..."}}}
package health

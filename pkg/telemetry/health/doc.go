// Package health aggregates readiness checks for Pulse.
//
// Components register a CheckFunc by name. The database store pings its
// pool when a database is configured. The poller is not a readiness gate:
// sensor failures are internal and show up only on the per-source failure
// counters. ReadinessHandler serves the aggregate as JSON on /ready, with
// 503 when any check fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("database", store.Ping)
//	mux.Handle("GET /ready", checker.ReadinessHandler())
package health

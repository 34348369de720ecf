// Package handlers implements the HTTP endpoints served by Pulse.
//
//	GET  /       "ok"
//	GET  /fast   {"id": "<uuid>", "text": "fast"}
//	GET  /slow   "slow" after server.slow_delay
//	GET  /db     greeting query on the connection pool
//	POST /db     greeting query on a dedicated connection
//
// Handlers are plain http.Handler values; method matching is done by the
// router.
package handlers

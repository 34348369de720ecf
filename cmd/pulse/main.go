// Pulse is a small HTTP service that exposes Prometheus metrics about its
// own traffic and about a polled sensor service.
//
// It serves a handful of demonstration endpoints, records request counts
// and latency histograms for each of them, and periodically polls a target
// service for weather and light readings that it publishes as gauges.
//
// Usage:
//
//	# Start with the defaults (listens on 127.0.0.1:9000)
//	TARGET_URL=http://sensors.local:8080 pulse run
//
//	# Start with a configuration file
//	pulse run --config /etc/pulse/pulse.yaml
//
//	# Check a configuration file and print the effective settings
//	pulse validate --config pulse.yaml --print
//
//	# Show version information
//	pulse version
package main

func main() {
	Execute()
}

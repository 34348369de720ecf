// Package poller periodically fetches readings from the sensor service and
// records them as metrics.
//
// The service is addressed by a single base URL (TARGET_URL). Each Source
// names a path below it and knows how to decode the JSON body into gauges:
//
//	GET /weather  {"humidity": 41.5, "pressure": 1013.2, "temp": 21.4}
//	  -> weather_humidity, weather_pressure, weather_temperature
//	GET /lux      {"lux": 320}
//	  -> lux_in_the_room
//
// Every fetch increments either <source>_requests_success_total or
// <source>_requests_fail_total. Gauges are only written on success, so a
// failing source keeps exporting its last good reading.
//
// # Scheduling
//
// By default a cycle runs, the poller waits poller.interval, and the next
// cycle runs; a slow cycle therefore delays the next one instead of
// overlapping it. Setting poller.schedule to a cron expression switches to
// robfig/cron with overlapping ticks skipped.
//
// # Usage
//
//	p, err := poller.New(&cfg.Poller, registry, poller.Options{Version: version})
//	if err != nil {
//		return err // metric families conflict
//	}
//	if err := p.Start(ctx); err != nil {
//		logger.Error("polling disabled", "error", err) // keep serving
//	}
package poller

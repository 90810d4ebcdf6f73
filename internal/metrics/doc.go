// Package metrics aggregates health probe attempts per candidate endpoint.
//
// Probes report attempts through Collector.RecordProbe, which hands them to
// a buffered channel without blocking. A single goroutine started by
// Collector.Start folds events into counters and latency samples:
//   - attempts and healthy responses per endpoint
//   - transport failures (no HTTP response)
//   - HTTP status code distribution
//   - latency average and P50, P95, P99
//
// Example usage:
//
//	collector := metrics.NewCollector(256, logger)
//	collector.Start(ctx)
//
//	probe := healthcheck.New(0, logger, collector)
//	probe.Check(ctx, "https://antihub.example")
//
//	snapshot := collector.Snapshot()
//
// Metrics describe past attempts only; they are never consulted when
// deciding whether a service is healthy. When the context ends the collector
// drains queued events before stopping.
package metrics

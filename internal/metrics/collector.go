package metrics

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// ProbeEvent is one candidate request made by a health probe.
type ProbeEvent struct {
	Timestamp time.Time
	Endpoint  string
	// StatusCode is 0 when the request failed before a response arrived.
	StatusCode int
	Elapsed    time.Duration
	OK         bool
}

type Collector struct {
	eventCh chan ProbeEvent
	metrics *Metrics
	logger  *slog.Logger
}

// NewCollector creates a Collector. A nil logger discards output.
func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Collector{
		eventCh: make(chan ProbeEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// RecordProbe queues an attempt. Events are dropped when the buffer is full.
func (c *Collector) RecordProbe(endpoint string, statusCode int, elapsed time.Duration, ok bool) {
	event := ProbeEvent{
		Timestamp:  time.Now(),
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Elapsed:    elapsed,
		OK:         ok,
	}

	select {
	case c.eventCh <- event:
	default:
		c.logger.Debug("metrics buffer full, dropping probe event",
			slog.String("endpoint", endpoint))
	}
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Debug("metrics collector started")
	defer c.logger.Debug("metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.metrics.RecordProbe(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.metrics.RecordProbe(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

package eventpublisher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/infrastructure/metrics"
)

// Publisher delivers change events to one external system.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// Dispatcher stamps change events with a sequence number and fans them out
// to the registered publishers from a single worker goroutine.
type Dispatcher struct {
	publishers []Publisher
	queue      chan domain.ChangeEvent
	seq        atomic.Uint64
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Config for Dispatcher.
type Config struct {
	Publishers []Publisher
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics // optional
	QueueSize  int              // Buffered events before Notify starts dropping
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}

	return &Dispatcher{
		publishers: cfg.Publishers,
		queue:      make(chan domain.ChangeEvent, cfg.QueueSize),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		now:        time.Now,
	}
}

// Notify assigns the next sequence number and queues the event for
// delivery. It never blocks: a full queue drops the event.
func (d *Dispatcher) Notify(ctx context.Context, event domain.ChangeEvent) domain.ChangeEvent {
	event.Sequence = d.seq.Add(1)
	if event.At.IsZero() {
		event.At = d.now().UTC()
	}

	select {
	case d.queue <- event:
	default:
		if d.metrics != nil {
			d.metrics.EventsDropped.Inc()
		}
		d.logger.Warn().
			Str("event_type", event.Type).
			Uint64("sequence", event.Sequence).
			Msg("change event queue full, dropping event")
	}

	return event
}

// Sequence returns the last assigned sequence number.
func (d *Dispatcher) Sequence() uint64 {
	return d.seq.Load()
}

// Start delivers queued events until the context is cancelled, then
// drains what is left.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().
		Int("publishers", len(d.publishers)).
		Int("queue_size", cap(d.queue)).
		Msg("change event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info().Msg("change event dispatcher shutting down")
			return ctx.Err()
		case event := <-d.queue:
			d.dispatch(ctx, event)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		select {
		case event := <-d.queue:
			d.dispatch(ctx, event)
		default:
			return
		}
	}
}

// dispatch hands one event to every publisher. A failing publisher does
// not stop delivery to the others.
func (d *Dispatcher) dispatch(ctx context.Context, event domain.ChangeEvent) {
	for _, p := range d.publishers {
		result := "ok"
		if err := p.Publish(ctx, event); err != nil {
			result = "error"
			d.logger.Error().
				Err(err).
				Str("publisher", p.Name()).
				Str("event_type", event.Type).
				Uint64("sequence", event.Sequence).
				Msg("failed to publish change event")
		}

		if d.metrics != nil {
			d.metrics.EventsPublished.WithLabelValues(p.Name(), event.Type, result).Inc()
		}
	}
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Name() string { return "log" }

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	p.logger.Info().
		Str("event_type", event.Type).
		Str("transaction_id", event.TransactionID).
		Uint64("sequence", event.Sequence).
		Time("at", event.At).
		Msg("transactions changed")

	return nil
}

// MetricsPublisher counts transaction changes.
type MetricsPublisher struct {
	metrics *metrics.Metrics
}

// NewMetricsPublisher creates a new MetricsPublisher.
func NewMetricsPublisher(m *metrics.Metrics) *MetricsPublisher {
	return &MetricsPublisher{metrics: m}
}

func (p *MetricsPublisher) Name() string { return "metrics" }

// Publish increments the counter matching the event type.
func (p *MetricsPublisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	switch event.Type {
	case domain.EventTypeTransactionCreated:
		p.metrics.TransactionsCreated.Inc()
	case domain.EventTypeTransactionDeleted:
		p.metrics.TransactionsDeleted.Inc()
	}
	return nil
}

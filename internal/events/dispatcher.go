package events

import (
	"context"
	"log/slog"
	"sync"

	"preview-api/meta"
)

// Handler reacts to a published domain event
type Handler func(ctx context.Context, event meta.Event) error

// Dispatcher delivers domain events to the handlers subscribed by event name.
// Handlers run synchronously in subscription order; a failing handler is logged
// and does not stop the others.
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
	any      []Handler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers h for events with the given name.
func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// SubscribeAll registers h for every event.
func (d *Dispatcher) SubscribeAll(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.any = append(d.any, h)
}

// Publish delivers events in order.
func (d *Dispatcher) Publish(ctx context.Context, events ...meta.Event) {
	for _, event := range events {
		d.mu.RLock()
		handlers := append(append([]Handler{}, d.any...), d.handlers[event.EventName()]...)
		d.mu.RUnlock()

		for _, h := range handlers {
			if err := h(ctx, event); err != nil {
				d.logger.ErrorContext(ctx, "event handler failed",
					slog.String("event", event.EventName()),
					slog.String("error", err.Error()))
			}
		}
	}
}

// PublishFrom drains the buffered events of every source and publishes them.
// Call it after the transaction that persisted the sources has committed.
func (d *Dispatcher) PublishFrom(ctx context.Context, sources ...meta.EventSource) {
	for _, src := range sources {
		if src == nil {
			continue
		}
		d.Publish(ctx, src.PullEvents()...)
	}
}

// LogHandler logs every event it receives.
func LogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event meta.Event) error {
		logger.InfoContext(ctx, "domain event",
			slog.String("event", event.EventName()),
			slog.Time("occurred_at", event.OccurredAt()),
			slog.Any("payload", event))
		return nil
	}
}

package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/observability"
	"context"
	"log/slog"
	"time"
)

// EventFanout pushes events to the personal room of a user.
//
// It provides best-effort, at-most-once delivery per online connection with no
// queueing for offline users and no retries. Sinks are fed in the calling
// goroutine, so events reach one connection in the order they were emitted.
// Each Consume is bounded by sinkTimeout.
//
// EventFanout is safe for concurrent use by multiple goroutines.
type EventFanout struct {
	log         *slog.Logger
	rooms       contract.IRoomManager
	metrics     *observability.Metrics
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, rooms contract.IRoomManager, metrics *observability.Metrics, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, rooms: rooms, metrics: metrics, sinkTimeout: sinkTimeout}
}

// Emit delivers e to every connection joined to the room of userID.
// With nobody online it does nothing.
func (f *EventFanout) Emit(ctx context.Context, userID chat.UserID, e event.DomainEvent) {
	sinks := f.rooms.Sinks(chat.UserRoom(userID))
	if len(sinks) == 0 {
		f.log.Debug("No live connection, event not delivered", "user_id", userID, "event", e.Name())
		return
	}
	f.Fanout(ctx, sinks, e)
}

// Fanout hands e to every sink, one after the other.
func (f *EventFanout) Fanout(ctx context.Context, sinks []contract.EventSink, e event.DomainEvent) {
	// Delivery must outlive the request that triggered it.
	base := context.WithoutCancel(ctx)
	for _, s := range sinks {
		f.deliver(base, s, e)
	}
}

func (f *EventFanout) deliver(ctx context.Context, s contract.EventSink, e event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, f.sinkTimeout)
	defer cancel()
	if err := s.Consume(sinkCtx, e); err != nil {
		f.log.Warn("Event not delivered to connection", "event", e.Name(), "error", err)
		if f.metrics != nil {
			f.metrics.EventsDropped.WithLabelValues(string(e.Name())).Inc()
		}
		return
	}
	if f.metrics != nil {
		f.metrics.EventsEmitted.WithLabelValues(string(e.Name())).Inc()
	}
}

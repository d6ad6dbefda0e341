package sink

import (
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"log/slog"
	"sync"
)

// ConnectionSink buffers events for one live connection.
// The connection writer drains Events until Done is closed.
type ConnectionSink struct {
	log    *slog.Logger
	events chan event.DomainEvent
	done   chan struct{}
	once   sync.Once
}

func NewConnectionSink(log *slog.Logger, bufferSize int) *ConnectionSink {
	return &ConnectionSink{
		log:    log,
		events: make(chan event.DomainEvent, bufferSize),
		done:   make(chan struct{}),
	}
}

// Consume is called by fanout
// Redirect the event through the concerned owner of the channel
// A full buffer drops the event
func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case <-s.done:
		return errors.ErrSinkClosed
	default:
	}
	select {
	case s.events <- e:
		return nil
	case <-s.done:
		return errors.ErrSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Warn("Connection buffer full, dropping event", "event", e.Name())
		return errors.ErrSinkFull
	}
}

func (s *ConnectionSink) Events() <-chan event.DomainEvent { return s.events }

func (s *ConnectionSink) Done() <-chan struct{} { return s.done }

// Close stops accepting events. It is safe to call more than once.
func (s *ConnectionSink) Close() {
	s.once.Do(func() { close(s.done) })
}

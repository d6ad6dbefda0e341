//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the outbound side of one live connection.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// ConnectionID identifies one live transport connection.
type ConnectionID string

// IRoomManager tracks live connections and the rooms they joined.
type IRoomManager interface {
	Register(connID ConnectionID, userID chat.UserID, sink EventSink)
	Unregister(connID ConnectionID)
	Join(connID ConnectionID, room chat.RoomName)
	Leave(connID ConnectionID, room chat.RoomName)
	Sinks(room chat.RoomName) []EventSink
	SinksExcept(room chat.RoomName, connID ConnectionID) []EventSink
}

// IEmitter pushes an event to every live connection of a user.
type IEmitter interface {
	Emit(ctx context.Context, userID chat.UserID, e event.DomainEvent)
}

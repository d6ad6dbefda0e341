package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	id string
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func newConn() contract.ConnectionID {
	return contract.ConnectionID(uuid.NewString())
}

func TestRoomManager_Join_One_Room_One_Connection(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()
	connID := newConn()
	room := chat.UserRoom("u1")
	sink := Sink{id: "1"}

	// Given no connection is registered
	req.Empty(rooms.sessions)
	req.Empty(rooms.roomMembers)

	// When a connection registers and joins its personal room
	rooms.Register(connID, "u1", sink)
	rooms.Join(connID, room)

	// Then
	req.Equal(1, rooms.Connections())
	req.Len(rooms.roomMembers, 1)
	req.Contains(rooms.roomMembers[room], connID)

	req.Len(rooms.Sinks(room), 1)
	req.Contains(rooms.Sinks(room), sink)
}

func TestRoomManager_One_User_Multiple_Devices(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()
	phone, laptop := newConn(), newConn()
	room := chat.UserRoom("u1")

	rooms.Register(phone, "u1", Sink{id: "phone"})
	rooms.Register(laptop, "u1", Sink{id: "laptop"})
	rooms.Join(phone, room)
	rooms.Join(laptop, room)

	req.Len(rooms.Sinks(room), 2)
	req.Equal([]contract.EventSink{Sink{id: "laptop"}}, rooms.SinksExcept(room, phone))
}

func TestRoomManager_Unregister_Leaves_Every_Room(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()
	connID := newConn()
	other := newConn()
	chatRoom := chat.ChatRoom("c1")

	// Given a connection in its personal room and a chat room shared with another one
	rooms.Register(connID, "u1", Sink{id: "1"})
	rooms.Register(other, "u2", Sink{id: "2"})
	rooms.Join(connID, chat.UserRoom("u1"))
	rooms.Join(connID, chatRoom)
	rooms.Join(other, chatRoom)

	// When the connection goes away
	rooms.Unregister(connID)

	// Then its personal room no longer exists
	req.Nil(rooms.Sinks(chat.UserRoom("u1")))
	req.NotContains(rooms.roomMembers, chat.UserRoom("u1"))

	// And only the other connection remains in the chat room
	req.Equal([]contract.EventSink{Sink{id: "2"}}, rooms.Sinks(chatRoom))
	req.Equal(1, rooms.Connections())

	// And unregistering twice is harmless
	rooms.Unregister(connID)
}

func TestRoomManager_Leave_And_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	rooms := NewRoomManager()
	connID := newConn()
	room := chat.ChatRoom("c1")

	// Joining without registering does nothing
	rooms.Join(connID, room)
	req.Nil(rooms.Sinks(room))

	rooms.Register(connID, "u1", Sink{})
	rooms.Join(connID, room)
	rooms.Leave(connID, room)

	req.Empty(rooms.roomMembers)
	req.Empty(rooms.sessions[connID].rooms)
}

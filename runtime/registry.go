package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"sync"
)

type Set map[contract.ConnectionID]struct{}

type session struct {
	userID chat.UserID
	sink   contract.EventSink
	rooms  map[chat.RoomName]struct{}
}

// RoomManager is the in-memory registry of live connections and rooms.
// Room membership is connection scoped: unregistering a connection
// removes it from every room it joined.
type RoomManager struct {
	mu          sync.RWMutex
	sessions    map[contract.ConnectionID]*session // map connection -> Sink
	roomMembers map[chat.RoomName]Set              // map room to connections
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		sessions:    make(map[contract.ConnectionID]*session),
		roomMembers: make(map[chat.RoomName]Set),
	}
}

// Register binds a connection to the sink delivering its events.
func (r *RoomManager) Register(connID contract.ConnectionID, userID chat.UserID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = &session{userID: userID, sink: sink, rooms: make(map[chat.RoomName]struct{})}
}

// Unregister drops the connection and leaves all its rooms.
func (r *RoomManager) Unregister(connID contract.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connID]
	if !ok {
		return
	}
	for room := range s.rooms {
		r.leave(connID, room)
	}
	delete(r.sessions, connID)
}

// Join is a no-op for unknown connections.
func (r *RoomManager) Join(connID contract.ConnectionID, room chat.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[connID]
	if !ok {
		return
	}
	s.rooms[room] = struct{}{}
	if _, ok := r.roomMembers[room]; !ok {
		r.roomMembers[room] = make(Set)
	}
	r.roomMembers[room][connID] = struct{}{}
}

func (r *RoomManager) Leave(connID contract.ConnectionID, room chat.RoomName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[connID]; ok {
		delete(s.rooms, room)
	}
	r.leave(connID, room)
}

// leave must be called with the lock held.
func (r *RoomManager) leave(connID contract.ConnectionID, room chat.RoomName) {
	if members, ok := r.roomMembers[room]; ok {
		delete(members, connID)

		// If no one is left in the room, remove the room entry entirely
		if len(members) == 0 {
			delete(r.roomMembers, room)
		}
	}
}

// Sinks returns the sinks of every connection joined to room, nil when empty.
func (r *RoomManager) Sinks(room chat.RoomName) []contract.EventSink {
	return r.SinksExcept(room, "")
}

// SinksExcept is Sinks without the given connection.
func (r *RoomManager) SinksExcept(room chat.RoomName, connID contract.ConnectionID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[room]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for member := range members {
		if member == connID {
			continue
		}
		if s, exists := r.sessions[member]; exists {
			activeSinks = append(activeSinks, s.sink)
		}
	}
	return activeSinks
}

// Connections returns the number of registered connections.
func (r *RoomManager) Connections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

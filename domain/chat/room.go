package chat

import "strings"

// RoomName identifies a multicast group of live connections.
// Personal rooms are named by user id, chat rooms by chat id.
type RoomName string

const chatRoomPrefix = "chat:"

func UserRoom(id UserID) RoomName {
	return RoomName(id)
}

func ChatRoom(id ChatID) RoomName {
	return RoomName(chatRoomPrefix + string(id))
}

func (r RoomName) IsChatRoom() bool {
	return strings.HasPrefix(string(r), chatRoomPrefix)
}

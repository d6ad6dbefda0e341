// Package event defines the closed set of realtime events exchanged with live connections.
package event

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

type Name string

const (
	ConnectedName       Name = "connected"
	JoinChatName        Name = "join-chat"
	TypingStartName     Name = "typing-start"
	TypingStopName      Name = "typing-stop"
	DisconnectName      Name = "disconnect"
	SocketErrorName     Name = "socket-error"
	MessageReceivedName Name = "message-received"
	MessageDeletedName  Name = "message-deleted"
)

// Frame is the envelope written on the wire for every event.
type Frame struct {
	Event Name            `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DomainEvent is an event pushed from the server to a live connection.
// The set of implementations is closed.
type DomainEvent interface {
	Name() Name
	payload() any
}

type Connected struct {
	UserID chat.UserID `json:"userId"`
}

type SocketError struct {
	Message string `json:"message"`
}

type TypingStarted struct {
	ChatID chat.ChatID `json:"chatId"`
}

type TypingStopped struct {
	ChatID chat.ChatID `json:"chatId"`
}

type MessageReceived struct {
	Message chat.MessageView
}

type MessageDeleted struct {
	Message chat.Message
}

func (Connected) Name() Name       { return ConnectedName }
func (SocketError) Name() Name     { return SocketErrorName }
func (TypingStarted) Name() Name   { return TypingStartName }
func (TypingStopped) Name() Name   { return TypingStopName }
func (MessageReceived) Name() Name { return MessageReceivedName }
func (MessageDeleted) Name() Name  { return MessageDeletedName }

func (e Connected) payload() any       { return e }
func (e SocketError) payload() any     { return e }
func (e TypingStarted) payload() any   { return e }
func (e TypingStopped) payload() any   { return e }
func (e MessageReceived) payload() any { return e.Message }
func (e MessageDeleted) payload() any  { return e.Message }

// Encode renders an outbound event as a JSON frame.
func Encode(e DomainEvent) ([]byte, error) {
	data, err := json.Marshal(e.payload())
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.Name(), err)
	}
	return json.Marshal(Frame{Event: e.Name(), Data: data})
}

// Inbound is an event received from a live connection.
// The set of implementations is closed.
type Inbound interface {
	Name() Name
	inbound()
}

type JoinChat struct {
	ChatID chat.ChatID `json:"chatId"`
}

type TypingStart struct {
	ChatID chat.ChatID `json:"chatId"`
}

type TypingStop struct {
	ChatID chat.ChatID `json:"chatId"`
}

type Disconnect struct{}

func (JoinChat) Name() Name    { return JoinChatName }
func (TypingStart) Name() Name { return TypingStartName }
func (TypingStop) Name() Name  { return TypingStopName }
func (Disconnect) Name() Name  { return DisconnectName }

func (JoinChat) inbound()    {}
func (TypingStart) inbound() {}
func (TypingStop) inbound()  {}
func (Disconnect) inbound()  {}

type chatRef struct {
	ChatID chat.ChatID `json:"chatId"`
}

// Decode parses and validates an inbound frame.
// Only join-chat, typing-start, typing-stop and disconnect are accepted.
func Decode(raw []byte) (Inbound, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
	}
	switch frame.Event {
	case DisconnectName:
		return Disconnect{}, nil
	case JoinChatName, TypingStartName, TypingStopName:
		ref, err := decodeChatRef(frame.Data)
		if err != nil {
			return nil, err
		}
		switch frame.Event {
		case JoinChatName:
			return JoinChat(ref), nil
		case TypingStartName:
			return TypingStart(ref), nil
		default:
			return TypingStop(ref), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, frame.Event)
	}
}

// decodeChatRef accepts either {"chatId": "..."} or a bare JSON string.
func decodeChatRef(data json.RawMessage) (chatRef, error) {
	var ref chatRef
	if len(data) == 0 {
		return ref, fmt.Errorf("%w: missing chat id", errors.ErrInvalidFrame)
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return ref, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
		}
		ref.ChatID = chat.ChatID(id)
	} else if err := json.Unmarshal(data, &ref); err != nil {
		return ref, fmt.Errorf("%w: %v", errors.ErrInvalidFrame, err)
	}
	ref.ChatID = chat.ChatID(strings.TrimSpace(string(ref.ChatID)))
	if ref.ChatID == "" {
		return ref, fmt.Errorf("%w: missing chat id", errors.ErrInvalidFrame)
	}
	return ref, nil
}

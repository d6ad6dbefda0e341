// Package chat contains core concepts of the chat system.
// This file defines identities, chats, messages and their read-models.
// No runtime, network, or storage logic should be added here.
package chat

import (
	"time"
)

type UserID string

type ChatID string

type MessageID string

// Identity is a registered user. The core only reads it.
type Identity struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// Chat is a conversation with a fixed participant set.
// LastMessage, when set, references a Message of this chat.
type Chat struct {
	ID           ChatID     `json:"id"`
	Name         string     `json:"name"`
	Participants []UserID   `json:"participants"`
	LastMessage  *MessageID `json:"lastMessage"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (c Chat) HasParticipant(userID UserID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Attachment points into external object storage.
type Attachment struct {
	URL      string `json:"url"`
	ObjectID string `json:"objectId"`
}

// Message is immutable once created, except for deletion.
type Message struct {
	ID          MessageID    `json:"id"`
	Sender      UserID       `json:"sender"`
	Chat        ChatID       `json:"chat"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// HasBody reports whether the message carries text or at least one attachment.
func (m Message) HasBody() bool {
	return m.Content != "" || len(m.Attachments) > 0
}

// Sender holds the display fields joined into delivered messages.
type Sender struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// MessageView is the read-model shaped for delivery.
type MessageView struct {
	ID          MessageID    `json:"id"`
	Sender      Sender       `json:"sender"`
	Chat        ChatID       `json:"chat"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func NewMessageView(m Message, sender Identity) MessageView {
	attachments := m.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}
	return MessageView{
		ID: m.ID,
		Sender: Sender{
			ID:       m.Sender,
			Username: sender.Username,
			Email:    sender.Email,
			Avatar:   sender.Avatar,
		},
		Chat:        m.Chat,
		Content:     m.Content,
		Attachments: attachments,
		CreatedAt:   m.CreatedAt,
	}
}

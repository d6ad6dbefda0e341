package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Create_Chat_And_Find_By_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openDB(t))
	chatID := chat.ChatID(uuid.NewString())

	// Given a chat with a duplicated participant
	req.NoError(repository.CreateChat(chat.Chat{ID: chatID, Participants: []chat.UserID{"u1", "u2", "u1"}}))

	c, err := repository.FindChatByID(chatID)
	req.NoError(err)
	req.Equal([]chat.UserID{"u1", "u2"}, c.Participants)
	req.Nil(c.LastMessage)
	req.False(c.CreatedAt.IsZero())

	_, err = repository.FindChatByIDAndParticipant(chatID, "u2")
	req.NoError(err)

	// Then a stranger gets the same error as a missing chat
	_, err = repository.FindChatByIDAndParticipant(chatID, "u3")
	req.ErrorIs(err, errors.ErrRecordNotFound)
	_, err = repository.FindChatByIDAndParticipant(chat.ChatID(uuid.NewString()), "u1")
	req.ErrorIs(err, errors.ErrRecordNotFound)

	req.Error(repository.CreateChat(chat.Chat{ID: chatID}))
}

func Test_Update_Last_Message(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openDB(t))
	chatID := chat.ChatID(uuid.NewString())
	req.NoError(repository.CreateChat(chat.Chat{ID: chatID, Participants: []chat.UserID{"u1"}}))

	req.NoError(repository.UpdateLastMessage(chatID, "m1"))
	req.NoError(repository.UpdateLastMessage(chatID, "m2"))

	c, err := repository.FindChatByID(chatID)
	req.NoError(err)
	req.NotNil(c.LastMessage)
	req.Equal(chat.MessageID("m2"), *c.LastMessage)

	req.ErrorIs(repository.UpdateLastMessage(chat.ChatID(uuid.NewString()), "m1"), errors.ErrRecordNotFound)
}

func Test_Clear_Last_Message_If_Matches(t *testing.T) {
	db := openDB(t)
	chats := NewChatRepository(db)
	messages := NewMessageRepository(db, slog.Default(), nil)

	setup := func(t *testing.T) (chat.ChatID, []chat.Message) {
		req := require.New(t)
		chatID := chat.ChatID(uuid.NewString())
		req.NoError(chats.CreateChat(chat.Chat{ID: chatID, Participants: []chat.UserID{"u1", "u2"}}))
		at := time.Now().UTC()
		ms := []chat.Message{
			newMessage(chatID, "u1", "one", at),
			newMessage(chatID, "u2", "two", at.Add(time.Second)),
		}
		for _, m := range ms {
			req.NoError(messages.CreateMessage(m))
			req.NoError(chats.UpdateLastMessage(chatID, m.ID))
		}
		return chatID, ms
	}

	t.Run("points to the newest remaining message", func(t *testing.T) {
		req := require.New(t)
		chatID, ms := setup(t)

		// When the newest message is deleted
		req.NoError(messages.DeleteMessage(ms[1]))
		latest, changed, err := chats.ClearLastMessageIfMatches(chatID, ms[1].ID)

		// Then the pointer moves back to the previous one
		req.NoError(err)
		req.True(changed)
		req.Equal(ms[0].ID, *latest)
		c, err := chats.FindChatByID(chatID)
		req.NoError(err)
		req.Equal(ms[0].ID, *c.LastMessage)
	})

	t.Run("becomes null when the chat is empty", func(t *testing.T) {
		req := require.New(t)
		chatID, ms := setup(t)

		for _, m := range ms {
			req.NoError(messages.DeleteMessage(m))
		}
		latest, changed, err := chats.ClearLastMessageIfMatches(chatID, ms[1].ID)

		req.NoError(err)
		req.True(changed)
		req.Nil(latest)
		c, err := chats.FindChatByID(chatID)
		req.NoError(err)
		req.Nil(c.LastMessage)
	})

	t.Run("leaves the pointer when another message is last", func(t *testing.T) {
		req := require.New(t)
		chatID, ms := setup(t)

		// When an older message is deleted
		req.NoError(messages.DeleteMessage(ms[0]))
		latest, changed, err := chats.ClearLastMessageIfMatches(chatID, ms[0].ID)

		// Then nothing is rewritten
		req.NoError(err)
		req.False(changed)
		req.Equal(ms[1].ID, *latest)
	})
}

func Test_User_Repository(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t))
	identity := chat.Identity{ID: chat.UserID(uuid.NewString()), Username: "carol"}

	req.NoError(repository.CreateUser(identity))
	req.Error(repository.CreateUser(identity))

	found, err := repository.FindIdentity(identity.ID)
	req.NoError(err)
	req.Equal(identity, found)

	_, err = repository.FindIdentity("missing")
	req.ErrorIs(err, errors.ErrRecordNotFound)
}

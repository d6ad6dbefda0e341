package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessage(chatID chat.ChatID, sender chat.UserID, content string, at time.Time) chat.Message {
	return chat.Message{
		ID:        chat.MessageID(uuid.NewString()),
		Sender:    sender,
		Chat:      chatID,
		Content:   content,
		CreatedAt: at,
	}
}

func Test_Record_Multiple_Message_Newest_First(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := NewUserRepository(db)
	repository := NewMessageRepository(db, slog.Default(), nil)

	alice := chat.Identity{ID: "alice", Username: "Alice", Email: "alice@mail.com", Avatar: "a.png"}
	req.NoError(users.CreateUser(alice))

	chatID := chat.ChatID(uuid.NewString())
	at := time.Now().UTC()
	messages := []chat.Message{
		newMessage(chatID, alice.ID, "first", at),
		newMessage(chatID, alice.ID, "second", at.Add(1*time.Minute)),
		newMessage(chatID, alice.ID, "third", at.Add(2*time.Minute)),
	}
	for _, m := range messages {
		req.NoError(repository.CreateMessage(m))
	}
	// Given a message in another chat
	req.NoError(repository.CreateMessage(newMessage(chat.ChatID(uuid.NewString()), alice.ID, "elsewhere", at)))

	// When listing the chat
	views, err := repository.ListMessagesWithSender(chatID)

	// Then only its messages come back, newest first, with sender fields joined
	req.NoError(err)
	req.Len(views, 3)
	req.Equal("third", views[0].Content)
	req.Equal("second", views[1].Content)
	req.Equal("first", views[2].Content)
	req.Equal(chat.Sender{ID: alice.ID, Username: "Alice", Email: "alice@mail.com", Avatar: "a.png"}, views[0].Sender)
	req.NotNil(views[0].Attachments)
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	db := openDB(t)

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	chatID := chat.ChatID(uuid.NewString())
	at := time.Now().UTC()
	for i := 0; i < 3; i++ {
		req.NoError(repository.CreateMessage(newMessage(chatID, "bob", fmt.Sprintf("hello %d", i), at.Add(time.Duration(i)*time.Second))))
	}

	views, err := repository.ListMessagesWithSender(chatID)

	// Then only the newest messages are kept
	req.NoError(err)
	req.Len(views, limit)
	req.Equal("hello 2", views[0].Content)
	req.Equal("hello 1", views[1].Content)
}

func Test_List_Empty_Chat_Returns_Empty_Slice(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	views, err := repository.ListMessagesWithSender(chat.ChatID(uuid.NewString()))

	req.NoError(err)
	req.NotNil(views)
	req.Empty(views)
}

func Test_Find_Message_With_Missing_Sender(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	// Given a message whose sender has no identity record
	m := newMessage(chat.ChatID(uuid.NewString()), "ghost", "boo", time.Now())
	req.NoError(repository.CreateMessage(m))

	// When reading it back
	view, err := repository.FindMessageWithSender(m.ID)

	// Then the sender only carries its id
	req.NoError(err)
	req.Equal(chat.Sender{ID: "ghost"}, view.Sender)
	req.Equal(m.Chat, view.Chat)
	req.Equal(m.CreatedAt.UTC(), view.CreatedAt)
}

func Test_Delete_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	m := newMessage(chat.ChatID(uuid.NewString()), "bob", "", time.Now())
	m.Attachments = []chat.Attachment{{URL: "http://cdn/x.png", ObjectID: "chat-app/messages/x.png"}}
	req.NoError(repository.CreateMessage(m))

	found, err := repository.FindMessageByID(m.ID)
	req.NoError(err)
	req.Equal(m.Attachments, found.Attachments)

	// When the message is deleted twice
	req.NoError(repository.DeleteMessage(found))
	req.NoError(repository.DeleteMessage(found))

	// Then it is gone from both the index and the chat scan
	_, err = repository.FindMessageByID(m.ID)
	req.ErrorIs(err, errors.ErrRecordNotFound)
	views, err := repository.ListMessagesWithSender(m.Chat)
	req.NoError(err)
	req.Empty(views)
}

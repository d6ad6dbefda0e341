//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IChatRepository interface {
	CreateChat(c chat.Chat) error
	FindChatByID(id chat.ChatID) (chat.Chat, error)
	FindChatByIDAndParticipant(id chat.ChatID, userID chat.UserID) (chat.Chat, error)
	UpdateLastMessage(id chat.ChatID, messageID chat.MessageID) error
	ClearLastMessageIfMatches(id chat.ChatID, deleted chat.MessageID) (*chat.MessageID, bool, error)
}

type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) IChatRepository {
	return &ChatRepository{db: db}
}

// CreateChat persists a chat with a de-duplicated participant list.
func (r ChatRepository) CreateChat(c chat.Chat) error {
	c.Participants = lo.Uniq(c.Participants)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := chatKey(c.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("chat %s already exists", c.ID)
		}
		return setJSON(txn, key, c)
	})
}

func (r ChatRepository) FindChatByID(id chat.ChatID) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, chatKey(id), &c)
	})
	if err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

// FindChatByIDAndParticipant returns errors.ErrRecordNotFound both when the chat
// does not exist and when userID is not one of its participants.
func (r ChatRepository) FindChatByIDAndParticipant(id chat.ChatID, userID chat.UserID) (chat.Chat, error) {
	c, err := r.FindChatByID(id)
	if err != nil {
		return chat.Chat{}, err
	}
	if !c.HasParticipant(userID) {
		return chat.Chat{}, errors.ErrRecordNotFound
	}
	return c, nil
}

// UpdateLastMessage sets the pointer unconditionally, the last writer wins.
func (r ChatRepository) UpdateLastMessage(id chat.ChatID, messageID chat.MessageID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var c chat.Chat
		if err := getJSON(txn, chatKey(id), &c); err != nil {
			return err
		}
		c.LastMessage = lo.ToPtr(messageID)
		return setJSON(txn, chatKey(id), c)
	})
}

// ClearLastMessageIfMatches re-derives the last message pointer after a deletion.
// Inside a single transaction it checks that the pointer still references the
// deleted message, then points it at the newest remaining message of the chat,
// or nil when none is left. It reports whether the pointer was rewritten.
// A concurrent write to the chat aborts the transaction with ErrLastMessageConflict.
func (r ChatRepository) ClearLastMessageIfMatches(id chat.ChatID, deleted chat.MessageID) (*chat.MessageID, bool, error) {
	var (
		latest  *chat.MessageID
		changed bool
	)
	err := r.db.Update(func(txn *badger.Txn) error {
		var c chat.Chat
		if err := getJSON(txn, chatKey(id), &c); err != nil {
			return err
		}
		if c.LastMessage == nil || *c.LastMessage != deleted {
			latest = c.LastMessage
			return nil
		}
		newest, err := newestMessage(txn, id)
		if err != nil {
			return err
		}
		if newest != nil {
			latest = lo.ToPtr(newest.ID)
		}
		c.LastMessage = latest
		changed = true
		return setJSON(txn, chatKey(id), c)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return nil, false, errors.ErrLastMessageConflict
	}
	if err != nil {
		return nil, false, err
	}
	return latest, changed, nil
}

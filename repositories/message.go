//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

type IMessageRepository interface {
	CreateMessage(message chat.Message) error
	FindMessageByID(id chat.MessageID) (chat.Message, error)
	FindMessageWithSender(id chat.MessageID) (chat.MessageView, error)
	ListMessagesWithSender(chatID chat.ChatID) ([]chat.MessageView, error)
	DeleteMessage(message chat.Message) error
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// CreateMessage persists a message and its id index in one transaction.
func (m MessageRepository) CreateMessage(message chat.Message) error {
	message = normalize(message)
	key := messageKey(message)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := setJSON(txn, key, message); err != nil {
			return err
		}
		return txn.Set(messageIndexKey(message.ID), key)
	})
}

func (m MessageRepository) FindMessageByID(id chat.MessageID) (chat.Message, error) {
	var message chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = findMessage(txn, id)
		return err
	})
	return message, err
}

// FindMessageWithSender returns the delivery read-model of a single message.
func (m MessageRepository) FindMessageWithSender(id chat.MessageID) (chat.MessageView, error) {
	var view chat.MessageView
	err := m.db.View(func(txn *badger.Txn) error {
		message, err := findMessage(txn, id)
		if err != nil {
			return err
		}
		sender, err := findSender(txn, message.Sender, nil)
		if err != nil {
			return err
		}
		view = chat.NewMessageView(message, sender)
		return nil
	})
	return view, err
}

// ListMessagesWithSender scans a chat newest-first and joins sender display fields.
// It stops once the configured limitMessages is reached.
func (m MessageRepository) ListMessagesWithSender(chatID chat.ChatID) ([]chat.MessageView, error) {
	views := make([]chat.MessageView, 0)
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := chatMessagesPrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		senders := make(map[chat.UserID]chat.Identity)
		for it.Seek(seekLast(prefix)); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(views) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			var message chat.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			}); err != nil {
				return err
			}
			sender, err := findSender(txn, message.Sender, senders)
			if err != nil {
				return err
			}
			views = append(views, chat.NewMessageView(message, sender))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// DeleteMessage removes a message and its index. Deleting twice is not an error.
func (m MessageRepository) DeleteMessage(message chat.Message) error {
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(messageKey(normalize(message))); err != nil {
			return err
		}
		return txn.Delete(messageIndexKey(message.ID))
	})
}

func findMessage(txn *badger.Txn, id chat.MessageID) (chat.Message, error) {
	item, err := txn.Get(messageIndexKey(id))
	if err == badger.ErrKeyNotFound {
		return chat.Message{}, errors.ErrRecordNotFound
	}
	if err != nil {
		return chat.Message{}, err
	}
	primary, err := item.ValueCopy(nil)
	if err != nil {
		return chat.Message{}, err
	}
	var message chat.Message
	if err = getJSON(txn, primary, &message); err != nil {
		return chat.Message{}, err
	}
	return message, nil
}

// newestMessage returns the most recently created message of a chat, nil when empty.
func newestMessage(txn *badger.Txn, chatID chat.ChatID) (*chat.Message, error) {
	prefix := chatMessagesPrefix(chatID)
	options := badger.DefaultIteratorOptions
	options.Reverse = true
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	it.Seek(seekLast(prefix))
	if !it.ValidForPrefix(prefix) {
		return nil, nil
	}
	var message chat.Message
	if err := it.Item().Value(func(val []byte) error {
		return json.Unmarshal(val, &message)
	}); err != nil {
		return nil, err
	}
	return &message, nil
}

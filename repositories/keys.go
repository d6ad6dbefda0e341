package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout:
//
//	user:{id}                             identity
//	chat:{id}                             chat
//	msg:{chatId}:{unix nano, 19 digits}:{id}  message, chronological inside a chat
//	idx:msg:{id}                          primary key of a message
const (
	userPrefix     = "user:"
	chatPrefix     = "chat:"
	messagePrefix  = "msg:"
	messageIdxPref = "idx:msg:"
)

func userKey(id chat.UserID) []byte {
	return []byte(userPrefix + string(id))
}

func chatKey(id chat.ChatID) []byte {
	return []byte(chatPrefix + string(id))
}

func chatMessagesPrefix(id chat.ChatID) []byte {
	return []byte(fmt.Sprintf("%s%s:", messagePrefix, id))
}

// messageKey pads the timestamp to 19 digits so lexicographical order is
// chronological, the message id breaks ties on identical timestamps.
func messageKey(m chat.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", messagePrefix, m.Chat, m.CreatedAt.UnixNano(), m.ID))
}

func messageIndexKey(id chat.MessageID) []byte {
	return []byte(messageIdxPref + string(id))
}

// seekLast returns a key sorting after every key of prefix, for reverse iteration.
func seekLast(prefix []byte) []byte {
	return append(append([]byte{}, prefix...), 0xff)
}

func getJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrRecordNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func setJSON(txn *badger.Txn, key []byte, src any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}

func normalize(m chat.Message) chat.Message {
	m.CreatedAt = m.CreatedAt.UTC()
	if m.Attachments == nil {
		m.Attachments = []chat.Attachment{}
	}
	return m
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// IUserRepository is the session store as seen by the core: a read-only identity lookup.
// CreateUser only serves tooling, registration lives outside this system.
type IUserRepository interface {
	CreateUser(identity chat.Identity) error
	FindIdentity(id chat.UserID) (chat.Identity, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists an identity, refusing to overwrite an existing id.
func (u UserRepository) CreateUser(identity chat.Identity) error {
	return u.db.Update(func(txn *badger.Txn) error {
		key := userKey(identity.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("user %s already exists", identity.ID)
		}
		return setJSON(txn, key, identity)
	})
}

// FindIdentity returns errors.ErrRecordNotFound when no identity exists.
func (u UserRepository) FindIdentity(id chat.UserID) (chat.Identity, error) {
	var identity chat.Identity
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &identity)
	})
	if err != nil {
		return chat.Identity{}, err
	}
	return identity, nil
}

// findSender resolves display fields inside an existing transaction.
// A vanished sender yields an identity carrying only its id.
func findSender(txn *badger.Txn, id chat.UserID, cache map[chat.UserID]chat.Identity) (chat.Identity, error) {
	if identity, ok := cache[id]; ok {
		return identity, nil
	}
	var identity chat.Identity
	err := getJSON(txn, userKey(id), &identity)
	switch {
	case err == errors.ErrRecordNotFound:
		identity = chat.Identity{ID: id}
	case err != nil:
		return chat.Identity{}, err
	}
	if cache != nil {
		cache[id] = identity
	}
	return identity, nil
}

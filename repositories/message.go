//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"synaptik/domain"
	"synaptik/errors"

	"github.com/dgraph-io/badger/v4"
)

const DefaultHistoryLimit = 50

type IMessageRepository interface {
	CreateMessage(ctx context.Context, message domain.Message) (domain.Message, error)
	FindMessage(ctx context.Context, id domain.MessageID) (domain.Message, error)
	ListMessages(ctx context.Context, parent domain.Parent, before *domain.Cursor, limit int) ([]domain.Message, error)
	DeleteMessagesFor(ctx context.Context, parent domain.Parent) (int, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{db: db, log: log}
}

func parentPrefix(parent domain.Parent) string {
	return fmt.Sprintf("msg:%s:%s:", parent.Kind, parent.ID)
}

// messageKey is formatted as "msg:{kind}:{parent}:{timestamp_padded}:{id}" to:
//  1. Keep a conversation's messages contiguous and sorted by time thanks to the
//     19-digit zero padding (lexicographical order).
//  2. Break ties between messages stamped at the same nanosecond with the id,
//     which is itself time ordered.
func messageKey(m domain.Message) string {
	return cursorKey(m.Parent(), domain.CursorOf(m))
}

// cursorKey without an id sorts before every message stamped at that instant.
func cursorKey(parent domain.Parent, c domain.Cursor) string {
	key := fmt.Sprintf("%s%019d", parentPrefix(parent), c.CreatedAt.UTC().UnixNano())
	if c.ID != "" {
		key += ":" + string(c.ID)
	}
	return key
}

func messageIDKey(id domain.MessageID) string { return "msgid:" + string(id) }

// CreateMessage stores the message and its id index atomically, provided its room
// or DM exists. The returned message is the one read back by subsequent queries.
func (r *MessageRepository) CreateMessage(_ context.Context, message domain.Message) (domain.Message, error) {
	if message.RoomID == nil && message.DMID == nil || message.RoomID != nil && message.DMID != nil {
		return domain.Message{}, errors.ErrInvalidSelector
	}
	message.CreatedAt = message.CreatedAt.UTC()
	if message.ReadBy == nil {
		message.ReadBy = []domain.UserID{}
	}
	key := messageKey(message)
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := requireParent(txn, message.Parent()); err != nil {
			return err
		}
		if err := setJSON(txn, key, message); err != nil {
			return err
		}
		return txn.Set([]byte(messageIDKey(message.ID)), []byte(key))
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func requireParent(txn *badger.Txn, parent domain.Parent) error {
	key, missing := roomKey(domain.RoomID(parent.ID)), errors.ErrRoomNotFound
	if parent.Kind == domain.KindDM {
		key, missing = dmKey(domain.DMID(parent.ID)), errors.ErrDMNotFound
	}
	found, err := exists(txn, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", missing, parent.ID)
	}
	return nil
}

func (r *MessageRepository) FindMessage(_ context.Context, id domain.MessageID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := getString(txn, messageIDKey(id))
		if err != nil {
			return err
		}
		message, err = getJSON[domain.Message](txn, key)
		return err
	})
	return message, err
}

// ListMessages walks a conversation backwards from before (exclusive, or from the
// newest message when nil) and returns at most limit messages, oldest first.
// A cursor without an id excludes every message stamped at its instant.
func (r *MessageRepository) ListMessages(_ context.Context, parent domain.Parent, before *domain.Cursor, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(parentPrefix(parent))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch before {
		case nil:
			// '~' sorts after every digit, so the seek lands on the newest message
			seekKey = append(prefix, '~')
		default:
			seekKey = []byte(cursorKey(parent, *before))
		}

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if bytes.Equal(it.Item().Key(), seekKey) {
				continue
			}
			if len(messages) == limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", limit))
				break
			}
			var message domain.Message
			err := it.Item().Value(func(value []byte) error {
				var err error
				message, err = decodeMessage(value)
				return err
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

// DeleteMessagesFor removes every message of a conversation and returns how many were deleted.
func (r *MessageRepository) DeleteMessagesFor(_ context.Context, parent domain.Parent) (int, error) {
	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(parentPrefix(parent))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	batch := r.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range keys {
		if err := batch.Delete(key); err != nil {
			return 0, err
		}
		if err := batch.Delete([]byte(messageIDKey(idFromKey(key)))); err != nil {
			return 0, err
		}
	}
	if err := batch.Flush(); err != nil {
		return 0, err
	}
	r.log.Debug("Messages deleted", "parent", parent.String(), "count", len(keys))
	return len(keys), nil
}

// idFromKey returns the last segment of a message key.
func idFromKey(key []byte) domain.MessageID {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return domain.MessageID(key[i+1:])
		}
	}
	return domain.MessageID(key)
}

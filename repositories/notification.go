//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"bootbot/domain"
)

type NotificationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewNotificationRepository(db *badger.DB, log *slog.Logger) NotificationRepository {
	return NotificationRepository{db: db, log: log}
}

// The key is formatted as "notif:{recipient}:{created_padded}:{uuid}" to:
//  1. Make the recipient prefix the due-lookup index.
//  2. Ensure insertion-order drains using 19-digit zero padding
//     (lexicographical order), with the UUID as a collision disconnector
//     if two memos arrive at the same nanosecond.
func notificationKey(n domain.Notification) []byte {
	return []byte(fmt.Sprintf("notif:%s:%019d:%s",
		n.Recipient,
		n.CreatedAt.UnixNano(),
		n.ID,
	))
}

func notificationPrefix(identity domain.Identity) []byte {
	return []byte(fmt.Sprintf("notif:%s:", identity))
}

func (r NotificationRepository) Enqueue(n domain.Notification) error {
	bytes, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(notificationKey(n), bytes)
	})
}

// DrainDue returns up to limit notifications addressed to identity, oldest
// first, removing them in the same transaction. The read and the removal
// commit together: a crash before commit redelivers, a crash after commit
// never does. The window strictly between the network send and this commit
// is the accepted at-most-once-per-restart risk.
func (r NotificationRepository) DrainDue(identity domain.Identity, limit int) ([]domain.Notification, error) {
	var due []domain.Notification
	err := r.db.Update(func(txn *badger.Txn) error {
		due = due[:0]
		prefix := notificationPrefix(identity)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(due) == limit {
				break
			}
			item := it.Item()
			var n domain.Notification
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			due = append(due, n)
			keys = append(keys, item.KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return due, nil
}

// Pending counts undelivered notifications for an identity.
func (r NotificationRepository) Pending(identity domain.Identity) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		prefix := notificationPrefix(identity)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// All iterates every queued notification across recipients. Used by the viewer.
func (r NotificationRepository) All(fn func(domain.Notification) error) error {
	return r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("notif:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var n domain.Notification
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return err
			}
			if err := fn(n); err != nil {
				return err
			}
		}
		return nil
	})
}

//go:generate go run go.uber.org/mock/mockgen -source=seen.go -destination=../mocks/mock_seen_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"bootbot/domain"
)

const seenPrefix = "seen:"

type SeenRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSeenRepository(db *badger.DB, log *slog.Logger) SeenRepository {
	return SeenRepository{db: db, log: log}
}

func seenKey(identity domain.Identity) []byte {
	return []byte(seenPrefix + identity.String())
}

// Record upserts the last-seen record for an identity. The read and the
// write happen in one transaction so concurrent handler completions cannot
// roll the timestamp backwards: an older record never overwrites a newer one.
func (r SeenRepository) Record(identity domain.Identity, rec domain.SeenRecord) error {
	key := seenKey(identity)
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch err {
		case nil:
			var prev domain.SeenRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &prev)
			}); err != nil {
				return err
			}
			if rec.At.Before(prev.At) {
				r.log.Debug(fmt.Sprintf("Ignoring stale seen update for %s", identity))
				return nil
			}
		case badger.ErrKeyNotFound:
		default:
			return err
		}

		bytes, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
}

// Get returns the seen record for an identity, reporting whether one exists.
func (r SeenRepository) Get(identity domain.Identity) (domain.SeenRecord, bool, error) {
	var rec domain.SeenRecord
	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(seenKey(identity))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, found, err
}

// All iterates every seen record, oldest key first. Used by the viewer.
func (r SeenRepository) All(fn func(domain.Identity, domain.SeenRecord) error) error {
	return r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(seenPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			identity := domain.Identity(item.Key()[len(prefix):])
			var rec domain.SeenRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			if err := fn(identity, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

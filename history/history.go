// Package history keeps recent transcripts in memory.
//
// Entries live in an in-memory badger database and are gone when the process
// exits. Each entry expires after a TTL, and the store keeps at most a fixed
// number of the newest entries.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"go.aimuz.me/whispertype/internal/types"
)

// DefaultTTL is how long a transcript stays in history.
const DefaultTTL = 24 * time.Hour

// DefaultSize is the maximum number of transcripts kept.
const DefaultSize = 50

var prefix = []byte("transcript/")

// Store is an in-memory transcript history.
type Store struct {
	db   *badger.DB
	ttl  time.Duration
	size int

	mu sync.Mutex // serializes Add so trimming sees a consistent count
}

// Options configures a Store. Zero values use the defaults.
type Options struct {
	Size int
	TTL  time.Duration
}

// Open creates an empty in-memory store.
func Open(opts Options) (*Store, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}

	dbOpts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	return &Store{db: db, ttl: opts.TTL, size: opts.Size}, nil
}

// Close releases the database. All entries are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// key orders entries by creation time, then by id for entries created in the
// same millisecond.
func key(t types.Transcript) []byte {
	k := make([]byte, 0, len(prefix)+8+len(t.ID))
	k = append(k, prefix...)
	k = binary.BigEndian.AppendUint64(k, uint64(t.Created))
	return append(k, t.ID...)
}

// Add stores t and drops the oldest entries beyond the size limit.
func (s *Store) Add(t types.Transcript) error {
	if t.ID == "" {
		return fmt.Errorf("add transcript: empty id")
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(key(t), data).WithTTL(s.ttl)); err != nil {
			return fmt.Errorf("set transcript: %w", err)
		}
		return s.trim(txn)
	})
}

// trim deletes everything but the newest s.size entries.
func (s *Store) trim(txn *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	it := txn.NewIterator(opts)

	var stale [][]byte
	n := 0
	for it.Seek(seekEnd()); it.ValidForPrefix(prefix); it.Next() {
		n++
		if n > s.size {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
	}
	it.Close()

	for _, k := range stale {
		if err := txn.Delete(k); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return nil
}

// Recent returns up to n transcripts, newest first. n <= 0 returns all.
func (s *Store) Recent(n int) ([]types.Transcript, error) {
	var out []types.Transcript
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seekEnd()); it.ValidForPrefix(prefix); it.Next() {
			if n > 0 && len(out) >= n {
				break
			}
			var t types.Transcript
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &t)
			})
			if err != nil {
				return fmt.Errorf("decode transcript: %w", err)
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of stored transcripts.
func (s *Store) Len() int {
	n := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n
}

// seekEnd returns a key sorting after every history key, for reverse iteration.
func seekEnd() []byte {
	return append(append([]byte{}, prefix...), 0xFF)
}

package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ytget/app-organizer/internal/platform"
)

// Bucket names
var (
	bucketIcons = []byte("icons")
	bucketMeta  = []byte("meta")
)

// DefaultOpenTimeout bounds waiting for the database file lock
const DefaultOpenTimeout = 1 * time.Second

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("icon store is closed")

// Stats describes the stored icons
type Stats struct {
	Path   string
	Icons  int
	Bytes  int64
	Oldest time.Time
	Newest time.Time
}

// IconStore keeps encoded icon bytes keyed by app identifier.
// An empty path gives a memory-only store.
type IconStore struct {
	path string
	db   *bolt.DB

	mu      sync.RWMutex
	closed  bool
	memory  map[string][]byte
	fetched map[string]time.Time
}

// Open opens or creates the store at path
func Open(path string) (*IconStore, error) {
	if path == "" {
		return &IconStore{
			memory:  make(map[string][]byte),
			fetched: make(map[string]time.Time),
		}, nil
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: DefaultOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketIcons, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &IconStore{path: path, db: db}, nil
}

// Path returns the database path, empty for memory-only stores
func (s *IconStore) Path() string {
	return s.path
}

// Close releases the database
func (s *IconStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the stored bytes for id
func (s *IconStore) Get(id string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	if s.db == nil {
		data, ok := s.memory[id]
		if !ok {
			return nil, false, nil
		}
		return append([]byte(nil), data...), true, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketIcons).Get([]byte(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

// Put stores data for id and stamps the fetch time
func (s *IconStore) Put(id string, data []byte) error {
	return s.put(id, data, time.Now())
}

func (s *IconStore) put(id string, data []byte, at time.Time) error {
	if id == "" {
		return fmt.Errorf("empty app id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.db == nil {
		s.memory[id] = append([]byte(nil), data...)
		s.fetched[id] = at
		return nil
	}

	stamp, err := at.UTC().MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketIcons).Put([]byte(id), data); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put([]byte(id), stamp)
	})
}

// Delete removes id. Missing ids are not an error.
func (s *IconStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.db == nil {
		delete(s.memory, id)
		delete(s.fetched, id)
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketIcons).Delete([]byte(id)); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Delete([]byte(id))
	})
}

// FetchedAt returns when id was stored
func (s *IconStore) FetchedAt(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return time.Time{}, false
	}
	if s.db == nil {
		at, ok := s.fetched[id]
		return at, ok
	}

	var at time.Time
	var ok bool
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMeta).Get([]byte(id)); v != nil {
			ok = at.UnmarshalBinary(v) == nil
		}
		return nil
	})
	return at, ok
}

// IDs returns the stored identifiers in sorted order
func (s *IconStore) IDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	ids := make([]string, 0)
	if s.db == nil {
		for id := range s.memory {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIcons).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Count returns the number of stored icons
func (s *IconStore) Count() (int, error) {
	stats, err := s.Stats()
	return stats.Icons, err
}

// Stats summarizes the stored icons
func (s *IconStore) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Path: s.path}
	if s.closed {
		return stats, ErrClosed
	}

	observe := func(at time.Time) {
		if stats.Oldest.IsZero() || at.Before(stats.Oldest) {
			stats.Oldest = at
		}
		if at.After(stats.Newest) {
			stats.Newest = at
		}
	}

	if s.db == nil {
		for id, data := range s.memory {
			stats.Icons++
			stats.Bytes += int64(len(data))
			observe(s.fetched[id])
		}
		return stats, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		return tx.Bucket(bucketIcons).ForEach(func(k, v []byte) error {
			stats.Icons++
			stats.Bytes += int64(len(v))
			var at time.Time
			if raw := meta.Get(k); raw != nil && at.UnmarshalBinary(raw) == nil {
				observe(at)
			}
			return nil
		})
	})
	return stats, err
}

// Clear removes every stored icon and returns how many were removed
func (s *IconStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if s.db == nil {
		n := len(s.memory)
		s.memory = make(map[string][]byte)
		s.fetched = make(map[string]time.Time)
		return n, nil
	}

	var n int
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketIcons).ForEach(func(_, _ []byte) error {
			n++
			return nil
		}); err != nil {
			return err
		}
		for _, bucket := range [][]byte{bucketIcons, bucketMeta} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	return n, err
}

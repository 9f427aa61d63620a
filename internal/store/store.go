package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketLists = []byte("lists")
	bucketMeta  = []byte("meta")
)

// CatalogStore holds the catalog lists served by catalogd, using BoltDB.
type CatalogStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens the catalog database at path. An empty path keeps the
// catalog in memory only.
func Open(path string) (*CatalogStore, error) {
	if path == "" {
		// Memory-only mode (no persistence)
		return &CatalogStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketLists, bucketMeta} {
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

	return &CatalogStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *CatalogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Persistent reports whether the store is backed by a database file
func (s *CatalogStore) Persistent() bool {
	return s.db != nil
}

// === Generic helpers ===

func (s *CatalogStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

// setAll writes several keys of one bucket in a single transaction
func (s *CatalogStore) setAll(bucket []byte, values map[string]interface{}) error {
	encoded := make(map[string][]byte, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		encoded[key] = data
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucket)
			for key, data := range encoded {
				if err := b.Put([]byte(key), data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	// Update memory cache
	s.mu.Lock()
	for key, data := range encoded {
		s.cache[string(bucket)+":"+key] = data
	}
	s.mu.Unlock()
	return nil
}

func (s *CatalogStore) deletePrefix(bucket []byte, prefix string) error {
	// Clear from memory cache
	s.mu.Lock()
	cachePrefix := string(bucket) + ":" + prefix
	for k := range s.cache {
		if strings.HasPrefix(k, cachePrefix) {
			delete(s.cache, k)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Delete from BoltDB using prefix scan
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefixBytes := []byte(prefix)
		for k, _ := c.Seek(prefixBytes); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Seek(prefixBytes) {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Lists (key: list:{kind}) ===

func listKey(kind domain.ListKind) string {
	return "list:" + string(kind)
}

// List returns every item of a list in catalog order
func (s *CatalogStore) List(kind domain.ListKind) ([]domain.CatalogItem, bool) {
	var items []domain.CatalogItem
	ok := s.get(bucketLists, listKey(kind), &items)
	return items, ok
}

// ReplaceList stores items as the full content of a list
func (s *CatalogStore) ReplaceList(kind domain.ListKind, items []domain.CatalogItem) error {
	if items == nil {
		items = []domain.CatalogItem{}
	}
	if err := s.setAll(bucketLists, map[string]interface{}{listKey(kind): items}); err != nil {
		return fmt.Errorf("failed to save list %s: %w", kind, err)
	}
	// Save timestamp separately for freshness checks
	return s.setAll(bucketMeta, map[string]interface{}{listKey(kind) + ":ts": time.Now().Unix()})
}

// DeleteList removes a list and its metadata
func (s *CatalogStore) DeleteList(kind domain.ListKind) error {
	if err := s.deletePrefix(bucketLists, listKey(kind)); err != nil {
		return err
	}
	return s.deletePrefix(bucketMeta, listKey(kind)+":")
}

// UpdatedAt returns when a list was last replaced
func (s *CatalogStore) UpdatedAt(kind domain.ListKind) (time.Time, bool) {
	var ts int64
	if !s.get(bucketMeta, listKey(kind)+":ts", &ts) {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}

// Count returns the number of items in a list
func (s *CatalogStore) Count(kind domain.ListKind) int {
	items, _ := s.List(kind)
	return len(items)
}

// Kinds returns the lists present in the store
func (s *CatalogStore) Kinds() []domain.ListKind {
	var kinds []domain.ListKind
	for _, k := range []domain.ListKind{domain.ListMovies, domain.ListSeries} {
		if _, ok := s.List(k); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Page returns page (1-based) of a list, size items per page. When genres
// is non-empty only items carrying all of them are paged. A page past the
// end is empty.
func (s *CatalogStore) Page(kind domain.ListKind, page, size int, genres []string) ([]domain.CatalogItem, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPage, page)
	}
	if size <= 0 {
		return nil, fmt.Errorf("store: page size must be positive, got %d", size)
	}

	items, ok := s.List(kind)
	if !ok {
		return []domain.CatalogItem{}, nil
	}

	if len(genres) > 0 {
		filtered := items[:0:0]
		for _, item := range items {
			if item.HasGenres(genres) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	start := (page - 1) * size
	if start >= len(items) {
		return []domain.CatalogItem{}, nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

// Clear removes all catalog data
func (s *CatalogStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	// Delete all data from all buckets
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketLists, bucketMeta} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.First() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

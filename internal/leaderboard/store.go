package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Store persists records and returns the best ones.
type Store interface {
	// Save validates and stores a record.
	Save(ctx context.Context, r Record) error
	// Top returns at most limit records, best first.
	Top(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// ErrUnknownStore is returned by Open for an unsupported location.
var ErrUnknownStore = errors.New("unknown store")

// Open picks a store from a location string:
//
//	"" or "memory"          in-process, lost on exit
//	"file:<path>"           YAML document at path
//	"postgres://..."        PostgreSQL via lib/pq
func Open(ctx context.Context, location string) (Store, error) {
	switch {
	case location == "" || location == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(location, "file:"):
		return OpenFileStore(strings.TrimPrefix(location, "file:"))
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"):
		return OpenPostgresStore(ctx, location)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStore, location)
}

// MemoryStore keeps records in a sorted slice.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = insertRanked(m.records, r)
	return nil
}

func (m *MemoryStore) Top(_ context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return topN(m.records, limit), nil
}

func (m *MemoryStore) Close() error { return nil }

// insertRanked inserts r keeping records ordered by rank.
func insertRanked(records []Record, r Record) []Record {
	i, _ := slices.BinarySearchFunc(records, r, func(e, target Record) int {
		if c := compareRank(e, target); c != 0 {
			return c
		}
		// Equal rank goes after existing entries.
		return -1
	})
	return slices.Insert(records, i, r)
}

func topN(records []Record, limit int) []Record {
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	return slices.Clone(records[:limit])
}

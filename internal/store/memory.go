package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/point-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh sample is cached for a point.
	ErrNotFound = errors.New("no cached sample for point")
)

type entry struct {
	snapshot weather.Snapshot
	storedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of samples keyed by point.
type MemoryStore struct {
	mu sync.RWMutex

	// key: point key
	data map[string]*entry
	// insertion order, oldest first; used for eviction
	order []string

	maxEntries int           // 0 = unlimited
	maxAge     time.Duration // 0 = never expires

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot stores the snapshot for its point, replacing any previous one,
// and enforces retention.
func (s *MemoryStore) SaveSnapshot(snapshot weather.Snapshot) {
	key := snapshot.Point.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, ok := s.data[key]; ok {
		s.removeFromOrder(key)
	}
	s.data[key] = &entry{snapshot: snapshot, storedAt: now}
	s.order = append(s.order, key)

	// Enforce retention by age. order is sorted by storedAt.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		i := 0
		for ; i < len(s.order); i++ {
			if !s.data[s.order[i]].storedAt.Before(cutoff) {
				break
			}
			delete(s.data, s.order[i])
		}
		s.order = s.order[i:]
	}

	// Enforce retention by count.
	if s.maxEntries > 0 && len(s.order) > s.maxEntries {
		over := len(s.order) - s.maxEntries
		for _, k := range s.order[:over] {
			delete(s.data, k)
		}
		s.order = s.order[over:]
	}
}

// GetLatest returns the cached snapshot for p if it has not expired.
func (s *MemoryStore) GetLatest(p weather.Point) (weather.Snapshot, error) {
	key := p.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return weather.Snapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(e.storedAt) > s.maxAge {
		return weather.Snapshot{}, ErrNotFound
	}
	return e.snapshot, nil
}

// Len returns the number of cached points, including expired ones not yet purged.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

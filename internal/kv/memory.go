package kv

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memItem struct {
	fields    map[string]string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-memory Store for development and tests. Expiry is
// evaluated lazily on access against an injectable clock.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memItem
	sets  map[string]map[string]struct{}
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memItem),
		sets:  make(map[string]map[string]struct{}),
		now:   time.Now,
	}
}

// SetClock overrides the clock used for expiry checks. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *MemoryStore) expired(item memItem) bool {
	return !item.expiresAt.IsZero() && s.now().After(item.expiresAt)
}

// SetMap stores a copy of the field map.
func (s *MemoryStore) SetMap(_ context.Context, key string, fields map[string]string) error {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.items[key]
	item.fields = copied
	s.items[key] = item

	return nil
}

// GetMap returns a copy of the field map, or an empty map when the key is
// missing or expired.
func (s *MemoryStore) GetMap(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok || s.expired(item) {
		return map[string]string{}, nil
	}

	copied := make(map[string]string, len(item.fields))
	for k, v := range item.fields {
		copied[k] = v
	}

	return copied, nil
}

// Expire sets the key's expiry relative to the store clock.
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.items[key]; ok {
		item.expiresAt = s.now().Add(ttl)
		s.items[key] = item
	}

	return nil
}

// Delete removes the given keys and any sets stored under them.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.items, key)
		delete(s.sets, key)
	}

	return nil
}

// SAdd adds member to the set at key.
func (s *MemoryStore) SAdd(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sets[key] == nil {
		s.sets[key] = make(map[string]struct{})
	}

	s.sets[key][member] = struct{}{}

	return nil
}

// SRem removes member from the set at key.
func (s *MemoryStore) SRem(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sets[key], member)

	return nil
}

// SMembers returns the members of the set at key.
func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}

	return members, nil
}

// ScanKeys returns live keys starting with prefix.
func (s *MemoryStore) ScanKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string

	for key, item := range s.items {
		if strings.HasPrefix(key, prefix) && !s.expired(item) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// StorageBytes approximates memory usage by summing field sizes.
func (s *MemoryStore) StorageBytes(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64

	for key, item := range s.items {
		total += int64(len(key))
		for k, v := range item.fields {
			total += int64(len(k) + len(v))
		}
	}

	return total, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close clears the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]memItem)
	s.sets = make(map[string]map[string]struct{})

	return nil
}

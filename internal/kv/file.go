package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileExt = ".json"

// FileStore implements Store with one JSON file per key. The file holds the
// flat field map (or, for set keys, a JSON array of members). The file
// modification time is the source of truth for expiry, not a field inside
// the JSON; per-key TTLs are tracked in memory and fall back to the store
// default after a restart.
type FileStore struct {
	dir        string
	defaultTTL time.Duration

	mu   sync.Mutex
	ttls map[string]time.Duration

	now func() time.Time
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string, defaultTTL time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore{
		dir:        dir,
		defaultTTL: defaultTTL,
		ttls:       make(map[string]time.Duration),
		now:        time.Now,
	}, nil
}

// SetClock overrides the clock used for expiry checks. Test hook.
func (s *FileStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *FileStore) path(key string) string {
	// Keys use ':' namespacing which is filename-safe; path separators
	// are not and get replaced.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")

	return filepath.Join(s.dir, safe+fileExt)
}

func (s *FileStore) ttl(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ttl, ok := s.ttls[key]; ok {
		return ttl
	}

	return s.defaultTTL
}

// fresh reports whether the file at path is within its TTL.
func (s *FileStore) fresh(key, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return s.now().Sub(info.ModTime()) <= s.ttl(key)
}

// SetMap writes the field map as a JSON object. The write goes through a
// temp file and rename so readers never observe a partial file.
func (s *FileStore) SetMap(_ context.Context, key string, fields map[string]string) error {
	return s.writeJSON(key, fields)
}

func (s *FileStore) writeJSON(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	path := s.path(key)

	tmp, err := os.CreateTemp(s.dir, "write-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// GetMap reads the field map for key. Missing, expired or unreadable files
// read as empty, matching the Store contract.
func (s *FileStore) GetMap(_ context.Context, key string) (map[string]string, error) {
	path := s.path(key)

	if !s.fresh(key, path) {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}

		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	fields := make(map[string]string)
	if err := json.Unmarshal(data, &fields); err != nil {
		// Partially written or foreign file; treat as absent.
		return map[string]string{}, nil
	}

	return fields, nil
}

// Expire records the TTL for key. The file's mtime already marks the write
// time, so nothing is touched on disk.
func (s *FileStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	s.ttls[key] = ttl
	s.mu.Unlock()

	return nil
}

// Delete removes the files for the given keys.
func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		s.mu.Lock()
		delete(s.ttls, key)
		s.mu.Unlock()
	}

	return nil
}

func (s *FileStore) readSet(key string) (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]struct{}{}, nil
		}

		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return map[string]struct{}{}, nil
	}

	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}

	return set, nil
}

func (s *FileStore) writeSet(key string, set map[string]struct{}) error {
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}

	return s.writeJSON(key, members)
}

// SAdd adds member to the set file at key.
func (s *FileStore) SAdd(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.readSet(key)
	if err != nil {
		return err
	}

	set[member] = struct{}{}

	return s.writeSet(key, set)
}

// SRem removes member from the set file at key.
func (s *FileStore) SRem(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.readSet(key)
	if err != nil {
		return err
	}

	delete(set, member)

	return s.writeSet(key, set)
}

// SMembers returns all members of the set file at key.
func (s *FileStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.readSet(key)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}

	return members, nil
}

// ScanKeys lists cache files whose key starts with prefix. Expired keys are
// included; the cache layer decides what to do with them during sweeps.
func (s *FileStore) ScanKeys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var keys []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}

		key := strings.TrimSuffix(name, fileExt)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// StorageBytes sums the sizes of all cache files.
func (s *FileStore) StorageBytes(_ context.Context) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var total int64

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		total += info.Size()
	}

	return total, nil
}

// Ping verifies the cache directory is accessible.
func (s *FileStore) Ping(_ context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Package cache implements a JSON-file key/value cache with TTL expiry.
// One file per key, whole-file overwrite on write, so a racing reader
// always sees a previously complete file.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is how long entries stay fresh unless configured otherwise.
const DefaultTTL = 4 * time.Hour

// entry is the on-disk shape of a cache file.
type entry struct {
	Timestamp time.Time       `json:"timestamp"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
}

// Store is a file-backed cache. All failures are non-fatal: a read error
// is a miss, a write error is reported but swallowed by callers.
type Store struct {
	dir string
	ttl time.Duration
	log zerolog.Logger
}

// NewStore creates the cache directory if needed. A non-positive ttl
// falls back to DefaultTTL.
func NewStore(dir string, ttl time.Duration, log zerolog.Logger) (*Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{
		dir: dir,
		ttl: ttl,
		log: log.With().Str("component", "cache").Logger(),
	}, nil
}

// path builds the file path for a key: a sanitized human-readable prefix
// plus a content hash suffix, so arbitrary symbol strings cannot collide
// or break the filesystem naming.
func (s *Store) path(key string) string {
	sum := md5.Sum([]byte(key))
	suffix := hex.EncodeToString(sum[:])[:10]
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", sanitize(key), suffix))
}

func sanitize(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Get returns the cached payload for key if the entry exists, parses,
// and is younger than the TTL. Corrupt or unreadable entries are misses.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if time.Since(e.Timestamp) >= s.ttl {
		return nil, false
	}
	return e.Data, true
}

// GetJSON unmarshals the cached payload for key into v.
func (s *Store) GetJSON(key string, v any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

// Set persists payload under key with a fresh creation timestamp,
// overwriting any prior entry.
func (s *Store) Set(key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	e := entry{Timestamp: time.Now(), Key: key, Data: raw}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// SweepExpired removes entries past the TTL, plus files that no longer
// parse. Best effort: per-file errors are skipped.
func (s *Store) SweepExpired() int {
	removed := 0
	for _, path := range s.listFiles() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e entry
		stale := json.Unmarshal(data, &e) != nil || time.Since(e.Timestamp) >= s.ttl
		if !stale {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("swept expired cache entries")
	}
	return removed
}

// ClearAll unconditionally removes every cache file.
func (s *Store) ClearAll() int {
	removed := 0
	for _, path := range s.listFiles() {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed
}

func (s *Store) listFiles() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, de.Name()))
	}
	return paths
}

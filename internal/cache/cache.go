// Package cache persists analysis results as JSON snapshots so repeated MCP
// calls with identical inputs skip the simulation entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// envelope wraps a cached payload with its write time for TTL checks.
type envelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Payload json.RawMessage `json:"payload"`
}

// Store is a file-backed result cache. A zero TTL disables expiry.
type Store struct {
	dir string
	ttl time.Duration
}

// New creates a store rooted at dir.
func New(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl}
}

// Key derives a stable cache key from the run identity: scenario name, seed
// and iteration count.
func Key(kind, scenario string, seed int64, iterations int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d|%d", kind, scenario, seed, iterations))
	return kind + "-" + hex.EncodeToString(sum[:8])
}

// Get loads a cached payload into out. ok is false on miss, expiry, or an
// unreadable snapshot.
func (s *Store) Get(key string, out any) bool {
	if s == nil || s.dir == "" {
		return false
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache snapshot")
		return false
	}
	if s.ttl > 0 && time.Since(env.SavedAt) > s.ttl {
		return false
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding mismatched cache snapshot")
		return false
	}
	log.Debug().Str("key", key).Msg("Cache hit")
	return true
}

// Put saves a payload under key via a temp file and atomic rename.
func (s *Store) Put(key string, payload any) error {
	if s == nil || s.dir == "" {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode cache payload: %w", err)
	}
	data, err := json.Marshal(envelope{SavedAt: time.Now(), Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to encode cache envelope: %w", err)
	}

	path := s.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	log.Debug().Str("key", key).Msg("Cache snapshot saved")
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

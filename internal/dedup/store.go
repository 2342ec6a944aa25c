package dedup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"adscout/internal/types"
)

// Store answers "have we processed this URL before?" across runs and
// within the current run. Membership is monotonic: once recorded, a URL
// stays a member until an explicit Clear.
type Store interface {
	// Seen reports whether the URL (after canonicalization) was already
	// recorded, in this run or any persisted prior run.
	Seen(rawURL string) bool

	// Record marks the URL as seen. It returns false when the URL was
	// already present — recording twice is a no-op.
	Record(rawURL string) bool

	// Len returns the number of unique canonical URLs recorded.
	Len() int

	// Persist durably writes the current set so a future open
	// reconstructs it exactly.
	Persist() error
}

const storeFile = "seen_urls.json"

// storeState is the serialized form of the persisted URL set.
type storeState struct {
	URLs      []string  `json:"urls"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore persists the seen-URL set as a JSON file. The in-memory map
// loaded from disk doubles as the same-run overlay, so the cross-run and
// within-run duplicate checks go through one predicate.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	seen   map[string]struct{}
	logger *slog.Logger
}

// Open loads the store from dir. A missing file yields an empty store
// (first run). A corrupt file also yields an empty, fully usable store,
// but Open reports it by returning an error wrapping ErrStoreCorrupt —
// the caller decides whether to warn or abort.
func Open(dir string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   filepath.Join(dir, storeFile),
		seen:   make(map[string]struct{}),
		logger: logger.With("component", "dedup_store"),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("%w: read %s: %v", types.ErrStoreCorrupt, s.path, err)
	}

	var state storeState
	if err := json.Unmarshal(data, &state); err != nil {
		return s, fmt.Errorf("%w: decode %s: %v", types.ErrStoreCorrupt, s.path, err)
	}

	for _, u := range state.URLs {
		s.seen[Canonicalize(u)] = struct{}{}
	}
	s.logger.Debug("dedup store loaded", "urls", len(s.seen), "path", s.path)
	return s, nil
}

func (s *FileStore) Seen(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[key]
	return ok
}

func (s *FileStore) Record(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Persist writes the set via a temp file and rename so an interrupted
// write can never corrupt the previous state. Failure mode is therefore
// "duplicate processed again", never lost entries.
func (s *FileStore) Persist() error {
	s.mu.RLock()
	state := storeState{
		URLs:      make([]string, 0, len(s.seen)),
		Count:     len(s.seen),
		UpdatedAt: time.Now(),
	}
	for u := range s.seen {
		state.URLs = append(state.URLs, u)
	}
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		f.Close()
		return fmt.Errorf("encode store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close store file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename store file: %w", err)
	}

	s.logger.Debug("dedup store persisted", "urls", state.Count, "path", s.path)
	return nil
}

// Clear removes the persisted state and empties the in-memory set. Only
// an explicit reset goes through here — normal operation never removes
// members.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	s.seen = make(map[string]struct{})
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove store file: %w", err)
	}
	s.logger.Warn("dedup store cleared", "path", s.path)
	return nil
}

// MemStore is an in-memory Store for tests and dedup-disabled runs.
// Persist is a no-op.
type MemStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{seen: make(map[string]struct{})}
}

func (s *MemStore) Seen(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[key]
	return ok
}

func (s *MemStore) Record(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

func (s *MemStore) Persist() error { return nil }

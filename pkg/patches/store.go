// Package patches keeps the user's edits: a map from item id to the Patch for
// that item, persisted as one JSON document under a fixed key of a durable
// backend.
package patches

import (
	"bytes"
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
)

// Durable is the device-local storage the store persists to.
// Get returns nil data and a nil error when key is absent.
type Durable interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is the in-memory patch map and its durable copy.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	backend Durable
	key     string
	logger  *zerolog.Logger
	patches map[string]inventory.Patch
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the durable key. The default is constants.EditsKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load and save events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns an empty store backed by backend. Call Load to read what the
// backend holds.
func New(backend Durable, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     constants.EditsKey,
		logger:  logging.Default(),
		patches: make(map[string]inventory.Patch),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the durable key the store is saved under.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory map with the durable content.
//
// Content that is not a JSON object of patch objects is discarded: the durable
// entry is deleted, a warning is logged, and the result reports LoadDiscarded
// with the decode error as its Cause. A backend read failure is returned as
// an error and leaves the store empty.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patches = make(map[string]inventory.Patch)

	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return LoadResult{Status: LoadEmpty}, errors.WrapIO("read", s.key, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return LoadResult{Status: LoadEmpty}, nil
	}

	decoded, err := Decode(data)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("key", s.key).
			Int("bytes", len(data)).
			Msg("Discarding unreadable local edits")
		res := LoadResult{Status: LoadDiscarded, Cause: err}
		if derr := s.backend.Delete(ctx, s.key); derr != nil {
			return res, errors.WrapIO("delete", s.key, derr)
		}
		return res, nil
	}

	s.patches = decoded
	if len(decoded) == 0 {
		return LoadResult{Status: LoadEmpty}, nil
	}
	s.logger.Debug().Int("patches", len(decoded)).Str("key", s.key).Msg("Restored local edits")
	return LoadResult{Status: LoadRestored, Count: len(decoded)}, nil
}

// Save writes the whole map to the backend, replacing what was there.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	data, err := encode(s.patches)
	s.mu.RUnlock()
	if err != nil {
		return errors.WrapResource("save", "patches", s.key, err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return errors.WrapIO("write", s.key, err)
	}
	return nil
}

// Remember stores the editable subset of rec as the patch for rec.ItemID,
// replacing any earlier patch for that id.
func (s *Store) Remember(rec *inventory.Record) error {
	if rec == nil || strings.TrimSpace(rec.ItemID) == "" {
		return errors.NewValidationError("item_id", "", "cannot remember a record without an id")
	}
	p := rec.Patch()
	s.mu.Lock()
	s.patches[rec.ItemID] = p
	s.mu.Unlock()
	return nil
}

// Forget drops the patch for id from memory. It does not touch the backend.
func (s *Store) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.patches, id)
}

// Clear drops every patch and deletes the durable entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.patches = make(map[string]inventory.Patch)
	s.mu.Unlock()
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return errors.WrapIO("delete", s.key, err)
	}
	return nil
}

// Get returns a copy of the patch for id.
func (s *Store) Get(id string) (inventory.Patch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patches[id]
	if !ok {
		return inventory.Patch{}, false
	}
	return p.Clone(), true
}

// Len returns the number of patches.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patches)
}

// IDs returns the patched item ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.patches))
}

// Snapshot returns a deep copy of the map.
func (s *Store) Snapshot() map[string]inventory.Patch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePatches(s.patches)
}

// Replace sets the patch of every id in incoming, replacing whole patches.
// Ids not in incoming are untouched.
func (s *Store) Replace(incoming map[string]inventory.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range incoming {
		s.patches[id] = p.Clone()
	}
}

// Restore swaps the whole map for snapshot. It does not touch the backend.
func (s *Store) Restore(snapshot map[string]inventory.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = clonePatches(snapshot)
}

// MarshalJSON renders the map as indented JSON with sorted keys.
func (s *Store) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encode(s.patches)
}

// Decode parses a serialized patch map. The top level must be a JSON object
// and every value must be an object.
func Decode(data []byte) (map[string]inventory.Patch, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.NewParseError("json", "", "top level is not an object", errors.ErrCorrupt)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	out := make(map[string]inventory.Patch, len(raw))
	for id, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if len(msg) == 0 || msg[0] != '{' {
			return nil, errors.NewParseError("json", "", "patch for "+id+" is not an object", errors.ErrCorrupt)
		}
		var p inventory.Patch
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, errors.NewParseError("json", "", "patch for "+id+": "+err.Error(), err)
		}
		out[id] = p
	}
	return out, nil
}

func encode(m map[string]inventory.Patch) ([]byte, error) {
	if m == nil {
		m = map[string]inventory.Patch{}
	}
	return json.MarshalIndent(m, "", "  ")
}

func clonePatches(m map[string]inventory.Patch) map[string]inventory.Patch {
	out := make(map[string]inventory.Patch, len(m))
	for id, p := range m {
		out[id] = p.Clone()
	}
	return out
}

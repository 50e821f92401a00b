// Package exchange moves a patch store in and out of the portable updates
// file: a JSON object mapping item ids to patches, meant to be shared between
// machines and checked into version control.
package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
	"github.com/roomstock/inventory/pkg/patches"
)

// Export writes the whole store to w as indented JSON with sorted keys and a
// trailing newline.
func Export(ctx context.Context, w io.Writer, store *patches.Store) error {
	data, err := store.MarshalJSON()
	if err != nil {
		return errors.WrapResource("export", "patches", "", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "export", err)
	}
	logging.Ctx(ctx).Info().Int("patches", store.Len()).Msg("Exported updates")
	return nil
}

// ImportResult describes what an import changed.
type ImportResult struct {
	Source    string        `json:"source,omitempty" yaml:"source,omitempty"`
	Added     []string      `json:"added" yaml:"added"`
	Replaced  []string      `json:"replaced" yaml:"replaced"`
	Unchanged []string      `json:"unchanged" yaml:"unchanged"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Total returns the number of patches in the imported file.
func (r *ImportResult) Total() int {
	return len(r.Added) + len(r.Replaced) + len(r.Unchanged)
}

// Changed reports whether the import altered the store.
func (r *ImportResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Replaced) > 0
}

// Import reads a patch map from r and merges it into store.
//
// Each imported patch wholly replaces the stored patch with the same id; ids
// that are not in the file are left alone. The store is then saved. When the
// payload is malformed, or the save fails, the store is left exactly as it
// was and an error is returned.
func Import(ctx context.Context, r io.Reader, store *patches.Store, opts ...Option) (*ImportResult, error) {
	start := time.Now()
	o := applyOptions(opts)
	logger := logging.Ctx(ctx).With().Str("source", o.source).Logger()

	incoming, err := Parse(r, o.source)
	if err != nil {
		logger.Error().Err(err).Msg("Rejected updates file")
		return nil, err
	}

	result := diff(store, incoming)
	result.Source = o.source
	result.DryRun = o.dryRun
	if o.dryRun {
		result.Duration = time.Since(start)
		return result, nil
	}

	before := store.Snapshot()
	store.Replace(incoming)
	if err := store.Save(ctx); err != nil {
		store.Restore(before)
		logger.Error().Err(err).Msg("Could not persist imported updates; rolled back")
		return nil, err
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("added", len(result.Added)).
		Int("replaced", len(result.Replaced)).
		Int("unchanged", len(result.Unchanged)).
		Dur("duration", result.Duration).
		Msg("Imported updates")
	return result, nil
}

// Parse decodes an updates file. The top level must be a JSON object and every
// value an object; any other shape is an *errors.ImportError.
func Parse(r io.Reader, source string) (map[string]inventory.Patch, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewImportError(source, "could not read file", err)
	}
	if len(data) > constants.MaxImportBytes {
		return nil, errors.NewImportError(source, "file is too large", nil)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.NewImportError(source, "file is empty", nil)
	}
	if !json.Valid(data) {
		var v any
		return nil, errors.NewImportError(source, "invalid JSON", json.Unmarshal(data, &v))
	}
	if data[0] != '{' {
		return nil, errors.NewImportError(source, "not an object map (top level is "+kindOf(data)+")", nil)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewImportError(source, "invalid JSON", err)
	}

	out := make(map[string]inventory.Patch, len(raw))
	for _, id := range slices.Sorted(maps.Keys(raw)) {
		msg := bytes.TrimSpace(raw[id])
		if id == "" {
			return nil, errors.NewImportError(source, "empty item id", nil)
		}
		if msg[0] != '{' {
			return nil, errors.NewImportError(source, "patch for "+id+" is "+kindOf(msg)+", not an object", nil)
		}
		var p inventory.Patch
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, errors.NewImportError(source, "patch for "+id+" is malformed", err)
		}
		out[id] = p
	}
	return out, nil
}

func diff(store *patches.Store, incoming map[string]inventory.Patch) *ImportResult {
	res := &ImportResult{Added: []string{}, Replaced: []string{}, Unchanged: []string{}}
	for _, id := range slices.Sorted(maps.Keys(incoming)) {
		p := incoming[id]
		existing, ok := store.Get(id)
		switch {
		case !ok:
			res.Added = append(res.Added, id)
		case existing.Equal(&p):
			res.Unchanged = append(res.Unchanged, id)
		default:
			res.Replaced = append(res.Replaced, id)
		}
	}
	return res
}

func kindOf(data []byte) string {
	switch data[0] {
	case '{':
		return "an object"
	case '[':
		return "an array"
	case '"':
		return "a string"
	case 'n':
		return "null"
	case 't', 'f':
		return "a boolean"
	default:
		return "a number"
	}
}

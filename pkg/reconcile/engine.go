package reconcile

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomstock/inventory/pkg/errors"
	"github.com/roomstock/inventory/pkg/exchange"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/logging"
	"github.com/roomstock/inventory/pkg/patches"
)

// Engine holds the canonical records, the patch store, and the effective
// records derived from them. Every mutation overlays, recomputes and
// remembers the record under one lock, so a read never sees a record that
// is half reconciled. It is safe for concurrent use.
type Engine struct {
	mu        sync.RWMutex
	store     *patches.Store
	canonical []inventory.Record
	items     []inventory.Record
	index     map[string]int
	last      *Result

	now      func() time.Time
	logger   *zerolog.Logger
	autoSave bool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithClock sets the time source used for new record ids.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "clock cannot be nil")
		}
		e.now = now
		return nil
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// WithAutoSave saves the store after every successful mutation.
func WithAutoSave(enabled bool) Option {
	return func(e *Engine) error {
		e.autoSave = enabled
		return nil
	}
}

// New returns an engine over store with no records loaded.
func New(store *patches.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.NewValidationError("store", nil, "patch store is required")
	}
	e := &Engine{
		store:  store,
		index:  map[string]int{},
		now:    time.Now,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Store returns the patch store the engine writes to.
func (e *Engine) Store() *patches.Store {
	return e.store
}

// Open reads the durable patches and overlays them onto canonical.
func (e *Engine) Open(ctx context.Context, canonical []inventory.Record) (patches.LoadResult, *Result, error) {
	lr, err := e.store.Load(ctx)
	if err != nil {
		return lr, nil, err
	}
	if lr.Status == patches.LoadDiscarded {
		logging.Ctx(ctx).Debug().Err(lr.Cause).Msg("Opened with an empty patch store")
	}
	res, err := e.Load(ctx, canonical)
	return lr, res, err
}

// Load replaces the canonical records and overlays the store onto all of them.
func (e *Engine) Load(ctx context.Context, canonical []inventory.Record) (*Result, error) {
	if err := validateCanonical(canonical); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.canonical = cloneRecords(canonical)
	return e.refreshLocked(ctx), nil
}

func validateCanonical(canonical []inventory.Record) error {
	seen := make(map[string]bool, len(canonical))
	for i := range canonical {
		id := canonical[i].ItemID
		if id == "" {
			return errors.NewValidationError("item_id", i, "dataset record has no item_id")
		}
		if seen[id] {
			return &errors.ValidationError{Field: "item_id", Value: id, Message: "duplicate item_id " + id}
		}
		seen[id] = true
	}
	return nil
}

// Refresh re-runs the overlay from the canonical records and the store.
func (e *Engine) Refresh(ctx context.Context) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refreshLocked(ctx)
}

func (e *Engine) refreshLocked(ctx context.Context) *Result {
	items, res := ApplyOverlay(e.canonical, e.store)
	e.items = items
	e.index = make(map[string]int, len(items))
	for i := range items {
		e.index[items[i].ItemID] = i
	}
	e.last = res

	ev := logging.Ctx(ctx).Debug().
		Int("records", res.Metadata.Stats.RecordsProcessed).
		Int("patched", res.Metadata.Stats.PatchesApplied).
		Int("created", res.Metadata.Stats.Created).
		Int("derived", res.Metadata.Stats.DerivedFilled).
		Dur("duration", res.Metadata.Duration)
	if res.HasOrphans() {
		ev = ev.Strs("orphans", res.Orphans)
	}
	ev.Msg("Applied local edits")
	return res
}

// LastResult returns the result of the most recent overlay pass.
func (e *Engine) LastResult() *Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Canonical returns a copy of the dataset records as loaded.
func (e *Engine) Canonical() []inventory.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneRecords(e.canonical)
}

// Base returns the dataset version of the item with id as it shows without
// local edits, derived fields filled. Items created locally have no base.
func (e *Engine) Base(id string) (inventory.Record, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for i := range e.canonical {
		if e.canonical[i].ItemID == id {
			rec := e.canonical[i].Clone()
			rec.Recompute()
			return rec, true
		}
	}
	return inventory.Record{}, false
}

// Len returns the number of effective records.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}

// Items returns copies of the effective records selected by q.
func (e *Engine) Items(q inventory.Query) []inventory.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	matched := inventory.Filter(e.items, q)
	return cloneRecords(matched)
}

// Item returns a copy of the effective record with id.
func (e *Engine) Item(id string) (inventory.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i, ok := e.index[id]
	if !ok {
		return inventory.Record{}, errors.NewNotFoundError("item", id)
	}
	return e.items[i].Clone(), nil
}

// Facets returns the filter choices of the effective records.
func (e *Engine) Facets() inventory.Facets {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return inventory.FacetsOf(e.items)
}

// Summary returns the stock overview of the effective records.
func (e *Engine) Summary(within int) inventory.Summary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return inventory.Summarize(e.items, e.now(), within)
}

// Edit sets one text field, as a table cell edit does.
func (e *Engine) Edit(ctx context.Context, id string, field inventory.Field, value string) (inventory.Record, error) {
	return e.Apply(ctx, id, map[inventory.Field]string{field: value})
}

// Apply sets several text fields at once, as the detail panel does.
// Either every change is applied or none is.
func (e *Engine) Apply(ctx context.Context, id string, changes map[inventory.Field]string) (inventory.Record, error) {
	for f := range changes {
		if !f.IsText() {
			return inventory.Record{}, errors.NewValidationError(string(f), changes[f], "not an editable text field")
		}
	}
	return e.mutate(ctx, id, "apply", func(r *inventory.Record) error {
		for f, v := range changes {
			if err := r.Set(f, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddImage appends an image URL to the record.
func (e *Engine) AddImage(ctx context.Context, id, url string) (inventory.Record, error) {
	if strings.TrimSpace(url) == "" {
		return inventory.Record{}, errors.NewValidationError(string(inventory.FieldImageURLs), url, "image URL is empty")
	}
	return e.mutate(ctx, id, "add_image", func(r *inventory.Record) error {
		r.AddImage(url)
		return nil
	})
}

// AddTag adds a tag to the record. Adding a tag that is already present
// succeeds without changing anything.
func (e *Engine) AddTag(ctx context.Context, id, tag string) (inventory.Record, error) {
	if strings.TrimSpace(tag) == "" {
		return inventory.Record{}, errors.NewValidationError(string(inventory.FieldTags), tag, "tag is empty")
	}
	return e.mutate(ctx, id, "add_tag", func(r *inventory.Record) error {
		r.AddTag(tag)
		return nil
	})
}

// Create adds a blank record at the front of the list and remembers it.
func (e *Engine) Create(ctx context.Context) (inventory.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	rec := inventory.NewRecord(now)
	for _, taken := e.index[rec.ItemID]; taken; _, taken = e.index[rec.ItemID] {
		now = now.Add(time.Millisecond)
		rec = inventory.NewRecord(now)
	}
	rec.Recompute()

	if err := e.store.Remember(&rec); err != nil {
		return inventory.Record{}, err
	}
	if err := e.saveLocked(ctx); err != nil {
		e.store.Forget(rec.ItemID)
		return inventory.Record{}, err
	}

	e.items = append([]inventory.Record{rec}, e.items...)
	for i := range e.items {
		e.index[e.items[i].ItemID] = i
	}
	logging.Ctx(ctx).Info().Str("item_id", rec.ItemID).Msg("Created item")
	return rec.Clone(), nil
}

// Save persists the store.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Save(ctx)
}

// Reset drops every local edit and reloads canonical.
func (e *Engine) Reset(ctx context.Context, canonical []inventory.Record) (*Result, error) {
	if err := validateCanonical(canonical); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Clear(ctx); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Msg("Cleared local edits")
	e.canonical = cloneRecords(canonical)
	return e.refreshLocked(ctx), nil
}

// Import merges an updates file into the store and re-runs the overlay.
// No edit runs between the merge and the overlay, so an imported patch is
// never overwritten by a record reconciled from the previous patch.
func (e *Engine) Import(ctx context.Context, r io.Reader, opts ...exchange.Option) (*exchange.ImportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := exchange.Import(ctx, r, e.store, opts...)
	if err != nil {
		return nil, err
	}
	if !res.DryRun {
		e.refreshLocked(ctx)
	}
	return res, nil
}

// Export writes the store as an updates file. The store is saved first.
func (e *Engine) Export(ctx context.Context, w io.Writer) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.store.Save(ctx); err != nil {
		return err
	}
	return exchange.Export(ctx, w, e.store)
}

// mutate applies fn to a copy of the record, reconciles it, remembers it and
// only then publishes it. When the save fails the previous patch is put back
// and the record is not published.
func (e *Engine) mutate(ctx context.Context, id, op string, fn func(*inventory.Record) error) (inventory.Record, error) {
	ctx = logging.WithOperation(logging.WithItem(ctx, id), op)

	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.index[id]
	if !ok {
		return inventory.Record{}, errors.NewNotFoundError("item", id)
	}
	rec := e.items[i].Clone()
	if err := fn(&rec); err != nil {
		return inventory.Record{}, err
	}
	rec.Recompute()

	prev, had := e.store.Get(id)
	if err := e.store.Remember(&rec); err != nil {
		return inventory.Record{}, err
	}
	if err := e.saveLocked(ctx); err != nil {
		if had {
			e.store.Replace(map[string]inventory.Patch{id: prev})
		} else {
			e.store.Forget(id)
		}
		logging.Ctx(ctx).Debug().Err(err).Msg("Save failed, edit rolled back")
		return inventory.Record{}, err
	}

	e.items[i] = rec
	logging.Ctx(ctx).Debug().Str("warranty_end", string(rec.WarrantyEnd)).Msg("Reconciled item")
	return rec.Clone(), nil
}

func (e *Engine) saveLocked(ctx context.Context) error {
	if !e.autoSave {
		return nil
	}
	return e.store.Save(ctx)
}

func cloneRecords(in []inventory.Record) []inventory.Record {
	out := make([]inventory.Record, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

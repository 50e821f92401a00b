// Package reconcile turns canonical records and the user's patches into the
// effective records that are shown and edited.
package reconcile

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/inventory"
	"github.com/roomstock/inventory/pkg/patches"
)

// Overlay returns rec with every field present in patch written over it,
// explicit empty values included, and the derived warranty end recomputed.
// rec is not modified. A nil patch only recomputes.
//
// Overlay is idempotent: overlaying the result again with the same patch
// yields the same record.
func Overlay(rec inventory.Record, patch *inventory.Patch) inventory.Record {
	out := rec.Clone()
	if patch != nil {
		patch.ApplyTo(&out)
	}
	out.Recompute()
	return out
}

// ApplyOverlay overlays the store onto every canonical record. Records that
// were created locally exist only as patches; they are rebuilt from their
// patch and placed first, newest first. The canonical slice is not modified.
func ApplyOverlay(canonical []inventory.Record, store *patches.Store) ([]inventory.Record, *Result) {
	b := newResultBuilder()
	snapshot := store.Snapshot()

	known := make(map[string]bool, len(canonical))
	effective := make([]inventory.Record, 0, len(canonical)+len(snapshot))

	var created []string
	for id := range snapshot {
		if !strings.HasPrefix(id, constants.NewItemPrefix) {
			continue
		}
		created = append(created, id)
	}
	for i := range canonical {
		known[canonical[i].ItemID] = true
	}
	created = slices.DeleteFunc(created, func(id string) bool { return known[id] })
	slices.SortFunc(created, newestFirst)

	for _, id := range created {
		p := snapshot[id]
		base := inventory.NewRecord(createdAt(id))
		base.ItemID = id
		effective = append(effective, b.overlay(base, &p))
		b.created++
	}

	for i := range canonical {
		var patch *inventory.Patch
		if p, ok := snapshot[canonical[i].ItemID]; ok {
			patch = &p
		}
		effective = append(effective, b.overlay(canonical[i], patch))
	}

	for id := range snapshot {
		if !known[id] && !strings.HasPrefix(id, constants.NewItemPrefix) {
			b.orphans = append(b.orphans, id)
		}
	}
	return effective, b.build()
}

// createdAt recovers the creation time encoded in a locally created id.
func createdAt(id string) time.Time {
	ms, err := strconv.ParseInt(strings.TrimPrefix(id, constants.NewItemPrefix), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func newestFirst(a, b string) int {
	ta, tb := createdAt(a), createdAt(b)
	if c := tb.Compare(ta); c != 0 {
		return c
	}
	return cmp.Compare(b, a)
}

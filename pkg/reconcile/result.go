package reconcile

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roomstock/inventory/pkg/inventory"
)

// Result describes one pass of the overlay over the whole collection.
type Result struct {
	// Orphans are patched ids that match neither a dataset record nor a
	// locally created one. Their patches are kept but not shown.
	Orphans []string `json:"orphans" yaml:"orphans"`

	// Metadata about the pass
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains timing and counters for a pass.
type ResultMetadata struct {
	StartTime time.Time        `json:"start_time" yaml:"start_time"`
	EndTime   time.Time        `json:"end_time" yaml:"end_time"`
	Duration  time.Duration    `json:"duration" yaml:"duration"`
	Stats     ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics counts what the pass did.
type ResultStatistics struct {
	RecordsProcessed int `json:"records_processed" yaml:"records_processed"`
	PatchesApplied   int `json:"patches_applied" yaml:"patches_applied"`
	Created          int `json:"created" yaml:"created"`
	DerivedFilled    int `json:"derived_filled" yaml:"derived_filled"`
	Orphans          int `json:"orphans" yaml:"orphans"`
}

// HasOrphans reports whether some patches matched no record.
func (r *Result) HasOrphans() bool {
	return len(r.Orphans) > 0
}

// Summary returns a one-line description of the pass.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	msg := fmt.Sprintf("%d records, %d with local edits", s.RecordsProcessed, s.PatchesApplied)
	if s.Created > 0 {
		msg += fmt.Sprintf(", %d created locally", s.Created)
	}
	if s.Orphans > 0 {
		msg += fmt.Sprintf(", %d unmatched patches", s.Orphans)
	}
	return msg
}

type resultBuilder struct {
	start   time.Time
	records int
	applied int
	created int
	derived int
	orphans []string
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{start: time.Now()}
}

// overlay is Overlay plus bookkeeping.
func (b *resultBuilder) overlay(rec inventory.Record, patch *inventory.Patch) inventory.Record {
	b.records++
	out := rec.Clone()
	if patch != nil {
		b.applied++
		patch.ApplyTo(&out)
	}
	blank := strings.TrimSpace(string(out.WarrantyEnd)) == ""
	out.Recompute()
	if blank && out.WarrantyEnd != "" {
		b.derived++
	}
	return out
}

func (b *resultBuilder) build() *Result {
	end := time.Now()
	slices.Sort(b.orphans)
	return &Result{
		Orphans: b.orphans,
		Metadata: ResultMetadata{
			StartTime: b.start,
			EndTime:   end,
			Duration:  end.Sub(b.start),
			Stats: ResultStatistics{
				RecordsProcessed: b.records,
				PatchesApplied:   b.applied,
				Created:          b.created,
				DerivedFilled:    b.derived,
				Orphans:          len(b.orphans),
			},
		},
	}
}

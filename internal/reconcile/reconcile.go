// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile folds candidate publication records from several
// unreliable sources into one canonical, deduplicated, deterministically
// ordered list. It is a pure in-memory engine: source adapters collect
// the candidates, the publisher serializes the result.
package reconcile

import (
	"errors"

	"github.com/pdiddy/pubsync/pkg/types"
)

// ErrNoRecords is returned when every source contributed zero usable
// records. Callers must not write output in that case so that a
// previously published list survives a total upstream failure.
var ErrNoRecords = errors.New("no usable records from any source")

// Result holds the canonical list and reconciliation statistics.
type Result struct {
	// Records is the canonical list in final rank order.
	Records []types.Record

	// Merged counts candidate records folded into another record
	// sharing their dedup key.
	Merged int

	// Dropped counts candidate records discarded as unusable
	// (empty title or no derivable key).
	Dropped int
}

// Reconcile merges per-source candidate batches into one canonical
// ranked list. Batches must be given in source-priority order: the
// first batch is the authoritative source, and its records win merge
// ties against later batches. An empty batch is a degraded-but-valid
// input; only zero usable records across all batches is an error.
//
// The engine is deterministic: the same batches in the same order
// produce an identical Result every time.
func Reconcile(batches ...[]types.Record) (Result, error) {
	var flat []types.Record
	dropped := 0
	for _, batch := range batches {
		for _, r := range batch {
			if r.Title == "" {
				dropped++
				continue
			}
			flat = append(flat, r)
		}
	}

	canonical, merged, keyless := merge(flat)
	dropped += keyless

	if len(canonical) == 0 {
		return Result{Dropped: dropped}, ErrNoRecords
	}

	Rank(canonical)
	return Result{Records: canonical, Merged: merged, Dropped: dropped}, nil
}

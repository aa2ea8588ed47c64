// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import "github.com/pdiddy/pubsync/pkg/types"

// richness scores how complete a record is: distinct non-empty link
// kinds, then venue length, then authors length, compared
// lexicographically. The scoring is a deliberate, simple heuristic;
// output reproducibility depends on keeping it exactly as-is.
type richness [3]int

func scoreRecord(r types.Record) richness {
	return richness{r.LinkKinds(), len(r.Venue), len(r.Authors)}
}

// greater reports whether s is strictly greater than o lexicographically.
func (s richness) greater(o richness) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] > o[i]
		}
	}
	return false
}

// merge groups records by dedup key and resolves each group to a single
// canonical record. Records arrive flattened in source-priority order,
// so the first holder of a key is from the most authoritative source
// that reported it. A later record replaces the holder only when its
// richness score is strictly greater; either way the losing record
// backfills empty scalar fields and contributes missing link kinds.
//
// The returned slice preserves first-seen key order. dropped counts
// records with no derivable key; merged counts records folded into an
// existing key.
func merge(records []types.Record) (canonical []types.Record, merged, dropped int) {
	seen := make(map[string]int) // dedup key → index in canonical
	for _, r := range records {
		key, ok := Key(r)
		if !ok {
			dropped++
			continue
		}

		idx, exists := seen[key]
		if !exists {
			seen[key] = len(canonical)
			canonical = append(canonical, r.Clone())
			continue
		}
		merged++

		winner := canonical[idx]
		loser := r
		if scoreRecord(r).greater(scoreRecord(winner)) {
			winner, loser = r.Clone(), winner
		}
		backfill(&winner, loser)
		canonical[idx] = winner
	}
	return canonical, merged, dropped
}

// backfill copies scalar fields from src into dst where dst is empty,
// and adds link kinds present on src but absent on dst. Existing values
// on dst are never overwritten.
func backfill(dst *types.Record, src types.Record) {
	if dst.Year == 0 && src.Year != 0 {
		dst.Year = src.Year
	}
	if dst.Venue == "" && src.Venue != "" {
		dst.Venue = src.Venue
	}
	if dst.Authors == "" && src.Authors != "" {
		dst.Authors = src.Authors
	}
	for kind, v := range src.Links {
		dst.SetLink(kind, v)
	}
}

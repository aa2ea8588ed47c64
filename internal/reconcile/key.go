// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// strongLabels lists link-kind labels that carry a globally unique
// identifier, in preference order. Two records sharing a strong
// identifier are the same work regardless of how their titles differ.
var strongLabels = []string{"arXiv", "DOI"}

// Key derives the deduplication key for a record. It prefers the first
// strong identifier present in the record's links, keyed as
// lower("label:value"); otherwise it falls back to the normalized
// title. The second return value is false when no key can be derived
// (empty title and no strong identifier) — such records cannot be
// reconciled and are dropped.
func Key(r types.Record) (string, bool) {
	for _, label := range strongLabels {
		if v := r.Links[label]; v != "" {
			return strings.ToLower(label + ":" + v), true
		}
	}
	if t := NormalizeTitle(r.Title); t != "" {
		return t, true
	}
	return "", false
}

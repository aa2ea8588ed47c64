// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"sort"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Rank orders canonical records newest year first; within a year,
// lexicographically later raw titles sort first. Absent years rank as 0
// and sink to the bottom. The sort is stable, so equal composite keys
// keep their first-seen order and repeated runs over the same input
// produce identical sequences.
func Rank(records []types.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year > records[j].Year
		}
		return records[i].Title > records[j].Title
	})
}

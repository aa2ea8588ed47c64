package reconcile

import (
	"reflect"
	"testing"

	"github.com/pdiddy/pubsync/pkg/types"
)

func TestRankNewestFirst(t *testing.T) {
	records := []types.Record{
		{Title: "Old", Year: 2010},
		{Title: "Newest", Year: 2024},
		{Title: "Middle", Year: 2018},
	}

	Rank(records)

	want := []string{"Newest", "Middle", "Old"}
	for i, title := range want {
		if records[i].Title != title {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, title)
		}
	}
}

func TestRankTitleBreaksYearTies(t *testing.T) {
	records := []types.Record{
		{Title: "Alpha", Year: 2020},
		{Title: "Zeta", Year: 2020},
		{Title: "Beta", Year: 2020},
	}

	Rank(records)

	// Lexicographically later titles first within a year.
	want := []string{"Zeta", "Beta", "Alpha"}
	for i, title := range want {
		if records[i].Title != title {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, title)
		}
	}
}

func TestRankMissingYearSinks(t *testing.T) {
	records := []types.Record{
		{Title: "Undated"},
		{Title: "Dated", Year: 1999},
	}

	Rank(records)

	if records[0].Title != "Dated" {
		t.Errorf("dated record should rank above undated, got %q first", records[0].Title)
	}
}

func TestRankTitleComparisonIsCaseSensitive(t *testing.T) {
	// Raw byte comparison: lowercase sorts after uppercase, so "apple"
	// ranks before "Zebra" in descending order.
	records := []types.Record{
		{Title: "Zebra", Year: 2020},
		{Title: "apple", Year: 2020},
	}

	Rank(records)

	if records[0].Title != "apple" {
		t.Errorf("records[0].Title = %q, want %q", records[0].Title, "apple")
	}
}

func TestRankDeterministic(t *testing.T) {
	build := func() []types.Record {
		return []types.Record{
			{Title: "C", Year: 2021},
			{Title: "A", Year: 2021},
			{Title: "B"},
			{Title: "A", Year: 2019},
			{Title: "B", Year: 2021},
		}
	}

	first := build()
	Rank(first)
	second := build()
	Rank(second)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two rankings of the same input differ:\n%+v\n%+v", first, second)
	}
}

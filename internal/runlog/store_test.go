package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger", "pubsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, Run{
		Written: 42,
		Merged:  7,
		Dropped: 2,
		Output:  "data/publications.json",
		Sources: []SourceCount{
			{Name: "inspire", Count: 40},
			{Name: "openalex", Count: 11, Err: ""},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 42, got.Written)
	assert.Equal(t, 7, got.Merged)
	assert.Equal(t, 2, got.Dropped)
	assert.Equal(t, "data/publications.json", got.Output)
	assert.False(t, got.Started.IsZero())

	require.Len(t, got.Sources, 2)
	assert.Equal(t, "inspire", got.Sources[0].Name)
	assert.Equal(t, 40, got.Sources[0].Count)
	assert.Equal(t, "openalex", got.Sources[1].Name)
}

func TestRecentNewestFirstAndLimited(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, Run{
			Started: base.Add(time.Duration(i) * time.Hour),
			Written: i,
		})
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 4, runs[0].Written)
	assert.Equal(t, 3, runs[1].Written)
	assert.Equal(t, 2, runs[2].Written)
}

func TestRecordFailedRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, Run{
		Sources: []SourceCount{
			{Name: "inspire", Err: "HTTP 500"},
			{Name: "openalex", Err: "HTTP 429"},
		},
	})
	require.NoError(t, err)

	runs, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Zero(t, runs[0].Written)
	assert.Empty(t, runs[0].Output)
	assert.Equal(t, "HTTP 500", runs[0].Sources[0].Err)
}

func TestRecentEmptyLedger(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

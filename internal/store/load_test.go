package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascli/internal/pipeline"
	"atlascli/internal/shared/testutil"
	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/schema"
)

func TestStore_LoadFiles_CommitsAllFiles(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	paths := []string{
		testutil.WriteDailyCSV(t, dir, "2024-01-02", testutil.SampleDailyRows()),
		testutil.WriteDailyCSV(t, dir, "2024-01-03", testutil.SampleDailyRows()),
	}

	cleaner := pipeline.NewCleaner(nil, pipeline.CleanerConfig{})
	results, err := s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), paths, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		assert.Equal(t, schema.DailyMarketSnapshot, r.Table)
		assert.Equal(t, 5, r.Rows)
	}

	assert.Equal(t, 10, snapshotCount(t, s))
}

func TestStore_LoadFiles_TwiceEqualsOnce(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	paths := []string{testutil.WriteDailyCSV(t, dir, "2024-01-02", testutil.SampleDailyRows())}
	cleaner := pipeline.NewCleaner(nil, pipeline.CleanerConfig{})

	_, err := s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), paths, 0)
	require.NoError(t, err)
	first, err := s.Snapshots(ctx, domain.SnapshotFilter{})
	require.NoError(t, err)

	_, err = s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), paths, 0)
	require.NoError(t, err)
	second, err := s.Snapshots(ctx, domain.SnapshotFilter{})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestStore_LoadFiles_RollbackOnAnyFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	rows := testutil.SampleDailyRows()
	good := testutil.WriteDailyCSV(t, dir, "2024-01-02", rows)
	// Same ticker twice in one file: an upstream defect the pipeline must
	// surface, never de-duplicate.
	bad := testutil.WriteDailyCSV(t, dir, "2024-01-03", append(rows, rows[0]))

	cleaner := pipeline.NewCleaner(nil, pipeline.CleanerConfig{})
	_, err := s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), []string{good, bad}, 0)

	var dup *pipeline.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 0, snapshotCount(t, s), "rollback must discard the good file too")
}

func TestStore_LoadFiles_DateConsistency(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// File named 2024-01-02 whose rows claim 2024-01-03: concatenated or
	// mislabeled upstream output.
	header := append([]string{"trade_date"}, testutil.DailyCSVHeader()...)
	var rows [][]string
	for _, r := range testutil.SampleDailyRows() {
		rows = append(rows, append([]string{"2024-01-03"}, r...))
	}
	path := testutil.WriteHistoryCSV(t, t.TempDir(), "2024-01-02_Astock.csv", header, rows)

	cleaner := pipeline.NewCleaner(nil, pipeline.CleanerConfig{})
	_, err := s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), []string{path}, 0)

	var dateErr *pipeline.DateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, pipeline.DateReasonConsistency, dateErr.Reason)
	assert.Equal(t, 0, snapshotCount(t, s))
}

func TestStore_LoadFiles_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	paths := []string{
		testutil.WriteDailyCSV(t, dir, "2024-01-02", testutil.SampleDailyRows()),
		testutil.WriteDailyCSV(t, dir, "2024-01-03", testutil.SampleDailyRows()),
		testutil.WriteDailyCSV(t, dir, "2024-01-04", testutil.SampleDailyRows()),
	}

	cleaner := pipeline.NewCleaner(nil, pipeline.CleanerConfig{})
	results, err := s.LoadFiles(ctx, cleaner, pipeline.SnapshotSource(), paths, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 10, snapshotCount(t, s))
}

func TestStore_LoadFiles_NoPaths(t *testing.T) {
	s := openTestStore(t)

	cleaner := pipeline.NewCleaner(nil, pipeline.CleanerConfig{})
	results, err := s.LoadFiles(context.Background(), cleaner, pipeline.SnapshotSource(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

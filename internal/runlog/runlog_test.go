package runlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "runlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	store := openStore(t)
	assert.NotNil(t, store)
}

func TestRecordSuccessAndFailure(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "analyze duration", func() error { return nil }))

	wantErr := errors.New("archive exploded")
	err := store.Record(ctx, "analyze rhythm", func() error { return wantErr })
	assert.Equal(t, wantErr, err)

	counts, err := store.CountSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, Counts{Runs: 2, Successes: 1, Failures: 1}, counts)
}

func TestCountSinceWindow(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now()

	old := Run{Command: "analyze all", Status: StatusOK,
		StartedAt: now.AddDate(0, 0, -10), FinishedAt: now.AddDate(0, 0, -10)}
	recent := Run{Command: "analyze all", Status: StatusOK,
		StartedAt: now.Add(-time.Hour), FinishedAt: now.Add(-time.Hour)}
	require.NoError(t, store.Insert(ctx, old))
	require.NoError(t, store.Insert(ctx, recent))

	counts, err := store.CountSince(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Runs)
}

func TestCountSinceEmpty(t *testing.T) {
	store := openStore(t)
	counts, err := store.CountSince(context.Background(), time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, Counts{}, counts)
}

func TestRecentOrdering(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		run := Run{Command: "health", Status: StatusOK,
			StartedAt: now.Add(time.Duration(-i) * time.Hour), FinishedAt: now}
		require.NoError(t, store.Insert(ctx, run))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.NotEmpty(t, runs[0].ID)
}

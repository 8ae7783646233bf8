package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)

	run := Run{
		Script:    "api.smoke",
		StartedAt: time.Now().Truncate(time.Millisecond),
		Duration:  1500 * time.Millisecond,
		OK:        7,
		Failed:    1,
		Passed:    false,
	}
	require.NoError(t, store.Record(run))

	runs, err := store.List("", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, "api.smoke", got.Script)
	assert.Equal(t, 7, got.OK)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.Passed)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.Equal(t, run.StartedAt.UnixMilli(), got.StartedAt.UnixMilli())
}

func TestListFiltersByScript(t *testing.T) {
	store := openTestStore(t)

	now := time.Now()
	require.NoError(t, store.Record(Run{Script: "a.smoke", StartedAt: now, Passed: true}))
	require.NoError(t, store.Record(Run{Script: "b.smoke", StartedAt: now, Passed: true}))
	require.NoError(t, store.Record(Run{Script: "a.smoke", StartedAt: now.Add(time.Second), Passed: false}))

	runs, err := store.List("a.smoke", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "a.smoke", r.Script)
	}
	// Newest first
	assert.False(t, runs[0].Passed)
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Run{
			Script:    "x.smoke",
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
			Passed:    true,
		}))
	}

	runs, err := store.List("", 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestListEmpty(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.List("", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

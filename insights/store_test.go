package insights

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "insights.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	val, err := s.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, s.SetSetting(ctx, "k", "v1"))
	require.NoError(t, s.SetSetting(ctx, "k", "v2"))
	val, err = s.GetSetting(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", val)
}

func TestSaltIsStable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.Salt(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := s.Salt(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTopPaths(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	views := []View{
		{VisitorID: "a", Path: "/docs", Timestamp: now},
		{VisitorID: "a", Path: "/docs", Timestamp: now},
		{VisitorID: "b", Path: "/docs", Timestamp: now},
		{VisitorID: "a", Path: "/", Timestamp: now},
		{VisitorID: "a", Path: "/", Event: "download", Timestamp: now},
		{VisitorID: "c", Path: "/old", Timestamp: now.AddDate(0, 0, -10)},
	}
	for i := range views {
		require.NoError(t, s.SaveView(ctx, &views[i]))
	}

	stats, err := s.TopPaths(ctx, now.Add(-time.Hour), now.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []PathStat{
		{Path: "/docs", Views: 3, Visitors: 2},
		{Path: "/", Views: 1, Visitors: 1},
	}, stats)
}

func TestCleanupOldViews(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.SaveView(ctx, &View{VisitorID: "a", Path: "/new", Timestamp: now}))
	require.NoError(t, s.SaveView(ctx, &View{VisitorID: "a", Path: "/old", Timestamp: now.AddDate(0, 0, -40)}))

	n, err := s.CleanupOldViews(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err := s.TopPaths(ctx, now.AddDate(-1, 0, 0), now.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "/new", stats[0].Path)
}

func TestCleanupSchedulerRunsAtStart(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveView(ctx, &View{VisitorID: "a", Path: "/old", Timestamp: time.Now().UTC().AddDate(0, 0, -40)}))

	stop, err := s.StartCleanupScheduler(30, time.Hour)
	require.NoError(t, err)
	defer stop()

	require.Eventually(t, func() bool {
		stats, err := s.TopPaths(ctx, time.Now().AddDate(-1, 0, 0), time.Now().Add(time.Hour), 10)
		return err == nil && len(stats) == 0
	}, 2*time.Second, 20*time.Millisecond)
}

package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sonroyaalmerol/tubevoice/internal/config"
	"github.com/sonroyaalmerol/tubevoice/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Repo, *time.Time) {
	t.Helper()
	db, err := OpenDB(&config.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewRepo(db)
	repo.now = func() time.Time { return now }
	return repo, &now
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	repo, now := newTestRepo(t)

	require.NoError(t, repo.RecordResolution(ctx, stream.Report{
		RequestID: "r1", VideoID: "a", Source: stream.SourcePrimary, URL: "https://p/a",
		OK: true, Attempts: 2, Elapsed: 1500 * time.Millisecond,
	}))
	*now = now.Add(time.Minute)
	require.NoError(t, repo.RecordResolution(ctx, stream.Report{
		RequestID: "r2", VideoID: "b", Attempts: 13, Elapsed: 9 * time.Second,
	}))

	got, err := repo.RecentResolutions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b", got[0].VideoID)
	assert.False(t, got[0].OK)
	assert.Equal(t, 13, got[0].Attempts)

	assert.Equal(t, "a", got[1].VideoID)
	assert.True(t, got[1].OK)
	assert.Equal(t, stream.SourcePrimary, got[1].Source)
	assert.Equal(t, 1500*time.Millisecond, got[1].Elapsed)

	limited, err := repo.RecentResolutions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLastResolution(t *testing.T) {
	ctx := context.Background()
	repo, now := newTestRepo(t)

	_, err := repo.LastResolution(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.RecordResolution(ctx, stream.Report{RequestID: "1", VideoID: "v", OK: false}))
	*now = now.Add(time.Second)
	require.NoError(t, repo.RecordResolution(ctx, stream.Report{RequestID: "2", VideoID: "v", OK: true, Source: stream.SourceMirror}))

	last, err := repo.LastResolution(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "2", last.RequestID)
	assert.Equal(t, stream.SourceMirror, last.Source)
}

func TestSourceStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	repo, now := newTestRepo(t)
	start := *now

	for _, rep := range []stream.Report{
		{RequestID: "1", VideoID: "a", Source: stream.SourcePrimary, OK: true, Elapsed: time.Second},
		{RequestID: "2", VideoID: "b", Source: stream.SourcePrimary, OK: true, Elapsed: 3 * time.Second},
		{RequestID: "3", VideoID: "c", Source: stream.SourceMirror, OK: true, Elapsed: time.Second},
	} {
		require.NoError(t, repo.RecordResolution(ctx, rep))
	}
	*now = now.Add(48 * time.Hour)
	require.NoError(t, repo.RecordResolution(ctx, stream.Report{RequestID: "4", VideoID: "d"}))

	stats, err := repo.SourceStats(ctx, start)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, SourceStat{Source: stream.SourcePrimary, Count: 2, AvgMs: 2000}, stats[0])

	n, err := repo.PruneBefore(ctx, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err := repo.RecentResolutions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "d", left[0].VideoID)
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, NewRepo(db).RecordResolution(context.Background(), stream.Report{RequestID: "x", VideoID: "y"}))
}

package main

import (
	"context"
	"testing"
	"time"

	"github.com/sonroyaalmerol/tubevoice/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:        dir,
		ScratchDir:     dir,
		ProfileTimeout: time.Second,
		MirrorTimeout:  time.Second,
		EnableHistory:  true,
	}
}

func TestRecorderNilStaysNil(t *testing.T) {
	assert.Nil(t, recorder(nil))
}

func TestNewResolverRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Profiles = []string{"not-a-client"}
	_, err := newResolver(context.Background(), cfg, sources{primary: true}, nil)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Mirrors = []string{"gopher=https://x"}
	_, err = newResolver(context.Background(), cfg, sources{mirror: true}, nil)
	assert.Error(t, err)
}

func TestNewResolverWithoutSources(t *testing.T) {
	r, err := newResolver(context.Background(), testConfig(t), sources{}, nil)
	require.NoError(t, err)
	_, ok := r.ResolveAudioURL(context.Background(), "jNQXAC9IVRw")
	assert.False(t, ok)
}

func TestOpenHistory(t *testing.T) {
	cfg := testConfig(t)
	repo, db, err := openHistory(cfg)
	require.NoError(t, err)
	require.NotNil(t, repo)
	require.NoError(t, db.Close())

	cfg.EnableHistory = false
	repo, db, err = openHistory(cfg)
	require.NoError(t, err)
	assert.Nil(t, repo)
	assert.Nil(t, db)
}

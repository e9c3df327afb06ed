package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), afero.NewMemMapFs())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "data/tmp", cfg.ScratchDir)
	assert.Equal(t, 5*time.Second, cfg.MirrorTimeout)
	assert.Equal(t, 8*time.Second, cfg.ProfileTimeout)
	assert.Equal(t, 3, cfg.MaxProfiles)
	assert.Equal(t, 4, cfg.MaxMirrors)
	assert.Equal(t, []string{"es", "en"}, cfg.PreferredLanguages)
	assert.Equal(t, "m4a", cfg.PreferredExt)
	assert.Empty(t, cfg.Profiles)
	assert.Empty(t, cfg.YouTubeAPIKey)
	assert.True(t, cfg.EnableHistory)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", " key-from-env ")
	t.Setenv("COOKIES_PATH", "/run/secrets/cookies.txt")
	t.Setenv("PROFILES", "ios, mweb")
	t.Setenv("MIRROR_TIMEOUT", "2s")
	t.Setenv("MIRRORS", "piped=https://api.example")
	t.Setenv("ENABLE_SPONSORBLOCK", "true")

	cfg, err := Load(New(), afero.NewMemMapFs())
	require.NoError(t, err)

	assert.Equal(t, "key-from-env", cfg.YouTubeAPIKey)
	assert.Equal(t, "/run/secrets/cookies.txt", cfg.YouTubeCookiesPath)
	assert.Equal(t, []string{"ios", "mweb"}, cfg.Profiles)
	assert.Equal(t, 2*time.Second, cfg.MirrorTimeout)
	assert.Equal(t, []string{"piped=https://api.example"}, cfg.Mirrors)
	assert.True(t, cfg.EnableSponsorBlock)
}

func TestLoadSecretsFile(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "nested key", body: `{"youtube":{"api_key":"nested"}}`, want: "nested"},
		{name: "flat key", body: `{"YOUTUBE_API_KEY":"flat"}`, want: "flat"},
		{name: "no key", body: `{"other":1}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/etc/tubevoice/secrets.json", []byte(tt.body), 0o600))

			v := New()
			v.Set(KeySecretsFile, "/etc/tubevoice/secrets.json")
			cfg, err := Load(v, fs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.YouTubeAPIKey)
		})
	}
}

func TestLoadEnvBeatsSecretsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "secrets.json", []byte(`{"youtube":{"api_key":"file"}}`), 0o600))

	v := New()
	v.Set(KeyYouTubeAPIKey, "flag")
	cfg, err := Load(v, fs)
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.YouTubeAPIKey)
}

func TestLoadRejectsBadValues(t *testing.T) {
	v := New()
	v.Set(KeyMirrorTimeout, "0s")
	_, err := Load(v, afero.NewMemMapFs())
	var cerr ErrConfig
	require.ErrorAs(t, err, &cerr)

	v = New()
	v.Set(KeyMaxProfiles, -1)
	_, err = Load(v, afero.NewMemMapFs())
	assert.Error(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "secrets.json", []byte(`{not json`), 0o600))
	_, err = Load(New(), fs)
	assert.Error(t, err)
}

func TestEnsureDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := &Config{DataDir: "/data", ScratchDir: "/data/tmp"}
	require.NoError(t, cfg.EnsureDirs(fs))
	ok, err := afero.DirExists(fs, "/data/tmp")
	require.NoError(t, err)
	assert.True(t, ok)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Keys understood by Load. Each is also read from the environment in upper
// case, e.g. youtube_api_key -> YOUTUBE_API_KEY.
const (
	KeyListenAddr          = "listen_addr"
	KeyDataDir             = "data_dir"
	KeyScratchDir          = "scratch_dir"
	KeyYouTubeAPIKey       = "youtube_api_key"
	KeySecretsFile         = "secrets_file"
	KeyCookiesPath         = "cookies_path"
	KeyProfiles            = "profiles"
	KeyMaxProfiles         = "max_profiles"
	KeyProfileTimeout      = "profile_timeout"
	KeyMirrors             = "mirrors"
	KeyMirrorTimeout       = "mirror_timeout"
	KeyMaxMirrors          = "max_mirrors"
	KeyPreferredLanguages  = "preferred_languages"
	KeyPreferredExt        = "preferred_ext"
	KeyYtdlpAutoInstall    = "ytdlp_auto_install"
	KeyEnableHistory       = "enable_history"
	KeyEnableSponsorBlock  = "enable_sponsorblock"
	KeySponsorBlockTimeout = "sponsorblock_timeout"
	KeyLogLevel            = "log_level"
)

var defaults = map[string]any{
	KeyListenAddr:          ":8080",
	KeyDataDir:             "./data",
	KeySecretsFile:         "secrets.json",
	KeyMaxProfiles:         3,
	KeyProfileTimeout:      8 * time.Second,
	KeyMaxMirrors:          4,
	KeyMirrorTimeout:       5 * time.Second,
	KeyPreferredLanguages:  "es,en",
	KeyPreferredExt:        "m4a",
	KeyYtdlpAutoInstall:    true,
	KeyEnableHistory:       true,
	KeyEnableSponsorBlock:  false,
	KeySponsorBlockTimeout: 5,
	KeyLogLevel:            "info",
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func LoadConfig() (*Config, error) {
	return Load(New(), afero.NewOsFs())
}

// Load builds a Config from v. The API key falls back to the secrets file
// when neither the environment nor a flag set it.
func Load(v *viper.Viper, fs afero.Fs) (*Config, error) {
	dataDir := v.GetString(KeyDataDir)
	scratch := v.GetString(KeyScratchDir)
	if scratch == "" {
		scratch = filepath.Join(dataDir, "tmp")
	}

	cfg := &Config{
		ListenAddr:             v.GetString(KeyListenAddr),
		DataDir:                dataDir,
		ScratchDir:             scratch,
		YouTubeAPIKey:          strings.TrimSpace(v.GetString(KeyYouTubeAPIKey)),
		YouTubeCookiesPath:     v.GetString(KeyCookiesPath),
		Profiles:               splitList(v.GetString(KeyProfiles)),
		MaxProfiles:            v.GetInt(KeyMaxProfiles),
		ProfileTimeout:         v.GetDuration(KeyProfileTimeout),
		Mirrors:                splitList(v.GetString(KeyMirrors)),
		MirrorTimeout:          v.GetDuration(KeyMirrorTimeout),
		MaxMirrors:             v.GetInt(KeyMaxMirrors),
		PreferredLanguages:     splitList(v.GetString(KeyPreferredLanguages)),
		PreferredExt:           v.GetString(KeyPreferredExt),
		YtdlpAutoInstall:       v.GetBool(KeyYtdlpAutoInstall),
		EnableHistory:          v.GetBool(KeyEnableHistory),
		EnableSponsorBlock:     v.GetBool(KeyEnableSponsorBlock),
		SponsorBlockTimeoutMin: v.GetInt(KeySponsorBlockTimeout),
		LogLevel:               v.GetString(KeyLogLevel),
	}

	if cfg.YouTubeAPIKey == "" {
		key, err := apiKeyFromSecrets(fs, v.GetString(KeySecretsFile))
		if err != nil {
			return nil, err
		}
		cfg.YouTubeAPIKey = key
	}

	if cfg.MirrorTimeout <= 0 {
		return nil, ErrConfig("mirror_timeout must be positive")
	}
	if cfg.ProfileTimeout <= 0 {
		return nil, ErrConfig("profile_timeout must be positive")
	}
	if cfg.MaxProfiles < 0 || cfg.MaxMirrors < 0 {
		return nil, ErrConfig("max_profiles and max_mirrors must not be negative")
	}
	return cfg, nil
}

// EnsureDirs creates the data and scratch directories.
func (c *Config) EnsureDirs(fs afero.Fs) error {
	for _, d := range []string{c.DataDir, c.ScratchDir} {
		if err := fs.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// apiKeyFromSecrets reads youtube.api_key, or a top-level YOUTUBE_API_KEY,
// from a JSON secrets file. A missing file is not an error.
func apiKeyFromSecrets(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, err := fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("secrets file: %w", err)
	}

	s := viper.New()
	s.SetFs(fs)
	s.SetConfigFile(path)
	s.SetConfigType("json")
	if err := s.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read secrets file %s: %w", path, err)
	}
	if key := s.GetString("youtube.api_key"); key != "" {
		return strings.TrimSpace(key), nil
	}
	return strings.TrimSpace(s.GetString("YOUTUBE_API_KEY")), nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

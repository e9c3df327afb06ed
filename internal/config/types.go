package config

import "time"

type Config struct {
	ListenAddr string
	DataDir    string
	ScratchDir string

	YouTubeAPIKey      string
	YouTubeCookiesPath string

	Profiles           []string // client profile names, in order; empty = built-in order
	MaxProfiles        int
	ProfileTimeout     time.Duration
	Mirrors            []string // "schema=url" overrides; empty = built-in table
	MirrorTimeout      time.Duration
	MaxMirrors         int
	PreferredLanguages []string
	PreferredExt       string
	YtdlpAutoInstall   bool

	EnableHistory          bool
	EnableSponsorBlock     bool
	SponsorBlockTimeoutMin int

	LogLevel string
}

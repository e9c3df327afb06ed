package stream

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const DefaultProfileTimeout = 8 * time.Second

// ClientProfile is one client identity the extractor can present to the
// platform. Name is a yt-dlp youtube player_client value.
type ClientProfile struct {
	Name    string
	Exclude []string
	Headers map[string]string
	Timeout time.Duration
}

// ExtractorArgs renders the profile as a yt-dlp --extractor-args value, e.g.
// "youtube:player_client=tv_embedded,-web,-web_safari".
func (p ClientProfile) ExtractorArgs() string {
	clients := append([]string{p.Name}, lo.Map(p.Exclude, func(c string, _ int) string {
		return "-" + c
	})...)
	return "youtube:player_client=" + strings.Join(clients, ",")
}

func (p ClientProfile) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultProfileTimeout
	}
	return p.Timeout
}

// DefaultProfiles is ordered from least to most restricted identity.
var DefaultProfiles = []ClientProfile{
	{
		Name:    "tv_embedded",
		Exclude: []string{"web", "web_safari"},
		Headers: map[string]string{
			"Referer":         "https://www.youtube.com/",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
	{
		Name:    "ios",
		Exclude: []string{"web", "web_safari"},
		Headers: map[string]string{"Accept-Language": "en-US,en;q=0.9"},
	},
	{
		Name:    "android",
		Exclude: []string{"web", "web_safari"},
		Headers: map[string]string{"Accept-Language": "en-US,en;q=0.9"},
	},
	{
		Name:    "mweb",
		Exclude: []string{"web"},
		Headers: map[string]string{
			"Origin":          "https://m.youtube.com",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
	{
		Name:    "web_embedded",
		Exclude: []string{"web"},
		Headers: map[string]string{
			"Referer":         "https://www.youtube.com/",
			"Accept-Language": "en-US,en;q=0.9",
		},
	},
}

// ProfilesByName picks profiles out of DefaultProfiles in the given order.
// An empty list returns DefaultProfiles.
func ProfilesByName(names []string) ([]ClientProfile, error) {
	if len(names) == 0 {
		return DefaultProfiles, nil
	}
	out := make([]ClientProfile, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		p, ok := lo.Find(DefaultProfiles, func(p ClientProfile) bool { return p.Name == n })
		if !ok {
			return nil, fmt.Errorf("unknown client profile %q", n)
		}
		out = append(out, p)
	}
	return out, nil
}

// LimitProfiles caps the list at n entries; n <= 0 keeps all of them.
func LimitProfiles(profiles []ClientProfile, n int) []ClientProfile {
	if n <= 0 || n >= len(profiles) {
		return profiles
	}
	return profiles[:n]
}

// WithTimeout returns copies of profiles with the per-attempt timeout set.
func WithTimeout(profiles []ClientProfile, d time.Duration) []ClientProfile {
	return lo.Map(profiles, func(p ClientProfile, _ int) ClientProfile {
		p.Timeout = d
		return p
	})
}

package utils

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

func RandomUserAgent() string {
	// Target Chrome major versions roughly within last ~6 months
	const minMajor = 132
	const maxMajor = 138

	major := rand.IntN(maxMajor-minMajor+1) + minMajor
	return fmt.Sprintf(
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
		major,
	)
}

// CanonicalHeaderKey normalizes the header names we send by hand.
func CanonicalHeaderKey(k string) string {
	k = strings.TrimSpace(k)
	switch strings.ToLower(k) {
	case "user-agent":
		return "User-Agent"
	case "referer":
		return "Referer"
	case "accept":
		return "Accept"
	case "accept-language":
		return "Accept-Language"
	case "origin":
		return "Origin"
	case "x-youtube-client-name":
		return "X-YouTube-Client-Name"
	case "x-youtube-client-version":
		return "X-YouTube-Client-Version"
	default:
		if len(k) == 0 {
			return k
		}
		return strings.ToUpper(k[:1]) + k[1:]
	}
}

// HeaderPairs renders headers as sorted "Key:Value" pairs, the form yt-dlp's
// --add-headers expects. Empty keys and values are dropped.
func HeaderPairs(h map[string]string) []string {
	if len(h) == 0 {
		return nil
	}
	seen := make(map[string]string, len(h))
	for k, v := range h {
		k = CanonicalHeaderKey(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		seen[k] = v
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+":"+seen[k])
	}
	return out
}

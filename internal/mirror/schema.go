package mirror

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sonroyaalmerol/tubevoice/internal/utils"
)

type invidiousVideo struct {
	AdaptiveFormats []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"adaptiveFormats"`
}

type pipedStreams struct {
	AudioStreams []struct {
		MimeType string `json:"mimeType"`
		URL      string `json:"url"`
	} `json:"audioStreams"`
}

type candidate struct {
	mime string
	url  string
}

// audioURL returns the first entry whose MIME type mentions audio.
func audioURL(schema Schema, body []byte) (string, error) {
	var cands []candidate
	switch schema {
	case SchemaInvidious:
		var v invidiousVideo
		if err := json.Unmarshal(body, &v); err != nil {
			return "", &DecodeError{Schema: schema, Err: err}
		}
		for _, f := range v.AdaptiveFormats {
			cands = append(cands, candidate{mime: f.Type, url: f.URL})
		}
	case SchemaPiped:
		var v pipedStreams
		if err := json.Unmarshal(body, &v); err != nil {
			return "", &DecodeError{Schema: schema, Err: err}
		}
		for _, s := range v.AudioStreams {
			cands = append(cands, candidate{mime: s.MimeType, url: s.URL})
		}
	default:
		return "", fmt.Errorf("unsupported schema %s", schema)
	}

	c, ok := lo.Find(cands, func(c candidate) bool {
		return strings.Contains(c.mime, "audio") && c.url != ""
	})
	if !ok {
		return "", fmt.Errorf("%s: %d entries, none audio: %w", schema, len(cands), utils.ErrNoCandidate)
	}
	return c.url, nil
}

package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/sonroyaalmerol/tubevoice/internal/utils"
)

// ErrNoFormats is returned when yt-dlp produced metadata without any stream.
var ErrNoFormats = errors.New("yt-dlp returned no formats")

// ExtractRequest is one metadata extraction under one client identity.
type ExtractRequest struct {
	VideoID    string
	Profile    ClientProfile
	CookieFile string
}

type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) ([]Descriptor, error)
}

type ytdlpFormat struct {
	FormatID   string `json:"format_id"`
	URL        string `json:"url"`
	ACodec     string `json:"acodec"`
	VCodec     string `json:"vcodec"`
	Ext        string `json:"ext"`
	Language   string `json:"language"`
	FormatNote string `json:"format_note"`
}

type ytdlpInfo struct {
	ID string `json:"id"`
	ytdlpFormat
	Formats []ytdlpFormat `json:"formats"`
}

// InstallTimeout bounds the one-time yt-dlp download.
const InstallTimeout = 2 * time.Minute

var (
	installOnce  sync.Once
	installYtdlp = ytdlp.Install
)

// YtdlpExtractor runs yt-dlp in metadata-only mode. Manifests stay enabled
// and per-format availability probes are skipped; TLS verification is left
// at yt-dlp's default.
type YtdlpExtractor struct {
	autoInstall bool
}

func NewYtdlpExtractor(autoInstall bool) *YtdlpExtractor {
	return &YtdlpExtractor{autoInstall: autoInstall}
}

func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// Install downloads yt-dlp once per process when auto-install is enabled.
// The download ignores ctx cancellation and runs under InstallTimeout.
func (e *YtdlpExtractor) Install(ctx context.Context) {
	if !e.autoInstall {
		return
	}
	installOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), InstallTimeout)
		defer cancel()
		if _, err := installYtdlp(ctx, nil); err != nil {
			slog.Warn("yt-dlp install failed, relying on PATH", "err", err)
		}
	})
}

func (e *YtdlpExtractor) Extract(ctx context.Context, req ExtractRequest) ([]Descriptor, error) {
	e.Install(ctx)

	cmd := ytdlp.New().
		DumpJSON().
		NoPlaylist().
		NoCheckFormats().
		ExtractorArgs(req.Profile.ExtractorArgs()).
		SocketTimeout(req.Profile.timeout().Seconds())

	for _, h := range utils.HeaderPairs(req.Profile.Headers) {
		cmd = cmd.AddHeaders(h)
	}
	if req.CookieFile != "" {
		cmd = cmd.Cookies(req.CookieFile)
	}

	slog.Debug("yt-dlp extract", "videoID", req.VideoID, "profile", req.Profile.Name, "cookies", req.CookieFile != "")
	res, err := cmd.Run(ctx, WatchURL(req.VideoID))
	if err != nil {
		if strings.Contains(err.Error(), "Sign in to confirm") {
			return nil, fmt.Errorf("yt-dlp %s: bot check: %w", req.Profile.Name, err)
		}
		return nil, fmt.Errorf("yt-dlp %s: %w", req.Profile.Name, err)
	}
	return decodeFormats(res.Stdout)
}

// decodeFormats reads the first JSON document of yt-dlp's -j output.
func decodeFormats(stdout string) ([]Descriptor, error) {
	var info ytdlpInfo
	if err := json.NewDecoder(strings.NewReader(stdout)).Decode(&info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp json: %w", err)
	}

	out := make([]Descriptor, 0, len(info.Formats)+1)
	for _, f := range info.Formats {
		out = append(out, f.descriptor())
	}
	if len(out) == 0 && info.URL != "" {
		out = append(out, info.ytdlpFormat.descriptor())
	}
	if len(out) == 0 {
		return nil, ErrNoFormats
	}
	return out, nil
}

func (f ytdlpFormat) descriptor() Descriptor {
	return Descriptor{
		URL:        f.URL,
		ACodec:     f.ACodec,
		VCodec:     f.VCodec,
		Ext:        f.Ext,
		Language:   f.Language,
		FormatNote: f.FormatNote,
	}
}

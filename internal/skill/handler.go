package skill

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sonroyaalmerol/tubevoice/internal/search"
)

// Searcher finds videos for spoken queries.
type Searcher interface {
	SearchVideos(ctx context.Context, query string, limit int64) ([]search.Video, error)
	ChannelIDByName(ctx context.Context, name string) (string, error)
	LatestVideo(ctx context.Context, channelID string) (*search.Video, error)
}

// AudioResolver turns a video id into a playable stream URL.
type AudioResolver interface {
	ResolveAudioURL(ctx context.Context, videoID string) (string, bool)
}

// OffsetProvider decides where playback starts.
type OffsetProvider interface {
	StartOffset(ctx context.Context, videoID string) time.Duration
}

type Handler struct {
	search  Searcher
	audio   AudioResolver
	offsets OffsetProvider
}

// NewHandler wires the skill. search may be nil when no API key is
// configured; offsets may be nil to always start at zero.
func NewHandler(s Searcher, audio AudioResolver, offsets OffsetProvider) *Handler {
	return &Handler{search: s, audio: audio, offsets: offsets}
}

func (h *Handler) Handle(ctx context.Context, env *RequestEnvelope) *ResponseEnvelope {
	req := env.Request
	switch {
	case req.Type == TypeLaunch:
		slog.Debug("skill launch", "requestID", req.RequestID)
		return ask(msgWelcome)
	case req.Type == TypeSessionEnded:
		slog.Debug("session ended", "requestID", req.RequestID, "reason", req.Reason)
		return empty()
	case strings.HasPrefix(req.Type, audioPlayerPrefix):
		slog.Debug("audio player event", "type", req.Type, "token", req.Token)
		return empty()
	case req.Type == TypeIntent:
		return h.handleIntent(ctx, req)
	}

	slog.Warn("unhandled request type", "type", req.Type, "requestID", req.RequestID)
	return ask(msgGenericError)
}

func (h *Handler) handleIntent(ctx context.Context, req Request) *ResponseEnvelope {
	name := req.IntentName()
	slog.Info("intent", "name", name, "requestID", req.RequestID, "locale", req.Locale)

	switch name {
	case IntentSearch:
		return h.handleSearch(ctx, req.SlotValue(slotQuery))
	case IntentSearchLast:
		return h.handleSearchLast(ctx, req.SlotValue(slotQuery))
	case IntentPlayOne:
		return h.handlePlayOne(ctx, req.SlotValue(slotQuery))
	case IntentPause:
		return stop()
	case IntentResume:
		return speak(msgCannotResume)
	case IntentHelp:
		return ask(msgHelp)
	case IntentCancel, IntentStop:
		return speak(msgGoodbye)
	}

	slog.Warn("unknown intent", "name", name, "requestID", req.RequestID)
	return ask(msgGenericError)
}

func (h *Handler) handleSearch(ctx context.Context, query string) *ResponseEnvelope {
	if query == "" {
		return ask(msgAskSearch)
	}
	video, err := h.firstVideo(ctx, query)
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			return speak(msgNoVideos(query))
		}
		slog.Error("search failed", "query", query, "err", err)
		return speak(msgUpstreamError)
	}

	url, ok := h.audio.ResolveAudioURL(ctx, video.ID)
	if !ok {
		return speak(msgNoAudioFor(video.Title))
	}
	return h.play(ctx, msgPlaying(video.Title, video.Channel), video.ID, url)
}

func (h *Handler) handleSearchLast(ctx context.Context, channel string) *ResponseEnvelope {
	if channel == "" {
		return ask(msgAskChannel)
	}
	if h.search == nil {
		return speak(msgUpstreamError)
	}

	channelID, err := h.search.ChannelIDByName(ctx, channel)
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			return speak(msgNoChannel(channel))
		}
		slog.Error("channel lookup failed", "channel", channel, "err", err)
		return speak(msgUpstreamError)
	}

	video, err := h.search.LatestVideo(ctx, channelID)
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			return speak(msgNoRecent(channel))
		}
		slog.Error("latest video lookup failed", "channelID", channelID, "err", err)
		return speak(msgUpstreamError)
	}

	url, ok := h.audio.ResolveAudioURL(ctx, video.ID)
	if !ok {
		return speak(msgNoAudioLatest(video.Title))
	}
	return h.play(ctx, msgPlayingLatest(channel, video.Title), video.ID, url)
}

func (h *Handler) handlePlayOne(ctx context.Context, query string) *ResponseEnvelope {
	if query == "" {
		return ask(msgAskSong)
	}
	video, err := h.firstVideo(ctx, query)
	if err != nil {
		if errors.Is(err, search.ErrNoResults) {
			return speak(msgNoSong(query))
		}
		slog.Error("song search failed", "query", query, "err", err)
		return speak(msgSongError)
	}

	url, ok := h.audio.ResolveAudioURL(ctx, video.ID)
	if !ok {
		return speak(msgNoAudio)
	}
	return h.play(ctx, msgPlayingSong(video.Title), video.ID, url)
}

func (h *Handler) firstVideo(ctx context.Context, query string) (*search.Video, error) {
	if h.search == nil {
		return nil, search.ErrNoAPIKey
	}
	videos, err := h.search.SearchVideos(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, search.ErrNoResults
	}
	return &videos[0], nil
}

func (h *Handler) play(ctx context.Context, text, videoID, url string) *ResponseEnvelope {
	var offset time.Duration
	if h.offsets != nil {
		offset = h.offsets.StartOffset(ctx, videoID)
	}
	slog.Info("playing", "videoID", videoID, "offset", offset)
	return play(text, videoID, url, offset.Milliseconds())
}

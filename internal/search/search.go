// Package search finds videos and channels through the YouTube Data API v3.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	ErrNoAPIKey   = errors.New("youtube api key required")
	ErrNoResults  = errors.New("no results")
	ErrEmptyQuery = errors.New("empty query")
)

// Video is a search hit.
type Video struct {
	ID          string
	Title       string
	Description string
	Channel     string
	ChannelID   string
	URL         string
}

type Client struct {
	service *youtube.Service
}

// New creates a Data API client. Extra options are appended after the API
// key, so tests can point it at a local endpoint.
func New(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	service, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{service: service}, nil
}

// SearchVideos returns up to limit videos matching query, most relevant first.
func (c *Client) SearchVideos(ctx context.Context, query string, limit int64) ([]Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 1
	}
	resp, err := c.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}
	return toVideos(resp.Items), nil
}

// ChannelIDByName returns the id of the best matching channel.
func (c *Client) ChannelIDByName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyQuery
	}
	resp, err := c.service.Search.List([]string{"id", "snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("search channel: %w", err)
	}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}
	return "", ErrNoResults
}

// LatestVideo returns the newest upload of a channel.
func (c *Client) LatestVideo(ctx context.Context, channelID string) (*Video, error) {
	resp, err := c.service.Search.List([]string{"id", "snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("latest video: %w", err)
	}
	videos := toVideos(resp.Items)
	if len(videos) == 0 {
		return nil, ErrNoResults
	}
	return &videos[0], nil
}

func toVideos(items []*youtube.SearchResult) []Video {
	items = lo.Filter(items, func(it *youtube.SearchResult, _ int) bool {
		return it != nil && it.Id != nil && it.Id.VideoId != ""
	})
	return lo.Map(items, func(it *youtube.SearchResult, _ int) Video {
		v := Video{
			ID:  it.Id.VideoId,
			URL: "https://www.youtube.com/watch?v=" + it.Id.VideoId,
		}
		if s := it.Snippet; s != nil {
			v.Title = s.Title
			v.Description = s.Description
			v.Channel = s.ChannelTitle
			v.ChannelID = s.ChannelId
		}
		return v
	})
}

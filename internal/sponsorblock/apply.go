package sponsorblock

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultCategories are the segments worth skipping before audio starts.
var DefaultCategories = []string{"sponsor", "intro", "music_offtopic"}

// introWindow is how close to zero a segment must start to count as intro.
const introWindow = 2.0

// Applier turns segment data into a playback start offset.
type Applier struct {
	client     *Client
	cache      *Cache[[]Segment]
	categories []string

	mu            sync.Mutex
	disabledUntil time.Time
	disableFor    time.Duration
}

func NewApplier(client *Client, timeoutMinutes int) *Applier {
	if client == nil {
		client = NewClient("")
	}
	return &Applier{
		client:     client,
		cache:      NewCache[[]Segment](time.Hour),
		categories: DefaultCategories,
		disableFor: time.Duration(timeoutMinutes) * time.Minute,
	}
}

// StartOffset returns where playback should begin so that a leading
// skippable segment is not heard. Any failure yields zero.
func (a *Applier) StartOffset(ctx context.Context, videoID string) time.Duration {
	if a == nil || videoID == "" {
		return 0
	}
	a.mu.Lock()
	disabled := time.Now().Before(a.disabledUntil)
	a.mu.Unlock()
	if disabled {
		return 0
	}

	key := strings.Join(a.categories, ",") + ":" + videoID
	segs, ok := a.cache.Get(key)
	if !ok {
		var err error
		segs, err = a.client.GetSegments(ctx, videoID, a.categories)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				a.mu.Lock()
				a.disabledUntil = time.Now().Add(a.disableFor)
				a.mu.Unlock()
			}
			slog.Debug("sponsorblock lookup failed", "videoID", videoID, "err", err)
			return 0
		}
		a.cache.Set(key, segs)
	}

	segs = MergeSegments(segs)
	if len(segs) == 0 {
		return 0
	}
	first := segs[0]
	if first.Start() > introWindow || first.End() <= 0 {
		return 0
	}
	return time.Duration(first.End() * float64(time.Second))
}

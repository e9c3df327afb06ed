package mirror

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sonroyaalmerol/tubevoice/internal/utils"
)

const DefaultTimeout = 5 * time.Second

type Options struct {
	// Endpoints replaces DefaultEndpoints when non-empty.
	Endpoints []Endpoint
	// Timeout bounds each endpoint visit.
	Timeout time.Duration
	// MaxEndpoints caps visits per call; 0 visits all of them.
	MaxEndpoints int
	// Shuffler orders endpoints; nil uses a crypto-seeded one.
	Shuffler *utils.Shuffler
	// UserAgent is sent on every request; nil uses utils.RandomUserAgent.
	UserAgent func() string
}

// Resolver walks a freshly shuffled copy of the mirror table, one endpoint at
// a time, and returns the first audio URL any of them reports.
type Resolver struct {
	endpoints []Endpoint
	fetcher   Fetcher
	shuffler  *utils.Shuffler
	timeout   time.Duration
	limit     int
	userAgent func() string
}

func NewResolver(f Fetcher, opts Options) *Resolver {
	r := &Resolver{
		endpoints: opts.Endpoints,
		fetcher:   f,
		shuffler:  opts.Shuffler,
		timeout:   opts.Timeout,
		limit:     opts.MaxEndpoints,
		userAgent: opts.UserAgent,
	}
	if len(r.endpoints) == 0 {
		r.endpoints = DefaultEndpoints
	}
	if r.shuffler == nil {
		r.shuffler = utils.NewShuffler(nil)
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.userAgent == nil {
		r.userAgent = utils.RandomUserAgent
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, videoID string) mo.Option[string] {
	log := slog.With("videoID", videoID)
	order := r.order()

	attempts := lo.Map(order, func(ep Endpoint, _ int) utils.Attempt[string] {
		return utils.Attempt[string]{
			Name: ep.String(),
			Run: func(ctx context.Context) mo.Result[string] {
				return r.try(ctx, ep, videoID)
			},
		}
	})

	got, failed := utils.FirstSuccess(ctx, log, "mirror", attempts)
	if got.IsAbsent() {
		log.Info("all mirrors failed", "visited", len(failed))
	}
	return got
}

// order returns the endpoints to visit for one call.
func (r *Resolver) order() []Endpoint {
	out := utils.ShuffledCopy(r.shuffler, r.endpoints)
	if r.limit > 0 && r.limit < len(out) {
		out = out[:r.limit]
	}
	return out
}

func (r *Resolver) try(ctx context.Context, ep Endpoint, videoID string) mo.Result[string] {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, status, err := r.fetcher.Fetch(ctx, ep.StreamsURL(videoID), map[string]string{
		"User-Agent": r.userAgent(),
		"Accept":     "application/json",
	})
	if err != nil {
		return mo.Err[string](err)
	}
	if status != http.StatusOK {
		return mo.Err[string](&HTTPStatusError{Endpoint: ep.BaseURL, StatusCode: status})
	}

	url, err := audioURL(ep.Schema, body)
	if err != nil {
		return mo.Err[string](err)
	}
	return mo.Ok(url)
}

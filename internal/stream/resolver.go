package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/sonroyaalmerol/tubevoice/internal/utils"
)

const (
	SourcePrimary = "primary"
	SourceMirror  = "mirror"
)

// Source resolves a video id to a playable URL, or nothing.
type Source interface {
	Resolve(ctx context.Context, videoID string) mo.Option[string]
}

// Resolution is a successful result and the source that produced it.
type Resolution struct {
	URL    string
	Source string
}

// Report describes one finished Resolve call.
type Report struct {
	RequestID string
	VideoID   string
	Source    string
	URL       string
	OK        bool
	Attempts  int
	Elapsed   time.Duration
}

type Recorder interface {
	RecordResolution(ctx context.Context, r Report) error
}

// Resolver tries the primary source, then the mirror source, and returns the
// first URL either produces. Nothing is retried.
type Resolver struct {
	primary  Source
	mirror   Source
	recorder Recorder
}

func NewResolver(primary, mirror Source) *Resolver {
	return &Resolver{primary: primary, mirror: mirror}
}

// WithRecorder makes every finished call reported to rec.
func (r *Resolver) WithRecorder(rec Recorder) *Resolver {
	r.recorder = rec
	return r
}

func (r *Resolver) Resolve(ctx context.Context, videoID string) mo.Option[Resolution] {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return mo.None[Resolution]()
	}

	reqID := uuid.NewString()
	log := slog.With("requestID", reqID, "videoID", videoID)
	start := time.Now()

	var attempts []utils.Attempt[Resolution]
	for _, st := range []struct {
		name string
		src  Source
	}{{SourcePrimary, r.primary}, {SourceMirror, r.mirror}} {
		if st.src == nil {
			continue
		}
		attempts = append(attempts, utils.Attempt[Resolution]{
			Name: st.name,
			Run: func(ctx context.Context) mo.Result[Resolution] {
				return runSource(ctx, st.name, st.src, videoID)
			},
		})
	}

	got, failed := utils.FirstSuccess(ctx, log, "source", attempts)
	res, ok := got.Get()
	elapsed := time.Since(start)
	if ok {
		log.Info("resolved audio url", "source", res.Source, "took", elapsed)
	} else {
		log.Warn("no playable url", "took", elapsed)
	}

	if r.recorder != nil {
		rep := Report{
			RequestID: reqID,
			VideoID:   videoID,
			Source:    res.Source,
			URL:       res.URL,
			OK:        ok,
			Attempts:  len(failed) + boolToInt(ok),
			Elapsed:   elapsed,
		}
		if err := r.recorder.RecordResolution(context.WithoutCancel(ctx), rep); err != nil {
			log.Warn("record resolution failed", "err", err)
		}
	}
	return got
}

// ResolveAudioURL is Resolve collapsed to (url, found).
func (r *Resolver) ResolveAudioURL(ctx context.Context, videoID string) (string, bool) {
	res, ok := r.Resolve(ctx, videoID).Get()
	return res.URL, ok
}

func runSource(ctx context.Context, name string, src Source, videoID string) (out mo.Result[Resolution]) {
	defer func() {
		if p := recover(); p != nil {
			out = mo.Err[Resolution](fmt.Errorf("%s source panicked: %v", name, p))
		}
	}()

	url, ok := src.Resolve(ctx, videoID).Get()
	if !ok {
		return mo.Err[Resolution](utils.ErrNoCandidate)
	}
	return mo.Ok(Resolution{URL: url, Source: name})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

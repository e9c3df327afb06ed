package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sonroyaalmerol/tubevoice/internal/utils"
)

// PrimaryResolver asks the platform directly, once per client profile, and
// stops at the first profile whose formats yield a URL.
type PrimaryResolver struct {
	extractor Extractor
	profiles  []ClientProfile
	cookies   *CookieStager
	selector  Selector
}

func NewPrimaryResolver(ex Extractor, profiles []ClientProfile, cookies *CookieStager, sel Selector) *PrimaryResolver {
	if len(profiles) == 0 {
		profiles = DefaultProfiles
	}
	return &PrimaryResolver{extractor: ex, profiles: profiles, cookies: cookies, selector: sel}
}

func (p *PrimaryResolver) Resolve(ctx context.Context, videoID string) mo.Option[string] {
	log := slog.With("videoID", videoID)

	cookieFile, cleanup, err := p.cookies.Stage()
	if err != nil {
		log.Warn("cookie staging failed, continuing without cookies", "err", err)
	}
	defer cleanup()

	attempts := lo.Map(p.profiles, func(prof ClientProfile, _ int) utils.Attempt[string] {
		return utils.Attempt[string]{
			Name: prof.Name,
			Run: func(ctx context.Context) mo.Result[string] {
				return p.try(ctx, prof, videoID, cookieFile)
			},
		}
	})

	got, failed := utils.FirstSuccess(ctx, log, "profile", attempts)
	if got.IsAbsent() {
		log.Info("all client profiles failed", "attempts", len(failed))
	}
	return got
}

func (p *PrimaryResolver) try(ctx context.Context, prof ClientProfile, videoID, cookieFile string) mo.Result[string] {
	ctx, cancel := context.WithTimeout(ctx, prof.timeout())
	defer cancel()

	descs, err := p.extractor.Extract(ctx, ExtractRequest{
		VideoID:    videoID,
		Profile:    prof,
		CookieFile: cookieFile,
	})
	if err != nil {
		return mo.Err[string](err)
	}

	url, ok := p.selector.Select(descs).Get()
	if !ok {
		return mo.Err[string](fmt.Errorf("%d formats, none with playable audio: %w", len(descs), utils.ErrNoCandidate))
	}
	return mo.Ok(url)
}

package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/sonroyaalmerol/tubevoice/internal/config"
	"github.com/sonroyaalmerol/tubevoice/internal/mirror"
	"github.com/sonroyaalmerol/tubevoice/internal/repository"
	"github.com/sonroyaalmerol/tubevoice/internal/search"
	"github.com/sonroyaalmerol/tubevoice/internal/stream"
	"github.com/spf13/afero"
)

type sources struct {
	primary bool
	mirror  bool
}

func newPrimary(ctx context.Context, cfg *config.Config) (*stream.PrimaryResolver, error) {
	profiles, err := stream.ProfilesByName(cfg.Profiles)
	if err != nil {
		return nil, err
	}
	profiles = stream.WithTimeout(stream.LimitProfiles(profiles, cfg.MaxProfiles), cfg.ProfileTimeout)

	ex := stream.NewYtdlpExtractor(cfg.YtdlpAutoInstall)
	ex.Install(ctx)

	return stream.NewPrimaryResolver(
		ex,
		profiles,
		stream.NewCookieStager(afero.NewOsFs(), cfg.YouTubeCookiesPath, cfg.ScratchDir),
		stream.Selector{Languages: cfg.PreferredLanguages, PreferredExt: cfg.PreferredExt},
	), nil
}

func newMirror(cfg *config.Config) (*mirror.Resolver, error) {
	endpoints, err := mirror.ParseEndpoints(cfg.Mirrors)
	if err != nil {
		return nil, err
	}

	var fetcher mirror.Fetcher
	browser, err := mirror.NewBrowserFetcher(cfg.MirrorTimeout)
	if err != nil {
		slog.Warn("browser fetcher unavailable, using net/http", "err", err)
		fetcher = mirror.NewHTTPFetcher(cfg.MirrorTimeout)
	} else {
		fetcher = browser
	}

	return mirror.NewResolver(fetcher, mirror.Options{
		Endpoints:    endpoints,
		Timeout:      cfg.MirrorTimeout,
		MaxEndpoints: cfg.MaxMirrors,
	}), nil
}

// newResolver assembles the resolution chain. rec may be nil.
func newResolver(ctx context.Context, cfg *config.Config, use sources, rec stream.Recorder) (*stream.Resolver, error) {
	var primary, secondary stream.Source
	if use.primary {
		p, err := newPrimary(ctx, cfg)
		if err != nil {
			return nil, err
		}
		primary = p
	}
	if use.mirror {
		m, err := newMirror(cfg)
		if err != nil {
			return nil, err
		}
		secondary = m
	}

	r := stream.NewResolver(primary, secondary)
	if rec != nil {
		r.WithRecorder(rec)
	}
	return r, nil
}

// openHistory returns nil when history is disabled.
func openHistory(cfg *config.Config) (*repository.Repo, *sql.DB, error) {
	if !cfg.EnableHistory {
		return nil, nil, nil
	}
	db, err := repository.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRepo(db), db, nil
}

func newSearch(ctx context.Context, cfg *config.Config) (*search.Client, error) {
	return search.New(ctx, cfg.YouTubeAPIKey)
}

// recorder keeps a nil repo from becoming a non-nil stream.Recorder.
func recorder(repo *repository.Repo) stream.Recorder {
	if repo == nil {
		return nil
	}
	return repo
}

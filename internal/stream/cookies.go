package stream

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/afero"
)

// CookieStager hands every resolution its own writable copy of the cookie
// file. yt-dlp rewrites the jar it is given, so concurrent resolutions must
// never share one.
type CookieStager struct {
	fs         afero.Fs
	source     string
	scratchDir string
}

func NewCookieStager(fsys afero.Fs, source, scratchDir string) *CookieStager {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &CookieStager{fs: fsys, source: source, scratchDir: scratchDir}
}

// Stage returns the path of a fresh copy of the cookie file and a cleanup
// func that removes it. With no cookie file configured or present it returns
// "" and a no-op cleanup.
func (c *CookieStager) Stage() (string, func(), error) {
	noop := func() {}
	if c == nil || c.source == "" {
		return "", noop, nil
	}

	src, err := c.fs.Open(c.source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", noop, nil
		}
		return "", noop, fmt.Errorf("open cookies: %w", err)
	}
	defer src.Close()

	if err := c.fs.MkdirAll(c.scratchDir, 0o700); err != nil {
		return "", noop, fmt.Errorf("scratch dir: %w", err)
	}
	dst, err := afero.TempFile(c.fs, c.scratchDir, "cookies-*.txt")
	if err != nil {
		return "", noop, fmt.Errorf("scratch cookies: %w", err)
	}
	name := dst.Name()
	cleanup := func() {
		if err := c.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("remove scratch cookies", "path", name, "err", err)
		}
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", noop, fmt.Errorf("copy cookies: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("close scratch cookies: %w", err)
	}
	return name, cleanup, nil
}

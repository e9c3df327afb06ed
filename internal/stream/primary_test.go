package stream

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor answers per profile name and records requests.
type fakeExtractor struct {
	mu      sync.Mutex
	answers map[string][]Descriptor
	errs    map[string]error
	reqs    []ExtractRequest
}

func (f *fakeExtractor) Extract(_ context.Context, req ExtractRequest) ([]Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if err := f.errs[req.Profile.Name]; err != nil {
		return nil, err
	}
	if d, ok := f.answers[req.Profile.Name]; ok {
		return d, nil
	}
	return nil, ErrNoFormats
}

func (f *fakeExtractor) profiles() []string {
	out := make([]string, 0, len(f.reqs))
	for _, r := range f.reqs {
		out = append(out, r.Profile.Name)
	}
	return out
}

var testProfiles = []ClientProfile{{Name: "p1"}, {Name: "p2"}, {Name: "p3"}}

func TestPrimaryShortCircuits(t *testing.T) {
	ex := &fakeExtractor{answers: map[string][]Descriptor{
		"p1": {audioOnly("first", "m4a")},
		"p2": {audioOnly("second", "m4a")},
	}}
	p := NewPrimaryResolver(ex, testProfiles, nil, Selector{})

	got, ok := p.Resolve(context.Background(), "vid").Get()
	require.True(t, ok)
	assert.Equal(t, "first", got)
	assert.Equal(t, []string{"p1"}, ex.profiles())
}

func TestPrimarySkipsFailingProfiles(t *testing.T) {
	ex := &fakeExtractor{
		errs: map[string]error{"p1": errors.New("Sign in to confirm you're not a bot")},
		answers: map[string][]Descriptor{
			"p2": {{ACodec: "opus", VCodec: "none"}},
			"p3": {muxed("muxed", "mp4")},
		},
	}
	p := NewPrimaryResolver(ex, testProfiles, nil, Selector{})

	got, ok := p.Resolve(context.Background(), "vid").Get()
	require.True(t, ok)
	assert.Equal(t, "muxed", got)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ex.profiles())
}

func TestPrimaryExhaustion(t *testing.T) {
	ex := &fakeExtractor{errs: map[string]error{
		"p1": errors.New("HTTP Error 403"),
		"p2": context.DeadlineExceeded,
		"p3": errors.New("exit status 1"),
	}}
	p := NewPrimaryResolver(ex, testProfiles, nil, Selector{})

	assert.True(t, p.Resolve(context.Background(), "vid").IsAbsent())
	assert.Len(t, ex.reqs, 3)
}

func TestPrimaryStagesCookiesOncePerCall(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cookies.txt", []byte("jar"), 0o600))

	ex := &fakeExtractor{answers: map[string][]Descriptor{"p3": {audioOnly("ok", "m4a")}}}
	p := NewPrimaryResolver(ex, testProfiles, NewCookieStager(fs, "/cookies.txt", "/scratch"), Selector{})

	_, ok := p.Resolve(context.Background(), "vid").Get()
	require.True(t, ok)
	require.Len(t, ex.reqs, 3)

	staged := ex.reqs[0].CookieFile
	assert.NotEmpty(t, staged)
	assert.NotEqual(t, "/cookies.txt", staged)
	for _, r := range ex.reqs {
		assert.Equal(t, staged, r.CookieFile)
	}

	exists, err := afero.Exists(fs, staged)
	require.NoError(t, err)
	assert.False(t, exists, "scratch cookie file is removed after the call")
}

func TestPrimaryWithoutCookieFile(t *testing.T) {
	ex := &fakeExtractor{answers: map[string][]Descriptor{"p1": {audioOnly("ok", "m4a")}}}
	p := NewPrimaryResolver(ex, testProfiles, NewCookieStager(afero.NewMemMapFs(), "/missing.txt", "/scratch"), Selector{})

	_, ok := p.Resolve(context.Background(), "vid").Get()
	require.True(t, ok)
	assert.Empty(t, ex.reqs[0].CookieFile)
}

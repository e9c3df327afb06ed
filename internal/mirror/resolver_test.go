package mirror

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sonroyaalmerol/tubevoice/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	body   string
	status int
	err    error
}

// fakeFetcher answers by URL prefix and records every request.
type fakeFetcher struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []string
	headers []map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, headers map[string]string) ([]byte, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	f.headers = append(f.headers, headers)
	for prefix, r := range f.replies {
		if strings.HasPrefix(url, prefix) {
			return []byte(r.body), r.status, r.err
		}
	}
	return nil, 0, errors.New("connection refused")
}

const invidiousAudio = `{"adaptiveFormats":[{"type":"audio/mp4","url":"https://mirror/x.m4a"}]}`

func TestResolverSchemaA(t *testing.T) {
	f := &fakeFetcher{replies: map[string]reply{
		"https://a.example": {body: invidiousAudio, status: 200},
	}}
	r := NewResolver(f, Options{
		Endpoints: []Endpoint{{BaseURL: "https://a.example", Schema: SchemaInvidious}},
	})

	got, ok := r.Resolve(context.Background(), "jNQXAC9IVRw").Get()
	require.True(t, ok)
	assert.Equal(t, "https://mirror/x.m4a", got)
	assert.Equal(t, []string{"https://a.example/api/v1/videos/jNQXAC9IVRw"}, f.calls)
	assert.Contains(t, f.headers[0]["User-Agent"], "Mozilla/5.0")
}

func TestResolverSkipsBadEndpoints(t *testing.T) {
	endpoints := []Endpoint{
		{BaseURL: "https://notfound.example", Schema: SchemaInvidious},
		{BaseURL: "https://garbage.example", Schema: SchemaPiped},
		{BaseURL: "https://down.example", Schema: SchemaPiped},
		{BaseURL: "https://noaudio.example", Schema: SchemaInvidious},
		{BaseURL: "https://good.example", Schema: SchemaPiped},
	}
	f := &fakeFetcher{replies: map[string]reply{
		"https://notfound.example": {body: `{"error":"not found"}`, status: 404},
		"https://garbage.example":  {body: `<!doctype html>`, status: 200},
		"https://down.example":     {err: errors.New("dial tcp: i/o timeout")},
		"https://noaudio.example":  {body: `{"adaptiveFormats":[]}`, status: 200},
		"https://good.example":     {body: `{"audioStreams":[{"mimeType":"audio/webm","url":"https://piped/ok"}]}`, status: 200},
	}}

	// Try many seeds: whatever the order, the good endpoint is found and
	// nothing after it is visited.
	for seed := uint64(0); seed < 20; seed++ {
		f.calls = nil
		r := NewResolver(f, Options{Endpoints: endpoints, Shuffler: utils.NewSeededShuffler(seed)})

		got, ok := r.Resolve(context.Background(), "vid").Get()
		require.True(t, ok)
		assert.Equal(t, "https://piped/ok", got)
		require.NotEmpty(t, f.calls)
		assert.Equal(t, "https://good.example/streams/vid", f.calls[len(f.calls)-1])
	}
}

func TestResolverMalformedBodyActsLikeNotFound(t *testing.T) {
	endpoints := []Endpoint{
		{BaseURL: "https://first.example", Schema: SchemaInvidious},
		{BaseURL: "https://second.example", Schema: SchemaPiped},
	}
	run := func(first reply) ([]string, string, bool) {
		f := &fakeFetcher{replies: map[string]reply{
			"https://first.example":  first,
			"https://second.example": {body: `{"audioStreams":[{"mimeType":"audio/mp4","url":"https://piped/a.m4a"}]}`, status: 200},
		}}
		r := NewResolver(f, Options{Endpoints: endpoints, Shuffler: utils.NewSeededShuffler(7)})
		got, ok := r.Resolve(context.Background(), "vid").Get()
		return f.calls, got, ok
	}

	notFoundCalls, notFoundURL, notFoundOK := run(reply{body: `{"error":"not found"}`, status: 404})
	malformedCalls, malformedURL, malformedOK := run(reply{body: `{"adaptiveFormats":`, status: 200})

	require.NotEmpty(t, notFoundCalls)
	assert.Equal(t, "https://second.example/streams/vid", notFoundCalls[len(notFoundCalls)-1])
	assert.Equal(t, notFoundCalls, malformedCalls)
	assert.True(t, notFoundOK)
	assert.Equal(t, notFoundOK, malformedOK)
	assert.Equal(t, "https://piped/a.m4a", notFoundURL)
	assert.Equal(t, notFoundURL, malformedURL)
}

func TestResolverExhaustion(t *testing.T) {
	f := &fakeFetcher{replies: map[string]reply{
		"https://a.example": {status: 500},
		"https://b.example": {body: `{}`, status: 200},
	}}
	r := NewResolver(f, Options{Endpoints: []Endpoint{
		{BaseURL: "https://a.example", Schema: SchemaInvidious},
		{BaseURL: "https://b.example", Schema: SchemaPiped},
		{BaseURL: "https://c.example", Schema: SchemaPiped},
	}})

	got := r.Resolve(context.Background(), "vid")
	assert.True(t, got.IsAbsent())
	assert.Len(t, f.calls, 3)
}

func TestResolverOrder(t *testing.T) {
	before := append([]Endpoint(nil), DefaultEndpoints...)

	a := NewResolver(&fakeFetcher{}, Options{Shuffler: utils.NewSeededShuffler(7)}).order()
	b := NewResolver(&fakeFetcher{}, Options{Shuffler: utils.NewSeededShuffler(7)}).order()

	assert.Equal(t, before, DefaultEndpoints)
	assert.Equal(t, a, b)
	assert.ElementsMatch(t, DefaultEndpoints, a)

	capped := NewResolver(&fakeFetcher{}, Options{MaxEndpoints: 3}).order()
	assert.Len(t, capped, 3)
}

func TestResolverCapLimitsVisits(t *testing.T) {
	f := &fakeFetcher{}
	r := NewResolver(f, Options{MaxEndpoints: 2})
	assert.True(t, r.Resolve(context.Background(), "vid").IsAbsent())
	assert.Len(t, f.calls, 2)
}

func TestResolverPerEndpointTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(invidiousAudio))
	}))
	defer fast.Close()

	r := NewResolver(NewHTTPFetcher(time.Minute), Options{
		Endpoints: []Endpoint{
			{BaseURL: slow.URL, Schema: SchemaInvidious},
			{BaseURL: fast.URL, Schema: SchemaInvidious},
		},
		Timeout: 100 * time.Millisecond,
	})

	start := time.Now()
	got, ok := r.Resolve(context.Background(), "vid").Get()
	require.True(t, ok)
	assert.Equal(t, "https://mirror/x.m4a", got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPFetcherAcceptsSelfSignedCert(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/streams/vid", r.URL.Path)
		assert.Equal(t, "ua", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"audioStreams":[{"mimeType":"audio/mp4","url":"https://tls/ok"}]}`))
	}))
	defer srv.Close()

	r := NewResolver(NewHTTPFetcher(time.Second), Options{
		Endpoints: []Endpoint{{BaseURL: srv.URL, Schema: SchemaPiped}},
		UserAgent: func() string { return "ua" },
	})
	got, ok := r.Resolve(context.Background(), "vid").Get()
	require.True(t, ok)
	assert.Equal(t, "https://tls/ok", got)

	// a default client must still reject the same certificate
	_, err := http.Get(srv.URL + "/streams/vid")
	assert.Error(t, err)
}

package mirror

import (
	"fmt"
	"net/url"
	"strings"
)

// Schema is the response layout a mirror speaks.
type Schema int

const (
	// SchemaInvidious serves /api/v1/videos/{id} with adaptiveFormats[].
	SchemaInvidious Schema = iota + 1
	// SchemaPiped serves /streams/{id} with audioStreams[].
	SchemaPiped
)

func (s Schema) String() string {
	switch s {
	case SchemaInvidious:
		return "invidious"
	case SchemaPiped:
		return "piped"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

func ParseSchema(s string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invidious", "a":
		return SchemaInvidious, nil
	case "piped", "b":
		return SchemaPiped, nil
	}
	return 0, fmt.Errorf("unknown mirror schema %q", s)
}

type Endpoint struct {
	BaseURL string
	Schema  Schema
}

func (e Endpoint) String() string {
	return e.Schema.String() + "=" + e.BaseURL
}

// StreamsURL is the per-video lookup URL for this endpoint.
func (e Endpoint) StreamsURL(videoID string) string {
	base := strings.TrimRight(e.BaseURL, "/")
	id := url.PathEscape(videoID)
	if e.Schema == SchemaPiped {
		return base + "/streams/" + id
	}
	return base + "/api/v1/videos/" + id
}

// DefaultEndpoints is the built-in mirror table. Callers must not modify it;
// Resolver only ever shuffles a copy.
var DefaultEndpoints = []Endpoint{
	{BaseURL: "https://vid.puffyan.us", Schema: SchemaInvidious},
	{BaseURL: "https://invidious.drgns.space", Schema: SchemaInvidious},
	{BaseURL: "https://inv.tux.pizza", Schema: SchemaInvidious},
	{BaseURL: "https://invidious.lunar.icu", Schema: SchemaInvidious},
	{BaseURL: "https://inv.nadeko.net", Schema: SchemaInvidious},
	{BaseURL: "https://invidious.privacyredirect.com", Schema: SchemaInvidious},
	{BaseURL: "https://invidious.nerdvpn.de", Schema: SchemaInvidious},
	{BaseURL: "https://invidious.jing.rocks", Schema: SchemaInvidious},
	{BaseURL: "https://pipedapi.systemless.xyz", Schema: SchemaPiped},
	{BaseURL: "https://pipedapi.smnz.de", Schema: SchemaPiped},
	{BaseURL: "https://pipedapi.kavin.rocks", Schema: SchemaPiped},
	{BaseURL: "https://api.piped.privacy.com.de", Schema: SchemaPiped},
}

// ParseEndpoints reads "schema=baseURL" entries, e.g.
// "invidious=https://inv.example,piped=https://api.example".
func ParseEndpoints(specs []string) ([]Endpoint, error) {
	var out []Endpoint
	for _, s := range specs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kind, base, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("mirror %q: want schema=url", s)
		}
		schema, err := ParseSchema(kind)
		if err != nil {
			return nil, err
		}
		u, err := url.Parse(strings.TrimSpace(base))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("mirror %q: bad base url", s)
		}
		out = append(out, Endpoint{BaseURL: strings.TrimRight(u.String(), "/"), Schema: schema})
	}
	return out, nil
}

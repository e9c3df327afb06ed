package stream

import (
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

const DefaultPreferredExt = "m4a"

// Selector picks one URL out of an extractor's descriptor list.
//
// Only descriptors with a URL and an audio codec are candidates, so
// storyboards and video-only formats are never returned. Order of
// preference: audio-only in PreferredExt, any other audio-only (first seen),
// then a muxed stream, then any remaining audio-bearing descriptor. When
// candidates carry language metadata they are narrowed first to the best
// language bucket: each entry of Languages, then the original track, then
// tracks with no language. The last two are only drawn from audio-only
// candidates when there are any.
type Selector struct {
	Languages    []string
	PreferredExt string
}

func (s Selector) Select(descs []Descriptor) mo.Option[string] {
	cands := lo.Filter(descs, func(d Descriptor, _ int) bool { return d.HasURL() && d.HasAudio() })
	if len(cands) == 0 {
		return mo.None[string]()
	}
	cands = s.narrowLanguage(cands)

	audio := lo.Filter(cands, func(d Descriptor, _ int) bool { return d.IsAudioOnly() })
	if len(audio) > 0 {
		ext := s.preferredExt()
		if d, ok := lo.Find(audio, func(d Descriptor) bool { return strings.EqualFold(d.Ext, ext) }); ok {
			return mo.Some(d.URL)
		}
		return mo.Some(audio[0].URL)
	}

	if d, ok := lo.Find(cands, Descriptor.IsMuxed); ok {
		return mo.Some(d.URL)
	}
	return mo.Some(cands[0].URL)
}

func (s Selector) preferredExt() string {
	if s.PreferredExt == "" {
		return DefaultPreferredExt
	}
	return s.PreferredExt
}

func (s Selector) narrowLanguage(cands []Descriptor) []Descriptor {
	if !lo.SomeBy(cands, func(d Descriptor) bool { return d.Language != "" }) {
		return cands
	}
	cands = dropTranslated(cands)

	for _, want := range s.Languages {
		bucket := lo.Filter(cands, func(d Descriptor, _ int) bool { return matchesLanguage(d.Language, want) })
		if len(bucket) > 0 {
			return bucket
		}
	}

	// No configured language matched: audio-only outranks the remaining
	// language buckets.
	pool := lo.Filter(cands, func(d Descriptor, _ int) bool { return d.IsAudioOnly() })
	if len(pool) == 0 {
		pool = cands
	}
	if bucket := lo.Filter(pool, func(d Descriptor, _ int) bool { return d.IsOriginal() }); len(bucket) > 0 {
		return bucket
	}
	if bucket := lo.Filter(pool, func(d Descriptor, _ int) bool { return d.Language == "" }); len(bucket) > 0 {
		return bucket
	}
	return pool
}

// dropTranslated removes machine-translated tracks that have a
// non-translated counterpart in the same language and media class.
func dropTranslated(cands []Descriptor) []Descriptor {
	return lo.Reject(cands, func(d Descriptor, _ int) bool {
		if !d.IsMachineTranslated() {
			return false
		}
		base := primaryLanguage(d.Language)
		return lo.SomeBy(cands, func(o Descriptor) bool {
			return !o.IsMachineTranslated() &&
				primaryLanguage(o.Language) == base &&
				o.IsAudioOnly() == d.IsAudioOnly()
		})
	})
}

func primaryLanguage(tag string) string {
	tag = normalizeLanguage(tag)
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}

func matchesLanguage(tag, want string) bool {
	tag = normalizeLanguage(tag)
	want = normalizeLanguage(want)
	if tag == "" || want == "" {
		return false
	}
	return tag == want || strings.HasPrefix(tag, want+"-")
}

func normalizeLanguage(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}

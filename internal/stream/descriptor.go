package stream

import "strings"

const codecNone = "none"

// Descriptor is one candidate stream as reported by the extractor.
type Descriptor struct {
	URL        string
	ACodec     string // "none" when the stream carries no audio
	VCodec     string // "none" when the stream carries no video
	Ext        string
	Language   string
	FormatNote string
}

func (d Descriptor) HasURL() bool {
	return strings.TrimSpace(d.URL) != ""
}

func (d Descriptor) HasAudio() bool {
	a := strings.ToLower(strings.TrimSpace(d.ACodec))
	return a != "" && a != codecNone
}

func (d Descriptor) HasVideo() bool {
	v := strings.ToLower(strings.TrimSpace(d.VCodec))
	return v != "" && v != codecNone
}

// IsMuxed reports a single stream carrying both audio and video.
func (d Descriptor) IsMuxed() bool {
	return d.HasAudio() && d.HasVideo()
}

// IsAudioOnly requires a real audio codec and an explicit "none" video codec.
func (d Descriptor) IsAudioOnly() bool {
	return d.HasAudio() && strings.EqualFold(strings.TrimSpace(d.VCodec), codecNone)
}

// IsMachineTranslated reports auto-dubbed or auto-translated audio tracks.
func (d Descriptor) IsMachineTranslated() bool {
	n := strings.ToLower(d.FormatNote)
	return strings.Contains(n, "dubbed-auto") || strings.Contains(n, "translated")
}

// IsOriginal reports the track the uploader marked as the original audio.
func (d Descriptor) IsOriginal() bool {
	return strings.Contains(strings.ToLower(d.FormatNote), "original")
}

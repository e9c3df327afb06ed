package skill

import "strings"

// Request types and intent names the skill reacts to.
const (
	TypeLaunch       = "LaunchRequest"
	TypeIntent       = "IntentRequest"
	TypeSessionEnded = "SessionEndedRequest"

	audioPlayerPrefix = "AudioPlayer."

	IntentSearch     = "SearchIntent"
	IntentSearchLast = "SearchLastIntent"
	IntentPlayOne    = "PlayOneIntent"
	IntentPause      = "AMAZON.PauseIntent"
	IntentResume     = "AMAZON.ResumeIntent"
	IntentHelp       = "AMAZON.HelpIntent"
	IntentCancel     = "AMAZON.CancelIntent"
	IntentStop       = "AMAZON.StopIntent"

	slotQuery = "query"
)

type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Request Request  `json:"request"`
}

type Session struct {
	SessionID   string `json:"sessionId"`
	New         bool   `json:"new"`
	Application struct {
		ApplicationID string `json:"applicationId"`
	} `json:"application"`
}

type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp"`
	Locale    string  `json:"locale"`
	Intent    *Intent `json:"intent,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Token     string  `json:"token,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// IntentName is empty for non-intent requests.
func (r Request) IntentName() string {
	if r.Intent == nil {
		return ""
	}
	return r.Intent.Name
}

// SlotValue returns the trimmed value of slot name, or "".
func (r Request) SlotValue(name string) string {
	if r.Intent == nil {
		return ""
	}
	return strings.TrimSpace(r.Intent.Slots[name].Value)
}

type ResponseEnvelope struct {
	Version  string   `json:"version"`
	Response Response `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

type Directive struct {
	Type         string     `json:"type"`
	PlayBehavior string     `json:"playBehavior,omitempty"`
	AudioItem    *AudioItem `json:"audioItem,omitempty"`
}

type AudioItem struct {
	Stream Stream `json:"stream"`
}

type Stream struct {
	Token                string `json:"token"`
	URL                  string `json:"url"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds"`
}

// response builders

func plain(text string) *OutputSpeech {
	return &OutputSpeech{Type: "PlainText", Text: text}
}

func endSession(v bool) *bool { return &v }

func speak(text string) *ResponseEnvelope {
	return &ResponseEnvelope{Version: "1.0", Response: Response{
		OutputSpeech:     plain(text),
		ShouldEndSession: endSession(true),
	}}
}

func ask(text string) *ResponseEnvelope {
	return &ResponseEnvelope{Version: "1.0", Response: Response{
		OutputSpeech:     plain(text),
		Reprompt:         &Reprompt{OutputSpeech: *plain(text)},
		ShouldEndSession: endSession(false),
	}}
}

func empty() *ResponseEnvelope {
	return &ResponseEnvelope{Version: "1.0"}
}

func play(text, token, url string, offsetMs int64) *ResponseEnvelope {
	env := speak(text)
	env.Response.Directives = []Directive{{
		Type:         "AudioPlayer.Play",
		PlayBehavior: "REPLACE_ALL",
		AudioItem: &AudioItem{Stream: Stream{
			Token:                token,
			URL:                  url,
			OffsetInMilliseconds: offsetMs,
		}},
	}}
	return env
}

func stop() *ResponseEnvelope {
	return &ResponseEnvelope{Version: "1.0", Response: Response{
		Directives: []Directive{{Type: "AudioPlayer.Stop"}},
	}}
}

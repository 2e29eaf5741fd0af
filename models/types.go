package models

import (
	"encoding/json"
	"errors"
)

// Validation errors for the inbound event body.
var (
	ErrMissingEvent      = errors.New("event is required")
	ErrMissingProperties = errors.New("properties is required")
)

// TrackRequest is the body of the browser-side conversion call.
// Only event and properties are required; everything else is forwarded
// as-received and omitted upstream when absent.
type TrackRequest struct {
	Event      string         `json:"event"`
	EventID    string         `json:"event_id,omitempty"` // upstream dedupe only; the relay never dedupes
	Properties map[string]any `json:"properties,omitempty"`
	PageURL    string         `json:"page_url,omitempty"`
	Referrer   string         `json:"referrer,omitempty"`
	TTCLID     string         `json:"ttclid,omitempty"` // ad-click identifier
	TTP        string         `json:"ttp,omitempty"`    // TikTok first-party cookie
}

// Validate checks that event and properties are present and non-empty.
// Presence only: falsy values inside properties are not an error.
func (r *TrackRequest) Validate() error {
	if r.Event == "" {
		return ErrMissingEvent
	}
	if len(r.Properties) == 0 {
		return ErrMissingProperties
	}
	return nil
}

// RequestContext is derived server-side from the inbound request headers,
// never trusted from the caller. Missing headers degrade to empty strings.
type RequestContext struct {
	IP        string
	UserAgent string
}

type PageContext struct {
	URL      string `json:"url,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

type UserContext struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	TTP       string `json:"ttp,omitempty"`
	TTCLID    string `json:"ttclid,omitempty"` // only set in the flattened wire shape
}

// AdContext carries the click identifier in the nested wire shape.
type AdContext struct {
	Callback string `json:"callback"`
}

type EventContext struct {
	Page PageContext `json:"page"`
	User UserContext `json:"user"`
	Ad   *AdContext  `json:"ad,omitempty"`
}

// ConversionPayload is the outbound body sent to the conversions endpoint.
// The timestamp is always stamped server-side at send time.
type ConversionPayload struct {
	PixelCode     string         `json:"pixel_code"`
	Event         string         `json:"event"`
	EventID       string         `json:"event_id,omitempty"`
	Timestamp     string         `json:"timestamp"`
	TestEventCode string         `json:"test_event_code,omitempty"`
	Context       EventContext   `json:"context"`
	Properties    map[string]any `json:"properties"`
}

// UpstreamOKCode is the conversions API's "accepted" sentinel in the response body.
const UpstreamOKCode = 0

// RelayResult is the normalized outcome of one forwarding attempt.
// UpstreamStatus is 0 when the call never completed; UpstreamBody is nil
// when the upstream reply was absent or unparseable.
type RelayResult struct {
	Success        bool
	UpstreamStatus int
	UpstreamBody   map[string]any
	SentPayload    *ConversionPayload
	Err            string // transport error detail, set only when the call could not complete
}

// TrackSuccess is the 200 reply to the caller.
type TrackSuccess struct {
	Success bool           `json:"success"`
	Status  int            `json:"status"`
	Data    map[string]any `json:"data"`
}

// TrackFailure is the 500 reply when the upstream rejected the event or was
// unreachable. SentPayload echoes the exact outbound body for diagnosis.
type TrackFailure struct {
	Success     bool               `json:"success"`
	Status      int                `json:"status"`
	Data        map[string]any     `json:"data"`
	SentPayload *ConversionPayload `json:"sentPayload,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// ErrorResponse is the reply for validation and configuration failures.
// Body echoes the received payload on missing-field rejections.
type ErrorResponse struct {
	Error string          `json:"error"`
	Body  json.RawMessage `json:"body,omitempty"`
}

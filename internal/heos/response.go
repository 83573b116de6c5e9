package heos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// resultSuccess is the header result value of a successful command.
const resultSuccess = "success"

// Header is the "heos" object of every line the player sends.
//
// Result is nil for unsolicited events. Message is the raw second-layer
// encoding; see ParseMessage.
type Header struct {
	Command string  `json:"command"`
	Result  *string `json:"result,omitempty"`
	Message string  `json:"message"`
}

// Response is one decoded envelope: either a command acknowledgment (Result
// present) or an event (Result absent). Payload and Options are kept raw
// because their shape depends on the originating command.
type Response struct {
	Heos    Header          `json:"heos"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

// ParseResponse decodes the outer envelope of one line.
func ParseResponse(line []byte) (*Response, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedResponse)
	}

	var r Response
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if r.Heos.Command == "" {
		return nil, fmt.Errorf("%w: missing command", ErrMalformedResponse)
	}

	return &r, nil
}

// Command returns the header command name, e.g. "player/get_volume".
func (r *Response) Command() string {
	return r.Heos.Command
}

// IsSuccess reports whether the result flag is present and equal to success.
func (r *Response) IsSuccess() bool {
	return r.Heos.Result != nil && *r.Heos.Result == resultSuccess
}

// IsEvent reports whether the line is unsolicited (no result flag).
func (r *Response) IsEvent() bool {
	return r.Heos.Result == nil
}

// Message parses the header message string. Each call parses afresh.
func (r *Response) Message() Message {
	return ParseMessage(r.Heos.Message)
}

// HasPayload reports whether a non-null payload is present.
func (r *Response) HasPayload() bool {
	p := bytes.TrimSpace(r.Payload)
	return len(p) > 0 && !bytes.Equal(p, []byte("null"))
}

// PayloadArray interprets the payload as an array of T.
func PayloadArray[T any](r *Response) ([]T, error) {
	if !r.HasPayload() {
		return nil, ErrNoPayload
	}
	var out []T
	if err := json.Unmarshal(r.Payload, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadShape, err)
	}
	return out, nil
}

// PayloadObject interprets the payload as a single T.
func PayloadObject[T any](r *Response) (T, error) {
	var out T
	if !r.HasPayload() {
		return out, ErrNoPayload
	}
	if err := json.Unmarshal(r.Payload, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrPayloadShape, err)
	}
	return out, nil
}

// Message is the parsed form of a header message string: "&"-joined
// "key=value" pairs. Later duplicates overwrite earlier ones. Fragments
// without '=' are ignored.
type Message map[string]string

// ParseMessage performs the second decoding pass over a header message.
func ParseMessage(s string) Message {
	m := make(Message)
	if s == "" {
		return m
	}
	for _, pair := range strings.Split(s, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[key] = value
	}
	return m
}

// Get returns the raw value for key.
func (m Message) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Int returns the value for key parsed as an integer.
func (m Message) Int(key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// PID returns the player id carried by the message, if any.
func (m Message) PID() (int64, bool) {
	return m.Int("pid")
}

// Text returns the human readable error text of a failed command, falling
// back to the whole message when no text key is present.
func (r *Response) Text() string {
	if text, ok := r.Message().Get("text"); ok {
		return text
	}
	return r.Heos.Message
}

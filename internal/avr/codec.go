package avr

import (
	"strconv"
	"strings"
)

// Wire constants for the receiver control protocol.
const (
	// DefaultPort is the receiver's telnet-style control port.
	DefaultPort = 23

	// MaxVolume is the top of the receiver's master volume scale.
	MaxVolume = 98

	// MaxDialogLevel is the highest dialog enhancer level.
	MaxDialogLevel = 6

	lineTerminator = "\r"
)

// Response prefixes.
const (
	prefixVolume   = "MV"
	prefixVolMax   = "MVMAX"
	prefixMute     = "MU"
	prefixPower    = "PW"
	prefixInput    = "SI"
	prefixSurround = "MS"
)

// Encode appends the carriage return the receiver expects after every
// command.
func Encode(cmd string) []byte {
	return []byte(cmd + lineTerminator)
}

// EventKind classifies a response line.
type EventKind int

// Response line kinds.
const (
	EventRaw EventKind = iota
	EventMasterVolume
	EventMute
	EventPower
	EventInputSource
	EventSurroundMode
)

// String returns a short label for logs.
func (k EventKind) String() string {
	switch k {
	case EventMasterVolume:
		return "master_volume"
	case EventMute:
		return "mute"
	case EventPower:
		return "power"
	case EventInputSource:
		return "input_source"
	case EventSurroundMode:
		return "surround_mode"
	default:
		return "raw"
	}
}

// Event is one decoded receiver line. Which field is meaningful depends on
// Kind: Level for master volume, On for mute and power, Value for input,
// surround mode and raw lines.
type Event struct {
	Kind  EventKind
	Level int
	On    bool
	Value string
}

// Decode classifies one response line by its two character prefix.
//
// Replies and unsolicited notifications look the same, so both decode the
// same way. Returns false for blank lines and for volume, mute and power
// lines whose suffix is not understood. Everything unrecognised is returned
// as EventRaw.
func Decode(line []byte) (Event, bool) {
	s := strings.TrimSpace(string(line))
	if s == "" {
		return Event{}, false
	}

	switch {
	case strings.HasPrefix(s, prefixVolMax):
		return Event{Kind: EventRaw, Value: s}, true

	case strings.HasPrefix(s, prefixVolume):
		level, ok := parseVolume(s[len(prefixVolume):])
		if !ok {
			return Event{}, false
		}
		return Event{Kind: EventMasterVolume, Level: level}, true

	case strings.HasPrefix(s, prefixMute):
		switch s[len(prefixMute):] {
		case "ON":
			return Event{Kind: EventMute, On: true}, true
		case "OFF":
			return Event{Kind: EventMute, On: false}, true
		}
		return Event{}, false

	case strings.HasPrefix(s, prefixPower):
		switch s[len(prefixPower):] {
		case "ON":
			return Event{Kind: EventPower, On: true}, true
		case "STANDBY", "OFF":
			return Event{Kind: EventPower, On: false}, true
		}
		return Event{}, false

	case strings.HasPrefix(s, prefixInput):
		return Event{Kind: EventInputSource, Value: s[len(prefixInput):]}, true

	case strings.HasPrefix(s, prefixSurround):
		return Event{Kind: EventSurroundMode, Value: s[len(prefixSurround):]}, true
	}

	return Event{Kind: EventRaw, Value: s}, true
}

// parseVolume reads "45" as 45 and the half step form "455" as 45.
func parseVolume(digits string) (int, bool) {
	switch len(digits) {
	case 2:
	case 3:
		digits = digits[:2]
	default:
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

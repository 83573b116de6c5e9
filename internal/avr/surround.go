package avr

import (
	"fmt"
	"strings"
)

// SurroundMode is one of the named listening modes.
type SurroundMode int

// Surround modes, in menu order.
const (
	SurroundMovie SurroundMode = iota
	SurroundMusic
	SurroundGame
	SurroundDirect
	SurroundPureDirect
	SurroundStereo
	SurroundAuto
	SurroundDolbyDigital
	SurroundDTSSurround
	SurroundMultiChStereo
	SurroundRockArena
	SurroundJazzClub
	SurroundMonoMovie
	SurroundMatrix
	SurroundVideoGame
	SurroundVirtual
)

type surroundInfo struct {
	token   string
	display string
}

// surroundTable maps each mode to its wire token and display name. The
// command is "MS" followed by the token; replies carry the token alone.
var surroundTable = [...]surroundInfo{
	SurroundMovie:         {"MOVIE", "Movie"},
	SurroundMusic:         {"MUSIC", "Music"},
	SurroundGame:          {"GAME", "Game"},
	SurroundDirect:        {"DIRECT", "Direct"},
	SurroundPureDirect:    {"PURE DIRECT", "Pure Direct"},
	SurroundStereo:        {"STEREO", "Stereo"},
	SurroundAuto:          {"AUTO", "Auto"},
	SurroundDolbyDigital:  {"DOLBY DIGITAL", "Dolby Digital"},
	SurroundDTSSurround:   {"DTS SURROUND", "DTS Surround"},
	SurroundMultiChStereo: {"MCH STEREO", "Multi Ch Stereo"},
	SurroundRockArena:     {"ROCK ARENA", "Rock Arena"},
	SurroundJazzClub:      {"JAZZ CLUB", "Jazz Club"},
	SurroundMonoMovie:     {"MONO MOVIE", "Mono Movie"},
	SurroundMatrix:        {"MATRIX", "Matrix"},
	SurroundVideoGame:     {"VIDEO GAME", "Video Game"},
	SurroundVirtual:       {"VIRTUAL", "Virtual"},
}

// AllSurroundModes returns every mode in menu order.
func AllSurroundModes() []SurroundMode {
	modes := make([]SurroundMode, len(surroundTable))
	for i := range surroundTable {
		modes[i] = SurroundMode(i)
	}
	return modes
}

func (m SurroundMode) valid() bool {
	return m >= 0 && int(m) < len(surroundTable)
}

// Token returns the reply token, e.g. "PURE DIRECT".
func (m SurroundMode) Token() string {
	if !m.valid() {
		return ""
	}
	return surroundTable[m].token
}

// Command returns the command line without terminator, e.g. "MSPURE DIRECT".
func (m SurroundMode) Command() string {
	if !m.valid() {
		return ""
	}
	return prefixSurround + surroundTable[m].token
}

// String returns the display name, e.g. "Pure Direct".
func (m SurroundMode) String() string {
	if !m.valid() {
		return fmt.Sprintf("SurroundMode(%d)", int(m))
	}
	return surroundTable[m].display
}

// ParseSurroundMode maps a reply token to a mode. Surrounding whitespace
// and letter case are ignored.
func ParseSurroundMode(token string) (SurroundMode, bool) {
	t := strings.ToUpper(strings.TrimSpace(token))
	for i, info := range surroundTable {
		if info.token == t {
			return SurroundMode(i), true
		}
	}
	return 0, false
}

// ParseSurroundName maps either a display name or a token to a mode,
// ignoring case. Used for operator input.
func ParseSurroundName(name string) (SurroundMode, bool) {
	n := strings.TrimSpace(name)
	for i, info := range surroundTable {
		if strings.EqualFold(info.display, n) {
			return SurroundMode(i), true
		}
	}
	return ParseSurroundMode(n)
}

// MinQuickSelect and MaxQuickSelect bound the quick select slots.
const (
	MinQuickSelect = 1
	MaxQuickSelect = 5
)

// QuickSelectCommand returns "MSQUICK<n>".
func QuickSelectCommand(n int) (string, error) {
	if n < MinQuickSelect || n > MaxQuickSelect {
		return "", fmt.Errorf("%w: quick select %d outside %d..%d", ErrInvalidArgument, n, MinQuickSelect, MaxQuickSelect)
	}
	return fmt.Sprintf("MSQUICK%d", n), nil
}

package heos

// Player is one entry of the get_players payload.
type Player struct {
	PID     int64  `json:"pid"`
	Name    string `json:"name"`
	Model   string `json:"model"`
	Version string `json:"version,omitempty"`
	IP      string `json:"ip,omitempty"`
	Network string `json:"network,omitempty"`
	LineOut int    `json:"lineout,omitempty"`
	Serial  string `json:"serial,omitempty"`
}

// NowPlayingMedia is the get_now_playing_media payload.
type NowPlayingMedia struct {
	Song      string `json:"song"`
	Album     string `json:"album"`
	Artist    string `json:"artist"`
	ImageURL  string `json:"image_url"`
	MID       string `json:"mid"`
	QID       int64  `json:"qid"`
	SID       int64  `json:"sid"`
	Station   string `json:"station"`
	MediaType string `json:"type"`
}

// QueueItem is one entry of the get_queue payload.
type QueueItem struct {
	QID      int64  `json:"qid"`
	Song     string `json:"song"`
	Album    string `json:"album"`
	Artist   string `json:"artist"`
	ImageURL string `json:"image_url"`
	MID      string `json:"mid"`
}

// Source types with special meaning.
const (
	SourceTypeHeosServer = "heos_server"
)

// MusicSource is one entry of the get_music_sources payload.
type MusicSource struct {
	SID             int64  `json:"sid"`
	Name            string `json:"name"`
	SourceType      string `json:"type"`
	ImageURL        string `json:"image_url"`
	Available       string `json:"available"`
	ServiceUsername string `json:"service_username"`
}

// BrowseItem is one entry of a browse payload. Container and Playable
// carry the protocol's "yes"/"no" strings.
type BrowseItem struct {
	Container string `json:"container"`
	CID       string `json:"cid"`
	MID       string `json:"mid"`
	Name      string `json:"name"`
	ItemType  string `json:"type"`
	ImageURL  string `json:"image_url"`
	Playable  string `json:"playable"`
}

// IsContainer reports whether the item can be browsed into.
func (b BrowseItem) IsContainer() bool { return b.Container == "yes" }

// IsPlayable reports whether the item can be played directly.
func (b BrowseItem) IsPlayable() bool { return b.Playable == "yes" }

// PlayState is the transport state of a player.
type PlayState string

// Play states. Anything unrecognised parses to PlayStateUnknown.
const (
	PlayStateUnknown PlayState = "unknown"
	PlayStatePlay    PlayState = "play"
	PlayStatePause   PlayState = "pause"
	PlayStateStop    PlayState = "stop"
)

// ParsePlayState maps a wire value to a PlayState.
func ParsePlayState(s string) PlayState {
	switch PlayState(s) {
	case PlayStatePlay, PlayStatePause, PlayStateStop:
		return PlayState(s)
	default:
		return PlayStateUnknown
	}
}

// MuteState is the mute flag of a player.
type MuteState string

// Mute states. Anything other than "on" parses to MuteOff.
const (
	MuteOff MuteState = "off"
	MuteOn  MuteState = "on"
)

// ParseMuteState maps a wire value to a MuteState.
func ParseMuteState(s string) MuteState {
	if s == string(MuteOn) {
		return MuteOn
	}
	return MuteOff
}

// RepeatMode is the repeat setting of a player.
type RepeatMode string

// Repeat modes.
const (
	RepeatOff   RepeatMode = "off"
	RepeatOnOne RepeatMode = "on_one"
	RepeatOnAll RepeatMode = "on_all"
)

// ParseRepeatMode maps a wire value to a RepeatMode. Unknown values are off.
func ParseRepeatMode(s string) RepeatMode {
	switch RepeatMode(s) {
	case RepeatOnOne, RepeatOnAll:
		return RepeatMode(s)
	default:
		return RepeatOff
	}
}

// Next returns the mode that follows r in the cycle off, all, one, off.
func (r RepeatMode) Next() RepeatMode {
	switch r {
	case RepeatOnAll:
		return RepeatOnOne
	case RepeatOnOne:
		return RepeatOff
	default:
		return RepeatOnAll
	}
}

// ShuffleMode is the shuffle setting of a player.
type ShuffleMode string

// Shuffle modes.
const (
	ShuffleOff ShuffleMode = "off"
	ShuffleOn  ShuffleMode = "on"
)

// ParseShuffleMode maps a wire value to a ShuffleMode. Unknown values are off.
func ParseShuffleMode(s string) ShuffleMode {
	if s == string(ShuffleOn) {
		return ShuffleOn
	}
	return ShuffleOff
}

// Toggle returns the opposite shuffle mode.
func (s ShuffleMode) Toggle() ShuffleMode {
	if s == ShuffleOn {
		return ShuffleOff
	}
	return ShuffleOn
}

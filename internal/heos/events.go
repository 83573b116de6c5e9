package heos

// Event names sent by players after register_for_change_events.
const (
	EventNamePlayerStateChanged = "event/player_state_changed"
	EventNameNowPlayingChanged  = "event/player_now_playing_changed"
	EventNameNowPlayingProgress = "event/player_now_playing_progress"
	EventNameVolumeChanged      = "event/player_volume_changed"
	EventNamePlaybackError      = "event/player_playback_error"
	EventNameQueueChanged       = "event/player_queue_changed"
	EventNameRepeatModeChanged  = "event/repeat_mode_changed"
	EventNameShuffleModeChanged = "event/shuffle_mode_changed"
	EventNamePlayersChanged     = "event/players_changed"
	EventNameGroupsChanged      = "event/groups_changed"
	EventNameSourcesChanged     = "event/sources_changed"
)

// EventKind classifies an unsolicited envelope.
type EventKind int

// Recognised event kinds. EventNone covers command responses and every
// event name outside the table below.
const (
	EventNone EventKind = iota
	EventPlayerStateChanged
	EventNowPlayingChanged
	EventVolumeChanged
	EventPlayModeChanged
	EventQueueChanged
	EventPlayersChanged
)

var eventKinds = map[string]EventKind{
	EventNamePlayerStateChanged: EventPlayerStateChanged,
	EventNameNowPlayingChanged:  EventNowPlayingChanged,
	EventNameVolumeChanged:      EventVolumeChanged,
	EventNameRepeatModeChanged:  EventPlayModeChanged,
	EventNameShuffleModeChanged: EventPlayModeChanged,
	EventNameQueueChanged:       EventQueueChanged,
	EventNamePlayersChanged:     EventPlayersChanged,
}

// ClassifyEvent maps an event name to its kind.
func ClassifyEvent(name string) EventKind {
	return eventKinds[name]
}

// String returns a short label for logs.
func (k EventKind) String() string {
	switch k {
	case EventPlayerStateChanged:
		return "player_state_changed"
	case EventNowPlayingChanged:
		return "now_playing_changed"
	case EventVolumeChanged:
		return "volume_changed"
	case EventPlayModeChanged:
		return "play_mode_changed"
	case EventQueueChanged:
		return "queue_changed"
	case EventPlayersChanged:
		return "players_changed"
	default:
		return "none"
	}
}

// Event returns the kind of an event envelope, or EventNone for command
// responses.
func (r *Response) Event() EventKind {
	if !r.IsEvent() {
		return EventNone
	}
	return ClassifyEvent(r.Heos.Command)
}

// Decode is the inbound codec step used by the session read loop. It
// returns false for lines that must be dropped: blank or malformed lines,
// and events whose name is not recognised.
func Decode(line []byte) (*Response, bool) {
	r, err := ParseResponse(line)
	if err != nil {
		return nil, false
	}
	if r.IsEvent() && r.Event() == EventNone {
		return nil, false
	}
	return r, true
}

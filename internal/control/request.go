package control

// Target selects the device a request is meant for.
type Target string

// Request targets.
const (
	TargetPlayer   Target = "player"
	TargetReceiver Target = "receiver"
)

// Request is one user intent. Which argument fields are read depends on
// the verb:
//
//   - Level: set_volume, select_player (roster index), quick_select,
//     input_hdmi, dialog_enhancer
//   - Value: browse_into (container id), play_input, play_stream (media
//     id), surround, input, dynamic_volume
//   - ID: queue_play, queue_remove (queue id), browse, browse_into,
//     play_stream (source id), select_player (player id, may be negative;
//     preferred over Level when non-zero)
type Request struct {
	Target Target `json:"target"`
	Verb   string `json:"verb"`
	Level  int    `json:"level,omitempty"`
	Value  string `json:"value,omitempty"`
	ID     int64  `json:"id,omitempty"`
}

// Player verbs.
const (
	VerbPlay          = "play"
	VerbPause         = "pause"
	VerbStop          = "stop"
	VerbPlayPause     = "play_pause"
	VerbNext          = "next"
	VerbPrevious      = "previous"
	VerbVolumeUp      = "volume_up"
	VerbVolumeDown    = "volume_down"
	VerbSetVolume     = "set_volume"
	VerbMuteToggle    = "mute_toggle"
	VerbRepeatCycle   = "repeat_cycle"
	VerbShuffleToggle = "shuffle_toggle"
	VerbQueueFetch    = "queue_fetch"
	VerbQueuePlay     = "queue_play"
	VerbQueueRemove   = "queue_remove"
	VerbQueueClear    = "queue_clear"
	VerbPlayersFetch  = "players_fetch"
	VerbSourcesFetch  = "sources_fetch"
	VerbBrowse        = "browse"
	VerbBrowseInto    = "browse_into"
	VerbPlayInput     = "play_input"
	VerbPlayStream    = "play_stream"
	VerbSelectPlayer  = "select_player"
	VerbRefresh       = "refresh"
)

// Receiver verbs. volume_up, volume_down, set_volume and mute_toggle are
// shared with the player.
const (
	VerbPowerOn         = "power_on"
	VerbPowerOff        = "power_off"
	VerbMuteOn          = "mute_on"
	VerbMuteOff         = "mute_off"
	VerbSurround        = "surround"
	VerbQuickSelect     = "quick_select"
	VerbInput           = "input"
	VerbInputHDMI       = "input_hdmi"
	VerbBassUp          = "bass_up"
	VerbBassDown        = "bass_down"
	VerbTrebleUp        = "treble_up"
	VerbTrebleDown      = "treble_down"
	VerbDynamicEQOn     = "dynamic_eq_on"
	VerbDynamicEQOff    = "dynamic_eq_off"
	VerbDynamicEQToggle = "dynamic_eq_toggle"
	VerbDialogEnhancer  = "dialog_enhancer"
	VerbSubwooferUp     = "subwoofer_up"
	VerbSubwooferDown   = "subwoofer_down"
	VerbLFEUp           = "lfe_up"
	VerbLFEDown         = "lfe_down"
	VerbCinemaEQOn      = "cinema_eq_on"
	VerbCinemaEQOff     = "cinema_eq_off"
	VerbDynamicVolume   = "dynamic_volume"
	VerbQueryStatus     = "query_status"
)

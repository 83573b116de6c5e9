package state

import (
	"slices"

	"github.com/nerrad567/heoslink/internal/heos"
)

// NoActive is the active index when no player is selected.
const NoActive = -1

// PlayerState is the unified view of the active player.
type PlayerState struct {
	NowPlaying heos.NowPlayingMedia `json:"now_playing"`
	PlayState  heos.PlayState       `json:"play_state"`
	Volume     int                  `json:"volume"`
	Muted      bool                 `json:"muted"`
	Repeat     heos.RepeatMode      `json:"repeat"`
	Shuffle    heos.ShuffleMode     `json:"shuffle"`
}

// defaultPlayerState is what a freshly selected player shows until its
// first refresh arrives.
func defaultPlayerState() PlayerState {
	return PlayerState{
		PlayState: heos.PlayStateUnknown,
		Repeat:    heos.RepeatOff,
		Shuffle:   heos.ShuffleOff,
	}
}

// ReceiverState is the unified view of the receiver.
type ReceiverState struct {
	Connected    bool   `json:"connected"`
	Power        bool   `json:"power"`
	MasterVolume int    `json:"master_volume"`
	Muted        bool   `json:"muted"`
	SurroundMode string `json:"surround_mode"`
	SurroundName string `json:"surround_name"`
	InputSource  string `json:"input_source"`
}

// Snapshot is an immutable copy of everything the presentation side may
// read. Slices are never shared with the Reconciler.
type Snapshot struct {
	HeosConnected bool               `json:"heos_connected"`
	Players       []heos.Player      `json:"players"`
	ActiveIndex   int                `json:"active_index"`
	Active        *heos.Player       `json:"active,omitempty"`
	Player        PlayerState        `json:"player"`
	Receiver      ReceiverState      `json:"receiver"`
	Queue         []heos.QueueItem   `json:"queue"`
	Sources       []heos.MusicSource `json:"sources"`
	Inputs        []heos.MusicSource `json:"inputs"`
	Browse        []heos.BrowseItem  `json:"browse"`
	Status        string             `json:"status,omitempty"`
}

// ActivePID returns the selected player's id.
func (s Snapshot) ActivePID() (int64, bool) {
	if s.Active == nil {
		return 0, false
	}
	return s.Active.PID, true
}

// Snapshot returns a deep copy of the current state.
func (r *Reconciler) Snapshot() Snapshot {
	snap := Snapshot{
		HeosConnected: r.heosConnected,
		Players:       slices.Clone(r.players),
		ActiveIndex:   r.active,
		Player:        r.player,
		Receiver:      r.receiver,
		Queue:         slices.Clone(r.queue),
		Sources:       slices.Clone(r.sources),
		Inputs:        slices.Clone(r.inputs),
		Browse:        slices.Clone(r.browse),
		Status:        r.status,
	}
	if p, ok := r.activePlayer(); ok {
		snap.Active = &p
	}
	return snap
}

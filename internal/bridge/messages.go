package bridge

import (
	"time"

	"github.com/nerrad567/heoslink/internal/control"
	"github.com/nerrad567/heoslink/internal/heos"
	"github.com/nerrad567/heoslink/internal/state"
)

// CommandMessage is received on <prefix>/command/{player,receiver}.
//
// Example payload:
//
//	{"id": "c-17", "verb": "set_volume", "level": 30}
type CommandMessage struct {
	// ID correlates the command with its acknowledgement. Optional.
	ID string `json:"id"`

	// Verb is a control verb such as "play" or "surround".
	Verb string `json:"verb"`

	// Level carries numeric arguments (volume, roster index, quick select slot).
	Level int `json:"level,omitempty"`

	// Value carries string arguments (surround mode, input, media id).
	Value string `json:"value,omitempty"`

	// Item carries queue ids, source ids and player ids.
	Item int64 `json:"item,omitempty"`
}

// Request converts the message into a control request for target.
func (m CommandMessage) Request(target control.Target) control.Request {
	return control.Request{
		Target: target,
		Verb:   m.Verb,
		Level:  m.Level,
		Value:  m.Value,
		ID:     m.Item,
	}
}

// AckStatus represents the acknowledgment status of a command.
type AckStatus string

const (
	// AckAccepted indicates the command was sent to the device.
	AckAccepted AckStatus = "accepted"

	// AckFailed indicates the command could not be executed.
	AckFailed AckStatus = "failed"
)

// AckMessage is published on <prefix>/ack/{player,receiver}.
type AckMessage struct {
	CommandID string    `json:"command_id"`
	Verb      string    `json:"verb,omitempty"`
	Status    AckStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAckMessage creates an acknowledgment for cmd. A non-nil err makes it
// a failure.
func NewAckMessage(cmd CommandMessage, err error) AckMessage {
	ack := AckMessage{
		CommandID: cmd.ID,
		Verb:      cmd.Verb,
		Status:    AckAccepted,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		ack.Status = AckFailed
		ack.Error = err.Error()
	}
	return ack
}

// PlayerMessage is the retained payload of <prefix>/state/player.
type PlayerMessage struct {
	Connected bool               `json:"connected"`
	Active    *heos.Player       `json:"active,omitempty"`
	State     state.PlayerState  `json:"state"`
	Queue     []heos.QueueItem   `json:"queue"`
	Sources   []heos.MusicSource `json:"sources"`
	Inputs    []heos.MusicSource `json:"inputs"`
	Browse    []heos.BrowseItem  `json:"browse"`
}

// RosterMessage is the retained payload of <prefix>/state/roster.
type RosterMessage struct {
	Players     []heos.Player `json:"players"`
	ActiveIndex int           `json:"active_index"`
}

// StatusMessage is the retained payload of <prefix>/status.
type StatusMessage struct {
	Message string `json:"message"`
}

// newPlayerMessage extracts the player part of a snapshot. Nil slices are
// published as empty arrays.
func newPlayerMessage(snap state.Snapshot) PlayerMessage {
	return PlayerMessage{
		Connected: snap.HeosConnected,
		Active:    snap.Active,
		State:     snap.Player,
		Queue:     nonNil(snap.Queue),
		Sources:   nonNil(snap.Sources),
		Inputs:    nonNil(snap.Inputs),
		Browse:    nonNil(snap.Browse),
	}
}

func newRosterMessage(snap state.Snapshot) RosterMessage {
	return RosterMessage{
		Players:     nonNil(snap.Players),
		ActiveIndex: snap.ActiveIndex,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

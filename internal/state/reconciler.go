package state

import (
	"fmt"
	"strings"

	"github.com/nerrad567/heoslink/internal/avr"
	"github.com/nerrad567/heoslink/internal/heos"
	"github.com/nerrad567/heoslink/internal/session"
)

// Status messages.
const (
	StatusHeosConnected    = "Connected to HEOS device"
	StatusHeosDisconnected = "Disconnected from HEOS device"
	StatusAVRConnected     = "AVR control connected"
	StatusAVRDisconnected  = "AVR control disconnected"
)

// aspect groups the player fields a message can carry. A query response
// and the matching change event share an aspect and therefore one update
// path.
type aspect int

const (
	aspectPlayState aspect = iota
	aspectVolume
	aspectMute
	aspectPlayMode
)

func path(group, name string) string { return group + "/" + name }

var commandAspects = map[string]aspect{
	path(heos.GroupPlayer, heos.CmdGetPlayState): aspectPlayState,
	path(heos.GroupPlayer, heos.CmdSetPlayState): aspectPlayState,
	path(heos.GroupPlayer, heos.CmdGetVolume):    aspectVolume,
	path(heos.GroupPlayer, heos.CmdSetVolume):    aspectVolume,
	path(heos.GroupPlayer, heos.CmdVolumeUp):     aspectVolume,
	path(heos.GroupPlayer, heos.CmdVolumeDown):   aspectVolume,
	path(heos.GroupPlayer, heos.CmdGetMute):      aspectMute,
	path(heos.GroupPlayer, heos.CmdSetMute):      aspectMute,
	path(heos.GroupPlayer, heos.CmdToggleMute):   aspectMute,
	path(heos.GroupPlayer, heos.CmdGetPlayMode):  aspectPlayMode,
	path(heos.GroupPlayer, heos.CmdSetPlayMode):  aspectPlayMode,
}

var eventAspects = map[heos.EventKind]aspect{
	heos.EventPlayerStateChanged: aspectPlayState,
	heos.EventVolumeChanged:      aspectVolume,
	heos.EventPlayModeChanged:    aspectPlayMode,
}

// Reconciler is the only writer of unified state. It performs no I/O and
// is not safe for concurrent use: one goroutine owns it and hands out
// Snapshots.
type Reconciler struct {
	heosConnected bool
	players       []heos.Player
	active        int
	player        PlayerState
	receiver      ReceiverState
	queue         []heos.QueueItem
	sources       []heos.MusicSource
	inputs        []heos.MusicSource
	browse        []heos.BrowseItem
	status        string
}

// New returns a Reconciler with an empty roster.
func New() *Reconciler {
	return &Reconciler{
		active: NoActive,
		player: defaultPlayerState(),
	}
}

// Status returns the diagnostic slot.
func (r *Reconciler) Status() string { return r.status }

// SetStatus overwrites the diagnostic slot.
func (r *Reconciler) SetStatus(msg string) { r.status = msg }

// ClearStatus empties the diagnostic slot.
func (r *Reconciler) ClearStatus() { r.status = "" }

// Player returns the active player's state.
func (r *Reconciler) Player() PlayerState { return r.player }

// Receiver returns the receiver state.
func (r *Reconciler) Receiver() ReceiverState { return r.receiver }

// QueueLoaded reports whether a queue has been fetched for the active
// player.
func (r *Reconciler) QueueLoaded() bool { return len(r.queue) > 0 }

// PlayerCount returns the roster length.
func (r *Reconciler) PlayerCount() int { return len(r.players) }

func (r *Reconciler) activePlayer() (heos.Player, bool) {
	if r.active < 0 || r.active >= len(r.players) {
		return heos.Player{}, false
	}
	return r.players[r.active], true
}

// ActivePID returns the selected player's id.
func (r *Reconciler) ActivePID() (int64, bool) {
	p, ok := r.activePlayer()
	return p.PID, ok
}

// IsActive reports whether pid is the selected player.
func (r *Reconciler) IsActive(pid int64) bool {
	active, ok := r.ActivePID()
	return ok && active == pid
}

// SelectPlayer makes the roster entry at idx active and resets the
// transient player fields. The roster itself is untouched.
func (r *Reconciler) SelectPlayer(idx int) error {
	if idx < 0 || idx >= len(r.players) {
		return fmt.Errorf("player index %d out of range (roster has %d)", idx, len(r.players))
	}
	r.active = idx
	r.player = defaultPlayerState()
	r.queue = nil
	return nil
}

// SelectPID selects the roster entry with the given id.
func (r *Reconciler) SelectPID(pid int64) error {
	for i, p := range r.players {
		if p.PID == pid {
			return r.SelectPlayer(i)
		}
	}
	return fmt.Errorf("player %d not in roster", pid)
}

// ApplyPlayer folds one player session notification into state.
func (r *Reconciler) ApplyPlayer(n session.Notification[*heos.Response]) {
	switch n.Kind {
	case session.Connected:
		r.heosConnected = true
		r.status = StatusHeosConnected
	case session.Disconnected:
		r.heosConnected = false
		r.status = StatusHeosDisconnected
	case session.Error:
		r.heosConnected = false
		r.status = "Error: " + errText(n.Err)
	case session.Message:
		if n.Message != nil {
			r.ApplyResponse(n.Message)
		}
	}
}

// ApplyReceiver folds one receiver session notification into state.
func (r *Reconciler) ApplyReceiver(n session.Notification[avr.Event]) {
	switch n.Kind {
	case session.Connected:
		r.receiver.Connected = true
		r.status = StatusAVRConnected
	case session.Disconnected:
		r.receiver.Connected = false
		r.status = StatusAVRDisconnected
	case session.Error:
		r.receiver.Connected = false
		r.status = "AVR Error: " + errText(n.Err)
	case session.Message:
		r.ApplyReceiverEvent(n.Message)
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// ApplyResponse folds one decoded player line into state.
//
// Events and successful responses for a player other than the active one
// are ignored. A failed response only sets the status slot.
func (r *Reconciler) ApplyResponse(resp *heos.Response) {
	if resp.IsEvent() {
		r.applyEvent(resp)
		return
	}

	if !resp.IsSuccess() {
		r.status = "Error: " + resp.Text()
		return
	}

	cmd := resp.Command()
	if a, ok := commandAspects[cmd]; ok {
		r.applyAspect(a, resp.Message())
		return
	}

	switch cmd {
	case path(heos.GroupPlayer, heos.CmdGetPlayers):
		if players, err := heos.PayloadArray[heos.Player](resp); err == nil && len(players) > 0 {
			r.setRoster(players)
		}

	case path(heos.GroupPlayer, heos.CmdGetPlayerInfo):
		if info, err := heos.PayloadObject[heos.Player](resp); err == nil {
			r.updatePlayer(info)
		}

	case path(heos.GroupPlayer, heos.CmdGetNowPlayingMedia):
		if !r.concernsActive(resp.Message()) {
			return
		}
		if media, err := heos.PayloadObject[heos.NowPlayingMedia](resp); err == nil {
			r.player.NowPlaying = media
		}

	case path(heos.GroupPlayer, heos.CmdGetQueue):
		if !r.concernsActive(resp.Message()) {
			return
		}
		if queue, err := heos.PayloadArray[heos.QueueItem](resp); err == nil {
			r.queue = queue
		}

	case path(heos.GroupBrowse, heos.CmdGetMusicSources):
		if sources, err := heos.PayloadArray[heos.MusicSource](resp); err == nil {
			r.setSources(sources)
		}

	case path(heos.GroupBrowse, heos.CmdBrowse):
		if items, err := heos.PayloadArray[heos.BrowseItem](resp); err == nil {
			r.browse = items
		}
	}
}

func (r *Reconciler) applyEvent(resp *heos.Response) {
	if a, ok := eventAspects[resp.Event()]; ok {
		r.applyAspect(a, resp.Message())
	}
	// Now playing, queue and roster events carry no state of their own;
	// the control loop answers them with a query.
}

// concernsActive reports whether a message names the active player. A
// message with a missing or unparsable pid never does.
func (r *Reconciler) concernsActive(msg heos.Message) bool {
	active, ok := r.ActivePID()
	if !ok {
		return false
	}
	pid, has := msg.PID()
	return has && pid == active
}

// applyAspect updates only the fields present in msg.
func (r *Reconciler) applyAspect(a aspect, msg heos.Message) {
	if !r.concernsActive(msg) {
		return
	}

	switch a {
	case aspectPlayState:
		if v, ok := msg.Get("state"); ok {
			r.player.PlayState = heos.ParsePlayState(v)
		}
	case aspectVolume:
		if level, ok := msg.Int("level"); ok {
			r.player.Volume = int(max(0, min(level, heos.MaxVolume)))
		}
		if v, ok := msg.Get("mute"); ok {
			r.player.Muted = heos.ParseMuteState(v) == heos.MuteOn
		}
	case aspectMute:
		if v, ok := msg.Get("state"); ok {
			r.player.Muted = heos.ParseMuteState(v) == heos.MuteOn
		}
	case aspectPlayMode:
		if v, ok := msg.Get("repeat"); ok {
			r.player.Repeat = heos.ParseRepeatMode(v)
		}
		if v, ok := msg.Get("shuffle"); ok {
			r.player.Shuffle = heos.ParseShuffleMode(v)
		}
	}
}

// setRoster replaces the roster, keeping the selection by pid. Without a
// surviving selection the first player becomes active.
func (r *Reconciler) setRoster(players []heos.Player) {
	prev, hadActive := r.ActivePID()
	r.players = players

	if hadActive {
		for i, p := range players {
			if p.PID == prev {
				r.active = i
				return
			}
		}
	}

	r.active = NoActive
	_ = r.SelectPlayer(0) //nolint:errcheck // roster is non-empty here
}

// updatePlayer refreshes one roster entry in place.
func (r *Reconciler) updatePlayer(info heos.Player) {
	for i := range r.players {
		if r.players[i].PID == info.PID {
			r.players[i] = info
			return
		}
	}
}

// setSources splits the source list into music services and inputs.
func (r *Reconciler) setSources(sources []heos.MusicSource) {
	r.sources = r.sources[:0:0]
	r.inputs = r.inputs[:0:0]
	for _, s := range sources {
		if s.SourceType != heos.SourceTypeHeosServer {
			r.sources = append(r.sources, s)
		}
		if s.SourceType == heos.SourceTypeHeosServer || strings.Contains(s.Name, "Input") {
			r.inputs = append(r.inputs, s)
		}
	}
}

// ApplyReceiverEvent folds one decoded receiver line into state. Raw
// lines are ignored.
func (r *Reconciler) ApplyReceiverEvent(ev avr.Event) {
	switch ev.Kind {
	case avr.EventMasterVolume:
		r.receiver.MasterVolume = ev.Level
	case avr.EventMute:
		r.receiver.Muted = ev.On
	case avr.EventPower:
		r.receiver.Power = ev.On
	case avr.EventInputSource:
		r.receiver.InputSource = ev.Value
	case avr.EventSurroundMode:
		r.receiver.SurroundMode = ev.Value
		if mode, ok := avr.ParseSurroundMode(ev.Value); ok {
			r.receiver.SurroundName = mode.String()
		} else {
			r.receiver.SurroundName = ev.Value
		}
	}
}

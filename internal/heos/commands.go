package heos

import (
	"fmt"
	"strconv"
)

// Command groups.
const (
	GroupSystem = "system"
	GroupPlayer = "player"
	GroupBrowse = "browse"
)

// Player command names, as they appear in response headers after the group.
const (
	CmdGetPlayers         = "get_players"
	CmdGetPlayerInfo      = "get_player_info"
	CmdGetPlayState       = "get_play_state"
	CmdSetPlayState       = "set_play_state"
	CmdGetNowPlayingMedia = "get_now_playing_media"
	CmdGetVolume          = "get_volume"
	CmdSetVolume          = "set_volume"
	CmdVolumeUp           = "volume_up"
	CmdVolumeDown         = "volume_down"
	CmdGetMute            = "get_mute"
	CmdSetMute            = "set_mute"
	CmdToggleMute         = "toggle_mute"
	CmdGetPlayMode        = "get_play_mode"
	CmdSetPlayMode        = "set_play_mode"
	CmdGetQueue           = "get_queue"
	CmdPlayQueue          = "play_queue"
	CmdRemoveFromQueue    = "remove_from_queue"
	CmdClearQueue         = "clear_queue"
	CmdPlayNext           = "play_next"
	CmdPlayPrevious       = "play_previous"
)

// Browse and system command names.
const (
	CmdGetMusicSources         = "get_music_sources"
	CmdGetSourceInfo           = "get_source_info"
	CmdBrowse                  = "browse"
	CmdPlayStream              = "play_stream"
	CmdPlayInput               = "play_input"
	CmdRegisterForChangeEvents = "register_for_change_events"
	CmdCheckAccount            = "check_account"
	CmdHeartBeat               = "heart_beat"
)

// Volume bounds accepted by the player.
const (
	MaxVolume = 100
	MinStep   = 1
	MaxStep   = 10
)

func id(n int64) string { return strconv.FormatInt(n, 10) }

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func playerCommand(name string, pid int64) Command {
	return NewCommand(GroupPlayer, name).With("pid", id(pid))
}

// RegisterForChangeEvents enables or disables unsolicited events on this
// connection.
func RegisterForChangeEvents(enable bool) Command {
	state := "off"
	if enable {
		state = "on"
	}
	return NewCommand(GroupSystem, CmdRegisterForChangeEvents).With("enable", state)
}

// CheckAccount asks which account the player is signed in to.
func CheckAccount() Command { return NewCommand(GroupSystem, CmdCheckAccount) }

// HeartBeat is a no-op round trip.
func HeartBeat() Command { return NewCommand(GroupSystem, CmdHeartBeat) }

// GetPlayers lists every player on the network.
func GetPlayers() Command { return NewCommand(GroupPlayer, CmdGetPlayers) }

// GetPlayerInfo queries one player's details.
func GetPlayerInfo(pid int64) Command { return playerCommand(CmdGetPlayerInfo, pid) }

// GetPlayState queries the transport state.
func GetPlayState(pid int64) Command { return playerCommand(CmdGetPlayState, pid) }

// SetPlayState sets the transport state (play, pause or stop).
func SetPlayState(pid int64, state PlayState) Command {
	return playerCommand(CmdSetPlayState, pid).With("state", string(state))
}

// GetNowPlayingMedia queries the current track.
func GetNowPlayingMedia(pid int64) Command { return playerCommand(CmdGetNowPlayingMedia, pid) }

// GetVolume queries the volume level.
func GetVolume(pid int64) Command { return playerCommand(CmdGetVolume, pid) }

// SetVolume sets the volume, clamped to 0..100.
func SetVolume(pid int64, level int) Command {
	return playerCommand(CmdSetVolume, pid).With("level", strconv.Itoa(clamp(level, 0, MaxVolume)))
}

// VolumeUp raises the volume by step, clamped to 1..10.
func VolumeUp(pid int64, step int) Command {
	return playerCommand(CmdVolumeUp, pid).With("step", strconv.Itoa(clamp(step, MinStep, MaxStep)))
}

// VolumeDown lowers the volume by step, clamped to 1..10.
func VolumeDown(pid int64, step int) Command {
	return playerCommand(CmdVolumeDown, pid).With("step", strconv.Itoa(clamp(step, MinStep, MaxStep)))
}

// GetMute queries the mute state.
func GetMute(pid int64) Command { return playerCommand(CmdGetMute, pid) }

// SetMute sets the mute state.
func SetMute(pid int64, state MuteState) Command {
	return playerCommand(CmdSetMute, pid).With("state", string(state))
}

// ToggleMute flips the mute state on the player.
func ToggleMute(pid int64) Command { return playerCommand(CmdToggleMute, pid) }

// GetPlayMode queries repeat and shuffle.
func GetPlayMode(pid int64) Command { return playerCommand(CmdGetPlayMode, pid) }

// SetPlayMode sets repeat and shuffle together.
func SetPlayMode(pid int64, repeat RepeatMode, shuffle ShuffleMode) Command {
	return playerCommand(CmdSetPlayMode, pid).
		With("repeat", string(repeat)).
		With("shuffle", string(shuffle))
}

// GetQueue fetches queue entries start..end inclusive.
func GetQueue(pid int64, start, end int) Command {
	return playerCommand(CmdGetQueue, pid).With("range", fmt.Sprintf("%d,%d", start, end))
}

// PlayQueue jumps to a queue entry.
func PlayQueue(pid, qid int64) Command {
	return playerCommand(CmdPlayQueue, pid).With("qid", id(qid))
}

// RemoveFromQueue deletes a queue entry.
func RemoveFromQueue(pid, qid int64) Command {
	return playerCommand(CmdRemoveFromQueue, pid).With("qid", id(qid))
}

// ClearQueue empties the queue.
func ClearQueue(pid int64) Command { return playerCommand(CmdClearQueue, pid) }

// PlayNext skips to the next track.
func PlayNext(pid int64) Command { return playerCommand(CmdPlayNext, pid) }

// PlayPrevious returns to the previous track.
func PlayPrevious(pid int64) Command { return playerCommand(CmdPlayPrevious, pid) }

// GetMusicSources lists music sources and inputs.
func GetMusicSources() Command { return NewCommand(GroupBrowse, CmdGetMusicSources) }

// GetSourceInfo queries one music source.
func GetSourceInfo(sid int64) Command {
	return NewCommand(GroupBrowse, CmdGetSourceInfo).With("sid", id(sid))
}

// Browse lists the top level of a music source.
func Browse(sid int64) Command {
	return NewCommand(GroupBrowse, CmdBrowse).With("sid", id(sid))
}

// BrowseContainer lists a container inside a music source.
func BrowseContainer(sid int64, cid string) Command {
	return Browse(sid).With("cid", cid)
}

// PlayStream plays a station or track from a source.
func PlayStream(pid, sid int64, mid string) Command {
	return NewCommand(GroupBrowse, CmdPlayStream).
		With("pid", id(pid)).
		With("sid", id(sid)).
		With("mid", mid)
}

// PlayInput switches the player to one of its own inputs, e.g.
// "inputs/hdmi_in_1".
func PlayInput(pid int64, input string) Command {
	return NewCommand(GroupBrowse, CmdPlayInput).With("pid", id(pid)).With("input", input)
}

// PlayInputFrom plays an input of another player (spid) on pid.
func PlayInputFrom(pid, spid int64, input string) Command {
	return NewCommand(GroupBrowse, CmdPlayInput).
		With("pid", id(pid)).
		With("spid", id(spid)).
		With("input", input)
}

package heos

import "context"

// Submitter accepts encoded command lines for transmission. It is
// satisfied by *session.Session.
type Submitter interface {
	Submit(ctx context.Context, line []byte) error
}

// Handle is the command facade for one player connection. Every method
// encodes exactly one command and submits it; replies arrive later through
// the session's notification channel.
//
// Thread Safety: safe for concurrent use if the Submitter is.
type Handle struct {
	sub Submitter
}

// NewHandle wraps a Submitter.
func NewHandle(sub Submitter) *Handle {
	return &Handle{sub: sub}
}

// Send submits an arbitrary command.
func (h *Handle) Send(ctx context.Context, cmd Command) error {
	return h.sub.Submit(ctx, cmd.Encode())
}

// RegisterForEvents turns unsolicited change events on or off.
func (h *Handle) RegisterForEvents(ctx context.Context, enable bool) error {
	return h.Send(ctx, RegisterForChangeEvents(enable))
}

// HeartBeat sends a no-op round trip.
func (h *Handle) HeartBeat(ctx context.Context) error { return h.Send(ctx, HeartBeat()) }

// CheckAccount asks for the signed-in account.
func (h *Handle) CheckAccount(ctx context.Context) error { return h.Send(ctx, CheckAccount()) }

// GetPlayers requests the player roster.
func (h *Handle) GetPlayers(ctx context.Context) error { return h.Send(ctx, GetPlayers()) }

// GetPlayerInfo requests one player's details.
func (h *Handle) GetPlayerInfo(ctx context.Context, pid int64) error {
	return h.Send(ctx, GetPlayerInfo(pid))
}

// GetPlayState requests the transport state.
func (h *Handle) GetPlayState(ctx context.Context, pid int64) error {
	return h.Send(ctx, GetPlayState(pid))
}

// Play starts playback.
func (h *Handle) Play(ctx context.Context, pid int64) error {
	return h.Send(ctx, SetPlayState(pid, PlayStatePlay))
}

// Pause pauses playback.
func (h *Handle) Pause(ctx context.Context, pid int64) error {
	return h.Send(ctx, SetPlayState(pid, PlayStatePause))
}

// Stop stops playback.
func (h *Handle) Stop(ctx context.Context, pid int64) error {
	return h.Send(ctx, SetPlayState(pid, PlayStateStop))
}

// GetNowPlaying requests the current track.
func (h *Handle) GetNowPlaying(ctx context.Context, pid int64) error {
	return h.Send(ctx, GetNowPlayingMedia(pid))
}

// GetVolume requests the volume level.
func (h *Handle) GetVolume(ctx context.Context, pid int64) error {
	return h.Send(ctx, GetVolume(pid))
}

// SetVolume sets the volume (clamped to 0..100).
func (h *Handle) SetVolume(ctx context.Context, pid int64, level int) error {
	return h.Send(ctx, SetVolume(pid, level))
}

// VolumeUp raises the volume by step (clamped to 1..10).
func (h *Handle) VolumeUp(ctx context.Context, pid int64, step int) error {
	return h.Send(ctx, VolumeUp(pid, step))
}

// VolumeDown lowers the volume by step (clamped to 1..10).
func (h *Handle) VolumeDown(ctx context.Context, pid int64, step int) error {
	return h.Send(ctx, VolumeDown(pid, step))
}

// GetMute requests the mute state.
func (h *Handle) GetMute(ctx context.Context, pid int64) error {
	return h.Send(ctx, GetMute(pid))
}

// SetMute sets the mute state.
func (h *Handle) SetMute(ctx context.Context, pid int64, state MuteState) error {
	return h.Send(ctx, SetMute(pid, state))
}

// ToggleMute flips mute on the player itself.
func (h *Handle) ToggleMute(ctx context.Context, pid int64) error {
	return h.Send(ctx, ToggleMute(pid))
}

// GetPlayMode requests repeat and shuffle.
func (h *Handle) GetPlayMode(ctx context.Context, pid int64) error {
	return h.Send(ctx, GetPlayMode(pid))
}

// SetPlayMode sets repeat and shuffle.
func (h *Handle) SetPlayMode(ctx context.Context, pid int64, repeat RepeatMode, shuffle ShuffleMode) error {
	return h.Send(ctx, SetPlayMode(pid, repeat, shuffle))
}

// GetQueue requests queue entries start..end.
func (h *Handle) GetQueue(ctx context.Context, pid int64, start, end int) error {
	return h.Send(ctx, GetQueue(pid, start, end))
}

// PlayQueue jumps to a queue entry.
func (h *Handle) PlayQueue(ctx context.Context, pid, qid int64) error {
	return h.Send(ctx, PlayQueue(pid, qid))
}

// RemoveFromQueue deletes a queue entry.
func (h *Handle) RemoveFromQueue(ctx context.Context, pid, qid int64) error {
	return h.Send(ctx, RemoveFromQueue(pid, qid))
}

// ClearQueue empties the queue.
func (h *Handle) ClearQueue(ctx context.Context, pid int64) error {
	return h.Send(ctx, ClearQueue(pid))
}

// Next skips forward.
func (h *Handle) Next(ctx context.Context, pid int64) error {
	return h.Send(ctx, PlayNext(pid))
}

// Previous skips back.
func (h *Handle) Previous(ctx context.Context, pid int64) error {
	return h.Send(ctx, PlayPrevious(pid))
}

// GetMusicSources requests the source list.
func (h *Handle) GetMusicSources(ctx context.Context) error {
	return h.Send(ctx, GetMusicSources())
}

// GetSourceInfo requests one source's details.
func (h *Handle) GetSourceInfo(ctx context.Context, sid int64) error {
	return h.Send(ctx, GetSourceInfo(sid))
}

// Browse lists the top level of a source.
func (h *Handle) Browse(ctx context.Context, sid int64) error {
	return h.Send(ctx, Browse(sid))
}

// BrowseContainer lists a container within a source.
func (h *Handle) BrowseContainer(ctx context.Context, sid int64, cid string) error {
	return h.Send(ctx, BrowseContainer(sid, cid))
}

// PlayStream plays a station or track.
func (h *Handle) PlayStream(ctx context.Context, pid, sid int64, mid string) error {
	return h.Send(ctx, PlayStream(pid, sid, mid))
}

// PlayInput switches pid to one of its inputs.
func (h *Handle) PlayInput(ctx context.Context, pid int64, input string) error {
	return h.Send(ctx, PlayInput(pid, input))
}

// PlayInputFrom plays another player's input on pid.
func (h *Handle) PlayInputFrom(ctx context.Context, pid, spid int64, input string) error {
	return h.Send(ctx, PlayInputFrom(pid, spid, input))
}

// RefreshPlayer requests everything the unified player state is built from:
// play state, now playing, volume, mute and play mode. It stops at the
// first submission error.
func (h *Handle) RefreshPlayer(ctx context.Context, pid int64) error {
	for _, cmd := range []Command{
		GetPlayState(pid),
		GetNowPlayingMedia(pid),
		GetVolume(pid),
		GetMute(pid),
		GetPlayMode(pid),
	} {
		if err := h.Send(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

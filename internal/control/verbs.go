package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/heoslink/internal/avr"
	"github.com/nerrad567/heoslink/internal/heos"
)

// playerVerb acts on the active player.
type playerVerb func(c *Controller, ctx context.Context, h *heos.Handle, pid int64, req Request) error

// browseVerb acts on the player connection without needing an active
// player.
type browseVerb func(c *Controller, ctx context.Context, h *heos.Handle, req Request) error

// receiverVerb acts on the receiver.
type receiverVerb func(c *Controller, ctx context.Context, h *avr.Handle, req Request) error

var playerVerbs = map[string]playerVerb{
	VerbPlay: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.Play(ctx, pid)
	},
	VerbPause: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.Pause(ctx, pid)
	},
	VerbStop: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.Stop(ctx, pid)
	},
	VerbPlayPause: func(c *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		if c.rec.Player().PlayState == heos.PlayStatePlay {
			return h.Pause(ctx, pid)
		}
		return h.Play(ctx, pid)
	},
	VerbNext: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.Next(ctx, pid)
	},
	VerbPrevious: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.Previous(ctx, pid)
	},
	VerbVolumeUp: func(c *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.VolumeUp(ctx, pid, c.opts.VolumeStep)
	},
	VerbVolumeDown: func(c *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.VolumeDown(ctx, pid, c.opts.VolumeStep)
	},
	VerbSetVolume: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, req Request) error {
		if req.Level < 0 || req.Level > heos.MaxVolume {
			return fmt.Errorf("%w: volume %d outside 0..%d", ErrInvalidRequest, req.Level, heos.MaxVolume)
		}
		return h.SetVolume(ctx, pid, req.Level)
	},
	VerbMuteToggle: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.ToggleMute(ctx, pid)
	},
	VerbRepeatCycle: func(c *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		p := c.rec.Player()
		return h.SetPlayMode(ctx, pid, p.Repeat.Next(), p.Shuffle)
	},
	VerbShuffleToggle: func(c *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		p := c.rec.Player()
		return h.SetPlayMode(ctx, pid, p.Repeat, p.Shuffle.Toggle())
	},
	VerbQueueFetch: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.GetQueue(ctx, pid, 0, queueFetchEnd)
	},
	VerbQueuePlay: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, req Request) error {
		if req.ID <= 0 {
			return fmt.Errorf("%w: queue id required", ErrInvalidRequest)
		}
		return h.PlayQueue(ctx, pid, req.ID)
	},
	VerbQueueRemove: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, req Request) error {
		if req.ID <= 0 {
			return fmt.Errorf("%w: queue id required", ErrInvalidRequest)
		}
		return h.RemoveFromQueue(ctx, pid, req.ID)
	},
	VerbQueueClear: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.ClearQueue(ctx, pid)
	},
	VerbPlayInput: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, req Request) error {
		input, ok := heos.ResolveInput(req.Value)
		if !ok {
			return fmt.Errorf("%w: unknown input %q", ErrInvalidRequest, req.Value)
		}
		return h.PlayInput(ctx, pid, input)
	},
	VerbPlayStream: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, req Request) error {
		if req.ID <= 0 || req.Value == "" {
			return fmt.Errorf("%w: source id and media id required", ErrInvalidRequest)
		}
		return h.PlayStream(ctx, pid, req.ID, req.Value)
	},
	VerbRefresh: func(_ *Controller, ctx context.Context, h *heos.Handle, pid int64, _ Request) error {
		return h.RefreshPlayer(ctx, pid)
	},
}

var browseVerbs = map[string]browseVerb{
	VerbPlayersFetch: func(_ *Controller, ctx context.Context, h *heos.Handle, _ Request) error {
		return h.GetPlayers(ctx)
	},
	VerbSourcesFetch: func(_ *Controller, ctx context.Context, h *heos.Handle, _ Request) error {
		return h.GetMusicSources(ctx)
	},
	VerbBrowse: func(_ *Controller, ctx context.Context, h *heos.Handle, req Request) error {
		if req.ID <= 0 {
			return fmt.Errorf("%w: source id required", ErrInvalidRequest)
		}
		return h.Browse(ctx, req.ID)
	},
	VerbBrowseInto: func(_ *Controller, ctx context.Context, h *heos.Handle, req Request) error {
		if req.ID <= 0 || req.Value == "" {
			return fmt.Errorf("%w: source id and container id required", ErrInvalidRequest)
		}
		return h.BrowseContainer(ctx, req.ID, req.Value)
	},
}

var receiverVerbs = map[string]receiverVerb{
	VerbPowerOn: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.PowerOn(ctx)
	},
	VerbPowerOff: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.PowerOff(ctx)
	},
	VerbVolumeUp: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.VolumeUp(ctx)
	},
	VerbVolumeDown: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.VolumeDown(ctx)
	},
	VerbSetVolume: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		if req.Level < 0 || req.Level > avr.MaxVolume {
			return fmt.Errorf("%w: volume %d outside 0..%d", ErrInvalidRequest, req.Level, avr.MaxVolume)
		}
		return h.SetVolume(ctx, req.Level)
	},
	VerbMuteOn: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.MuteOn(ctx)
	},
	VerbMuteOff: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.MuteOff(ctx)
	},
	VerbMuteToggle: func(c *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		if c.rec.Receiver().Muted {
			return h.MuteOff(ctx)
		}
		return h.MuteOn(ctx)
	},
	VerbSurround: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		mode, ok := avr.ParseSurroundName(req.Value)
		if !ok {
			return fmt.Errorf("%w: unknown surround mode %q", ErrInvalidRequest, req.Value)
		}
		return h.SetSurroundMode(ctx, mode)
	},
	VerbQuickSelect: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		return h.QuickSelect(ctx, req.Level)
	},
	VerbInput: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		return h.SetInput(ctx, req.Value)
	},
	VerbInputHDMI: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		return h.InputHDMI(ctx, req.Level)
	},
	VerbBassUp: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.BassUp(ctx)
	},
	VerbBassDown: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.BassDown(ctx)
	},
	VerbTrebleUp: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.TrebleUp(ctx)
	},
	VerbTrebleDown: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.TrebleDown(ctx)
	},
	VerbDynamicEQOn: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.DynamicEQOn(ctx)
	},
	VerbDynamicEQOff: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.DynamicEQOff(ctx)
	},
	VerbDynamicEQToggle: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.DynamicEQToggle(ctx)
	},
	VerbDialogEnhancer: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		if req.Level < 0 {
			return fmt.Errorf("%w: dialog level %d is negative", ErrInvalidRequest, req.Level)
		}
		return h.DialogEnhancer(ctx, req.Level)
	},
	VerbSubwooferUp: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.SubwooferUp(ctx)
	},
	VerbSubwooferDown: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.SubwooferDown(ctx)
	},
	VerbLFEUp: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.LFEUp(ctx)
	},
	VerbLFEDown: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.LFEDown(ctx)
	},
	VerbCinemaEQOn: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.CinemaEQOn(ctx)
	},
	VerbCinemaEQOff: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.CinemaEQOff(ctx)
	},
	VerbDynamicVolume: func(_ *Controller, ctx context.Context, h *avr.Handle, req Request) error {
		return h.DynamicVolume(ctx, req.Value)
	},
	VerbQueryStatus: func(_ *Controller, ctx context.Context, h *avr.Handle, _ Request) error {
		return h.QueryStatus(ctx)
	},
}

// Verbs returns the verbs a target accepts.
func Verbs(target Target) []string {
	var out []string
	switch target {
	case TargetPlayer:
		for v := range playerVerbs {
			out = append(out, v)
		}
		for v := range browseVerbs {
			out = append(out, v)
		}
		out = append(out, VerbSelectPlayer)
	case TargetReceiver:
		for v := range receiverVerbs {
			out = append(out, v)
		}
	}
	return out
}

// execute runs on the loop goroutine.
func (c *Controller) execute(ctx context.Context, req Request) error {
	switch req.Target {
	case TargetPlayer:
		return c.executePlayer(ctx, req)
	case TargetReceiver:
		return c.executeReceiver(ctx, req)
	default:
		return fmt.Errorf("%w: unknown target %q", ErrInvalidRequest, req.Target)
	}
}

func (c *Controller) executePlayer(ctx context.Context, req Request) error {
	if req.Verb == VerbSelectPlayer {
		return c.selectPlayer(req)
	}

	verb, needsPlayer := playerVerbs[req.Verb]
	browse, isBrowse := browseVerbs[req.Verb]
	if !needsPlayer && !isBrowse {
		return fmt.Errorf("%w: player %q", ErrUnknownVerb, req.Verb)
	}

	if c.player == nil || !c.player.Alive() {
		return fmt.Errorf("%w: player", ErrNotConnected)
	}

	if isBrowse {
		return browse(c, ctx, c.playerHandle, req)
	}

	pid, ok := c.rec.ActivePID()
	if !ok {
		return ErrNoActivePlayer
	}
	return verb(c, ctx, c.playerHandle, pid, req)
}

// selectPlayer changes the active player. The refresh follows from the
// loop noticing the new active id. Player ids are signed and never zero,
// so any non-zero ID selects by id.
func (c *Controller) selectPlayer(req Request) error {
	var err error
	if req.ID != 0 {
		err = c.rec.SelectPID(req.ID)
	} else {
		err = c.rec.SelectPlayer(req.Level)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	c.hasActive = false
	return nil
}

func (c *Controller) executeReceiver(ctx context.Context, req Request) error {
	verb, ok := receiverVerbs[req.Verb]
	if !ok {
		return fmt.Errorf("%w: receiver %q", ErrUnknownVerb, req.Verb)
	}
	if c.receiver == nil || !c.receiver.Alive() {
		return fmt.Errorf("%w: receiver", ErrNotConnected)
	}

	err := verb(c, ctx, c.receiverHandle, req)
	if errors.Is(err, avr.ErrInvalidArgument) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return err
}

package avr

import (
	"context"
	"fmt"
	"strings"
)

// Submitter accepts encoded command lines for transmission. It is
// satisfied by *session.Session.
type Submitter interface {
	Submit(ctx context.Context, line []byte) error
}

// Input shortcuts accepted by SetInput.
const (
	InputTV          = "TV"
	InputDVD         = "DVD"
	InputBluRay      = "BD"
	InputGame        = "GAME"
	InputMediaPlayer = "MPLAY"
	InputCableSat    = "SAT/CBL"
	InputNetwork     = "NET"
	InputBluetooth   = "BT"
)

// Dynamic volume modes.
const (
	DynamicVolumeOff    = "OFF"
	DynamicVolumeLight  = "LIT"
	DynamicVolumeMedium = "MED"
	DynamicVolumeHeavy  = "HEV"
)

// MaxHDMIInput is the highest HDMI input number.
const MaxHDMIInput = 7

// Handle is the command facade for one receiver connection. Every method
// encodes and submits literal command lines; no local state is kept, so
// toggles that the protocol has no primitive for degrade to a query.
//
// Thread Safety: safe for concurrent use if the Submitter is.
type Handle struct {
	sub Submitter
}

// NewHandle wraps a Submitter.
func NewHandle(sub Submitter) *Handle {
	return &Handle{sub: sub}
}

// SendRaw submits cmd followed by a carriage return.
func (h *Handle) SendRaw(ctx context.Context, cmd string) error {
	return h.sub.Submit(ctx, Encode(cmd))
}

func (h *Handle) sendAll(ctx context.Context, cmds ...string) error {
	for _, cmd := range cmds {
		if err := h.SendRaw(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// PowerOn switches the receiver on.
func (h *Handle) PowerOn(ctx context.Context) error { return h.SendRaw(ctx, "PWON") }

// PowerOff puts the receiver in standby.
func (h *Handle) PowerOff(ctx context.Context) error { return h.SendRaw(ctx, "PWSTANDBY") }

// GetPower queries the power state.
func (h *Handle) GetPower(ctx context.Context) error { return h.SendRaw(ctx, "PW?") }

// VolumeUp raises the master volume one step.
func (h *Handle) VolumeUp(ctx context.Context) error { return h.SendRaw(ctx, "MVUP") }

// VolumeDown lowers the master volume one step.
func (h *Handle) VolumeDown(ctx context.Context) error { return h.SendRaw(ctx, "MVDOWN") }

// SetVolume sets the master volume, clamped to 0..98.
func (h *Handle) SetVolume(ctx context.Context, level int) error {
	return h.SendRaw(ctx, fmt.Sprintf("MV%02d", max(0, min(level, MaxVolume))))
}

// GetVolume queries the master volume.
func (h *Handle) GetVolume(ctx context.Context) error { return h.SendRaw(ctx, "MV?") }

// MuteOn mutes the receiver.
func (h *Handle) MuteOn(ctx context.Context) error { return h.SendRaw(ctx, "MUON") }

// MuteOff unmutes the receiver.
func (h *Handle) MuteOff(ctx context.Context) error { return h.SendRaw(ctx, "MUOFF") }

// MuteToggle only queries the mute state. The protocol has no toggle; a
// caller that knows the current state should send MuteOn or MuteOff.
func (h *Handle) MuteToggle(ctx context.Context) error { return h.SendRaw(ctx, "MU?") }

// GetMute queries the mute state.
func (h *Handle) GetMute(ctx context.Context) error { return h.SendRaw(ctx, "MU?") }

// SetSurroundMode selects a listening mode.
func (h *Handle) SetSurroundMode(ctx context.Context, mode SurroundMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: surround mode %d", ErrInvalidArgument, int(mode))
	}
	return h.SendRaw(ctx, mode.Command())
}

// GetSurroundMode queries the listening mode.
func (h *Handle) GetSurroundMode(ctx context.Context) error { return h.SendRaw(ctx, "MS?") }

// QuickSelect recalls quick select slot n (1..5).
func (h *Handle) QuickSelect(ctx context.Context, n int) error {
	cmd, err := QuickSelectCommand(n)
	if err != nil {
		return err
	}
	return h.SendRaw(ctx, cmd)
}

// SetInput selects an input by its protocol name, e.g. "TV" or "HDMI3".
func (h *Handle) SetInput(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("%w: empty input", ErrInvalidArgument)
	}
	return h.SendRaw(ctx, "SI"+input)
}

// GetInput queries the selected input.
func (h *Handle) GetInput(ctx context.Context) error { return h.SendRaw(ctx, "SI?") }

// InputHDMI selects HDMI input n. n is clamped to 1..7.
func (h *Handle) InputHDMI(ctx context.Context, n int) error {
	return h.SetInput(ctx, fmt.Sprintf("HDMI%d", max(1, min(n, MaxHDMIInput))))
}

// BassUp raises bass one step.
func (h *Handle) BassUp(ctx context.Context) error { return h.SendRaw(ctx, "PSBAS UP") }

// BassDown lowers bass one step.
func (h *Handle) BassDown(ctx context.Context) error { return h.SendRaw(ctx, "PSBAS DOWN") }

// TrebleUp raises treble one step.
func (h *Handle) TrebleUp(ctx context.Context) error { return h.SendRaw(ctx, "PSTRE UP") }

// TrebleDown lowers treble one step.
func (h *Handle) TrebleDown(ctx context.Context) error { return h.SendRaw(ctx, "PSTRE DOWN") }

// DynamicEQOn enables dynamic EQ.
func (h *Handle) DynamicEQOn(ctx context.Context) error { return h.SendRaw(ctx, "PSDYNEQ ON") }

// DynamicEQOff disables dynamic EQ.
func (h *Handle) DynamicEQOff(ctx context.Context) error { return h.SendRaw(ctx, "PSDYNEQ OFF") }

// DynamicEQToggle always sends the "on" variant. Dynamic EQ state is not
// decoded, so there is nothing to toggle from.
func (h *Handle) DynamicEQToggle(ctx context.Context) error { return h.DynamicEQOn(ctx) }

// DialogEnhancer sets the dialog enhancer level, clamped to 0..6. Level 0
// switches it off.
func (h *Handle) DialogEnhancer(ctx context.Context, level int) error {
	level = max(0, min(level, MaxDialogLevel))
	if level == 0 {
		return h.SendRaw(ctx, "PSDIL OFF")
	}
	return h.SendRaw(ctx, fmt.Sprintf("PSDIL %02d", level))
}

// SubwooferUp raises the subwoofer level one step.
func (h *Handle) SubwooferUp(ctx context.Context) error { return h.SendRaw(ctx, "PSSWL UP") }

// SubwooferDown lowers the subwoofer level one step.
func (h *Handle) SubwooferDown(ctx context.Context) error { return h.SendRaw(ctx, "PSSWL DOWN") }

// LFEUp raises the LFE level one step.
func (h *Handle) LFEUp(ctx context.Context) error { return h.SendRaw(ctx, "PSLFE UP") }

// LFEDown lowers the LFE level one step.
func (h *Handle) LFEDown(ctx context.Context) error { return h.SendRaw(ctx, "PSLFE DOWN") }

// CinemaEQOn enables cinema EQ.
func (h *Handle) CinemaEQOn(ctx context.Context) error { return h.SendRaw(ctx, "PSCINEMA EQ.ON") }

// CinemaEQOff disables cinema EQ.
func (h *Handle) CinemaEQOff(ctx context.Context) error { return h.SendRaw(ctx, "PSCINEMA EQ.OFF") }

// DynamicVolume sets the night mode: OFF, LIT, MED or HEV (case-insensitive).
func (h *Handle) DynamicVolume(ctx context.Context, mode string) error {
	m := strings.ToUpper(strings.TrimSpace(mode))
	switch m {
	case DynamicVolumeOff, DynamicVolumeLight, DynamicVolumeMedium, DynamicVolumeHeavy:
		return h.SendRaw(ctx, "PSDYNVOL "+m)
	default:
		return fmt.Errorf("%w: dynamic volume %q", ErrInvalidArgument, mode)
	}
}

// QueryStatus asks for power, volume, mute, input and surround mode, in
// that order.
func (h *Handle) QueryStatus(ctx context.Context) error {
	return h.sendAll(ctx, "PW?", "MV?", "MU?", "SI?", "MS?")
}

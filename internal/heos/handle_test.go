package heos

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSubmitter captures submitted lines.
type recordingSubmitter struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (r *recordingSubmitter) Submit(_ context.Context, line []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, string(line))
	return nil
}

func (r *recordingSubmitter) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func TestHandle_Operations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(h *Handle) error
		want string
	}{
		{"play", func(h *Handle) error { return h.Play(ctx, 5) }, "heos://player/set_play_state?pid=5&state=play\r\n"},
		{"pause", func(h *Handle) error { return h.Pause(ctx, 5) }, "heos://player/set_play_state?pid=5&state=pause\r\n"},
		{"stop", func(h *Handle) error { return h.Stop(ctx, 5) }, "heos://player/set_play_state?pid=5&state=stop\r\n"},
		{"next", func(h *Handle) error { return h.Next(ctx, 5) }, "heos://player/play_next?pid=5\r\n"},
		{"previous", func(h *Handle) error { return h.Previous(ctx, 5) }, "heos://player/play_previous?pid=5\r\n"},
		{"set volume", func(h *Handle) error { return h.SetVolume(ctx, 5, 30) }, "heos://player/set_volume?pid=5&level=30\r\n"},
		{"volume up", func(h *Handle) error { return h.VolumeUp(ctx, 5, 5) }, "heos://player/volume_up?pid=5&step=5\r\n"},
		{"volume down", func(h *Handle) error { return h.VolumeDown(ctx, 5, 5) }, "heos://player/volume_down?pid=5&step=5\r\n"},
		{"toggle mute", func(h *Handle) error { return h.ToggleMute(ctx, 5) }, "heos://player/toggle_mute?pid=5\r\n"},
		{"set mute", func(h *Handle) error { return h.SetMute(ctx, 5, MuteOn) }, "heos://player/set_mute?pid=5&state=on\r\n"},
		{"get players", func(h *Handle) error { return h.GetPlayers(ctx) }, "heos://player/get_players\r\n"},
		{"register", func(h *Handle) error { return h.RegisterForEvents(ctx, true) }, "heos://system/register_for_change_events?enable=on\r\n"},
		{"queue", func(h *Handle) error { return h.GetQueue(ctx, 5, 0, 100) }, "heos://player/get_queue?pid=5&range=0,100\r\n"},
		{"play queue", func(h *Handle) error { return h.PlayQueue(ctx, 5, 2) }, "heos://player/play_queue?pid=5&qid=2\r\n"},
		{"clear queue", func(h *Handle) error { return h.ClearQueue(ctx, 5) }, "heos://player/clear_queue?pid=5\r\n"},
		{"sources", func(h *Handle) error { return h.GetMusicSources(ctx) }, "heos://browse/get_music_sources\r\n"},
		{"browse", func(h *Handle) error { return h.Browse(ctx, 1024) }, "heos://browse/browse?sid=1024\r\n"},
		{"play input", func(h *Handle) error { return h.PlayInput(ctx, 5, "inputs/cd") }, "heos://browse/play_input?pid=5&input=inputs/cd\r\n"},
		{"play stream", func(h *Handle) error { return h.PlayStream(ctx, 5, 3, "m") }, "heos://browse/play_stream?pid=5&sid=3&mid=m\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			h := NewHandle(sub)

			require.NoError(t, tt.call(h))
			assert.Equal(t, []string{tt.want}, sub.Lines())
		})
	}
}

func TestHandle_RefreshPlayer(t *testing.T) {
	sub := &recordingSubmitter{}
	h := NewHandle(sub)

	require.NoError(t, h.RefreshPlayer(context.Background(), 9))

	assert.Equal(t, []string{
		"heos://player/get_play_state?pid=9\r\n",
		"heos://player/get_now_playing_media?pid=9\r\n",
		"heos://player/get_volume?pid=9\r\n",
		"heos://player/get_mute?pid=9\r\n",
		"heos://player/get_play_mode?pid=9\r\n",
	}, sub.Lines())
}

func TestHandle_SubmitError(t *testing.T) {
	errGone := errors.New("gone")
	sub := &recordingSubmitter{err: errGone}
	h := NewHandle(sub)

	assert.ErrorIs(t, h.Play(context.Background(), 1), errGone)
	assert.ErrorIs(t, h.RefreshPlayer(context.Background(), 1), errGone)
	assert.Empty(t, sub.Lines())
}

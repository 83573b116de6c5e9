package control

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heoslink/internal/avr"
	"github.com/nerrad567/heoslink/internal/heos"
	"github.com/nerrad567/heoslink/internal/session"
	"github.com/nerrad567/heoslink/internal/state"
)

const (
	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

// fakeSession records submitted lines and lets tests inject notifications.
type fakeSession[T any] struct {
	mu     sync.Mutex
	lines  []string
	events chan session.Notification[T]
	closed atomic.Bool
	dead   atomic.Bool
}

func newFakeSession[T any]() *fakeSession[T] {
	return &fakeSession[T]{events: make(chan session.Notification[T], 64)}
}

func (f *fakeSession[T]) Submit(_ context.Context, line []byte) error {
	if f.closed.Load() {
		return session.ErrClosed
	}
	if f.dead.Load() {
		return session.ErrDisconnected
	}
	f.mu.Lock()
	f.lines = append(f.lines, strings.TrimRight(string(line), "\r\n"))
	f.mu.Unlock()
	return nil
}

func (f *fakeSession[T]) Events() <-chan session.Notification[T] { return f.events }

func (f *fakeSession[T]) Alive() bool { return !f.closed.Load() && !f.dead.Load() }

func (f *fakeSession[T]) Close() error {
	f.closed.Store(true)
	return nil
}

func (f *fakeSession[T]) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

func (f *fakeSession[T]) Reset() {
	f.mu.Lock()
	f.lines = nil
	f.mu.Unlock()
}

func (f *fakeSession[T]) waitLines(t *testing.T, n int) []string {
	t.Helper()
	require.Eventually(t, func() bool { return len(f.Lines()) >= n }, testTimeout, testTick,
		"expected %d submitted lines", n)
	return f.Lines()
}

type playerFake = fakeSession[*heos.Response]
type receiverFake = fakeSession[avr.Event]

func pushHeos(t *testing.T, f *playerFake, line string) {
	t.Helper()
	resp, ok := heos.Decode([]byte(line))
	require.True(t, ok, "line should decode: %s", line)
	f.events <- session.Notification[*heos.Response]{Kind: session.Message, Message: resp}
}

func pushAVR(t *testing.T, f *receiverFake, line string) {
	t.Helper()
	ev, ok := avr.Decode([]byte(line))
	require.True(t, ok, "line should decode: %s", line)
	f.events <- session.Notification[avr.Event]{Kind: session.Message, Message: ev}
}

func startController(t *testing.T) *Controller {
	t.Helper()
	c := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(testTimeout):
			t.Error("Run did not return")
		}
	})
	return c
}

const rosterLine = `{"heos":{"command":"player/get_players","result":"success","message":""},` +
	`"payload":[{"pid":1,"name":"Living Room","model":"HEOS 1"},{"pid":2,"name":"Den","model":"HEOS 3"}]}`

func refreshLines(pid string) []string {
	return []string{
		"heos://player/get_play_state?pid=" + pid,
		"heos://player/get_now_playing_media?pid=" + pid,
		"heos://player/get_volume?pid=" + pid,
		"heos://player/get_mute?pid=" + pid,
		"heos://player/get_play_mode?pid=" + pid,
	}
}

// attachWithRoster attaches a player, delivers a two-player roster and
// waits for the refresh of pid 1. The recorded lines are cleared.
func attachWithRoster(t *testing.T, c *Controller) *playerFake {
	t.Helper()
	p := newFakeSession[*heos.Response]()
	require.NoError(t, c.AttachPlayer(context.Background(), p))

	pushHeos(t, p, rosterLine)
	p.waitLines(t, 7)
	require.Eventually(t, func() bool {
		pid, ok := c.Snapshot().ActivePID()
		return ok && pid == 1
	}, testTimeout, testTick)
	p.Reset()
	return p
}

func TestAttachPlayer_RegistersThenRequestsRoster(t *testing.T) {
	c := startController(t)
	p := newFakeSession[*heos.Response]()

	require.NoError(t, c.AttachPlayer(context.Background(), p))

	assert.Equal(t, []string{
		"heos://system/register_for_change_events?enable=on",
		"heos://player/get_players",
	}, p.Lines())
}

func TestRosterActivatesFirstPlayerAndRefreshes(t *testing.T) {
	c := startController(t)
	p := newFakeSession[*heos.Response]()
	require.NoError(t, c.AttachPlayer(context.Background(), p))

	pushHeos(t, p, rosterLine)

	lines := p.waitLines(t, 7)
	assert.Equal(t, refreshLines("1"), lines[2:7])

	require.Eventually(t, func() bool {
		pid, ok := c.Snapshot().ActivePID()
		return ok && pid == 1
	}, testTimeout, testTick)
}

func TestResponsesReachSnapshotAndSubscribers(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	pushHeos(t, p, `{"heos":{"command":"player/get_volume","result":"success","message":"pid=1&level=37"}}`)

	deadline := time.After(testTimeout)
	for {
		select {
		case snap := <-updates:
			if snap.Player.Volume == 37 {
				assert.Equal(t, 37, c.Snapshot().Player.Volume)
				return
			}
		case <-deadline:
			t.Fatal("volume never reached subscribers")
		}
	}
}

func TestSubscribe_StartsWithCurrentSnapshot(t *testing.T) {
	c := New(Options{})

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	select {
	case snap := <-updates:
		assert.Equal(t, state.NoActive, snap.ActiveIndex)
	default:
		t.Fatal("subscription should hold a snapshot immediately")
	}
}

func TestDispatch_NotConnected(t *testing.T) {
	c := startController(t)
	ctx := context.Background()

	err := c.Dispatch(ctx, Request{Target: TargetPlayer, Verb: VerbPlay})
	assert.ErrorIs(t, err, ErrNotConnected)

	err = c.Dispatch(ctx, Request{Target: TargetReceiver, Verb: VerbPowerOn})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDispatch_NoActivePlayer(t *testing.T) {
	c := startController(t)
	p := newFakeSession[*heos.Response]()
	require.NoError(t, c.AttachPlayer(context.Background(), p))
	p.Reset()

	err := c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbPlay})
	assert.ErrorIs(t, err, ErrNoActivePlayer)

	// Browsing needs the connection, not an active player.
	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbSourcesFetch}))
	assert.Equal(t, []string{"heos://browse/get_music_sources"}, p.Lines())
}

func TestDispatch_PlayerVerbs(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	tests := []struct {
		req  Request
		want string
	}{
		{Request{Verb: VerbPlay}, "heos://player/set_play_state?pid=1&state=play"},
		{Request{Verb: VerbPause}, "heos://player/set_play_state?pid=1&state=pause"},
		{Request{Verb: VerbStop}, "heos://player/set_play_state?pid=1&state=stop"},
		{Request{Verb: VerbPlayPause}, "heos://player/set_play_state?pid=1&state=play"},
		{Request{Verb: VerbNext}, "heos://player/play_next?pid=1"},
		{Request{Verb: VerbPrevious}, "heos://player/play_previous?pid=1"},
		{Request{Verb: VerbVolumeUp}, "heos://player/volume_up?pid=1&step=5"},
		{Request{Verb: VerbVolumeDown}, "heos://player/volume_down?pid=1&step=5"},
		{Request{Verb: VerbSetVolume, Level: 30}, "heos://player/set_volume?pid=1&level=30"},
		{Request{Verb: VerbMuteToggle}, "heos://player/toggle_mute?pid=1"},
		{Request{Verb: VerbRepeatCycle}, "heos://player/set_play_mode?pid=1&repeat=on_all&shuffle=off"},
		{Request{Verb: VerbShuffleToggle}, "heos://player/set_play_mode?pid=1&repeat=off&shuffle=on"},
		{Request{Verb: VerbQueueFetch}, "heos://player/get_queue?pid=1&range=0,100"},
		{Request{Verb: VerbQueuePlay, ID: 3}, "heos://player/play_queue?pid=1&qid=3"},
		{Request{Verb: VerbQueueRemove, ID: 3}, "heos://player/remove_from_queue?pid=1&qid=3"},
		{Request{Verb: VerbQueueClear}, "heos://player/clear_queue?pid=1"},
		{Request{Verb: VerbPlayersFetch}, "heos://player/get_players"},
		{Request{Verb: VerbSourcesFetch}, "heos://browse/get_music_sources"},
		{Request{Verb: VerbBrowse, ID: 1}, "heos://browse/browse?sid=1"},
		{Request{Verb: VerbBrowseInto, ID: 1, Value: "c1"}, "heos://browse/browse?sid=1&cid=c1"},
		{Request{Verb: VerbPlayInput, Value: "HDMI 1"}, "heos://browse/play_input?pid=1&input=inputs/hdmi_in_1"},
		{Request{Verb: VerbPlayStream, ID: 3, Value: "m1"}, "heos://browse/play_stream?pid=1&sid=3&mid=m1"},
	}

	for _, tt := range tests {
		t.Run(tt.req.Verb, func(t *testing.T) {
			p.Reset()
			tt.req.Target = TargetPlayer

			require.NoError(t, c.Dispatch(context.Background(), tt.req))

			assert.Equal(t, []string{tt.want}, p.Lines())
		})
	}
}

func TestDispatch_PlayPauseDecidesFromState(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	pushHeos(t, p, `{"heos":{"command":"event/player_state_changed","message":"pid=1&state=play"}}`)
	require.Eventually(t, func() bool {
		return c.Snapshot().Player.PlayState == heos.PlayStatePlay
	}, testTimeout, testTick)

	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbPlayPause}))
	assert.Equal(t, []string{"heos://player/set_play_state?pid=1&state=pause"}, p.Lines())
}

func TestDispatch_PlayModeFromState(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	pushHeos(t, p, `{"heos":{"command":"player/get_play_mode","result":"success","message":"pid=1&repeat=on_all&shuffle=on"}}`)
	require.Eventually(t, func() bool {
		return c.Snapshot().Player.Repeat == heos.RepeatOnAll
	}, testTimeout, testTick)

	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbRepeatCycle}))
	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbShuffleToggle}))

	assert.Equal(t, []string{
		"heos://player/set_play_mode?pid=1&repeat=on_one&shuffle=on",
		"heos://player/set_play_mode?pid=1&repeat=on_all&shuffle=off",
	}, p.Lines())
}

func TestDispatch_InvalidRequests(t *testing.T) {
	c := startController(t)
	attachWithRoster(t, c)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"volume too high", Request{Target: TargetPlayer, Verb: VerbSetVolume, Level: 101}, ErrInvalidRequest},
		{"queue id missing", Request{Target: TargetPlayer, Verb: VerbQueuePlay}, ErrInvalidRequest},
		{"unknown input", Request{Target: TargetPlayer, Verb: VerbPlayInput, Value: "Cassette"}, ErrInvalidRequest},
		{"stream without media", Request{Target: TargetPlayer, Verb: VerbPlayStream, ID: 3}, ErrInvalidRequest},
		{"browse without source", Request{Target: TargetPlayer, Verb: VerbBrowse}, ErrInvalidRequest},
		{"select out of range", Request{Target: TargetPlayer, Verb: VerbSelectPlayer, Level: 9}, ErrInvalidRequest},
		{"select unknown pid", Request{Target: TargetPlayer, Verb: VerbSelectPlayer, ID: 99}, ErrInvalidRequest},
		{"unknown verb", Request{Target: TargetPlayer, Verb: "rewind"}, ErrUnknownVerb},
		{"unknown target", Request{Target: "toaster", Verb: VerbPlay}, ErrInvalidRequest},
		{"receiver verb on player", Request{Target: TargetPlayer, Verb: VerbPowerOn}, ErrUnknownVerb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Dispatch(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSelectPlayer_RefreshesNewPlayer(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	pushHeos(t, p, `{"heos":{"command":"player/get_volume","result":"success","message":"pid=1&level=50"}}`)
	require.Eventually(t, func() bool { return c.Snapshot().Player.Volume == 50 }, testTimeout, testTick)

	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbSelectPlayer, Level: 1}))

	lines := p.waitLines(t, 5)
	assert.Equal(t, refreshLines("2"), lines)

	require.Eventually(t, func() bool { return c.Snapshot().ActiveIndex == 1 }, testTimeout, testTick)
	snap := c.Snapshot()
	assert.Equal(t, 0, snap.Player.Volume)
	assert.Len(t, snap.Players, 2)
}

func TestSelectPlayer_ByID(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbSelectPlayer, ID: 2}))
	assert.Equal(t, refreshLines("2"), p.waitLines(t, 5))
	require.Eventually(t, func() bool {
		pid, ok := c.Snapshot().ActivePID()
		return ok && pid == 2
	}, testTimeout, testTick)
}

func TestSelectPlayer_ByNegativeID(t *testing.T) {
	c := startController(t)
	p := newFakeSession[*heos.Response]()
	require.NoError(t, c.AttachPlayer(context.Background(), p))

	pushHeos(t, p, `{"heos":{"command":"player/get_players","result":"success","message":""},`+
		`"payload":[{"pid":-100,"name":"Kitchen","model":"HEOS 1"},{"pid":-200,"name":"Office","model":"HEOS 5"}]}`)
	p.waitLines(t, 7)
	require.Eventually(t, func() bool {
		pid, ok := c.Snapshot().ActivePID()
		return ok && pid == -100
	}, testTimeout, testTick)
	p.Reset()

	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbSelectPlayer, ID: -200}))
	assert.Equal(t, refreshLines("-200"), p.waitLines(t, 5))

	require.Eventually(t, func() bool {
		pid, ok := c.Snapshot().ActivePID()
		return ok && pid == -200
	}, testTimeout, testTick)
	assert.Equal(t, 1, c.Snapshot().ActiveIndex)

	err := c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbSelectPlayer, ID: -300})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestEventFollowUps(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	// Another player's track change needs no query.
	pushHeos(t, p, `{"heos":{"command":"event/player_now_playing_changed","message":"pid=2"}}`)
	pushHeos(t, p, `{"heos":{"command":"event/player_now_playing_changed","message":"pid=1"}}`)
	// Queue changes are ignored until a queue was fetched.
	pushHeos(t, p, `{"heos":{"command":"event/player_queue_changed","message":"pid=1"}}`)
	pushHeos(t, p, `{"heos":{"command":"event/players_changed","message":""}}`)

	lines := p.waitLines(t, 2)
	assert.Equal(t, []string{
		"heos://player/get_now_playing_media?pid=1",
		"heos://player/get_players",
	}, lines)

	p.Reset()
	pushHeos(t, p, `{"heos":{"command":"player/get_queue","result":"success","message":"pid=1&range=0,100"},`+
		`"payload":[{"qid":1,"song":"One"}]}`)
	pushHeos(t, p, `{"heos":{"command":"event/player_queue_changed","message":"pid=1"}}`)

	lines = p.waitLines(t, 1)
	assert.Equal(t, []string{"heos://player/get_queue?pid=1&range=0,100"}, lines)
}

func TestEventsForOtherPlayerLeaveSnapshot(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	before := c.Snapshot()
	pushHeos(t, p, `{"heos":{"command":"event/player_volume_changed","message":"pid=2&level=90&mute=on"}}`)
	// Barrier: players_changed always produces a query.
	pushHeos(t, p, `{"heos":{"command":"event/players_changed","message":""}}`)
	p.waitLines(t, 1)

	assert.Equal(t, before, c.Snapshot())
}

func TestAttachPlayer_ReplacesPreviousSession(t *testing.T) {
	c := startController(t)
	first := attachWithRoster(t, c)

	second := newFakeSession[*heos.Response]()
	require.NoError(t, c.AttachPlayer(context.Background(), second))

	assert.True(t, first.closed.Load(), "previous session should be closed")
	lines := second.waitLines(t, 7)
	assert.Equal(t, "heos://system/register_for_change_events?enable=on", lines[0])
	// The roster survives, so the active player is refreshed on the new session.
	assert.Equal(t, refreshLines("1"), lines[2:7])
}

func TestPlayerSessionEnd(t *testing.T) {
	c := startController(t)
	p := attachWithRoster(t, c)

	p.dead.Store(true)
	p.events <- session.Notification[*heos.Response]{Kind: session.Error, Err: errors.New("read error: reset")}

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == "Error: read error: reset"
	}, testTimeout, testTick)
	assert.False(t, c.Snapshot().HeosConnected)

	err := c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbPlay})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestReceiver_AttachQueriesStatus(t *testing.T) {
	c := startController(t)
	r := newFakeSession[avr.Event]()

	require.NoError(t, c.AttachReceiver(context.Background(), r))

	assert.Equal(t, []string{"PW?", "MV?", "MU?", "SI?", "MS?"}, r.Lines())
}

func TestReceiver_EventsReachSnapshot(t *testing.T) {
	c := startController(t)
	r := newFakeSession[avr.Event]()
	require.NoError(t, c.AttachReceiver(context.Background(), r))

	r.events <- session.Notification[avr.Event]{Kind: session.Connected}
	pushAVR(t, r, "MV455")
	pushAVR(t, r, "SITV")

	require.Eventually(t, func() bool {
		recv := c.Snapshot().Receiver
		return recv.MasterVolume == 45 && recv.InputSource == "TV"
	}, testTimeout, testTick)
	assert.True(t, c.Snapshot().Receiver.Connected)
}

func TestDispatch_ReceiverVerbs(t *testing.T) {
	c := startController(t)
	r := newFakeSession[avr.Event]()
	require.NoError(t, c.AttachReceiver(context.Background(), r))

	tests := []struct {
		req  Request
		want []string
	}{
		{Request{Verb: VerbPowerOn}, []string{"PWON"}},
		{Request{Verb: VerbPowerOff}, []string{"PWSTANDBY"}},
		{Request{Verb: VerbVolumeUp}, []string{"MVUP"}},
		{Request{Verb: VerbVolumeDown}, []string{"MVDOWN"}},
		{Request{Verb: VerbSetVolume, Level: 45}, []string{"MV45"}},
		{Request{Verb: VerbMuteOn}, []string{"MUON"}},
		{Request{Verb: VerbMuteOff}, []string{"MUOFF"}},
		{Request{Verb: VerbMuteToggle}, []string{"MUON"}},
		{Request{Verb: VerbSurround, Value: "Pure Direct"}, []string{"MSPURE DIRECT"}},
		{Request{Verb: VerbQuickSelect, Level: 2}, []string{"MSQUICK2"}},
		{Request{Verb: VerbInput, Value: "TV"}, []string{"SITV"}},
		{Request{Verb: VerbInputHDMI, Level: 3}, []string{"SIHDMI3"}},
		{Request{Verb: VerbBassUp}, []string{"PSBAS UP"}},
		{Request{Verb: VerbBassDown}, []string{"PSBAS DOWN"}},
		{Request{Verb: VerbTrebleUp}, []string{"PSTRE UP"}},
		{Request{Verb: VerbTrebleDown}, []string{"PSTRE DOWN"}},
		{Request{Verb: VerbDynamicEQOn}, []string{"PSDYNEQ ON"}},
		{Request{Verb: VerbDynamicEQOff}, []string{"PSDYNEQ OFF"}},
		{Request{Verb: VerbDynamicEQToggle}, []string{"PSDYNEQ ON"}},
		{Request{Verb: VerbDialogEnhancer, Level: 3}, []string{"PSDIL 03"}},
		{Request{Verb: VerbSubwooferUp}, []string{"PSSWL UP"}},
		{Request{Verb: VerbSubwooferDown}, []string{"PSSWL DOWN"}},
		{Request{Verb: VerbLFEUp}, []string{"PSLFE UP"}},
		{Request{Verb: VerbLFEDown}, []string{"PSLFE DOWN"}},
		{Request{Verb: VerbCinemaEQOn}, []string{"PSCINEMA EQ.ON"}},
		{Request{Verb: VerbCinemaEQOff}, []string{"PSCINEMA EQ.OFF"}},
		{Request{Verb: VerbDynamicVolume, Value: "med"}, []string{"PSDYNVOL MED"}},
		{Request{Verb: VerbQueryStatus}, []string{"PW?", "MV?", "MU?", "SI?", "MS?"}},
	}

	for _, tt := range tests {
		t.Run(tt.req.Verb, func(t *testing.T) {
			r.Reset()
			tt.req.Target = TargetReceiver

			require.NoError(t, c.Dispatch(context.Background(), tt.req))

			assert.Equal(t, tt.want, r.Lines())
		})
	}
}

func TestDispatch_ReceiverMuteToggleFromState(t *testing.T) {
	c := startController(t)
	r := newFakeSession[avr.Event]()
	require.NoError(t, c.AttachReceiver(context.Background(), r))

	pushAVR(t, r, "MUON")
	require.Eventually(t, func() bool { return c.Snapshot().Receiver.Muted }, testTimeout, testTick)
	r.Reset()

	require.NoError(t, c.Dispatch(context.Background(), Request{Target: TargetReceiver, Verb: VerbMuteToggle}))
	assert.Equal(t, []string{"MUOFF"}, r.Lines())
}

func TestDispatch_ReceiverInvalidArguments(t *testing.T) {
	c := startController(t)
	r := newFakeSession[avr.Event]()
	require.NoError(t, c.AttachReceiver(context.Background(), r))
	r.Reset()

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown surround", Request{Verb: VerbSurround, Value: "Stadium"}, ErrInvalidRequest},
		{"quick select range", Request{Verb: VerbQuickSelect, Level: 6}, ErrInvalidRequest},
		{"empty input", Request{Verb: VerbInput, Value: " "}, ErrInvalidRequest},
		{"dynamic volume", Request{Verb: VerbDynamicVolume, Value: "LOUD"}, ErrInvalidRequest},
		{"volume range", Request{Verb: VerbSetVolume, Level: 99}, ErrInvalidRequest},
		{"player verb", Request{Verb: VerbNext}, ErrUnknownVerb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Target = TargetReceiver
			err := c.Dispatch(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, r.Lines())
}

func TestRun_StopClosesSessionsAndRejectsCalls(t *testing.T) {
	c := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	p := newFakeSession[*heos.Response]()
	r := newFakeSession[avr.Event]()
	require.NoError(t, c.AttachPlayer(context.Background(), p))
	require.NoError(t, c.AttachReceiver(context.Background(), r))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(testTimeout):
		t.Fatal("Run did not return")
	}

	assert.True(t, p.closed.Load())
	assert.True(t, r.closed.Load())

	err := c.Dispatch(context.Background(), Request{Target: TargetPlayer, Verb: VerbPlay})
	assert.ErrorIs(t, err, ErrStopped)

	assert.ErrorIs(t, c.Run(context.Background()), ErrStopped)
}

func TestDispatch_RespectsContext(t *testing.T) {
	c := New(Options{}) // never run

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Dispatch(ctx, Request{Target: TargetPlayer, Verb: VerbPlay})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerbs(t *testing.T) {
	player := Verbs(TargetPlayer)
	assert.Contains(t, player, VerbPlayPause)
	assert.Contains(t, player, VerbSelectPlayer)
	assert.Contains(t, player, VerbBrowseInto)
	assert.NotContains(t, player, VerbPowerOn)

	receiver := Verbs(TargetReceiver)
	assert.Contains(t, receiver, VerbQueryStatus)
	assert.Contains(t, receiver, VerbMuteToggle)
	assert.NotContains(t, receiver, VerbPlayPause)

	assert.Empty(t, Verbs("toaster"))
}

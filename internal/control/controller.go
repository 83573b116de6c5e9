package control

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/heoslink/internal/avr"
	"github.com/nerrad567/heoslink/internal/heos"
	"github.com/nerrad567/heoslink/internal/session"
	"github.com/nerrad567/heoslink/internal/state"
)

// Controller defaults.
const (
	// DefaultVolumeStep is the player volume step when none is configured.
	DefaultVolumeStep = 5

	// defaultSubmitTimeout bounds follow-up submissions issued by the loop
	// itself (refreshes, event-driven queries).
	defaultSubmitTimeout = 5 * time.Second

	// queueFetchEnd is the last index requested by queue fetches.
	queueFetchEnd = 100
)

// PlayerSession is the player connection the controller drives. It is
// satisfied by *session.Session[*heos.Response].
type PlayerSession interface {
	Submit(ctx context.Context, line []byte) error
	Events() <-chan session.Notification[*heos.Response]
	Alive() bool
	Close() error
}

// ReceiverSession is the receiver connection the controller drives. It is
// satisfied by *session.Session[avr.Event].
type ReceiverSession interface {
	Submit(ctx context.Context, line []byte) error
	Events() <-chan session.Notification[avr.Event]
	Alive() bool
	Close() error
}

// Logger defines the logging interface used by the controller.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Options configures a Controller.
type Options struct {
	// VolumeStep is the player volume_up/volume_down step (default 5).
	VolumeStep int

	// ReconnectDelay is reported when a session ends. The controller never
	// reconnects by itself.
	ReconnectDelay time.Duration

	// SubmitTimeout bounds submissions the loop issues on its own.
	SubmitTimeout time.Duration

	// Logger is optional.
	Logger Logger
}

// call is a unit of work executed on the loop goroutine.
type call struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	reply chan error
}

// Controller owns the Reconciler and both device sessions. Everything that
// reads or writes unified state runs on the goroutine executing Run, so no
// locking is needed around the Reconciler. Other goroutines interact through
// Dispatch, the Attach methods, Snapshot and Subscribe.
//
// Thread Safety: All exported methods are safe for concurrent use.
type Controller struct {
	opts Options
	rec  *state.Reconciler

	// Owned by the loop goroutine.
	player         PlayerSession
	playerHandle   *heos.Handle
	playerEvents   <-chan session.Notification[*heos.Response]
	receiver       ReceiverSession
	receiverHandle *avr.Handle
	receiverEvents <-chan session.Notification[avr.Event]
	lastActive     int64
	hasActive      bool

	calls    chan call
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	snap   atomic.Pointer[state.Snapshot]
	subsMu sync.Mutex
	subs   map[chan state.Snapshot]struct{}
}

// New creates a Controller. Call Run to start the loop.
func New(opts Options) *Controller {
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = DefaultVolumeStep
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}

	c := &Controller{
		opts:  opts,
		rec:   state.New(),
		calls: make(chan call),
		done:  make(chan struct{}),
		subs:  make(map[chan state.Snapshot]struct{}),
	}
	snap := c.rec.Snapshot()
	c.snap.Store(&snap)
	return c
}

// Run executes the control loop until ctx is cancelled. On return both
// sessions are closed and pending callers get ErrStopped.
//
// Returns:
//   - error: nil on cancellation, ErrStopped if Run was already called
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrStopped
	}
	defer c.stop()

	c.logInfo("control loop started")

	for {
		select {
		case <-ctx.Done():
			c.logInfo("control loop stopping")
			return nil

		case cl := <-c.calls:
			cl.reply <- cl.fn(cl.ctx)

		case n, ok := <-c.playerEvents:
			if !ok {
				c.playerEvents = nil
				continue
			}
			c.handlePlayer(ctx, n)

		case n, ok := <-c.receiverEvents:
			if !ok {
				c.receiverEvents = nil
				continue
			}
			c.handleReceiver(n)
		}

		c.followActive(ctx)
		c.publish()
	}
}

// stop closes both sessions and releases waiting callers.
func (c *Controller) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		if c.player != nil {
			c.player.Close()
		}
		if c.receiver != nil {
			c.receiver.Close()
		}
		c.logInfo("control loop stopped")
	})
}

// do runs fn on the loop goroutine and waits for its result.
func (c *Controller) do(ctx context.Context, fn func(ctx context.Context) error) error {
	cl := call{ctx: ctx, fn: fn, reply: make(chan error, 1)}

	select {
	case c.calls <- cl:
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cl.reply:
		return err
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AttachPlayer makes s the player session, closing any previous one, then
// registers for change events and requests the roster.
func (c *Controller) AttachPlayer(ctx context.Context, s PlayerSession) error {
	return c.do(ctx, func(ctx context.Context) error {
		if c.player != nil && c.player != s {
			c.player.Close()
		}
		c.player = s
		c.playerHandle = heos.NewHandle(s)
		c.playerEvents = s.Events()
		c.hasActive = false

		if err := c.playerHandle.RegisterForEvents(ctx, true); err != nil {
			return err
		}
		return c.playerHandle.GetPlayers(ctx)
	})
}

// AttachReceiver makes s the receiver session, closing any previous one,
// then queries the receiver status.
func (c *Controller) AttachReceiver(ctx context.Context, s ReceiverSession) error {
	return c.do(ctx, func(ctx context.Context) error {
		if c.receiver != nil && c.receiver != s {
			c.receiver.Close()
		}
		c.receiver = s
		c.receiverHandle = avr.NewHandle(s)
		c.receiverEvents = s.Events()

		return c.receiverHandle.QueryStatus(ctx)
	})
}

// Dispatch executes one request on the loop goroutine.
//
// Returns:
//   - error: ErrUnknownVerb, ErrNoActivePlayer, ErrNotConnected,
//     ErrInvalidRequest, ErrStopped, or a submission error
func (c *Controller) Dispatch(ctx context.Context, req Request) error {
	return c.do(ctx, func(ctx context.Context) error {
		err := c.execute(ctx, req)
		if err != nil {
			c.logDebug("request failed", "target", req.Target, "verb", req.Verb, "error", err)
		}
		return err
	})
}

// Snapshot returns the most recently published state.
func (c *Controller) Snapshot() state.Snapshot {
	return *c.snap.Load()
}

// Subscribe returns a channel that always holds the latest snapshot.
// Slow readers skip intermediate states. The returned function
// unsubscribes.
func (c *Controller) Subscribe() (<-chan state.Snapshot, func()) {
	ch := make(chan state.Snapshot, 1)

	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	ch <- *c.snap.Load()
	c.subsMu.Unlock()

	return ch, func() {
		c.subsMu.Lock()
		delete(c.subs, ch)
		c.subsMu.Unlock()
	}
}

// publish stores a fresh snapshot and hands it to every subscriber,
// replacing any value they have not read yet.
func (c *Controller) publish() {
	snap := c.rec.Snapshot()
	c.snap.Store(&snap)

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// handlePlayer folds a player notification into state and issues the
// queries it calls for.
func (c *Controller) handlePlayer(ctx context.Context, n session.Notification[*heos.Response]) {
	c.rec.ApplyPlayer(n)

	switch n.Kind {
	case session.Disconnected, session.Error:
		c.logWarn("player session ended",
			"kind", n.Kind.String(),
			"error", n.Err,
			"reconnect_delay", c.opts.ReconnectDelay.String())
	case session.Message:
		c.followUp(ctx, n.Message)
	}
}

// followUp answers events that carry no state with the matching query.
func (c *Controller) followUp(ctx context.Context, resp *heos.Response) {
	if resp == nil || !resp.IsEvent() || c.playerHandle == nil {
		return
	}

	pid, hasPID := resp.Message().PID()
	active := hasPID && c.rec.IsActive(pid)

	ctx, cancel := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()

	var err error
	switch resp.Event() {
	case heos.EventNowPlayingChanged:
		if active {
			err = c.playerHandle.GetNowPlaying(ctx, pid)
		}
	case heos.EventPlayersChanged:
		err = c.playerHandle.GetPlayers(ctx)
	case heos.EventQueueChanged:
		if active && c.rec.QueueLoaded() {
			err = c.playerHandle.GetQueue(ctx, pid, 0, queueFetchEnd)
		}
	}
	if err != nil {
		c.logDebug("follow-up query failed", "event", resp.Event().String(), "error", err)
	}
}

func (c *Controller) handleReceiver(n session.Notification[avr.Event]) {
	c.rec.ApplyReceiver(n)

	if n.Kind == session.Disconnected || n.Kind == session.Error {
		c.logWarn("receiver session ended",
			"kind", n.Kind.String(),
			"error", n.Err,
			"reconnect_delay", c.opts.ReconnectDelay.String())
	}
}

// followActive refreshes the player state whenever a different player
// becomes active.
func (c *Controller) followActive(ctx context.Context) {
	pid, ok := c.rec.ActivePID()
	if !ok {
		c.hasActive = false
		return
	}
	if c.hasActive && pid == c.lastActive {
		return
	}
	c.lastActive, c.hasActive = pid, true

	if c.playerHandle == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	defer cancel()
	if err := c.playerHandle.RefreshPlayer(ctx, pid); err != nil {
		c.logDebug("player refresh failed", "pid", pid, "error", err)
		return
	}
	c.logInfo("active player changed", "pid", pid)
}

// SetLogger replaces the logger. Call before Run.
func (c *Controller) SetLogger(logger Logger) {
	c.opts.Logger = logger
}

func (c *Controller) logDebug(msg string, keysAndValues ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(msg, keysAndValues...)
	}
}

func (c *Controller) logInfo(msg string, keysAndValues ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Info(msg, keysAndValues...)
	}
}

func (c *Controller) logWarn(msg string, keysAndValues ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Warn(msg, keysAndValues...)
	}
}

package session

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// closeOnce wraps a channel with sync.Once to prevent double-close panics.
type closeOnce struct {
	ch   chan struct{}
	once sync.Once
}

func newCloseOnce() *closeOnce {
	return &closeOnce{ch: make(chan struct{})}
}

func (c *closeOnce) Close() {
	c.once.Do(func() { close(c.ch) })
}

func (c *closeOnce) Done() <-chan struct{} {
	return c.ch
}

// Defaults applied by Dial.
const (
	// defaultConnectTimeout is the maximum time to wait for the TCP dial.
	defaultConnectTimeout = 10 * time.Second

	// defaultWriteTimeout bounds a single write and flush.
	defaultWriteTimeout = 5 * time.Second

	// defaultQueueSize is the outbound command queue depth.
	defaultQueueSize = 100

	// defaultEventBuffer is the notification channel depth.
	defaultEventBuffer = 256

	// defaultMaxLineSize caps one inbound line. Large browse and queue
	// payloads arrive as a single JSON line.
	defaultMaxLineSize = 1 << 20
)

// Kind identifies a session notification.
type Kind int

// Notification kinds.
const (
	// Connected is always the first notification of a session.
	Connected Kind = iota

	// Message carries one decoded inbound line.
	Message

	// Disconnected is emitted when the peer closes the connection.
	Disconnected

	// Error is emitted when a read fails. The session is over.
	Error
)

// String returns a short label for logs.
func (k Kind) String() string {
	switch k {
	case Connected:
		return "connected"
	case Message:
		return "message"
	case Disconnected:
		return "disconnected"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is one item on a session's event channel.
type Notification[T any] struct {
	Kind    Kind
	Message T
	Err     error
}

// DecodeFunc turns one raw line into a message. Returning false drops the
// line: malformed input never ends a session.
type DecodeFunc[T any] func(line []byte) (T, bool)

// Logger interface for optional logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Config holds the settings for one device connection.
type Config struct {
	// Name labels the session in logs ("heos", "avr").
	Name string

	// Host and Port of the device. Port is the device kind's well-known
	// control port.
	Host string
	Port int

	// ConnectTimeout bounds the dial. Default: 10 seconds.
	ConnectTimeout time.Duration

	// WriteTimeout bounds each write. Default: 5 seconds.
	WriteTimeout time.Duration

	// QueueSize is the outbound queue depth. Default: 100.
	QueueSize int

	// EventBuffer is the notification channel depth. Default: 256.
	EventBuffer int

	// MaxLineSize caps one inbound line in bytes. Longer lines are
	// discarded up to their terminator and counted as dropped. Default: 1 MiB.
	MaxLineSize int

	// Interval is the minimum spacing between writes. Zero disables pacing.
	Interval time.Duration

	// Logger is optional.
	Logger Logger
}

// Stats holds operational statistics.
type Stats struct {
	LinesRx      uint64
	LinesTx      uint64
	LinesDropped uint64 // Lines the decoder rejected or that exceeded MaxLineSize
	ErrorsTotal  uint64
	LastActivity time.Time
	Connected    bool
}

// Session owns one TCP connection to one device. A read loop decodes
// inbound lines and emits notifications; a write loop drains the command
// queue and is the only code that touches the socket's write side.
//
// Thread Safety:
//   - Submit, Stats, Alive and Close are safe for concurrent use.
//   - Notifications are delivered in socket order on one channel, which is
//     closed when the read loop exits.
//
// There is no reconnection. Once Disconnected or Error has been emitted,
// the session is finished and the caller decides whether to dial again.
type Session[T any] struct {
	cfg    Config
	conn   net.Conn
	decode DecodeFunc[T]

	queue   chan []byte
	events  chan Notification[T]
	limiter *rate.Limiter

	// Serialised write side
	writeMu sync.Mutex
	writer  *bufio.Writer

	// Lifetime
	ctx          context.Context
	cancel       context.CancelFunc
	disconnected *closeOnce // read loop finished
	writerDone   *closeOnce // write loop finished
	connOnce     sync.Once
	wg           sync.WaitGroup

	// Logger (optional)
	logger   Logger
	loggerMu sync.RWMutex

	// Statistics (atomic for performance)
	linesRx      atomic.Uint64
	linesTx      atomic.Uint64
	linesDropped atomic.Uint64
	errorsTotal  atomic.Uint64
	lastActivity atomic.Int64 // Unix timestamp
}

// Dial connects to cfg.Host:cfg.Port and starts both loops.
//
// Parameters:
//   - ctx: Context for the dial only; the session outlives it
//   - cfg: Connection configuration
//   - decode: Codec decode step applied to every non-blank line
//
// Returns:
//   - *Session[T]: Running session; its first notification is Connected
//   - error: ErrInvalidConfig or ErrConnectionFailed
func Dial[T any](ctx context.Context, cfg Config, decode DecodeFunc[T]) (*Session[T], error) {
	if cfg.Host == "" || cfg.Port <= 0 || decode == nil {
		return nil, fmt.Errorf("%w: host, port and decoder are required", ErrInvalidConfig)
	}
	applyDefaults(&cfg)

	address := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnectionFailed, address, err)
	}

	return start(conn, cfg, decode), nil
}

// start wires an established connection into a running session.
func start[T any](conn net.Conn, cfg Config, decode DecodeFunc[T]) *Session[T] {
	s := &Session[T]{
		cfg:          cfg,
		conn:         conn,
		decode:       decode,
		queue:        make(chan []byte, cfg.QueueSize),
		events:       make(chan Notification[T], cfg.EventBuffer),
		writer:       bufio.NewWriter(conn),
		disconnected: newCloseOnce(),
		writerDone:   newCloseOnce(),
		logger:       cfg.Logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	if cfg.Interval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}
	s.lastActivity.Store(time.Now().Unix())

	s.wg.Add(2)
	go s.readLoop()
	go s.writeLoop()

	s.logInfo("session connected", "address", conn.RemoteAddr().String())
	return s
}

func applyDefaults(cfg *Config) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.MaxLineSize <= 0 {
		cfg.MaxLineSize = defaultMaxLineSize
	}
	if cfg.Name == "" {
		cfg.Name = "device"
	}
}

// Events returns the notification channel. It is closed after the final
// Disconnected or Error notification, or on Close.
func (s *Session[T]) Events() <-chan Notification[T] {
	return s.events
}

// Name returns the configured session label.
func (s *Session[T]) Name() string {
	return s.cfg.Name
}

// Submit queues one encoded line for the write loop. It does not wait for
// the write: a write failure is observed later through the read loop.
//
// Parameters:
//   - ctx: Bounds the wait when the queue is full
//   - line: Encoded command including its terminator; ownership passes to
//     the session
//
// Returns:
//   - error: ErrClosed after Close, ErrDisconnected when no writer is live,
//     or the context error
func (s *Session[T]) Submit(ctx context.Context, line []byte) error {
	if err := s.liveErr(); err != nil {
		return err
	}

	select {
	case s.queue <- line:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	case <-s.disconnected.Done():
		return ErrDisconnected
	case <-s.writerDone.Done():
		return ErrDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// liveErr reports why submission is impossible, or nil.
func (s *Session[T]) liveErr() error {
	select {
	case <-s.ctx.Done():
		return ErrClosed
	case <-s.disconnected.Done():
		return ErrDisconnected
	case <-s.writerDone.Done():
		return ErrDisconnected
	default:
		return nil
	}
}

// Alive reports whether commands can still be submitted.
func (s *Session[T]) Alive() bool {
	return s.liveErr() == nil
}

// readLoop reads lines until EOF, a read error or Close.
func (s *Session[T]) readLoop() {
	defer s.wg.Done()
	defer close(s.events)
	defer s.closeConn()
	defer s.disconnected.Close()

	if !s.emit(Notification[T]{Kind: Connected}) {
		return
	}

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, min(4096, s.cfg.MaxLineSize)), s.cfg.MaxLineSize)
	scanner.Split(boundedLines(s.cfg.MaxLineSize, func() {
		s.linesDropped.Add(1)
		s.logDebug("dropped oversized line", "max_line_size", s.cfg.MaxLineSize)
	}))

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		s.linesRx.Add(1)
		s.lastActivity.Store(time.Now().Unix())

		line := make([]byte, len(raw))
		copy(line, raw)

		msg, ok := s.decode(line)
		if !ok {
			s.linesDropped.Add(1)
			s.logDebug("dropped undecodable line", "line", string(line))
			continue
		}
		if !s.emit(Notification[T]{Kind: Message, Message: msg}) {
			return
		}
	}

	if s.isClosed() {
		return
	}

	if err := scanner.Err(); err != nil {
		s.errorsTotal.Add(1)
		s.logError("read failed", err)
		s.emit(Notification[T]{Kind: Error, Err: fmt.Errorf("read error: %w", err)})
		return
	}

	s.logInfo("peer closed connection")
	s.emit(Notification[T]{Kind: Disconnected})
}

// writeLoop drains the queue. A write error ends it without retry.
func (s *Session[T]) writeLoop() {
	defer s.wg.Done()
	defer s.writerDone.Close()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.disconnected.Done():
			return
		case line := <-s.queue:
			if s.limiter != nil {
				if err := s.limiter.Wait(s.ctx); err != nil {
					return
				}
			}
			if err := s.write(line); err != nil {
				if !s.isClosed() {
					s.errorsTotal.Add(1)
					s.logError("write failed, stopping writer", err)
				}
				return
			}
		}
	}
}

// write sends and flushes one line under the write lock.
func (s *Session[T]) write(line []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	if _, err := s.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	s.linesTx.Add(1)
	s.lastActivity.Store(time.Now().Unix())
	s.logDebug("sent", "line", string(bytes.TrimRight(line, "\r\n")))
	return nil
}

// emit delivers a notification unless the session is closed first.
func (s *Session[T]) emit(n Notification[T]) bool {
	select {
	case s.events <- n:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Session[T]) closeConn() {
	s.connOnce.Do(func() {
		s.conn.Close()
	})
}

// isClosed returns true if Close has been called.
func (s *Session[T]) isClosed() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// Close tears the session down: both loops stop, queued commands are
// discarded and the event channel is closed. Safe to call multiple times.
//
// Returns:
//   - error: nil (closing is best-effort)
func (s *Session[T]) Close() error {
	alreadyClosed := s.isClosed()
	s.cancel()
	s.closeConn()
	s.wg.Wait()

	if !alreadyClosed {
		s.logInfo("session closed")
	}
	return nil
}

// Stats returns current operational statistics.
func (s *Session[T]) Stats() Stats {
	return Stats{
		LinesRx:      s.linesRx.Load(),
		LinesTx:      s.linesTx.Load(),
		LinesDropped: s.linesDropped.Load(),
		ErrorsTotal:  s.errorsTotal.Load(),
		LastActivity: time.Unix(s.lastActivity.Load(), 0),
		Connected:    s.Alive(),
	}
}

// SetLogger sets the logger for this session.
func (s *Session[T]) SetLogger(logger Logger) {
	s.loggerMu.Lock()
	s.logger = logger
	s.loggerMu.Unlock()
}

func (s *Session[T]) getLogger() Logger {
	s.loggerMu.RLock()
	defer s.loggerMu.RUnlock()
	return s.logger
}

// logDebug logs a debug message if logger is set.
func (s *Session[T]) logDebug(msg string, keysAndValues ...any) {
	if logger := s.getLogger(); logger != nil {
		logger.Debug(msg, append([]any{"session", s.cfg.Name}, keysAndValues...)...)
	}
}

// logInfo logs an info message if logger is set.
func (s *Session[T]) logInfo(msg string, keysAndValues ...any) {
	if logger := s.getLogger(); logger != nil {
		logger.Info(msg, append([]any{"session", s.cfg.Name}, keysAndValues...)...)
	}
}

// logError logs an error message if logger is set.
func (s *Session[T]) logError(msg string, err error) {
	if logger := s.getLogger(); logger != nil {
		logger.Error(msg, "session", s.cfg.Name, "error", err)
	}
}

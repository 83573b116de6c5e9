package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/heoslink/internal/control"
	"github.com/nerrad567/heoslink/internal/infrastructure/mqtt"
	"github.com/nerrad567/heoslink/internal/state"
)

// Bridge operation constants.
const (
	// commandTimeout bounds one dispatched command.
	commandTimeout = 5 * time.Second

	// defaultQoS is used for state, status and acks.
	defaultQoS = 1
)

// State topic parts under <prefix>/state/.
const (
	PartPlayer   = "player"
	PartReceiver = "receiver"
	PartRoster   = "roster"
)

// MQTTClient is the interface for MQTT operations.
// It is satisfied by *mqtt.Client and allows mocking in tests.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// Unsubscribe removes a subscription made with Subscribe.
	Unsubscribe(topic string) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// Controller is the part of the control loop the bridge drives.
// It is satisfied by *control.Controller.
type Controller interface {
	Dispatch(ctx context.Context, req control.Request) error
	Subscribe() (<-chan state.Snapshot, func())
}

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Options holds configuration for creating a bridge.
type Options struct {
	// MQTTClient is the broker connection. Required.
	MQTTClient MQTTClient

	// Controller is the control loop. Required.
	Controller Controller

	// Topics roots every topic. The zero value uses the default prefix.
	Topics mqtt.Topics

	// QoS for state, status and acks (default 1).
	QoS byte

	// Logger is optional structured logger.
	Logger Logger
}

// Bridge mirrors unified state onto MQTT and turns MQTT commands into
// control requests. It handles:
//   - Publishing retained player, receiver and roster state on change
//   - Publishing the latest status message
//   - Dispatching commands from <prefix>/command/{player,receiver}
//   - Acknowledging every command on <prefix>/ack/{player,receiver}
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	mqtt       MQTTClient
	controller Controller
	topics     mqtt.Topics
	qos        byte

	// Last published payload per topic, for change detection.
	stateCache map[string][]byte
	lastSnap   *state.Snapshot
	publishMu  sync.Mutex

	// Bridge-level context, cancelled when Run returns.
	ctx       context.Context
	ctxCancel context.CancelFunc
	running   atomic.Bool

	commandsRx     atomic.Uint64
	commandsFailed atomic.Uint64
	publishes      atomic.Uint64

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates a bridge. Call Run to begin operation.
func New(opts Options) (*Bridge, error) {
	if opts.MQTTClient == nil {
		return nil, fmt.Errorf("%w: MQTT client is required", ErrMissingDependency)
	}
	if opts.Controller == nil {
		return nil, fmt.Errorf("%w: controller is required", ErrMissingDependency)
	}
	if opts.QoS == 0 {
		opts.QoS = defaultQoS
	}

	ctx, ctxCancel := context.WithCancel(context.Background())

	return &Bridge{
		mqtt:       opts.MQTTClient,
		controller: opts.Controller,
		topics:     opts.Topics,
		qos:        opts.QoS,
		stateCache: make(map[string][]byte),
		ctx:        ctx,
		ctxCancel:  ctxCancel,
		logger:     opts.Logger,
	}, nil
}

// Run subscribes to command topics and publishes state until ctx is
// cancelled. A bridge runs once.
func (b *Bridge) Run(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer b.ctxCancel()

	commandTopic := b.topics.AllCommands()
	if err := b.mqtt.Subscribe(commandTopic, b.qos, b.handleMQTTMessage); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	b.logInfo("subscribed to commands", "topic", commandTopic)
	defer func() {
		if err := b.mqtt.Unsubscribe(commandTopic); err != nil {
			b.logDebug("unsubscribe from commands failed", "topic", commandTopic, "error", err)
		}
	}()

	snaps, unsubscribe := b.controller.Subscribe()
	defer unsubscribe()

	b.logInfo("bridge started")
	for {
		select {
		case <-ctx.Done():
			b.logInfo("bridge stopped")
			return nil
		case snap := <-snaps:
			b.publishSnapshot(snap)
		}
	}
}

// Resync forgets what was published and publishes the last snapshot again.
// Install it as the MQTT on-connect callback so state survives a broker
// that lost its retained messages.
func (b *Bridge) Resync() {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.stateCache = make(map[string][]byte)
	if b.lastSnap != nil {
		b.publishLocked(*b.lastSnap)
	}
}

// publishSnapshot publishes every part of snap that changed.
func (b *Bridge) publishSnapshot(snap state.Snapshot) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.lastSnap = &snap
	b.publishLocked(snap)
}

func (b *Bridge) publishLocked(snap state.Snapshot) {
	b.publishJSON(b.topics.State(PartPlayer), newPlayerMessage(snap))
	b.publishJSON(b.topics.State(PartReceiver), snap.Receiver)
	b.publishJSON(b.topics.State(PartRoster), newRosterMessage(snap))
	if snap.Status != "" {
		b.publishJSON(b.topics.Status(), StatusMessage{Message: snap.Status})
	}
}

// publishJSON publishes v as retained JSON unless it matches what was last
// published on topic. Failed publishes are retried with the next snapshot.
func (b *Bridge) publishJSON(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		b.logError("failed to marshal state", err)
		return
	}
	if b.stateUnchanged(topic, payload) {
		return
	}
	if !b.mqtt.IsConnected() {
		return
	}
	if err := b.mqtt.Publish(topic, payload, b.qos, true); err != nil {
		b.logError("failed to publish state", err)
		return
	}
	b.stateCache[topic] = payload
	b.publishes.Add(1)
	b.logDebug("state published", "topic", topic)
}

// stateUnchanged reports whether payload matches the cached payload for
// topic. Callers hold publishMu.
func (b *Bridge) stateUnchanged(topic string, payload []byte) bool {
	cached, ok := b.stateCache[topic]
	return ok && bytes.Equal(cached, payload)
}

// handleMQTTMessage turns one command message into a control request and
// acknowledges it. The returned error is logged by the MQTT client.
func (b *Bridge) handleMQTTMessage(topic string, payload []byte) error {
	target, ok := b.topics.CommandTarget(topic)
	if !ok {
		return fmt.Errorf("%w: topic %s", ErrUnknownTarget, topic)
	}
	b.commandsRx.Add(1)

	var cmd CommandMessage
	if err := json.Unmarshal(payload, &cmd); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		b.publishAck(target, cmd, err)
		return err
	}

	t := control.Target(target)
	if t != control.TargetPlayer && t != control.TargetReceiver {
		err := fmt.Errorf("%w: %s", ErrUnknownTarget, target)
		b.publishAck(target, cmd, err)
		return err
	}
	if cmd.Verb == "" {
		err := fmt.Errorf("%w: verb is required", ErrInvalidCommand)
		b.publishAck(target, cmd, err)
		return err
	}

	b.logInfo("received command",
		"command_id", cmd.ID,
		"target", target,
		"verb", cmd.Verb)

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	err := b.controller.Dispatch(ctx, cmd.Request(t))
	b.publishAck(target, cmd, err)
	return err
}

// publishAck publishes a command acknowledgment.
func (b *Bridge) publishAck(target string, cmd CommandMessage, err error) {
	if err != nil {
		b.commandsFailed.Add(1)
	}

	payload, mErr := json.Marshal(NewAckMessage(cmd, err))
	if mErr != nil {
		b.logError("failed to marshal ack", mErr)
		return
	}
	if pErr := b.mqtt.Publish(b.topics.Ack(target), payload, b.qos, false); pErr != nil {
		b.logError("failed to publish ack", pErr)
	}
}

// Metrics contains bridge counters.
type Metrics struct {
	Connected      bool
	CommandsRx     uint64
	CommandsFailed uint64
	Publishes      uint64
}

// GetMetrics returns current bridge counters.
func (b *Bridge) GetMetrics() Metrics {
	return Metrics{
		Connected:      b.mqtt.IsConnected(),
		CommandsRx:     b.commandsRx.Load(),
		CommandsFailed: b.commandsFailed.Load(),
		Publishes:      b.publishes.Load(),
	}
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	b.loggerMu.Lock()
	b.logger = logger
	b.loggerMu.Unlock()
}

// logInfo logs an info message if logger is set.
func (b *Bridge) logInfo(msg string, keysAndValues ...any) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()

	if logger != nil {
		logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if logger is set.
func (b *Bridge) logError(msg string, err error) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()

	if logger != nil {
		logger.Error(msg, "error", err)
	}
}

// logDebug logs a debug message if logger is set.
func (b *Bridge) logDebug(msg string, keysAndValues ...any) {
	b.loggerMu.RLock()
	logger := b.logger
	b.loggerMu.RUnlock()

	if logger != nil {
		logger.Debug(msg, keysAndValues...)
	}
}

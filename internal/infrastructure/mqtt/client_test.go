package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/heoslink/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
// Tests in this file never reach a broker; see integration_test.go.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "heoslink-test",
			TLS:      false,
		},
		QoS:         1,
		TopicPrefix: "heoslink",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnectedClient returns a Client that never connected.
func disconnectedClient() *Client {
	return &Client{
		cfg:           testConfig(),
		topics:        NewTopics("heoslink"),
		subscriptions: make(map[string]subscription),
	}
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	err := client.Close()
	if err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := disconnectedClient()
	if client.IsConnected() {
		t.Error("IsConnected() = true for never-connected client")
	}
}

func TestSubscriptionCount_Empty(t *testing.T) {
	client := disconnectedClient()
	if client.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", client.SubscriptionCount())
	}
	if client.HasSubscription("heoslink/command/+") {
		t.Error("HasSubscription() = true for empty client")
	}
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestPublishValidation(t *testing.T) {
	client := disconnectedClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid QoS", "heoslink/status", []byte("x"), 3, ErrInvalidQoS},
		{"payload too large", "heoslink/status", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "heoslink/status", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	client := disconnectedClient()
	handler := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{"empty topic", "", 1, handler, ErrInvalidTopic},
		{"invalid QoS", "heoslink/command/+", 5, handler, ErrInvalidQoS},
		{"nil handler", "heoslink/command/+", 1, nil, ErrSubscribeFailed},
		{"not connected", "heoslink/command/+", 1, handler, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Subscribe(tt.topic, tt.qos, tt.handler)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if client.SubscriptionCount() != 0 {
		t.Error("failed subscriptions must not be tracked")
	}
}

func TestUnsubscribeValidation(t *testing.T) {
	client := disconnectedClient()

	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Unsubscribe("heoslink/command/+"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "user"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want tcp://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != "heoslink-test" {
		t.Errorf("ClientID = %q, want heoslink-test", opts.ClientID)
	}
	if opts.Username != "user" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
	if opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("MaxReconnectInterval = %v, want 5s", opts.MaxReconnectInterval)
	}
	if opts.TLSConfig != nil && opts.TLSConfig.MinVersion != 0 {
		t.Error("TLS configured without cfg.Broker.TLS")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS minimum version not applied")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := pahomqtt.NewClientOptions()
	configureLWT(opts, NewTopics("living"), "heoslink-1")

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false")
	}
	if opts.WillTopic != "living/system/status" {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}
	if !opts.WillRetained || opts.WillQos != 1 {
		t.Error("will must be retained with QoS 1")
	}
	if !strings.Contains(string(opts.WillPayload), `"reason":"unexpected_disconnect"`) {
		t.Errorf("WillPayload = %s", opts.WillPayload)
	}
}

func TestStatusPayloads(t *testing.T) {
	var online SystemStatus
	if err := json.Unmarshal(onlinePayload("heoslink-1"), &online); err != nil {
		t.Fatalf("unmarshal online: %v", err)
	}
	if online.Status != StatusOnline || online.ClientID != "heoslink-1" || online.Reason != "" {
		t.Errorf("online = %+v", online)
	}
	if online.Timestamp.IsZero() {
		t.Error("online timestamp missing")
	}

	offline := string(offlinePayload("heoslink-1"))
	if !strings.Contains(offline, `"status":"offline"`) || !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload = %s", offline)
	}
}

// =============================================================================
// Handler Wrapping Tests
// =============================================================================

// fakeMessage implements pahomqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// mockLogger implements Logger interface for testing.
type mockLogger struct {
	errors []string
	warns  []string
	mu     sync.Mutex
}

func (l *mockLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

func (l *mockLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func TestWrapHandler_DeliversMessage(t *testing.T) {
	client := disconnectedClient()

	var gotTopic, gotPayload string
	wrapped := client.wrapHandler(func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, string(payload)
		return nil
	})
	wrapped(nil, fakeMessage{topic: "heoslink/command/player", payload: []byte(`{"verb":"play"}`)})

	if gotTopic != "heoslink/command/player" || gotPayload != `{"verb":"play"}` {
		t.Errorf("handler got %q %q", gotTopic, gotPayload)
	}
}

func TestWrapHandler_RecoversPanic(t *testing.T) {
	client := disconnectedClient()
	logger := &mockLogger{}
	client.SetLogger(logger)

	wrapped := client.wrapHandler(func(string, []byte) error {
		panic("boom")
	})
	wrapped(nil, fakeMessage{topic: "heoslink/command/player"})

	if len(logger.errors) != 1 {
		t.Errorf("errors logged = %d, want 1", len(logger.errors))
	}
}

func TestWrapHandler_LogsHandlerError(t *testing.T) {
	client := disconnectedClient()
	logger := &mockLogger{}
	client.SetLogger(logger)

	wrapped := client.wrapHandler(func(string, []byte) error {
		return errors.New("handler error")
	})
	wrapped(nil, fakeMessage{topic: "heoslink/command/player"})

	if len(logger.warns) != 1 {
		t.Errorf("warnings logged = %d, want 1", len(logger.warns))
	}

	client.SetLogger(nil)
	if client.getLogger() != nil {
		t.Error("getLogger() should be nil after SetLogger(nil)")
	}
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	topics := NewTopics("living")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"State", topics.State("player"), "living/state/player"},
		{"Status", topics.Status(), "living/status"},
		{"Command", topics.Command("receiver"), "living/command/receiver"},
		{"Ack", topics.Ack("receiver"), "living/ack/receiver"},
		{"SystemStatus", topics.SystemStatus(), "living/system/status"},
		{"AllCommands", topics.AllCommands(), "living/command/+"},
		{"AllStates", topics.AllStates(), "living/state/+"},
		{"AllTopics", topics.AllTopics(), "living/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestNewTopics_Prefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "heoslink/status"},
		{"  ", "heoslink/status"},
		{"/home/av/", "home/av/status"},
		{"den", "den/status"},
	}

	for _, tt := range tests {
		if got := NewTopics(tt.prefix).Status(); got != tt.want {
			t.Errorf("NewTopics(%q).Status() = %q, want %q", tt.prefix, got, tt.want)
		}
	}

	if got := (Topics{}).Status(); got != "heoslink/status" {
		t.Errorf("zero Topics Status() = %q", got)
	}
}

func TestCommandTarget(t *testing.T) {
	topics := NewTopics("heoslink")

	tests := []struct {
		topic  string
		want   string
		wantOK bool
	}{
		{"heoslink/command/player", "player", true},
		{"heoslink/command/receiver", "receiver", true},
		{"heoslink/command/", "", false},
		{"heoslink/command/player/extra", "", false},
		{"heoslink/state/player", "", false},
		{"other/command/player", "", false},
	}

	for _, tt := range tests {
		got, ok := topics.CommandTarget(tt.topic)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CommandTarget(%q) = %q, %v; want %q, %v", tt.topic, got, ok, tt.want, tt.wantOK)
		}
	}
}

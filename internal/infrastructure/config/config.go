package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for heoslink.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Control    ControlConfig    `yaml:"control"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConnectionConfig contains device connection settings.
type ConnectionConfig struct {
	// Host is the player address. Empty means run discovery.
	Host string `yaml:"host"`

	// ReceiverHost is the receiver address. Empty means the player host
	// (receivers with a built-in player expose both ports on one address).
	ReceiverHost string `yaml:"receiver_host"`

	// PlayerPort and ReceiverPort are the control ports (1255 and 23).
	PlayerPort   int `yaml:"player_port"`
	ReceiverPort int `yaml:"receiver_port"`

	// DiscoveryTimeout is the discovery window in seconds.
	DiscoveryTimeout int `yaml:"discovery_timeout"`

	// ReconnectDelay is advisory only: the core never reconnects by itself.
	ReconnectDelay int `yaml:"reconnect_delay"`

	// ConnectTimeout bounds a single dial attempt, in seconds.
	ConnectTimeout int `yaml:"connect_timeout"`

	// ReceiverCommandIntervalMS is the minimum spacing between receiver
	// commands in milliseconds. 0 disables pacing.
	ReceiverCommandIntervalMS int `yaml:"receiver_command_interval_ms"`
}

// ControlConfig contains command facade settings.
type ControlConfig struct {
	VolumeStep int `yaml:"volume_step"`
}

// DiscoveryConfig contains network discovery settings.
type DiscoveryConfig struct {
	MDNS        bool   `yaml:"mdns"`
	SSDPAddress string `yaml:"ssdp_address"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when the file does not exist
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEOSLINK_KEY
// For example: HEOSLINK_HOST, HEOSLINK_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file: defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Connection: ConnectionConfig{
			PlayerPort:                1255,
			ReceiverPort:              23,
			DiscoveryTimeout:          5,
			ReconnectDelay:            3,
			ConnectTimeout:            10,
			ReceiverCommandIntervalMS: 50,
		},
		Control: ControlConfig{
			VolumeStep: 5,
		},
		Discovery: DiscoveryConfig{
			SSDPAddress: "239.255.255.250:1900",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "heoslink",
			},
			QoS:         1,
			TopicPrefix: "heoslink",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEOSLINK_HOST"); v != "" {
		cfg.Connection.Host = v
	}
	if v := os.Getenv("HEOSLINK_RECEIVER_HOST"); v != "" {
		cfg.Connection.ReceiverHost = v
	}
	if v := os.Getenv("HEOSLINK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// MQTT
	if v := os.Getenv("HEOSLINK_MQTT_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = enabled
		}
	}
	if v := os.Getenv("HEOSLINK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HEOSLINK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HEOSLINK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Connection.PlayerPort < 1 || c.Connection.PlayerPort > 65535 {
		errs = append(errs, "connection.player_port must be between 1 and 65535")
	}
	if c.Connection.ReceiverPort < 1 || c.Connection.ReceiverPort > 65535 {
		errs = append(errs, "connection.receiver_port must be between 1 and 65535")
	}
	if c.Connection.DiscoveryTimeout < 1 {
		errs = append(errs, "connection.discovery_timeout must be at least 1 second")
	}
	if c.Connection.ReconnectDelay < 0 {
		errs = append(errs, "connection.reconnect_delay must not be negative")
	}
	if c.Connection.ConnectTimeout < 1 {
		errs = append(errs, "connection.connect_timeout must be at least 1 second")
	}
	if c.Connection.ReceiverCommandIntervalMS < 0 {
		errs = append(errs, "connection.receiver_command_interval_ms must not be negative")
	}

	if c.Control.VolumeStep < 1 || c.Control.VolumeStep > 100 {
		errs = append(errs, "control.volume_step must be between 1 and 100")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
		if strings.TrimSpace(c.MQTT.TopicPrefix) == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// PlayerHost returns the configured player host (may be empty).
func (c *Config) PlayerHost() string {
	return strings.TrimSpace(c.Connection.Host)
}

// ReceiverHostOr returns the configured receiver host, falling back to the
// given player host when none is set.
func (c *Config) ReceiverHostOr(playerHost string) string {
	if h := strings.TrimSpace(c.Connection.ReceiverHost); h != "" {
		return h
	}
	return playerHost
}

// DiscoveryTimeout returns the discovery window as a Duration.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.Connection.DiscoveryTimeout) * time.Second
}

// ReconnectDelay returns the advisory reconnect delay as a Duration.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Connection.ReconnectDelay) * time.Second
}

// ConnectTimeout returns the per-dial timeout as a Duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Connection.ConnectTimeout) * time.Second
}

// ReceiverCommandInterval returns the receiver write pacing interval.
func (c *Config) ReceiverCommandInterval() time.Duration {
	return time.Duration(c.Connection.ReceiverCommandIntervalMS) * time.Millisecond
}

// heoslink - HEOS player and Denon receiver control core
//
// This is the main entry point for heoslink. It connects to a HEOS player
// (JSON over TCP 1255) and a Denon/Marantz receiver (ASCII over TCP 23),
// keeps one unified state for both, and optionally mirrors that state onto
// an MQTT broker so home automation systems can read and drive it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/heoslink/internal/avr"
	"github.com/nerrad567/heoslink/internal/bridge"
	"github.com/nerrad567/heoslink/internal/control"
	"github.com/nerrad567/heoslink/internal/discovery"
	"github.com/nerrad567/heoslink/internal/heos"
	"github.com/nerrad567/heoslink/internal/infrastructure/config"
	"github.com/nerrad567/heoslink/internal/infrastructure/logging"
	"github.com/nerrad567/heoslink/internal/infrastructure/mqtt"
	"github.com/nerrad567/heoslink/internal/session"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// errNoDevice is returned when neither device could be reached.
var errNoDevice = errors.New("no device reachable")

type (
	playerSession   = session.Session[*heos.Response]
	receiverSession = session.Session[avr.Event]
)

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting heoslink",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	playerHost, receiverHost, err := resolveHosts(ctx, cfg, log)
	if err != nil {
		return err
	}

	player, receiver, err := connectDevices(ctx, cfg, playerHost, receiverHost, log)
	if err != nil {
		return err
	}

	ctrl := control.New(control.Options{
		VolumeStep:     cfg.Control.VolumeStep,
		ReconnectDelay: cfg.ReconnectDelay(),
		Logger:         log.Component("control"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx)
	})

	if err := attachDevices(gctx, cfg, ctrl, player, receiver); err != nil {
		log.Warn("initial queries failed", "error", err)
	}

	if cfg.MQTT.Enabled {
		mqttClient, err := startBridge(gctx, g, cfg, ctrl, log)
		if err != nil {
			// Fail the group so the loop stops and closes the sessions.
			g.Go(func() error { return err })
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
		}
	}

	log.Info("heoslink started")

	err = g.Wait()
	logSessionStats(log, player, receiver)
	if err != nil {
		return err
	}

	log.Info("heoslink stopped")
	return nil
}

// getConfigPath returns the config file path from environment or default.
func getConfigPath() string {
	if path := os.Getenv("HEOSLINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// resolveHosts returns the player and receiver addresses. An empty player
// host in the configuration triggers discovery; the receiver falls back to
// the player's address.
func resolveHosts(ctx context.Context, cfg *config.Config, log *logging.Logger) (string, string, error) {
	playerHost := cfg.PlayerHost()
	if playerHost == "" {
		d := discovery.New(discovery.Options{
			Address: cfg.Discovery.SSDPAddress,
			MDNS:    cfg.Discovery.MDNS,
			Logger:  log.Component("discovery"),
		})
		host, err := d.DiscoverFirst(ctx, cfg.DiscoveryTimeout())
		switch {
		case err == nil:
			playerHost = host
			log.Info("player discovered", "host", host)
		case cfg.ReceiverHostOr("") != "":
			log.Warn("player discovery failed", "error", err)
		default:
			return "", "", fmt.Errorf("resolving player host: %w", err)
		}
	}

	return playerHost, cfg.ReceiverHostOr(playerHost), nil
}

// connectDevices dials both devices concurrently. A failure on one side is
// logged and leaves that session nil; failing on both is an error.
func connectDevices(ctx context.Context, cfg *config.Config, playerHost, receiverHost string, log *logging.Logger) (*playerSession, *receiverSession, error) {
	var (
		player   *playerSession
		receiver *receiverSession
	)

	g, gctx := errgroup.WithContext(ctx)

	if playerHost != "" {
		g.Go(func() error {
			s, err := session.Dial(gctx, session.Config{
				Name:           "heos",
				Host:           playerHost,
				Port:           cfg.Connection.PlayerPort,
				ConnectTimeout: cfg.ConnectTimeout(),
				Logger:         log.Component("session").With("device", "heos"),
			}, heos.Decode)
			if err != nil {
				log.Error("player connection failed", "host", playerHost, "error", err)
				return nil
			}
			log.Info("player connected", "host", playerHost)
			player = s
			return nil
		})
	}

	if receiverHost != "" {
		g.Go(func() error {
			s, err := session.Dial(gctx, session.Config{
				Name:           "avr",
				Host:           receiverHost,
				Port:           cfg.Connection.ReceiverPort,
				ConnectTimeout: cfg.ConnectTimeout(),
				Interval:       cfg.ReceiverCommandInterval(),
				Logger:         log.Component("session").With("device", "avr"),
			}, avr.Decode)
			if err != nil {
				log.Error("receiver connection failed", "host", receiverHost, "error", err)
				return nil
			}
			log.Info("receiver connected", "host", receiverHost)
			receiver = s
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // both dials log and swallow their errors

	if player == nil && receiver == nil {
		return nil, nil, fmt.Errorf("%w: player %q, receiver %q", errNoDevice, playerHost, receiverHost)
	}
	return player, receiver, nil
}

// attachDevices hands the connected sessions to the control loop.
func attachDevices(ctx context.Context, cfg *config.Config, ctrl *control.Controller, player *playerSession, receiver *receiverSession) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	var errs []error
	if player != nil {
		if err := ctrl.AttachPlayer(ctx, player); err != nil {
			errs = append(errs, fmt.Errorf("attach player: %w", err))
		}
	}
	if receiver != nil {
		if err := ctrl.AttachReceiver(ctx, receiver); err != nil {
			errs = append(errs, fmt.Errorf("attach receiver: %w", err))
		}
	}
	return errors.Join(errs...)
}

// startBridge connects to the broker and runs the state bridge in g.
func startBridge(ctx context.Context, g *errgroup.Group, cfg *config.Config, ctrl *control.Controller, log *logging.Logger) (*mqtt.Client, error) {
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	mqttClient.SetLogger(log.Component("mqtt"))
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	b, err := bridge.New(bridge.Options{
		MQTTClient: mqttClient,
		Controller: ctrl,
		Topics:     mqttClient.Topics(),
		QoS:        byte(cfg.MQTT.QoS),
		Logger:     log.Component("bridge"),
	})
	if err != nil {
		_ = mqttClient.Close()
		return nil, fmt.Errorf("creating bridge: %w", err)
	}
	mqttClient.SetOnConnect(b.Resync)
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT connection lost", "error", err)
	})

	g.Go(func() error {
		err := b.Run(ctx)
		m := b.GetMetrics()
		log.Info("bridge metrics",
			"commands", m.CommandsRx,
			"failed", m.CommandsFailed,
			"publishes", m.Publishes)
		return err
	})
	return mqttClient, nil
}

// logSessionStats reports traffic counters for each session that was used.
func logSessionStats(log *logging.Logger, player *playerSession, receiver *receiverSession) {
	if player != nil {
		st := player.Stats()
		log.Info("player session stats", "lines_rx", st.LinesRx, "lines_tx", st.LinesTx, "dropped", st.LinesDropped)
	}
	if receiver != nil {
		st := receiver.Stats()
		log.Info("receiver session stats", "lines_rx", st.LinesRx, "lines_tx", st.LinesTx, "dropped", st.LinesDropped)
	}
}

// Package logging provides structured logging for heoslink.
//
// This package wraps Go's standard log/slog package so every component logs
// the same way.
//
// # Features
//
//   - JSON output (default) or text output
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("connected", "device", "heos", "host", host)
//	logger.Component("session").Warn("write failed", "error", err)
//
// Protocol noise (malformed lines, unknown events) is logged at debug level
// by the packages that see it. Never log MQTT credentials.
package logging

package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is the root of every heoslink topic when none is
// configured.
const DefaultTopicPrefix = "heoslink"

// Topics provides builders for heoslink MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
// Every topic lives under a single prefix so that several instances can
// share one broker:
//
//	topics := mqtt.NewTopics("living")
//	stateTopic := topics.State("player")
//	// Returns: "living/state/player"
type Topics struct {
	Prefix string
}

// NewTopics returns builders rooted at prefix. Surrounding slashes and
// whitespace are trimmed; an empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{Prefix: prefix}
}

func (t Topics) root() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// =============================================================================
// State Topics
// =============================================================================

// State returns the retained state topic for one part of the unified state.
//
// Example: heoslink/state/player
func (t Topics) State(part string) string {
	return fmt.Sprintf("%s/state/%s", t.root(), part)
}

// Status returns the topic carrying the latest status message.
//
// Example: heoslink/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.root())
}

// =============================================================================
// Command Topics
// =============================================================================

// Command returns the command topic for a device target.
//
// Example: heoslink/command/receiver
func (t Topics) Command(target string) string {
	return fmt.Sprintf("%s/command/%s", t.root(), target)
}

// Ack returns the acknowledgement topic for a device target.
//
// Example: heoslink/ack/receiver
func (t Topics) Ack(target string) string {
	return fmt.Sprintf("%s/ack/%s", t.root(), target)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the online/offline topic used for LWT.
//
// Example: heoslink/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.root())
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllCommands returns a pattern matching every command topic.
//
// Pattern: heoslink/command/+
func (t Topics) AllCommands() string {
	return fmt.Sprintf("%s/command/+", t.root())
}

// AllStates returns a pattern matching every state topic.
//
// Pattern: heoslink/state/+
func (t Topics) AllStates() string {
	return fmt.Sprintf("%s/state/+", t.root())
}

// AllTopics returns a pattern matching all topics under the prefix.
// Use with caution - this receives ALL traffic.
//
// Pattern: heoslink/#
func (t Topics) AllTopics() string {
	return fmt.Sprintf("%s/#", t.root())
}

// CommandTarget extracts the target from a command topic. It returns false
// for topics outside the command tree.
//
// Example: "heoslink/command/player" -> "player", true
func (t Topics) CommandTarget(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, t.root()+"/command/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

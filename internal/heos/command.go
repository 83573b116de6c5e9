package heos

import (
	"fmt"
	"strings"
)

// Wire constants for the player control protocol.
const (
	// DefaultPort is the TCP port players listen on for control connections.
	DefaultPort = 1255

	// Scheme prefixes every command line.
	Scheme = "heos://"

	// lineTerminator ends every outbound command.
	lineTerminator = "\r\n"
)

// Param is one key/value pair of a command. Values are pre-stringified and
// written to the wire verbatim.
type Param struct {
	Key   string
	Value string
}

// Command is an outbound request: a group ("player", "browse", "system"),
// a command name, and an ordered parameter list.
//
// Commands are values. With returns a copy, so a Command handed to a
// session can never be changed by the caller afterwards.
type Command struct {
	Group  string
	Name   string
	Params []Param
}

// NewCommand creates a command with no parameters.
func NewCommand(group, name string) Command {
	return Command{Group: group, Name: name}
}

// With returns a copy of c with key=value appended to its parameters.
func (c Command) With(key, value string) Command {
	params := make([]Param, len(c.Params), len(c.Params)+1)
	copy(params, c.Params)
	c.Params = append(params, Param{Key: key, Value: value})
	return c
}

// Path returns "group/command", the form used in response headers.
func (c Command) Path() string {
	return c.Group + "/" + c.Name
}

// Param returns the value of the first parameter named key.
func (c Command) Param(key string) (string, bool) {
	for _, p := range c.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// String renders the command line without its terminator.
//
// Example: heos://player/set_volume?pid=1&level=30
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString(c.Path())
	for i, p := range c.Params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// Encode renders the command as it is written to the socket, including the
// CRLF terminator.
func (c Command) Encode() []byte {
	return []byte(c.String() + lineTerminator)
}

// ParseCommand recovers a Command from an encoded line. The terminator is
// optional. Parameter order is preserved.
//
// Values containing '&' cannot round-trip; the protocol requires those to
// be escaped by the caller before building the command.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")

	rest, ok := strings.CutPrefix(line, Scheme)
	if !ok {
		return Command{}, fmt.Errorf("%w: missing %q prefix", ErrMalformedCommand, Scheme)
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	group, name, ok := strings.Cut(path, "/")
	if !ok || group == "" || name == "" || strings.Contains(name, "/") {
		return Command{}, fmt.Errorf("%w: invalid path %q", ErrMalformedCommand, path)
	}

	cmd := NewCommand(group, name)
	if !hasQuery {
		return cmd, nil
	}
	if query == "" {
		return Command{}, fmt.Errorf("%w: empty query", ErrMalformedCommand)
	}

	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return Command{}, fmt.Errorf("%w: invalid parameter %q", ErrMalformedCommand, pair)
		}
		cmd.Params = append(cmd.Params, Param{Key: key, Value: value})
	}

	return cmd, nil
}

package session

import (
	"errors"
	"fmt"
)

// Domain errors for device sessions.
var (
	// ErrConnectionFailed is returned when the device cannot be dialled.
	ErrConnectionFailed = errors.New("session: connection failed")

	// ErrDisconnected is returned by Submit when no live writer exists:
	// the peer went away, the write loop stopped, or the session was closed.
	ErrDisconnected = errors.New("session: disconnected")

	// ErrClosed is returned by Submit after Close. It matches
	// ErrDisconnected with errors.Is.
	ErrClosed = fmt.Errorf("%w: session closed", ErrDisconnected)

	// ErrInvalidConfig is returned by Dial for an unusable Config.
	ErrInvalidConfig = errors.New("session: invalid config")
)

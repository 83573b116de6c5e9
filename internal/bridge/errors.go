package bridge

import "errors"

// Domain errors for the state bridge.
var (
	// ErrMissingDependency indicates a required option was not supplied.
	ErrMissingDependency = errors.New("bridge: missing dependency")

	// ErrAlreadyRunning indicates Run was called more than once.
	ErrAlreadyRunning = errors.New("bridge: already running")

	// ErrInvalidCommand indicates a command payload could not be decoded.
	ErrInvalidCommand = errors.New("bridge: invalid command")

	// ErrUnknownTarget indicates a command topic names neither the player
	// nor the receiver.
	ErrUnknownTarget = errors.New("bridge: unknown target")
)

package control

import "errors"

// Domain errors for the control loop.
var (
	// ErrUnknownVerb indicates the request names a verb the target does not
	// support.
	ErrUnknownVerb = errors.New("control: unknown verb")

	// ErrNoActivePlayer indicates a player verb was issued before a roster
	// arrived.
	ErrNoActivePlayer = errors.New("control: no active player")

	// ErrNotConnected indicates the target device has no live session.
	ErrNotConnected = errors.New("control: device not connected")

	// ErrInvalidRequest indicates a missing or out-of-range argument.
	ErrInvalidRequest = errors.New("control: invalid request")

	// ErrStopped indicates the control loop is no longer running.
	ErrStopped = errors.New("control: controller stopped")
)

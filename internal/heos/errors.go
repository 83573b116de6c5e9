package heos

import "errors"

// Domain errors for the player protocol package.
var (
	// ErrMalformedCommand is returned when a command line cannot be parsed
	// back into group, command and parameters.
	ErrMalformedCommand = errors.New("heos: malformed command")

	// ErrMalformedResponse is returned when a response line is not a valid
	// envelope.
	ErrMalformedResponse = errors.New("heos: malformed response")

	// ErrNoPayload is returned when a payload is requested from a response
	// that carries none.
	ErrNoPayload = errors.New("heos: response has no payload")

	// ErrPayloadShape is returned when the payload does not match the
	// requested record shape.
	ErrPayloadShape = errors.New("heos: payload does not match requested shape")
)

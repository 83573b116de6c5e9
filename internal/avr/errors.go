package avr

import "errors"

// ErrInvalidArgument is returned by Handle operations whose argument is
// outside the receiver's vocabulary.
var ErrInvalidArgument = errors.New("avr: invalid argument")

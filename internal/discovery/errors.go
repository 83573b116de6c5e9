package discovery

import "errors"

// ErrNoDevice is returned by DiscoverFirst when nothing answered.
var ErrNoDevice = errors.New("discovery: no device found")

package pubsub

import "errors"

// ErrClosed is returned when publishing on a closed publisher.
var ErrClosed = errors.New("publisher closed")

package visa

import "errors"

var (
	// ErrTimeout indicates that the device produced no response within the
	// current response timeout.
	ErrTimeout = errors.New("device timeout")
	// ErrClosed indicates an operation on a closed device.
	ErrClosed = errors.New("device closed")
	// ErrConfigNil indicates that a configuration option was applied to a
	// nil configuration.
	ErrConfigNil = errors.New("config is nil")
)

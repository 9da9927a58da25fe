package visa

import "time"

// Device is a blocking ASCII request/response channel to an instrument.
//
// Write sends a single command message, Query sends one and waits for the
// response line. Both strip surrounding whitespace from the outgoing
// message and append exactly one terminator; the response is returned with
// its line terminator removed.
//
// The response timeout is mutable so that long running operations can
// widen it, preferably through a TimeoutScope. Implementations must be
// safe for concurrent use.
type Device interface {
	// Write sends a command message to the device.
	Write(cmd string) error
	// Query sends a command message and returns the device's response.
	Query(cmd string) (string, error)
	// Timeout returns the current response timeout.
	Timeout() time.Duration
	// SetTimeout sets the response timeout for subsequent operations.
	SetTimeout(timeout time.Duration) error
	// Close releases the underlying connection. Further operations return
	// ErrClosed.
	Close() error
}

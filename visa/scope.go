package visa

import (
	"sync"
	"time"
)

// TimeoutScope overrides a device's response timeout and restores the
// prior value when released. Acquire it before a long running operation
// and release it with Restore on every exit path:
//
//	scope, err := visa.NewTimeoutScope(dev, 60*time.Second)
//	if err != nil {
//		return err
//	}
//	defer func() { err = multierr.Append(err, scope.Restore()) }()
//
// Nested scopes restore innermost first, each putting back the timeout the
// enclosing scope had set.
type TimeoutScope struct {
	dev  Device
	prev time.Duration
	once sync.Once
}

// NewTimeoutScope sets the device's response timeout to timeout and
// records the prior value for Restore.
func NewTimeoutScope(dev Device, timeout time.Duration) (*TimeoutScope, error) {
	prev := dev.Timeout()
	if err := dev.SetTimeout(timeout); err != nil {
		return nil, err
	}

	return &TimeoutScope{dev: dev, prev: prev}, nil
}

// Restore puts the prior response timeout back. It is idempotent; only the
// first call touches the device.
func (s *TimeoutScope) Restore() error {
	var err error
	s.once.Do(func() {
		err = s.dev.SetTimeout(s.prev)
	})

	return err
}

// Prev returns the timeout that Restore puts back.
func (s *TimeoutScope) Prev() time.Duration {
	return s.prev
}

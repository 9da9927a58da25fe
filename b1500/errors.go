package b1500

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceFault indicates that the instrument reported a fault through
	// its error queue.
	ErrDeviceFault = errors.New("device reported a fault")
	// ErrInvalidTransition indicates a correction operation that is not
	// legal in the current lifecycle stage.
	ErrInvalidTransition = errors.New("invalid correction state transition")
	// ErrCompensationMode indicates a phase compensation run requested
	// while the compensation mode is automatic.
	ErrCompensationMode = errors.New("phase compensation requires manual or load adaptive mode")
)

// DeviceError is a fault popped from the instrument's error queue.
type DeviceError struct {
	Code    int
	Message string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device fault %d: %s", e.Code, e.Message)
}

func (e *DeviceError) Unwrap() error {
	return ErrDeviceFault
}

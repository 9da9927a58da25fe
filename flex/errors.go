package flex

import (
	"errors"
	"fmt"
)

// Sentinel errors of the command grammar. Errors returned by this package
// wrap one of these, so callers can classify them with errors.Is.
var (
	// ErrInvalidArgument indicates a command argument outside its declared
	// domain. It is detected before any transport I/O takes place.
	ErrInvalidArgument = errors.New("argument outside its declared domain")

	// ErrProtocol indicates a command combination the grammar forbids
	// within a single message.
	ErrProtocol = errors.New("command combination forbidden by the grammar")
)

// ArgumentError reports a command argument outside its declared domain.
type ArgumentError struct {
	// Cmd is the mnemonic of the command being rendered, empty when the
	// argument was rejected outside command rendering.
	Cmd string
	// Arg names the offending argument slot.
	Arg string
	// Value is the rejected value.
	Value any
}

func (e *ArgumentError) Error() string {
	if e.Cmd == "" {
		return fmt.Sprintf("invalid %s: %v", e.Arg, e.Value)
	}
	return fmt.Sprintf("%s: invalid %s: %v", e.Cmd, e.Arg, e.Value)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// ProtocolError reports a command combination that cannot form a single
// message.
type ProtocolError struct {
	// Cmd is the mnemonic of the command being appended, empty when the
	// message as a whole was rejected.
	Cmd string
	// Reason describes the violated rule.
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Cmd == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Cmd, e.Reason)
}

// Unwrap returns ErrProtocol.
func (e *ProtocolError) Unwrap() error { return ErrProtocol }

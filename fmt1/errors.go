package fmt1

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a device response that does not match the
// layout the issuing command expects. Such responses are rejected as a
// whole, never partially accepted. Errors returned by this package wrap it,
// so callers can classify them with errors.Is.
var ErrMalformedResponse = errors.New("malformed device response")

// ParseError reports where and why a device response failed to decode.
type ParseError struct {
	// Input is the response being decoded, with its terminator stripped.
	Input string
	// Pos is the byte offset at which decoding failed.
	Pos int
	// Reason describes the violated rule.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Reason, e.Pos, e.Input)
}

// Unwrap returns ErrMalformedResponse.
func (e *ParseError) Unwrap() error { return ErrMalformedResponse }

package flex

import "strconv"

// Channel number bounds of the mainframe's module slots.
const (
	MinChNr ChNr = 1
	MaxChNr ChNr = 10
)

// ChNr is a channel number addressing one module slot of the mainframe.
// A channel reference is created once, owned by the module it addresses and
// shared by every command and submodule targeting that slot. The zero value
// is not a valid channel. Rendering a constructed channel never fails.
type ChNr int

// NewChNr creates a channel number, rejecting values outside the
// mainframe's slot range.
func NewChNr(n int) (ChNr, error) {
	ch := ChNr(n)
	if !ch.IsValid() {
		return 0, &ArgumentError{Arg: "channel number", Value: n}
	}
	return ch, nil
}

// IsValid returns whether the channel number is within the mainframe's slot
// range.
func (ch ChNr) IsValid() bool {
	return ch >= MinChNr && ch <= MaxChNr
}

// String returns the wire rendering of the channel number.
func (ch ChNr) String() string {
	return strconv.Itoa(int(ch))
}

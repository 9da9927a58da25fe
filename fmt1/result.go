package fmt1

import (
	"github.com/spauka/go-b1500/flex"
	"github.com/spauka/go-b1500/internal/util"
)

// Field is one decoded field of a formatted data response.
type Field struct {
	// Status is the measurement status character, 0 when the field carries
	// no prefix.
	Status byte
	// Channel is the channel character, 0 when the field carries no prefix.
	Channel byte
	// DType is the data type character, 0 when the field carries no prefix.
	DType byte
	// Value is the numeric payload.
	Value float64
}

// Prefixed reports whether the field carried the status/channel/data-type
// prefix.
func (f Field) Prefixed() bool {
	return f.DType != 0
}

// ChNr returns the channel number encoded in the channel character. The
// instrument encodes slots 1..10 as 'A'..'J'; plain digit encodings are
// accepted as well. It reports false for unprefixed fields and unknown
// encodings.
func (f Field) ChNr() (flex.ChNr, bool) {
	switch {
	case f.Channel >= 'A' && f.Channel <= 'J':
		return flex.ChNr(f.Channel-'A') + 1, true
	case f.Channel >= '1' && f.Channel <= '9':
		return flex.ChNr(f.Channel - '0'), true
	}
	return 0, false
}

// Result is the ordered field sequence decoded from one response.
type Result struct {
	fields []Field
}

// Len returns the number of decoded fields.
func (r *Result) Len() int {
	return len(r.fields)
}

// Field returns the decoded field at position i.
func (r *Result) Field(i int) Field {
	return r.fields[i]
}

// Fields returns a copy of the decoded fields in response order.
func (r *Result) Fields() []Field {
	return util.CloneSlice(r.fields, 0)
}

// Values returns the numeric payloads in response order.
func (r *Result) Values() []float64 {
	values := make([]float64, len(r.fields))
	for i, f := range r.fields {
		values[i] = f.Value
	}
	return values
}

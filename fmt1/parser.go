package fmt1

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spauka/go-b1500/flex"
)

// Parse decodes a formatted data response against the field layout the
// issuing command declares. The field count must equal len(layout), every
// field must carry or omit the prefix its layout entry declares, and a
// non-zero layout data type must match the field's data type character.
// Any violation returns a *ParseError; nothing is truncated or coerced.
func Parse(raw string, layout ...flex.ResponseField) (*Result, error) {
	p := &parser{input: strings.TrimRight(raw, "\r\n")}

	fields, starts, err := p.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) != len(layout) {
		return nil, p.errorf(len(p.input), "expected %d fields, got %d", len(layout), len(fields))
	}
	for i, want := range layout {
		switch {
		case want.Prefixed && !fields[i].Prefixed():
			return nil, p.errorf(starts[i], "field %d carries no prefix", i)
		case !want.Prefixed && fields[i].Prefixed():
			return nil, p.errorf(starts[i], "field %d carries an unexpected prefix", i)
		case want.DType != 0 && fields[i].DType != want.DType:
			return nil, p.errorf(starts[i], "field %d has data type %q, expected %q", i, fields[i].DType, want.DType)
		}
	}
	return &Result{fields: fields}, nil
}

// parser is a position based scanner over a single response string.
type parser struct {
	input string
	pos   int
}

func (p *parser) fields() ([]Field, []int, error) {
	var (
		fields []Field
		starts []int
	)
	for p.pos < len(p.input) {
		if len(fields) > 0 && p.input[p.pos] == ',' {
			p.pos++
		}
		start := p.pos
		field, err := p.field()
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, field)
		starts = append(starts, start)
	}
	return fields, starts, nil
}

// field scans an optional prefix run followed by the numeric payload. The
// prefix is the last three word characters before the sign; extra leading
// characters some response classes pad the prefix with are skipped.
func (p *parser) field() (Field, error) {
	start := p.pos
	for p.pos < len(p.input) && isWordChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos >= len(p.input) || !isSign(p.input[p.pos]) {
		return Field{}, p.errorf(start, "missing numeric payload")
	}

	var field Field
	switch run := p.pos - start; {
	case run >= 3:
		field.Status = p.input[p.pos-3]
		field.Channel = p.input[p.pos-2]
		field.DType = p.input[p.pos-1]
	case run > 0:
		return Field{}, p.errorf(start, "incomplete field prefix %q", p.input[start:p.pos])
	}

	value, err := p.number()
	if err != nil {
		return Field{}, err
	}
	field.Value = value
	return field, nil
}

// number scans the payload: a sign, 1 to 3 integer digits, a decimal point,
// 3 to 6 fraction digits, 'E', a sign and exactly 2 exponent digits.
func (p *parser) number() (float64, error) {
	start := p.pos
	p.pos++ // the sign, known to be present

	if n := p.digits(3); n < 1 {
		return 0, p.errorf(p.pos, "expected integer digits")
	}
	if !p.accept('.') {
		return 0, p.errorf(p.pos, "expected decimal point")
	}
	if n := p.digits(6); n < 3 {
		return 0, p.errorf(p.pos, "expected at least 3 fraction digits")
	}
	if !p.accept('E') {
		return 0, p.errorf(p.pos, "expected exponent")
	}
	if p.pos >= len(p.input) || !isSign(p.input[p.pos]) {
		return 0, p.errorf(p.pos, "expected exponent sign")
	}
	p.pos++
	if n := p.digits(2); n < 2 {
		return 0, p.errorf(p.pos, "expected 2 exponent digits")
	}

	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf(start, "invalid number %q", p.input[start:p.pos])
	}
	return value, nil
}

// digits consumes up to max consecutive digits and returns how many it
// consumed.
func (p *parser) digits(max int) int {
	n := 0
	for n < max && p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
		n++
	}
	return n
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Input: p.input, Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

func isWordChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

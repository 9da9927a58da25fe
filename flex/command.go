package flex

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamKind enumerates the argument slot kinds a command accepts.
type ParamKind int

const (
	// ParamChannel is a channel reference rendered as its integer number.
	ParamChannel ParamKind = iota
	// ParamEnum is an enumerated mode rendered as its integer code.
	ParamEnum
	// ParamInt is a plain integer argument.
	ParamInt
	// ParamFloat is a floating point argument in decimal notation.
	ParamFloat
	// ParamFloatExp is a floating point argument in exponential notation.
	ParamFloatExp
)

// ParamSlot describes one argument slot of a command.
type ParamSlot struct {
	Name string
	Kind ParamKind
	// Optional marks a slot that may be omitted from the tail of the
	// argument list.
	Optional bool
	// Variadic marks a trailing slot that accepts any number of values.
	Variadic bool
}

// ResponseField describes one field of a formatted data response.
// Measurement queries answer in the instrument's ASCII data format, one or
// more fields per response, and the descriptor records the exact field
// sequence the command produces so the parser can validate it.
type ResponseField struct {
	// Prefixed reports whether the field carries the three character
	// status/channel/data-type prefix.
	Prefixed bool
	// DType is the expected data type character of the field, 0 for any.
	DType byte
}

// Command describes one FLEX command: its mnemonic, its ordered argument
// slots, the commands it must not share a message with, and the shape of its
// data response. Descriptors are immutable, defined once per command and
// shared by all builders.
type Command struct {
	Mnemonic string
	// Query reports whether the command solicits a response.
	Query  bool
	Params []ParamSlot
	// Conflicts lists commands that must not share a message with this
	// command when both target the same channel.
	Conflicts []string
	// Response is the field sequence of the command's data response.
	// It is set only for commands answered in the formatted data output.
	Response []ResponseField
}

// commands is the grammar table, one descriptor per supported mnemonic.
var commands = map[string]*Command{
	// Mainframe control.
	"AB":    {Mnemonic: "AB"},
	"*CAL?": {Mnemonic: "*CAL?", Query: true},
	"*IDN?": {Mnemonic: "*IDN?", Query: true},
	"*RST":  {Mnemonic: "*RST"},
	"ERRX?": {Mnemonic: "ERRX?", Query: true, Params: []ParamSlot{
		{Name: "mode", Kind: ParamInt, Optional: true},
	}},
	"EMG?": {Mnemonic: "EMG?", Query: true, Params: []ParamSlot{
		{Name: "error code", Kind: ParamInt},
	}},
	"UNT?": {Mnemonic: "UNT?", Query: true, Params: []ParamSlot{
		{Name: "mode", Kind: ParamEnum, Optional: true},
	}},
	"CN": {Mnemonic: "CN", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel, Optional: true, Variadic: true},
	}},
	"CL": {Mnemonic: "CL", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel, Optional: true, Variadic: true},
	}},
	"FMT": {Mnemonic: "FMT", Params: []ParamSlot{
		{Name: "format", Kind: ParamEnum},
		{Name: "output mode", Kind: ParamInt, Optional: true},
	}},

	// CMU setup and measurement.
	"ADJ": {Mnemonic: "ADJ", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "mode", Kind: ParamEnum},
	}, Conflicts: []string{"TC", "CORR?"}},
	"ADJ?": {Mnemonic: "ADJ?", Query: true, Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "mode", Kind: ParamEnum, Optional: true},
	}},
	"ACV": {Mnemonic: "ACV", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "voltage", Kind: ParamFloat},
	}},
	"DCV": {Mnemonic: "DCV", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "voltage", Kind: ParamFloat},
	}},
	"FC": {Mnemonic: "FC", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "frequency", Kind: ParamFloat},
	}},
	"TC": {Mnemonic: "TC", Query: true, Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "ranging mode", Kind: ParamEnum},
		{Name: "measurement range", Kind: ParamInt, Optional: true},
	}, Response: []ResponseField{
		{Prefixed: true, DType: 'C'},
		{Prefixed: true, DType: 'Y'},
	}},

	// Correction procedures.
	"CORR?": {Mnemonic: "CORR?", Query: true, Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "correction", Kind: ParamEnum},
	}, Conflicts: []string{"TC", "DCORR"}},
	"CORRST": {Mnemonic: "CORRST", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "correction", Kind: ParamEnum},
		{Name: "status", Kind: ParamEnum},
	}},
	"CORRST?": {Mnemonic: "CORRST?", Query: true, Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "correction", Kind: ParamEnum},
	}},
	"DCORR": {Mnemonic: "DCORR", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "correction", Kind: ParamEnum},
		{Name: "mode", Kind: ParamEnum},
		{Name: "primary", Kind: ParamFloatExp},
		{Name: "secondary", Kind: ParamFloatExp},
	}},
	"DCORR?": {Mnemonic: "DCORR?", Query: true, Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "correction", Kind: ParamEnum},
	}},
	"CLCORR": {Mnemonic: "CLCORR", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "mode", Kind: ParamEnum},
	}},
	"CORRL": {Mnemonic: "CORRL", Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "frequency", Kind: ParamFloat},
	}},
	"CORRL?": {Mnemonic: "CORRL?", Query: true, Params: []ParamSlot{
		{Name: "channel", Kind: ParamChannel},
		{Name: "index", Kind: ParamInt, Optional: true},
	}},
}

// Lookup returns the command descriptor for the given mnemonic.
func Lookup(mnemonic string) (*Command, bool) {
	cmd, ok := commands[mnemonic]
	return cmd, ok
}

// Render produces the canonical wire substring of the command for the given
// arguments, e.g. "FC 1,1000000". It returns an *ArgumentError when the
// argument count is outside the command's arity or any argument is outside
// its declared domain. Enumerated slots accept any of the declared
// enumeration types and render their integer code; the typed MessageBuilder
// methods bind each slot to its concrete domain. Render has no side effects.
func (c *Command) Render(args ...any) (string, error) {
	if err := c.checkArity(len(args)); err != nil {
		return "", err
	}
	if len(args) == 0 {
		return c.Mnemonic, nil
	}

	parts := make([]string, 0, len(args))
	for i, arg := range args {
		part, err := c.renderArg(c.slot(i), arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return c.Mnemonic + " " + strings.Join(parts, ","), nil
}

func (c *Command) checkArity(n int) error {
	required := 0
	for _, p := range c.Params {
		if !p.Optional && !p.Variadic {
			required++
		}
	}
	variadic := len(c.Params) > 0 && c.Params[len(c.Params)-1].Variadic
	if n < required || (!variadic && n > len(c.Params)) {
		return &ArgumentError{Cmd: c.Mnemonic, Arg: "argument count", Value: n}
	}
	return nil
}

// slot returns the parameter slot for argument position i. Positions past
// the end of the slot list belong to the trailing variadic slot.
func (c *Command) slot(i int) ParamSlot {
	if i < len(c.Params) {
		return c.Params[i]
	}
	return c.Params[len(c.Params)-1]
}

func (c *Command) renderArg(slot ParamSlot, arg any) (string, error) {
	switch slot.Kind {
	case ParamChannel:
		ch, ok := arg.(ChNr)
		if !ok || !ch.IsValid() {
			return "", &ArgumentError{Cmd: c.Mnemonic, Arg: slot.Name, Value: arg}
		}
		return ch.String(), nil

	case ParamEnum:
		code, ok := enumCode(arg)
		if !ok {
			return "", &ArgumentError{Cmd: c.Mnemonic, Arg: slot.Name, Value: arg}
		}
		return strconv.Itoa(code), nil

	case ParamInt:
		n, ok := arg.(int)
		if !ok {
			return "", &ArgumentError{Cmd: c.Mnemonic, Arg: slot.Name, Value: arg}
		}
		return strconv.Itoa(n), nil

	case ParamFloat, ParamFloatExp:
		f, ok := arg.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &ArgumentError{Cmd: c.Mnemonic, Arg: slot.Name, Value: arg}
		}
		if slot.Kind == ParamFloatExp {
			return fmt.Sprintf("%.6E", f), nil
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", &ArgumentError{Cmd: c.Mnemonic, Arg: slot.Name, Value: arg}
}

// enumCode returns the integer wire code of an enumerated argument value.
// It reports false for values outside their declared set and for types that
// are not enumerated argument domains.
func enumCode(arg any) (int, bool) {
	switch v := arg.(type) {
	case CalibrationType:
		return int(v), v.IsValid()
	case DCorrMode:
		return int(v), v.IsValid()
	case AdjustMode:
		return int(v), v.IsValid()
	case AdjustRequestMode:
		return int(v), v.IsValid()
	case CorrectionStatus:
		return int(v), v.IsValid()
	case ClearMode:
		return int(v), v.IsValid()
	case RangingMode:
		return int(v), v.IsValid()
	case OutputFormat:
		return int(v), v.IsValid()
	case UntMode:
		return int(v), v.IsValid()
	}
	return 0, false
}

// conflicting reports whether two commands are marked mutually exclusive
// within a single message. Conflict sets are symmetric regardless of which
// descriptor declares them.
func conflicting(a, b *Command) bool {
	for _, m := range a.Conflicts {
		if m == b.Mnemonic {
			return true
		}
	}
	for _, m := range b.Conflicts {
		if m == a.Mnemonic {
			return true
		}
	}
	return false
}

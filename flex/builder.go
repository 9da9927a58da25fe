package flex

import (
	"fmt"
	"strings"
)

// MaxMessageLen is the longest message the instrument's command buffer
// accepts, in bytes, excluding the terminator.
const MaxMessageLen = 250

// builtCommand is one rendered command held in the builder buffer.
type builtCommand struct {
	cmd *Command
	// channel is the channel argument of the command, 0 when it has none.
	channel ChNr
	text    string
}

// MessageBuilder accumulates grammar validated commands into a single
// outgoing message. Each command method validates its arguments against the
// grammar, appends the rendered substring and returns the builder so calls
// can be chained:
//
//	msg, err := flex.NewMessageBuilder().FC(ch, 1e6).ACV(ch, 0.03).Message()
//
// The first error encountered sticks to the builder, later calls become
// no-ops, and Message reports it. A builder is not safe for concurrent use.
type MessageBuilder struct {
	cmds []builtCommand
	err  error
}

// NewMessageBuilder creates an empty message builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// Message renders the accumulated commands into the final message string,
// joined with ";" and carrying no terminator. It returns the first error
// recorded while building, or a *ProtocolError when the rendered message
// exceeds MaxMessageLen. Message does not mutate the builder; repeated calls
// return identical output.
func (b *MessageBuilder) Message() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	parts := make([]string, len(b.cmds))
	for i, cmd := range b.cmds {
		parts[i] = cmd.text
	}
	msg := strings.Join(parts, ";")
	if len(msg) > MaxMessageLen {
		return "", &ProtocolError{
			Reason: fmt.Sprintf("message length %d exceeds the %d byte command buffer", len(msg), MaxMessageLen),
		}
	}
	return msg, nil
}

// Err returns the first error recorded while building, if any.
func (b *MessageBuilder) Err() error {
	return b.err
}

// Clear discards the accumulated commands and any recorded error, returning
// the builder to its freshly constructed state.
func (b *MessageBuilder) Clear() *MessageBuilder {
	b.cmds = nil
	b.err = nil
	return b
}

func (b *MessageBuilder) add(mnemonic string, args ...any) *MessageBuilder {
	if b.err != nil {
		return b
	}

	cmd, ok := commands[mnemonic]
	if !ok {
		b.err = &ProtocolError{Cmd: mnemonic, Reason: "unknown command"}
		return b
	}
	text, err := cmd.Render(args...)
	if err != nil {
		b.err = err
		return b
	}

	ch := channelOf(cmd, args)
	for _, prev := range b.cmds {
		if ch != 0 && prev.channel == ch && conflicting(cmd, prev.cmd) {
			b.err = &ProtocolError{
				Cmd:    mnemonic,
				Reason: fmt.Sprintf("cannot share a message with %s for channel %s", prev.cmd.Mnemonic, ch),
			}
			return b
		}
	}

	b.cmds = append(b.cmds, builtCommand{cmd: cmd, channel: ch, text: text})
	return b
}

// channelOf returns the channel argument of the rendered command, 0 when the
// command has none.
func channelOf(cmd *Command, args []any) ChNr {
	for i, arg := range args {
		if cmd.slot(i).Kind != ParamChannel {
			continue
		}
		if ch, ok := arg.(ChNr); ok {
			return ch
		}
	}
	return 0
}

func channelArgs(channels []ChNr) []any {
	args := make([]any, len(channels))
	for i, ch := range channels {
		args[i] = ch
	}
	return args
}

// AB aborts the present operation and the execution of subsequent commands.
func (b *MessageBuilder) AB() *MessageBuilder {
	return b.add("AB")
}

// CALQuery performs the self calibration of the mainframe and the installed
// modules.
func (b *MessageBuilder) CALQuery() *MessageBuilder {
	return b.add("*CAL?")
}

// IDNQuery requests the instrument identification.
func (b *MessageBuilder) IDNQuery() *MessageBuilder {
	return b.add("*IDN?")
}

// RST resets the instrument to its initial settings.
func (b *MessageBuilder) RST() *MessageBuilder {
	return b.add("*RST")
}

// ERRXQuery reads the oldest error code and message from the error queue.
func (b *MessageBuilder) ERRXQuery() *MessageBuilder {
	return b.add("ERRX?")
}

// EMGQuery requests the error message for the given error code.
func (b *MessageBuilder) EMGQuery(errorCode int) *MessageBuilder {
	return b.add("EMG?", errorCode)
}

// UNTQuery requests the models and revisions of the installed modules.
func (b *MessageBuilder) UNTQuery(mode UntMode) *MessageBuilder {
	return b.add("UNT?", mode)
}

// CN enables the outputs of the given channels, or of all channels when none
// are given.
func (b *MessageBuilder) CN(channels ...ChNr) *MessageBuilder {
	return b.add("CN", channelArgs(channels)...)
}

// CL disables the outputs of the given channels, or of all channels when
// none are given.
func (b *MessageBuilder) CL(channels ...ChNr) *MessageBuilder {
	return b.add("CL", channelArgs(channels)...)
}

// FMT selects the data output format.
func (b *MessageBuilder) FMT(format OutputFormat) *MessageBuilder {
	return b.add("FMT", format)
}

// ADJ selects the phase compensation mode of the given CMU channel.
func (b *MessageBuilder) ADJ(ch ChNr, mode AdjustMode) *MessageBuilder {
	return b.add("ADJ", ch, mode)
}

// ADJQuery performs the phase compensation data measurement of the given CMU
// channel, or reuses the last data, and requests the execution result.
func (b *MessageBuilder) ADJQuery(ch ChNr, mode AdjustRequestMode) *MessageBuilder {
	return b.add("ADJ?", ch, mode)
}

// ACV sets the AC signal level of the given CMU channel, in volts.
func (b *MessageBuilder) ACV(ch ChNr, voltage float64) *MessageBuilder {
	return b.add("ACV", ch, voltage)
}

// DCV sets the DC bias of the given CMU channel, in volts.
func (b *MessageBuilder) DCV(ch ChNr, voltage float64) *MessageBuilder {
	return b.add("DCV", ch, voltage)
}

// FC sets the output signal frequency of the given CMU channel, in hertz.
func (b *MessageBuilder) FC(ch ChNr, freq float64) *MessageBuilder {
	return b.add("FC", ch, freq)
}

// TC triggers a capacitance measurement on the given CMU channel and
// requests the measured primary and secondary values.
func (b *MessageBuilder) TC(ch ChNr, mode RangingMode) *MessageBuilder {
	return b.add("TC", ch, mode)
}

// CORRQuery performs the correction data measurement for the given
// correction standard and requests the execution result.
func (b *MessageBuilder) CORRQuery(ch ChNr, corr CalibrationType) *MessageBuilder {
	return b.add("CORR?", ch, corr)
}

// CORRST sets the on/off state of the correction data for the given
// standard.
func (b *MessageBuilder) CORRST(ch ChNr, corr CalibrationType, status CorrectionStatus) *MessageBuilder {
	return b.add("CORRST", ch, corr, status)
}

// CORRSTQuery reads the on/off state of the correction data for the given
// standard.
func (b *MessageBuilder) CORRSTQuery(ch ChNr, corr CalibrationType) *MessageBuilder {
	return b.add("CORRST?", ch, corr)
}

// DCORR sets the reference values of the given correction standard.
func (b *MessageBuilder) DCORR(ch ChNr, corr CalibrationType, mode DCorrMode, primary, secondary float64) *MessageBuilder {
	return b.add("DCORR", ch, corr, mode, primary, secondary)
}

// DCORRQuery reads the reference values of the given correction standard.
func (b *MessageBuilder) DCORRQuery(ch ChNr, corr CalibrationType) *MessageBuilder {
	return b.add("DCORR?", ch, corr)
}

// CLCORR clears the frequency list for the correction data measurement,
// optionally loading the default list.
func (b *MessageBuilder) CLCORR(ch ChNr, mode ClearMode) *MessageBuilder {
	return b.add("CLCORR", ch, mode)
}

// CORRL appends a frequency to the list for the correction data measurement.
func (b *MessageBuilder) CORRL(ch ChNr, freq float64) *MessageBuilder {
	return b.add("CORRL", ch, freq)
}

// CORRLQuery reads the frequency at the given index of the correction
// frequency list.
func (b *MessageBuilder) CORRLQuery(ch ChNr, index int) *MessageBuilder {
	return b.add("CORRL?", ch, index)
}

// CORRLCountQuery reads the number of frequencies in the correction
// frequency list.
func (b *MessageBuilder) CORRLCountQuery(ch ChNr) *MessageBuilder {
	return b.add("CORRL?", ch)
}

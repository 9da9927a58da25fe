package flex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandRender(t *testing.T) {
	tests := []struct {
		description string
		mnemonic    string
		args        []any
		expected    string
	}{
		{description: "abort carries no arguments", mnemonic: "AB", expected: "AB"},
		{description: "self calibration query", mnemonic: "*CAL?", expected: "*CAL?"},
		{description: "identification query", mnemonic: "*IDN?", expected: "*IDN?"},
		{description: "reset", mnemonic: "*RST", expected: "*RST"},
		{description: "error queue query without mode", mnemonic: "ERRX?", expected: "ERRX?"},
		{description: "error message lookup", mnemonic: "EMG?", args: []any{305}, expected: "EMG? 305"},
		{description: "unit query with mode", mnemonic: "UNT?", args: []any{UntModelAndRevision}, expected: "UNT? 0"},
		{description: "enable all channels", mnemonic: "CN", expected: "CN"},
		{description: "enable three channels", mnemonic: "CN", args: []any{ChNr(1), ChNr(2), ChNr(3)}, expected: "CN 1,2,3"},
		{description: "disable one channel", mnemonic: "CL", args: []any{ChNr(5)}, expected: "CL 5"},
		{description: "output format", mnemonic: "FMT", args: []any{FormatASCIIHeaderCRLF}, expected: "FMT 1"},
		{description: "frequency in plain decimal", mnemonic: "FC", args: []any{ChNr(1), 1000000.0}, expected: "FC 1,1000000"},
		{description: "ac level keeps fraction digits", mnemonic: "ACV", args: []any{ChNr(3), 0.03}, expected: "ACV 3,0.03"},
		{description: "negative dc bias", mnemonic: "DCV", args: []any{ChNr(2), -1.5}, expected: "DCV 2,-1.5"},
		{description: "capacitance trigger with auto ranging", mnemonic: "TC", args: []any{ChNr(4), RangingAuto}, expected: "TC 4,0"},
		{description: "phase compensation manual mode", mnemonic: "ADJ", args: []any{ChNr(1), AdjustManual}, expected: "ADJ 1,1"},
		{description: "phase compensation measurement", mnemonic: "ADJ?", args: []any{ChNr(1), AdjustMeasure}, expected: "ADJ? 1,1"},
		{description: "open correction measurement", mnemonic: "CORR?", args: []any{ChNr(3), CalibrationOpen}, expected: "CORR? 3,1"},
		{description: "enable short correction", mnemonic: "CORRST", args: []any{ChNr(3), CalibrationShort, CorrectionOn}, expected: "CORRST 3,2,1"},
		{description: "correction state query", mnemonic: "CORRST?", args: []any{ChNr(3), CalibrationLoad}, expected: "CORRST? 3,3"},
		{description: "reference values in exponential notation", mnemonic: "DCORR", args: []any{ChNr(3), CalibrationLoad, DCorrModeLsRs, 50.0, 1e-9}, expected: "DCORR 3,3,400,5.000000E+01,1.000000E-09"},
		{description: "zero reference values", mnemonic: "DCORR", args: []any{ChNr(3), CalibrationOpen, DCorrModeCpG, 0.0, 0.0}, expected: "DCORR 3,1,100,0.000000E+00,0.000000E+00"},
		{description: "reference value query", mnemonic: "DCORR?", args: []any{ChNr(3), CalibrationShort}, expected: "DCORR? 3,2"},
		{description: "clear frequency list and set default", mnemonic: "CLCORR", args: []any{ChNr(3), ClearAndSetDefault}, expected: "CLCORR 3,2"},
		{description: "append list frequency", mnemonic: "CORRL", args: []any{ChNr(3), 25000.5}, expected: "CORRL 3,25000.5"},
		{description: "list frequency by index", mnemonic: "CORRL?", args: []any{ChNr(3), 2}, expected: "CORRL? 3,2"},
		{description: "list frequency count", mnemonic: "CORRL?", args: []any{ChNr(3)}, expected: "CORRL? 3"},
	}

	require := require.New(t)

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		cmd, ok := Lookup(test.mnemonic)
		require.True(ok)

		rendered, err := cmd.Render(test.args...)
		require.NoError(err)
		require.Equal(test.expected, rendered)

		// Rendering is pure, a second call yields the same output.
		again, err := cmd.Render(test.args...)
		require.NoError(err)
		require.Equal(rendered, again)
	}
}

func TestCommandRenderInvalidArgument(t *testing.T) {
	tests := []struct {
		description string
		mnemonic    string
		args        []any
	}{
		{description: "channel above the slot range", mnemonic: "FC", args: []any{ChNr(11), 1e6}},
		{description: "zero channel", mnemonic: "ACV", args: []any{ChNr(0), 0.1}},
		{description: "calibration type outside its set", mnemonic: "CORR?", args: []any{ChNr(1), CalibrationType(9)}},
		{description: "dcorr mode outside its set", mnemonic: "DCORR", args: []any{ChNr(1), CalibrationOpen, DCorrMode(7), 0.0, 0.0}},
		{description: "adjust mode outside its set", mnemonic: "ADJ", args: []any{ChNr(1), AdjustMode(5)}},
		{description: "output format outside its set", mnemonic: "FMT", args: []any{OutputFormat(3)}},
		{description: "NaN frequency", mnemonic: "FC", args: []any{ChNr(1), math.NaN()}},
		{description: "infinite voltage", mnemonic: "DCV", args: []any{ChNr(1), math.Inf(1)}},
		{description: "wrong argument type", mnemonic: "FC", args: []any{ChNr(1), "fast"}},
		{description: "plain int is not a channel", mnemonic: "FC", args: []any{1, 1e6}},
	}

	require := require.New(t)

	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		cmd, ok := Lookup(test.mnemonic)
		require.True(ok)

		rendered, err := cmd.Render(test.args...)
		require.Empty(rendered)
		require.ErrorIs(err, ErrInvalidArgument)

		var argErr *ArgumentError
		require.ErrorAs(err, &argErr)
		require.Equal(test.mnemonic, argErr.Cmd)
	}
}

func TestCommandArity(t *testing.T) {
	require := require.New(t)

	cmd, ok := Lookup("FC")
	require.True(ok)

	_, err := cmd.Render(ChNr(1))
	require.ErrorIs(err, ErrInvalidArgument)

	_, err = cmd.Render(ChNr(1), 1e6, 3.0)
	require.ErrorIs(err, ErrInvalidArgument)

	cmd, ok = Lookup("EMG?")
	require.True(ok)
	_, err = cmd.Render()
	require.ErrorIs(err, ErrInvalidArgument)

	// TC accepts an optional measurement range.
	cmd, ok = Lookup("TC")
	require.True(ok)
	rendered, err := cmd.Render(ChNr(2), RangingFixed, 8)
	require.NoError(err)
	require.Equal("TC 2,2,8", rendered)
}

func TestLookupUnknown(t *testing.T) {
	require := require.New(t)

	_, ok := Lookup("XYZ")
	require.False(ok)
}

func TestCapacitanceTriggerResponseFields(t *testing.T) {
	require := require.New(t)

	cmd, ok := Lookup("TC")
	require.True(ok)
	require.True(cmd.Query)
	require.Len(cmd.Response, 2)
	require.True(cmd.Response[0].Prefixed)
	require.Equal(byte('C'), cmd.Response[0].DType)
	require.True(cmd.Response[1].Prefixed)
	require.Equal(byte('Y'), cmd.Response[1].DType)
}

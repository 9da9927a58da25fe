package flex

import "strconv"

// CalibrationType selects which correction standard a correction command addresses.
type CalibrationType int

// Correction standards for the CMU open/short/load correction commands.
const (
	CalibrationOpen  CalibrationType = 1
	CalibrationShort CalibrationType = 2
	CalibrationLoad  CalibrationType = 3
)

// IsValid returns whether the calibration type is one of open, short or load.
func (c CalibrationType) IsValid() bool {
	return c >= CalibrationOpen && c <= CalibrationLoad
}

// String returns a human readable name of the calibration type.
func (c CalibrationType) String() string {
	switch c {
	case CalibrationOpen:
		return "open"
	case CalibrationShort:
		return "short"
	case CalibrationLoad:
		return "load"
	default:
		return "unknown"
	}
}

// DCorrMode selects the measurement mode of a correction reference standard.
type DCorrMode int

// Measurement modes for the DCORR reference value command.
// CpG (parallel capacitance and conductance) is used for the open standard,
// LsRs (series inductance and resistance) for the short and load standards.
const (
	DCorrModeCpG  DCorrMode = 100
	DCorrModeLsRs DCorrMode = 400
)

// IsValid returns whether the mode is one of the DCORR measurement modes.
func (m DCorrMode) IsValid() bool {
	return m == DCorrModeCpG || m == DCorrModeLsRs
}

// String returns a human readable name of the DCORR measurement mode.
func (m DCorrMode) String() string {
	switch m {
	case DCorrModeCpG:
		return "Cp-G"
	case DCorrModeLsRs:
		return "Ls-Rs"
	default:
		return "unknown"
	}
}

// AdjustMode selects the CMU phase compensation mode set by the ADJ command.
type AdjustMode int

// Phase compensation modes.
//
// In auto mode the instrument sets the compensation data by itself. Manual
// mode requires an explicit ADJ? measurement to set the compensation data.
// In load adaptive mode the instrument performs the phase compensation before
// every measurement.
const (
	AdjustAuto         AdjustMode = 0
	AdjustManual       AdjustMode = 1
	AdjustLoadAdaptive AdjustMode = 2
)

// IsValid returns whether the mode is one of the ADJ phase compensation modes.
func (m AdjustMode) IsValid() bool {
	return m >= AdjustAuto && m <= AdjustLoadAdaptive
}

// String returns a human readable name of the phase compensation mode.
func (m AdjustMode) String() string {
	switch m {
	case AdjustAuto:
		return "auto"
	case AdjustManual:
		return "manual"
	case AdjustLoadAdaptive:
		return "load-adaptive"
	default:
		return "unknown"
	}
}

// AdjustRequestMode selects the operation mode of the ADJ? command.
type AdjustRequestMode int

// ADJ? operation modes: reuse the last compensation data, or perform a new
// compensation data measurement.
const (
	AdjustUseLast AdjustRequestMode = 0
	AdjustMeasure AdjustRequestMode = 1
)

// IsValid returns whether the mode is one of the ADJ? operation modes.
func (m AdjustRequestMode) IsValid() bool {
	return m == AdjustUseLast || m == AdjustMeasure
}

// String returns a human readable name of the ADJ? operation mode.
func (m AdjustRequestMode) String() string {
	switch m {
	case AdjustUseLast:
		return "use-last"
	case AdjustMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

// AdjustResult is the status the instrument reports for an ADJ? execution.
type AdjustResult int

// ADJ? execution results.
const (
	AdjustPassed       AdjustResult = 0
	AdjustFailed       AdjustResult = 1
	AdjustAborted      AdjustResult = 2
	AdjustNotPerformed AdjustResult = 3
)

// IsValid returns whether the value is one of the ADJ? execution results.
func (r AdjustResult) IsValid() bool {
	return r >= AdjustPassed && r <= AdjustNotPerformed
}

// String returns a human readable name of the ADJ? execution result.
func (r AdjustResult) String() string {
	switch r {
	case AdjustPassed:
		return "passed"
	case AdjustFailed:
		return "failed"
	case AdjustAborted:
		return "aborted"
	case AdjustNotPerformed:
		return "not-performed"
	default:
		return "unknown"
	}
}

// CorrectionResult is the status the instrument reports for a CORR?
// correction data measurement.
type CorrectionResult int

// CORR? execution results.
const (
	CorrectionSuccessful CorrectionResult = 0
	CorrectionFailed     CorrectionResult = 1
	CorrectionAborted    CorrectionResult = 2
)

// IsValid returns whether the value is one of the CORR? execution results.
func (r CorrectionResult) IsValid() bool {
	return r >= CorrectionSuccessful && r <= CorrectionAborted
}

// String returns a human readable name of the CORR? execution result.
func (r CorrectionResult) String() string {
	switch r {
	case CorrectionSuccessful:
		return "successful"
	case CorrectionFailed:
		return "failed"
	case CorrectionAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// CorrectionStatus is the on/off state the instrument reports for a CORRST? query.
type CorrectionStatus int

// CORRST? responses.
const (
	CorrectionOff CorrectionStatus = 0
	CorrectionOn  CorrectionStatus = 1
)

// IsValid returns whether the value is one of the CORRST? responses.
func (s CorrectionStatus) IsValid() bool {
	return s == CorrectionOff || s == CorrectionOn
}

// String returns "on" or "off".
func (s CorrectionStatus) String() string {
	switch s {
	case CorrectionOff:
		return "off"
	case CorrectionOn:
		return "on"
	default:
		return "unknown"
	}
}

// ClearMode selects the behavior of the CLCORR frequency list clear command.
type ClearMode int

// CLCORR modes: clear the correction frequency list, or clear it and load the
// instrument's default frequency list.
const (
	ClearOnly          ClearMode = 1
	ClearAndSetDefault ClearMode = 2
)

// IsValid returns whether the mode is one of the CLCORR modes.
func (m ClearMode) IsValid() bool {
	return m == ClearOnly || m == ClearAndSetDefault
}

// String returns a human readable name of the CLCORR mode.
func (m ClearMode) String() string {
	switch m {
	case ClearOnly:
		return "clear-only"
	case ClearAndSetDefault:
		return "clear-and-set-default"
	default:
		return "unknown"
	}
}

// RangingMode selects the measurement ranging of a capacitance trigger.
type RangingMode int

// TC ranging modes.
const (
	RangingAuto  RangingMode = 0
	RangingFixed RangingMode = 2
)

// IsValid returns whether the mode is one of the TC ranging modes.
func (m RangingMode) IsValid() bool {
	return m == RangingAuto || m == RangingFixed
}

// String returns a human readable name of the ranging mode.
func (m RangingMode) String() string {
	switch m {
	case RangingAuto:
		return "auto"
	case RangingFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// OutputFormat selects the data output format set by the FMT command.
type OutputFormat int

// FMT data output formats. Format 1 is the ASCII format with the
// status/channel/data-type header this library's response parser decodes.
const (
	FormatASCIIHeaderCRLF   OutputFormat = 1
	FormatASCIINoHeaderCRLF OutputFormat = 2
	FormatASCIIHeaderComma  OutputFormat = 5
)

// IsValid returns whether the value is one of the supported FMT output formats.
func (f OutputFormat) IsValid() bool {
	return f == FormatASCIIHeaderCRLF || f == FormatASCIINoHeaderCRLF || f == FormatASCIIHeaderComma
}

// String returns the integer code of the output format.
func (f OutputFormat) String() string {
	return strconv.Itoa(int(f))
}

// UntMode selects the UNT? response detail level.
type UntMode int

// UNT? modes: report module models with or without revision numbers.
const (
	UntModelAndRevision UntMode = 0
	UntModelOnly        UntMode = 1
)

// IsValid returns whether the value is one of the UNT? modes.
func (m UntMode) IsValid() bool {
	return m == UntModelAndRevision || m == UntModelOnly
}

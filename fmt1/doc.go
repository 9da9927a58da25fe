// Package fmt1 decodes the ASCII data output of the Keysight B1500
// semiconductor parameter analyzer, as produced in its "FMT 1" output
// format: one or more fields, each an optional three character
// status/channel/data-type prefix followed by a signed fixed-width
// exponential number, e.g.
//
//	NAC+001.234000E-03NAY+005.678000E-06
//
// Parse validates a response against the field layout the issuing command
// declares and returns the decoded fields in response order. The package
// also decodes the instrument's structured plain text responses: correction
// reference values, error status, unit lists and identification strings.
package fmt1

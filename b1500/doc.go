// Package b1500 drives a Keysight B1500 semiconductor device analyzer.
// A Mainframe owns the command/response exchange, the device error queue
// and a registry of the plug-in modules addressed so far; the CMU module
// handle performs capacitance measurements and carries the stateful
// open/short/load correction and phase compensation procedures.
package b1500

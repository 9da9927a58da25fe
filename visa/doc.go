// Package visa provides the transport layer used to talk to an instrument:
// a Device interface modeling a blocking ASCII request/response channel
// with a mutable response timeout, TCP and serial port implementations, a
// scoped timeout override for long running operations, and a mock device
// for consumer tests.
package visa

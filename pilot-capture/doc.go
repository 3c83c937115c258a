// Package pilot_capture records the traffic of the device's HTTP engine as
// a stream of CBOR-encoded events: one per parsed request, one per response
// and one per connection state transition.
//
// Capture is optional. Pass NoopLogger to disable it, a FileLogger to keep a
// replayable log, or a MultiLogger to fan out to several sinks, e.g. a
// FileLogger and a SlogAdapter for console output during development.
//
// Files written by FileLogger are read back with Reader, optionally through
// a Filter.
package pilot_capture

// Package scan consumes the tracker's streaming scan endpoints.
//
// A scan response is a chunked body of "data: {json}" lines. FrameDecoder
// turns arbitrary byte chunks into complete lines, ParseLine turns a line into
// a typed Event, Snapshot.Apply folds events into the progress state and
// Controller drives one session at a time and pushes every new Snapshot to an
// Observer.
package scan

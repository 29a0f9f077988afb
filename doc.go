// Package coroutine implements a cooperative coroutine runtime: a scheduler
// that drives logical coroutine threads through a per-tick loop, and a
// snapshot engine that can externalize a suspended generator frame into a
// plain FrameSnapshot record and rebuild a resumable generator from one.
//
// Generators are not a Go language construct the runtime can introspect on
// its own. Instead, each generator method registers a GeneratorDescriptor
// that knows how to read and write its state, current yield, receiver,
// arguments and hoisted locals. The registry is the only thing the snapshot
// engine ever consults; it never reaches into a generator's private layout.
package coroutine

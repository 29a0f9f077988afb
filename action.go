package coroutine

import "time"

// GenStart pairs a Generator with the Identifier of the descriptor that
// produced it. The pairing travels with every action that pushes a new
// frame, because the stack needs to know which descriptor governs a frame
// in order to snapshot it later; a bare Generator value carries no
// self-describing identity of its own.
type GenStart struct {
	ID  Identifier
	Gen Generator
}

// CoroutineAction is the sum type of directives a generator body yields to
// the driver. The source this runtime is modeled on classifies yielded
// values with runtime type checks against a handful of concrete types; here
// we prefer a closed tagged variant: only this package can implement
// CoroutineAction, and the driver's switch in thread.go faults the thread
// with ProtocolError on any value it does not recognize.
type CoroutineAction interface {
	coroutineAction()
}

// NullYield tells the driver to continue on the next tick without pushing
// or popping any frame.
type NullYield struct{}

func (NullYield) coroutineAction() {}

// Nested pushes Start onto the current thread's stack; the driver continues
// immediately within the same tick rather than waiting for the next one.
type Nested struct{ Start GenStart }

func (Nested) coroutineAction() {}

// Execute is an alias of Nested kept for call-site readability at the
// generator-body author's end; it constructs the same action.
func Execute(id Identifier, gen Generator) CoroutineAction {
	return Nested{Start: GenStart{ID: id, Gen: gen}}
}

// Delay is equivalent to pushing a generator that yields NullYield until
// the owning executor's clock reaches the moment Delay was yielded plus
// Duration.
type Delay struct{ Duration time.Duration }

func (Delay) coroutineAction() {}

// Parallel starts each of Starts as an independent top-level thread on the
// current executor, then yields NullYield repeatedly until either any
// child faults (surfacing immediately) or every child finishes.
type Parallel struct{ Starts []GenStart }

func (Parallel) coroutineAction() {}

// Result sets the owning thread's transient result slot to Value and pops
// the yielding frame. The value is observable for exactly one subsequent
// step of the new top frame, then cleared. If the pop empties the stack,
// the thread finishes and the value stays readable.
type Result struct{ Value any }

func (Result) coroutineAction() {}

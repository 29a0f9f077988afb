package coroutine

import (
	"log/slog"
	"time"
)

// CoroutineExecutor owns a set of CoroutineThreads, a monotonic clock, and
// the per-tick driver that advances every living thread once. An executor
// must be confined to a single goroutine for its entire lifetime; nothing
// in this package synchronizes concurrent access (§5).
type CoroutineExecutor struct {
	threads    []*CoroutineThread
	time       time.Duration
	executing  *CoroutineThread
	nextSerial int
	log        *slog.Logger
}

// Option configures a CoroutineExecutor at construction time.
type Option func(*CoroutineExecutor)

// WithLogger injects a structured logger. The default is slog.Default(), so
// callers that don't care about diagnostics never need to touch this.
func WithLogger(logger *slog.Logger) Option {
	return func(x *CoroutineExecutor) { x.log = logger }
}

// NewExecutor creates an empty CoroutineExecutor.
func NewExecutor(opts ...Option) *CoroutineExecutor {
	x := &CoroutineExecutor{log: slog.Default()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Time returns the executor's current logical clock value.
func (x *CoroutineExecutor) Time() time.Duration { return x.time }

// Threads returns a snapshot slice of the executor's threads in insertion
// order. The slice is owned by the caller; mutating it has no effect on the
// executor.
func (x *CoroutineExecutor) Threads() []*CoroutineThread {
	out := make([]*CoroutineThread, len(x.threads))
	copy(out, x.threads)
	return out
}

// Start creates a new thread running gen (registered under id) and appends
// it to the executor. It fails with InvalidArgument if gen is nil.
func (x *CoroutineExecutor) Start(id Identifier, gen Generator) (*CoroutineThread, error) {
	if gen == nil {
		return nil, newError(InvalidArgument, "Start requires a non-nil generator", nil)
	}
	x.nextSerial++
	t := &CoroutineThread{
		serial:   x.nextSerial,
		stack:    []GenStart{{ID: id, Gen: gen}},
		status:   Yielded,
		executor: x,
	}
	x.threads = append(x.threads, t)
	x.log.Debug("coroutine thread started", "serial", t.serial, "method", id.String())
	return t, nil
}

// Tick advances every living thread by exactly one drive step, in
// insertion order, and increments the executor's clock by elapsed. Threads
// appended during the tick (by Start or by a Parallel action dispatched
// from a running generator) are driven within the same tick: the loop
// walks threads by index and re-reads the slice length on every iteration,
// a deliberate, documented choice for the "mid-tick append" ambiguity noted
// in the design (the alternative — deferring new threads to the next tick —
// is equally valid but was not the choice made here).
//
// Tick rejects a negative elapsed and rejects reentrant calls (a generator
// body must never call Tick on its own executor). It returns the number of
// threads that are not yet Finished or Faulted, and the first UserError or
// ProtocolError raised by any thread during this tick, if any — matching
// the propagation policy of §7, which requires hosts to observe a fault
// immediately rather than only by polling thread status later.
func (x *CoroutineExecutor) Tick(elapsed time.Duration) (aliveCount int, err error) {
	if elapsed < 0 {
		return 0, newError(InvalidArgument, "elapsed must not be negative", nil)
	}
	if x.executing != nil {
		return 0, newError(InvalidState, "Tick is not reentrant", nil)
	}

	x.compact()
	x.time += elapsed

	var firstFault error
	for i := 0; i < len(x.threads); i++ {
		t := x.threads[i]
		if t.status == Finished || t.status == Faulted {
			continue
		}
		x.executing = t
		stepErr := t.advance(elapsed)
		x.executing = nil
		if stepErr != nil {
			x.log.Warn("coroutine thread faulted", "serial", t.serial, "error", stepErr)
			if firstFault == nil {
				firstFault = stepErr
			}
		}
	}

	for _, t := range x.threads {
		if t.status != Finished && t.status != Faulted {
			aliveCount++
		}
	}
	return aliveCount, firstFault
}

// compact drops threads that had already Finished at the start of a tick,
// so long-running executors don't accumulate completed threads forever.
// Faulted threads are kept, so a Parallel join whose child faulted in an
// earlier tick still finds that child and surfaces its fault. Threads are
// only ever dropped here after their own Dispose ran; nothing else removes
// a thread from the executor (§3).
func (x *CoroutineExecutor) compact() {
	live := x.threads[:0]
	for _, t := range x.threads {
		if t.status == Finished {
			continue
		}
		live = append(live, t)
	}
	x.threads = live
}

// Delay returns the Identifier/Generator pair driving a NullYield loop
// until the executor's clock reaches x.Time()+duration, per §4.5. The same
// generator type backs the CoroutineAction Delay shorthand, so yielding
// Delay{d} and pushing Execute(x.Delay(d)) are exactly equivalent.
func (x *CoroutineExecutor) Delay(duration time.Duration) (Identifier, Generator) {
	return delayGeneratorID, newDelayGenerator(x.time + duration)
}

// Parallel starts each of starts as an independent top-level thread and
// returns the Identifier/Generator pair of a join frame that yields
// NullYield until either every child has finished, or any child has
// faulted — in which case the join frame's next Step returns that child's
// fault, per the cancellation semantics of §4.5: Parallel is a join point,
// not an owning scope, so the other children keep running.
func (x *CoroutineExecutor) Parallel(starts ...GenStart) (Identifier, Generator, error) {
	gen, err := x.startParallel(starts)
	if err != nil {
		return Identifier{}, nil, err
	}
	return parallelGeneratorID, gen, nil
}

func (x *CoroutineExecutor) startParallel(starts []GenStart) (Generator, error) {
	if len(starts) == 0 {
		return nil, newError(InvalidArgument, "Parallel requires at least one child", nil)
	}
	serials := make([]int, 0, len(starts))
	for _, start := range starts {
		t, err := x.Start(start.ID, start.Gen)
		if err != nil {
			return nil, err
		}
		serials = append(serials, t.serial)
	}
	return newParallelGenerator(serials), nil
}

func (x *CoroutineExecutor) threadBySerial(serial int) *CoroutineThread {
	for _, t := range x.threads {
		if t.serial == serial {
			return t
		}
	}
	return nil
}

func (x *CoroutineExecutor) threadDisposed(t *CoroutineThread) {
	x.log.Debug("coroutine thread disposed", "serial", t.serial, "status", t.status.String())
}

// Finish drives ticks using a wall-clock source, scaled by factor (factor
// <= 0 is treated as 1), until Tick reports zero living threads.
func (x *CoroutineExecutor) Finish(factor float64) error {
	if factor <= 0 {
		factor = 1
	}
	last := time.Now()
	for {
		now := time.Now()
		dt := time.Duration(float64(now.Sub(last)) * factor)
		last = now
		alive, err := x.Tick(dt)
		if err != nil {
			return err
		}
		if alive == 0 {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

// Dispose disposes every remaining thread in reverse insertion order.
func (x *CoroutineExecutor) Dispose() {
	for i := len(x.threads) - 1; i >= 0; i-- {
		x.threads[i].Dispose(nil)
	}
}

package coroutine

import "time"

// Status is the externally observable state of a CoroutineThread. Status is
// only ever Executing while the driver is actually inside a Step call on
// the thread's top frame; callers never observe Executing themselves,
// since Tick never returns while a thread is mid-step.
type Status int

const (
	Yielded Status = iota
	Executing
	Finished
	Faulted
)

func (s Status) String() string {
	switch s {
	case Yielded:
		return "Yielded"
	case Executing:
		return "Executing"
	case Finished:
		return "Finished"
	case Faulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// CoroutineThread is a single logical coroutine: a LIFO stack of suspended
// generator frames, owned by exactly one CoroutineExecutor. It is not an OS
// thread.
type CoroutineThread struct {
	serial   int
	stack    []GenStart
	status   Status
	err      error
	result   any
	hasResult bool
	elapsed  time.Duration
	tag      any
	executor *CoroutineExecutor
}

// Status returns the thread's current status.
func (t *CoroutineThread) Status() Status { return t.status }

// Exception returns the error that faulted the thread, or nil.
func (t *CoroutineThread) Exception() error { return t.err }

// FrameCount returns the number of suspended frames on the thread's stack.
// A disposed thread always has FrameCount() == 0.
func (t *CoroutineThread) FrameCount() int { return len(t.stack) }

// Elapsed returns the cumulative duration this thread has been advanced by
// its owning executor's ticks.
func (t *CoroutineThread) Elapsed() time.Duration { return t.elapsed }

// Tag returns the caller-assigned tag, or nil if none was set.
func (t *CoroutineThread) Tag() any { return t.tag }

// SetTag attaches an arbitrary caller-defined value to the thread.
func (t *CoroutineThread) SetTag(tag any) { t.tag = tag }

// Serial returns the thread's stable, executor-scoped identifier, usable to
// address it again after a Parallel composition or a snapshot round-trip.
func (t *CoroutineThread) Serial() int { return t.serial }

// GetResult reports the thread's transient result slot. A Result action
// that pops a frame fills it for the single step immediately following,
// on the new top frame; every other step observes ok == false. When the
// popped frame was the last one, the thread finishes and its final result
// stays readable.
func (t *CoroutineThread) GetResult() (value any, ok bool) {
	return t.result, t.hasResult
}

// GetResultOrDefault returns the result value, or def if none is currently
// available.
func (t *CoroutineThread) GetResultOrDefault(def any) any {
	if t.hasResult {
		return t.result
	}
	return def
}

// Dispose idempotently terminates the thread: every frame on the stack is
// closed top-down (frames implementing Closer have Close called), the
// status becomes Faulted if err is non-nil else Finished, and the owning
// executor is notified. Calling Dispose on an already-terminal thread is a
// no-op.
func (t *CoroutineThread) Dispose(err error) {
	if t.status == Finished || t.status == Faulted {
		return
	}
	for i := len(t.stack) - 1; i >= 0; i-- {
		if closer, ok := t.stack[i].Gen.(Closer); ok {
			_ = closer.Close()
		}
	}
	t.stack = nil
	if err != nil {
		t.err = err
		t.status = Faulted
	} else {
		t.status = Finished
	}
	if t.executor != nil {
		t.executor.threadDisposed(t)
	}
}

// advance runs the thread's drive step once: it repeatedly steps the
// top-of-stack frame, applying the action semantics of §4.3, until the
// thread either yields to the next tick or terminates. dt is the elapsed
// time of the current tick, applied to t.elapsed before driving begins.
// It returns the fault that terminated the thread this call, if any, so
// the owning executor can re-raise it to the caller of Tick per §7.
func (t *CoroutineThread) advance(dt time.Duration) error {
	if t.status == Finished || t.status == Faulted {
		return nil
	}
	t.elapsed += dt
	pop := pushCurrent(t.executor, t)
	defer pop()

	t.hasResult = false

	for {
		t.status = Executing
		if len(t.stack) == 0 {
			t.status = Finished
			return nil
		}
		top := t.stack[len(t.stack)-1]

		action, done, err := top.Gen.Step()

		t.status = Yielded
		t.hasResult = false

		if err != nil {
			fault := newError(UserError, "generator body raised an error", err)
			t.Dispose(fault)
			return fault
		}

		if done {
			t.popFrame()
			if len(t.stack) == 0 {
				t.Dispose(nil)
				return nil
			}
			continue
		}

		switch a := action.(type) {
		case NullYield:
			return nil
		case Nested:
			t.stack = append(t.stack, a.Start)
		case Delay:
			id, gen := t.executor.Delay(a.Duration)
			t.stack = append(t.stack, GenStart{ID: id, Gen: gen})
		case Parallel:
			gen, perr := t.executor.startParallel(a.Starts)
			if perr != nil {
				t.Dispose(perr)
				return perr
			}
			t.stack = append(t.stack, GenStart{ID: parallelGeneratorID, Gen: gen})
		case Result:
			t.result = a.Value
			t.hasResult = true
			t.popFrame()
			if len(t.stack) == 0 {
				t.Dispose(nil)
				return nil
			}
		default:
			fault := newError(ProtocolError, "generator yielded an unrecognized action", nil)
			t.Dispose(fault)
			return fault
		}
	}
}

// popFrame pops the top frame, closing it if it implements Closer.
func (t *CoroutineThread) popFrame() {
	top := t.stack[len(t.stack)-1]
	if closer, ok := top.Gen.(Closer); ok {
		_ = closer.Close()
	}
	t.stack = t.stack[:len(t.stack)-1]
}

package coroutine

import "time"

// FrameSnapshot is the neutral record capturing one suspended generator
// frame: its method identity, program-counter state number, last yielded
// value, optional capturing receiver, and its arguments and hoisted
// locals. It is plain data; nothing in this package reaches back into the
// generator that produced it.
type FrameSnapshot struct {
	MethodID Identifier
	State    int
	Current  any
	Receiver any
	Args     map[string]any
	Locals   map[string]any
}

// ExecutorSnapshot captures an entire CoroutineExecutor: its clock, and for
// every thread the full stack of FrameSnapshots from bottom to top. Per
// §6's record layout, it does not carry a stable per-thread identifier, so
// a thread referencing sibling threads by serial — the only case in this
// runtime is a pending Parallel join frame, whose locals hold the serials
// of the children it is waiting on — will not resolve those references
// correctly across a capture/rehydrate round trip, since rehydration
// assigns each thread a fresh serial. Round-tripping an executor that has
// no in-flight Parallel joins (e.g. a lone Delay, as in scenario S6) is
// unaffected.
type ExecutorSnapshot struct {
	Time    time.Duration
	Threads [][]FrameSnapshot
}

// SnapshotEngine performs the bidirectional conversion between a live
// Generator and a FrameSnapshot, consulting a GeneratorRegistry so it never
// needs to know a generator's internal layout.
type SnapshotEngine struct {
	Registry *GeneratorRegistry
}

// NewSnapshotEngine creates a SnapshotEngine backed by registry.
func NewSnapshotEngine(registry *GeneratorRegistry) *SnapshotEngine {
	return &SnapshotEngine{Registry: registry}
}

// Capture externalizes a live generator's current frame. id must name the
// descriptor that produced gen. It fails with UnknownGenerator if id isn't
// registered.
func (e *SnapshotEngine) Capture(id Identifier, gen Generator) (FrameSnapshot, error) {
	descriptor, err := e.Registry.Lookup(id)
	if err != nil {
		return FrameSnapshot{}, err
	}
	state, current, receiver, args, locals := descriptor.introspect(gen)
	return FrameSnapshot{
		MethodID: id,
		State:    state,
		Current:  current,
		Receiver: receiver,
		Args:     args,
		Locals:   locals,
	}, nil
}

// Rehydrate instantiates a fresh generator of snap.MethodID seeded with the
// captured state, current yield, receiver, arguments and locals, such that
// its next Step reproduces the behavior the captured generator would have
// had at its next step. It fails with UnknownGenerator if snap.MethodID
// isn't registered. Argument/local names the descriptor doesn't recognize
// are silently dropped, matching the tolerant default policy of §4.2.
func (e *SnapshotEngine) Rehydrate(snap FrameSnapshot) (Generator, error) {
	descriptor, err := e.Registry.Lookup(snap.MethodID)
	if err != nil {
		return nil, err
	}
	return descriptor.instantiate(snap.State, snap.Current, snap.Receiver, snap.Args, snap.Locals), nil
}

// CaptureThread walks t's frame stack bottom to top, capturing each frame.
// It fails with InvalidState if the executor is mid-tick (t.executor's
// executing slot is non-nil), matching the "capture MUST be rejected while
// executing" rule of §4.5.
func (e *SnapshotEngine) CaptureThread(t *CoroutineThread) ([]FrameSnapshot, error) {
	if t.executor != nil && t.executor.executing != nil {
		return nil, newError(InvalidState, "cannot capture a thread while its executor is ticking", nil)
	}
	snaps := make([]FrameSnapshot, 0, len(t.stack))
	for _, f := range t.stack {
		snap, err := e.Capture(f.ID, f.Gen)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// RehydrateThread inverts CaptureThread: it rebuilds each frame from snaps
// (bottom to top) and pushes them onto a new CoroutineThread owned by
// executor.
func (e *SnapshotEngine) RehydrateThread(executor *CoroutineExecutor, snaps []FrameSnapshot) (*CoroutineThread, error) {
	if len(snaps) == 0 {
		return nil, newError(InvalidArgument, "cannot rehydrate a thread with zero frames", nil)
	}
	executor.nextSerial++
	t := &CoroutineThread{status: Yielded, executor: executor, serial: executor.nextSerial}
	for _, snap := range snaps {
		gen, err := e.Rehydrate(snap)
		if err != nil {
			return nil, err
		}
		t.stack = append(t.stack, GenStart{ID: snap.MethodID, Gen: gen})
	}
	return t, nil
}

// CaptureExecutor walks every thread of x via CaptureThread and returns the
// resulting ExecutorSnapshot. It fails with InvalidState if x is mid-tick.
func (e *SnapshotEngine) CaptureExecutor(x *CoroutineExecutor) (ExecutorSnapshot, error) {
	if x.executing != nil {
		return ExecutorSnapshot{}, newError(InvalidState, "cannot capture an executor while it is ticking", nil)
	}
	snap := ExecutorSnapshot{Time: x.time, Threads: make([][]FrameSnapshot, 0, len(x.threads))}
	for _, t := range x.threads {
		if t.status == Finished || t.status == Faulted {
			continue
		}
		frames, err := e.CaptureThread(t)
		if err != nil {
			return ExecutorSnapshot{}, err
		}
		snap.Threads = append(snap.Threads, frames)
	}
	return snap, nil
}

// RehydrateExecutor inverts CaptureExecutor: it creates a new executor set
// to snap.Time and rehydrates each thread list onto it.
func (e *SnapshotEngine) RehydrateExecutor(snap ExecutorSnapshot) (*CoroutineExecutor, error) {
	x := NewExecutor()
	x.time = snap.Time
	for _, frames := range snap.Threads {
		t, err := e.RehydrateThread(x, frames)
		if err != nil {
			return nil, err
		}
		x.threads = append(x.threads, t)
	}
	return x, nil
}

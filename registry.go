package coroutine

import "fmt"

// Generator is the minimal contract a running coroutine frame must satisfy
// so the executor can drive it. Step advances the generator by exactly one
// logical step: it either yields a CoroutineAction, or reports that the
// generator has completed. Host-language generator bodies that have no way
// to expose this directly (true of Go, which has no native generator
// construct) are expected to be written as small explicit state machines
// implementing this interface by hand, or produced by a code generator —
// the registry does not care which.
type Generator interface {
	Step() (action CoroutineAction, done bool, err error)
}

// Closer is implemented by generators that hold resources which must be
// released when their frame is popped off a thread's stack, whether it
// completed normally or was disposed early.
type Closer interface {
	Close() error
}

// FieldAccessor reads and writes one named field (an argument or a hoisted
// local) on a live generator value.
type FieldAccessor struct {
	Get func(gen Generator) any
	Set func(gen Generator, value any)
}

// GeneratorDescriptor is the registered adapter between a live Generator
// value and the neutral FrameSnapshot record. It is the sole source of
// truth the SnapshotEngine consults; it never reasons about a generator's
// internal layout on its own.
type GeneratorDescriptor struct {
	ID Identifier

	// New constructs a fresh generator seeded at the given state number,
	// before any of the accessors below are applied. It corresponds to the
	// "zero-arg constructor taking the initial state value" of §4.1.
	New func(state int) Generator

	StateGet   func(gen Generator) int
	StateSet   func(gen Generator, state int)
	CurrentGet func(gen Generator) any
	CurrentSet func(gen Generator, value any)

	// ReceiverGet/ReceiverSet are nil when the generator method has no
	// capturing receiver.
	ReceiverGet func(gen Generator) any
	ReceiverSet func(gen Generator, value any)

	Args   map[string]FieldAccessor
	Locals map[string]FieldAccessor
}

// introspect implements GeneratorDescriptor.introspect from §4.1: it reads
// every field the descriptor knows about off a live generator.
func (d *GeneratorDescriptor) introspect(gen Generator) (state int, current any, receiver any, args, locals map[string]any) {
	state = d.StateGet(gen)
	current = d.CurrentGet(gen)
	if d.ReceiverGet != nil {
		receiver = d.ReceiverGet(gen)
	}
	args = make(map[string]any, len(d.Args))
	for name, acc := range d.Args {
		args[name] = acc.Get(gen)
	}
	locals = make(map[string]any, len(d.Locals))
	for name, acc := range d.Locals {
		locals[name] = acc.Get(gen)
	}
	return
}

// instantiate implements GeneratorDescriptor.instantiate from §4.1: it
// builds a fresh generator at the given state and applies every supplied
// field through the declared accessors. Keys in args/locals that the
// descriptor does not recognize are silently dropped (the tolerant, default
// policy of §4.2); strict mode is left to callers that want to check
// SchemaMismatch themselves before calling Rehydrate.
func (d *GeneratorDescriptor) instantiate(state int, current, receiver any, args, locals map[string]any) Generator {
	gen := d.New(state)
	d.StateSet(gen, state)
	d.CurrentSet(gen, current)
	if d.ReceiverSet != nil && receiver != nil {
		d.ReceiverSet(gen, receiver)
	}
	for name, value := range args {
		if acc, ok := d.Args[name]; ok {
			acc.Set(gen, value)
		}
	}
	for name, value := range locals {
		if acc, ok := d.Locals[name]; ok {
			acc.Set(gen, value)
		}
	}
	return gen
}

// GeneratorRegistry is the catalog of GeneratorDescriptor values keyed by
// Identifier. A process typically has one package-level registry per
// generator namespace; tests may construct private registries to avoid
// cross-test interference.
type GeneratorRegistry struct {
	descriptors map[Identifier]*GeneratorDescriptor
}

// NewGeneratorRegistry creates a registry pre-populated with descriptors
// for the runtime's own built-in Delay and Parallel join generators, so
// that executor snapshots taken mid-delay or mid-join can be captured and
// rehydrated without extra setup (a rehydrated join's child serials do not
// resolve; see ExecutorSnapshot). User generator methods are layered on
// top by calling Register.
func NewGeneratorRegistry() *GeneratorRegistry {
	r := &GeneratorRegistry{descriptors: make(map[Identifier]*GeneratorDescriptor)}
	registerBuiltins(r)
	return r
}

// Register binds id to descriptor. It fails with DuplicateDescriptor if id
// is already bound.
func (r *GeneratorRegistry) Register(id Identifier, descriptor *GeneratorDescriptor) error {
	if _, ok := r.descriptors[id]; ok {
		return newError(DuplicateDescriptor, fmt.Sprintf("generator %s already registered", id), nil)
	}
	descriptor.ID = id
	r.descriptors[id] = descriptor
	return nil
}

// Lookup returns the descriptor bound to id. It fails with UnknownGenerator
// if none is registered.
func (r *GeneratorRegistry) Lookup(id Identifier) (*GeneratorDescriptor, error) {
	d, ok := r.descriptors[id]
	if !ok {
		return nil, newError(UnknownGenerator, fmt.Sprintf("generator %s not registered", id), nil)
	}
	return d, nil
}

package coroutine

import "time"

// delayGeneratorID and parallelGeneratorID name the two built-in generator
// methods the runtime itself pushes onto a thread's stack to implement the
// Delay and Parallel actions (§4.3). Every GeneratorRegistry created by
// NewGeneratorRegistry pre-registers descriptors for both, so a thread
// mid-delay or mid-join can be captured and rehydrated without the caller
// having to know these identifiers exist. A rehydrated join frame still
// holds its children's old serials, which do not resolve on the new
// executor (see ExecutorSnapshot).
var (
	delayGeneratorID    = Identifier{Scope: "coroutine", Method: "delay"}
	parallelGeneratorID = Identifier{Scope: "coroutine", Method: "parallel"}
)

// delayGenerator backs both the Delay action and CoroutineExecutor.Delay.
// It yields NullYield while the ambient current executor's clock is strictly
// less than End, and completes on the first step at which the clock has
// reached End, exact equality included.
type delayGenerator struct {
	End time.Duration
}

func newDelayGenerator(end time.Duration) *delayGenerator {
	return &delayGenerator{End: end}
}

func (g *delayGenerator) Step() (CoroutineAction, bool, error) {
	x := CurrentExecutor()
	if x == nil {
		return nil, false, newError(InvalidState, "delay generator stepped outside of a drive step", nil)
	}
	if x.time < g.End {
		return NullYield{}, false, nil
	}
	return nil, true, nil
}

var delayDescriptor = &GeneratorDescriptor{
	New: func(state int) Generator { return &delayGenerator{} },
	// A delay frame only ever exists on a stack while pending (Step pops it
	// the instant it completes), so state has exactly one live value.
	StateGet:   func(gen Generator) int { return 0 },
	StateSet:   func(gen Generator, state int) {},
	CurrentGet: func(gen Generator) any { return nil },
	CurrentSet: func(gen Generator, value any) {},
	Locals: map[string]FieldAccessor{
		"end": {
			Get: func(gen Generator) any { return int64(gen.(*delayGenerator).End) },
			Set: func(gen Generator, value any) {
				if ns, ok := value.(int64); ok {
					gen.(*delayGenerator).End = time.Duration(ns)
				}
			},
		},
	},
}

// parallelGenerator backs both the Parallel action and
// CoroutineExecutor.Parallel. It polls the executor-owned children named by
// Serials and completes once every child is Finished, or immediately (with
// that child's fault) as soon as any child is Faulted — the cancellation
// semantics of §4.5: the join frame completes, but the other children are
// left running.
type parallelGenerator struct {
	Serials []int
}

func newParallelGenerator(serials []int) *parallelGenerator {
	return &parallelGenerator{Serials: serials}
}

func (g *parallelGenerator) Step() (CoroutineAction, bool, error) {
	x := CurrentExecutor()
	if x == nil {
		return nil, false, newError(InvalidState, "parallel generator stepped outside of a drive step", nil)
	}
	allFinished := true
	for _, serial := range g.Serials {
		child := x.threadBySerial(serial)
		if child == nil {
			continue // already compacted away: it finished cleanly in an earlier tick
		}
		switch child.status {
		case Faulted:
			return nil, true, child.err
		case Finished:
			// nothing to do
		default:
			allFinished = false
		}
	}
	if allFinished {
		return nil, true, nil
	}
	return NullYield{}, false, nil
}

var parallelDescriptor = &GeneratorDescriptor{
	New: func(state int) Generator { return &parallelGenerator{} },
	StateGet: func(gen Generator) int {
		return len(gen.(*parallelGenerator).Serials)
	},
	StateSet:   func(gen Generator, state int) {},
	CurrentGet: func(gen Generator) any { return nil },
	CurrentSet: func(gen Generator, value any) {},
	Locals: map[string]FieldAccessor{
		"serials": {
			Get: func(gen Generator) any { return gen.(*parallelGenerator).Serials },
			Set: func(gen Generator, value any) {
				if serials, ok := value.([]int); ok {
					gen.(*parallelGenerator).Serials = serials
				}
			},
		},
	},
}

func registerBuiltins(r *GeneratorRegistry) {
	r.descriptors[delayGeneratorID] = delayDescriptor
	r.descriptors[parallelGeneratorID] = parallelDescriptor
}

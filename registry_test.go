package coroutine

import "testing"

type constGen struct {
	state   int
	current any
}

func (g *constGen) Step() (CoroutineAction, bool, error) {
	if g.state == 0 {
		g.state = 1
		return NullYield{}, false, nil
	}
	return nil, true, nil
}

func testDescriptor() *GeneratorDescriptor {
	return &GeneratorDescriptor{
		New:        func(state int) Generator { return &constGen{state: state} },
		StateGet:   func(g Generator) int { return g.(*constGen).state },
		StateSet:   func(g Generator, s int) { g.(*constGen).state = s },
		CurrentGet: func(g Generator) any { return g.(*constGen).current },
		CurrentSet: func(g Generator, v any) { g.(*constGen).current = v },
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	r := NewGeneratorRegistry()
	id := NewIdentifier("const")
	if err := r.Register(id, testDescriptor()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	d, err := r.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	gen := d.New(0)
	gen.(*constGen).current = "hello"
	state, current, _, _, _ := d.introspect(gen)
	gen2 := d.instantiate(state, current, nil, nil, nil)
	state2, current2, _, _, _ := d.introspect(gen2)

	if state2 != state || current2 != current {
		t.Fatalf("round trip mismatch: got (%v,%v) want (%v,%v)", state2, current2, state, current)
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewGeneratorRegistry()
	id := NewIdentifier("dup")
	if err := r.Register(id, testDescriptor()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := r.Register(id, testDescriptor())
	if err == nil {
		t.Fatal("expected DuplicateDescriptor error")
	}
	if ce, ok := err.(*Error); !ok || ce.Kind != DuplicateDescriptor {
		t.Fatalf("expected DuplicateDescriptor, got %v", err)
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewGeneratorRegistry()
	_, err := r.Lookup(NewIdentifier("nope"))
	ce, ok := err.(*Error)
	if !ok || ce.Kind != UnknownGenerator {
		t.Fatalf("expected UnknownGenerator, got %v", err)
	}
}

func TestRegistryPrePopulatesBuiltins(t *testing.T) {
	r := NewGeneratorRegistry()
	if _, err := r.Lookup(delayGeneratorID); err != nil {
		t.Fatalf("expected built-in delay descriptor registered: %v", err)
	}
	if _, err := r.Lookup(parallelGeneratorID); err != nil {
		t.Fatalf("expected built-in parallel descriptor registered: %v", err)
	}
}

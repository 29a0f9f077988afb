package coroutine

import (
	"errors"
	"testing"
	"time"
)

func TestStartRejectsNilGenerator(t *testing.T) {
	x := NewExecutor()
	if _, err := x.Start(NewIdentifier("nil"), nil); err == nil {
		t.Fatal("expected InvalidArgument for a nil generator")
	}
}

func TestTickRejectsNegativeElapsed(t *testing.T) {
	x := NewExecutor()
	if _, err := x.Tick(-time.Second); err == nil {
		t.Fatal("expected InvalidArgument for negative elapsed")
	}
}

func TestTickZeroIsLegal(t *testing.T) {
	x := NewExecutor()
	if _, err := x.Start(NewIdentifier("forever"), runForeverGen{}); err != nil {
		t.Fatal(err)
	}
	alive, err := x.Tick(0)
	if err != nil {
		t.Fatal(err)
	}
	if alive != 1 {
		t.Fatalf("alive = %d, want 1", alive)
	}
	if x.Time() != 0 {
		t.Fatalf("time advanced on a zero tick: %v", x.Time())
	}
}

// reentrantGen calls Tick on its own executor, which must be rejected.
type reentrantGen struct{ x *CoroutineExecutor }

func (g *reentrantGen) Step() (CoroutineAction, bool, error) {
	_, err := g.x.Tick(0)
	if err == nil {
		return nil, false, errors.New("reentrant Tick should have failed")
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Kind != InvalidState {
		return nil, false, errors.New("expected InvalidState")
	}
	return nil, true, nil
}

func TestTickRejectsReentrance(t *testing.T) {
	x := NewExecutor()
	g := &reentrantGen{}
	g.x = x
	if _, err := x.Start(NewIdentifier("reentrant"), g); err != nil {
		t.Fatal(err)
	}
	if _, err := x.Tick(0); err != nil {
		t.Fatal(err)
	}
}

type faultImmediatelyGen struct{}

func (faultImmediatelyGen) Step() (CoroutineAction, bool, error) {
	return nil, false, errors.New("child failed")
}

// TestParallelSurfacesFirstFault verifies the cancellation semantics of
// §4.5: the composing Parallel frame completes with the faulted child's
// error, but the surviving sibling is left running rather than disposed.
func TestParallelSurfacesFirstFault(t *testing.T) {
	x := NewExecutor()
	badID, bad := NewIdentifier("bad-child"), Generator(faultImmediatelyGen{})
	goodID, good := x.Delay(10 * time.Second)

	pid, pgen, err := x.Parallel(GenStart{ID: badID, Gen: bad}, GenStart{ID: goodID, Gen: good})
	if err != nil {
		t.Fatal(err)
	}
	parent, err := x.Start(pid, pgen)
	if err != nil {
		t.Fatal(err)
	}

	_, tickErr := x.Tick(0)
	if tickErr == nil {
		t.Fatal("expected the faulted child's error to surface")
	}
	if parent.Status() != Faulted {
		t.Fatalf("parent status = %v, want Faulted", parent.Status())
	}

	var survivors int
	for _, th := range x.Threads() {
		if th.Serial() == parent.Serial() {
			continue
		}
		if th.Status() == Yielded {
			survivors++
		}
	}
	if survivors != 1 {
		t.Fatalf("expected exactly one surviving sibling still Yielded, got %d", survivors)
	}
}

func TestExecutorDisposeReverseOrder(t *testing.T) {
	x := NewExecutor()
	var order []int
	mk := func(tag int) Generator {
		return &orderTrackingGen{tag: tag, order: &order}
	}
	if _, err := x.Start(NewIdentifier("a"), mk(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := x.Start(NewIdentifier("b"), mk(2)); err != nil {
		t.Fatal(err)
	}
	if _, err := x.Start(NewIdentifier("c"), mk(3)); err != nil {
		t.Fatal(err)
	}
	x.Dispose()
	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

type orderTrackingGen struct {
	tag   int
	order *[]int
}

func (g *orderTrackingGen) Step() (CoroutineAction, bool, error) { return NullYield{}, false, nil }
func (g *orderTrackingGen) Close() error {
	*g.order = append(*g.order, g.tag)
	return nil
}

package wire

import "testing"

func TestBuiltinRoundTrip(t *testing.T) {
	r := NewRegistry()

	cases := []Value{Int64(42), Float64(3.5), String("hello"), Bool(true)}
	for _, v := range cases {
		b, err := r.Encode(nil, v)
		if err != nil {
			t.Fatalf("Encode(%v): %v", v, err)
		}
		got, n, err := r.Decode(b)
		if err != nil {
			t.Fatalf("Decode(%v): %v", v, err)
		}
		if n != len(b) {
			t.Fatalf("Decode consumed %d of %d bytes", n, len(b))
		}
		if got != v {
			t.Fatalf("round trip mismatch: got %v, want %v", got, v)
		}
	}
}

func TestFromAnyToAny(t *testing.T) {
	for _, v := range []any{int64(7), 7, 1.5, "x", true} {
		wv, err := FromAny(v)
		if err != nil {
			t.Fatalf("FromAny(%v): %v", v, err)
		}
		back := ToAny(wv)
		switch v.(type) {
		case int:
			if back != int(v.(int)) {
				t.Fatalf("ToAny(FromAny(%v)) = %v", v, back)
			}
		case int64:
			if back != int(v.(int64)) {
				t.Fatalf("ToAny(FromAny(%v)) = %v", v, back)
			}
		default:
			if back != v {
				t.Fatalf("ToAny(FromAny(%v)) = %v", v, back)
			}
		}
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	if _, err := FromAny(struct{ X int }{1}); err == nil {
		t.Fatal("expected an error for an unregistered type")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic registering an already-registered type")
		}
	}()
	r.Register(Int64(0))
}

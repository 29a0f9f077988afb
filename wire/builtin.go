package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Int64, Float64, String and Bool are Value wrappers for the four scalar
// kinds a hoisted local or argument most commonly holds.

type Int64 int64

func (v Int64) MarshalAppend(b []byte) ([]byte, error) {
	return binary.AppendVarint(b, int64(v)), nil
}

func (v *Int64) Unmarshal(b []byte) (int, error) {
	value, n := binary.Varint(b)
	if n <= 0 {
		return 0, fmt.Errorf("wire: invalid Int64")
	}
	*v = Int64(value)
	return n, nil
}

type Float64 float64

func (v Float64) MarshalAppend(b []byte) ([]byte, error) {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(float64(v))), nil
}

func (v *Float64) Unmarshal(b []byte) (int, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("wire: invalid Float64")
	}
	*v = Float64(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	return 8, nil
}

type String string

func (v String) MarshalAppend(b []byte) ([]byte, error) {
	b = binary.AppendVarint(b, int64(len(v)))
	return append(b, v...), nil
}

func (v *String) Unmarshal(b []byte) (int, error) {
	l, n := binary.Varint(b)
	if n <= 0 || l < 0 || int(l) > len(b)-n {
		return 0, fmt.Errorf("wire: invalid String")
	}
	*v = String(b[n : n+int(l)])
	return n + int(l), nil
}

type Bool bool

func (v Bool) MarshalAppend(b []byte) ([]byte, error) {
	if v {
		return append(b, 1), nil
	}
	return append(b, 0), nil
}

func (v *Bool) Unmarshal(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, fmt.Errorf("wire: invalid Bool")
	}
	*v = b[0] != 0
	return 1, nil
}

func registerBuiltins(r *Registry) {
	r.Register(Int64(0))
	r.Register(Float64(0))
	r.Register(String(""))
	r.Register(Bool(false))
}

// FromAny wraps a plain Go value in the matching builtin Value, for the
// common case of encoding a FrameSnapshot whose args/locals hold only
// scalars. It fails if v's type has no builtin wrapper; callers with
// richer local/argument types register their own Value implementations
// and skip FromAny.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int64:
		return Int64(x), nil
	case int:
		return Int64(x), nil
	case float64:
		return Float64(x), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("wire: no builtin Value for %T, register a custom one", v)
	}
}

// ToAny unwraps a builtin Value back to a plain Go value: Int64 becomes
// int (so an original int64 comes back as int), Float64 becomes float64,
// String becomes string and Bool becomes bool. Custom Value types are
// returned unchanged.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Int64:
		return int(x)
	case Float64:
		return float64(x)
	case String:
		return string(x)
	case Bool:
		return bool(x)
	default:
		return v
	}
}

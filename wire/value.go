// Package wire is a reference serializer collaborator for the coroutine
// package's in-memory snapshot records: the concrete byte encoding of a
// FrameSnapshot's args/locals values. The coroutine package never imports
// this one; callers that don't like this particular wire format are free
// to write their own against the plain FrameSnapshot and ExecutorSnapshot
// structs.
//
// Values are a sparse collection of self-describing records, each tagged
// with a small registered type id so Decode can reconstruct the right
// concrete type without reflection-heavy magic.
package wire

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Value is the contract a hoisted local or argument must satisfy to be
// wire-encoded by this package.
type Value interface {
	MarshalAppend(b []byte) ([]byte, error)
}

// Unmarshaler reconstructs a Value from bytes, returning the number of
// bytes consumed.
type Unmarshaler interface {
	Unmarshal(b []byte) (n int, err error)
}

// UnmarshalValue reconstructs a Value from a buffer, returning the value
// and the number of bytes consumed.
type UnmarshalValue func(b []byte) (Value, int, error)

// Registry maps concrete Value types to small integer tags for the wire
// format. A Registry is instance-scoped rather than package-global, so
// independent codecs (e.g. one per test) never collide.
type Registry struct {
	byType map[reflect.Type]*valueType
	byTag  map[int]*valueType
	nextTag int
}

type valueType struct {
	tag         int
	constructor UnmarshalValue
}

// NewRegistry creates a Registry pre-populated with codecs for int64,
// float64, string and bool.
func NewRegistry() *Registry {
	r := &Registry{byType: map[reflect.Type]*valueType{}, byTag: map[int]*valueType{}}
	registerBuiltins(r)
	return r
}

// Register adds a Value type to the registry using reflection to derive a
// constructor. v must also implement Unmarshaler, either directly or
// through its pointer.
func (r *Registry) Register(v Value) {
	t := reflect.TypeOf(v)
	unmarshalerType := reflect.TypeOf((*Unmarshaler)(nil)).Elem()

	switch {
	case t.Implements(unmarshalerType):
		r.RegisterConstructor(v, func(b []byte) (Value, int, error) {
			fresh := reflect.Zero(t).Interface()
			n, err := fresh.(Unmarshaler).Unmarshal(b)
			return fresh.(Value), n, err
		})
	case reflect.PointerTo(t).Implements(unmarshalerType):
		r.RegisterConstructor(v, func(b []byte) (Value, int, error) {
			p := reflect.New(t)
			n, err := p.Interface().(Unmarshaler).Unmarshal(b)
			return p.Elem().Interface().(Value), n, err
		})
	default:
		panic(fmt.Sprintf("wire: type %T does not implement Unmarshaler", v))
	}
}

// RegisterConstructor adds a Value type using an explicit constructor,
// skipping the reflection-based derivation of Register.
func (r *Registry) RegisterConstructor(v Value, constructor UnmarshalValue) {
	t := reflect.TypeOf(v)
	if _, ok := r.byType[t]; ok {
		panic(fmt.Sprintf("wire: type %T already registered", v))
	}
	vt := &valueType{tag: r.nextTag, constructor: constructor}
	r.nextTag++
	r.byType[t] = vt
	r.byTag[vt.tag] = vt
}

// Encode appends v's tag and encoded bytes to b.
func (r *Registry) Encode(b []byte, v Value) ([]byte, error) {
	vt, ok := r.byType[reflect.TypeOf(v)]
	if !ok {
		return nil, fmt.Errorf("wire: value type %T is not registered", v)
	}
	b = binary.AppendVarint(b, int64(vt.tag))
	return v.MarshalAppend(b)
}

// Decode reads one tagged value off the front of b, returning the value
// and the number of bytes consumed.
func (r *Registry) Decode(b []byte) (Value, int, error) {
	tag, n := binary.Varint(b)
	if n <= 0 {
		return nil, 0, fmt.Errorf("wire: invalid value tag")
	}
	vt, ok := r.byTag[int(tag)]
	if !ok {
		return nil, 0, fmt.Errorf("wire: tag %d not registered", tag)
	}
	value, vn, err := vt.constructor(b[n:])
	return value, n + vn, err
}

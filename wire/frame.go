package wire

import (
	"encoding/binary"
	"fmt"
	"time"

	coroutine "github.com/dispatchloop/corostate"
)

// EncodeFrame appends a binary encoding of snap to b: a sparse-slice
// approach applied to a FrameSnapshot's two string-keyed maps instead of
// an index-keyed slice.
func (r *Registry) EncodeFrame(b []byte, snap coroutine.FrameSnapshot) ([]byte, error) {
	b = encodeString(b, snap.MethodID.Scope)
	b = encodeString(b, snap.MethodID.Method)
	b = binary.AppendVarint(b, int64(snap.State))

	var err error
	b, err = r.encodeOptional(b, snap.Current)
	if err != nil {
		return nil, fmt.Errorf("encoding current: %w", err)
	}
	b, err = r.encodeOptional(b, snap.Receiver)
	if err != nil {
		return nil, fmt.Errorf("encoding receiver: %w", err)
	}
	if b, err = r.encodeValueMap(b, snap.Args); err != nil {
		return nil, fmt.Errorf("encoding args: %w", err)
	}
	if b, err = r.encodeValueMap(b, snap.Locals); err != nil {
		return nil, fmt.Errorf("encoding locals: %w", err)
	}
	return b, nil
}

// DecodeFrame inverts EncodeFrame, returning the snapshot and the number of
// bytes consumed from b.
func (r *Registry) DecodeFrame(b []byte) (coroutine.FrameSnapshot, int, error) {
	var snap coroutine.FrameSnapshot
	var total int

	scope, n := decodeString(b)
	total += n
	method, n := decodeString(b[total:])
	total += n
	snap.MethodID = coroutine.Identifier{Scope: scope, Method: method}

	state, n := binary.Varint(b[total:])
	if n <= 0 {
		return snap, 0, fmt.Errorf("wire: invalid frame state")
	}
	snap.State = int(state)
	total += n

	current, n, err := r.decodeOptional(b[total:])
	if err != nil {
		return snap, 0, fmt.Errorf("decoding current: %w", err)
	}
	snap.Current = current
	total += n

	receiver, n, err := r.decodeOptional(b[total:])
	if err != nil {
		return snap, 0, fmt.Errorf("decoding receiver: %w", err)
	}
	snap.Receiver = receiver
	total += n

	args, n, err := r.decodeValueMap(b[total:])
	if err != nil {
		return snap, 0, fmt.Errorf("decoding args: %w", err)
	}
	snap.Args = args
	total += n

	locals, n, err := r.decodeValueMap(b[total:])
	if err != nil {
		return snap, 0, fmt.Errorf("decoding locals: %w", err)
	}
	snap.Locals = locals
	total += n

	return snap, total, nil
}

// EncodeExecutor appends a binary encoding of snap to b: the clock followed
// by each thread's frame list, bottom to top.
func (r *Registry) EncodeExecutor(b []byte, snap coroutine.ExecutorSnapshot) ([]byte, error) {
	b = binary.AppendVarint(b, int64(snap.Time))
	b = binary.AppendVarint(b, int64(len(snap.Threads)))
	for _, frames := range snap.Threads {
		b = binary.AppendVarint(b, int64(len(frames)))
		for _, frame := range frames {
			var err error
			b, err = r.EncodeFrame(b, frame)
			if err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// DecodeExecutor inverts EncodeExecutor.
func (r *Registry) DecodeExecutor(b []byte) (coroutine.ExecutorSnapshot, int, error) {
	var snap coroutine.ExecutorSnapshot
	var total int

	clockTime, n := binary.Varint(b)
	if n <= 0 {
		return snap, 0, fmt.Errorf("wire: invalid executor time")
	}
	snap.Time = time.Duration(clockTime)
	total += n

	threadCount, n := binary.Varint(b[total:])
	if n <= 0 {
		return snap, 0, fmt.Errorf("wire: invalid thread count")
	}
	total += n

	snap.Threads = make([][]coroutine.FrameSnapshot, threadCount)
	for i := range snap.Threads {
		frameCount, n := binary.Varint(b[total:])
		if n <= 0 {
			return snap, 0, fmt.Errorf("wire: invalid frame count")
		}
		total += n
		frames := make([]coroutine.FrameSnapshot, frameCount)
		for j := range frames {
			frame, n, err := r.DecodeFrame(b[total:])
			if err != nil {
				return snap, 0, err
			}
			frames[j] = frame
			total += n
		}
		snap.Threads[i] = frames
	}
	return snap, total, nil
}

func (r *Registry) encodeValueMap(b []byte, m map[string]any) ([]byte, error) {
	b = binary.AppendVarint(b, int64(len(m)))
	for key, v := range m {
		b = encodeString(b, key)
		var err error
		b, err = r.encodeOptional(b, v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return b, nil
}

func (r *Registry) decodeValueMap(b []byte) (map[string]any, int, error) {
	count, total := binary.Varint(b)
	if total <= 0 {
		return nil, 0, fmt.Errorf("wire: invalid map length")
	}
	m := make(map[string]any, count)
	for i := int64(0); i < count; i++ {
		key, n := decodeString(b[total:])
		total += n
		v, n, err := r.decodeOptional(b[total:])
		if err != nil {
			return nil, 0, err
		}
		total += n
		m[key] = v
	}
	return m, total, nil
}

// encodeOptional encodes a possibly-nil value as a presence byte followed
// by its tagged encoding, distinguishing "absent" from "present" sparse
// slots.
func (r *Registry) encodeOptional(b []byte, v any) ([]byte, error) {
	if v == nil {
		return append(b, 0), nil
	}
	value, err := FromAny(v)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return append(b, 0), nil
	}
	b = append(b, 1)
	return r.Encode(b, value)
}

func (r *Registry) decodeOptional(b []byte) (any, int, error) {
	if len(b) == 0 {
		return nil, 0, fmt.Errorf("wire: truncated optional value")
	}
	if b[0] == 0 {
		return nil, 1, nil
	}
	value, n, err := r.Decode(b[1:])
	if err != nil {
		return nil, 0, err
	}
	return ToAny(value), n + 1, nil
}

func encodeString(b []byte, s string) []byte {
	b = binary.AppendVarint(b, int64(len(s)))
	return append(b, s...)
}

func decodeString(b []byte) (string, int) {
	l, n := binary.Varint(b)
	if n <= 0 || l < 0 {
		return "", 0
	}
	return string(b[n : n+int(l)]), n + int(l)
}

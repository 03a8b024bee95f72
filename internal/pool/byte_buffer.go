// Package pool provides pooled byte buffers for component writers.
//
// Raw vector components stream their values to the container writer through
// a pooled buffer that is flushed in fixed-size chunks; pooling it keeps
// repeated encoding runs (one container per attribute) from re-allocating
// the buffer.
package pool

import "sync"

// BufferDefaultSize is the initial capacity of a pooled ByteBuffer.
const (
	BufferDefaultSize  = 16 * 1024
	bufferMaxThreshold = 8 * 1024 * 1024
	smallGrowthLimit   = 32 * 1024
)

// ByteBuffer is an append-only byte buffer with an amortized growth strategy.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the capacity of the underlying slice.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// Reset empties the buffer but keeps the allocated memory for reuse.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// MustWrite appends data, growing the buffer if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow ensures the buffer can hold n more bytes without reallocating.
// Small buffers grow in fixed steps, larger ones by a quarter of their
// capacity, to balance reallocation count against slack memory.
func (bb *ByteBuffer) Grow(n int) {
	need := len(bb.B) + n
	if need <= cap(bb.B) {
		return
	}

	growth := BufferDefaultSize
	if cap(bb.B) >= smallGrowthLimit {
		growth = cap(bb.B) / 4
	}
	newCap := cap(bb.B) + growth
	if newCap < need {
		newCap = need
	}

	nb := make([]byte, len(bb.B), newCap)
	copy(nb, bb.B)
	bb.B = nb
}

var bufferPool = sync.Pool{
	New: func() any { return NewByteBuffer(BufferDefaultSize) },
}

// GetBuffer retrieves an empty ByteBuffer from the pool.
func GetBuffer() *ByteBuffer {
	bb, _ := bufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutBuffer returns a ByteBuffer to the pool. Oversized buffers are dropped
// so a single huge corpus does not pin memory for the whole process.
func PutBuffer(bb *ByteBuffer) {
	if bb == nil || bb.Cap() > bufferMaxThreshold {
		return
	}
	bufferPool.Put(bb)
}

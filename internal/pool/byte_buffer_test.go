package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abc"))
	bb.MustWrite([]byte("def"))

	require.Equal(t, []byte("abcdef"), bb.Bytes())
	require.Equal(t, 6, bb.Len())

	bb.Reset()
	require.Zero(t, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 6)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("abcd"))

	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, []byte("abcd"), bb.Bytes())
}

func TestBufferPool(t *testing.T) {
	bb := GetBuffer()
	bb.MustWrite([]byte("data"))
	PutBuffer(bb)

	got := GetBuffer()
	require.Zero(t, got.Len())
}

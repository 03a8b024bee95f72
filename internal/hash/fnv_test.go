package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// refSigned is an independent FNV-1a 64 reference.
func refSigned(data []byte) int64 {
	const (
		offsetBasis uint64 = 0xcbf29ce484222325
		prime       uint64 = 0x100000001b3
	)
	h := offsetBasis
	for _, b := range data {
		h ^= uint64(b)
		h *= prime
	}

	return int64(h)
}

func TestSigned_EmptyInput(t *testing.T) {
	// The empty hash is the offset basis reinterpreted as signed.
	var offsetBasis uint64 = 0xcbf29ce484222325
	want := int64(offsetBasis)
	require.Equal(t, want, Signed(nil))
	require.Equal(t, want, Signed([]byte{}))
	require.Negative(t, Signed(nil))
}

func TestSigned_MatchesReference(t *testing.T) {
	inputs := []string{"cat", "a", "b", "Ziggurat", "\x00", "längere zeichenkette"}
	for _, s := range inputs {
		require.Equal(t, refSigned([]byte(s)), Signed([]byte(s)), "input %q", s)
	}
}

func TestSignedString(t *testing.T) {
	require.Equal(t, Signed([]byte("cat")), SignedString("cat"))
}

package store

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etemenanki/ziggurat/encoding"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

func TestPlainStringVariable_SingleToken(t *testing.T) {
	primary := mustPrimary(t, 1)
	v, err := NewPlainStringVariable(primary, NewStringSliceIter([]string{"cat"}))
	require.NoError(t, err)

	raw := writeObject(t, v)
	require.Equal(t, "ZVc", string(raw[11:14]))
	require.Equal(t, primary.UUID().String(), v.Base().UUID().String())
	primaryUUID := primary.UUID()
	require.Equal(t, primaryUUID[:], raw[32:48], "base layer reference")

	entries := parseBOM(t, raw)
	require.Len(t, entries, 3)

	sd := entries["StringData"]
	require.Equal(t, format.TypeStringList, sd.ctype)
	require.Equal(t, []byte{0x63, 0x61, 0x74, 0x00}, componentData(raw, sd))

	// OffsetStream: block-delta vector of the offsets 0 and 4.
	os := entries["OffsetStream"]
	require.Equal(t, format.ModeDelta, os.mode)
	require.Equal(t, int64(2), os.p1)
	wantOffsets := append(int64LE(0),
		0x00, 0x08, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	require.Equal(t, wantOffsets, componentData(raw, os))

	// StringHash: one (fnv("cat"), 0) pair in a single padded block.
	sh := entries["StringHash"]
	require.Equal(t, format.TypeIndex, sh.ctype)
	require.Equal(t, format.ModeCompressed, sh.mode)

	key := fnvKey("cat")
	wantHash := int64LE(1, key, 0)                     // r, block key, block offset
	wantHash = append(wantHash, 0x00)                  // overflow count 0
	wantHash = encoding.AppendVarint(wantHash, key)    // raw first key
	wantHash = encoding.AppendVarint(wantHash, -1-key) // delta to the -1 pad
	wantHash = append(wantHash, bytes.Repeat([]byte{0x00}, 14)...)
	wantHash = append(wantHash, 0x00, 0x01) // positions 0, then pad delta -1
	wantHash = append(wantHash, bytes.Repeat([]byte{0x00}, 14)...)
	require.Equal(t, wantHash, componentData(raw, sh))
}

func TestPlainStringVariable_SizeMismatch(t *testing.T) {
	primary := mustPrimary(t, 2)
	_, err := NewPlainStringVariable(primary, NewStringSliceIter([]string{"only"}))
	require.ErrorIs(t, err, errs.ErrSizeMismatch)

	primary = mustPrimary(t, 1)
	_, err = NewPlainStringVariable(primary, NewStringSliceIter([]string{"a", "b"}))
	require.ErrorIs(t, err, errs.ErrSizeMismatch)
}

func TestIndexedStringVariable_ThreeTokens(t *testing.T) {
	primary := mustPrimary(t, 3)
	v, err := NewIndexedStringVariable(primary, NewStringSliceIter([]string{"a", "b", "a"}))
	require.NoError(t, err)
	require.Empty(t, v.Collisions())

	raw := writeObject(t, v)
	require.Equal(t, "ZVx", string(raw[11:14]))

	// dim1 is the corpus size, dim2 the lexicon size.
	require.Equal(t, int64LE(3), raw[64:72])
	require.Equal(t, int64LE(2), raw[72:80])

	entries := parseBOM(t, raw)
	require.Len(t, entries, 4)

	// Lexicon sorted by descending frequency: "a" before "b".
	lex := entries["Lexicon"]
	want := int64LE(0, 2, 4)
	want = append(want, 'a', 0x00, 'b', 0x00)
	require.Equal(t, want, componentData(raw, lex))

	// LexHash holds (hash, id) pairs in key order.
	lh := entries["LexHash"]
	require.Equal(t, format.ModePlain, lh.mode)
	keyA, keyB := fnvKey("a"), fnvKey("b")
	wantPairs := [][2]int64{{keyA, 0}, {keyB, 1}}
	if keyB < keyA {
		wantPairs = [][2]int64{{keyB, 1}, {keyA, 0}}
	}
	require.Equal(t, int64LE(wantPairs[0][0], wantPairs[0][1], wantPairs[1][0], wantPairs[1][1]),
		componentData(raw, lh))

	// LexIDStream: ids 0, 1, 0 in one compressed block.
	ls := entries["LexIDStream"]
	require.Equal(t, format.ModeCompressed, ls.mode)
	require.Equal(t, int64(3), ls.p1)
	wantIDs := append(int64LE(0), 0x00, 0x02, 0x00)
	wantIDs = append(wantIDs, bytes.Repeat([]byte{0x01}, 13)...)
	require.Equal(t, wantIDs, componentData(raw, ls))

	// LexIDIndex: postings 0,2 for "a" and 1 for "b".
	li := entries["LexIDIndex"]
	require.Equal(t, format.TypeInvertedIndex, li.ctype)
	wantIdx := int64LE(2, 0, 1, 2)
	wantIdx = append(wantIdx, 0x00, 0x04, 0x02)
	require.Equal(t, wantIdx, componentData(raw, li))
}

func TestIndexedStringVariable_FrequencyTieBreak(t *testing.T) {
	primary := mustPrimary(t, 4)
	v, err := NewIndexedStringVariable(primary, NewStringSliceIter([]string{"b", "a", "b", "a"}))
	require.NoError(t, err)

	raw := writeObject(t, v)
	lex := parseBOM(t, raw)["Lexicon"]

	// Equal frequencies resolve by first occurrence: "b" takes id 0.
	want := int64LE(0, 2, 4)
	want = append(want, 'b', 0x00, 'a', 0x00)
	require.Equal(t, want, componentData(raw, lex))
}

// mutatingIter yields different values on its second pass.
type mutatingIter struct {
	pass   int
	pos    int
	passes [][][]byte
}

func (it *mutatingIter) Reset() error {
	if it.pos > 0 {
		it.pass++
	}
	it.pos = 0

	return nil
}

func (it *mutatingIter) Next() ([]byte, error) {
	values := it.passes[min(it.pass, len(it.passes)-1)]
	if it.pos >= len(values) {
		return nil, io.EOF
	}
	v := values[it.pos]
	it.pos++

	return v, nil
}

func TestIndexedStringVariable_InputChanged(t *testing.T) {
	primary := mustPrimary(t, 2)
	it := &mutatingIter{passes: [][][]byte{
		{[]byte("a"), []byte("b")},
		{[]byte("a"), []byte("zzz")},
	}}

	_, err := NewIndexedStringVariable(primary, it)
	require.ErrorIs(t, err, errs.ErrInputChanged)
}

func TestIntegerVariable(t *testing.T) {
	primary := mustPrimary(t, 3)

	t.Run("uncompressed", func(t *testing.T) {
		v, err := NewIntegerVariable(primary, []int64{5, 3, 5}, WithUncompressed())
		require.NoError(t, err)

		raw := writeObject(t, v)
		require.Equal(t, "ZVi", string(raw[11:14]))
		require.Equal(t, int64LE(1), raw[72:80], "dim2 is the band count")

		entries := parseBOM(t, raw)
		require.Equal(t, format.ModePlain, entries["IntStream"].mode)
		require.Equal(t, int64LE(5, 3, 5), componentData(raw, entries["IntStream"]))

		// Sort index: value ascending, ties by position.
		require.Equal(t, int64LE(3, 1, 5, 0, 5, 2), componentData(raw, entries["IntSort"]))
	})

	t.Run("compressed default", func(t *testing.T) {
		v, err := NewIntegerVariable(primary, []int64{5, 3, 5})
		require.NoError(t, err)

		entries := parseBOM(t, writeObject(t, v))
		require.Equal(t, format.ModeCompressed, entries["IntStream"].mode)
		require.Equal(t, format.ModeCompressed, entries["IntSort"].mode)
	})

	t.Run("delta stream", func(t *testing.T) {
		v, err := NewIntegerVariable(primary, []int64{10, 20, 30}, WithDeltaStream())
		require.NoError(t, err)

		entries := parseBOM(t, writeObject(t, v))
		require.Equal(t, format.ModeDelta, entries["IntStream"].mode)
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := NewIntegerVariable(primary, []int64{1})
		require.ErrorIs(t, err, errs.ErrSizeMismatch)
	})
}

func TestSetVariable(t *testing.T) {
	primary := mustPrimary(t, 3)
	v, err := NewSetVariable(primary, [][]string{{"a", "b"}, {}, {"a"}})
	require.NoError(t, err)
	require.Empty(t, v.Collisions())

	raw := writeObject(t, v)
	require.Equal(t, "ZVs", string(raw[11:14]))
	require.Equal(t, int64LE(3), raw[64:72])
	require.Equal(t, int64LE(2), raw[72:80])

	entries := parseBOM(t, raw)
	require.Len(t, entries, 4)

	// Lexicon: "a" (frequency 2) before "b" (frequency 1).
	want := int64LE(0, 2, 4)
	want = append(want, 'a', 0x00, 'b', 0x00)
	require.Equal(t, want, componentData(raw, entries["Lexicon"]))

	// IDSetStream: sets {0,1}, {}, {0} in one block.
	wantSets := int64LE(8)
	wantSets = append(wantSets, 0x00, 0x04, 0x00, 0x05)
	wantSets = append(wantSets, bytes.Repeat([]byte{0x00}, 12)...)
	wantSets = append(wantSets, 0x04, 0x00, 0x02)
	wantSets = append(wantSets, bytes.Repeat([]byte{0x00}, 13)...)
	wantSets = append(wantSets, 0x00, 0x02, 0x00)
	require.Equal(t, wantSets, componentData(raw, entries["IDSetStream"]))

	// IDSetIndex: id 0 at positions 0 and 2, id 1 at position 0.
	wantIdx := int64LE(2, 0, 1, 2)
	wantIdx = append(wantIdx, 0x00, 0x04, 0x00)
	require.Equal(t, wantIdx, componentData(raw, entries["IDSetIndex"]))
}

func TestSetVariable_DuplicateMembersCollapse(t *testing.T) {
	primary := mustPrimary(t, 1)
	v, err := NewSetVariable(primary, [][]string{{"x", "x", "y"}})
	require.NoError(t, err)

	raw := writeObject(t, v)
	require.Equal(t, int64LE(2), raw[72:80], "two distinct members")
}

func TestPointerVariable(t *testing.T) {
	primary := mustPrimary(t, 3)

	t.Run("valid heads", func(t *testing.T) {
		v, err := NewPointerVariable(primary, []int64{0, 2, -1})
		require.NoError(t, err)

		raw := writeObject(t, v)
		require.Equal(t, "ZVp", string(raw[11:14]))

		entries := parseBOM(t, raw)
		require.Equal(t, format.ModeDelta, entries["HeadStream"].mode)
		require.Equal(t, format.ModeCompressed, entries["HeadSort"].mode)
	})

	t.Run("head beyond corpus", func(t *testing.T) {
		_, err := NewPointerVariable(primary, []int64{0, 3, -1})
		require.ErrorIs(t, err, errs.ErrPointerOutOfRange)
	})

	t.Run("head below -1", func(t *testing.T) {
		_, err := NewPointerVariable(primary, []int64{0, -2, -1})
		require.ErrorIs(t, err, errs.ErrPointerOutOfRange)
	})
}

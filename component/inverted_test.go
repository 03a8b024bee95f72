package component

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etemenanki/ziggurat/format"
)

func TestInvertedIndex_Postings(t *testing.T) {
	// Corpus "a b a": type 0 at positions 0 and 2, type 1 at position 1.
	ix, err := NewInvertedIndex([][]int64{{0, 2}, {1}}, "LexIDIndex")
	require.NoError(t, err)
	require.Equal(t, format.TypeInvertedIndex, ix.Type())
	require.Equal(t, format.ModeCompressed, ix.Mode())

	p1, p2 := ix.Params()
	require.Equal(t, int64(2), p1)
	require.Zero(t, p2)

	// TypeInfo: (frequency 2, offset 0), (frequency 1, offset 2), then the
	// delta-encoded postings 0,+2 and 1.
	want := int64LE(2, 0, 1, 2)
	want = append(want, 0x00, 0x04, 0x02)
	require.Equal(t, want, writeComponent(t, ix))
}

func TestInvertedIndex_FrequencySum(t *testing.T) {
	occurrences := [][]int64{{0, 1}, {}, {0}, {2, 1}}
	ix, err := NewInvertedIndexFromOccurrences(occurrences, 3, "IDSetIndex")
	require.NoError(t, err)

	var total int64
	for _, ti := range ix.typeinfo {
		total += ti.Key
	}
	require.Equal(t, int64(5), total, "frequencies must sum to total occurrences")
}

func TestInvertedIndex_RejectsUnsortedPostings(t *testing.T) {
	_, err := NewInvertedIndex([][]int64{{2, 1}}, "LexIDIndex")
	require.Error(t, err)

	_, err = NewInvertedIndex([][]int64{{1, 1}}, "LexIDIndex")
	require.Error(t, err, "postings must be strictly ascending")
}

func TestInvertedIndex_RejectsOutOfRangeIDs(t *testing.T) {
	_, err := NewInvertedIndexFromOccurrences([][]int64{{3}}, 3, "IDSetIndex")
	require.Error(t, err)

	_, err = NewInvertedIndexFromOccurrences([][]int64{{-1}}, 3, "IDSetIndex")
	require.Error(t, err)
}

func TestInvertedIndex_EmptyTypes(t *testing.T) {
	ix, err := NewInvertedIndex([][]int64{{}, {0}}, "LexIDIndex")
	require.NoError(t, err)

	// An empty postings list has frequency 0 and shares its offset with the
	// next list.
	want := int64LE(0, 0, 1, 0)
	want = append(want, 0x00)
	require.Equal(t, want, writeComponent(t, ix))
}

package component

import (
	"fmt"
	"io"

	"github.com/etemenanki/ziggurat/encoding"
	"github.com/etemenanki/ziggurat/endian"
	"github.com/etemenanki/ziggurat/format"
)

// InvertedIndex maps every lexicon id to the sorted list of corpus positions
// it occurs at. The data section is a TypeInfo table of (frequency, payload
// offset) pairs for all v types, followed by the concatenated postings
// lists, each delta-encoded as a varint block.
type InvertedIndex struct {
	base
	typeinfo []Pair // Key = frequency, Pos = payload offset
	payload  []byte
}

// NewInvertedIndex creates an inverted index from per-type postings lists.
// postings[t] must be strictly ascending; v is len(postings).
func NewInvertedIndex(postings [][]int64, name string) (*InvertedIndex, error) {
	v := len(postings)
	b, err := newBase(name, format.TypeInvertedIndex, format.ModeCompressed, int64(v), 0)
	if err != nil {
		return nil, err
	}

	typeinfo := make([]Pair, 0, v)
	var payload []byte
	var delta []int64
	for t, pl := range postings {
		for i := 1; i < len(pl); i++ {
			if pl[i-1] >= pl[i] {
				return nil, fmt.Errorf("inverted index %q: postings for type %d not strictly ascending", name, t)
			}
		}

		delta = append(delta[:0], pl...)
		deltaInPlace(delta)

		typeinfo = append(typeinfo, Pair{Key: int64(len(pl)), Pos: int64(len(payload))})
		payload = encoding.AppendBlock(payload, delta)
	}

	return &InvertedIndex{base: b, typeinfo: typeinfo, payload: payload}, nil
}

// NewInvertedIndexFromOccurrences builds the postings lists from per-position
// id lists: occurrences[cpos] holds the type ids present at that position.
// Ids must lie in [0, v).
func NewInvertedIndexFromOccurrences(occurrences [][]int64, v int, name string) (*InvertedIndex, error) {
	postings := make([][]int64, v)
	for cpos, ids := range occurrences {
		for _, id := range ids {
			if id < 0 || id >= int64(v) {
				return nil, fmt.Errorf("inverted index %q: id %d out of range [0, %d)", name, id, v)
			}
			postings[id] = append(postings[id], int64(cpos))
		}
	}

	return NewInvertedIndex(postings, name)
}

func (ix *InvertedIndex) ByteLen() int64 {
	return int64(len(ix.typeinfo))*16 + int64(len(ix.payload))
}

func (ix *InvertedIndex) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, len(ix.typeinfo)*16)
	for _, ti := range ix.typeinfo {
		buf = endian.AppendInt64(engine, buf, ti.Key)
		buf = endian.AppendInt64(engine, buf, ti.Pos)
	}

	total, err := writeAll(w, buf)
	if err != nil {
		return total, err
	}
	n, err := writeAll(w, ix.payload)

	return total + n, err
}

package component

import (
	"cmp"
	"io"
	"slices"

	"github.com/etemenanki/ziggurat/encoding"
	"github.com/etemenanki/ziggurat/endian"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// Pair is one (key, position) entry of an index component.
type Pair struct {
	Key int64
	Pos int64
}

// sortPairs orders pairs by key ascending, ties broken by position ascending.
// This is the canonical index order; builders only apply it when the caller
// did not declare the input presorted.
func sortPairs(pairs []Pair) {
	slices.SortFunc(pairs, func(a, b Pair) int {
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}

		return cmp.Compare(a.Pos, b.Pos)
	})
}

// Index is a sorted (key, position) mapping stored as raw int64 pairs.
// Duplicate keys are allowed.
type Index struct {
	base
	pairs []Pair
}

// NewIndex creates a raw index over pairs, which must hold exactly n entries.
// The builder takes ownership of pairs and sorts them by key then position
// unless presorted is true, in which case the caller's order is preserved.
func NewIndex(pairs []Pair, name string, n int, presorted bool) (*Index, error) {
	b, err := newBase(name, format.TypeIndex, format.ModePlain, int64(n), 0)
	if err != nil {
		return nil, err
	}
	if n < 0 || len(pairs) != n {
		return nil, errs.ErrSizeMismatch
	}
	if !presorted {
		sortPairs(pairs)
	}

	return &Index{base: b, pairs: pairs}, nil
}

func (ix *Index) ByteLen() int64 {
	return int64(len(ix.pairs)) * 16
}

func (ix *Index) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, len(ix.pairs)*16)
	for _, p := range ix.pairs {
		buf = endian.AppendInt64(engine, buf, p.Key)
		buf = endian.AppendInt64(engine, buf, p.Pos)
	}

	return writeAll(w, buf)
}

// IndexCompressed is a sorted (key, position) mapping packed into varint
// blocks of sixteen pairs. A block grows beyond sixteen entries to keep equal
// keys together, so no key ever crosses a block boundary. The layout is the
// regular-item count r, then per block a raw (first key, payload offset)
// sync pair, then the packed blocks.
type IndexCompressed struct {
	base
	encoded []byte
}

// NewIndexCompressed creates a compressed index over pairs, which must hold
// exactly n entries. Ownership and sorting behave as in NewIndex.
func NewIndexCompressed(pairs []Pair, name string, n int, presorted bool) (*IndexCompressed, error) {
	b, err := newBase(name, format.TypeIndex, format.ModeCompressed, int64(n), 2)
	if err != nil {
		return nil, err
	}
	if n < 0 || len(pairs) != n {
		return nil, errs.ErrSizeMismatch
	}
	if !presorted {
		sortPairs(pairs)
	}

	return &IndexCompressed{base: b, encoded: encodeIndex(pairs)}, nil
}

func (ix *IndexCompressed) ByteLen() int64 {
	return int64(len(ix.encoded))
}

func (ix *IndexCompressed) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, ix.encoded)
}

// blockSpan is one block's half-open pair range.
type blockSpan struct {
	start, end int
}

// splitBlocks groups sorted pairs into blocks of sixteen entries, extending a
// full block while the next key equals the previous one; the final block may
// hold fewer than sixteen.
// It returns the spans and the number of pad entries in the final block.
func splitBlocks(pairs []Pair) ([]blockSpan, int) {
	var spans []blockSpan
	blen, bstart := 0, 0
	for i := range pairs {
		switch {
		case blen < encoding.BlockSize:
			blen++
		case pairs[i].Key == pairs[i-1].Key:
			blen++
		default:
			spans = append(spans, blockSpan{bstart, i})
			bstart, blen = i, 1
		}
	}

	padding := 0
	if blen != 0 {
		if blen < encoding.BlockSize {
			padding = encoding.BlockSize - blen
		}
		spans = append(spans, blockSpan{bstart, len(pairs)})
	}

	return spans, padding
}

func encodeIndex(pairs []Pair) []byte {
	spans, padding := splitBlocks(pairs)

	// r counts the first sixteen entries of every block; entries beyond the
	// sixteenth are overflow and only appear in the positions column.
	r := int64(len(spans)*encoding.BlockSize - padding)

	blockKeys := make([]int64, 0, len(spans))
	offsets := make([]int64, 0, len(spans))
	var payload []byte

	var keys, positions []int64
	for _, s := range spans {
		size := s.end - s.start
		padded := size
		if padded < encoding.BlockSize {
			padded = encoding.BlockSize
		}

		// Keys are encoded for the first sixteen slots only; overflow entries
		// share the sixteenth key by construction.
		keys = keys[:0]
		for k := 0; k < encoding.BlockSize; k++ {
			if k < size {
				keys = append(keys, pairs[s.start+k].Key)
			} else {
				keys = append(keys, encoding.PadValue)
			}
		}
		positions = positions[:0]
		for k := 0; k < padded; k++ {
			if k < size {
				positions = append(positions, pairs[s.start+k].Pos)
			} else {
				positions = append(positions, encoding.PadValue)
			}
		}
		deltaInPlace(keys)
		deltaInPlace(positions)

		blockKeys = append(blockKeys, pairs[s.start].Key)
		offsets = append(offsets, int64(len(payload)))

		payload = encoding.AppendVarint(payload, int64(padded-encoding.BlockSize))
		payload = encoding.AppendBlock(payload, keys)
		payload = encoding.AppendBlock(payload, positions)
	}

	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 0, 8+len(spans)*16+len(payload))
	out = endian.AppendInt64(engine, out, r)
	for i := range spans {
		out = endian.AppendInt64(engine, out, blockKeys[i])
		out = endian.AppendInt64(engine, out, offsets[i])
	}

	return append(out, payload...)
}

// deltaInPlace rewrites vals so vals[0] stays raw and vals[i] becomes
// vals[i]−vals[i−1].
func deltaInPlace(vals []int64) {
	for i := len(vals) - 1; i >= 1; i-- {
		vals[i] -= vals[i-1]
	}
}

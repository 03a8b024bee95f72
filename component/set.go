package component

import (
	"fmt"
	"io"

	"github.com/etemenanki/ziggurat/encoding"
	"github.com/etemenanki/ziggurat/endian"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// Set stores per-position sets of non-negative lexicon ids, blocked in
// groups of sixteen sets. Each block carries a delta-compressed offset
// column, a length column, and the concatenated varint encodings of its
// sets. A sync vector of one 8-byte offset per block precedes the blocks;
// the first sync offset equals the sync vector's own length.
type Set struct {
	base
	sync   []int64
	blocks [][]byte
}

// NewSet creates a set component over sets, which must hold exactly n
// entries. Every set must be in ascending id order with no negative ids.
func NewSet(sets [][]int64, name string, n, p int) (*Set, error) {
	b, err := newBase(name, format.TypeSet, format.ModeCompressed, int64(n), int64(p))
	if err != nil {
		return nil, err
	}
	if p < 1 {
		return nil, fmt.Errorf("set component %q: p must be > 0", name)
	}
	if n < 0 || len(sets) != n {
		return nil, errs.ErrSizeMismatch
	}
	for i, s := range sets {
		for j, id := range s {
			if id < 0 {
				return nil, fmt.Errorf("set component %q: negative id %d at position %d", name, id, i)
			}
			if j > 0 && s[j-1] >= id {
				return nil, fmt.Errorf("set component %q: ids not strictly ascending at position %d", name, i)
			}
		}
	}

	m := (n + encoding.BlockSize - 1) / encoding.BlockSize
	blocks := make([][]byte, 0, m)

	var offsets, lengths [encoding.BlockSize]int64
	for blk := 0; blk < m; blk++ {
		batch := sets[blk*encoding.BlockSize:]
		if len(batch) > encoding.BlockSize {
			batch = batch[:encoding.BlockSize]
		}

		var items []byte
		var itemOffset int64
		for k, s := range batch {
			offsets[k] = itemOffset
			lengths[k] = int64(len(s))
			before := len(items)
			items = encoding.AppendBlock(items, s)
			itemOffset += int64(len(items) - before)
		}
		for k := len(batch); k < encoding.BlockSize; k++ {
			offsets[k] = -1
			lengths[k] = 0
		}
		deltaInPlace(offsets[:])

		block := encoding.AppendBlock(nil, offsets[:])
		block = encoding.AppendBlock(block, lengths[:])
		block = append(block, items...)
		blocks = append(blocks, block)
	}

	// The sync offsets are relative to the component start, so the first
	// block begins right after the sync vector itself.
	sync := make([]int64, 0, max(1, m))
	sync = append(sync, int64(8*m))
	for i := 0; i < m-1; i++ {
		sync = append(sync, sync[i]+int64(len(blocks[i])))
	}

	return &Set{base: b, sync: sync, blocks: blocks}, nil
}

func (s *Set) ByteLen() int64 {
	total := int64(len(s.sync)) * 8
	for _, b := range s.blocks {
		total += int64(len(b))
	}

	return total
}

func (s *Set) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, len(s.sync)*8)
	for _, o := range s.sync {
		buf = endian.AppendInt64(engine, buf, o)
	}

	total, err := writeAll(w, buf)
	if err != nil {
		return total, err
	}
	for _, b := range s.blocks {
		n, err := writeAll(w, b)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

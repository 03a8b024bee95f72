package component

import (
	"io"

	"github.com/etemenanki/ziggurat/encoding"
	"github.com/etemenanki/ziggurat/endian"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
	"github.com/etemenanki/ziggurat/internal/pool"
)

// writeChunk is the flush granularity for raw vector writes.
const writeChunk = 4096

// Vector is an n×d matrix of signed 64-bit little-endian integers, row-major
// by position: the i-th position's d columns appear contiguously.
type Vector struct {
	base
	vals []int64
	n, d int
}

// NewVector creates a raw vector component over vals, which must hold exactly
// n*d values in row-major order. The builder takes ownership of vals.
func NewVector(vals []int64, name string, n, d int) (*Vector, error) {
	b, err := newBase(name, format.TypeVector, format.ModePlain, int64(n), int64(d))
	if err != nil {
		return nil, err
	}
	if d < 1 || n < 0 || len(vals) != n*d {
		return nil, errs.ErrSizeMismatch
	}

	return &Vector{base: b, vals: vals, n: n, d: d}, nil
}

// ByteLen returns 8*n*d.
func (v *Vector) ByteLen() int64 {
	return int64(v.n) * int64(v.d) * 8
}

// WriteTo writes the values in row-major order.
func (v *Vector) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	var total int64
	for _, val := range v.vals {
		buf.B = endian.AppendInt64(engine, buf.B, val)
		if buf.Len() >= writeChunk {
			n, err := writeAll(w, buf.Bytes())
			total += n
			if err != nil {
				return total, err
			}
			buf.Reset()
		}
	}
	n, err := writeAll(w, buf.Bytes())
	total += n

	return total, err
}

// VectorComp is a block-compressed vector: a sync vector of one 8-byte offset
// per block, followed by varint blocks holding the raw values of up to
// sixteen rows each, column by column. Short trailing blocks are padded with
// the -1 sentinel.
type VectorComp struct {
	base
	encoded []byte
}

// NewVectorComp creates a block-compressed vector over vals (n rows of d
// columns, row-major).
func NewVectorComp(vals []int64, name string, n, d int) (*VectorComp, error) {
	b, err := newBase(name, format.TypeVector, format.ModeCompressed, int64(n), int64(d))
	if err != nil {
		return nil, err
	}
	if d < 1 || n < 0 || len(vals) != n*d {
		return nil, errs.ErrSizeMismatch
	}

	return &VectorComp{base: b, encoded: encodeBlocked(vals, n, d, false)}, nil
}

func (v *VectorComp) ByteLen() int64 {
	return int64(len(v.encoded))
}

func (v *VectorComp) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, v.encoded)
}

// VectorDelta is a block-compressed vector storing within-block deltas:
// per block, row 0 is raw and row j holds row[j]−row[j−1] per column.
// Deltas do not chain across block boundaries, so a decoder can seek to any
// block through the sync vector and decode it in isolation.
type VectorDelta struct {
	base
	encoded []byte
}

// NewVectorDelta creates a block-delta vector over vals (n rows of d columns,
// row-major).
func NewVectorDelta(vals []int64, name string, n, d int) (*VectorDelta, error) {
	b, err := newBase(name, format.TypeVector, format.ModeDelta, int64(n), int64(d))
	if err != nil {
		return nil, err
	}
	if d < 1 || n < 0 || len(vals) != n*d {
		return nil, errs.ErrSizeMismatch
	}

	return &VectorDelta{base: b, encoded: encodeBlocked(vals, n, d, true)}, nil
}

func (v *VectorDelta) ByteLen() int64 {
	return int64(len(v.encoded))
}

func (v *VectorDelta) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, v.encoded)
}

// encodeBlocked produces the sync vector plus varint blocks shared by
// VectorComp and VectorDelta. Rows are grouped into blocks of sixteen, each
// block encoded column by column; the trailing block is padded with -1 rows
// before any delta transform, matching the on-disk contract.
func encodeBlocked(vals []int64, n, d int, delta bool) []byte {
	m := (n + encoding.BlockSize - 1) / encoding.BlockSize
	if m == 0 {
		return nil
	}

	sync := make([]int64, 0, m)
	payload := make([]byte, 0, n*d) // varints average well under 8 bytes/value

	var col [encoding.BlockSize]int64
	for blk := 0; blk < m; blk++ {
		sync = append(sync, int64(len(payload)))

		i0 := blk * encoding.BlockSize
		rows := n - i0
		if rows > encoding.BlockSize {
			rows = encoding.BlockSize
		}

		for j := 0; j < d; j++ {
			for r := 0; r < encoding.BlockSize; r++ {
				if r < rows {
					col[r] = vals[(i0+r)*d+j]
				} else {
					col[r] = encoding.PadValue
				}
			}
			if delta {
				for r := encoding.BlockSize - 1; r >= 1; r-- {
					col[r] -= col[r-1]
				}
			}
			payload = encoding.AppendBlock(payload, col[:])
		}
	}

	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 0, 8*m+len(payload))
	for _, s := range sync {
		out = endian.AppendInt64(engine, out, s)
	}

	return append(out, payload...)
}

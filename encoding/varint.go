// Package encoding implements the varint codec used by compressed Ziggurat
// components.
//
// Signed values are zig-zag mapped and then LEB128 encoded (7 data bits per
// byte, high bit as continuation), which is exactly the encoding implemented
// by encoding/binary's Varint functions. Unsigned values use plain LEB128.
//
// Compressed vector and index components group values into blocks of sixteen;
// a block shorter than sixteen is padded with the sentinel value -1 so that
// decoders can always step a full block.
package encoding

import "encoding/binary"

// BlockSize is the number of values per varint block in compressed components.
const BlockSize = 16

// PadValue is the sentinel appended to short trailing blocks.
const PadValue int64 = -1

// MaxVarintLen is the maximum byte length of a single encoded 64-bit varint.
const MaxVarintLen = binary.MaxVarintLen64

// AppendVarint appends the zig-zag LEB128 encoding of v to dst.
func AppendVarint(dst []byte, v int64) []byte {
	return binary.AppendVarint(dst, v)
}

// AppendUvarint appends the plain LEB128 encoding of v to dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	return binary.AppendUvarint(dst, v)
}

// AppendBlock appends each value in vals as a zig-zag varint, in order.
// It does not pad; callers that need a full block use AppendPaddedBlock.
func AppendBlock(dst []byte, vals []int64) []byte {
	for _, v := range vals {
		dst = binary.AppendVarint(dst, v)
	}

	return dst
}

// AppendPaddedBlock appends vals as zig-zag varints and pads with PadValue
// up to BlockSize entries. len(vals) must not exceed BlockSize.
func AppendPaddedBlock(dst []byte, vals []int64) []byte {
	dst = AppendBlock(dst, vals)
	for i := len(vals); i < BlockSize; i++ {
		dst = binary.AppendVarint(dst, PadValue)
	}

	return dst
}

// Varint decodes one zig-zag varint from buf.
// It returns the value and the number of bytes consumed (0 if buf is too
// short, negative on overflow), mirroring binary.Varint.
func Varint(buf []byte) (int64, int) {
	return binary.Varint(buf)
}

// Uvarint decodes one plain LEB128 varint from buf.
func Uvarint(buf []byte) (uint64, int) {
	return binary.Uvarint(buf)
}

// DecodeBlock decodes exactly n zig-zag varints from buf into a new slice.
// It returns the values and the number of bytes consumed. The second return
// is negative when buf is truncated or a value overflows.
func DecodeBlock(buf []byte, n int) ([]int64, int) {
	vals := make([]int64, 0, n)
	total := 0
	for i := 0; i < n; i++ {
		v, size := binary.Varint(buf[total:])
		if size <= 0 {
			return nil, -1
		}
		vals = append(vals, v)
		total += size
	}

	return vals, total
}

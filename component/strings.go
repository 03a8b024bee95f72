package component

import (
	"io"

	"github.com/etemenanki/ziggurat/endian"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// StringList is a concatenation of exactly n NUL-terminated UTF-8 strings.
type StringList struct {
	base
	encoded []byte
}

// NewStringList creates a string list over strs, which must hold exactly n
// entries. The strings themselves must not contain NUL bytes.
func NewStringList(strs [][]byte, name string, n int) (*StringList, error) {
	b, err := newBase(name, format.TypeStringList, format.ModePlain, int64(n), 0)
	if err != nil {
		return nil, err
	}
	if n < 0 || len(strs) != n {
		return nil, errs.ErrSizeMismatch
	}

	total := 0
	for _, s := range strs {
		total += len(s) + 1
	}
	encoded := make([]byte, 0, total)
	for _, s := range strs {
		encoded = append(encoded, s...)
		encoded = append(encoded, 0)
	}

	return &StringList{base: b, encoded: encoded}, nil
}

func (s *StringList) ByteLen() int64 {
	return int64(len(s.encoded))
}

func (s *StringList) WriteTo(w io.Writer) (int64, error) {
	return writeAll(w, s.encoded)
}

// StringVector is an offset table of n+1 little-endian 8-byte offsets into a
// trailing payload of NUL-terminated strings. offset[0] is 0 and offset[n]
// equals the total payload length, so offset[i+1]−offset[i] spans the i-th
// string including its terminator.
type StringVector struct {
	base
	offsets []int64
	payload []byte
}

// NewStringVector creates a string vector over strs, which must hold exactly
// n entries.
func NewStringVector(strs [][]byte, name string, n int) (*StringVector, error) {
	b, err := newBase(name, format.TypeStringVector, format.ModePlain, int64(n), 0)
	if err != nil {
		return nil, err
	}
	if n < 0 || len(strs) != n {
		return nil, errs.ErrSizeMismatch
	}

	total := 0
	for _, s := range strs {
		total += len(s) + 1
	}

	offsets := make([]int64, 0, n+1)
	payload := make([]byte, 0, total)
	var off int64
	for _, s := range strs {
		offsets = append(offsets, off)
		payload = append(payload, s...)
		payload = append(payload, 0)
		off += int64(len(s)) + 1
	}
	offsets = append(offsets, off)

	return &StringVector{base: b, offsets: offsets, payload: payload}, nil
}

func (s *StringVector) ByteLen() int64 {
	return int64(len(s.offsets))*8 + int64(len(s.payload))
}

func (s *StringVector) WriteTo(w io.Writer) (int64, error) {
	engine := endian.GetLittleEndianEngine()
	buf := make([]byte, 0, len(s.offsets)*8)
	for _, o := range s.offsets {
		buf = endian.AppendInt64(engine, buf, o)
	}

	total, err := writeAll(w, buf)
	if err != nil {
		return total, err
	}
	n, err := writeAll(w, s.payload)

	return total + n, err
}

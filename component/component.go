// Package component implements the builders for the typed byte blobs stored
// inside Ziggurat containers: vectors (raw, block-compressed, and
// block-delta), string lists and string vectors, per-position sets, sorted
// indexes, and inverted postings indexes.
//
// Every builder computes its canonical byte image at construction time (or a
// closed formula for its length) so the container writer can lay out the
// Block Offset Map before any data is written. A component's WriteTo must
// emit exactly ByteLen bytes; the container writer enforces this.
package component

import (
	"io"

	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// MaxNameLen is the maximum length of a component name in ASCII bytes.
const MaxNameLen = 12

// Component is one named, typed byte blob inside a container.
type Component interface {
	// Name returns the component name (at most 12 ASCII bytes).
	Name() string
	// Type returns the component type written to the BOM descriptor.
	Type() format.ComponentType
	// Mode returns the storage mode written to the BOM descriptor.
	Mode() format.StorageMode
	// Params returns the two component specific BOM parameters,
	// typically n and d (or another secondary dimension).
	Params() (int64, int64)
	// ByteLen returns the exact size of the data section in bytes.
	// It is valid before WriteTo and must equal the bytes written.
	ByteLen() int64
	// WriteTo writes the data section to w.
	WriteTo(w io.Writer) (int64, error)
}

// base carries the descriptor fields shared by all builders.
type base struct {
	name  string
	ctype format.ComponentType
	mode  format.StorageMode
	p1    int64
	p2    int64
}

func newBase(name string, ctype format.ComponentType, mode format.StorageMode, p1, p2 int64) (base, error) {
	if len(name) > MaxNameLen {
		return base{}, errs.ErrNameTooLong
	}
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7f {
			return base{}, errs.ErrNameTooLong
		}
	}

	return base{name: name, ctype: ctype, mode: mode, p1: p1, p2: p2}, nil
}

func (b *base) Name() string                { return b.name }
func (b *base) Type() format.ComponentType  { return b.ctype }
func (b *base) Mode() format.StorageMode    { return b.mode }
func (b *base) Params() (int64, int64)      { return b.p1, b.p2 }

// writeAll writes buf to w, converting short writes into errors.
func writeAll(w io.Writer, buf []byte) (int64, error) {
	n, err := w.Write(buf)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}

	return int64(n), err
}

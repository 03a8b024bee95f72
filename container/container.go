// Package container assembles Ziggurat container files: a fixed 160-byte
// header, a Block Offset Map of 48-byte component descriptors, and the
// 8-byte-aligned component data sections.
package container

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/endian"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
	"github.com/etemenanki/ziggurat/internal/options"
)

const (
	// HeaderSize is the fixed size of the container header in bytes.
	HeaderSize = 160
	// BOMEntrySize is the size of one Block Offset Map descriptor.
	BOMEntrySize = 48
	// MaxComponents is the most components a container can hold.
	MaxComponents = 255
	// CommentSize is the size of the NUL-padded comment field.
	CommentSize = 72

	// Magic is the ASCII file magic at offset 0.
	Magic = "Ziggurat"
	// Version is the three ASCII bytes at offset 8.
	Version = "1.0"
)

// attribution is appended to every container comment, inside the 72-byte cap.
const attribution = " encoded with ziggurat-go"

// DataStart returns the file offset where the data section of a container
// with cn components begins.
func DataStart(cn int) int64 {
	return HeaderSize + int64(cn)*BOMEntrySize
}

// AlignOffset rounds o up to the next multiple of 8.
func AlignOffset(o int64) int64 {
	if rem := o % 8; rem != 0 {
		return o + (8 - rem)
	}

	return o
}

// Container represents one Ziggurat container file before writing.
// Containers are immutable once constructed; Write emits the complete file
// in a single pass.
type Container struct {
	ctype   format.ContainerType
	dims    [2]int64
	uid     uuid.UUID
	bases   [2]uuid.UUID
	comment []byte
	comps   []component.Component
}

// Option configures a Container during New.
type Option = options.Option[*Container]

// WithBase sets the first base layer reference.
func WithBase(base uuid.UUID) Option {
	return options.NoError(func(c *Container) {
		c.bases[0] = base
	})
}

// WithBases sets both base layer references.
func WithBases(base1, base2 uuid.UUID) Option {
	return options.NoError(func(c *Container) {
		c.bases[0] = base1
		c.bases[1] = base2
	})
}

// WithComment sets the container comment. The comment plus the encoder
// attribution must fit the 72-byte header field with a trailing NUL.
func WithComment(comment string) Option {
	return options.New(func(c *Container) error {
		full := []byte(comment + attribution)
		if len(full) >= CommentSize {
			return errs.ErrCommentTooLong
		}
		c.comment = full

		return nil
	})
}

// New creates a container of the given type and dimensions over comps.
// uid is the container's identity; pass uuid.New() unless reproducing an
// existing store.
func New(ctype format.ContainerType, comps []component.Component, dim1, dim2 int64, uid uuid.UUID, opts ...Option) (*Container, error) {
	if !ctype.Valid() {
		return nil, errs.ErrInvalidContainerType
	}
	if len(comps) > MaxComponents {
		return nil, errs.ErrTooManyComponents
	}

	c := &Container{
		ctype:   ctype,
		dims:    [2]int64{dim1, dim2},
		uid:     uid,
		comps:   comps,
		comment: []byte(attribution),
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// UUID returns the container's identity.
func (c *Container) UUID() uuid.UUID {
	return c.uid
}

// Type returns the container type triplet.
func (c *Container) Type() format.ContainerType {
	return c.ctype
}

// Dimensions returns dim1 and dim2.
func (c *Container) Dimensions() (int64, int64) {
	return c.dims[0], c.dims[1]
}

// Components returns the container's components in BOM order.
func (c *Container) Components() []component.Component {
	return c.comps
}

// Offsets returns the data section offset of every component, in BOM order.
// Each offset is the predecessor's end rounded up to a multiple of 8.
func (c *Container) Offsets() []int64 {
	offsets := make([]int64, 0, len(c.comps))
	next := DataStart(len(c.comps))
	for _, comp := range c.comps {
		offsets = append(offsets, next)
		next = AlignOffset(next + comp.ByteLen())
	}

	return offsets
}

// Write emits the complete container to w: header, BOM, and all component
// data sections with zero padding in between. It returns the total number of
// bytes written.
func (c *Container) Write(w io.Writer) (int64, error) {
	offsets := c.Offsets()

	total, err := c.writeHeader(w, offsets)
	if err != nil {
		return total, err
	}

	var pad [8]byte
	for i, comp := range c.comps {
		if gap := offsets[i] - total; gap > 0 {
			n, err := w.Write(pad[:gap])
			total += int64(n)
			if err != nil {
				return total, fmt.Errorf("container %s: write padding: %w", c.uid, err)
			}
		}

		n, err := comp.WriteTo(w)
		total += n
		if err != nil {
			return total, fmt.Errorf("container %s: write component %q: %w", c.uid, comp.Name(), err)
		}
		if n != comp.ByteLen() {
			return total, fmt.Errorf("container %s: component %q wrote %d bytes, declared %d: %w",
				c.uid, comp.Name(), n, comp.ByteLen(), errs.ErrSizeMismatch)
		}
	}

	return total, nil
}

// writeHeader emits the fixed header and the BOM descriptors.
func (c *Container) writeHeader(w io.Writer, offsets []int64) (int64, error) {
	engine := endian.GetLittleEndianEngine()

	buf := make([]byte, 0, DataStart(len(c.comps)))
	buf = append(buf, Magic...)
	buf = append(buf, Version...)
	buf = append(buf, string(c.ctype)...)
	buf = append(buf, byte(len(c.comps)), byte(len(c.comps))) // allocated, used
	buf = append(buf, c.uid[:]...)
	buf = append(buf, c.bases[0][:]...)
	buf = append(buf, c.bases[1][:]...)
	buf = endian.AppendInt64(engine, buf, c.dims[0])
	buf = endian.AppendInt64(engine, buf, c.dims[1])
	buf = append(buf, make([]byte, 8)...) // extensions, reserved

	comment := make([]byte, CommentSize)
	copy(comment, c.comment)
	buf = append(buf, comment...)

	for i, comp := range c.comps {
		buf = appendBOMEntry(engine, buf, comp, offsets[i])
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("container %s: write header: %w", c.uid, err)
	}

	return int64(n), nil
}

// appendBOMEntry serializes one 48-byte component descriptor.
func appendBOMEntry(engine endian.EndianEngine, buf []byte, comp component.Component, offset int64) []byte {
	buf = append(buf, 0x01, byte(comp.Type()), byte(comp.Mode()))

	name := make([]byte, 13)
	copy(name, comp.Name())
	buf = append(buf, name...)

	p1, p2 := comp.Params()
	buf = endian.AppendInt64(engine, buf, offset)
	buf = endian.AppendInt64(engine, buf, comp.ByteLen())
	buf = endian.AppendInt64(engine, buf, p1)
	buf = endian.AppendInt64(engine, buf, p2)

	return buf
}

package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
	"github.com/etemenanki/ziggurat/internal/hash"
)

// variable carries the fields shared by all variable kinds.
type variable struct {
	base Layer
	c    *container.Container
}

func (v *variable) Base() Layer                     { return v.base }
func (v *variable) UUID() uuid.UUID                 { return v.c.UUID() }
func (v *variable) Container() *container.Container { return v.c }

// readValues drains it and returns copies of exactly n values.
func readValues(it ValueIter, n int64) ([][]byte, error) {
	if err := it.Reset(); err != nil {
		return nil, fmt.Errorf("reset input: %w", err)
	}

	values := make([][]byte, 0, n)
	for {
		v, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if int64(len(values)) == n {
			return nil, errs.ErrSizeMismatch
		}
		values = append(values, append([]byte(nil), v...))
	}
	if int64(len(values)) != n {
		return nil, errs.ErrSizeMismatch
	}

	return values, nil
}

// PlainStringVariable stores every position's string verbatim: the raw
// string data, an offset stream locating each string, and a hash index from
// string hash to position.
type PlainStringVariable struct {
	variable
}

// NewPlainStringVariable creates a plain string variable over the values
// yielded by strings, one per base layer position.
func NewPlainStringVariable(base Layer, strings ValueIter, opts ...Option) (*PlainStringVariable, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	n := base.Len()
	values, err := readValues(strings, n)
	if err != nil {
		return nil, err
	}

	offsets := make([]int64, 0, n+1)
	pairs := make([]component.Pair, 0, n)
	var off int64
	offsets = append(offsets, 0)
	for i, v := range values {
		off += int64(len(v)) + 1
		offsets = append(offsets, off)
		pairs = append(pairs, component.Pair{Key: hash.Signed(v), Pos: int64(i)})
	}

	stringData, err := component.NewStringList(values, "StringData", int(n))
	if err != nil {
		return nil, err
	}

	var offsetStream, stringHash component.Component
	if cfg.uncompressed {
		if offsetStream, err = component.NewVector(offsets, "OffsetStream", int(n)+1, 1); err != nil {
			return nil, err
		}
		if stringHash, err = component.NewIndex(pairs, "StringHash", int(n), false); err != nil {
			return nil, err
		}
	} else {
		if offsetStream, err = component.NewVectorDelta(offsets, "OffsetStream", int(n)+1, 1); err != nil {
			return nil, err
		}
		if stringHash, err = component.NewIndexCompressed(pairs, "StringHash", int(n), false); err != nil {
			return nil, err
		}
	}

	c, err := container.New(format.ContainerPlainString,
		[]component.Component{stringData, offsetStream, stringHash},
		n, 0, cfg.containerUUID(),
		container.WithBase(base.UUID()),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &PlainStringVariable{variable{base: base, c: c}}, nil
}

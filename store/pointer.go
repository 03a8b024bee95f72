package store

import (
	"fmt"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// PointerVariable stores one head pointer per position, typically encoding
// dependency relations. A head is either a base layer position or -1 for
// roots.
type PointerVariable struct {
	variable
}

// NewPointerVariable creates a pointer variable over heads, one per base
// layer position. Every head must lie in {-1} ∪ [0, n-1].
func NewPointerVariable(base Layer, heads []int64, opts ...Option) (*PointerVariable, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	n := base.Len()
	if int64(len(heads)) != n {
		return nil, errs.ErrSizeMismatch
	}
	for i, h := range heads {
		if h < -1 || h >= n {
			return nil, fmt.Errorf("head %d at position %d with n=%d: %w", h, i, n, errs.ErrPointerOutOfRange)
		}
	}

	var headStream component.Component
	if cfg.uncompressed {
		headStream, err = component.NewVector(heads, "HeadStream", int(n), 1)
	} else {
		headStream, err = component.NewVectorDelta(heads, "HeadStream", int(n), 1)
	}
	if err != nil {
		return nil, err
	}

	pairs := make([]component.Pair, 0, n)
	for i, h := range heads {
		pairs = append(pairs, component.Pair{Key: h, Pos: int64(i)})
	}

	var headSort component.Component
	if cfg.uncompressed {
		headSort, err = component.NewIndex(pairs, "HeadSort", int(n), false)
	} else {
		headSort, err = component.NewIndexCompressed(pairs, "HeadSort", int(n), false)
	}
	if err != nil {
		return nil, err
	}

	c, err := container.New(format.ContainerPointer,
		[]component.Component{headStream, headSort},
		n, 0, cfg.containerUUID(),
		container.WithBase(base.UUID()),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &PointerVariable{variable{base: base, c: c}}, nil
}

package store

import (
	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// IntegerVariable stores one integer per position plus a sort index over
// (value, position) pairs for ordered lookups.
type IntegerVariable struct {
	variable
}

// NewIntegerVariable creates an integer variable over ints, one per base
// layer position. The stream is block-compressed by default; WithDeltaStream
// switches to block-delta storage for monotone-friendly values and
// WithUncompressed stores raw vectors.
func NewIntegerVariable(base Layer, ints []int64, opts ...Option) (*IntegerVariable, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	n := base.Len()
	if int64(len(ints)) != n {
		return nil, errs.ErrSizeMismatch
	}

	var intStream component.Component
	switch {
	case cfg.uncompressed:
		intStream, err = component.NewVector(ints, "IntStream", int(n), 1)
	case cfg.delta:
		intStream, err = component.NewVectorDelta(ints, "IntStream", int(n), 1)
	default:
		intStream, err = component.NewVectorComp(ints, "IntStream", int(n), 1)
	}
	if err != nil {
		return nil, err
	}

	pairs := make([]component.Pair, 0, n)
	for i, v := range ints {
		pairs = append(pairs, component.Pair{Key: v, Pos: int64(i)})
	}

	var intSort component.Component
	if cfg.uncompressed {
		intSort, err = component.NewIndex(pairs, "IntSort", int(n), false)
	} else {
		intSort, err = component.NewIndexCompressed(pairs, "IntSort", int(n), false)
	}
	if err != nil {
		return nil, err
	}

	c, err := container.New(format.ContainerInteger,
		[]component.Component{intStream, intSort},
		n, 1, cfg.containerUUID(),
		container.WithBase(base.UUID()),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &IntegerVariable{variable{base: base, c: c}}, nil
}

package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
)

// PrimaryLayer is the root container of a datastore. It declares n corpus
// positions and carries no components.
type PrimaryLayer struct {
	n int64
	c *container.Container
}

// NewPrimaryLayer creates a primary layer over n corpus positions.
func NewPrimaryLayer(n int64, opts ...Option) (*PrimaryLayer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.ErrSizeMismatch
	}

	c, err := container.New(format.ContainerPrimaryLayer, nil, n, 0, cfg.containerUUID(),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &PrimaryLayer{n: n, c: c}, nil
}

func (l *PrimaryLayer) Len() int64                      { return l.n }
func (l *PrimaryLayer) UUID() uuid.UUID                 { return l.c.UUID() }
func (l *PrimaryLayer) Container() *container.Container { return l.c }

// Range is a half-open [Start, End) span of base layer positions.
type Range struct {
	Start int64
	End   int64
}

// SegmentationLayer is a sequence of non-overlapping, monotonically
// increasing ranges over a base layer. Its components are the RangeStream
// (block-delta vector of (start, end) pairs), the StartSort index over range
// starts, and the EndSort index over range ends.
type SegmentationLayer struct {
	n int64
	c *container.Container
}

// NewSegmentationLayer creates a segmentation layer over ranges.
// Every range must satisfy 0 ≤ start < end, and starts must increase
// strictly with no overlap between consecutive ranges.
func NewSegmentationLayer(base Layer, ranges []Range, opts ...Option) (*SegmentationLayer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	n := len(ranges)
	for i, r := range ranges {
		if r.Start < 0 || r.Start >= r.End {
			return nil, fmt.Errorf("range %d [%d, %d): %w", i, r.Start, r.End, errs.ErrInvalidRange)
		}
		if i > 0 && ranges[i-1].End > r.Start {
			return nil, fmt.Errorf("range %d starts at %d before range %d ends at %d: %w",
				i, r.Start, i-1, ranges[i-1].End, errs.ErrInvalidRange)
		}
	}

	vals := make([]int64, 0, 2*n)
	starts := make([]component.Pair, 0, n)
	ends := make([]component.Pair, 0, n)
	for i, r := range ranges {
		vals = append(vals, r.Start, r.End)
		starts = append(starts, component.Pair{Key: r.Start, Pos: int64(i)})
		ends = append(ends, component.Pair{Key: r.End, Pos: int64(i)})
	}

	rangeStream, err := component.NewVectorDelta(vals, "RangeStream", n, 2)
	if err != nil {
		return nil, err
	}

	// Range starts arrive sorted by construction and are kept in input order;
	// ends are always sorted by the index builder.
	var startSort, endSort component.Component
	if cfg.uncompressed {
		if startSort, err = component.NewIndex(starts, "StartSort", n, true); err != nil {
			return nil, err
		}
		if endSort, err = component.NewIndex(ends, "EndSort", n, false); err != nil {
			return nil, err
		}
	} else {
		if startSort, err = component.NewIndexCompressed(starts, "StartSort", n, true); err != nil {
			return nil, err
		}
		if endSort, err = component.NewIndexCompressed(ends, "EndSort", n, false); err != nil {
			return nil, err
		}
	}

	c, err := container.New(format.ContainerSegmentationLayer,
		[]component.Component{rangeStream, startSort, endSort},
		int64(n), 0, cfg.containerUUID(),
		container.WithBase(base.UUID()),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &SegmentationLayer{n: int64(n), c: c}, nil
}

func (l *SegmentationLayer) Len() int64                      { return l.n }
func (l *SegmentationLayer) UUID() uuid.UUID                 { return l.c.UUID() }
func (l *SegmentationLayer) Container() *container.Container { return l.c }

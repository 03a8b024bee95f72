package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/etemenanki/ziggurat/internal/collision"
	"github.com/etemenanki/ziggurat/store"
	"github.com/etemenanki/ziggurat/vrt"
)

// encoder drives the bottom-up construction of the datastore: primary layer
// first, then its variables, then segmentation layers and theirs.
type encoder struct {
	file       *vrt.File
	ds         *store.Datastore
	stats      vrt.Stats
	pAttrs     []pAttr
	ptrBase    string
	intDefault *int64
	uncomp     bool
	lenient    bool

	primary *store.PrimaryLayer
}

func (e *encoder) encode(sAttrs []string, sAnnos map[string][]sAnno) error {
	log.Println("Building Ziggurat datastore...")

	primary, err := store.NewPrimaryLayer(e.stats.Positions,
		store.WithComment(e.file.Path()))
	if err != nil {
		return err
	}
	e.primary = primary
	if err := e.write("primary", primary); err != nil {
		return err
	}

	for i, attr := range e.pAttrs {
		if attr.typ == "skip" {
			continue
		}
		if err := e.encodePAttr(i, attr); err != nil {
			return fmt.Errorf("encode p-attribute %q: %w", attr.name, err)
		}
	}

	segLayers := make(map[string]*store.SegmentationLayer, len(sAttrs))
	for _, tag := range sAttrs {
		layer, err := e.encodeSAttr(tag)
		if err != nil {
			return fmt.Errorf("encode s-attribute %q: %w", tag, err)
		}
		segLayers[tag] = layer
	}

	for tag, annos := range sAnnos {
		layer, ok := segLayers[tag]
		if !ok {
			// Annotated tags without an explicit -s still need their layer.
			var err error
			if layer, err = e.encodeSAttr(tag); err != nil {
				return fmt.Errorf("encode s-attribute %q: %w", tag, err)
			}
			segLayers[tag] = layer
		}
		for _, anno := range annos {
			if err := e.encodeAnno(layer, tag, anno); err != nil {
				return fmt.Errorf("encode annotation %q of s-attribute %q: %w", anno.name, tag, err)
			}
		}
	}

	return nil
}

// baseOptions returns the options shared by every variable of this run.
func (e *encoder) baseOptions(comment string) []store.Option {
	opts := []store.Option{store.WithComment(comment)}
	if e.uncomp {
		opts = append(opts, store.WithUncompressed())
	}

	return opts
}

func (e *encoder) write(name string, obj store.Object) error {
	path, err := e.ds.Write(name, obj)
	if err != nil {
		return err
	}
	log.Printf("Wrote %s container %s to %s", obj.Container().Type(), obj.UUID(), path)

	return nil
}

func (e *encoder) encodePAttr(column int, attr pAttr) error {
	comment := "p-attr " + attr.name
	iter := vrt.NewPosIter(e.file, column, e.stats.Columns)

	var (
		obj store.Object
		err error
	)
	switch attr.typ {
	case "indexed":
		var v *store.IndexedStringVariable
		v, err = store.NewIndexedStringVariable(e.primary, iter, e.baseOptions(comment)...)
		if v != nil {
			warnCollisions(attr.name, v.Collisions())
		}
		obj = v
	case "plain":
		obj, err = store.NewPlainStringVariable(e.primary, iter, e.baseOptions(comment)...)
	case "int":
		obj, err = e.intVariable(e.primary, iter, comment, false)
	case "delta":
		obj, err = e.intVariable(e.primary, iter, comment, true)
	case "set":
		obj, err = e.setVariable(e.primary, iter, comment)
	case "ptr":
		obj, err = e.ptrVariable(column, comment)
	default:
		return fmt.Errorf("invalid type %q", attr.typ)
	}
	if err != nil {
		return err
	}

	return e.write(attr.name, obj)
}

func (e *encoder) intVariable(base store.Layer, iter store.ValueIter, comment string, delta bool) (store.Object, error) {
	ints, err := vrt.Ints(iter, base.Len(), e.intDefault)
	if err != nil {
		return nil, err
	}

	opts := e.baseOptions(comment)
	if delta {
		opts = append(opts, store.WithDeltaStream())
	}

	return store.NewIntegerVariable(base, ints, opts...)
}

func (e *encoder) setVariable(base store.Layer, iter store.ValueIter, comment string) (store.Object, error) {
	if err := iter.Reset(); err != nil {
		return nil, err
	}

	sets := make([][]string, 0, base.Len())
	for {
		v, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		sets = append(sets, vrt.ParseSet(v))
	}

	v, err := store.NewSetVariable(base, sets, e.baseOptions(comment)...)
	if err != nil {
		return nil, err
	}
	warnCollisions(comment, v.Collisions())

	return v, nil
}

// ptrVariable encodes universal-dependencies style head pointers. The input
// carries a 1-based token index column (the ptr-base) and a head column;
// a head of 0 marks the root and maps to -1, any other head maps to the
// corpus position cpos + (head − index).
func (e *encoder) ptrVariable(headColumn int, comment string) (store.Object, error) {
	baseColumn := -1
	for i, a := range e.pAttrs {
		if a.name == e.ptrBase {
			baseColumn = i
			break
		}
	}
	if baseColumn < 0 {
		return nil, fmt.Errorf("ptr-base %q not found", e.ptrBase)
	}

	n := e.primary.Len()
	indexes, err := vrt.Ints(vrt.NewPosIter(e.file, baseColumn, e.stats.Columns), n, nil)
	if err != nil {
		return nil, err
	}
	heads, err := vrt.Ints(vrt.NewPosIter(e.file, headColumn, e.stats.Columns), n, nil)
	if err != nil {
		return nil, err
	}

	pointers := make([]int64, n)
	for cpos := int64(0); cpos < n; cpos++ {
		if heads[cpos] == 0 {
			pointers[cpos] = -1
			continue
		}
		pointers[cpos] = cpos + (heads[cpos] - indexes[cpos])
	}

	return store.NewPointerVariable(e.primary, pointers, e.baseOptions(comment)...)
}

func (e *encoder) encodeSAttr(tag string) (*store.SegmentationLayer, error) {
	ranges, _, err := e.collectSpans(tag)
	if err != nil {
		return nil, err
	}

	layer, err := store.NewSegmentationLayer(e.primary, ranges, e.baseOptions("s-attr "+tag)...)
	if err != nil {
		return nil, err
	}
	if err := e.write(tag+"/"+tag, layer); err != nil {
		return nil, err
	}

	return layer, nil
}

func (e *encoder) encodeAnno(layer *store.SegmentationLayer, tag string, anno sAnno) error {
	_, spans, err := e.collectSpans(tag)
	if err != nil {
		return err
	}

	values := make([]string, 0, len(spans))
	for i, s := range spans {
		v, ok := s.Attrs[anno.name]
		if !ok {
			return fmt.Errorf("span %d has no attribute %q", i, anno.name)
		}
		values = append(values, v)
	}
	if int64(len(values)) != layer.Len() {
		return fmt.Errorf("collected %d annotation values for %d spans", len(values), layer.Len())
	}

	comment := fmt.Sprintf("s-attr %s_%s", tag, anno.name)
	iter := store.NewStringSliceIter(values)

	var obj store.Object
	switch anno.typ {
	case "indexed":
		var v *store.IndexedStringVariable
		v, err = store.NewIndexedStringVariable(layer, iter, e.baseOptions(comment)...)
		if v != nil {
			warnCollisions(anno.name, v.Collisions())
		}
		obj = v
	case "plain":
		obj, err = store.NewPlainStringVariable(layer, iter, e.baseOptions(comment)...)
	case "int":
		obj, err = e.intVariable(layer, iter, comment, false)
	case "delta":
		obj, err = e.intVariable(layer, iter, comment, true)
	case "set":
		obj, err = e.setVariable(layer, iter, comment)
	default:
		return fmt.Errorf("invalid type %q", anno.typ)
	}
	if err != nil {
		return err
	}

	return e.write(tag+"/"+anno.name, obj)
}

// collectSpans drains a span iterator for tag. Spans arrive in closing-tag
// order; for the non-nesting tags a segmentation layer can encode this is
// document order, and anything else is rejected by the layer's range checks.
func (e *encoder) collectSpans(tag string) ([]store.Range, []vrt.Span, error) {
	iter := vrt.NewSpanIter(e.file, tag, e.lenient)
	if err := iter.Reset(); err != nil {
		return nil, nil, err
	}

	var spans []vrt.Span
	for {
		s, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		spans = append(spans, s)
	}

	ranges := make([]store.Range, 0, len(spans))
	for _, s := range spans {
		ranges = append(ranges, store.Range{Start: s.Start, End: s.End})
	}

	return ranges, spans, nil
}

func warnCollisions(name string, collisions []collision.Collision) {
	for _, c := range collisions {
		log.Printf("warning: %s: hash collision between %q and %q (key %d); lexicon lookups for these are ambiguous",
			name, c.Existing, c.Added, c.Key)
	}
}

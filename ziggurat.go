// Package ziggurat encodes linguistic corpora into the Ziggurat on-disk data
// store: a directory of content-addressed container files forming a layered
// index of token positions and their attributes.
//
// A datastore is built bottom up. The primary layer declares the corpus
// positions; variables annotate them (verbatim strings, lexicon-indexed
// strings, integers, sets of lexicon ids, head pointers); segmentation
// layers group positions into spans and carry variables of their own. Every
// container file consists of a fixed binary header, a Block Offset Map of
// component descriptors, and 8-byte-aligned component payloads, all
// little-endian. Containers reference their base layers by UUID only.
//
// # Basic Usage
//
// Encoding a tokenized corpus held in memory:
//
//	primary, _ := ziggurat.NewPrimaryLayer(3)
//	words, _ := store.NewIndexedStringVariable(primary,
//	    store.NewStringSliceIter([]string{"a", "b", "a"}))
//
//	ds, _ := ziggurat.Create("corpus", false)
//	ds.Write("primary", primary)
//	ds.Write("word", words)
//
// For VRT input the vrt package provides the resettable column and span
// iterators the variable builders consume; the vrt2zig command wires the
// whole pipeline together.
//
// # Package Structure
//
// The root package only re-exports the most common entry points. The
// encoding, component, container, and store packages expose the individual
// pipeline stages for fine-grained control.
package ziggurat

import (
	"github.com/etemenanki/ziggurat/store"
)

// Create prepares a datastore directory for writing containers.
func Create(dir string, force bool) (*store.Datastore, error) {
	return store.Create(dir, force)
}

// NewPrimaryLayer creates the root layer of a datastore over n corpus
// positions.
func NewPrimaryLayer(n int64, opts ...store.Option) (*store.PrimaryLayer, error) {
	return store.NewPrimaryLayer(n, opts...)
}

// NewSegmentationLayer creates a span layer over a base layer.
func NewSegmentationLayer(base store.Layer, ranges []store.Range, opts ...store.Option) (*store.SegmentationLayer, error) {
	return store.NewSegmentationLayer(base, ranges, opts...)
}

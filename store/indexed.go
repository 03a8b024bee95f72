package store

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
	"github.com/etemenanki/ziggurat/internal/collision"
	"github.com/etemenanki/ziggurat/internal/hash"
)

// lexEntry is one lexicon candidate during frequency counting.
type lexEntry struct {
	s     string
	freq  int64
	first int64
}

// buildLexicon orders entries by descending frequency, ties broken by first
// occurrence, and assigns lexicon ids in that order.
func buildLexicon(entries []lexEntry) (map[string]int64, [][]byte) {
	slices.SortFunc(entries, func(a, b lexEntry) int {
		if c := cmp.Compare(b.freq, a.freq); c != 0 {
			return c
		}

		return cmp.Compare(a.first, b.first)
	})

	ids := make(map[string]int64, len(entries))
	strs := make([][]byte, 0, len(entries))
	for i, e := range entries {
		ids[e.s] = int64(i)
		strs = append(strs, []byte(e.s))
	}

	return ids, strs
}

// lexHashPairs hashes every lexicon entry, tracking collisions between
// distinct strings.
func lexHashPairs(strs [][]byte, tracker *collision.Tracker) []component.Pair {
	pairs := make([]component.Pair, 0, len(strs))
	for i, s := range strs {
		key := hash.Signed(s)
		tracker.Track(key, string(s))
		pairs = append(pairs, component.Pair{Key: key, Pos: int64(i)})
	}

	return pairs
}

// IndexedStringVariable stores a lexicon of unique strings sorted by
// descending frequency plus a per-position stream of lexicon ids and an
// inverted index from id to positions.
//
// The builder makes two passes over the input iterator: the first counts
// type frequencies, the second emits the id stream. Peak memory is bounded
// by the lexicon plus the id stream, not by the concatenated input.
type IndexedStringVariable struct {
	variable
	collisions []collision.Collision
}

// NewIndexedStringVariable creates an indexed string variable over the
// values yielded by strings, one per base layer position. The iterator is
// consumed twice; if it checksums its values, the passes are verified to
// have seen identical input.
func NewIndexedStringVariable(base Layer, strings ValueIter, opts ...Option) (*IndexedStringVariable, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	n := base.Len()

	// First pass: type frequencies in occurrence order.
	if err := strings.Reset(); err != nil {
		return nil, fmt.Errorf("reset input: %w", err)
	}
	freq := make(map[string]*lexEntry)
	order := make([]*lexEntry, 0, 1024)
	var count int64
	for {
		v, err := strings.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if e, ok := freq[string(v)]; ok {
			e.freq++
		} else {
			e := &lexEntry{s: string(v), freq: 1, first: count}
			freq[e.s] = e
			order = append(order, e)
		}
		count++
	}
	if count != n {
		return nil, errs.ErrSizeMismatch
	}

	var sum1 uint64
	fp, fingerprinted := strings.(Fingerprinted)
	if fingerprinted {
		sum1 = fp.Sum64()
	}

	entries := make([]lexEntry, 0, len(order))
	for _, e := range order {
		entries = append(entries, *e)
	}
	ids, lexStrings := buildLexicon(entries)
	v := len(lexStrings)

	tracker := collision.NewTracker()
	hashPairs := lexHashPairs(lexStrings, tracker)

	// Second pass: id stream and postings.
	if err := strings.Reset(); err != nil {
		return nil, fmt.Errorf("reset input: %w", err)
	}
	lexids := make([]int64, 0, n)
	postings := make([][]int64, v)
	for {
		val, err := strings.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		id, ok := ids[string(val)]
		if !ok || int64(len(lexids)) == n {
			return nil, errs.ErrInputChanged
		}
		postings[id] = append(postings[id], int64(len(lexids)))
		lexids = append(lexids, id)
	}
	if int64(len(lexids)) != n {
		return nil, errs.ErrInputChanged
	}
	if fingerprinted && fp.Sum64() != sum1 {
		return nil, errs.ErrInputChanged
	}

	lexicon, err := component.NewStringVector(lexStrings, "Lexicon", v)
	if err != nil {
		return nil, err
	}
	lexHash, err := component.NewIndex(hashPairs, "LexHash", v, false)
	if err != nil {
		return nil, err
	}

	var lexIDStream component.Component
	if cfg.uncompressed {
		lexIDStream, err = component.NewVector(lexids, "LexIDStream", int(n), 1)
	} else {
		lexIDStream, err = component.NewVectorComp(lexids, "LexIDStream", int(n), 1)
	}
	if err != nil {
		return nil, err
	}

	lexIDIndex, err := component.NewInvertedIndex(postings, "LexIDIndex")
	if err != nil {
		return nil, err
	}

	c, err := container.New(format.ContainerIndexedString,
		[]component.Component{lexicon, lexHash, lexIDStream, lexIDIndex},
		n, int64(v), cfg.containerUUID(),
		container.WithBase(base.UUID()),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &IndexedStringVariable{
		variable:   variable{base: base, c: c},
		collisions: tracker.Collisions(),
	}, nil
}

// Collisions returns the lexicon hash collisions detected while building.
// Collisions are not encoding errors, but LexHash lookups for the affected
// strings are ambiguous; drivers should surface them.
func (v *IndexedStringVariable) Collisions() []collision.Collision {
	return v.collisions
}

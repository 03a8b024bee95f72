package store

import (
	"slices"

	"github.com/etemenanki/ziggurat/component"
	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/errs"
	"github.com/etemenanki/ziggurat/format"
	"github.com/etemenanki/ziggurat/internal/collision"
)

// SetVariable stores a set of lexicon ids per position: a lexicon of the
// distinct member strings, a hash index over it, the blocked id set stream,
// and an inverted index from member id to positions.
type SetVariable struct {
	variable
	collisions []collision.Collision
}

// NewSetVariable creates a set variable over sets, one per base layer
// position. Duplicate members within a position are collapsed; member order
// is irrelevant.
func NewSetVariable(base Layer, sets [][]string, opts ...Option) (*SetVariable, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	n := base.Len()
	if int64(len(sets)) != n {
		return nil, errs.ErrSizeMismatch
	}

	// Deduplicate each position's members, then count global frequencies in
	// first-occurrence order.
	deduped := make([][]string, 0, n)
	freq := make(map[string]*lexEntry)
	order := make([]*lexEntry, 0, 256)
	var seq int64
	for _, set := range sets {
		members := make(map[string]struct{}, len(set))
		uniq := make([]string, 0, len(set))
		for _, s := range set {
			if _, ok := members[s]; ok {
				continue
			}
			members[s] = struct{}{}
			uniq = append(uniq, s)

			if e, ok := freq[s]; ok {
				e.freq++
			} else {
				e := &lexEntry{s: s, freq: 1, first: seq}
				freq[s] = e
				order = append(order, e)
			}
			seq++
		}
		deduped = append(deduped, uniq)
	}

	entries := make([]lexEntry, 0, len(order))
	for _, e := range order {
		entries = append(entries, *e)
	}
	ids, lexStrings := buildLexicon(entries)
	v := len(lexStrings)

	tracker := collision.NewTracker()
	hashPairs := lexHashPairs(lexStrings, tracker)

	idSets := make([][]int64, 0, n)
	for _, uniq := range deduped {
		idSet := make([]int64, 0, len(uniq))
		for _, s := range uniq {
			idSet = append(idSet, ids[s])
		}
		slices.Sort(idSet)
		idSets = append(idSets, idSet)
	}

	lexicon, err := component.NewStringVector(lexStrings, "Lexicon", v)
	if err != nil {
		return nil, err
	}
	lexHash, err := component.NewIndex(hashPairs, "LexHash", v, false)
	if err != nil {
		return nil, err
	}
	idSetStream, err := component.NewSet(idSets, "IDSetStream", int(n), 1)
	if err != nil {
		return nil, err
	}
	idSetIndex, err := component.NewInvertedIndexFromOccurrences(idSets, v, "IDSetIndex")
	if err != nil {
		return nil, err
	}

	c, err := container.New(format.ContainerSet,
		[]component.Component{lexicon, lexHash, idSetStream, idSetIndex},
		n, int64(v), cfg.containerUUID(),
		container.WithBase(base.UUID()),
		container.WithComment(cfg.comment))
	if err != nil {
		return nil, err
	}

	return &SetVariable{
		variable:   variable{base: base, c: c},
		collisions: tracker.Collisions(),
	}, nil
}

// Collisions returns the lexicon hash collisions detected while building.
func (v *SetVariable) Collisions() []collision.Collision {
	return v.collisions
}

// Package collision tracks FNV hash collisions between distinct lexicon
// entries. Index components allow duplicate keys, so a collision is not an
// encoding error, but lookups through LexHash become ambiguous; the driver
// surfaces tracked collisions as warnings.
package collision

// Tracker records hash-to-string mappings during lexicon construction.
type Tracker struct {
	seen       map[int64]string
	collisions []Collision
}

// Collision is a pair of distinct strings that share one hash key.
type Collision struct {
	Key      int64
	Existing string
	Added    string
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[int64]string)}
}

// Track records key for s and detects collisions with previously tracked
// strings. Tracking the same string twice is a no-op.
func (t *Tracker) Track(key int64, s string) {
	existing, ok := t.seen[key]
	if !ok {
		t.seen[key] = s
		return
	}
	if existing != s {
		t.collisions = append(t.collisions, Collision{Key: key, Existing: existing, Added: s})
	}
}

// HasCollision reports whether any collision has been detected.
func (t *Tracker) HasCollision() bool {
	return len(t.collisions) > 0
}

// Collisions returns the detected collisions in detection order.
func (t *Tracker) Collisions() []Collision {
	return t.collisions
}

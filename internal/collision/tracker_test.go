package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	t.Run("no collision", func(t *testing.T) {
		tr := NewTracker()
		tr.Track(1, "a")
		tr.Track(2, "b")
		tr.Track(1, "a") // same string twice is fine

		require.False(t, tr.HasCollision())
		require.Empty(t, tr.Collisions())
	})

	t.Run("collision", func(t *testing.T) {
		tr := NewTracker()
		tr.Track(7, "a")
		tr.Track(7, "b")

		require.True(t, tr.HasCollision())
		require.Equal(t, []Collision{{Key: 7, Existing: "a", Added: "b"}}, tr.Collisions())
	})
}

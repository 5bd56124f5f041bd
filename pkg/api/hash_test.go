package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDigest(t *testing.T) {
	t.Run("identical decks produce identical digests", func(t *testing.T) {
		assert.Equal(t, DeckDigest("<html>a</html>"), DeckDigest("<html>a</html>"))
	})

	t.Run("different decks differ", func(t *testing.T) {
		assert.NotEqual(t, DeckDigest("<html>a</html>"), DeckDigest("<html>b</html>"))
	})

	t.Run("empty deck has no digest", func(t *testing.T) {
		assert.Empty(t, DeckDigest(""))
		assert.Empty(t, ShortDigest(""))
	})

	t.Run("short digest is a prefix", func(t *testing.T) {
		d := DeckDigest("<html>a</html>")
		require.Len(t, d, 64)
		assert.Equal(t, d[:12], ShortDigest("<html>a</html>"))
	})
}

func TestIDGenSameInstant(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	g := &IDGen{now: func() time.Time { return fixed }}

	seen := map[string]bool{}
	var prev time.Time
	for i := 0; i < 100; i++ {
		id, ts := g.Next()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if i > 0 {
			require.True(t, ts.After(prev), "timestamps must strictly increase")
		}
		prev = ts
	}
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
}

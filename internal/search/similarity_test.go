package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		assert.Equal(t, 1.0, Similarity("Ivan Petrov", "ivan petrov"))
	})

	t.Run("containment capped at 0.9 by length ratio", func(t *testing.T) {
		got := Similarity("ivan", "ivan petrov")
		assert.InDelta(t, 4.0/11.0*0.9, got, 1e-9)
		assert.Less(t, got, 0.9)
	})

	t.Run("edit distance", func(t *testing.T) {
		// "kitten" -> "sitten" is one substitution over 6 runes.
		assert.InDelta(t, 1-1.0/6.0, Similarity("kitten", "sitten"), 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0.0, Similarity("", "anything"))
		assert.Equal(t, 1.0, Similarity("", ""))
	})

	t.Run("disjoint strings score low", func(t *testing.T) {
		assert.Less(t, Similarity("abc", "xyz"), 0.1)
	})
}

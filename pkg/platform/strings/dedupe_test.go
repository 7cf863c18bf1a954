package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeFold(t *testing.T) {
	t.Run("trims and drops empties", func(t *testing.T) {
		got := DedupeFold([]string{"  Iran ", "", "  ", "Belarus"})
		assert.Equal(t, []string{"Iran", "Belarus"}, got)
	})

	t.Run("dedupes case insensitively keeping first casing", func(t *testing.T) {
		got := DedupeFold([]string{"IRAN", "iran", "Iran", "Syria"})
		assert.Equal(t, []string{"IRAN", "Syria"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, DedupeFold(nil))
	})
}

func TestAppendFold(t *testing.T) {
	seen := make(map[string]struct{})
	out := AppendFold(nil, seen, "Russia", "russia")
	out = AppendFold(out, seen, "RUSSIA", "Cuba")
	assert.Equal(t, []string{"Russia", "Cuba"}, out)
}

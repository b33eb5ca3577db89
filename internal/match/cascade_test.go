package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeledger/reconciler/internal/textnorm"
)

func newTestCascade() *Cascade {
	return NewCascade(70, 90, 2, 85, textnorm.New(nil))
}

func TestFindBestMatchExact(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan", "Alice Lee Mei"})

	entry, score := c.FindBestMatch("JOHN TAN", roster)
	assert.Equal(t, "John Tan", entry)
	assert.Equal(t, 100, score)

	// Normalization equalizes case and punctuation before comparison.
	entry, score = c.FindBestMatch("john-tan", roster)
	assert.Equal(t, "John Tan", entry)
	assert.Equal(t, 100, score)
}

func TestFindBestMatchPrefix(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan", "Mary Lim"})

	entry, score := c.FindBestMatch("JOHN TAN BIN ABU", roster)
	assert.Equal(t, "John Tan", entry)
	assert.GreaterOrEqual(t, score, 95)
}

func TestFindBestMatchFuzzy(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan"})

	// One transposed letter still clears the threshold but is not perfect.
	entry, score := c.FindBestMatch("JOHN TNA", roster)
	assert.Equal(t, "John Tan", entry)
	assert.GreaterOrEqual(t, score, 70)
	assert.Less(t, score, 100)
}

func TestFindBestMatchBelowThreshold(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan", "Mary Lim"})

	entry, score := c.FindBestMatch("ZEBRA CROSSING", roster)
	assert.Empty(t, entry)
	assert.Zero(t, score)
}

func TestFindBestMatchDegradesWithNoise(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan"})

	_, clean := c.FindBestMatch("JOHN TAM", roster)
	_, noisy := c.FindBestMatch("JOKN TXM", roster)
	assert.GreaterOrEqual(t, clean, noisy)
}

func TestFindBestMatchEmptyInputs(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan"})

	entry, score := c.FindBestMatch("", roster)
	assert.Empty(t, entry)
	assert.Zero(t, score)

	entry, score = c.FindBestMatch("JOHN TAN", c.PrepareRoster(nil))
	assert.Empty(t, entry)
	assert.Zero(t, score)
}

func TestPrepareRosterDropsBlankEntries(t *testing.T) {
	c := newTestCascade()
	roster := c.PrepareRoster([]string{"John Tan", "   ", "", "Mary Lim"})
	require.Equal(t, 2, roster.Len())
}

func TestOverlapScore(t *testing.T) {
	parent := NewCascade(70, 90, 2, 85, textnorm.New(nil))
	child := NewCascade(70, 85, 1, 80, textnorm.New(nil))

	tests := []struct {
		name   string
		c      *Cascade
		cand   []string
		target []string
		want   int
	}{
		{"two shared of three", parent, []string{"TAN", "JOHN", "EXTRA"}, []string{"JOHN", "TAN"}, 60},
		{"full overlap", parent, []string{"JOHN", "TAN"}, []string{"JOHN", "TAN"}, 90},
		{"below parent minimum", parent, []string{"JOHN"}, []string{"JOHN", "TAN"}, 0},
		{"child single shared word", child, []string{"ALICE"}, []string{"ALICE", "TAN"}, 42},
		{"no overlap", parent, []string{"ZEBRA"}, []string{"JOHN", "TAN"}, 0},
		{"duplicate words count once", parent, []string{"TAN", "TAN"}, []string{"JOHN", "TAN"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.overlapScore(tt.cand, tt.target))
		})
	}
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feeledger/reconciler/internal/config"
	"github.com/feeledger/reconciler/internal/textnorm"
)

func newTestExtractor() *Extractor {
	return New(textnorm.New(config.DefaultStripTokens), 3)
}

func TestParentCandidates(t *testing.T) {
	e := newTestExtractor()

	t.Run("wide gap segment comes first", func(t *testing.T) {
		got := e.Parent("JOHN TAN     FOR JUNE FEE")
		assert.NotEmpty(t, got)
		assert.Equal(t, "JOHN TAN", got[0])
		assert.Contains(t, got, "JOHN TAN FOR JUNE FEE")
	})

	t.Run("delimiter splitting", func(t *testing.T) {
		got := e.Parent("MARY LIM, TRANSFER/JUNE")
		assert.Contains(t, got, "MARY LIM")
		assert.Contains(t, got, "TRANSFER")
		assert.Contains(t, got, "JUNE")
	})

	t.Run("leading uppercase run before lowercase tail", func(t *testing.T) {
		got := e.Parent("MOHD ALI BIN ABU transfer for fees")
		assert.Contains(t, got, "MOHD ALI ABU")
	})

	t.Run("whole text last resort", func(t *testing.T) {
		got := e.Parent("siti binti rahman")
		assert.Contains(t, got, "SITI RAHMAN")
	})

	t.Run("short candidates dropped", func(t *testing.T) {
		assert.Empty(t, e.Parent("AB"))
	})
}

func TestChildCandidates(t *testing.T) {
	e := newTestExtractor()

	t.Run("keyword anchored name", func(t *testing.T) {
		got := e.Child("PAYMENT FOR Alice Lim")
		assert.Contains(t, got, "ALICE LIM")
	})

	t.Run("segments after the first wide gap", func(t *testing.T) {
		got := e.Child("JOHN TAN     ALICE TAN JUNE")
		assert.NotEmpty(t, got)
		assert.Equal(t, "ALICE TAN JUNE", got[0])
	})

	t.Run("capitalized runs capped at three tokens", func(t *testing.T) {
		runs := capRuns("Alice Mei Ling Tan paid")
		assert.Equal(t, []string{"Alice Mei Ling", "Tan"}, runs)
	})

	t.Run("lowercase tokens break runs", func(t *testing.T) {
		runs := capRuns("paid for Alice Tan today")
		assert.Equal(t, []string{"Alice Tan"}, runs)
	})
}

func TestCandidatesDeduplicated(t *testing.T) {
	e := newTestExtractor()

	// The same normalized form is reachable through several heuristics but
	// must appear once.
	got := e.Parent("MARY LIM")
	seen := make(map[string]int)
	for _, c := range got {
		seen[c]++
	}
	for c, n := range seen {
		assert.Equal(t, 1, n, "candidate %q duplicated", c)
	}
	assert.Contains(t, got, "MARY LIM")
}

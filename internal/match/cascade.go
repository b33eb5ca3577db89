// =============================================================================
// Fee Ledger Reconciler - Fuzzy Matching Cascade
// =============================================================================
//
// Scores one candidate string against a roster of known names using an
// ordered sequence of strategies, cheapest first:
//
//   1. Exact match on normalized strings           -> 100, short-circuits
//   2. Prefix containment either direction         -> 95
//   3. Shared-word overlap, weighted               -> 0-OverlapWeight
//   4. Four fuzzywuzzy algorithms (ratio, partial,
//      token-sort, token-set), best entry each     -> library score
//   5. Substring containment, only if nothing has
//      reached the threshold yet                   -> 0-ContainWeight
//
// The highest score at or above the threshold wins; ties keep the first
// strategy and roster entry that achieved the maximum.
//
// =============================================================================

package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/feeledger/reconciler/internal/textnorm"
)

// =============================================================================
// ROSTER PREPARATION
// =============================================================================

// rosterEntry pairs an original roster string with its normalized form.
// The original spelling is what callers get back; all comparison happens on
// the normalized form.
type rosterEntry struct {
	original   string
	normalized string
	words      []string
}

// Roster is a normalized view of a name list, prepared once per matching run.
type Roster struct {
	entries []rosterEntry
}

// Len returns the number of usable roster entries.
func (r *Roster) Len() int { return len(r.entries) }

// =============================================================================
// CASCADE
// =============================================================================

// Cascade holds the scoring parameters for one matcher variant. Parent and
// child matching share the code and differ only in weights and the minimum
// shared-word count.
type Cascade struct {
	// Threshold is the minimum accepted score.
	Threshold int

	// OverlapWeight scales the shared-word overlap strategy.
	OverlapWeight int

	// MinSharedWords is the minimum word intersection for the overlap
	// strategy to produce a score (2 for parents, 1 for children).
	MinSharedWords int

	// ContainWeight scales the substring-containment fallback.
	ContainWeight int

	norm *textnorm.Normalizer
}

// NewCascade creates a cascade with the given parameters and normalizer.
func NewCascade(threshold, overlapWeight, minSharedWords, containWeight int, norm *textnorm.Normalizer) *Cascade {
	return &Cascade{
		Threshold:      threshold,
		OverlapWeight:  overlapWeight,
		MinSharedWords: minSharedWords,
		ContainWeight:  containWeight,
		norm:           norm,
	}
}

// PrepareRoster normalizes a name list once so repeated FindBestMatch calls
// do not re-normalize it. Entries that normalize to the empty string are
// dropped.
func (c *Cascade) PrepareRoster(names []string) *Roster {
	r := &Roster{entries: make([]rosterEntry, 0, len(names))}
	for _, name := range names {
		n := c.norm.Normalize(name)
		if n == "" {
			continue
		}
		r.entries = append(r.entries, rosterEntry{
			original:   name,
			normalized: n,
			words:      strings.Fields(n),
		})
	}
	return r
}

// fuzzyAlgos are the strategy-4 similarity algorithms, in evaluation order.
var fuzzyAlgos = []func(string, string) int{
	func(a, b string) int { return fuzzy.Ratio(a, b) },
	func(a, b string) int { return fuzzy.PartialRatio(a, b) },
	func(a, b string) int { return fuzzy.TokenSortRatio(a, b) },
	func(a, b string) int { return fuzzy.TokenSetRatio(a, b) },
}

// FindBestMatch scores a candidate against the roster and returns the best
// entry (original spelling) with its score. It returns ("", 0) when nothing
// reaches the threshold.
func (c *Cascade) FindBestMatch(candidate string, roster *Roster) (string, int) {
	cand := c.norm.Normalize(candidate)
	if cand == "" || roster == nil || roster.Len() == 0 {
		return "", 0
	}
	candWords := strings.Fields(cand)

	bestEntry := ""
	bestScore := 0
	consider := func(entry string, score int) {
		if score > bestScore {
			bestEntry, bestScore = entry, score
		}
	}

	// Strategy 1: exact match short-circuits everything.
	for _, e := range roster.entries {
		if e.normalized == cand {
			return e.original, 100
		}
	}

	// Strategy 2: prefix containment either direction. Runs as its own pass
	// so a tie between strategies resolves to the earlier strategy.
	for _, e := range roster.entries {
		if strings.HasPrefix(e.normalized, cand) || strings.HasPrefix(cand, e.normalized) {
			consider(e.original, 95)
		}
	}

	// Strategy 3: shared-word overlap.
	for _, e := range roster.entries {
		if score := c.overlapScore(candWords, e.words); score > 0 {
			consider(e.original, score)
		}
	}

	// Strategy 4: each fuzzy algorithm keeps its own best roster entry; a
	// result can replace the running best only when it clears the threshold.
	for _, algo := range fuzzyAlgos {
		algoEntry, algoScore := "", 0
		for _, e := range roster.entries {
			if s := algo(cand, e.normalized); s > algoScore {
				algoEntry, algoScore = e.original, s
			}
		}
		if algoScore >= c.Threshold {
			consider(algoEntry, algoScore)
		}
	}

	// Strategy 5: substring containment, only as a fallback.
	if bestScore < c.Threshold {
		for _, e := range roster.entries {
			if strings.Contains(e.normalized, cand) || strings.Contains(cand, e.normalized) {
				shorter, longer := len(cand), len(e.normalized)
				if shorter > longer {
					shorter, longer = longer, shorter
				}
				consider(e.original, shorter*c.ContainWeight/longer)
			}
		}
	}

	if bestScore < c.Threshold {
		return "", 0
	}
	return bestEntry, bestScore
}

// overlapScore computes the weighted shared-word score, or 0 when the
// intersection is below MinSharedWords.
func (c *Cascade) overlapScore(candWords, targetWords []string) int {
	if len(candWords) == 0 || len(targetWords) == 0 {
		return 0
	}
	set := make(map[string]bool, len(targetWords))
	for _, w := range targetWords {
		set[w] = true
	}
	shared := 0
	seen := make(map[string]bool, len(candWords))
	for _, w := range candWords {
		if set[w] && !seen[w] {
			shared++
			seen[w] = true
		}
	}
	if shared < c.MinSharedWords {
		return 0
	}
	maxLen := len(targetWords)
	if len(candWords) > maxLen {
		maxLen = len(candWords)
	}
	return shared * c.OverlapWeight / maxLen
}

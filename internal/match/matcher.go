// =============================================================================
// Fee Ledger Reconciler - Parent and Child Matchers
// =============================================================================
//
// The matcher variants share one contract: given the reference fragments of
// a transaction row, return the best roster entry (or month code) and its
// 0-100 confidence. Each variant binds its roster and cascade parameters at
// construction; Match itself is pure and safe to run per-row in parallel.
//
// The child matcher additionally removes the textual span attributable to an
// already-matched parent before extracting candidates, so "JOHN TAN     FOR
// ALICE" does not offer "JOHN TAN" as a child candidate.
//
// =============================================================================

package match

import (
	"regexp"
	"strings"

	"github.com/feeledger/reconciler/internal/config"
	"github.com/feeledger/reconciler/internal/extract"
	"github.com/feeledger/reconciler/internal/textnorm"
)

// =============================================================================
// MATCHER CONTRACT
// =============================================================================

// Context carries the per-row inputs a matcher may consult. Fragments are the
// non-blank reference texts; Parent and TransactionDate are only read by the
// child and month matchers respectively.
type Context struct {
	Fragments       []string
	Parent          string
	TransactionDate string
}

// Matcher is implemented by the parent, child and month matchers.
type Matcher interface {
	// Match returns the best match for the row context and its confidence,
	// or ("", 0) when nothing reaches the variant's acceptance rule.
	Match(ctx Context) (string, int)
}

// =============================================================================
// PARENT MATCHER
// =============================================================================

// ParentMatcher finds the payer name in reference text against the parent
// roster.
type ParentMatcher struct {
	ex      *extract.Extractor
	cascade *Cascade
	roster  *Roster
}

// NewParentMatcher builds a parent matcher over the given roster.
func NewParentMatcher(cfg config.MatchingConfig, norm *textnorm.Normalizer, roster []string) *ParentMatcher {
	cascade := NewCascade(cfg.Threshold, cfg.ParentOverlapWeight, 2, cfg.ParentContainWeight, norm)
	return &ParentMatcher{
		ex:      extract.New(norm, cfg.MinCandidateLength),
		cascade: cascade,
		roster:  cascade.PrepareRoster(roster),
	}
}

// Match extracts parent candidates from every fragment and keeps the
// globally best-scoring roster entry.
func (m *ParentMatcher) Match(ctx Context) (string, int) {
	best, bestScore := "", 0
	seen := make(map[string]bool)

	for _, frag := range ctx.Fragments {
		for _, cand := range m.ex.Parent(frag) {
			if seen[cand] {
				continue
			}
			seen[cand] = true

			entry, score := m.cascade.FindBestMatch(cand, m.roster)
			if score > bestScore {
				best, bestScore = entry, score
			}
			if bestScore == 100 {
				return best, bestScore
			}
		}
	}
	return best, bestScore
}

// =============================================================================
// CHILD MATCHER
// =============================================================================

// ChildMatcher finds the student name against the child roster, pruning the
// matched parent's span from the text first.
type ChildMatcher struct {
	ex      *extract.Extractor
	norm    *textnorm.Normalizer
	cascade *Cascade
	roster  *Roster
}

// NewChildMatcher builds a child matcher over the given roster.
func NewChildMatcher(cfg config.MatchingConfig, norm *textnorm.Normalizer, roster []string) *ChildMatcher {
	cascade := NewCascade(cfg.Threshold, cfg.ChildOverlapWeight, 1, cfg.ChildContainWeight, norm)
	return &ChildMatcher{
		ex:      extract.New(norm, cfg.MinCandidateLength),
		norm:    norm,
		cascade: cascade,
		roster:  cascade.PrepareRoster(roster),
	}
}

// Match prunes the parent span from each fragment, extracts child candidates
// and keeps the globally best-scoring roster entry.
func (m *ChildMatcher) Match(ctx Context) (string, int) {
	frags := ctx.Fragments
	if ctx.Parent != "" {
		frags = m.pruneParent(frags, ctx.Parent)
	}

	best, bestScore := "", 0
	seen := make(map[string]bool)

	for _, frag := range frags {
		for _, cand := range m.ex.Child(frag) {
			if seen[cand] {
				continue
			}
			seen[cand] = true

			entry, score := m.cascade.FindBestMatch(cand, m.roster)
			if score > bestScore {
				best, bestScore = entry, score
			}
			if bestScore == 100 {
				return best, bestScore
			}
		}
	}
	return best, bestScore
}

// pruneParent removes the textual span attributable to the matched parent
// from each fragment: first by discarding large-whitespace segments that
// contain the parent, then by deleting the parent's words (longer than two
// characters) as whole words.
func (m *ChildMatcher) pruneParent(fragments []string, parent string) []string {
	parentNorm := m.norm.Normalize(parent)
	if parentNorm == "" {
		return fragments
	}

	var wordRes []*regexp.Regexp
	for _, w := range strings.Fields(parentNorm) {
		if len(w) > 2 {
			wordRes = append(wordRes, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
		}
	}

	pruned := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		segs := extract.SplitWideGap(frag)
		if len(segs) > 1 {
			kept := segs[:0]
			for _, seg := range segs {
				segNorm := m.norm.Normalize(seg)
				if segNorm != "" && (strings.Contains(segNorm, parentNorm) || strings.Contains(parentNorm, segNorm)) {
					continue
				}
				kept = append(kept, seg)
			}
			frag = strings.Join(kept, "     ")
		}
		for _, re := range wordRes {
			frag = re.ReplaceAllString(frag, " ")
		}
		pruned = append(pruned, frag)
	}
	return pruned
}

// =============================================================================
// Fee Ledger Reconciler - Candidate Extractor
// =============================================================================
//
// Produces ordered, de-duplicated lists of candidate name substrings from a
// raw reference fragment. Several independent heuristics run over the text
// and their results are unioned in heuristic order:
//
//   1. Large-whitespace splitting (runs of 5+ spaces separate the payer name
//      from the rest of the reference on many statements)
//   2. Delimiter splitting (commas, then / \ | inside each comma segment)
//   3. Contextual regexes (a leading all-caps run for parents; keyword
//      anchors such as "STUDENT"/"CHILD"/"FOR" for children)
//   4. Consecutive capitalized word runs, max length 3 (children)
//   5. The whole normalized text as a last resort (parents)
//
// Ordering only affects which candidate is tried first; every candidate is
// scored against the roster regardless of position.
//
// =============================================================================

package extract

import (
	"regexp"
	"strings"

	"github.com/feeledger/reconciler/internal/textnorm"
)

// =============================================================================
// REGULAR EXPRESSIONS
// =============================================================================

var (
	// wideGapRe matches the large whitespace runs that separate fields
	// pasted into a single reference column.
	wideGapRe = regexp.MustCompile(`\s{5,}`)

	// commaDelimRe splits comma segments into sub-segments.
	slashDelimRe = regexp.MustCompile(`[/\\|]`)

	// parentLeadRe captures a leading run of uppercase letters, spaces and
	// name punctuation, terminated by a wider gap or a lowercase tail.
	parentLeadRe = regexp.MustCompile(`^([A-Z][A-Z\s.'&@-]*[A-Z])(?:\s{3,}|\s*[a-z])`)

	// childKeywordRe captures a name anchored after a relational keyword.
	childKeywordRe = regexp.MustCompile(`(?i)\b(?:STUDENT|CHILD|FOR)\b[:\s]+([A-Za-z][A-Za-z'. ]{2,40})`)

	// capTokenRe matches a single capitalized or all-caps word token.
	capTokenRe = regexp.MustCompile(`^(?:[A-Z][a-z]+|[A-Z]{2,})$`)
)

// maxCapRun bounds the length of a capitalized-word run treated as a name.
const maxCapRun = 3

// SplitWideGap splits text on the same large-whitespace boundary the parent
// heuristic uses. The child matcher re-splits on it to discard the segment
// attributable to an already-matched parent.
func SplitWideGap(text string) []string {
	return wideGapRe.Split(text, -1)
}

// =============================================================================
// EXTRACTOR
// =============================================================================

// Extractor turns reference fragments into candidate name lists. It is pure
// and safe for concurrent use.
type Extractor struct {
	norm   *textnorm.Normalizer
	minLen int
}

// New creates an Extractor. Candidates shorter than minLen after
// normalization are discarded.
func New(norm *textnorm.Normalizer, minLen int) *Extractor {
	if minLen <= 0 {
		minLen = 3
	}
	return &Extractor{norm: norm, minLen: minLen}
}

// Parent extracts candidate parent names from one reference fragment,
// ordered by discovery and de-duplicated.
func (e *Extractor) Parent(text string) []string {
	c := newCollector(e)

	// Heuristic 1: the payer name is the first large-whitespace segment.
	segs := wideGapRe.Split(text, -1)
	if len(segs) > 0 {
		c.add(segs[0])
	}

	// Heuristic 2: delimiter splitting.
	c.addDelimited(text)

	// Heuristic 3: leading uppercase run.
	if m := parentLeadRe.FindStringSubmatch(text); m != nil {
		c.add(m[1])
	}

	// Heuristic 5: the whole text, normalized, as a last resort.
	c.add(text)

	return c.out
}

// Child extracts candidate child names from one reference fragment, ordered
// by discovery and de-duplicated.
func (e *Extractor) Child(text string) []string {
	c := newCollector(e)

	// Heuristic 1: every large-whitespace segment after the first.
	segs := wideGapRe.Split(text, -1)
	for i := 1; i < len(segs); i++ {
		c.add(segs[i])
	}

	// Heuristic 2: delimiter splitting.
	c.addDelimited(text)

	// Heuristic 3: keyword-anchored names.
	for _, m := range childKeywordRe.FindAllStringSubmatch(text, -1) {
		c.add(m[1])
	}

	// Heuristic 4: capitalized word runs.
	for _, run := range capRuns(text) {
		c.add(run)
	}

	return c.out
}

// =============================================================================
// COLLECTOR
// =============================================================================

// collector accumulates normalized candidates, preserving first-seen order.
type collector struct {
	e    *Extractor
	seen map[string]bool
	out  []string
}

func newCollector(e *Extractor) *collector {
	return &collector{e: e, seen: make(map[string]bool)}
}

// add normalizes the raw text and appends it unless it is too short or
// already present.
func (c *collector) add(raw string) {
	cand := c.e.norm.Normalize(raw)
	if len(cand) < c.e.minLen {
		return
	}
	if c.seen[cand] {
		return
	}
	c.seen[cand] = true
	c.out = append(c.out, cand)
}

// addDelimited applies heuristic 2: comma segments, then slash/backslash/pipe
// sub-segments within each.
func (c *collector) addDelimited(text string) {
	for _, seg := range strings.Split(text, ",") {
		c.add(seg)
		for _, sub := range slashDelimRe.Split(seg, -1) {
			c.add(sub)
		}
	}
}

// =============================================================================
// CAPITALIZED RUNS
// =============================================================================

// capRuns returns consecutive runs of capitalized or all-caps word tokens,
// each run capped at maxCapRun tokens.
func capRuns(text string) []string {
	tokens := strings.Fields(text)
	var runs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, tok := range tokens {
		if capTokenRe.MatchString(tok) {
			current = append(current, tok)
			if len(current) == maxCapRun {
				flush()
			}
			continue
		}
		flush()
	}
	flush()

	return runs
}

// =============================================================================
// Fee Ledger Reconciler - Month Matcher
// =============================================================================
//
// Finds the billing month a transaction pays for. Reference text is searched
// first (full and short month names, common misspellings, bare 1-12
// numerics, 3-letter-prefix partials); when several different months are
// mentioned, the one closest to a billing keyword ("fee", "tuition", ...)
// wins. When the text says nothing, the transaction's own date is parsed
// against an ordered list of layouts as a lower-confidence fallback.
//
// Confidence: 95 for a month read from the text, 80 for the date fallback,
// 0 when neither works.
//
// =============================================================================

package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/feeledger/reconciler/internal/types"
)

// =============================================================================
// CONFIDENCE LEVELS
// =============================================================================

const (
	// ConfidenceText is reported when the month came from reference text.
	ConfidenceText = 95

	// ConfidenceDate is reported when the month fell back to the
	// transaction date.
	ConfidenceDate = 80
)

// keywordWindow is the maximum character distance at which a billing keyword
// still disambiguates a month mention.
const keywordWindow = 20

// =============================================================================
// LOOKUP TABLES
// =============================================================================

// monthAliases maps upper-case tokens to calendar month numbers. Covers full
// and short English names plus misspellings seen in real statement exports.
var monthAliases = map[string]int{}

func init() {
	for i, name := range types.MonthNames {
		monthAliases[name] = i + 1
		monthAliases[strings.ToUpper(types.MonthCodes[i])] = i + 1
	}
	for alias, n := range map[string]int{
		"JANURAY":  1,
		"FEBUARY":  2,
		"FEBRARY":  2,
		"MARHC":    3,
		"APRL":     4,
		"AGUST":    8,
		"SEPT":     9,
		"SEPTMBER": 9,
		"SEPTEMER": 9,
		"OCTOBRE":  10,
		"NOVEMER":  11,
		"DECEMER":  12,
	} {
		monthAliases[alias] = n
	}
}

// monthKeywords are the contextual tokens used to disambiguate multiple
// month mentions.
var monthKeywords = []string{"FEE", "TUITION", "PAYMENT", "FOR", "MONTH", "TERM"}

var (
	// tokenRe finds word and number tokens with their positions.
	tokenRe = regexp.MustCompile(`[A-Z]+|[0-9]+`)

	// contextMonthRe anchors a month word directly after a billing keyword,
	// e.g. "FEE FOR JUNE", "TUITION JUN".
	contextMonthRe = regexp.MustCompile(`(?:FEE|TUITION|FOR)\s+(?:OF\s+)?([A-Z]+)`)

	// keywordRe finds billing keyword positions for proximity scoring.
	keywordRe = regexp.MustCompile(`FEE|TUITION|PAYMENT|FOR|MONTH|TERM`)
)

// =============================================================================
// MONTH MATCHER
// =============================================================================

// MonthMatcher resolves the billing month for a row. It implements Matcher.
type MonthMatcher struct {
	dateFormats []string
}

// NewMonthMatcher builds a month matcher with the given ordered date layouts
// for the transaction-date fallback.
func NewMonthMatcher(dateFormats []string) *MonthMatcher {
	return &MonthMatcher{dateFormats: dateFormats}
}

// mention is one month occurrence inside a fragment.
type mention struct {
	month int // 1-12
	pos   int // byte offset in the upper-cased fragment
}

// Match returns the 3-letter month code and confidence for the row.
func (m *MonthMatcher) Match(ctx Context) (string, int) {
	for _, frag := range ctx.Fragments {
		if month, ok := m.fromText(frag); ok {
			return types.MonthCode(month), ConfidenceText
		}
	}

	if month, ok := m.fromDate(ctx.TransactionDate); ok {
		return types.MonthCode(month), ConfidenceDate
	}

	return "", 0
}

// fromText scans one fragment for month mentions and disambiguates multiple
// hits by keyword proximity.
func (m *MonthMatcher) fromText(frag string) (int, bool) {
	upper := strings.ToUpper(frag)
	mentions := collectMentions(upper)
	if len(mentions) == 0 {
		return 0, false
	}

	distinct := make(map[int]bool)
	for _, mn := range mentions {
		distinct[mn.month] = true
	}
	if len(distinct) == 1 {
		return mentions[0].month, true
	}

	// Multiple months mentioned: score each by inverse distance to the
	// nearest billing keyword; ties favor the first mention found.
	keywordPos := keywordRe.FindAllStringIndex(upper, -1)
	best := mentions[0]
	bestScore := proximityScore(mentions[0].pos, keywordPos)
	for _, mn := range mentions[1:] {
		if s := proximityScore(mn.pos, keywordPos); s > bestScore {
			best, bestScore = mn, s
		}
	}
	return best.month, true
}

// collectMentions gathers month mentions from the token scan and the
// keyword-anchored context regex, de-duplicated by position.
func collectMentions(upper string) []mention {
	var mentions []mention
	seen := make(map[int]bool)

	add := func(month, pos int) {
		if month == 0 || seen[pos] {
			return
		}
		seen[pos] = true
		mentions = append(mentions, mention{month: month, pos: pos})
	}

	for _, loc := range tokenRe.FindAllStringIndex(upper, -1) {
		tok := upper[loc[0]:loc[1]]
		add(tokenMonth(tok), loc[0])
	}

	for _, loc := range contextMonthRe.FindAllStringSubmatchIndex(upper, -1) {
		start := loc[2]
		add(tokenMonth(upper[loc[2]:loc[3]]), start)
	}

	return mentions
}

// tokenMonth resolves a single token to a month number, or 0.
func tokenMonth(tok string) int {
	if n, ok := monthAliases[tok]; ok {
		return n
	}

	// Bare numerics: only short tokens, so day and year parts of embedded
	// dates do not read as months.
	if tok[0] >= '0' && tok[0] <= '9' {
		if len(tok) > 2 {
			return 0
		}
		if n, err := strconv.Atoi(tok); err == nil && n >= 1 && n <= 12 {
			return n
		}
		return 0
	}

	// Partial names: a 3-letter prefix shared with a month name, e.g.
	// "JUNEFEE" or "SEPTEMB".
	if len(tok) >= 3 {
		if n, ok := monthAliases[tok[:3]]; ok {
			return n
		}
	}
	return 0
}

// proximityScore returns keywordWindow minus the distance to the nearest
// keyword, or 0 when no keyword lies within the window.
func proximityScore(pos int, keywordPos [][]int) int {
	best := 0
	for _, kw := range keywordPos {
		dist := pos - kw[1]
		if dist < 0 {
			dist = kw[0] - pos
		}
		if dist < 0 {
			dist = -dist
		}
		if dist <= keywordWindow && keywordWindow-dist > best {
			best = keywordWindow - dist
		}
	}
	return best
}

// fromDate parses the raw transaction date against the configured layouts.
func (m *MonthMatcher) fromDate(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, layout := range m.dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return int(t.Month()), true
		}
	}
	return 0, false
}

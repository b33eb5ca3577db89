// =============================================================================
// Fee Ledger Reconciler - Text Normalizer
// =============================================================================
//
// Shared text normalization for all matchers. Raw statement cells arrive with
// export artifacts (formula quoting), mixed case, and relational/honorific
// noise words; every comparison in the matching pipeline runs on the
// normalized form produced here.
//
// The normalized form is upper-case, contains only letters, digits and
// single spaces, and has the configured strip tokens removed as whole words.
// Normalize is idempotent: applying it twice yields the same result.
//
// =============================================================================

package textnorm

import (
	"regexp"
	"strings"
)

// formulaQuoteRe matches the ="..." cell-quoting artifact some statement
// exports wrap text values in.
var formulaQuoteRe = regexp.MustCompile(`^="(.*)"$`)

// separatorRe matches any run of characters outside the normalized alphabet.
var separatorRe = regexp.MustCompile(`[^A-Z0-9]+`)

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer holds the strip-token set for a matching run. The zero value is
// usable and strips nothing; construct with New to apply the configured
// token list.
type Normalizer struct {
	strip map[string]bool
}

// New creates a Normalizer that removes the given tokens as whole words.
// Tokens are matched case-insensitively against normalized words.
func New(stripTokens []string) *Normalizer {
	strip := make(map[string]bool, len(stripTokens))
	for _, t := range stripTokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			strip[t] = true
		}
	}
	return &Normalizer{strip: strip}
}

// Normalize converts raw cell text to the canonical matching form.
// It never fails; empty or non-text input yields the empty string.
func (n *Normalizer) Normalize(raw string) string {
	s := StripFormulaQuote(strings.TrimSpace(raw))
	s = strings.ToUpper(s)
	s = separatorRe.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	out := words[:0]
	for _, w := range words {
		if n != nil && n.strip[w] {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// =============================================================================
// HELPERS
// =============================================================================

// StripFormulaQuote removes the ="..." wrapper if present, returning the
// inner text unchanged otherwise.
func StripFormulaQuote(s string) string {
	if m := formulaQuoteRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// =============================================================================
// Fee Ledger Reconciler - Month Tables
// =============================================================================
//
// Calendar month tables shared by the month matcher and the ledger engine.
// The ledger stores months under their full upper-case English names; match
// results carry the 3-letter code.
//
// =============================================================================

package types

import "strings"

// MonthNames lists the full upper-case month names in calendar order.
// Index 0 is JANUARY.
var MonthNames = []string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// MonthCodes lists the 3-letter month codes in calendar order.
var MonthCodes = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthOrder returns the calendar position (1-12) of a full month name, or 0
// when the name is not a month. Comparison is case-insensitive and trimmed.
func MonthOrder(name string) int {
	key := strings.ToUpper(strings.TrimSpace(name))
	for i, m := range MonthNames {
		if m == key {
			return i + 1
		}
	}
	return 0
}

// MonthCode maps a calendar position (1-12) to its 3-letter code.
// Out-of-range input returns the empty string.
func MonthCode(n int) string {
	if n < 1 || n > 12 {
		return ""
	}
	return MonthCodes[n-1]
}

// MonthNameFromCode maps a 3-letter code (any case) back to the full
// upper-case month name. Unknown codes return the empty string.
func MonthNameFromCode(code string) string {
	key := strings.ToUpper(strings.TrimSpace(code))
	for i, c := range MonthCodes {
		if strings.ToUpper(c) == key {
			return MonthNames[i]
		}
	}
	return ""
}

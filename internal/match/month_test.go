package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feeledger/reconciler/internal/config"
)

func newTestMonthMatcher() *MonthMatcher {
	return NewMonthMatcher(config.DefaultDateFormats)
}

func TestMonthFromText(t *testing.T) {
	m := newTestMonthMatcher()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"full name", "FEE FOR JUNE", "Jun"},
		{"short name", "JUN TUITION", "Jun"},
		{"lower case", "payment for august", "Aug"},
		{"misspelling", "SEPTMBER FEE", "Sep"},
		{"numeric month", "FEE 6 TRANSFER", "Jun"},
		{"prefix partial", "JUNEFEE PAYMENT", "Jun"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			month, confidence := m.Match(Context{Fragments: []string{tt.fragment}})
			assert.Equal(t, tt.want, month)
			assert.Equal(t, ConfidenceText, confidence)
		})
	}
}

func TestMonthDisambiguation(t *testing.T) {
	m := newTestMonthMatcher()

	// Two months mentioned: the one nearer a billing keyword wins.
	month, confidence := m.Match(Context{
		Fragments: []string{"JULY TRANSFER REFERENCE FEE FOR JUNE"},
	})
	assert.Equal(t, "Jun", month)
	assert.Equal(t, ConfidenceText, confidence)
}

func TestMonthFirstFragmentWins(t *testing.T) {
	m := newTestMonthMatcher()

	month, _ := m.Match(Context{Fragments: []string{"MAY FEE", "JUNE FEE"}})
	assert.Equal(t, "May", month)
}

func TestMonthDateFallback(t *testing.T) {
	m := newTestMonthMatcher()

	month, confidence := m.Match(Context{
		Fragments:       []string{"TRANSFER 9912"},
		TransactionDate: "15/06/2024",
	})
	assert.Equal(t, "Jun", month)
	assert.Equal(t, ConfidenceDate, confidence)
}

func TestMonthDateFallbackLayouts(t *testing.T) {
	m := newTestMonthMatcher()

	tests := []struct {
		date string
		want string
	}{
		{"15/06/2024", "Jun"},
		{"2024-09-01", "Sep"},
		{"15-06-2024", "Jun"},
		{"15/06/24", "Jun"},
	}
	for _, tt := range tests {
		month, confidence := m.Match(Context{TransactionDate: tt.date})
		assert.Equal(t, tt.want, month, "date %s", tt.date)
		assert.Equal(t, ConfidenceDate, confidence)
	}
}

func TestMonthNotFound(t *testing.T) {
	m := newTestMonthMatcher()

	month, confidence := m.Match(Context{
		Fragments:       []string{"TRANSFER 9912"},
		TransactionDate: "not a date",
	})
	assert.Empty(t, month)
	assert.Zero(t, confidence)
}

func TestTokenMonth(t *testing.T) {
	assert.Equal(t, 6, tokenMonth("JUNE"))
	assert.Equal(t, 9, tokenMonth("SEPT"))
	assert.Equal(t, 6, tokenMonth("6"))
	assert.Equal(t, 0, tokenMonth("13"))
	assert.Equal(t, 0, tokenMonth("2024"), "long numerics are not months")
	assert.Equal(t, 6, tokenMonth("JUNEFEE"))
	assert.Equal(t, 0, tokenMonth("TRANSFER"))
}

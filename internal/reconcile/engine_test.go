package reconcile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeledger/reconciler/internal/config"
	"github.com/feeledger/reconciler/internal/types"
)

func newTestEngine() *Engine {
	return NewEngine(config.Default(), []string{"John Tan", "Mary Lim"}, []string{"Alice Tan"}, nil)
}

// statementRow lays out a raw row the way the default statement config
// expects it: date at 0, amount at 4, reference fragments from 5.
func statementRow(line int, date, amount string, refs ...string) types.TransactionRow {
	fields := []string{date, "", "", "", amount}
	fields = append(fields, refs...)
	return types.TransactionRow{Fields: fields, SourceLine: line}
}

func TestMatchRowFullPipeline(t *testing.T) {
	e := newTestEngine()

	got := e.MatchRow(statementRow(3, "01/06/2024", "RM 250.00", "JOHN TAN     FOR JUNE FEE"))

	assert.True(t, got.Matched)
	assert.Equal(t, "John Tan", got.Parent)
	assert.GreaterOrEqual(t, got.ParentScore, 95)
	assert.Equal(t, "Jun", got.Month)
	assert.Equal(t, 95, got.MonthConfidence)
	assert.Equal(t, "01/06/2024", got.TransactionDate)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, 3, got.SourceLine)

	// "FOR JUNE FEE" is what remains after parent pruning; it names no child.
	assert.Equal(t, types.NoChildMatchFound, got.Child)
}

func TestMatchRowSentinels(t *testing.T) {
	e := newTestEngine()

	got := e.MatchRow(statementRow(5, "", "", ""))

	assert.False(t, got.Matched)
	assert.Equal(t, types.NoMatchFound, got.Parent)
	assert.Equal(t, types.NoChildMatchFound, got.Child)
	assert.Equal(t, types.NoMonthFound, got.Month)
	assert.Zero(t, got.ParentScore)
	assert.Zero(t, got.MonthConfidence)
	assert.True(t, got.Amount.IsZero())
}

func TestMatchRowChildAndDateFallback(t *testing.T) {
	e := newTestEngine()

	got := e.MatchRow(statementRow(4, "15/08/2024", "120.00", "JOHN TAN", "STUDENT ALICE TAN"))

	assert.Equal(t, "John Tan", got.Parent)
	assert.Equal(t, "Alice Tan", got.Child)
	assert.GreaterOrEqual(t, got.ChildScore, 70)

	// No month in the text: the transaction date decides, at lower
	// confidence.
	assert.Equal(t, "Aug", got.Month)
	assert.Equal(t, 80, got.MonthConfidence)
}

func TestRunStats(t *testing.T) {
	e := newTestEngine()

	result := e.Run([]types.TransactionRow{
		statementRow(2, "01/06/2024", "250.00", "JOHN TAN     FOR JUNE FEE"),
		statementRow(3, "", "", "UTILITY BILL 2024"),
	})

	require.Len(t, result.Matches, 2)
	assert.Equal(t, 2, result.Stats.TotalProcessed)
	assert.Equal(t, 1, result.Stats.ParentMatched)
	assert.Equal(t, 1, result.Stats.Unmatched)
	assert.Equal(t, 1, result.Stats.MonthResolved)
	assert.Zero(t, result.Stats.ChildMatched)
}

func TestWriteReport(t *testing.T) {
	e := newTestEngine()
	result := e.Run([]types.TransactionRow{
		statementRow(2, "01/06/2024", "250.00", "JOHN TAN     FOR JUNE FEE"),
	})

	var buf bytes.Buffer
	require.NoError(t, result.WriteTo(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "parent")
	assert.Contains(t, lines[1], "John Tan")
	assert.Contains(t, lines[1], "Jun")
}

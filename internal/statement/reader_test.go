package statement

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeledger/reconciler/internal/config"
)

func TestReadFrom(t *testing.T) {
	cfg := config.Default().Statement
	r := NewReader(cfg)

	data := strings.Join([]string{
		"Date,Type,Ref No,Debit,Credit,Ref 1,Ref 2,Ref 3,Ref 4",
		",,,,,,,,",
		`01/06/2024,TRF,9912,,RM 250.00,JOHN TAN     FOR JUNE FEE,,,`,
		`02/06/2024,TRF,9913,,"RM 1,100.00","=""MARY LIM""",STUDENT ALICE,,`,
	}, "\n")

	rows, err := r.ReadFrom(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2, "header and blank rows are skipped")

	first := rows[0]
	assert.Equal(t, 3, first.SourceLine)
	assert.Equal(t, "01/06/2024", r.Date(first))
	assert.Equal(t, []string{"JOHN TAN     FOR JUNE FEE"}, r.Fragments(first))
	assert.True(t, r.Amount(first).Equal(decimal.RequireFromString("250.00")))

	second := rows[1]
	assert.Equal(t, []string{"MARY LIM", "STUDENT ALICE"}, r.Fragments(second))
	assert.True(t, r.Amount(second).Equal(decimal.RequireFromString("1100.00")))
}

func TestReadFromRaggedRows(t *testing.T) {
	cfg := config.Default().Statement
	r := NewReader(cfg)

	// A truncated row still parses; missing positions read as empty.
	data := "h1,h2\n01/06/2024,TRF\n"
	rows, err := r.ReadFrom(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "01/06/2024", r.Date(rows[0]))
	assert.Empty(t, r.Fragments(rows[0]))
	assert.True(t, r.Amount(rows[0]).IsZero())
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"currency prefix and separators", "RM 1,250.00", "1250.00"},
		{"dollar sign", "$500", "500"},
		{"formula quoted", `="250.00"`, "250.00"},
		{"plain number", "250.50", "250.50"},
		{"lowercase currency", "rm120", "120"},
		{"negative", "-75.00", "-75.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, CleanAmount(tt.in).Equal(decimal.RequireFromString(tt.want)),
				"got %s", CleanAmount(tt.in))
		})
	}
}

func TestCleanAmountUnparsable(t *testing.T) {
	assert.True(t, CleanAmount("").IsZero())
	assert.True(t, CleanAmount("   ").IsZero())
	assert.True(t, CleanAmount("pending").IsZero())
	assert.True(t, CleanAmount("1.2.3").IsZero())
}

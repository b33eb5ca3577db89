// =============================================================================
// Fee Ledger Reconciler - Matching Engine
// =============================================================================
//
// Orchestrates the per-row matching pipeline:
//
//   raw row -> field extraction -> parent matcher -> child matcher
//           -> month matcher -> assembled MatchResult
//
// A miss at any stage degrades to a sentinel value with confidence 0; the
// run always returns one MatchResult per input row and never aborts on a
// row. Matching is pure with respect to shared state: the engine only reads
// the rosters bound at construction and the rows passed in.
//
// =============================================================================

package reconcile

import (
	"log/slog"
	"strings"

	"github.com/feeledger/reconciler/internal/config"
	"github.com/feeledger/reconciler/internal/match"
	"github.com/feeledger/reconciler/internal/statement"
	"github.com/feeledger/reconciler/internal/textnorm"
	"github.com/feeledger/reconciler/internal/types"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Stats aggregates one matching run.
type Stats struct {
	TotalProcessed int
	ParentMatched  int
	ChildMatched   int
	MonthResolved  int
	Unmatched      int
}

// Result is the complete outcome of a matching run: exactly one MatchResult
// per input row, in input order.
type Result struct {
	Matches []types.MatchResult
	Stats   Stats
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs the matching pipeline for one roster pair. Rosters are bound
// at construction and read-only for the duration of a run.
type Engine struct {
	reader *statement.Reader
	parent *match.ParentMatcher
	child  *match.ChildMatcher
	month  *match.MonthMatcher
	log    *slog.Logger
}

// NewEngine builds an engine over the given rosters. A nil logger falls
// back to slog.Default.
func NewEngine(cfg *config.Config, parents, children []string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	norm := textnorm.New(cfg.Matching.StripTokens)
	return &Engine{
		reader: statement.NewReader(cfg.Statement),
		parent: match.NewParentMatcher(cfg.Matching, norm, parents),
		child:  match.NewChildMatcher(cfg.Matching, norm, children),
		month:  match.NewMonthMatcher(cfg.Statement.DateFormats),
		log:    logger,
	}
}

// Run matches every transaction row and returns the complete result set.
func (e *Engine) Run(rows []types.TransactionRow) *Result {
	result := &Result{Matches: make([]types.MatchResult, 0, len(rows))}

	for _, row := range rows {
		m := e.MatchRow(row)
		result.Matches = append(result.Matches, m)

		result.Stats.TotalProcessed++
		if m.Matched {
			result.Stats.ParentMatched++
		} else {
			result.Stats.Unmatched++
		}
		if m.Child != types.NoChildMatchFound {
			result.Stats.ChildMatched++
		}
		if m.Month != types.NoMonthFound {
			result.Stats.MonthResolved++
		}
	}

	e.log.Info("matching run complete",
		"rows", result.Stats.TotalProcessed,
		"matched", result.Stats.ParentMatched,
		"unmatched", result.Stats.Unmatched,
	)
	return result
}

// MatchRow runs the pipeline for a single transaction row.
func (e *Engine) MatchRow(row types.TransactionRow) types.MatchResult {
	date := e.reader.Date(row)
	frags := e.reader.Fragments(row)
	amount := e.reader.Amount(row)

	result := types.MatchResult{
		Parent:          types.NoMatchFound,
		Child:           types.NoChildMatchFound,
		Month:           types.NoMonthFound,
		TransactionDate: date,
		Amount:          amount,
		Reference:       strings.Join(frags, " | "),
		SourceLine:      row.SourceLine,
	}

	ctx := match.Context{Fragments: frags, TransactionDate: date}

	if parent, score := e.parent.Match(ctx); parent != "" {
		result.Parent = parent
		result.ParentScore = score
		result.Matched = true
		ctx.Parent = parent
	}

	if child, score := e.child.Match(ctx); child != "" {
		result.Child = child
		result.ChildScore = score
	}

	if month, confidence := e.month.Match(ctx); month != "" {
		result.Month = month
		result.MonthConfidence = confidence
	}

	e.log.Debug("row matched",
		"line", row.SourceLine,
		"parent", result.Parent,
		"score", result.ParentScore,
		"month", result.Month,
	)
	return result
}

// =============================================================================
// Fee Ledger Reconciler - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. A single YAML file carries all tunables; every field has a
// default, so running without a config file is fully supported.
//
// CONFIGURATION AREAS:
//   1. Matching  : threshold, strategy weights, candidate rules, strip tokens
//   2. Statement : CSV layout and positional field mapping
//   3. Ledger    : sheet selection and backup behaviour
//
// ARCHITECTURE:
//   The configuration system is designed to be:
//   - Complete: zero-value fields are filled with documented defaults
//   - Validated: weights and positions are sanity-checked on load
//   - Explicit: matchers receive the config struct, never package globals,
//     so tests can vary thresholds freely
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// Matching contains the name-matching tunables.
	Matching MatchingConfig `yaml:"matching"`

	// Statement contains the bank-statement parsing settings.
	Statement StatementConfig `yaml:"statement"`

	// Ledger contains the ledger workbook settings.
	Ledger LedgerConfig `yaml:"ledger"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// MATCHING SETTINGS
// =============================================================================

// MatchingConfig holds the tunables of the fuzzy matching cascade and the
// candidate extractor.
type MatchingConfig struct {
	// Threshold is the minimum 0-100 score a roster entry must reach to be
	// accepted as a match.
	// Default: 70
	Threshold int `yaml:"threshold"`

	// ParentOverlapWeight scales the shared-word overlap score for parent
	// matching.
	// Default: 90
	ParentOverlapWeight int `yaml:"parent_overlap_weight"`

	// ChildOverlapWeight scales the shared-word overlap score for child
	// matching.
	// Default: 85
	ChildOverlapWeight int `yaml:"child_overlap_weight"`

	// ParentContainWeight scales the substring-containment fallback score
	// for parent matching.
	// Default: 85
	ParentContainWeight int `yaml:"parent_contain_weight"`

	// ChildContainWeight scales the substring-containment fallback score
	// for child matching.
	// Default: 80
	ChildContainWeight int `yaml:"child_contain_weight"`

	// MinCandidateLength is the minimum length, after normalization, of an
	// extracted name candidate.
	// Default: 3
	MinCandidateLength int `yaml:"min_candidate_length"`

	// StripTokens are relational/honorific tokens removed as whole words
	// during normalization.
	StripTokens []string `yaml:"strip_tokens"`
}

// =============================================================================
// STATEMENT SETTINGS
// =============================================================================

// StatementConfig holds the bank-statement CSV layout. Field positions are
// 0-based indexes into the raw row.
type StatementConfig struct {
	// Delimiter is the field separator of the statement file.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// HeaderRows is the number of leading rows to skip before data begins.
	// Default: 1
	HeaderRows int `yaml:"header_rows"`

	// DateField is the position of the transaction date.
	// Default: 0
	DateField int `yaml:"date_field"`

	// AmountField is the position of the transaction amount.
	// Default: 4
	AmountField int `yaml:"amount_field"`

	// ReferenceFields are the positions of the reference text fragments.
	// Only non-blank fragments are handed to the matchers.
	// Default: [5, 6, 7, 8]
	ReferenceFields []int `yaml:"reference_fields"`

	// DateFormats is the ordered list of Go layouts tried when parsing the
	// transaction date for the month fallback.
	DateFormats []string `yaml:"date_formats"`
}

// =============================================================================
// LEDGER SETTINGS
// =============================================================================

// LedgerConfig holds the ledger workbook settings.
type LedgerConfig struct {
	// SheetName selects the worksheet holding the fee ledger.
	// Empty means the workbook's first sheet.
	SheetName string `yaml:"sheet_name"`

	// Backup controls whether a timestamped copy of the ledger is written
	// before the first mutation.
	// Default: true (only an explicit "false" disables it)
	Backup *bool `yaml:"backup"`
}

// BackupEnabled reports whether a pre-mutation backup should be taken.
func (c LedgerConfig) BackupEnabled() bool {
	return c.Backup == nil || *c.Backup
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultStripTokens are the relational and honorific tokens removed during
// normalization when the config does not override them.
var DefaultStripTokens = []string{
	"MR", "MRS", "MS", "MISS", "MDM", "DR",
	"BIN", "BINTI", "STUDENT", "CHILD", "SON", "DAUGHTER",
}

// DefaultDateFormats is the ordered list of layouts tried against the
// transaction date. Day-first layouts come first, matching the statement
// formats seen in practice.
var DefaultDateFormats = []string{
	"02/01/2006", // DD/MM/YYYY
	"01/02/2006", // MM/DD/YYYY
	"2006-01-02", // YYYY-MM-DD
	"02-01-2006", // DD-MM-YYYY
	"01-02-2006", // MM-DD-YYYY
	"02/01/06",   // DD/MM/YY
	"01/02/06",   // MM/DD/YY
	"2006/01/02", // YYYY/MM/DD
}

// Default returns a fully populated configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Matching.Threshold == 0 {
		cfg.Matching.Threshold = 70
	}
	if cfg.Matching.ParentOverlapWeight == 0 {
		cfg.Matching.ParentOverlapWeight = 90
	}
	if cfg.Matching.ChildOverlapWeight == 0 {
		cfg.Matching.ChildOverlapWeight = 85
	}
	if cfg.Matching.ParentContainWeight == 0 {
		cfg.Matching.ParentContainWeight = 85
	}
	if cfg.Matching.ChildContainWeight == 0 {
		cfg.Matching.ChildContainWeight = 80
	}
	if cfg.Matching.MinCandidateLength == 0 {
		cfg.Matching.MinCandidateLength = 3
	}
	if len(cfg.Matching.StripTokens) == 0 {
		cfg.Matching.StripTokens = append([]string(nil), DefaultStripTokens...)
	}

	if cfg.Statement.Delimiter == "" {
		cfg.Statement.Delimiter = ","
	}
	if cfg.Statement.HeaderRows == 0 {
		cfg.Statement.HeaderRows = 1
	}
	if cfg.Statement.AmountField == 0 {
		cfg.Statement.AmountField = 4
	}
	if len(cfg.Statement.ReferenceFields) == 0 {
		cfg.Statement.ReferenceFields = []int{5, 6, 7, 8}
	}
	if len(cfg.Statement.DateFormats) == 0 {
		cfg.Statement.DateFormats = append([]string(nil), DefaultDateFormats...)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate sanity-checks the loaded configuration.
func validate(cfg *Config) error {
	if cfg.Matching.Threshold < 1 || cfg.Matching.Threshold > 100 {
		return fmt.Errorf("matching.threshold must be in 1-100, got %d", cfg.Matching.Threshold)
	}
	for _, w := range []struct {
		name  string
		value int
	}{
		{"parent_overlap_weight", cfg.Matching.ParentOverlapWeight},
		{"child_overlap_weight", cfg.Matching.ChildOverlapWeight},
		{"parent_contain_weight", cfg.Matching.ParentContainWeight},
		{"child_contain_weight", cfg.Matching.ChildContainWeight},
	} {
		if w.value < 1 || w.value > 100 {
			return fmt.Errorf("matching.%s must be in 1-100, got %d", w.name, w.value)
		}
	}
	if cfg.Statement.DateField < 0 || cfg.Statement.AmountField < 0 {
		return fmt.Errorf("statement field positions must be non-negative")
	}
	for _, f := range cfg.Statement.ReferenceFields {
		if f < 0 {
			return fmt.Errorf("statement.reference_fields must be non-negative, got %d", f)
		}
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug/info/warn/error, got %q", cfg.LogLevel)
	}
	return nil
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the configuration from a YAML file, fills defaults and
// validates the result. A missing file is not an error: defaults are
// returned so the tool works out of the box.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

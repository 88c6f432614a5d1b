// Package matcher implements the rule cascade that links payments to
// invoices.
//
// Rules are applied in fixed priority order, each rule seeing only the
// records left unconsumed by earlier rules:
//  1. Explicit reference: the invoice identifier appears in the
//     payment's memo or reference text (confidence 1.00 / 0.98)
//  2. Exact amount, near due date (confidence 0.95 / 0.90)
//  3. Fuzzy name with amount and date tolerance (confidence 0.70-0.90)
//
// Matching is greedy and sequential: payments are visited in input
// order and a decision, once made, is never revisited. This is a
// policy choice; the engine deliberately does not compute a globally
// optimal assignment, because confidence and rationale semantics are
// defined per rule.
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Confidence levels produced by the cascade. Earlier rules always
// outrank later ones.
const (
	ConfidenceReferenceUnique = 1.00
	ConfidenceReferenceTie    = 0.98
	ConfidenceAmountUnique    = 0.95
	ConfidenceAmountTie       = 0.90
	ConfidenceFuzzyBase       = 0.70
	ConfidenceFuzzySlope      = 0.002
)

// Config holds the tunable parameters of the rule cascade.
type Config struct {
	// DateWindowDays bounds |payment_date - due_date| for the exact
	// amount and fuzzy rules.
	DateWindowDays int `json:"date_window_days"`

	// AmountEpsilon is the absolute tolerance for "exact" amount
	// equality.
	AmountEpsilon decimal.Decimal `json:"amount_epsilon"`

	// RelativeAmountTolerance is the maximum relative deviation
	// |payment - invoice| / invoice accepted by the fuzzy rule
	// (0.10 = 10%).
	RelativeAmountTolerance float64 `json:"relative_amount_tolerance"`

	// SimilarityThreshold is the minimum name-similarity score
	// (0-100) the fuzzy rule requires.
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// DefaultConfig returns the cascade parameters used in production.
func DefaultConfig() *Config {
	return &Config{
		DateWindowDays:          14,
		AmountEpsilon:           decimal.NewFromFloat(1e-6),
		RelativeAmountTolerance: 0.10,
		SimilarityThreshold:     85.0,
	}
}

// Validate checks if the matching configuration is valid
func (c *Config) Validate() error {
	if c.DateWindowDays < 0 {
		return fmt.Errorf("date window days cannot be negative: %d", c.DateWindowDays)
	}

	if c.AmountEpsilon.IsNegative() {
		return fmt.Errorf("amount epsilon cannot be negative: %s", c.AmountEpsilon)
	}

	if c.RelativeAmountTolerance < 0.0 || c.RelativeAmountTolerance > 1.0 {
		return fmt.Errorf("relative amount tolerance must be between 0.0 and 1.0: %f", c.RelativeAmountTolerance)
	}

	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 100.0 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 100.0: %f", c.SimilarityThreshold)
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}

// String returns a human-readable description of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{DateWindow: %d days, Epsilon: %s, AmountTolerance: %.0f%%, SimilarityThreshold: %.0f}",
		c.DateWindowDays, c.AmountEpsilon, c.RelativeAmountTolerance*100, c.SimilarityThreshold)
}

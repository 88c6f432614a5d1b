// Package similarity provides pluggable name-similarity scoring for
// the fuzzy matching rule.
//
// Two scorers are available: TokenSortScorer, which compares names
// independent of token order using Levenshtein ratio, and ExactScorer,
// a binary fallback that only awards a score on exact equality. The
// scorer is selected once at startup so behavior is consistent within
// a run.
package similarity

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Scorer computes a similarity score in [0, 100] between two
// normalized names.
type Scorer interface {
	Score(a, b string) float64
	Name() string
}

// ScorerKind selects a scorer implementation.
type ScorerKind string

const (
	KindTokenSort ScorerKind = "token"
	KindExact     ScorerKind = "exact"
)

// NewScorer returns the scorer for the given kind, defaulting to the
// token-sort scorer for unrecognized kinds.
func NewScorer(kind ScorerKind) Scorer {
	switch kind {
	case KindExact:
		return ExactScorer{}
	default:
		return TokenSortScorer{}
	}
}

// TokenSortScorer scores names by sorting their whitespace-separated
// tokens before computing a Levenshtein ratio, making the score
// insensitive to token order ("ltd acme" scores 100 against
// "acme ltd").
type TokenSortScorer struct{}

// Name returns the scorer identifier
func (TokenSortScorer) Name() string { return string(KindTokenSort) }

// Score computes the token-sorted Levenshtein ratio scaled to [0, 100].
func (TokenSortScorer) Score(a, b string) float64 {
	a = sortTokens(a)
	b = sortTokens(b)

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	ratio := levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	return ratio * 100
}

// ExactScorer is the degraded fallback: 100 on exact equality of the
// normalized names, 0 otherwise.
type ExactScorer struct{}

// Name returns the scorer identifier
func (ExactScorer) Name() string { return string(KindExact) }

// Score returns 100 when both names are non-empty and equal, else 0.
func (ExactScorer) Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	return 0
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

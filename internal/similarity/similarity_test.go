package similarity

import (
	"testing"
)

func TestTokenSortScorer(t *testing.T) {
	scorer := TokenSortScorer{}

	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "acme pvt ltd", "acme pvt ltd", 100},
		{"token order insensitive", "pvt ltd acme", "acme pvt ltd", 100},
		{"empty a", "", "acme", 0},
		{"empty b", "acme", "", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(tt.a, tt.b); got != tt.want {
				t.Errorf("Score(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSortScorerPartialSimilarity(t *testing.T) {
	scorer := TokenSortScorer{}

	// Similar but not identical names score strictly between 0 and 100.
	score := scorer.Score("acme ind", "acme inc")
	if score <= 0 || score >= 100 {
		t.Errorf("Expected partial score in (0, 100), got %f", score)
	}

	// Near-identical names should score high.
	high := scorer.Score("globex corporation", "globex corporatian")
	if high < 85 {
		t.Errorf("Expected near-identical names to score at least 85, got %f", high)
	}

	// Unrelated names should score lower than related ones.
	low := scorer.Score("acme pvt ltd", "zzyzx holdings")
	if low >= high {
		t.Errorf("Expected unrelated score %f below related score %f", low, high)
	}
}

func TestTokenSortScorerSymmetry(t *testing.T) {
	scorer := TokenSortScorer{}

	ab := scorer.Score("acme ind", "acme industries global")
	ba := scorer.Score("acme industries global", "acme ind")
	if ab != ba {
		t.Errorf("Expected symmetric scores, got %f and %f", ab, ba)
	}
}

func TestExactScorer(t *testing.T) {
	scorer := ExactScorer{}

	if got := scorer.Score("acme pvt ltd", "acme pvt ltd"); got != 100 {
		t.Errorf("Expected 100 for equal names, got %f", got)
	}

	if got := scorer.Score("acme pvt ltd", "acme ltd"); got != 0 {
		t.Errorf("Expected 0 for differing names, got %f", got)
	}

	if got := scorer.Score("", ""); got != 0 {
		t.Errorf("Expected 0 for empty names, got %f", got)
	}
}

func TestNewScorer(t *testing.T) {
	if s := NewScorer(KindExact); s.Name() != "exact" {
		t.Errorf("Expected exact scorer, got %s", s.Name())
	}

	if s := NewScorer(KindTokenSort); s.Name() != "token" {
		t.Errorf("Expected token scorer, got %s", s.Name())
	}

	// Unknown kinds fall back to the token scorer.
	if s := NewScorer("bogus"); s.Name() != "token" {
		t.Errorf("Expected fallback to token scorer, got %s", s.Name())
	}
}

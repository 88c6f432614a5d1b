package matcher

import (
	"fmt"
	"math"
	"strings"
	"time"

	"invoice-payment-matcher/internal/models"
	"invoice-payment-matcher/internal/similarity"
	"invoice-payment-matcher/pkg/logger"
)

// Engine runs the rule cascade over one pair of record collections.
type Engine struct {
	config *Config
	scorer similarity.Scorer
	logger logger.Logger
}

// NewEngine creates a matching engine with the given configuration and
// name-similarity scorer. A nil config selects the defaults and a nil
// scorer selects the token-sort scorer.
func NewEngine(config *Config, scorer similarity.Scorer) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher configuration: %w", err)
	}
	if scorer == nil {
		scorer = similarity.NewScorer(similarity.KindTokenSort)
	}

	// The engine keeps a private copy; callers may reuse and mutate
	// their config afterwards.
	return &Engine{
		config: config.Clone(),
		scorer: scorer,
		logger: logger.GetGlobalLogger().WithComponent("matcher"),
	}, nil
}

// Result holds the complete output of one cascade run.
type Result struct {
	Matches           []*models.Match
	UnmatchedInvoices []*models.Invoice
	UnmatchedPayments []*models.Payment
	Summary           Summary
}

// Summary reports aggregate counts of one cascade run.
type Summary struct {
	TotalInvoices     int `json:"total_invoices"`
	TotalPayments     int `json:"total_payments"`
	MatchedPairs      int `json:"matched_pairs"`
	ReferenceMatches  int `json:"reference_matches"`
	AmountDateMatches int `json:"amount_date_matches"`
	FuzzyMatches      int `json:"fuzzy_matches"`
	UnmatchedInvoices int `json:"unmatched_invoices"`
	UnmatchedPayments int `json:"unmatched_payments"`
}

// cascade tracks consumption across rule passes. Records are never
// mutated; consumption is membership in the append-only ID sets, checked
// immediately before each candidacy test.
type cascade struct {
	invoices []*models.Invoice
	payments []*models.Payment

	consumedInvoices map[string]bool
	consumedPayments map[string]bool
	matches          []*models.Match
}

func (c *cascade) consume(p *models.Payment, inv *models.Invoice, m *models.Match) {
	c.consumedPayments[p.PaymentID] = true
	c.consumedInvoices[inv.InvoiceID] = true
	c.matches = append(c.matches, m)
}

// Match runs the three rule passes over the inputs and aggregates the
// results. Payments are visited in input order within each pass; earlier
// passes fully complete before later ones begin, so a reference match
// can never be preempted by a lower-priority rule firing for an earlier
// payment.
func (e *Engine) Match(invoices []*models.Invoice, payments []*models.Payment) *Result {
	st := &cascade{
		invoices:         invoices,
		payments:         payments,
		consumedInvoices: make(map[string]bool),
		consumedPayments: make(map[string]bool),
	}

	e.logger.WithFields(logger.Fields{
		"invoices": len(invoices),
		"payments": len(payments),
		"scorer":   e.scorer.Name(),
	}).Info("Starting match cascade")

	refMatches := e.runReferenceRule(st)
	amountMatches := e.runAmountDateRule(st)
	fuzzyMatches := e.runFuzzyRule(st)

	result := &Result{
		Matches: st.matches,
		Summary: Summary{
			TotalInvoices:     len(invoices),
			TotalPayments:     len(payments),
			MatchedPairs:      len(st.matches),
			ReferenceMatches:  refMatches,
			AmountDateMatches: amountMatches,
			FuzzyMatches:      fuzzyMatches,
		},
	}

	for _, inv := range invoices {
		if !st.consumedInvoices[inv.InvoiceID] {
			result.UnmatchedInvoices = append(result.UnmatchedInvoices, inv)
		}
	}
	for _, p := range payments {
		if !st.consumedPayments[p.PaymentID] {
			result.UnmatchedPayments = append(result.UnmatchedPayments, p)
		}
	}
	result.Summary.UnmatchedInvoices = len(result.UnmatchedInvoices)
	result.Summary.UnmatchedPayments = len(result.UnmatchedPayments)

	e.logger.WithFields(logger.Fields{
		"matched":            result.Summary.MatchedPairs,
		"reference":          refMatches,
		"amount_date":        amountMatches,
		"fuzzy":              fuzzyMatches,
		"unmatched_invoices": result.Summary.UnmatchedInvoices,
		"unmatched_payments": result.Summary.UnmatchedPayments,
	}).Info("Match cascade complete")

	return result
}

// runReferenceRule links payments whose memo or reference text contains
// an invoice identifier, requiring matching currency and normalized
// name. Confidence 1.00 for a unique candidate, 0.98 on a tie.
func (e *Engine) runReferenceRule(st *cascade) int {
	matched := 0

	for _, p := range st.payments {
		if st.consumedPayments[p.PaymentID] {
			continue
		}

		refText := p.ReferenceText()

		var candidates []*models.Invoice
		for _, inv := range st.invoices {
			if st.consumedInvoices[inv.InvoiceID] {
				continue
			}
			if inv.Currency != p.Currency || inv.NormalizedName != p.NormalizedName {
				continue
			}
			if !referencesInvoice(refText, inv.InvoiceID) {
				continue
			}
			candidates = append(candidates, inv)
		}

		if len(candidates) == 0 {
			continue
		}

		best := nearestDueDate(candidates, p.PaymentDate)
		confidence := ConfidenceReferenceUnique
		if len(candidates) > 1 {
			confidence = ConfidenceReferenceTie
		}

		rationale := fmt.Sprintf("invoice %s referenced in payment memo/reference; %s",
			best.InvoiceID, models.RelateAmounts(p.Amount, best.Amount, e.config.AmountEpsilon))
		if len(candidates) > 1 {
			rationale += fmt.Sprintf("; selected nearest due date among %d candidates", len(candidates))
		}

		st.consume(p, best, models.NewMatch(p.PaymentID, best.InvoiceID, confidence, rationale))
		matched++

		e.logger.WithFields(logger.Fields{
			"payment_id": p.PaymentID,
			"invoice_id": best.InvoiceID,
			"candidates": len(candidates),
		}).Debug("Reference match")
	}

	return matched
}

// runAmountDateRule links remaining payments whose amount equals an
// invoice amount within epsilon and whose date falls inside the due-date
// window, requiring matching currency and normalized name. Confidence
// 0.95 for a unique candidate, 0.90 on a tie.
func (e *Engine) runAmountDateRule(st *cascade) int {
	matched := 0

	for _, p := range st.payments {
		if st.consumedPayments[p.PaymentID] {
			continue
		}
		if p.Amount == nil || p.PaymentDate == nil {
			continue
		}

		var candidates []*models.Invoice
		for _, inv := range st.invoices {
			if st.consumedInvoices[inv.InvoiceID] {
				continue
			}
			if inv.Currency != p.Currency || inv.NormalizedName != p.NormalizedName {
				continue
			}
			if inv.Amount == nil || inv.DueDate == nil {
				continue
			}
			if p.Amount.Sub(*inv.Amount).Abs().GreaterThan(e.config.AmountEpsilon) {
				continue
			}
			if !e.withinDateWindow(*p.PaymentDate, *inv.DueDate) {
				continue
			}
			candidates = append(candidates, inv)
		}

		if len(candidates) == 0 {
			continue
		}

		best := nearestDueDate(candidates, p.PaymentDate)
		confidence := ConfidenceAmountUnique
		if len(candidates) > 1 {
			confidence = ConfidenceAmountTie
		}

		rationale := fmt.Sprintf("exact amount %s %s; payment date within %d days of due date",
			p.Amount, p.Currency, e.config.DateWindowDays)
		if len(candidates) > 1 {
			rationale += fmt.Sprintf("; selected nearest due date among %d candidates", len(candidates))
		}

		st.consume(p, best, models.NewMatch(p.PaymentID, best.InvoiceID, confidence, rationale))
		matched++

		e.logger.WithFields(logger.Fields{
			"payment_id": p.PaymentID,
			"invoice_id": best.InvoiceID,
			"candidates": len(candidates),
		}).Debug("Amount and date match")
	}

	return matched
}

// runFuzzyRule links remaining payments by name similarity, tolerating
// amount deviation up to the configured fraction of the invoice amount
// inside the due-date window. Among qualifying invoices the highest
// similarity score wins, and confidence scales linearly with the score.
func (e *Engine) runFuzzyRule(st *cascade) int {
	matched := 0

	for _, p := range st.payments {
		if st.consumedPayments[p.PaymentID] {
			continue
		}
		if p.Amount == nil || p.PaymentDate == nil {
			continue
		}

		var best *models.Invoice
		bestScore := -1.0

		for _, inv := range st.invoices {
			if st.consumedInvoices[inv.InvoiceID] {
				continue
			}
			if inv.Currency != p.Currency {
				continue
			}
			if inv.Amount == nil || inv.Amount.IsZero() || inv.DueDate == nil {
				continue
			}

			deviation, _ := p.Amount.Sub(*inv.Amount).Abs().Div(inv.Amount.Abs()).Float64()
			if deviation > e.config.RelativeAmountTolerance {
				continue
			}
			if !e.withinDateWindow(*p.PaymentDate, *inv.DueDate) {
				continue
			}

			score := e.scorer.Score(p.NormalizedName, inv.NormalizedName)
			if score < e.config.SimilarityThreshold {
				continue
			}
			if score > bestScore {
				best = inv
				bestScore = score
			}
		}

		if best == nil {
			continue
		}

		confidence := ConfidenceFuzzyBase + bestScore*ConfidenceFuzzySlope
		rationale := fmt.Sprintf("payer name similar to customer name (score %.1f); %s within %.0f%% of invoice amount; payment date within %d days of due date",
			bestScore,
			models.RelateAmounts(p.Amount, best.Amount, e.config.AmountEpsilon),
			e.config.RelativeAmountTolerance*100,
			e.config.DateWindowDays)

		st.consume(p, best, models.NewMatch(p.PaymentID, best.InvoiceID, confidence, rationale))
		matched++

		e.logger.WithFields(logger.Fields{
			"payment_id": p.PaymentID,
			"invoice_id": best.InvoiceID,
			"score":      bestScore,
		}).Debug("Fuzzy name match")
	}

	return matched
}

func (e *Engine) withinDateWindow(paymentDate, dueDate time.Time) bool {
	return models.DaysBetween(paymentDate, dueDate) <= float64(e.config.DateWindowDays)
}

// referencesInvoice reports whether the upper-cased memo and reference
// text contains the invoice identifier, or the identifier's numeric
// suffix after its last hyphen. Non-numeric suffixes never match on
// their own. Matching is case-insensitive via the upper-cased haystack.
func referencesInvoice(refText, invoiceID string) bool {
	id := strings.ToUpper(strings.TrimSpace(invoiceID))
	if id == "" {
		return false
	}
	if strings.Contains(refText, id) {
		return true
	}

	if idx := strings.LastIndex(id, "-"); idx >= 0 && idx < len(id)-1 {
		suffix := id[idx+1:]
		if isNumeric(suffix) && strings.Contains(refText, suffix) {
			return true
		}
	}

	return false
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// nearestDueDate selects the candidate whose due date is closest to the
// payment date. Candidates without a due date sort last; the first
// candidate encountered wins exact ties. With a nil payment date every
// distance is unknowable and the first candidate wins outright.
func nearestDueDate(candidates []*models.Invoice, paymentDate *time.Time) *models.Invoice {
	best := candidates[0]
	bestDiff := dateDistance(best, paymentDate)

	for _, inv := range candidates[1:] {
		if diff := dateDistance(inv, paymentDate); diff < bestDiff {
			best = inv
			bestDiff = diff
		}
	}

	return best
}

func dateDistance(inv *models.Invoice, paymentDate *time.Time) float64 {
	if paymentDate == nil || inv.DueDate == nil {
		return math.Inf(1)
	}
	return models.DaysBetween(*inv.DueDate, *paymentDate)
}

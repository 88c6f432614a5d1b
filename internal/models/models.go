// Package models defines the core record types used throughout the
// matching service: invoices, payments, and the linkages produced by
// the rule cascade.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents an outstanding invoice record.
//
// Amount, InvoiceDate and DueDate are nil when the source field could
// not be parsed; such records stay in the collection but are skipped by
// any rule gate that requires the missing field. Raw preserves the
// original CSV row so unmatched output can reproduce every column.
type Invoice struct {
	InvoiceID      string
	CustomerName   string
	NormalizedName string
	InvoiceDate    *time.Time
	DueDate        *time.Time
	Currency       string
	Amount         *decimal.Decimal
	Raw            []string
}

// Payment represents an incoming payment record.
type Payment struct {
	PaymentID      string
	PayerName      string
	NormalizedName string
	PaymentDate    *time.Time
	Currency       string
	Amount         *decimal.Decimal
	Memo           string
	Reference      string
	Raw            []string
}

// Match links one payment to one invoice with a confidence score and a
// human-readable rationale. A Match is immutable once created.
type Match struct {
	PaymentID  string  `json:"payment_id"`
	InvoiceID  string  `json:"invoice_id"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// NewMatch creates a new Match instance
func NewMatch(paymentID, invoiceID string, confidence float64, rationale string) *Match {
	return &Match{
		PaymentID:  paymentID,
		InvoiceID:  invoiceID,
		Confidence: confidence,
		Rationale:  rationale,
	}
}

// Validate performs basic validation on the Match
func (m *Match) Validate() error {
	if strings.TrimSpace(m.PaymentID) == "" {
		return fmt.Errorf("payment ID cannot be empty")
	}

	if strings.TrimSpace(m.InvoiceID) == "" {
		return fmt.Errorf("invoice ID cannot be empty")
	}

	if m.Confidence < 0.0 || m.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %f", m.Confidence)
	}

	return nil
}

// String returns a string representation of the Match
func (m *Match) String() string {
	return fmt.Sprintf("Match{Payment: %s, Invoice: %s, Confidence: %.2f}",
		m.PaymentID, m.InvoiceID, m.Confidence)
}

// String returns a string representation of the Invoice
func (inv *Invoice) String() string {
	amount := "<nil>"
	if inv.Amount != nil {
		amount = inv.Amount.String()
	}
	return fmt.Sprintf("Invoice{ID: %s, Customer: %s, Amount: %s %s}",
		inv.InvoiceID, inv.CustomerName, amount, inv.Currency)
}

// String returns a string representation of the Payment
func (p *Payment) String() string {
	amount := "<nil>"
	if p.Amount != nil {
		amount = p.Amount.String()
	}
	return fmt.Sprintf("Payment{ID: %s, Payer: %s, Amount: %s %s}",
		p.PaymentID, p.PayerName, amount, p.Currency)
}

// HasAmount reports whether the invoice amount parsed successfully.
func (inv *Invoice) HasAmount() bool {
	return inv.Amount != nil
}

// HasAmount reports whether the payment amount parsed successfully.
func (p *Payment) HasAmount() bool {
	return p.Amount != nil
}

// ReferenceText returns the searchable reference text of the payment:
// the memo and reference fields concatenated and upper-cased. Rule
// gates search this for invoice identifiers.
func (p *Payment) ReferenceText() string {
	return strings.ToUpper(p.Memo + p.Reference)
}

// AmountRelationship describes how a payment amount relates to an
// invoice amount in match rationales.
type AmountRelationship string

const (
	AmountExact       AmountRelationship = "exact amount"
	AmountPartial     AmountRelationship = "partial payment"
	AmountOverpayment AmountRelationship = "overpayment"
	AmountUnknown     AmountRelationship = "amount unavailable"
)

// RelateAmounts classifies the payment amount against the invoice
// amount within the given epsilon.
func RelateAmounts(payment, invoice *decimal.Decimal, epsilon decimal.Decimal) AmountRelationship {
	if payment == nil || invoice == nil {
		return AmountUnknown
	}

	diff := payment.Sub(*invoice)
	if diff.Abs().LessThanOrEqual(epsilon) {
		return AmountExact
	}
	if diff.IsNegative() {
		return AmountPartial
	}
	return AmountOverpayment
}

// DaysBetween returns the absolute difference between two dates in
// whole and fractional days.
func DaysBetween(a, b time.Time) float64 {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff.Hours() / 24
}

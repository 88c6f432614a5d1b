// Package reconciler wires the parsers and the matching engine into a
// single file-to-result operation.
package reconciler

import (
	"context"

	"invoice-payment-matcher/internal/matcher"
	"invoice-payment-matcher/internal/models"
	"invoice-payment-matcher/internal/parsers"
	"invoice-payment-matcher/internal/similarity"
	"invoice-payment-matcher/pkg/errors"
	"invoice-payment-matcher/pkg/logger"
)

// Config aggregates the configuration of every stage.
type Config struct {
	InvoiceParser *parsers.InvoiceParserConfig `json:"invoice_parser"`
	PaymentParser *parsers.PaymentParserConfig `json:"payment_parser"`
	Matcher       *matcher.Config              `json:"matcher"`
	Scorer        similarity.ScorerKind        `json:"scorer"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		InvoiceParser: parsers.DefaultInvoiceParserConfig(),
		PaymentParser: parsers.DefaultPaymentParserConfig(),
		Matcher:       matcher.DefaultConfig(),
		Scorer:        similarity.KindTokenSort,
	}
}

// Service runs the complete reconciliation pipeline: load both files,
// run the rule cascade, and aggregate matched and unmatched records.
type Service struct {
	invoiceParser *parsers.InvoiceParser
	paymentParser *parsers.PaymentParser
	engine        *matcher.Engine
	logger        logger.Logger
}

// Result is the complete output of one reconciliation run. Headers
// carry the original CSV header rows so reports can reproduce every
// input column.
type Result struct {
	Matches           []*models.Match
	UnmatchedInvoices []*models.Invoice
	UnmatchedPayments []*models.Payment
	InvoiceHeaders    []string
	PaymentHeaders    []string
	Summary           matcher.Summary
	InvoiceStats      *parsers.ParseStats
	PaymentStats      *parsers.ParseStats
}

// NewService creates a reconciliation service. A nil config selects the
// defaults.
func NewService(config *Config) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	invoiceParser, err := parsers.NewInvoiceParser(config.InvoiceParser)
	if err != nil {
		return nil, err
	}

	paymentParser, err := parsers.NewPaymentParser(config.PaymentParser)
	if err != nil {
		return nil, err
	}

	engine, err := matcher.NewEngine(config.Matcher, similarity.NewScorer(config.Scorer))
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "matcher", config.Matcher, err)
	}

	return &Service{
		invoiceParser: invoiceParser,
		paymentParser: paymentParser,
		engine:        engine,
		logger:        logger.GetGlobalLogger().WithComponent("reconciler"),
	}, nil
}

// Reconcile loads the invoice and payment files and runs the matching
// cascade over them.
func (s *Service) Reconcile(ctx context.Context, invoicePath, paymentPath string) (*Result, error) {
	s.logger.WithFields(logger.Fields{
		"invoice_file": invoicePath,
		"payment_file": paymentPath,
	}).Info("Starting reconciliation")

	invoiceResult, err := s.invoiceParser.ParseFileWithContext(ctx, invoicePath)
	if err != nil {
		return nil, err
	}

	paymentResult, err := s.paymentParser.ParseFileWithContext(ctx, paymentPath)
	if err != nil {
		return nil, err
	}

	matchResult := s.engine.Match(invoiceResult.Invoices, paymentResult.Payments)

	result := &Result{
		Matches:           matchResult.Matches,
		UnmatchedInvoices: matchResult.UnmatchedInvoices,
		UnmatchedPayments: matchResult.UnmatchedPayments,
		InvoiceHeaders:    invoiceResult.Headers,
		PaymentHeaders:    paymentResult.Headers,
		Summary:           matchResult.Summary,
		InvoiceStats:      invoiceResult.Stats,
		PaymentStats:      paymentResult.Stats,
	}

	s.logger.WithFields(logger.Fields{
		"matches":            len(result.Matches),
		"unmatched_invoices": len(result.UnmatchedInvoices),
		"unmatched_payments": len(result.UnmatchedPayments),
	}).Info("Reconciliation complete")

	return result, nil
}

// Package config builds stage configurations from CLI flag values.
package config

import (
	"fmt"

	"invoice-payment-matcher/internal/matcher"
	"invoice-payment-matcher/internal/parsers"
	"invoice-payment-matcher/internal/reconciler"
	"invoice-payment-matcher/internal/reporter"
	"invoice-payment-matcher/internal/similarity"
)

// CreateReconcilerConfig builds the pipeline configuration from CLI
// flag values, applying overrides on top of the defaults.
func CreateReconcilerConfig(similarityKind string, dateWindow int, amountTolerance float64) (*reconciler.Config, error) {
	matcherConfig := matcher.DefaultConfig()
	matcherConfig.DateWindowDays = dateWindow
	matcherConfig.RelativeAmountTolerance = amountTolerance

	if err := matcherConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher config: %w", err)
	}

	return &reconciler.Config{
		InvoiceParser: CreateInvoiceParserConfig(),
		PaymentParser: CreatePaymentParserConfig(),
		Matcher:       matcherConfig,
		Scorer:        similarity.ScorerKind(similarityKind),
	}, nil
}

// CreateInvoiceParserConfig returns the standard invoice column layout.
// Column aliases can be supplied through a config file when input files
// use different header names.
func CreateInvoiceParserConfig() *parsers.InvoiceParserConfig {
	return parsers.DefaultInvoiceParserConfig()
}

// CreatePaymentParserConfig returns the standard payment column layout.
func CreatePaymentParserConfig() *parsers.PaymentParserConfig {
	return parsers.DefaultPaymentParserConfig()
}

// CreateReportConfig creates a report configuration writing under the
// given output directory.
func CreateReportConfig(outputDir string) *reporter.Config {
	config := reporter.DefaultConfig()
	config.OutputDir = outputDir
	return config
}

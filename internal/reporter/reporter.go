// Package reporter writes reconciliation results as CSV files and the
// machine-readable run summary.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"invoice-payment-matcher/internal/reconciler"
	"invoice-payment-matcher/pkg/errors"
	"invoice-payment-matcher/pkg/logger"
)

// Config holds output locations for the generated reports.
type Config struct {
	OutputDir             string `json:"output_dir"`
	MatchesFile           string `json:"matches_file"`
	UnmatchedPaymentsFile string `json:"unmatched_payments_file"`
	UnmatchedInvoicesFile string `json:"unmatched_invoices_file"`
}

// DefaultConfig returns the standard report layout.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:             "out",
		MatchesFile:           "matches.csv",
		UnmatchedPaymentsFile: "unmatched_payments.csv",
		UnmatchedInvoicesFile: "unmatched_invoices.csv",
	}
}

// Validate checks if the report configuration is valid
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.MatchesFile == "" || c.UnmatchedPaymentsFile == "" || c.UnmatchedInvoicesFile == "" {
		return fmt.Errorf("report file names cannot be empty")
	}
	return nil
}

// Generator writes the three report files for a reconciliation result.
type Generator struct {
	config *Config
	logger logger.Logger
}

// NewGenerator creates a report generator. A nil config selects the
// defaults.
func NewGenerator(config *Config) (*Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "reporter", config, err)
	}

	return &Generator{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("reporter"),
	}, nil
}

// WriteReports writes matches.csv, unmatched_payments.csv and
// unmatched_invoices.csv under the output directory, creating it when
// absent. Every file gets a header row even when it holds no records;
// unmatched files reproduce the original input columns in input order.
func (g *Generator) WriteReports(result *reconciler.Result) error {
	if err := os.MkdirAll(g.config.OutputDir, 0755); err != nil {
		return errors.FileError(errors.CodeDirectoryError, g.config.OutputDir, err)
	}

	if err := g.writeMatches(result); err != nil {
		return err
	}
	if err := g.writeUnmatchedPayments(result); err != nil {
		return err
	}
	if err := g.writeUnmatchedInvoices(result); err != nil {
		return err
	}

	g.logger.WithFields(logger.Fields{
		"output_dir":         g.config.OutputDir,
		"matches":            len(result.Matches),
		"unmatched_payments": len(result.UnmatchedPayments),
		"unmatched_invoices": len(result.UnmatchedInvoices),
	}).Info("Reports written")

	return nil
}

func (g *Generator) writeMatches(result *reconciler.Result) error {
	rows := [][]string{{"payment_id", "invoice_id", "confidence", "rationale"}}
	for _, m := range result.Matches {
		rows = append(rows, []string{
			m.PaymentID,
			m.InvoiceID,
			strconv.FormatFloat(m.Confidence, 'f', -1, 64),
			m.Rationale,
		})
	}
	return g.writeCSV(g.config.MatchesFile, rows)
}

func (g *Generator) writeUnmatchedPayments(result *reconciler.Result) error {
	rows := [][]string{result.PaymentHeaders}
	for _, p := range result.UnmatchedPayments {
		rows = append(rows, p.Raw)
	}
	return g.writeCSV(g.config.UnmatchedPaymentsFile, rows)
}

func (g *Generator) writeUnmatchedInvoices(result *reconciler.Result) error {
	rows := [][]string{result.InvoiceHeaders}
	for _, inv := range result.UnmatchedInvoices {
		rows = append(rows, inv.Raw)
	}
	return g.writeCSV(g.config.UnmatchedInvoicesFile, rows)
}

func (g *Generator) writeCSV(name string, rows [][]string) error {
	path := filepath.Join(g.config.OutputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return errors.FileError(errors.CodeWriteFailed, path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := writer.Write(row); err != nil {
			return errors.FileError(errors.CodeWriteFailed, path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.FileError(errors.CodeWriteFailed, path, err)
	}

	return nil
}

// Summary is the machine-readable run summary printed to stdout.
type Summary struct {
	Matches           int `json:"matches"`
	UnmatchedPayments int `json:"unmatched_payments"`
	UnmatchedInvoices int `json:"unmatched_invoices"`
}

// WriteSummary renders the JSON run summary for the result.
func WriteSummary(w io.Writer, result *reconciler.Result) error {
	summary := Summary{
		Matches:           len(result.Matches),
		UnmatchedPayments: len(result.UnmatchedPayments),
		UnmatchedInvoices: len(result.UnmatchedInvoices),
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return errors.InternalError(errors.CodeUnexpectedError, "summary_encoding", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	return err
}

package parsers

import (
	"context"
	"io"

	"invoice-payment-matcher/internal/models"
	"invoice-payment-matcher/internal/normalize"
	"invoice-payment-matcher/pkg/errors"
	"invoice-payment-matcher/pkg/logger"
)

// InvoiceParser loads invoice CSV files.
type InvoiceParser struct {
	base   *BaseParser
	config *InvoiceParserConfig
	logger logger.Logger
}

// InvoiceParseResult bundles the parsed records with the original
// header row and parse statistics.
type InvoiceParseResult struct {
	Invoices []*models.Invoice
	Headers  []string
	Stats    *ParseStats
}

// NewInvoiceParser creates a parser for the given column layout. A nil
// config selects the standard layout.
func NewInvoiceParser(config *InvoiceParserConfig) (*InvoiceParser, error) {
	if config == nil {
		config = DefaultInvoiceParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "invoice_parser", config, err)
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	if config.Delimiter != 0 {
		parseConfig.Delimiter = config.Delimiter
	}

	return &InvoiceParser{
		base:   NewBaseParser(parseConfig),
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("invoice_parser"),
	}, nil
}

// ParseFile loads all invoices from the given CSV file.
func (ip *InvoiceParser) ParseFile(filePath string) (*InvoiceParseResult, error) {
	return ip.ParseFileWithContext(context.Background(), filePath)
}

// ParseFileWithContext loads all invoices from the given CSV file,
// honoring context cancellation between records. Unparsable amount and
// date fields become nil; the record is kept.
func (ip *InvoiceParser) ParseFileWithContext(ctx context.Context, filePath string) (*InvoiceParseResult, error) {
	file, reader, err := ip.base.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	if err := ip.base.ReadHeaders(reader, parseCtx, filePath, ip.config.RequiredColumns()); err != nil {
		return nil, err
	}

	result := &InvoiceParseResult{
		Headers: parseCtx.Headers,
		Stats:   &ParseStats{},
	}

	for {
		record, err := ip.base.ReadRecord(reader, parseCtx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapIfNeeded(err, errors.CategoryParse, errors.CodeInvalidFormat, "failed to read invoice record")
		}

		result.Invoices = append(result.Invoices, ip.parseInvoice(record, parseCtx, result.Stats))
		result.Stats.RecordsParsed++
	}

	result.Stats.TotalLines = parseCtx.LineNumber

	ip.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"records":   result.Stats.RecordsParsed,
	}).Info("Parsed invoice file")

	return result, nil
}

func (ip *InvoiceParser) parseInvoice(record []string, parseCtx *ParseContext, stats *ParseStats) *models.Invoice {
	customerName := ip.base.GetFieldValue(record, parseCtx, ip.config.GetColumnName("customer_name"))

	inv := &models.Invoice{
		InvoiceID:      ip.base.GetFieldValue(record, parseCtx, ip.config.GetColumnName("invoice_id")),
		CustomerName:   customerName,
		NormalizedName: normalize.Name(customerName),
		InvoiceDate:    normalize.Date(ip.base.GetFieldValue(record, parseCtx, ip.config.GetColumnName("invoice_date"))),
		DueDate:        normalize.Date(ip.base.GetFieldValue(record, parseCtx, ip.config.GetColumnName("due_date"))),
		Currency:       ip.base.GetFieldValue(record, parseCtx, ip.config.GetColumnName("currency")),
		Amount:         normalize.Amount(ip.base.GetFieldValue(record, parseCtx, ip.config.GetColumnName("invoice_amount"))),
		Raw:            record,
	}

	if inv.Amount == nil {
		stats.NullAmounts++
	}
	if inv.DueDate == nil {
		stats.NullDates++
	}

	return inv
}

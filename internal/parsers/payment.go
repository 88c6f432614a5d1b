package parsers

import (
	"context"
	"io"

	"invoice-payment-matcher/internal/models"
	"invoice-payment-matcher/internal/normalize"
	"invoice-payment-matcher/pkg/errors"
	"invoice-payment-matcher/pkg/logger"
)

// PaymentParser loads payment CSV files.
type PaymentParser struct {
	base   *BaseParser
	config *PaymentParserConfig
	logger logger.Logger
}

// PaymentParseResult bundles the parsed records with the original
// header row and parse statistics.
type PaymentParseResult struct {
	Payments []*models.Payment
	Headers  []string
	Stats    *ParseStats
}

// NewPaymentParser creates a parser for the given column layout. A nil
// config selects the standard layout.
func NewPaymentParser(config *PaymentParserConfig) (*PaymentParser, error) {
	if config == nil {
		config = DefaultPaymentParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "payment_parser", config, err)
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	if config.Delimiter != 0 {
		parseConfig.Delimiter = config.Delimiter
	}

	return &PaymentParser{
		base:   NewBaseParser(parseConfig),
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("payment_parser"),
	}, nil
}

// ParseFile loads all payments from the given CSV file.
func (pp *PaymentParser) ParseFile(filePath string) (*PaymentParseResult, error) {
	return pp.ParseFileWithContext(context.Background(), filePath)
}

// ParseFileWithContext loads all payments from the given CSV file,
// honoring context cancellation between records. Unparsable amount and
// date fields become nil, missing memo and reference text becomes the
// empty string; the record is always kept.
func (pp *PaymentParser) ParseFileWithContext(ctx context.Context, filePath string) (*PaymentParseResult, error) {
	file, reader, err := pp.base.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	if err := pp.base.ReadHeaders(reader, parseCtx, filePath, pp.config.RequiredColumns()); err != nil {
		return nil, err
	}

	result := &PaymentParseResult{
		Headers: parseCtx.Headers,
		Stats:   &ParseStats{},
	}

	for {
		record, err := pp.base.ReadRecord(reader, parseCtx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapIfNeeded(err, errors.CategoryParse, errors.CodeInvalidFormat, "failed to read payment record")
		}

		result.Payments = append(result.Payments, pp.parsePayment(record, parseCtx, result.Stats))
		result.Stats.RecordsParsed++
	}

	result.Stats.TotalLines = parseCtx.LineNumber

	pp.logger.WithFields(logger.Fields{
		"file_path": filePath,
		"records":   result.Stats.RecordsParsed,
	}).Info("Parsed payment file")

	return result, nil
}

func (pp *PaymentParser) parsePayment(record []string, parseCtx *ParseContext, stats *ParseStats) *models.Payment {
	payerName := pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("payer_name"))

	p := &models.Payment{
		PaymentID:      pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("payment_id")),
		PayerName:      payerName,
		NormalizedName: normalize.Name(payerName),
		PaymentDate:    normalize.Date(pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("payment_date"))),
		Currency:       pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("currency")),
		Amount:         normalize.Amount(pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("payment_amount"))),
		Memo:           normalize.Text(pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("memo"))),
		Reference:      normalize.Text(pp.base.GetFieldValue(record, parseCtx, pp.config.GetColumnName("reference_number"))),
		Raw:            record,
	}

	if p.Amount == nil {
		stats.NullAmounts++
	}
	if p.PaymentDate == nil {
		stats.NullDates++
	}

	return p
}

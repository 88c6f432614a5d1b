package parsers

import (
	"fmt"
	"strings"
)

// InvoiceParserConfig holds column mapping for invoice CSV files.
// ColumnAliases lets callers rename standard columns for files produced
// by systems with different header conventions.
type InvoiceParserConfig struct {
	InvoiceIDColumn    string            `json:"invoice_id_column"`
	CustomerNameColumn string            `json:"customer_name_column"`
	InvoiceDateColumn  string            `json:"invoice_date_column"`
	DueDateColumn      string            `json:"due_date_column"`
	CurrencyColumn     string            `json:"currency_column"`
	AmountColumn       string            `json:"amount_column"`
	HasHeader          bool              `json:"has_header"`
	Delimiter          rune              `json:"delimiter"`
	ColumnAliases      map[string]string `json:"column_aliases,omitempty"`
}

// DefaultInvoiceParserConfig returns the standard invoice file layout.
func DefaultInvoiceParserConfig() *InvoiceParserConfig {
	return &InvoiceParserConfig{
		InvoiceIDColumn:    "invoice_id",
		CustomerNameColumn: "customer_name",
		InvoiceDateColumn:  "invoice_date",
		DueDateColumn:      "due_date",
		CurrencyColumn:     "currency",
		AmountColumn:       "invoice_amount",
		HasHeader:          true,
		Delimiter:          ',',
		ColumnAliases:      make(map[string]string),
	}
}

// Validate checks if the invoice parser configuration is valid
func (c *InvoiceParserConfig) Validate() error {
	for name, value := range map[string]string{
		"invoice ID":    c.InvoiceIDColumn,
		"customer name": c.CustomerNameColumn,
		"invoice date":  c.InvoiceDateColumn,
		"due date":      c.DueDateColumn,
		"currency":      c.CurrencyColumn,
		"amount":        c.AmountColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s column cannot be empty", name)
		}
	}
	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (c *InvoiceParserConfig) GetColumnName(standardName string) string {
	if alias, exists := c.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "invoice_id":
		return c.InvoiceIDColumn
	case "customer_name":
		return c.CustomerNameColumn
	case "invoice_date":
		return c.InvoiceDateColumn
	case "due_date":
		return c.DueDateColumn
	case "currency":
		return c.CurrencyColumn
	case "invoice_amount":
		return c.AmountColumn
	default:
		return standardName
	}
}

// RequiredColumns lists the columns that must be present in the header.
func (c *InvoiceParserConfig) RequiredColumns() []string {
	return []string{
		c.GetColumnName("invoice_id"),
		c.GetColumnName("customer_name"),
		c.GetColumnName("invoice_date"),
		c.GetColumnName("due_date"),
		c.GetColumnName("currency"),
		c.GetColumnName("invoice_amount"),
	}
}

// PaymentParserConfig holds column mapping for payment CSV files.
type PaymentParserConfig struct {
	PaymentIDColumn   string            `json:"payment_id_column"`
	PayerNameColumn   string            `json:"payer_name_column"`
	PaymentDateColumn string            `json:"payment_date_column"`
	CurrencyColumn    string            `json:"currency_column"`
	AmountColumn      string            `json:"amount_column"`
	MemoColumn        string            `json:"memo_column"`
	ReferenceColumn   string            `json:"reference_column"`
	HasHeader         bool              `json:"has_header"`
	Delimiter         rune              `json:"delimiter"`
	ColumnAliases     map[string]string `json:"column_aliases,omitempty"`
}

// DefaultPaymentParserConfig returns the standard payment file layout.
func DefaultPaymentParserConfig() *PaymentParserConfig {
	return &PaymentParserConfig{
		PaymentIDColumn:   "payment_id",
		PayerNameColumn:   "payer_name",
		PaymentDateColumn: "payment_date",
		CurrencyColumn:    "currency",
		AmountColumn:      "payment_amount",
		MemoColumn:        "memo",
		ReferenceColumn:   "reference_number",
		HasHeader:         true,
		Delimiter:         ',',
		ColumnAliases:     make(map[string]string),
	}
}

// Validate checks if the payment parser configuration is valid
func (c *PaymentParserConfig) Validate() error {
	for name, value := range map[string]string{
		"payment ID":   c.PaymentIDColumn,
		"payer name":   c.PayerNameColumn,
		"payment date": c.PaymentDateColumn,
		"currency":     c.CurrencyColumn,
		"amount":       c.AmountColumn,
		"memo":         c.MemoColumn,
		"reference":    c.ReferenceColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s column cannot be empty", name)
		}
	}
	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (c *PaymentParserConfig) GetColumnName(standardName string) string {
	if alias, exists := c.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "payment_id":
		return c.PaymentIDColumn
	case "payer_name":
		return c.PayerNameColumn
	case "payment_date":
		return c.PaymentDateColumn
	case "currency":
		return c.CurrencyColumn
	case "payment_amount":
		return c.AmountColumn
	case "memo":
		return c.MemoColumn
	case "reference_number":
		return c.ReferenceColumn
	default:
		return standardName
	}
}

// RequiredColumns lists the columns that must be present in the header.
func (c *PaymentParserConfig) RequiredColumns() []string {
	return []string{
		c.GetColumnName("payment_id"),
		c.GetColumnName("payer_name"),
		c.GetColumnName("payment_date"),
		c.GetColumnName("currency"),
		c.GetColumnName("payment_amount"),
		c.GetColumnName("memo"),
		c.GetColumnName("reference_number"),
	}
}

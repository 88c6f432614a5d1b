package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"invoice-payment-matcher/pkg/errors"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestInvoiceParserParseFile(t *testing.T) {
	content := `invoice_id,customer_name,invoice_date,due_date,currency,invoice_amount,po_number
INV-1001,Acme Private Limited,2025-08-01,2025-08-31,INR,"1,000.00",PO-9
INV-1002,Globex Ltd.,2025-08-05,2025-09-04,USD,250.50,PO-10
`
	path := writeTempCSV(t, "invoices.csv", content)

	parser, err := NewInvoiceParser(nil)
	if err != nil {
		t.Fatalf("NewInvoiceParser failed: %v", err)
	}

	result, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if len(result.Invoices) != 2 {
		t.Fatalf("Expected 2 invoices, got %d", len(result.Invoices))
	}

	inv := result.Invoices[0]
	if inv.InvoiceID != "INV-1001" {
		t.Errorf("Unexpected invoice ID: %s", inv.InvoiceID)
	}
	if inv.NormalizedName != "acme pvt ltd" {
		t.Errorf("Expected normalized name, got %q", inv.NormalizedName)
	}
	if inv.Amount == nil || inv.Amount.String() != "1000" {
		t.Errorf("Expected amount 1000, got %v", inv.Amount)
	}
	if inv.DueDate == nil || inv.DueDate.Day() != 31 {
		t.Errorf("Expected due date parsed, got %v", inv.DueDate)
	}
	if len(inv.Raw) != 7 || inv.Raw[6] != "PO-9" {
		t.Errorf("Expected passthrough columns preserved in raw row: %v", inv.Raw)
	}
	if len(result.Headers) != 7 || result.Headers[6] != "po_number" {
		t.Errorf("Expected original headers preserved: %v", result.Headers)
	}
	if result.Stats.RecordsParsed != 2 {
		t.Errorf("Unexpected stats: %s", result.Stats)
	}
}

func TestInvoiceParserMissingRequiredColumn(t *testing.T) {
	content := `invoice_id,customer_name,invoice_date,currency,invoice_amount
INV-1001,Acme,2025-08-01,INR,100.00
`
	path := writeTempCSV(t, "invoices.csv", content)

	parser, err := NewInvoiceParser(nil)
	if err != nil {
		t.Fatalf("NewInvoiceParser failed: %v", err)
	}

	_, err = parser.ParseFile(path)
	if err == nil {
		t.Fatal("Expected error for missing due_date column")
	}

	matcherErr, ok := errors.AsMatcherError(err)
	if !ok {
		t.Fatalf("Expected MatcherError, got %T", err)
	}
	if matcherErr.Code != errors.CodeMissingColumn {
		t.Errorf("Expected missing column code, got %s", matcherErr.Code)
	}
}

func TestInvoiceParserUnparsableFieldsKeepRecord(t *testing.T) {
	content := `invoice_id,customer_name,invoice_date,due_date,currency,invoice_amount
INV-1001,Acme Ltd,2025-08-01,not-a-date,INR,garbage
`
	path := writeTempCSV(t, "invoices.csv", content)

	parser, err := NewInvoiceParser(nil)
	if err != nil {
		t.Fatalf("NewInvoiceParser failed: %v", err)
	}

	result, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if len(result.Invoices) != 1 {
		t.Fatalf("Expected the record to be kept, got %d records", len(result.Invoices))
	}
	inv := result.Invoices[0]
	if inv.Amount != nil {
		t.Errorf("Expected nil amount, got %s", inv.Amount)
	}
	if inv.DueDate != nil {
		t.Errorf("Expected nil due date, got %v", inv.DueDate)
	}
	if result.Stats.NullAmounts != 1 || result.Stats.NullDates != 1 {
		t.Errorf("Expected null-field stats, got %s", result.Stats)
	}
}

func TestInvoiceParserFileNotFound(t *testing.T) {
	parser, err := NewInvoiceParser(nil)
	if err != nil {
		t.Fatalf("NewInvoiceParser failed: %v", err)
	}

	_, err = parser.ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	matcherErr, ok := errors.AsMatcherError(err)
	if !ok || matcherErr.Code != errors.CodeFileNotFound {
		t.Errorf("Expected file not found error, got %v", err)
	}
}

func TestInvoiceParserColumnAliases(t *testing.T) {
	content := `id,customer,invoice_date,due_date,currency,invoice_amount
INV-1,Acme Ltd,2025-08-01,2025-08-31,INR,100.00
`
	path := writeTempCSV(t, "invoices.csv", content)

	config := DefaultInvoiceParserConfig()
	config.ColumnAliases["invoice_id"] = "id"
	config.ColumnAliases["customer_name"] = "customer"

	parser, err := NewInvoiceParser(config)
	if err != nil {
		t.Fatalf("NewInvoiceParser failed: %v", err)
	}

	result, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(result.Invoices) != 1 || result.Invoices[0].InvoiceID != "INV-1" {
		t.Errorf("Expected aliased columns to resolve: %+v", result.Invoices)
	}
}

func TestPaymentParserParseFile(t *testing.T) {
	content := `payment_id,payer_name,payment_date,currency,payment_amount,memo,reference_number,bank_txn_id
PAY-1,Acme Pvt. Ltd.,2025-08-30,INR,$100.00,payment for INV-1001,REF-77,TXN-1

PAY-2,Globex Ltd,2025-09-01,USD,250.50,,,TXN-2
`
	path := writeTempCSV(t, "payments.csv", content)

	parser, err := NewPaymentParser(nil)
	if err != nil {
		t.Fatalf("NewPaymentParser failed: %v", err)
	}

	result, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if len(result.Payments) != 2 {
		t.Fatalf("Expected 2 payments (empty row skipped), got %d", len(result.Payments))
	}

	p := result.Payments[0]
	if p.NormalizedName != "acme pvt ltd" {
		t.Errorf("Expected normalized payer name, got %q", p.NormalizedName)
	}
	if p.Amount == nil || p.Amount.String() != "100" {
		t.Errorf("Expected currency symbol stripped, got %v", p.Amount)
	}
	if p.Memo != "payment for INV-1001" || p.Reference != "REF-77" {
		t.Errorf("Unexpected memo/reference: %q / %q", p.Memo, p.Reference)
	}

	// Missing memo and reference become empty strings, never an error.
	if result.Payments[1].Memo != "" || result.Payments[1].Reference != "" {
		t.Errorf("Expected empty memo/reference, got %q / %q",
			result.Payments[1].Memo, result.Payments[1].Reference)
	}
}

func TestPaymentParserMissingRequiredColumn(t *testing.T) {
	content := `payment_id,payer_name,payment_date,currency,payment_amount
PAY-1,Acme,2025-08-30,INR,100.00
`
	path := writeTempCSV(t, "payments.csv", content)

	parser, err := NewPaymentParser(nil)
	if err != nil {
		t.Fatalf("NewPaymentParser failed: %v", err)
	}

	_, err = parser.ParseFile(path)
	if err == nil {
		t.Fatal("Expected error for missing memo and reference columns")
	}
	matcherErr, ok := errors.AsMatcherError(err)
	if !ok || matcherErr.Code != errors.CodeMissingColumn {
		t.Errorf("Expected missing column error, got %v", err)
	}
}

func TestPaymentParserEmptyFile(t *testing.T) {
	path := writeTempCSV(t, "payments.csv", "")

	parser, err := NewPaymentParser(nil)
	if err != nil {
		t.Fatalf("NewPaymentParser failed: %v", err)
	}

	_, err = parser.ParseFile(path)
	if err == nil {
		t.Fatal("Expected error for empty file")
	}
}

func TestParserConfigValidate(t *testing.T) {
	invoiceConfig := DefaultInvoiceParserConfig()
	invoiceConfig.DueDateColumn = ""
	if err := invoiceConfig.Validate(); err == nil {
		t.Error("Expected invoice config validation failure")
	}

	paymentConfig := DefaultPaymentParserConfig()
	paymentConfig.MemoColumn = "  "
	if err := paymentConfig.Validate(); err == nil {
		t.Error("Expected payment config validation failure")
	}
}

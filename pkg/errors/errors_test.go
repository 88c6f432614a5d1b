package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "test file not found")

	if err.Category != CategoryFile {
		t.Errorf("Expected category %s, got %s", CategoryFile, err.Category)
	}

	if err.Code != CodeFileNotFound {
		t.Errorf("Expected code %s, got %s", CodeFileNotFound, err.Code)
	}

	if err.Message != "test file not found" {
		t.Errorf("Expected message 'test file not found', got '%s'", err.Message)
	}

	if err.StackTrace == nil {
		t.Error("Expected stack trace to be captured")
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(cause, CategoryParse, CodeInvalidFormat, "wrapped error")

	if err.Cause != cause {
		t.Error("Expected cause to be preserved")
	}

	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return the cause")
	}

	if Wrap(nil, CategoryParse, CodeInvalidFormat, "nil") != nil {
		t.Error("Expected wrapping nil to return nil")
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(CategoryValidation, CodeInvalidAmount, "bad amount")
	if err.Error() != "bad amount" {
		t.Errorf("Unexpected error message: %s", err.Error())
	}

	err.WithSuggestion("use decimal numbers")
	if !strings.Contains(err.Error(), "suggestion: use decimal numbers") {
		t.Errorf("Expected suggestion in message, got: %s", err.Error())
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "missing").
		WithContext("file_path", "/tmp/invoices.csv").
		WithContext("attempt", 1)

	if err.Context["file_path"] != "/tmp/invoices.csv" {
		t.Error("Expected file_path context to be set")
	}

	if err.Context["attempt"] != 1 {
		t.Error("Expected attempt context to be set")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryMatching, 5},
		{CategoryInternal, 5},
	}

	for _, tt := range tests {
		err := New(tt.category, CodeUnexpectedError, "test")
		if code := err.GetExitCode(); code != tt.expected {
			t.Errorf("Category %s: expected exit code %d, got %d", tt.category, tt.expected, code)
		}
	}
}

func TestFileError(t *testing.T) {
	err := FileError(CodeFileNotFound, "/data/payments.csv", nil)

	if err.Category != CategoryFile {
		t.Errorf("Expected file category, got %s", err.Category)
	}

	if !strings.Contains(err.Message, "/data/payments.csv") {
		t.Errorf("Expected path in message, got: %s", err.Message)
	}

	if err.Context["file_path"] != "/data/payments.csv" {
		t.Error("Expected file_path in context")
	}

	if err.Suggestion == "" {
		t.Error("Expected a suggestion to be set")
	}
}

func TestParseError(t *testing.T) {
	err := ParseError(CodeMissingColumn, "invoices.csv", 1, "invoice_id", "", nil)

	if err.Category != CategoryParse {
		t.Errorf("Expected parse category, got %s", err.Category)
	}

	if !strings.Contains(err.Message, "invoice_id") {
		t.Errorf("Expected column name in message, got: %s", err.Message)
	}

	if err.Context["line"] != 1 {
		t.Error("Expected line number in context")
	}
}

func TestAsMatcherError(t *testing.T) {
	inner := ValidationError(CodeInvalidDate, "due_date", "not-a-date", nil)
	wrapped := fmt.Errorf("outer: %w", inner)

	extracted, ok := AsMatcherError(wrapped)
	if !ok {
		t.Fatal("Expected to extract MatcherError from chain")
	}

	if extracted.Code != CodeInvalidDate {
		t.Errorf("Expected code %s, got %s", CodeInvalidDate, extracted.Code)
	}

	if _, ok := AsMatcherError(fmt.Errorf("plain")); ok {
		t.Error("Expected plain error to not be a MatcherError")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	original := MatchingError(CodeMatchingFailed, "cascade", nil)
	rewrapped := WrapIfNeeded(original, CategoryInternal, CodeUnexpectedError, "should not replace")

	if rewrapped != original {
		t.Error("Expected existing MatcherError to pass through unchanged")
	}

	plain := fmt.Errorf("plain error")
	wrapped := WrapIfNeeded(plain, CategoryInternal, CodeUnexpectedError, "wrapped")
	if wrapped.Category != CategoryInternal {
		t.Errorf("Expected internal category, got %s", wrapped.Category)
	}
}

func TestErrorSummary(t *testing.T) {
	errs := []*MatcherError{
		FileError(CodeFileNotFound, "a.csv", nil),
		ParseError(CodeMissingColumn, "b.csv", 1, "memo", "", nil),
		ParseError(CodeInvalidData, "b.csv", 3, "amount", "abc", nil),
	}

	summary := NewErrorSummary(errs)

	if summary.Total != 3 {
		t.Errorf("Expected 3 errors, got %d", summary.Total)
	}

	if summary.ByCategory[CategoryParse] != 2 {
		t.Errorf("Expected 2 parse errors, got %d", summary.ByCategory[CategoryParse])
	}

	if !strings.Contains(summary.Error(), "3 errors occurred") {
		t.Errorf("Unexpected summary message: %s", summary.Error())
	}

	empty := NewErrorSummary(nil)
	if empty.Error() != "no errors" {
		t.Errorf("Unexpected empty summary message: %s", empty.Error())
	}
}

package config

import (
	"testing"

	"invoice-payment-matcher/internal/similarity"
)

func TestCreateReconcilerConfig(t *testing.T) {
	config, err := CreateReconcilerConfig("exact", 30, 0.05)
	if err != nil {
		t.Fatalf("CreateReconcilerConfig failed: %v", err)
	}

	if config.Matcher.DateWindowDays != 30 {
		t.Errorf("Expected date window override, got %d", config.Matcher.DateWindowDays)
	}
	if config.Matcher.RelativeAmountTolerance != 0.05 {
		t.Errorf("Expected tolerance override, got %f", config.Matcher.RelativeAmountTolerance)
	}
	if config.Scorer != similarity.KindExact {
		t.Errorf("Expected exact scorer, got %s", config.Scorer)
	}
	if config.InvoiceParser == nil || config.PaymentParser == nil {
		t.Error("Expected parser configs to be populated")
	}
}

func TestCreateReconcilerConfigInvalidTolerance(t *testing.T) {
	if _, err := CreateReconcilerConfig("token", 14, 1.5); err == nil {
		t.Error("Expected error for tolerance above 1.0")
	}
	if _, err := CreateReconcilerConfig("token", -1, 0.10); err == nil {
		t.Error("Expected error for negative date window")
	}
}

func TestCreateReportConfig(t *testing.T) {
	config := CreateReportConfig("reports")
	if config.OutputDir != "reports" {
		t.Errorf("Expected output dir override, got %s", config.OutputDir)
	}
	if config.MatchesFile != "matches.csv" {
		t.Errorf("Unexpected matches file name: %s", config.MatchesFile)
	}
}

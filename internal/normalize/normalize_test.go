package normalize

import (
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"private limited", "Acme Private Limited", "acme pvt ltd"},
		{"pvt dot ltd", "Acme Pvt. Ltd", "acme pvt ltd"},
		{"pvt dot ltd dot", "Acme Pvt. Ltd.", "acme pvt ltd"},
		{"bare limited", "Acme Limited", "acme ltd"},
		{"ltd dot", "Acme Ltd.", "acme ltd"},
		{"industries", "Acme Industries", "acme ind"},
		{"co dot", "Acme Co.", "acme co"},
		{"whitespace", "  Acme Pvt Ltd  ", "acme pvt ltd"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
		{"no suffix", "Globex", "globex"},
		{"already canonical", "Acme Pvt Ltd", "acme pvt ltd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.input); got != tt.expected {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNameSuffixOrderSensitivity(t *testing.T) {
	// "Private Limited" must be rewritten as a unit; the bare "Limited"
	// rule must not fire first and leave "Private Ltd" behind.
	if got := Name("Initech Private Limited"); got != "initech pvt ltd" {
		t.Errorf("Expected single substitution, got %q", got)
	}

	// Same variant should converge regardless of trailing dot.
	variants := []string{"Initech Pvt. Ltd", "Initech Pvt. Ltd.", "Initech Pvt Ltd.", "Initech Private Limited"}
	for _, v := range variants {
		if got := Name(v); got != "initech pvt ltd" {
			t.Errorf("Name(%q) = %q, want %q", v, got, "initech pvt ltd")
		}
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantNil  bool
	}{
		{"plain", "100.00", "100", false},
		{"thousands separator", "1,234.56", "1234.56", false},
		{"currency symbol", "$99.95", "99.95", false},
		{"negative", "-10.50", "-10.5", false},
		{"empty", "", "", true},
		{"garbage", "abc", "", true},
		{"partial garbage", "12.3x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amount(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Amount(%q) = %s, want nil", tt.input, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Amount(%q) = nil, want %s", tt.input, tt.expected)
			}
			if got.String() != tt.expected {
				t.Errorf("Amount(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantNil bool
	}{
		{"iso", "2025-08-31", false},
		{"us", "08/30/2025", false},
		{"rfc3339", "2025-08-31T00:00:00Z", false},
		{"empty", "", true},
		{"garbage", "not-a-date", true},
		{"impossible", "2025-13-45", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(tt.input)
			if tt.wantNil && got != nil {
				t.Errorf("Date(%q) = %v, want nil", tt.input, got)
			}
			if !tt.wantNil && got == nil {
				t.Errorf("Date(%q) = nil, want a date", tt.input)
			}
		})
	}

	iso := Date("2025-08-31")
	if iso.Year() != 2025 || int(iso.Month()) != 8 || iso.Day() != 31 {
		t.Errorf("Unexpected parsed date: %v", iso)
	}
}

func TestText(t *testing.T) {
	if Text("  memo text ") != "memo text" {
		t.Error("Expected trimmed text")
	}
	if Text("") != "" {
		t.Error("Expected empty string for missing text")
	}
}

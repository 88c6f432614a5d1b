// Package normalize canonicalizes raw record fields into comparable
// forms: customer and payer names, decimal amounts, and dates.
//
// Parse failures never raise errors here. An unparsable amount or date
// normalizes to nil so downstream rule gates can exclude the record
// from candidacy without losing it from the unmatched output.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// suffixRule rewrites one legal-entity suffix variant to its canonical
// abbreviation.
type suffixRule struct {
	pattern     string
	replacement string
}

// suffixRules is applied in order before lower-casing. Longer and more
// specific patterns come first so a variant is rewritten exactly once:
// "Private Limited" must not first collapse to "Private Ltd" via the
// bare "Limited" rule.
var suffixRules = []suffixRule{
	{"Private Limited", "Pvt Ltd"},
	{"Pvt. Ltd.", "Pvt Ltd"},
	{"Pvt. Ltd", "Pvt Ltd"},
	{"Pvt Ltd.", "Pvt Ltd"},
	{"Limited", "Ltd"},
	{"Ltd.", "Ltd"},
	{"Industries", "Ind"},
	{"Co.", "Co"},
}

// Name canonicalizes a customer or payer name: trims whitespace,
// rewrites known legal-entity suffix variants, and lower-cases. An
// empty or missing name normalizes to the empty string.
func Name(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	for _, rule := range suffixRules {
		name = strings.ReplaceAll(name, rule.pattern, rule.replacement)
	}

	return strings.ToLower(name)
}

// Amount parses a decimal amount string, stripping common currency
// symbols and thousands separators. Returns nil when the value is
// empty or unparsable, never zero.
func Amount(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}

	return &d
}

// dateFormats lists the date layouts accepted in input files, tried in
// order.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// Date parses a date string using the accepted layouts. Returns nil
// when the value is empty or matches no layout.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return &t
		}
	}

	return nil
}

// Text canonicalizes free text such as memo and reference fields: a
// missing value becomes the empty string so substring search always
// operates on a concrete string.
func Text(s string) string {
	return strings.TrimSpace(s)
}

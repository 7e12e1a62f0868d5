// Package core provides the transaction domain: types, validation, value
// parsing and display formatting.
//
// Values are decimal.Decimal throughout so that "0,10" stays exactly 0.10 on
// its way to the API and back.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencyPrefix    = "R$ "
	thousandSeparator = "."
	decimalSeparator  = ","
)

// ParseValue converts user-typed amount text to a decimal.
//
// When the text contains a comma, the comma is the decimal separator and dots
// are thousands separators; otherwise a dot is the decimal separator. An
// optional "R$" prefix is ignored. Empty text is zero. Anything else that is
// not a plain number returns zero and ErrInvalidValue.
//
// Examples:
//
//	ParseValue("1.234,56") -> 1234.56
//	ParseValue("12,5")     -> 12.5
//	ParseValue("12.5")     -> 12.5
//	ParseValue("abc")      -> 0, ErrInvalidValue
func ParseValue(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, decimalSeparator) {
		s = strings.ReplaceAll(s, thousandSeparator, "")
		s = strings.Replace(s, decimalSeparator, ".", 1)
	}
	if !isPlainNumber(s) {
		return decimal.Zero, ErrInvalidValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidValue
	}
	return d, nil
}

// isPlainNumber accepts an optional sign, digits and at most one dot.
// decimal.NewFromString alone would also take exponents.
func isPlainNumber(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// FormatNumber renders v with "." grouping thousands and "," before the
// decimals. The decimal's own digits are kept; nothing is rounded.
func FormatNumber(v decimal.Decimal) string {
	neg := v.IsNegative()
	intPart, fracPart, _ := strings.Cut(v.Abs().String(), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))
	if fracPart != "" {
		b.WriteString(decimalSeparator)
		b.WriteString(fracPart)
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	parts := []string{digits[:head]}
	for i := head; i < len(digits); i += 3 {
		parts = append(parts, digits[i:i+3])
	}
	return strings.Join(parts, thousandSeparator)
}

// FormatAmount renders the number with a "- " marker for outcomes.
func FormatAmount(v decimal.Decimal, t TransactionType) string {
	if t == Outcome {
		return "- " + FormatNumber(v)
	}
	return FormatNumber(v)
}

// FormatCurrency is FormatAmount behind the "R$ " prefix.
func FormatCurrency(v decimal.Decimal, t TransactionType) string {
	return CurrencyPrefix + FormatAmount(v, t)
}

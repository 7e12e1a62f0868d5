package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1.234,56", "1234.56", true},
		{"1234,56", "1234.56", true},
		{"12,5", "12.5", true},
		{"12.5", "12.5", true},
		{"1000", "1000", true},
		{" 2,50 ", "2.5", true},
		{"R$ 10,00", "10", true},
		{"0,01", "0.01", true},
		{"-5", "-5", true},
		{"", "0", true},
		{"0", "0", true},
		{"abc", "0", false},
		{"1e3", "0", false},
		{"1.2.3", "0", false},
		{"1,2,3", "0", false},
		{",", "0", false},
		{"-", "0", false},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%q: expected ErrInvalidValue, got %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Fatalf("%q: expected %s, got %s", tc.in, tc.out, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"12", "12"},
		{"999", "999"},
		{"1000", "1.000"},
		{"1234.56", "1.234,56"},
		{"1234.5", "1.234,5"},
		{"1000000", "1.000.000"},
		{"123456789.01", "123.456.789,01"},
		{"0.1", "0,1"},
		{"-1234.56", "-1.234,56"},
	}
	for _, tc := range cases {
		if got := FormatNumber(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("FormatNumber(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmountAndCurrency(t *testing.T) {
	v := decimal.RequireFromString("1234.56")
	if got := FormatAmount(v, Outcome); got != "- 1.234,56" {
		t.Fatalf("outcome = %q", got)
	}
	if got := FormatAmount(v, Income); got != "1.234,56" {
		t.Fatalf("income = %q", got)
	}
	if got := FormatCurrency(v, Outcome); got != "R$ - 1.234,56" {
		t.Fatalf("currency outcome = %q", got)
	}
	if got := FormatCurrency(decimal.NewFromInt(50), Income); got != "R$ 50" {
		t.Fatalf("currency income = %q", got)
	}
}

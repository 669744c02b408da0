package format

import (
	"strings"
	"testing"
)

func TestCurrency_BelowCompactThreshold(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0 €"},
		{999, "999 €"},
		{-999, "-999 €"},
	}

	for _, tc := range tests {
		if got := Currency(tc.value); got != tc.expected {
			t.Errorf("Currency(%v) = %q, want %q", tc.value, got, tc.expected)
		}
		if got := CurrencyCompact(tc.value); got != Currency(tc.value) {
			t.Errorf("CurrencyCompact(%v) = %q, want full form %q", tc.value, got, Currency(tc.value))
		}
	}
}

func TestCurrency_GermanGrouping(t *testing.T) {
	got := Currency(1250000)
	if !strings.Contains(got, "1.250.000") {
		t.Errorf("Currency(1250000) = %q, want German thousands separators", got)
	}
	if !strings.HasSuffix(got, "€") {
		t.Errorf("Currency(1250000) = %q, want euro suffix", got)
	}
}

func TestCurrencyCompact_AboveThreshold(t *testing.T) {
	full := Currency(1250000)
	compact := CurrencyCompact(1250000)

	if compact == full {
		t.Fatalf("compact form %q should differ from full form", compact)
	}
	if !strings.Contains(compact, "Mio.") {
		t.Errorf("CurrencyCompact(1250000) = %q, want Mio. suffix", compact)
	}
	if !strings.Contains(CurrencyCompact(-3e9), "Mrd.") {
		t.Errorf("CurrencyCompact(-3e9) = %q, want Mrd. suffix", CurrencyCompact(-3e9))
	}
}

func TestCurrencyCompact_EnglishUnits(t *testing.T) {
	f := NewFormatter("en-US", "$")

	if got := f.CurrencyCompact(2500000); got != "2.5 M $" {
		t.Errorf("CurrencyCompact(2500000) = %q, want %q", got, "2.5 M $")
	}
	if got := f.Currency(1234); got != "1,234 $" {
		t.Errorf("Currency(1234) = %q, want %q", got, "1,234 $")
	}
}

func TestNewFormatter_InvalidLocaleFallsBackToGerman(t *testing.T) {
	f := NewFormatter("not a locale!", "€")
	if got := f.CurrencyCompact(2e6); !strings.Contains(got, "Mio.") {
		t.Errorf("CurrencyCompact(2e6) = %q, want German units", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected string
	}{
		{0, "0.0%"},
		{0.125, "12.5%"},
		{0.5, "50.0%"},
		{1, "100.0%"},
	}

	for _, tc := range tests {
		if got := Percent(tc.ratio); got != tc.expected {
			t.Errorf("Percent(%v) = %q, want %q", tc.ratio, got, tc.expected)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		expected string
	}{
		{1234.5, 2, "1,234.50"},
		{1000000, 0, "1,000,000"},
		{12, -1, "12"},
	}

	for _, tc := range tests {
		if got := Number(tc.value, tc.decimals); got != tc.expected {
			t.Errorf("Number(%v, %d) = %q, want %q", tc.value, tc.decimals, got, tc.expected)
		}
	}
}

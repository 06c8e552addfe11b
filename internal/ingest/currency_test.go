package ingest

import "testing"

func TestParseMoney_CurrencyMarkers(t *testing.T) {
	cases := []struct {
		raw      string
		currency string
		home     bool
	}{
		{"$50,000", "CAD", true},
		{"50000", "CAD", true},
		{"CA$ 3,000", "CAD", true},
		{"3,000 CAD", "CAD", true},
		{"USD 1,234.56", "USD", false},
		{"1,234.56 usd", "USD", false},
		{"US$500", "USD", false},
		{"EUR 900", "EUR", false},
		{"€500", "EUR", false},
		// USD marker outranks EUR and CAD when several appear.
		{"USD equivalent of 500 CAD", "USD", false},
	}
	for _, tc := range cases {
		m := ParseMoney(tc.raw)
		if m.Currency != tc.currency {
			t.Fatalf("%q: got currency %s, want %s", tc.raw, m.Currency, tc.currency)
		}
		if m.Home != tc.home {
			t.Fatalf("%q: got home=%v, want %v", tc.raw, m.Home, tc.home)
		}
	}
}

func TestParseMoney_Values(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"$1,234", 1234},
		{"$50,000", 50000},
		{"1,234.56 USD", 1234.56},
		{"1.234,56 EUR", 1234.56},
		{"12.345,67", 12345.67},
		{"1,25", 1.25},
		{"(2,500)", -2500},
		{"($1,000.50)", -1000.5},
		{"", 0},
		{"TBD", 0},
		{"N/A", 0},
	}
	for _, tc := range cases {
		if m := ParseMoney(tc.raw); m.Value != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.raw, m.Value, tc.want)
		}
	}
}

func TestIsDecimalComma(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"1,25", true},
		{"1.234,56", true},
		{"1,234", false},
		{"1,234.56", false},
		{"1,2,3", false},
	}
	for _, tc := range cases {
		if got := isDecimalComma(tc.s); got != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.s, got, tc.want)
		}
	}
}

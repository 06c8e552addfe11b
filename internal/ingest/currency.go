package ingest

import (
	"strconv"
	"strings"
)

// Money is a parsed monetary string: its signed value, the detected
// currency, and whether that currency is the home currency.
type Money struct {
	Value    float64
	Currency string
	Home     bool
}

// ParseMoney parses a raw monetary string. Currency markers are matched
// case-insensitively in priority order (USD beats EUR beats CAD); absence
// of all markers defaults to the home currency. A value wrapped in
// parentheses is negative. Unparseable numerics default to 0.
func ParseMoney(raw string) Money {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	currency := HomeCurrency
	switch {
	case strings.Contains(lower, "usd") || strings.HasPrefix(lower, "us$"):
		currency = "USD"
	case strings.Contains(lower, "eur") || strings.HasPrefix(lower, "€"):
		currency = "EUR"
	case strings.Contains(lower, "cad") || strings.Contains(lower, "ca$") || strings.Contains(lower, "c$"):
		currency = "CAD"
	}

	negative := strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")")

	value := parseNumeric(trimmed)
	if negative {
		value = -value
	}

	return Money{
		Value:    value,
		Currency: currency,
		Home:     currency == HomeCurrency,
	}
}

func parseNumeric(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return 0
	}

	if isDecimalComma(s) {
		// European style: dots are thousand separators, the comma is the
		// decimal point.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// isDecimalComma reports whether the single comma in s acts as a decimal
// separator: at most two digits follow it, and it sits after any dot.
func isDecimalComma(s string) bool {
	if strings.Count(s, ",") != 1 {
		return false
	}
	comma := strings.Index(s, ",")
	if dot := strings.LastIndex(s, "."); dot > comma {
		return false
	}

	digits := 0
	for _, r := range s[comma+1:] {
		if r < '0' || r > '9' {
			break
		}
		digits++
	}
	return digits <= 2
}

package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a bank amount cell like "1 234,56", "R1,234.56" or
// "(123.45)" into a decimal. Parenthesized values are treated as negative,
// which several banks use for reversals.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	// Strip currency symbols and thousands separators, including the
	// non-breaking space some exports use for digit grouping.
	for _, sym := range []string{"R", "£", "$", "€", ",", " ", " "} {
		s = strings.ReplaceAll(s, sym, "")
	}

	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Date layouts tried in priority order. Banks vary the format but each bank
// is stable, so the first layout that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02 Jan 2006",
}

// Last-resort layouts for rows that slipped past format detection.
var fallbackDateLayouts = []string{
	"02-01-2006",
	"2006.01.02",
	"02 Jan 06",
	"Jan 2, 2006",
	time.RFC3339,
}

// ParseDate parses a statement date cell. Month names are matched
// case-insensitively ("15 MAR 2024" and "15 mar 2024 " both parse).
func ParseDate(s string) (time.Time, error) {
	s = normalizeMonthCase(strings.TrimSpace(s))

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// normalizeMonthCase rewrites any 3-letter month token to Go's expected
// title case, since time.Parse is case-sensitive about month names.
func normalizeMonthCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		token := strings.Trim(f, ",.")
		for _, m := range monthNames {
			if strings.EqualFold(token, m) {
				fields[i] = strings.Replace(f, token, m, 1)
				break
			}
		}
	}
	return strings.Join(fields, " ")
}

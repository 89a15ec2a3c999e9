// Package currencyutils parses and formats đồng amounts as they appear in
// spreadsheets and receipts.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = regexp.MustCompile(`(?i)(VNĐ|VND|₫|đ|\s|\x{00a0})`)

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles "1.500.000 ₫", "1,500,000", "500000", "1'234.56" and "1.234,56".
// An empty string is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts separator conventions to the plain form
// decimal.NewFromString accepts.
//
// When both separators appear the last one is the decimal mark. A lone
// separator type is read as grouping when it repeats or when exactly three
// digits follow it, so "1.500" is one thousand five hundred đồng.
func StandardizeAmount(amountStr string) string {
	s := currencyMarks.ReplaceAllString(amountStr, "")
	s = strings.ReplaceAll(s, "'", "")

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasDot:
		if isGrouping(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
	case hasComma:
		if isGrouping(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	return s
}

func isGrouping(s, sep string) bool {
	parts := strings.Split(s, sep)
	if len(parts) > 2 {
		return true
	}
	return len(parts) == 2 && len(parts[1]) == 3
}

// FormatVND formats an amount with dot grouping and the đồng sign, for
// example "1.500.000 ₫". Fractional parts are kept after a comma.
func FormatVND(amount decimal.Decimal) string {
	return Group(amount) + " ₫"
}

// Group formats an amount with dot thousands separators and a comma decimal
// mark, without a currency sign.
func Group(amount decimal.Decimal) string {
	str := amount.String()
	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}

	intPart, frac := str, ""
	if i := strings.IndexByte(str, '.'); i >= 0 {
		intPart, frac = str[:i], str[i+1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

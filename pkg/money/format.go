package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format rounds to two decimals for display
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatGrouped rounds to two decimals and groups thousands with commas
func FormatGrouped(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

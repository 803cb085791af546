package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxWords is the largest value NumberToWords converts
const MaxWords int64 = 999_999_999_999

// ErrOutOfRange is returned for negative values and values above MaxWords
var ErrOutOfRange = errors.New("money: amount outside the range spelled out in words")

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells n in short-scale English, e.g. 1005 is
// "One Thousand Five".
func NumberToWords(n int64) (string, error) {
	if n < 0 || n > MaxWords {
		return "", ErrOutOfRange
	}
	if n == 0 {
		return "Zero", nil
	}
	return strings.Join(words(n), " "), nil
}

func words(n int64) []string {
	if n == 0 {
		return nil
	}
	if n < 20 {
		return []string{ones[n]}
	}
	if n < 100 {
		return append([]string{tens[n/10]}, words(n%10)...)
	}
	for _, s := range scales {
		if n >= s.value {
			head := append(words(n/s.value), s.name)
			return append(head, words(n%s.value)...)
		}
	}
	return nil
}

// AmountInWords spells the whole part of amount. Fractions are dropped.
func AmountInWords(amount decimal.Decimal) (string, error) {
	whole := amount.Floor()
	if whole.IsNegative() || whole.GreaterThan(decimal.NewFromInt(MaxWords)) {
		return "", ErrOutOfRange
	}
	return NumberToWords(whole.IntPart())
}

// Package numfmt renders amounts and scores the way the federation tools
// expect them: fixed decimals, half away from zero, comma separator.
package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fixed formats v with exactly places decimals and a comma separator.
func Fixed(v float64, places int32) string {
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(places), ".", ",", 1)
}

// Dot formats v with exactly places decimals and a dot separator.
func Dot(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Sum adds values without binary float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Float64()
	return f
}

// Grouped formats v with two decimals, a comma separator and spaces between
// thousands: 1234.5 becomes "1 234,50".
func Grouped(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

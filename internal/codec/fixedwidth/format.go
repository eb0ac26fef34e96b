package fixedwidth

import (
	"strconv"
	"strings"

	"github.com/okian/ffebridge/internal/codec/numfmt"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/domain/normalize"
)

// padLeft left pads s with c up to width. Longer values keep their last
// width bytes so the columns that follow stay in place.
func padLeft(s string, width int, c byte) string {
	if n := len(s); n < width {
		return strings.Repeat(string(c), width-n) + s
	} else if n > width {
		return s[n-width:]
	}
	return s
}

// fit right pads s with spaces and cuts it to exactly width bytes.
func fit(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// zero renders a count on width digits. Counts too large for the column
// render as all nines.
func zero(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) > width {
		return strings.Repeat("9", width)
	}
	return padLeft(s, width, '0')
}

// num renders a score left padded with spaces. An unset value renders as 0.
func num(n model.Number, places int32, width int) string {
	return amount(n.Value, places, width)
}

// amount renders v with places decimals on width columns. Values that do not
// fit are clamped to the largest magnitude the column can hold, keeping the
// sign.
func amount(v float64, places int32, width int) string {
	if s := numfmt.Fixed(v, places); len(s) <= width {
		return padLeft(s, width, ' ')
	}
	return saturated(v < 0, places, width)
}

// saturated is the widest value of a column: "99999,99" on 8 columns with
// 2 decimals, "-9999,99" when negative.
func saturated(negative bool, places int32, width int) string {
	digits := width
	if places > 0 {
		digits -= int(places) + 1
	}
	sign := ""
	if negative {
		sign = "-"
		digits--
	}
	if digits < 1 {
		return strings.Repeat("9", width)
	}
	s := sign + strings.Repeat("9", digits)
	if places > 0 {
		s += "," + strings.Repeat("9", int(places))
	}
	return s
}

// identifier reduces a license or SIRE to its digits without the check
// letter, drops surplus leading zeros and left pads with zeros to width.
func identifier(s string, width int) string {
	d := normalize.DigitsOnly(normalize.StripCheckLetter(s))
	for len(d) > width && d[0] == '0' {
		d = d[1:]
	}
	if len(d) > width {
		d = d[:width]
	}
	return padLeft(d, width, '0')
}

// optionalIdentifier is identifier, or blanks when s carries no digits.
func optionalIdentifier(s string, width int) string {
	if normalize.DigitsOnly(s) == "" {
		return strings.Repeat(" ", width)
	}
	return identifier(s, width)
}

// char is the first byte of s, or a space.
func char(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return " "
	}
	return s[:1]
}

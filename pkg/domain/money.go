package domain

import "github.com/dustin/go-humanize"

// FormatPrice renders a price in cents as whole dollars with thousands separators,
// e.g. 2799500 -> "$27,995". Fractions of a dollar are rounded half up.
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	dollars := (cents + 50) / 100
	return sign + "$" + humanize.Comma(dollars)
}

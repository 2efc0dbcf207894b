// Package money handles amounts expressed in minor currency units.
//
// Starling reports every amount as an integer number of minor units
// (pence, cents) together with a currency code. Rendering assumes a
// single-currency account and never prints a symbol or separator.
package money

import "fmt"

// Minor is an amount in minor currency units.
type Minor int64

// Format renders minor units as a decimal string with exactly two
// fractional digits. Negative amounts keep their sign: -50 -> "-0.50".
func Format(units int64) string {
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/100, units%100)
}

// FormatSigned renders an amount with an explicit IN/OUT direction the
// way the feed reports it: outgoing amounts get a leading minus.
func FormatSigned(units int64, direction string) string {
	if direction == "OUT" && units > 0 {
		return Format(-units)
	}
	return Format(units)
}

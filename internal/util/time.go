package util

import "time"

// WholeMonthsBetween counts the complete calendar months from one date to
// another. A partial month at the tail does not count: Jan 15 to Mar 14 is
// one whole month, Jan 15 to Mar 15 is two. The result is negative when `to`
// precedes `from`.
func WholeMonthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}

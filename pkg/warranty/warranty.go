// Package warranty computes the derived warranty end date of an inventory item.
package warranty

import (
	"strings"
	"time"
	"unicode"

	"github.com/roomstock/inventory/pkg/constants"
)

// ComputeEnd returns the warranty end date for a start date and a duration in
// months. A non-blank existing end date always wins and is returned as is.
//
// The result is "" when start is blank or not a valid YYYY-MM-DD date, or when
// months does not begin with a positive integer. Month addition rolls over
// like calendar arithmetic does: 2024-01-31 plus one month is 2024-03-02.
func ComputeEnd(start, months, existing string) string {
	if strings.TrimSpace(existing) != "" {
		return existing
	}
	if strings.TrimSpace(start) == "" {
		return ""
	}
	n, ok := ParseMonths(months)
	if !ok || n <= 0 {
		return ""
	}
	t, ok := ParseDate(start)
	if !ok {
		return ""
	}
	return t.AddDate(0, n, 0).Format(constants.DateLayout)
}

// ParseMonths reads the leading integer of s. Surrounding whitespace and
// trailing garbage are ignored ("12mo" is 12, "1.5" is 1); ok is false when
// no digits are found.
func ParseMonths(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		// Anything past a hundred years is nonsense; stop before overflow.
		if n < 1_000_000 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC. Surrounding whitespace is
// tolerated; dates such as 2024-02-30 are rejected.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

package listing

import (
	"cmp"
	"strings"

	"github.com/shopspring/decimal"
)

// Ordered compares plain ordered values.
func Ordered[V cmp.Ordered](a, b V) int { return cmp.Compare(a, b) }

// Bool orders false before true.
func Bool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Text compares normalized strings. Empty strings are treated as null and sort last.
func Text(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	switch {
	case na == "" && nb == "":
		return 0
	case na == "":
		return 1
	case nb == "":
		return -1
	}
	return strings.Compare(na, nb)
}

// Decimal compares decimals.
func Decimal(a, b decimal.Decimal) int { return a.Cmp(b) }

// NullableDecimal compares optional decimals with nil last.
func NullableDecimal(a, b *decimal.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Cmp(*b)
}

package rowsort

import (
	"cmp"
	"slices"

	"qcreg/internal/sortheader"
)

// Sort orders rows in place. With sortheader.None rows go back to their
// insertion order as given by seq; otherwise rows are ordered by key with
// empty values last and ties kept in insertion order.
func Sort[R any](c *Comparator, rows []R, order sortheader.Order, key func(R) Value, seq func(R) int64) {
	if order == sortheader.None || key == nil {
		Restore(rows, seq)
		return
	}
	slices.SortStableFunc(rows, func(a, b R) int {
		ka, kb := key(a), key(b)
		switch {
		case c.Less(ka, kb, order):
			return -1
		case c.Less(kb, ka, order):
			return 1
		}
		return cmp.Compare(seq(a), seq(b))
	})
}

// Restore puts rows back into insertion order.
func Restore[R any](rows []R, seq func(R) int64) {
	slices.SortStableFunc(rows, func(a, b R) int {
		return cmp.Compare(seq(a), seq(b))
	})
}

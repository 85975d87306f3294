package sortheader

import (
	"fmt"
	"strings"
)

// Order is the tri-state sort order of a header column.
type Order int

const (
	// None keeps rows in their original insertion order.
	None Order = iota
	Ascending
	Descending
)

// Next returns the order that follows o in the None -> Ascending -> Descending cycle.
func Next(o Order) Order {
	switch o {
	case None:
		return Ascending
	case Ascending:
		return Descending
	default:
		return None
	}
}

func (o Order) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// Arrow returns the sort indicator glyph. None has no indicator.
func (o Order) Arrow() string {
	switch o {
	case Ascending:
		return "↑"
	case Descending:
		return "↓"
	default:
		return ""
	}
}

// ParseOrder parses the String form of an order. The empty string is None.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return None, fmt.Errorf("unknown sort order %q", s)
	}
}

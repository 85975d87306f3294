package rowsort

import (
	"cmp"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"qcreg/internal/sortheader"
)

// Comparator orders cell values. Text is compared with the collation rules
// of a locale rather than byte by byte.
//
// A Comparator is not safe for concurrent use.
type Comparator struct {
	collator *collate.Collator
	tag      language.Tag
}

// NewComparator returns a comparator for a BCP 47 locale such as "en" or
// "zh-Hans". Unknown or empty locales fall back to the root collation.
func NewComparator(locale string) *Comparator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Comparator{
		collator: collate.New(tag, collate.Numeric),
		tag:      tag,
	}
}

// Locale returns the language tag the comparator collates with.
func (c *Comparator) Locale() language.Tag {
	return c.tag
}

// Compare orders two non-empty values. Numbers compare by value and rank
// before non-numeric text; text compares by collation, falling back to a
// byte comparison when the collation considers two strings equal.
// Empty values compare equal to each other and greater than anything else.
func (c *Comparator) Compare(a, b Value) int {
	switch {
	case a.Empty() && b.Empty():
		return 0
	case a.Empty():
		return 1
	case b.Empty():
		return -1
	}

	an, bn := a.IsNumber(), b.IsNumber()
	switch {
	case an && bn:
		return cmp.Compare(a.num, b.num)
	case an:
		return -1
	case bn:
		return 1
	}

	if r := c.collator.CompareString(a.text, b.text); r != 0 {
		return r
	}
	return cmp.Compare(a.text, b.text)
}

// Less reports whether a is placed before b when sorting in order. Empty
// values are placed after every non-empty value in both directions.
func (c *Comparator) Less(a, b Value, order sortheader.Order) bool {
	switch {
	case a.Empty():
		return false
	case b.Empty():
		return true
	}
	r := c.Compare(a, b)
	if order == sortheader.Descending {
		return r > 0
	}
	return r < 0
}

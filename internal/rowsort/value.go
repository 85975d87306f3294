// Package rowsort orders table rows for a tri-state sort header.
package rowsort

import (
	"math"
	"strconv"
	"strings"
)

// Kind describes how a Value was extracted from its cell.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindIcon
	KindSeq
)

// Value is the comparison value of one cell.
type Value struct {
	kind   Kind
	text   string
	num    float64
	isNum  bool
	absent bool
}

// Text is a displayed string. Blank text is empty and sorts last. Text that
// parses as a number compares numerically against other numbers.
func Text(s string) Value {
	s = strings.TrimSpace(s)
	v := Value{kind: KindText, text: s, absent: s == ""}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		v.num = f
		v.isNum = true
	}
	return v
}

// Number is a numeric cell value.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{kind: KindNumber, num: f, isNum: true}
}

// Missing is a numeric cell without a value. It sorts last.
func Missing() Value {
	return Value{kind: KindNumber, absent: true}
}

// Icon is a marker cell such as a selection tick. It sorts by presence and
// is never empty: rows without the marker come first in ascending order.
func Icon(present bool) Value {
	v := Value{kind: KindIcon, isNum: true}
	if present {
		v.num = 1
	}
	return v
}

// Seq is an insertion sequence key, used by columns whose displayed text is
// a row number rather than data.
func Seq(n int64) Value {
	return Value{kind: KindSeq, num: float64(n), isNum: true}
}

// Kind returns how the value was built.
func (v Value) Kind() Kind {
	return v.kind
}

// Empty reports whether the value is blank or missing.
func (v Value) Empty() bool {
	return v.absent
}

// IsNumber reports whether the value compares numerically.
func (v Value) IsNumber() bool {
	return v.isNum && !v.absent
}

func (v Value) String() string {
	if v.absent {
		return ""
	}
	if v.kind == KindText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

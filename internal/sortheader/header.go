// Package sortheader implements a column header whose clicks cycle a column
// through unsorted, ascending and descending order.
package sortheader

// Change is emitted after a click advances the sort state.
type Change struct {
	Column int
	Order  Order
}

// Header turns header clicks into a tri-state sort order. A click is a press
// and a release on the same section; drags and resize-handle grabs are not
// clicks. Clicking the same column again advances the order, clicking a
// different column starts it at Ascending.
type Header struct {
	layout     *Layout
	unsortable map[int]bool
	observers  []func(Change)

	pressLogical    int // logical column under the last press
	pressVisual     int // its visual position at press time
	previousLogical int // column of the last accepted click
	order           Order
}

// NewHeader creates a header over layout with no sort applied.
func NewHeader(layout *Layout) *Header {
	return &Header{
		layout:          layout,
		unsortable:      make(map[int]bool),
		pressLogical:    -1,
		pressVisual:     -1,
		previousLogical: -1,
	}
}

// Layout returns the layout the header hit-tests against.
func (h *Header) Layout() *Layout {
	return h.layout
}

// OnChange registers fn to be called on every emitted change.
func (h *Header) OnChange(fn func(Change)) {
	h.observers = append(h.observers, fn)
}

// SetUnsortable replaces the set of columns that ignore clicks.
func (h *Header) SetUnsortable(columns ...int) {
	h.unsortable = make(map[int]bool, len(columns))
	for _, c := range columns {
		h.unsortable[c] = true
	}
}

// AppendUnsortable adds a column to the unsortable set.
func (h *Header) AppendUnsortable(column int) {
	h.unsortable[column] = true
}

// Unsortable returns the unsortable columns in ascending order.
func (h *Header) Unsortable() []int {
	var out []int
	for c := 0; c < h.layout.Count(); c++ {
		if h.unsortable[c] {
			out = append(out, c)
		}
	}
	return out
}

// IsSortable reports whether clicks on column can change the sort.
func (h *Header) IsSortable(column int) bool {
	return column >= 0 && column < h.layout.Count() && !h.unsortable[column]
}

// Press records the section under a mouse press.
func (h *Header) Press(hit Hit) {
	h.pressLogical = -1
	h.pressVisual = -1
	if !hit.Valid() || hit.OnHandle || !h.IsSortable(hit.Logical) {
		return
	}
	h.pressLogical = hit.Logical
	h.pressVisual = hit.Visual
}

// Release completes a click when it lands on the pressed section.
// The press is kept afterwards so a double click still resolves.
func (h *Header) Release(hit Hit) {
	if h.pressLogical < 0 || !hit.Valid() {
		return
	}
	if hit.Logical != h.pressLogical || hit.Visual != h.pressVisual {
		return
	}

	if h.pressLogical == h.previousLogical {
		h.order = Next(h.order)
	} else {
		h.order = Next(None)
	}
	h.previousLogical = h.pressLogical

	change := Change{Column: h.pressLogical, Order: h.order}
	for _, fn := range h.observers {
		fn(change)
	}
}

// PressAt hit-tests x and records the press.
func (h *Header) PressAt(x int) {
	h.Press(h.layout.HitTest(x))
}

// ReleaseAt hit-tests x and completes a click if it matches the press.
func (h *Header) ReleaseAt(x int) {
	h.Release(h.layout.HitTest(x))
}

// Click presses and releases on a column's current visual position.
func (h *Header) Click(column int) {
	hit := Hit{Logical: column, Visual: h.layout.Visual(column)}
	if hit.Visual < 0 || h.layout.Hidden(column) {
		return
	}
	h.Press(hit)
	h.Release(hit)
}

// Reset drops all click bookkeeping and returns to None without emitting.
func (h *Header) Reset() {
	h.pressLogical = -1
	h.pressVisual = -1
	h.previousLogical = -1
	h.order = None
}

// Sync adopts a sort indicator set outside the header, such as one restored
// from saved preferences, so the next click continues the cycle from it.
func (h *Header) Sync(column int, order Order) {
	if order == None || column < 0 || column >= h.layout.Count() {
		h.previousLogical = -1
		h.order = None
		return
	}
	h.previousLogical = column
	h.order = order
}

// Order returns the current sort order.
func (h *Header) Order() Order {
	return h.order
}

// Column returns the sorted column, or -1 when the order is None.
func (h *Header) Column() int {
	if h.order == None {
		return -1
	}
	return h.previousLogical
}

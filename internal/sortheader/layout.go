package sortheader

// MinSectionWidth is the narrowest a section can be resized to.
const MinSectionWidth = 3

// SeparatorWidth is the width of the cell between two visible sections.
// Pressing on it grabs the resize handle of the section to its left.
const SeparatorWidth = 1

// Hit is the result of resolving a header position.
// Logical and Visual are -1 when the position is outside every section.
type Hit struct {
	Logical  int
	Visual   int
	OnHandle bool
}

// Miss is a hit outside every section.
var Miss = Hit{Logical: -1, Visual: -1}

// Valid reports whether the hit landed on a section cell or its handle.
func (h Hit) Valid() bool {
	return h.Logical >= 0 && h.Visual >= 0
}

type section struct {
	width  int
	hidden bool
}

// Layout maps logical columns to visual positions. Logical indexes are the
// column identities of the data model; visual positions are the on-screen
// order, which the user may change by dragging sections around.
type Layout struct {
	sections []section
	visual   []int // visual position -> logical index
}

// NewLayout creates a layout with one section per width, in logical order.
func NewLayout(widths ...int) *Layout {
	l := &Layout{
		sections: make([]section, len(widths)),
		visual:   make([]int, len(widths)),
	}
	for i, w := range widths {
		l.sections[i] = section{width: max(w, MinSectionWidth)}
		l.visual[i] = i
	}
	return l
}

// Count returns the number of sections, hidden ones included.
func (l *Layout) Count() int {
	return len(l.sections)
}

// Visual returns the visual position of a logical column, or -1.
func (l *Layout) Visual(logical int) int {
	for v, lg := range l.visual {
		if lg == logical {
			return v
		}
	}
	return -1
}

// Logical returns the logical column shown at a visual position, or -1.
func (l *Layout) Logical(visual int) int {
	if visual < 0 || visual >= len(l.visual) {
		return -1
	}
	return l.visual[visual]
}

// VisibleLogicals returns the logical indexes of visible sections in visual order.
func (l *Layout) VisibleLogicals() []int {
	out := make([]int, 0, len(l.visual))
	for _, lg := range l.visual {
		if !l.sections[lg].hidden {
			out = append(out, lg)
		}
	}
	return out
}

// Width returns the width of a logical column.
func (l *Layout) Width(logical int) int {
	if !l.valid(logical) {
		return 0
	}
	return l.sections[logical].width
}

// Resize sets the width of a logical column, clamped to MinSectionWidth.
func (l *Layout) Resize(logical, width int) bool {
	if !l.valid(logical) {
		return false
	}
	l.sections[logical].width = max(width, MinSectionWidth)
	return true
}

// Hidden reports whether a logical column is hidden.
func (l *Layout) Hidden(logical int) bool {
	if !l.valid(logical) {
		return false
	}
	return l.sections[logical].hidden
}

// SetHidden hides or shows a logical column.
func (l *Layout) SetHidden(logical int, hidden bool) {
	if l.valid(logical) {
		l.sections[logical].hidden = hidden
	}
}

// Start returns the X offset of a visible logical column, or -1.
func (l *Layout) Start(logical int) int {
	x := 0
	for _, lg := range l.VisibleLogicals() {
		if lg == logical {
			return x
		}
		x += l.sections[lg].width + SeparatorWidth
	}
	return -1
}

// TotalWidth returns the rendered width of all visible sections and separators.
func (l *Layout) TotalWidth() int {
	total := 0
	visible := l.VisibleLogicals()
	for _, lg := range visible {
		total += l.sections[lg].width
	}
	if len(visible) > 1 {
		total += (len(visible) - 1) * SeparatorWidth
	}
	return total
}

// HitTest resolves an X offset relative to the start of the header.
func (l *Layout) HitTest(x int) Hit {
	if x < 0 {
		return Miss
	}
	start := 0
	visible := l.VisibleLogicals()
	for i, lg := range visible {
		end := start + l.sections[lg].width
		if x < end {
			return Hit{Logical: lg, Visual: l.Visual(lg)}
		}
		if i < len(visible)-1 && x < end+SeparatorWidth {
			return Hit{Logical: lg, Visual: l.Visual(lg), OnHandle: true}
		}
		start = end + SeparatorWidth
	}
	return Miss
}

// Move moves the section at visual position from to visual position to,
// shifting the sections in between. Logical identities do not change.
func (l *Layout) Move(from, to int) bool {
	n := len(l.visual)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	lg := l.visual[from]
	if from < to {
		copy(l.visual[from:to], l.visual[from+1:to+1])
	} else {
		copy(l.visual[to+1:from+1], l.visual[to:from])
	}
	l.visual[to] = lg
	return true
}

// Order returns a copy of the visual order as logical indexes.
func (l *Layout) Order() []int {
	return append([]int(nil), l.visual...)
}

// SetOrder restores a visual order. It is ignored unless it is a
// permutation of the logical indexes.
func (l *Layout) SetOrder(order []int) bool {
	if len(order) != len(l.visual) {
		return false
	}
	seen := make([]bool, len(order))
	for _, lg := range order {
		if !l.valid(lg) || seen[lg] {
			return false
		}
		seen[lg] = true
	}
	copy(l.visual, order)
	return true
}

func (l *Layout) valid(logical int) bool {
	return logical >= 0 && logical < len(l.sections)
}

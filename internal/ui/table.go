package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"qcreg/internal/rowsort"
	"qcreg/internal/sortheader"
)

// Column describes one column of a Table. A nil Value means the column has
// no sort role and its header ignores clicks.
type Column[R any] struct {
	Key    string
	Label  string
	Width  int
	Hidden bool
	Cell   func(R) string
	Value  func(R) rowsort.Value
}

// tableHeaderRows is the number of lines above the first data row: the
// header and the divider under it.
const tableHeaderRows = 2

type headerDrag struct {
	hit sortheader.Hit
	x   int
}

// Table is a sortable, filterable list of rows with a tri-state sort header.
type Table[R any] struct {
	name    string
	noun    string
	empty   string
	columns []Column[R]
	seq     func(R) int64
	cmp     *rowsort.Comparator
	layout  *sortheader.Layout
	header  *sortheader.Header
	logger  *zap.Logger

	allRows []R
	rows    []R
	cursor  int
	offset  int

	viewportHeight int

	activeColumn int
	filterKey    string
	filterValue  string
	drag         *headerDrag
}

// NewTable creates a table over columns. seq returns the insertion sequence
// of a row, used to restore the original order when sorting is cleared.
func NewTable[R any](name, noun string, columns []Column[R], seq func(R) int64, cmp *rowsort.Comparator, logger *zap.Logger) *Table[R] {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = c.Width
	}
	layout := sortheader.NewLayout(widths...)
	t := &Table[R]{
		name:    name,
		noun:    noun,
		empty:   fmt.Sprintf("No %s yet.", noun),
		columns: columns,
		seq:     seq,
		cmp:     cmp,
		layout:  layout,
		header:  sortheader.NewHeader(layout),
		logger:  logger.With(zap.String("table", name)),
	}
	for i, c := range columns {
		layout.SetHidden(i, c.Hidden)
		if c.Value == nil {
			t.header.AppendUnsortable(i)
		}
	}
	t.header.OnChange(t.onSortChanged)
	t.ensureVisibleActiveColumn()
	return t
}

// SetEmptyMessage sets the text shown when the table has no rows.
func (t *Table[R]) SetEmptyMessage(msg string) {
	t.empty = msg
}

// SetUnsortableKeys marks additional columns as unsortable by key.
func (t *Table[R]) SetUnsortableKeys(keys []string) {
	for _, k := range keys {
		if i := t.columnIndex(k); i >= 0 {
			t.header.AppendUnsortable(i)
		}
	}
}

// Header exposes the sort header for owners that reapply or persist sort state.
func (t *Table[R]) Header() *sortheader.Header {
	return t.header
}

// SetRows replaces the table data. The current sort is reapplied.
func (t *Table[R]) SetRows(rows []R) {
	t.allRows = append([]R(nil), rows...)
	t.rebuild()
}

// Rows returns the rows as currently displayed.
func (t *Table[R]) Rows() []R {
	return t.rows
}

// Selected returns the row under the cursor.
func (t *Table[R]) Selected() (R, bool) {
	var zero R
	if len(t.rows) == 0 || t.cursor < 0 || t.cursor >= len(t.rows) {
		return zero, false
	}
	return t.rows[t.cursor], true
}

func (t *Table[R]) onSortChanged(c sortheader.Change) {
	if c.Column < 0 || c.Column >= len(t.columns) {
		return
	}
	t.logger.Debug("sort order changed",
		zap.String("column", t.columns[c.Column].Key),
		zap.Stringer("order", c.Order))
	t.rebuild()
}

func (t *Table[R]) rebuild() {
	rows := append([]R(nil), t.allRows...)

	if t.filterKey != "" && t.filterValue != "" {
		if idx := t.columnIndex(t.filterKey); idx >= 0 {
			filtered := make([]R, 0, len(rows))
			target := strings.TrimSpace(t.filterValue)
			for _, r := range rows {
				if strings.EqualFold(strings.TrimSpace(t.columns[idx].Cell(r)), target) {
					filtered = append(filtered, r)
				}
			}
			rows = filtered
		}
	}

	col := t.header.Column()
	if col >= 0 && col < len(t.columns) && t.columns[col].Value != nil {
		rowsort.Sort(t.cmp, rows, t.header.Order(), t.columns[col].Value, t.seq)
	} else {
		rowsort.Restore(rows, t.seq)
	}

	t.rows = rows
	t.clampCursor()
}

func (t *Table[R]) clampCursor() {
	if len(t.rows) == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
}

func (t *Table[R]) columnIndex(key string) int {
	for i, c := range t.columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func (t *Table[R]) ensureVisibleActiveColumn() {
	if !t.layout.Hidden(t.activeColumn) {
		return
	}
	if visible := t.layout.VisibleLogicals(); len(visible) > 0 {
		t.activeColumn = visible[0]
		return
	}
	t.layout.SetHidden(0, false)
	t.activeColumn = 0
}

func (t *Table[R]) activeVisibleIndex(visible []int) int {
	for i, lg := range visible {
		if lg == t.activeColumn {
			return i
		}
	}
	return 0
}

// NextColumn makes the next visible column active.
func (t *Table[R]) NextColumn() {
	visible := t.layout.VisibleLogicals()
	if len(visible) == 0 {
		return
	}
	i := t.activeVisibleIndex(visible)
	t.activeColumn = visible[(i+1)%len(visible)]
}

// PrevColumn makes the previous visible column active.
func (t *Table[R]) PrevColumn() {
	visible := t.layout.VisibleLogicals()
	if len(visible) == 0 {
		return
	}
	i := t.activeVisibleIndex(visible) - 1
	if i < 0 {
		i = len(visible) - 1
	}
	t.activeColumn = visible[i]
}

// JumpToColumn makes the n-th visible column (1-based) active.
func (t *Table[R]) JumpToColumn(number int) bool {
	visible := t.layout.VisibleLogicals()
	if number < 1 || number > len(visible) {
		return false
	}
	t.activeColumn = visible[number-1]
	return true
}

// MoveActiveColumn swaps the active column with its visible neighbour.
// Logical identity and sort state are unaffected.
func (t *Table[R]) MoveActiveColumn(delta int) bool {
	visible := t.layout.VisibleLogicals()
	i := t.activeVisibleIndex(visible)
	j := i + delta
	if j < 0 || j >= len(visible) {
		return false
	}
	return t.layout.Move(t.layout.Visual(visible[i]), t.layout.Visual(visible[j]))
}

// CycleSortActiveColumn clicks the header of the active column.
func (t *Table[R]) CycleSortActiveColumn() string {
	label := strings.ToUpper(t.columns[t.activeColumn].Label)
	if !t.header.IsSortable(t.activeColumn) {
		return fmt.Sprintf("Column %s is not sortable", label)
	}
	t.header.Click(t.activeColumn)
	return t.sortMessage()
}

func (t *Table[R]) sortMessage() string {
	col := t.header.Column()
	if col < 0 {
		return "Sorting cleared"
	}
	label := strings.ToUpper(t.columns[col].Label)
	if t.header.Order() == sortheader.Descending {
		return fmt.Sprintf("Sorted %s descending", label)
	}
	return fmt.Sprintf("Sorted %s ascending", label)
}

// ResetSort clears the sort indicator and restores insertion order.
func (t *Table[R]) ResetSort() {
	t.header.Reset()
	t.rebuild()
}

// HideActiveColumn hides the active column unless it is the last visible one.
func (t *Table[R]) HideActiveColumn() bool {
	if len(t.layout.VisibleLogicals()) <= 1 {
		return false
	}
	t.layout.SetHidden(t.activeColumn, true)
	t.ensureVisibleActiveColumn()
	return true
}

// ShowAllColumns unhides every column.
func (t *Table[R]) ShowAllColumns() {
	for i := range t.columns {
		t.layout.SetHidden(i, false)
	}
}

// FilterBySelectedValue keeps only rows whose active cell equals the
// selected row's.
func (t *Table[R]) FilterBySelectedValue() bool {
	row, ok := t.Selected()
	if !ok {
		return false
	}
	key := t.columns[t.activeColumn].Key
	value := strings.TrimSpace(t.columns[t.activeColumn].Cell(row))
	if value == "" {
		return false
	}
	t.filterKey = key
	t.filterValue = value
	t.rebuild()
	return true
}

// ClearFilter removes the value filter.
func (t *Table[R]) ClearFilter() bool {
	if t.filterKey == "" {
		return false
	}
	t.filterKey = ""
	t.filterValue = ""
	t.rebuild()
	return true
}

// TableMeta describes the active column, sort and filter for the status bar.
func (t *Table[R]) TableMeta() string {
	col := strings.ToUpper(t.columns[t.activeColumn].Label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if sorted := t.header.Column(); sorted >= 0 {
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(t.columns[sorted].Key), t.header.Order()))
	}
	if t.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(t.filterKey), t.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

// HandleMouse handles a mouse event at table-relative coordinates, where
// y == 0 is the header row. It returns a status message when the event
// changed something worth reporting.
func (t *Table[R]) HandleMouse(x, y int, msg tea.MouseMsg) string {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			t.MoveUp()
			return ""
		case tea.MouseButtonWheelDown:
			t.MoveDown()
			return ""
		case tea.MouseButtonLeft:
		default:
			return ""
		}
		if y == 0 {
			hit := t.layout.HitTest(x)
			t.header.Press(hit)
			t.drag = &headerDrag{hit: hit, x: x}
			return ""
		}
		t.drag = nil
		if row := t.offset + y - tableHeaderRows; y >= tableHeaderRows && row < len(t.rows) {
			t.cursor = row
			if hit := t.layout.HitTest(x); hit.Valid() && !hit.OnHandle {
				t.activeColumn = hit.Logical
			}
		}
		return ""

	case tea.MouseActionRelease:
		drag := t.drag
		t.drag = nil
		if drag == nil {
			return ""
		}
		before := t.header.Order()
		beforeCol := t.header.Column()
		hit := t.layout.HitTest(x)
		t.header.Release(hit)

		switch {
		case drag.hit.OnHandle:
			lg := drag.hit.Logical
			if t.layout.Resize(lg, t.layout.Width(lg)+x-drag.x) {
				return fmt.Sprintf("Column %s resized", strings.ToUpper(t.columns[lg].Label))
			}
		case drag.hit.Valid() && hit.Valid() && hit.Visual != drag.hit.Visual:
			if t.layout.Move(drag.hit.Visual, hit.Visual) {
				return fmt.Sprintf("Column %s moved", strings.ToUpper(t.columns[drag.hit.Logical].Label))
			}
		case t.header.Order() != before || t.header.Column() != beforeCol:
			return t.sortMessage()
		}
	}
	return ""
}

func (t *Table[R]) headerLabel(lg int) string {
	label := strings.ToUpper(t.columns[lg].Label)
	if t.header.Column() == lg {
		label += " " + t.header.Order().Arrow()
	}
	return label
}

// View renders the table.
func (t *Table[R]) View(width, height int) string {
	if len(t.allRows) == 0 {
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render(t.empty)
	}

	visible := t.layout.VisibleLogicals()
	sep := SeparatorStyle.Render(strings.Repeat("│", sortheader.SeparatorWidth))

	headers := make([]string, 0, len(visible))
	for _, lg := range visible {
		style := TableHeaderStyle
		if lg == t.activeColumn {
			style = ActiveHeaderStyle
		}
		headers = append(headers, fitCell(t.headerLabel(lg), t.layout.Width(lg), style))
	}
	header := strings.Join(headers, sep)

	dividers := make([]string, 0, len(visible))
	for _, lg := range visible {
		dividers = append(dividers, strings.Repeat("─", t.layout.Width(lg)))
	}
	divider := SeparatorStyle.Render(strings.Join(dividers, "┼"))

	visibleHeight := height - tableHeaderRows - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	t.viewportHeight = visibleHeight
	if t.cursor >= t.offset+visibleHeight {
		t.offset = t.cursor - visibleHeight + 1
	}

	var lines []string
	for i := t.offset; i < len(t.rows) && i < t.offset+visibleHeight; i++ {
		row := t.rows[i]
		style := NormalRowStyle
		if i == t.cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, 0, len(visible))
		for _, lg := range visible {
			cells = append(cells, fitCell(t.columns[lg].Cell(row), t.layout.Width(lg), style))
		}
		lines = append(lines, strings.Join(cells, sep))
	}

	filterInfo := ""
	if t.filterKey != "" {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(t.rows), len(t.allRows))
	}
	rowPos := ""
	if len(t.rows) > 0 {
		rowPos = fmt.Sprintf("  ·  row %d/%d", t.cursor+1, len(t.rows))
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%d %s%s%s  ·  %s", len(t.rows), t.noun, rowPos, filterInfo, t.TableMeta()))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(lines, "\n"),
	)
	spacerHeight := max(0, height-lipgloss.Height(content)-lipgloss.Height(status))
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		spacer,
		status,
	)
}

// fitCell renders s into exactly width cells on one line.
func fitCell(s string, width int, style lipgloss.Style) string {
	return style.Inline(true).Width(width).MaxWidth(width).Render(" " + s)
}

// MoveDown moves the cursor down.
func (t *Table[R]) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		vh := t.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if t.cursor >= t.offset+vh {
			t.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (t *Table[R]) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		if t.cursor < t.offset {
			t.offset--
		}
	}
}

// JumpToTop jumps to the first item.
func (t *Table[R]) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last item.
func (t *Table[R]) JumpToBottom() {
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
		vh := t.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if t.cursor >= vh {
			t.offset = t.cursor - vh + 1
		}
	}
}

// HalfPageDown moves down half a page.
func (t *Table[R]) HalfPageDown(pageSize int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor += pageSize / 2
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	vh := t.viewportHeight
	if vh == 0 {
		vh = 10
	}
	if t.cursor >= t.offset+vh {
		t.offset = t.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (t *Table[R]) HalfPageUp(pageSize int) {
	t.cursor -= pageSize / 2
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
}

// ApplyPrefs restores persisted layout and sort state. Unknown keys are
// ignored. The restored sort indicator is synced into the header so the
// next click continues the cycle from it.
func (t *Table[R]) ApplyPrefs(prefs TablePrefs) {
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i, c := range t.columns {
		if prefs.HiddenColumns != nil {
			t.layout.SetHidden(i, hidden[c.Key])
		}
		if w, ok := prefs.Widths[c.Key]; ok {
			t.layout.Resize(i, w)
		}
	}

	if len(prefs.ColumnOrder) == len(t.columns) {
		order := make([]int, 0, len(t.columns))
		for _, k := range prefs.ColumnOrder {
			order = append(order, t.columnIndex(k))
		}
		t.layout.SetOrder(order)
	}

	if prefs.ActiveColumn != "" {
		if i := t.columnIndex(prefs.ActiveColumn); i >= 0 {
			t.activeColumn = i
		}
	}
	t.ensureVisibleActiveColumn()

	t.header.Reset()
	if prefs.SortKey != "" {
		order, err := sortheader.ParseOrder(prefs.SortOrder)
		i := t.columnIndex(prefs.SortKey)
		if err == nil && i >= 0 && t.header.IsSortable(i) {
			t.header.Sync(i, order)
		}
	}
	t.rebuild()
}

// Prefs snapshots the table's layout and sort state.
func (t *Table[R]) Prefs() TablePrefs {
	hidden := []string{}
	widths := make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		if t.layout.Hidden(i) {
			hidden = append(hidden, c.Key)
		}
		widths[c.Key] = t.layout.Width(i)
	}
	order := make([]string, 0, len(t.columns))
	for _, lg := range t.layout.Order() {
		order = append(order, t.columns[lg].Key)
	}
	prefs := TablePrefs{
		HiddenColumns: hidden,
		ActiveColumn:  t.columns[t.activeColumn].Key,
		ColumnOrder:   order,
		Widths:        widths,
	}
	if col := t.header.Column(); col >= 0 {
		prefs.SortKey = t.columns[col].Key
		prefs.SortOrder = t.header.Order().String()
	}
	return prefs
}

package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qcreg/internal/model"
	"qcreg/internal/rowsort"
	"qcreg/internal/sortheader"
)

func testDocs() []model.QcDocRow {
	registered := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return []model.QcDocRow{
		{ID: 11, Seq: 1, Name: "Liquichek L2", Lot: "45872", Position: "10", RegisteredAt: registered},
		{ID: 12, Seq: 2, Name: "Liquichek L1", Lot: "45871", Position: "2", RegisteredAt: registered.Add(time.Hour)},
		{ID: 13, Seq: 3, Name: "Immunoassay Plus", Lot: "40330", Position: "", RegisteredAt: registered.Add(2 * time.Hour)},
		{ID: 14, Seq: 4, Name: "Cardiac Markers", Lot: "23011", Position: "1", Selected: true, RegisteredAt: registered.Add(3 * time.Hour)},
	}
}

func newTestTable(t *testing.T) *Table[model.QcDocRow] {
	t.Helper()
	tbl := NewTable("qc_docs", "documents", QcDocColumns(), QcDocSeq, rowsort.NewComparator("en"), zap.NewNop())
	tbl.SetRows(testDocs())
	return tbl
}

func rowNames(rows []model.QcDocRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

// clickHeader clicks the middle of a column's header cell.
func clickHeader(tbl *Table[model.QcDocRow], key string) string {
	lg := tbl.columnIndex(key)
	x := tbl.layout.Start(lg) + tbl.layout.Width(lg)/2
	tbl.HandleMouse(x, 0, press(x, 0))
	return tbl.HandleMouse(x, 0, release(x, 0))
}

func TestHeaderClicksCycleSort(t *testing.T) {
	tbl := newTestTable(t)
	original := rowNames(tbl.Rows())

	assert.Equal(t, "Sorted POS ascending", clickHeader(tbl, "pos"))
	assert.Equal(t, []string{"Cardiac Markers", "Liquichek L1", "Liquichek L2", "Immunoassay Plus"}, rowNames(tbl.Rows()))

	assert.Equal(t, "Sorted POS descending", clickHeader(tbl, "pos"))
	assert.Equal(t, []string{"Liquichek L2", "Liquichek L1", "Cardiac Markers", "Immunoassay Plus"}, rowNames(tbl.Rows()))

	assert.Equal(t, "Sorting cleared", clickHeader(tbl, "pos"))
	assert.Equal(t, original, rowNames(tbl.Rows()))
	assert.Equal(t, -1, tbl.Header().Column())
}

func TestClickOtherColumnStartsAscending(t *testing.T) {
	tbl := newTestTable(t)

	clickHeader(tbl, "pos")
	clickHeader(tbl, "pos")
	require.Equal(t, sortheader.Descending, tbl.Header().Order())

	clickHeader(tbl, "name")
	assert.Equal(t, sortheader.Ascending, tbl.Header().Order())
	assert.Equal(t, []string{"Cardiac Markers", "Immunoassay Plus", "Liquichek L1", "Liquichek L2"}, rowNames(tbl.Rows()))
}

func TestUnsortableColumnIgnoresClicks(t *testing.T) {
	tbl := newTestTable(t)
	tbl.SetUnsortableKeys([]string{"lot"})

	assert.Empty(t, clickHeader(tbl, "lot"))
	assert.Equal(t, sortheader.None, tbl.Header().Order())

	tbl.activeColumn = tbl.columnIndex("lot")
	assert.Equal(t, "Column LOT is not sortable", tbl.CycleSortActiveColumn())
	assert.Equal(t, sortheader.None, tbl.Header().Order())
}

func TestHiddenIDColumnIsUnsortable(t *testing.T) {
	tbl := newTestTable(t)
	id := tbl.columnIndex("id")
	assert.True(t, tbl.layout.Hidden(id))
	assert.False(t, tbl.Header().IsSortable(id))
}

func TestHeaderDragMovesColumnWithoutSorting(t *testing.T) {
	tbl := newTestTable(t)
	name, lot := tbl.columnIndex("name"), tbl.columnIndex("lot")
	from := tbl.layout.Start(lot) + 1
	to := tbl.layout.Start(name) + 1

	tbl.HandleMouse(from, 0, press(from, 0))
	msg := tbl.HandleMouse(to, 0, release(to, 0))

	assert.Equal(t, "Column LOT moved", msg)
	assert.Equal(t, sortheader.None, tbl.Header().Order())
	assert.Less(t, tbl.layout.Visual(lot), tbl.layout.Visual(name))

	// the sort follows the column, not the position
	clickHeader(tbl, "lot")
	assert.Equal(t, lot, tbl.Header().Column())
}

func TestSeparatorDragResizesColumn(t *testing.T) {
	tbl := newTestTable(t)
	name := tbl.columnIndex("name")
	width := tbl.layout.Width(name)
	handle := tbl.layout.Start(name) + width

	tbl.HandleMouse(handle, 0, press(handle, 0))
	msg := tbl.HandleMouse(handle+5, 0, release(handle+5, 0))

	assert.Equal(t, "Column NAME resized", msg)
	assert.Equal(t, width+5, tbl.layout.Width(name))
	assert.Equal(t, sortheader.None, tbl.Header().Order())
}

func TestReleaseWithoutPressIsIgnored(t *testing.T) {
	tbl := newTestTable(t)
	x := tbl.layout.Start(tbl.columnIndex("pos")) + 1
	assert.Empty(t, tbl.HandleMouse(x, 0, release(x, 0)))
	assert.Equal(t, sortheader.None, tbl.Header().Order())
}

func TestClickOutsideHeaderIsIgnored(t *testing.T) {
	tbl := newTestTable(t)
	x := tbl.layout.TotalWidth() + 10
	tbl.HandleMouse(x, 0, press(x, 0))
	assert.Empty(t, tbl.HandleMouse(x, 0, release(x, 0)))
	assert.Equal(t, sortheader.None, tbl.Header().Order())
}

func TestRowClickMovesCursor(t *testing.T) {
	tbl := newTestTable(t)
	x := tbl.layout.Start(tbl.columnIndex("lot")) + 1
	tbl.HandleMouse(x, tableHeaderRows+2, press(x, tableHeaderRows+2))

	row, ok := tbl.Selected()
	require.True(t, ok)
	assert.Equal(t, "Immunoassay Plus", row.Name)
	assert.Equal(t, tbl.columnIndex("lot"), tbl.activeColumn)
}

func TestKeyboardCycleMatchesHeaderClicks(t *testing.T) {
	tbl := newTestTable(t)
	tbl.activeColumn = tbl.columnIndex("pos")

	assert.Equal(t, "Sorted POS ascending", tbl.CycleSortActiveColumn())
	assert.Equal(t, "Sorted POS descending", tbl.CycleSortActiveColumn())
	assert.Equal(t, "Sorting cleared", tbl.CycleSortActiveColumn())
	assert.Equal(t, []int64{1, 2, 3, 4}, seqs(tbl.Rows()))
}

func TestResetSortRestoresOriginalOrder(t *testing.T) {
	tbl := newTestTable(t)
	clickHeader(tbl, "name")
	tbl.ResetSort()

	assert.Equal(t, sortheader.None, tbl.Header().Order())
	assert.Equal(t, []int64{1, 2, 3, 4}, seqs(tbl.Rows()))

	// a reset forgets the previous column, so the next click starts over
	clickHeader(tbl, "name")
	assert.Equal(t, sortheader.Ascending, tbl.Header().Order())
}

func TestSetRowsKeepsSort(t *testing.T) {
	tbl := newTestTable(t)
	clickHeader(tbl, "pos")

	docs := append(testDocs(), model.QcDocRow{ID: 15, Seq: 5, Name: "Urine Chem", Position: "0"})
	tbl.SetRows(docs)
	assert.Equal(t, "Urine Chem", tbl.Rows()[0].Name)
	assert.Equal(t, "Immunoassay Plus", tbl.Rows()[len(docs)-1].Name)
}

func TestSelectionMarkerSorts(t *testing.T) {
	tbl := newTestTable(t)
	clickHeader(tbl, "sel")
	assert.Equal(t, "Cardiac Markers", tbl.Rows()[len(tbl.Rows())-1].Name)
	clickHeader(tbl, "sel")
	assert.Equal(t, "Cardiac Markers", tbl.Rows()[0].Name)
}

func TestFilterBySelectedValue(t *testing.T) {
	tbl := newTestTable(t)
	tbl.activeColumn = tbl.columnIndex("lot")
	tbl.cursor = 1

	require.True(t, tbl.FilterBySelectedValue())
	assert.Equal(t, []string{"Liquichek L1"}, rowNames(tbl.Rows()))
	assert.Contains(t, tbl.TableMeta(), `filter LOT="45871"`)

	require.True(t, tbl.ClearFilter())
	assert.Len(t, tbl.Rows(), 4)
	assert.False(t, tbl.ClearFilter())
}

func TestHideAndMoveColumns(t *testing.T) {
	tbl := newTestTable(t)
	tbl.activeColumn = tbl.columnIndex("name")

	require.True(t, tbl.MoveActiveColumn(-1))
	assert.Less(t, tbl.layout.Visual(tbl.columnIndex("name")), tbl.layout.Visual(tbl.columnIndex("sel")))

	require.True(t, tbl.HideActiveColumn())
	assert.True(t, tbl.layout.Hidden(tbl.columnIndex("name")))
	assert.NotEqual(t, tbl.columnIndex("name"), tbl.activeColumn)

	tbl.ShowAllColumns()
	assert.False(t, tbl.layout.Hidden(tbl.columnIndex("name")))
}

func TestPrefsRoundTrip(t *testing.T) {
	tbl := newTestTable(t)
	clickHeader(tbl, "pos")
	clickHeader(tbl, "pos")
	tbl.activeColumn = tbl.columnIndex("lot")
	require.True(t, tbl.MoveActiveColumn(-1))
	tbl.layout.Resize(tbl.columnIndex("name"), 30)

	prefs := tbl.Prefs()
	assert.Equal(t, "pos", prefs.SortKey)
	assert.Equal(t, "desc", prefs.SortOrder)
	assert.Equal(t, []string{"id"}, prefs.HiddenColumns)

	restored := newTestTable(t)
	restored.ApplyPrefs(prefs)
	assert.Equal(t, sortheader.Descending, restored.Header().Order())
	assert.Equal(t, restored.columnIndex("pos"), restored.Header().Column())
	assert.Equal(t, rowNames(tbl.Rows()), rowNames(restored.Rows()))
	assert.Equal(t, 30, restored.layout.Width(restored.columnIndex("name")))
	assert.Equal(t, tbl.layout.Order(), restored.layout.Order())

	// the restored indicator continues the cycle
	clickHeader(restored, "pos")
	assert.Equal(t, sortheader.None, restored.Header().Order())
}

func TestApplyEmptyPrefsKeepsDefaults(t *testing.T) {
	tbl := newTestTable(t)
	tbl.ApplyPrefs(TablePrefs{})
	assert.True(t, tbl.layout.Hidden(tbl.columnIndex("id")))
	assert.Equal(t, sortheader.None, tbl.Header().Order())
}

func TestViewShowsSortIndicator(t *testing.T) {
	tbl := newTestTable(t)
	assert.NotContains(t, tbl.View(120, 12), "↑")

	clickHeader(tbl, "name")
	view := tbl.View(120, 12)
	assert.Contains(t, view, "NAME ↑")

	clickHeader(tbl, "name")
	assert.Contains(t, tbl.View(120, 12), "NAME ↓")

	clickHeader(tbl, "name")
	view = tbl.View(120, 12)
	assert.False(t, strings.ContainsAny(view, "↑↓"))
}

func TestViewEmptyTable(t *testing.T) {
	tbl := NewTable("qc_docs", "documents", QcDocColumns(), QcDocSeq, rowsort.NewComparator("en"), zap.NewNop())
	tbl.SetEmptyMessage("nothing here")
	assert.Contains(t, tbl.View(80, 10), "nothing here")
}

func seqs(rows []model.QcDocRow) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.Seq
	}
	return out
}

package ui

import tea "github.com/charmbracelet/bubbletea"

// tableController is the row-type independent part of Table used by the
// root model.
type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	MoveActiveColumn(delta int) bool
	CycleSortActiveColumn() string
	ResetSort()
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string

	MoveUp()
	MoveDown()
	JumpToTop()
	JumpToBottom()
	HalfPageDown(pageSize int)
	HalfPageUp(pageSize int)

	HandleMouse(x, y int, msg tea.MouseMsg) string
	View(width, height int) string
	ApplyPrefs(prefs TablePrefs)
	Prefs() TablePrefs
}

var (
	_ tableController = (*Table[struct{}])(nil)
)

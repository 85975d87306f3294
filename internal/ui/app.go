package ui

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"qcreg/internal/config"
	"qcreg/internal/db"
	"qcreg/internal/model"
	"qcreg/internal/rowsort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// DefaultOperationLogLimit is how many log entries the operation log tab loads.
const DefaultOperationLogLimit = 500

// Options configures the root model.
type Options struct {
	DB        *sql.DB
	Config    *config.Config
	Logger    *zap.Logger
	PrefsPath string
	// OperationLogLimit caps the loaded log entries; zero means the default.
	OperationLogLimit int
}

// Model is the root Bubble Tea model.
type Model struct {
	db       *sql.DB
	cfg      *config.Config
	logger   *zap.Logger
	operator string
	screen   model.Screen
	mode     model.Mode
	gState   GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool

	qcDocs *Table[model.QcDocRow]
	oplog  *Table[model.OperationLog]
	form   *QcDocFormModel

	keys       KeyMap
	formKeys   FormKeyMap
	prefs      UIPreferences
	prefsPath  string
	oplogLimit int
	undoStack  []undoAction
	redoStack  []undoAction
}

// New creates a new root model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.OperationLogLimit
	if limit <= 0 {
		limit = DefaultOperationLogLimit
	}

	cmp := rowsort.NewComparator(cfg.Locale)
	logger.Debug("row comparator ready", zap.Stringer("locale", cmp.Locale()))

	qcDocs := NewTable("qc_docs", "documents", QcDocColumns(), QcDocSeq, cmp, logger)
	qcDocs.SetUnsortableKeys(cfg.Unsortable(config.TableQcDocs))
	qcDocs.SetEmptyMessage("No QC documents registered. Press a to register one.")

	oplog := NewTable("operation_log", "entries", OperationLogColumns(), OperationLogSeq, cmp, logger)
	oplog.SetUnsortableKeys(cfg.Unsortable(config.TableOperationLog))
	oplog.SetEmptyMessage("The operation log is empty.")

	prefs := loadUIPreferences(opts.PrefsPath)
	qcDocs.ApplyPrefs(prefs.QcDocs)
	oplog.ApplyPrefs(prefs.OperationLog)

	return Model{
		db:         opts.DB,
		cfg:        cfg,
		logger:     logger,
		operator:   cfg.Operator,
		screen:     model.ScreenQcDocs,
		mode:       model.ModeNav,
		gState:     GStateIdle,
		qcDocs:     qcDocs,
		oplog:      oplog,
		keys:       DefaultKeyMap(),
		formKeys:   DefaultFormKeyMap(),
		prefs:      prefs,
		prefsPath:  opts.PrefsPath,
		oplogLimit: limit,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadQcDocsCmd(m.db), loadOperationLogsCmd(m.db, m.oplogLimit))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.mode == model.ModeNav && m.columnJump {
			if msg.String() == "esc" {
				m.columnJump = false
				m.info = ""
				return m, nil
			}
			if n, err := strconv.Atoi(msg.String()); err == nil {
				table := m.currentTable()
				if table != nil && table.JumpToColumn(n) {
					m.columnJump = false
					m.info = fmt.Sprintf("Jumped to column %d", n)
					m.persistCurrentTablePrefs()
					return m, nil
				}
				m.info = fmt.Sprintf("Column %d unavailable", n)
				return m, nil
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if key.Matches(msg, m.keys.Help) && m.mode == model.ModeNav {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		if m.mode == model.ModeNav {
			return m.handleNavMode(msg)
		}
		return m.handleInsertMode(msg)

	case model.ErrorMsg:
		m.logger.Error("operation failed", zap.Error(msg.Err))
		m.error = msg.Err.Error()
		return m, nil

	case model.QcDocsLoadedMsg:
		m.qcDocs.SetRows(msg.Docs)
		m.error = ""
		return m, nil

	case model.OperationLogsLoadedMsg:
		m.oplog.SetRows(msg.Logs)
		return m, nil

	case model.QcDocSavedMsg:
		m.pushUndoAction(m.buildRegisterAction(msg))
		m.mode = model.ModeNav
		m.screen = model.ScreenQcDocs
		m.form = nil
		m.error = ""
		m.info = fmt.Sprintf("Registered %s (u to undo)", msg.Doc.Name)
		m.logger.Info("qc document registered",
			zap.Int64("id", msg.Doc.ID),
			zap.Int64("seq", msg.Doc.Seq),
			zap.String("lot", msg.Doc.Lot))
		return m, tea.Batch(
			loadQcDocsCmd(m.db),
			m.logOperationCmd(model.ActionRegister, fmt.Sprintf("%s (lot %s)", msg.Doc.Name, msg.Doc.Lot)),
		)

	case model.QcDocDeletedMsg:
		m.pushUndoAction(m.buildDeleteAction(msg))
		m.info = fmt.Sprintf("Deleted %s (u to undo)", msg.Deleted.Name)
		m.logger.Info("qc document deleted", zap.Int64("id", msg.Deleted.ID))
		return m, tea.Batch(
			loadQcDocsCmd(m.db),
			m.logOperationCmd(model.ActionDelete, fmt.Sprintf("%s (lot %s)", msg.Deleted.Name, msg.Deleted.Lot)),
		)

	case model.QcDocSelectedMsg:
		m.pushUndoAction(m.buildSelectAction(msg))
		detail := msg.Name
		m.info = fmt.Sprintf("Selected %s", msg.Name)
		if !msg.Selected {
			detail += " (cleared)"
			m.info = fmt.Sprintf("Cleared selection of %s", msg.Name)
		}
		return m, tea.Batch(
			loadQcDocsCmd(m.db),
			m.logOperationCmd(model.ActionSelect, detail),
		)

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		m.form = nil
		m.screen = model.ScreenQcDocs
		return m, nil

	case undoAppliedMsg:
		return m, m.applyUndoResult(msg)
	}

	return m, nil
}

// View renders the model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	chrome := m.chrome()
	footer := RenderHelp(m.screen, m.mode, m.width)
	contentHeight := m.height - lipgloss.Height(footer)
	for _, part := range chrome {
		contentHeight -= lipgloss.Height(part)
	}
	contentHeight = max(contentHeight, 1)

	var content string
	switch m.screen {
	case model.ScreenQcDocs:
		content = m.qcDocs.View(m.width, contentHeight)
	case model.ScreenOperationLog:
		content = m.oplog.View(m.width, contentHeight)
	case model.ScreenQcDocForm:
		if m.form != nil {
			content = m.form.View(m.width, contentHeight)
		}
	}

	// Truncate rather than wrap so header cells stay where HitTest expects them.
	content = lipgloss.NewStyle().
		Height(contentHeight).
		MaxHeight(contentHeight).
		MaxWidth(m.width).
		Render(content)

	parts := append(chrome, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// chrome returns the parts rendered above the content area, top to bottom.
func (m Model) chrome() []string {
	var breadcrumb []string
	switch m.screen {
	case model.ScreenQcDocs:
		breadcrumb = []string{"QC documents"}
	case model.ScreenOperationLog:
		breadcrumb = []string{"Operation log"}
	case model.ScreenQcDocForm:
		breadcrumb = []string{"QC documents", "Register"}
	}

	parts := []string{renderHeader(breadcrumb, m.operator, m.width)}
	if m.screen != model.ScreenQcDocForm {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	return parts
}

var tabs = []struct {
	name   string
	screen model.Screen
}{
	{"QC documents", model.ScreenQcDocs},
	{"Operation log", model.ScreenOperationLog},
}

func renderTabs(screen model.Screen, width int) string {
	var tabStrings []string
	for _, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, operator string, width int) string {
	title := HeaderStyle.Render("qcreg")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	right := time.Now().Format("Mon 02 Jan")
	if operator != "" {
		right = operator + "  ·  " + right
	}
	right = BreadcrumbStyle.Render(right) + "  "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showingHelp || m.mode != model.ModeNav {
		return m, nil
	}
	table := m.currentTable()
	if table == nil {
		return m, nil
	}

	chrome := m.chrome()
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == lipgloss.Height(chrome[0]) {
		if m.switchTabAt(msg.X) {
			return m, nil
		}
	}

	top := 0
	for _, part := range chrome {
		top += lipgloss.Height(part)
	}

	if status := table.HandleMouse(msg.X, msg.Y-top, msg); status != "" {
		m.info = status
		m.persistCurrentTablePrefs()
	}
	return m, nil
}

// switchTabAt switches to the tab rendered at column x of the tab bar.
func (m *Model) switchTabAt(x int) bool {
	pos := 2
	for _, tab := range tabs {
		w := lipgloss.Width(tab.name) + 4
		if x >= pos && x < pos+w {
			if tab.screen != m.screen {
				m.switchScreen(tab.screen)
			}
			return true
		}
		pos += w
	}
	return false
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.ColumnJump):
			m.columnJump = true
			m.info = "Jump to column: press 1-9 (esc to cancel)"
			return m, nil
		case key.Matches(msg, m.keys.CycleSort):
			m.info = t.CycleSortActiveColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.ResetSort):
			t.ResetSort()
			m.info = "Sorting cleared"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.MoveLeft), key.Matches(msg, m.keys.MoveRight):
			delta := 1
			if key.Matches(msg, m.keys.MoveLeft) {
				delta = -1
			}
			if t.MoveActiveColumn(delta) {
				m.info = "Column moved"
				m.persistCurrentTablePrefs()
			}
			return m, nil
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
				m.persistCurrentTablePrefs()
			} else {
				m.info = "Cannot hide last visible column"
			}
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.FilterValue):
			if t.FilterBySelectedValue() {
				m.info = "Filter applied from selected value"
			} else {
				m.info = "No filterable value in selected cell"
			}
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			if t.ClearFilter() {
				m.info = "Filter cleared"
			}
			return m, nil
		case key.Matches(msg, m.keys.Up):
			t.MoveUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			t.MoveDown()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			t.JumpToBottom()
			return m, nil
		case key.Matches(msg, m.keys.HalfPageDown):
			t.HalfPageDown(m.height / 2)
			return m, nil
		case key.Matches(msg, m.keys.HalfPageUp):
			t.HalfPageUp(m.height / 2)
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			m.info = "Nothing to undo"
			return m, nil
		}
		return m, m.undoCmd()
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			m.info = "Nothing to redo"
			return m, nil
		}
		return m, m.redoCmd()
	case key.Matches(msg, m.keys.Reload):
		m.info = ""
		return m, tea.Batch(loadQcDocsCmd(m.db), loadOperationLogsCmd(m.db, m.oplogLimit))
	case key.Matches(msg, m.keys.NextTab):
		m.switchScreen(m.adjacentTab(1))
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchScreen(m.adjacentTab(-1))
		return m, nil
	}

	// "gg" jumps to the top
	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		if t := m.currentTable(); t != nil {
			t.JumpToTop()
		}
		return m, nil
	}
	m.gState = GStateIdle

	if m.screen == model.ScreenQcDocs {
		return m.handleQcDocsNav(msg)
	}
	return m, nil
}

func (m Model) handleQcDocsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Register):
		m.mode = model.ModeInsert
		m.screen = model.ScreenQcDocForm
		m.form = NewQcDocFormModel(m.db, m.formKeys)
		m.info = ""
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.qcDocs.Selected(); ok {
			return m, deleteQcDocCmd(m.db, row.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleSelect):
		if row, ok := m.qcDocs.Selected(); ok {
			return m, selectQcDocCmd(m.db, row.ID, row.Name, !row.Selected)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) adjacentTab(delta int) model.Screen {
	for i, tab := range tabs {
		if tab.screen == m.screen {
			return tabs[(i+delta+len(tabs))%len(tabs)].screen
		}
	}
	return model.ScreenQcDocs
}

// switchScreen changes the active tab. The table being left drops its sort
// when reset_sort_on_leave is set.
func (m *Model) switchScreen(screen model.Screen) {
	if screen == m.screen {
		return
	}
	if m.cfg.UI.ResetSortOnLeave {
		if t := m.currentTable(); t != nil {
			t.ResetSort()
			m.persistCurrentTablePrefs()
		}
	}
	m.screen = screen
	m.columnJump = false
	m.info = ""
}

func (m *Model) currentTable() tableController {
	switch m.screen {
	case model.ScreenQcDocs:
		return m.qcDocs
	case model.ScreenOperationLog:
		return m.oplog
	}
	return nil
}

func (m *Model) persistCurrentTablePrefs() {
	switch m.screen {
	case model.ScreenQcDocs:
		m.prefs.QcDocs = m.qcDocs.Prefs()
	case model.ScreenOperationLog:
		m.prefs.OperationLog = m.oplog.Prefs()
	default:
		return
	}
	if err := saveUIPreferences(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("failed to save preferences", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// handleInsertMode handles insert/edit mode input.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.screen == model.ScreenQcDocForm && m.form != nil {
		newForm, cmd := m.form.Update(msg)
		m.form = &newForm
		return m, cmd
	}
	return m, nil
}

// Commands

func loadQcDocsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		docs, err := db.ListQcDocs(database, "")
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.QcDocsLoadedMsg{Docs: docs}
	}
}

func loadOperationLogsCmd(database *sql.DB, limit int) tea.Cmd {
	return func() tea.Msg {
		logs, err := db.ListOperationLogs(database, limit)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.OperationLogsLoadedMsg{Logs: logs}
	}
}

// logOperationCmd appends to the operation log and reloads it.
func (m *Model) logOperationCmd(action, detail string) tea.Cmd {
	database, operator, limit := m.db, m.operator, m.oplogLimit
	return func() tea.Msg {
		if err := db.InsertOperationLog(database, operator, action, detail); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return loadOperationLogsCmd(database, limit)()
	}
}

func deleteQcDocCmd(database *sql.DB, id int64) tea.Cmd {
	return func() tea.Msg {
		doc, err := db.GetQcDoc(database, id)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load qc document before delete: %w", err)}
		}
		if err := db.DeleteQcDoc(database, id); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.QcDocDeletedMsg{Deleted: doc}
	}
}

func selectQcDocCmd(database *sql.DB, id int64, name string, selected bool) tea.Cmd {
	return func() tea.Msg {
		if err := db.UpdateQcDocSelected(database, id, selected); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.QcDocSelectedMsg{ID: id, Name: name, Selected: selected}
	}
}

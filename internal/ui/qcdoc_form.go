package ui

import (
	"database/sql"
	"fmt"
	"strings"

	"qcreg/internal/db"
	"qcreg/internal/model"
	"qcreg/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldLot
	fieldLevel
	fieldAssay
	fieldPosition
	fieldMean
	fieldSD
	fieldExpiry
	fieldCount
)

var formLabels = [fieldCount]string{
	"Name *",
	"Lot *",
	"Level",
	"Assay",
	"Rack position",
	"Target mean",
	"Target SD",
	"Expires on (YYYY-MM-DD)",
}

// QcDocFormModel is the QC document registration form.
type QcDocFormModel struct {
	db           *sql.DB
	keys         FormKeyMap
	focusedField int
	inputs       []textinput.Model
}

// NewQcDocFormModel creates an empty registration form.
func NewQcDocFormModel(database *sql.DB, keys FormKeyMap) *QcDocFormModel {
	inputs := make([]textinput.Model, fieldCount)
	placeholders := [fieldCount]string{
		"e.g. Liquichek Immunoassay Plus",
		"Lot number",
		"1, 2, 3 or L/N/H",
		"e.g. TSH",
		"e.g. A12",
		"e.g. 4.25",
		"e.g. 0.18",
		"2027-03-31",
	}
	limits := [fieldCount]int{100, 40, 10, 40, 10, 16, 16, 20}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = limits[i]
	}
	inputs[fieldName].Focus()

	return &QcDocFormModel{
		db:     database,
		keys:   keys,
		inputs: inputs,
	}
}

// Update handles input.
func (m QcDocFormModel) Update(msg tea.Msg) (QcDocFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, func() tea.Msg {
				return model.FormCancelledMsg{}
			}
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.save()
		case key.Matches(keyMsg, m.keys.NextField):
			m.nextField()
			return m, nil
		case key.Matches(keyMsg, m.keys.PrevField):
			m.prevField()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
	return m, cmd
}

// View renders the form.
func (m *QcDocFormModel) View(width, height int) string {
	left := make([]string, 0, fieldCount)
	right := make([]string, 0, fieldCount)
	for i := range m.inputs {
		field := renderFormField(formLabels[i], m.inputs[i], m.focusedField == i)
		if i < fieldPosition {
			left = append(left, field)
		} else {
			right = append(right, field)
		}
	}

	formContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		strings.Join(left, "\n"),
		"  ",
		strings.Join(right, "\n"),
	)

	return PanelStyle.
		Width(max(width-4, 0)).
		Height(max(height-4, 0)).
		Render(formContent)
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}

func (m *QcDocFormModel) nextField() {
	m.inputs[m.focusedField].Blur()
	m.focusedField = (m.focusedField + 1) % len(m.inputs)
	m.inputs[m.focusedField].Focus()
}

func (m *QcDocFormModel) prevField() {
	m.inputs[m.focusedField].Blur()
	m.focusedField--
	if m.focusedField < 0 {
		m.focusedField = len(m.inputs) - 1
	}
	m.inputs[m.focusedField].Focus()
}

func (m *QcDocFormModel) value(field int) string {
	return strings.TrimSpace(m.inputs[field].Value())
}

// parse validates the inputs.
func (m *QcDocFormModel) parse() (model.NewQcDoc, error) {
	doc := model.NewQcDoc{
		Name:     m.value(fieldName),
		Lot:      m.value(fieldLot),
		Level:    m.value(fieldLevel),
		Assay:    m.value(fieldAssay),
		Position: m.value(fieldPosition),
	}
	if doc.Name == "" {
		return doc, fmt.Errorf("name is required")
	}
	if doc.Lot == "" {
		return doc, fmt.Errorf("lot is required")
	}

	mean, err := util.ParseOptionalFloat(m.value(fieldMean))
	if err != nil {
		return doc, fmt.Errorf("target mean: %w", err)
	}
	sd, err := util.ParseOptionalFloat(m.value(fieldSD))
	if err != nil {
		return doc, fmt.Errorf("target SD: %w", err)
	}
	if sd != nil && *sd < 0 {
		return doc, fmt.Errorf("target SD must not be negative")
	}
	doc.TargetMean = mean
	doc.TargetSD = sd

	expires, err := util.ParseDateInput(m.value(fieldExpiry))
	if err != nil {
		return doc, fmt.Errorf("expiry date: %w", err)
	}
	doc.ExpiresOn = expires
	return doc, nil
}

func (m *QcDocFormModel) save() tea.Cmd {
	doc, err := m.parse()
	if err != nil {
		return func() tea.Msg {
			return model.ErrorMsg{Err: err}
		}
	}
	database := m.db
	return func() tea.Msg {
		saved, err := db.InsertQcDoc(database, doc)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.QcDocSavedMsg{Doc: saved}
	}
}

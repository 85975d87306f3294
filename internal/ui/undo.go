package ui

import (
	"fmt"

	"qcreg/internal/db"
	"qcreg/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type undoAction struct {
	label string
	undo  func() error
	redo  func() error
}

type undoAppliedMsg struct {
	err       error
	logErr    error
	action    undoAction
	direction string // undo, redo
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return m.applyCmd(action, model.ActionUndo, action.undo)
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return m.applyCmd(action, model.ActionRedo, action.redo)
}

func (m *Model) applyCmd(action undoAction, direction string, apply func() error) tea.Cmd {
	database, operator := m.db, m.operator
	return func() tea.Msg {
		if err := apply(); err != nil {
			return undoAppliedMsg{err: err, action: action, direction: direction}
		}
		logErr := db.InsertOperationLog(database, operator, direction, action.label)
		return undoAppliedMsg{logErr: logErr, action: action, direction: direction}
	}
}

func (m *Model) buildRegisterAction(msg model.QcDocSavedMsg) undoAction {
	doc := msg.Doc
	return undoAction{
		label: fmt.Sprintf("register %s (lot %s)", doc.Name, doc.Lot),
		undo: func() error {
			return db.DeleteQcDoc(m.db, doc.ID)
		},
		redo: func() error {
			return db.InsertQcDocWithID(m.db, doc)
		},
	}
}

func (m *Model) buildDeleteAction(msg model.QcDocDeletedMsg) undoAction {
	deleted := msg.Deleted
	return undoAction{
		label: fmt.Sprintf("delete %s (lot %s)", deleted.Name, deleted.Lot),
		undo: func() error {
			return db.InsertQcDocWithID(m.db, deleted)
		},
		redo: func() error {
			return db.DeleteQcDoc(m.db, deleted.ID)
		},
	}
}

func (m *Model) buildSelectAction(msg model.QcDocSelectedMsg) undoAction {
	id, selected := msg.ID, msg.Selected
	verb := "select"
	if !selected {
		verb = "deselect"
	}
	return undoAction{
		label: fmt.Sprintf("%s %s", verb, msg.Name),
		undo: func() error {
			return db.UpdateQcDocSelected(m.db, id, !selected)
		},
		redo: func() error {
			return db.UpdateQcDocSelected(m.db, id, selected)
		},
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("undo stack action failed",
			zap.String("direction", msg.direction),
			zap.String("action", msg.action.label),
			zap.Error(msg.err))
		m.error = fmt.Sprintf("%s failed: %v", msg.direction, msg.err)
		return nil
	}

	if msg.logErr != nil {
		m.logger.Warn("failed to write operation log", zap.Error(msg.logErr))
	}
	m.logger.Info("undo stack action applied",
		zap.String("direction", msg.direction),
		zap.String("action", msg.action.label))
	if msg.direction == model.ActionUndo {
		m.redoStack = append(m.redoStack, msg.action)
		m.info = "Undid: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		m.info = "Redid: " + msg.action.label
	}
	m.error = ""
	return tea.Batch(loadQcDocsCmd(m.db), loadOperationLogsCmd(m.db, m.oplogLimit))
}

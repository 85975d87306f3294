package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// QcDocsLoadedMsg is sent when QC documents are loaded.
type QcDocsLoadedMsg struct {
	Docs []QcDocRow
}

// OperationLogsLoadedMsg is sent when the operation log is loaded.
type OperationLogsLoadedMsg struct {
	Logs []OperationLog
}

// QcDocSavedMsg is sent when a QC document is registered.
type QcDocSavedMsg struct {
	Doc QcDoc
}

// QcDocDeletedMsg is sent after a QC document is deleted.
type QcDocDeletedMsg struct {
	Deleted QcDoc
}

// QcDocSelectedMsg is sent after the selection marker of a document changed.
type QcDocSelectedMsg struct {
	ID       int64
	Name     string
	Selected bool
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenQcDocs Screen = iota
	ScreenOperationLog
	ScreenQcDocForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)

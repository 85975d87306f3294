package model

import "time"

// QcDoc is a registered quality-control document.
type QcDoc struct {
	ID           int64
	Seq          int64 // insertion sequence, the table's original order
	Name         string
	Lot          string
	Level        string
	Assay        string
	Position     string // rack position, may be blank
	TargetMean   *float64
	TargetSD     *float64
	ExpiresOn    string // ISO 8601 date (YYYY-MM-DD)
	Selected     bool
	RegisteredAt time.Time
}

// QcDocRow is a QC document as shown in the document list.
type QcDocRow struct {
	ID           int64
	Seq          int64
	Selected     bool
	Name         string
	Lot          string
	Level        string
	Assay        string
	Position     string
	TargetMean   *float64
	TargetSD     *float64
	ExpiresOn    string
	RegisteredAt time.Time
}

// Row converts a document into its list row.
func (d QcDoc) Row() QcDocRow {
	return QcDocRow{
		ID:           d.ID,
		Seq:          d.Seq,
		Selected:     d.Selected,
		Name:         d.Name,
		Lot:          d.Lot,
		Level:        d.Level,
		Assay:        d.Assay,
		Position:     d.Position,
		TargetMean:   d.TargetMean,
		TargetSD:     d.TargetSD,
		ExpiresOn:    d.ExpiresOn,
		RegisteredAt: d.RegisteredAt,
	}
}

// NewQcDoc is the data entered to register a QC document.
type NewQcDoc struct {
	Name       string
	Lot        string
	Level      string
	Assay      string
	Position   string
	TargetMean *float64
	TargetSD   *float64
	ExpiresOn  string
}

// Operation log actions.
const (
	ActionRegister = "register"
	ActionDelete   = "delete"
	ActionSelect   = "select"
	ActionUndo     = "undo"
	ActionRedo     = "redo"
)

// OperationLog is one entry of the operator audit trail.
type OperationLog struct {
	ID        int64
	Operator  string
	Action    string
	Detail    string
	CreatedAt time.Time
}

package ui

import (
	"strconv"
	"time"

	"qcreg/internal/model"
	"qcreg/internal/rowsort"
	"qcreg/internal/util"
)

const selectedMarker = "●"

// QcDocColumns returns the columns of the QC document list. The database id
// column is hidden and has no sort role.
func QcDocColumns() []Column[model.QcDocRow] {
	return []Column[model.QcDocRow]{
		{
			Key: "id", Label: "ID", Width: 6, Hidden: true,
			Cell: func(r model.QcDocRow) string { return strconv.FormatInt(r.ID, 10) },
		},
		{
			Key: "seq", Label: "#", Width: 5,
			Cell:  func(r model.QcDocRow) string { return strconv.FormatInt(r.Seq, 10) },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Seq(r.Seq) },
		},
		{
			Key: "sel", Label: "Sel", Width: 6,
			Cell: func(r model.QcDocRow) string {
				if r.Selected {
					return selectedMarker
				}
				return ""
			},
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Icon(r.Selected) },
		},
		{
			Key: "name", Label: "Name", Width: 22,
			Cell:  func(r model.QcDocRow) string { return r.Name },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Text(r.Name) },
		},
		{
			Key: "lot", Label: "Lot", Width: 12,
			Cell:  func(r model.QcDocRow) string { return r.Lot },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Text(r.Lot) },
		},
		{
			Key: "level", Label: "Level", Width: 8,
			Cell:  func(r model.QcDocRow) string { return r.Level },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Text(r.Level) },
		},
		{
			Key: "assay", Label: "Assay", Width: 10,
			Cell:  func(r model.QcDocRow) string { return r.Assay },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Text(r.Assay) },
		},
		{
			Key: "pos", Label: "Pos", Width: 6,
			Cell:  func(r model.QcDocRow) string { return r.Position },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Text(r.Position) },
		},
		{
			Key: "mean", Label: "Mean", Width: 9,
			Cell:  func(r model.QcDocRow) string { return util.FormatOptionalFloat(r.TargetMean) },
			Value: func(r model.QcDocRow) rowsort.Value { return optionalNumber(r.TargetMean) },
		},
		{
			Key: "sd", Label: "SD", Width: 8,
			Cell:  func(r model.QcDocRow) string { return util.FormatOptionalFloat(r.TargetSD) },
			Value: func(r model.QcDocRow) rowsort.Value { return optionalNumber(r.TargetSD) },
		},
		{
			Key: "expiry", Label: "Expiry", Width: 13,
			Cell:  func(r model.QcDocRow) string { return util.FormatDate(r.ExpiresOn) },
			Value: func(r model.QcDocRow) rowsort.Value { return rowsort.Text(r.ExpiresOn) },
		},
		{
			Key: "registered", Label: "Registered", Width: 16,
			Cell:  func(r model.QcDocRow) string { return util.FormatTimeHuman(r.RegisteredAt, time.Now()) },
			Value: func(r model.QcDocRow) rowsort.Value { return timeValue(r.RegisteredAt) },
		},
	}
}

// QcDocSeq is the insertion order key of a QC document row.
func QcDocSeq(r model.QcDocRow) int64 { return r.Seq }

// OperationLogColumns returns the columns of the operation log.
func OperationLogColumns() []Column[model.OperationLog] {
	return []Column[model.OperationLog]{
		{
			Key: "id", Label: "ID", Width: 6, Hidden: true,
			Cell: func(l model.OperationLog) string { return strconv.FormatInt(l.ID, 10) },
		},
		{
			Key: "time", Label: "Time", Width: 18,
			Cell:  func(l model.OperationLog) string { return util.FormatTimeHuman(l.CreatedAt, time.Now()) },
			Value: func(l model.OperationLog) rowsort.Value { return timeValue(l.CreatedAt) },
		},
		{
			Key: "operator", Label: "Operator", Width: 12,
			Cell:  func(l model.OperationLog) string { return l.Operator },
			Value: func(l model.OperationLog) rowsort.Value { return rowsort.Text(l.Operator) },
		},
		{
			Key: "action", Label: "Action", Width: 10,
			Cell:  func(l model.OperationLog) string { return l.Action },
			Value: func(l model.OperationLog) rowsort.Value { return rowsort.Text(l.Action) },
		},
		{
			Key: "detail", Label: "Detail", Width: 40,
			Cell:  func(l model.OperationLog) string { return l.Detail },
			Value: func(l model.OperationLog) rowsort.Value { return rowsort.Text(l.Detail) },
		},
	}
}

// OperationLogSeq orders log entries by id, which is their insertion order.
func OperationLogSeq(l model.OperationLog) int64 { return l.ID }

func optionalNumber(v *float64) rowsort.Value {
	if v == nil {
		return rowsort.Missing()
	}
	return rowsort.Number(*v)
}

func timeValue(t time.Time) rowsort.Value {
	if t.IsZero() {
		return rowsort.Missing()
	}
	return rowsort.Number(float64(t.UnixNano()))
}

package db

import (
	"database/sql"
	"fmt"
	"time"

	"qcreg/internal/model"
)

const qcDocColumns = `id, seq, name, lot, level, assay, position, target_mean, target_sd, expires_on, selected, registered_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQcDoc(s rowScanner) (model.QcDoc, error) {
	var d model.QcDoc
	var level, assay, position, expiresOn sql.NullString
	var mean, sd sql.NullFloat64
	var selected int64
	var registeredAt string

	if err := s.Scan(&d.ID, &d.Seq, &d.Name, &d.Lot, &level, &assay, &position, &mean, &sd, &expiresOn, &selected, &registeredAt); err != nil {
		return model.QcDoc{}, err
	}

	d.Level = level.String
	d.Assay = assay.String
	d.Position = position.String
	d.ExpiresOn = expiresOn.String
	d.Selected = selected == 1
	if mean.Valid {
		v := mean.Float64
		d.TargetMean = &v
	}
	if sd.Valid {
		v := sd.Float64
		d.TargetSD = &v
	}
	if t, err := time.Parse(time.RFC3339, registeredAt); err == nil {
		d.RegisteredAt = t
	}
	return d, nil
}

// ListQcDocs returns QC documents in registration order, optionally filtered
// by a substring of the name, lot or assay.
func ListQcDocs(db *sql.DB, filter string) ([]model.QcDocRow, error) {
	query := `
		SELECT ` + qcDocColumns + `
		FROM qc_docs
		WHERE (? = '' OR name LIKE '%' || ? || '%' OR lot LIKE '%' || ? || '%' OR assay LIKE '%' || ? || '%')
		ORDER BY seq
	`

	rows, err := db.Query(query, filter, filter, filter, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list qc documents: %w", err)
	}
	defer rows.Close()

	var results []model.QcDocRow
	for rows.Next() {
		d, err := scanQcDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qc document row: %w", err)
		}
		results = append(results, d.Row())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating qc document rows: %w", err)
	}

	return results, nil
}

// GetQcDoc retrieves a single QC document by ID.
func GetQcDoc(db *sql.DB, id int64) (model.QcDoc, error) {
	query := `SELECT ` + qcDocColumns + ` FROM qc_docs WHERE id = ?`

	d, err := scanQcDoc(db.QueryRow(query, id))
	if err != nil {
		return model.QcDoc{}, fmt.Errorf("failed to get qc document: %w", err)
	}
	return d, nil
}

// InsertQcDoc registers a QC document at the end of the insertion sequence.
func InsertQcDoc(db *sql.DB, d model.NewQcDoc) (model.QcDoc, error) {
	tx, err := db.Begin()
	if err != nil {
		return model.QcDoc{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(seq), 0) + 1 FROM qc_docs`).Scan(&seq); err != nil {
		return model.QcDoc{}, fmt.Errorf("failed to allocate sequence: %w", err)
	}

	level, assay, position, expiresOn := nullIfEmpty(d.Level), nullIfEmpty(d.Assay), nullIfEmpty(d.Position), nullIfEmpty(d.ExpiresOn)
	mean, sd := nullFloat(d.TargetMean), nullFloat(d.TargetSD)

	result, err := tx.Exec(`
		INSERT INTO qc_docs (seq, name, lot, level, assay, position, target_mean, target_sd, expires_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, seq, d.Name, d.Lot, level, assay, position, mean, sd, expiresOn)
	if err != nil {
		return model.QcDoc{}, fmt.Errorf("failed to insert qc document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.QcDoc{}, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.QcDoc{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return GetQcDoc(db, id)
}

// InsertQcDocWithID re-inserts a previously deleted document, keeping its ID
// and sequence so undo restores its original place in the table.
func InsertQcDocWithID(db *sql.DB, d model.QcDoc) error {
	var selected int64
	if d.Selected {
		selected = 1
	}
	registeredAt := d.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO qc_docs (`+qcDocColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.Seq, d.Name, d.Lot, nullIfEmpty(d.Level), nullIfEmpty(d.Assay), nullIfEmpty(d.Position),
		nullFloat(d.TargetMean), nullFloat(d.TargetSD), nullIfEmpty(d.ExpiresOn), selected,
		registeredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to restore qc document: %w", err)
	}
	return nil
}

// UpdateQcDocSelected sets the selection marker of a document.
func UpdateQcDocSelected(db *sql.DB, id int64, selected bool) error {
	var v int64
	if selected {
		v = 1
	}
	result, err := db.Exec(`UPDATE qc_docs SET selected = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("failed to update qc document selection: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update qc document selection: %w", sql.ErrNoRows)
	}
	return nil
}

// DeleteQcDoc deletes a QC document.
func DeleteQcDoc(db *sql.DB, id int64) error {
	if _, err := db.Exec(`DELETE FROM qc_docs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete qc document: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

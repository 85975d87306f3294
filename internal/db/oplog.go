package db

import (
	"database/sql"
	"fmt"
	"time"

	"qcreg/internal/model"
)

// InsertOperationLog appends an entry to the operation log.
func InsertOperationLog(db *sql.DB, operator, action, detail string) error {
	_, err := db.Exec(`
		INSERT INTO operation_logs (operator, action, detail, created_at)
		VALUES (?, ?, ?, ?)
	`, operator, action, nullIfEmpty(detail), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert operation log: %w", err)
	}
	return nil
}

// ListOperationLogs returns the most recent log entries in the order they
// were written. A limit of zero or less returns every entry.
func ListOperationLogs(db *sql.DB, limit int) ([]model.OperationLog, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, operator, action, detail, created_at FROM (
			SELECT id, operator, action, detail, created_at
			FROM operation_logs
			ORDER BY id DESC
			LIMIT ?
		)
		ORDER BY id
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation logs: %w", err)
	}
	defer rows.Close()

	var results []model.OperationLog
	for rows.Next() {
		var l model.OperationLog
		var detail sql.NullString
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Operator, &l.Action, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation log: %w", err)
		}
		l.Detail = detail.String
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			l.CreatedAt = t
		}
		results = append(results, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation logs: %w", err)
	}

	return results, nil
}

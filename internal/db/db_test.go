package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcreg/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "qcreg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestInsertAndListQcDocs(t *testing.T) {
	database := openTestDB(t)

	first, err := InsertQcDoc(database, model.NewQcDoc{
		Name:       "Liquichek L1",
		Lot:        "45871",
		Level:      "1",
		Assay:      "GLU",
		Position:   "10",
		TargetMean: floatPtr(5.4),
		TargetSD:   floatPtr(0.2),
		ExpiresOn:  "2027-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Seq)
	assert.False(t, first.RegisteredAt.IsZero())

	second, err := InsertQcDoc(database, model.NewQcDoc{Name: "Liquichek L2", Lot: "45872"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)
	assert.Empty(t, second.Position)
	assert.Nil(t, second.TargetMean)

	rows, err := ListQcDocs(database, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Liquichek L1", rows[0].Name)
	require.NotNil(t, rows[0].TargetMean)
	assert.InDelta(t, 5.4, *rows[0].TargetMean, 1e-9)

	rows, err = ListQcDocs(database, "45872")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
}

func TestDeleteAndRestoreKeepsSequence(t *testing.T) {
	database := openTestDB(t)

	var docs []model.QcDoc
	for _, name := range []string{"a", "b", "c"} {
		d, err := InsertQcDoc(database, model.NewQcDoc{Name: name, Lot: "L"})
		require.NoError(t, err)
		docs = append(docs, d)
	}

	require.NoError(t, DeleteQcDoc(database, docs[1].ID))
	rows, err := ListQcDocs(database, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, InsertQcDocWithID(database, docs[1]))
	rows, err = ListQcDocs(database, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[1].Name)
	assert.Equal(t, docs[1].Seq, rows[1].Seq)
}

func TestUpdateQcDocSelected(t *testing.T) {
	database := openTestDB(t)

	d, err := InsertQcDoc(database, model.NewQcDoc{Name: "a", Lot: "L"})
	require.NoError(t, err)

	require.NoError(t, UpdateQcDocSelected(database, d.ID, true))
	got, err := GetQcDoc(database, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Selected)

	err = UpdateQcDocSelected(database, 999, true)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetMissingQcDoc(t *testing.T) {
	database := openTestDB(t)
	_, err := GetQcDoc(database, 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestOperationLogs(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, InsertOperationLog(database, "alice", model.ActionRegister, "Liquichek L1"))
	require.NoError(t, InsertOperationLog(database, "bob", model.ActionDelete, ""))
	require.NoError(t, InsertOperationLog(database, "alice", model.ActionUndo, "delete"))

	logs, err := ListOperationLogs(database, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, model.ActionRegister, logs[0].Action)
	assert.Empty(t, logs[1].Detail)
	assert.False(t, logs[2].CreatedAt.IsZero())

	logs, err = ListOperationLogs(database, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "bob", logs[0].Operator)
	assert.Equal(t, model.ActionUndo, logs[1].Action)
}

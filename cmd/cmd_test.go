package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcreg/internal/db"
	"qcreg/internal/model"
)

type cliFixture struct {
	dir string
}

func newCLIFixture(t *testing.T) cliFixture {
	t.Helper()
	return cliFixture{dir: t.TempDir()}
}

func (f cliFixture) dbPath() string { return filepath.Join(f.dir, "qcreg.db") }

func (f cliFixture) seed(t *testing.T, docs ...model.NewQcDoc) {
	t.Helper()
	database, err := db.Open(f.dbPath())
	require.NoError(t, err)
	defer database.Close()
	for _, d := range docs {
		_, err := db.InsertQcDoc(database, d)
		require.NoError(t, err)
	}
}

func (f cliFixture) log(t *testing.T, entries ...[2]string) {
	t.Helper()
	database, err := db.Open(f.dbPath())
	require.NoError(t, err)
	defer database.Close()
	for _, e := range entries {
		require.NoError(t, db.InsertOperationLog(database, "tester", e[0], e[1]))
	}
}

func (f cliFixture) run(args ...string) (string, error) {
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(f.dir, "config.toml"),
		"--db", f.dbPath(),
		"--log-file", "",
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var seedDocs = []model.NewQcDoc{
	{Name: "Liquichek L2", Lot: "45872", Position: "10"},
	{Name: "Liquichek L1", Lot: "45871", Position: "2"},
	{Name: "Immunoassay Plus", Lot: "40330"},
	{Name: "Cardiac Markers", Lot: "23011", Position: "1"},
}

func listedNames(t *testing.T, out string) []string {
	t.Helper()
	var docs []qcDocOutput
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names
}

func TestListSortOrders(t *testing.T) {
	f := newCLIFixture(t)
	f.seed(t, seedDocs...)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "insertion order",
			args: []string{"list", "-o", "json"},
			want: []string{"Liquichek L2", "Liquichek L1", "Immunoassay Plus", "Cardiac Markers"},
		},
		{
			name: "ascending by default",
			args: []string{"list", "--sort", "pos", "-o", "json"},
			want: []string{"Cardiac Markers", "Liquichek L1", "Liquichek L2", "Immunoassay Plus"},
		},
		{
			name: "descending keeps empty last",
			args: []string{"list", "--sort", "pos", "--order", "desc", "-o", "json"},
			want: []string{"Liquichek L2", "Liquichek L1", "Cardiac Markers", "Immunoassay Plus"},
		},
		{
			name: "none restores insertion order",
			args: []string{"list", "--sort", "pos", "--order", "none", "-o", "json"},
			want: []string{"Liquichek L2", "Liquichek L1", "Immunoassay Plus", "Cardiac Markers"},
		},
		{
			name: "case insensitive key and order",
			args: []string{"list", "--sort", "NAME", "--order", "Descending", "-o", "json"},
			want: []string{"Liquichek L2", "Liquichek L1", "Immunoassay Plus", "Cardiac Markers"},
		},
		{
			name: "filter",
			args: []string{"list", "--filter", "liquichek", "--sort", "pos", "-o", "json"},
			want: []string{"Liquichek L1", "Liquichek L2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.run(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, listedNames(t, out))
		})
	}
}

func TestListRejectsBadSortFlags(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run("list", "--sort", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "bogus"`)

	_, err = f.run("list", "--sort", "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "id" is not sortable`)

	_, err = f.run("list", "--order", "sideways")
	require.Error(t, err)
}

func TestListHonoursConfiguredUnsortableColumns(t *testing.T) {
	f := newCLIFixture(t)
	cfg := "[tables.qc_docs]\nunsortable = [\"id\", \"lot\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "config.toml"), []byte(cfg), 0644))

	_, err := f.run("list", "--sort", "lot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not sortable")
}

func TestListTableAndYAMLOutput(t *testing.T) {
	f := newCLIFixture(t)
	f.seed(t, seedDocs[:2]...)

	out, err := f.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Liquichek L1")
	assert.Contains(t, out, "45872")

	out, err = f.run("list", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Liquichek L2")
	assert.Contains(t, out, "position: \"10\"")
}

func TestOplog(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run("oplog")
	require.NoError(t, err)
	assert.Equal(t, "The operation log is empty.\n", out)

	f.log(t,
		[2]string{model.ActionRegister, "Liquichek L1 (lot 45871)"},
		[2]string{model.ActionSelect, "Liquichek L1"},
		[2]string{model.ActionUndo, "select Liquichek L1"},
	)

	out, err = f.run("oplog", "--limit", "2", "-o", "json")
	require.NoError(t, err)
	var logs []operationLogOutput
	require.NoError(t, json.Unmarshal([]byte(out), &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, model.ActionSelect, logs[0].Action)
	assert.Equal(t, model.ActionUndo, logs[1].Action)
	assert.Equal(t, "tester", logs[1].Operator)

	out, err = f.run("oplog")
	require.NoError(t, err)
	assert.Contains(t, out, "Liquichek L1 (lot 45871)")

	_, err = f.run("oplog", "--limit=-1")
	assert.Error(t, err)
}

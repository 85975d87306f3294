package rowsort

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"qcreg/internal/sortheader"
)

type row struct {
	seq  int64
	name string
	pos  string
}

func rowSeq(r row) int64 { return r.seq }
func rowName(r row) Value { return Text(r.name) }
func rowPos(r row) Value { return Text(r.pos) }

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func TestSortEmptyLastBothDirections(t *testing.T) {
	c := NewComparator("en")
	rows := []row{{seq: 1, name: ""}, {seq: 2, name: "ABC"}}

	Sort(c, rows, sortheader.Ascending, rowName, rowSeq)
	assert.Equal(t, []string{"ABC", ""}, names(rows))

	rows = []row{{seq: 1, name: ""}, {seq: 2, name: "ABC"}}
	Sort(c, rows, sortheader.Descending, rowName, rowSeq)
	assert.Equal(t, []string{"ABC", ""}, names(rows))
}

func TestSortNumericPositions(t *testing.T) {
	c := NewComparator("en")
	rows := []row{
		{seq: 1, name: "a", pos: "10"},
		{seq: 2, name: "b", pos: "2"},
		{seq: 3, name: "c", pos: ""},
		{seq: 4, name: "d", pos: "1"},
	}

	Sort(c, rows, sortheader.Ascending, rowPos, rowSeq)
	assert.Equal(t, []string{"d", "b", "a", "c"}, names(rows))

	Sort(c, rows, sortheader.Descending, rowPos, rowSeq)
	assert.Equal(t, []string{"a", "b", "d", "c"}, names(rows))
}

func TestSortNoneRestoresInsertionOrder(t *testing.T) {
	c := NewComparator("en")
	original := []row{
		{seq: 1, name: "zulu", pos: "3"},
		{seq: 2, name: "alpha", pos: ""},
		{seq: 3, name: "mike", pos: "1"},
	}
	rows := append([]row(nil), original...)

	Sort(c, rows, sortheader.Ascending, rowPos, rowSeq)
	Sort(c, rows, sortheader.Descending, rowPos, rowSeq)
	Sort(c, rows, sortheader.None, rowPos, rowSeq)
	if diff := cmp.Diff(original, rows, cmp.AllowUnexported(row{})); diff != "" {
		t.Errorf("restored order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortTiesKeepInsertionOrder(t *testing.T) {
	c := NewComparator("en")
	rows := []row{
		{seq: 3, name: "x", pos: "1"},
		{seq: 1, name: "y", pos: "1"},
		{seq: 2, name: "z", pos: "1"},
	}
	for _, order := range orders {
		Sort(c, rows, order, rowPos, rowSeq)
		assert.Equal(t, []string{"y", "z", "x"}, names(rows))
	}
}

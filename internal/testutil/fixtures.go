package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/csvtable/pkg/table"
)

// WriteCSV writes content to a file in a per-test temporary directory and
// returns its path.
func WriteCSV(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	return path
}

// ColumnValues concatenates the values of column name over every batch of tbl,
// in scan order. Nulls are reported as nil.
func ColumnValues(t testing.TB, tbl *table.Table, name string) []any {
	t.Helper()
	idx := tbl.Schema().FieldIndices(name)
	if len(idx) != 1 {
		t.Fatalf("column %q not found in %s", name, tbl.Schema())
	}

	var out []any
	for rec := range tbl.Records() {
		out = append(out, arrayValues(rec.Column(idx[0]))...)
	}
	return out
}

// BatchRows returns the row count of every batch of tbl, in scan order.
func BatchRows(tbl *table.Table) []int64 {
	var out []int64
	for rec := range tbl.Records() {
		out = append(out, rec.NumRows())
	}
	return out
}

func arrayValues(arr arrow.Array) []any {
	out := make([]any, arr.Len())
	for i := range out {
		if arr.IsNull(i) {
			continue
		}
		out[i] = arr.GetOneForMarshal(i)
	}
	return out
}

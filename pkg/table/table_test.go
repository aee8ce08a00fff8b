// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package table_test

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/arrowarc/csvtable/internal/testutil"
	"github.com/arrowarc/csvtable/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

func makeBatches(t *testing.T, mem memory.Allocator, sizes ...int) []arrow.Record {
	t.Helper()
	bld := array.NewRecordBuilder(mem, schema)
	defer bld.Release()

	var out []arrow.Record
	id := int64(0)
	for _, n := range sizes {
		for i := 0; i < n; i++ {
			bld.Field(0).(*array.Int64Builder).Append(id)
			if id%2 == 0 {
				bld.Field(1).(*array.StringBuilder).Append("even")
			} else {
				bld.Field(1).(*array.StringBuilder).AppendNull()
			}
			id++
		}
		out = append(out, bld.NewRecord())
	}
	return out
}

func TestTableScan(t *testing.T) {
	t.Parallel()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl, err := table.New(schema, [][]arrow.Record{makeBatches(t, mem, 2, 2, 1)})
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, int64(5), tbl.NumRows())
	assert.Equal(t, 3, tbl.NumBatches())

	// Scanning twice yields the same batches: the table is restartable.
	for pass := 0; pass < 2; pass++ {
		rdr, err := tbl.Scan()
		require.NoError(t, err)

		var sizes []int64
		for rdr.Next() {
			sizes = append(sizes, rdr.Record().NumRows())
		}
		assert.NoError(t, rdr.Err())
		rdr.Release()
		assert.Equal(t, []int64{2, 2, 1}, sizes, "pass %d", pass)
	}

	assert.Equal(t, []any{int64(0), int64(1), int64(2), int64(3), int64(4)}, testutil.ColumnValues(t, tbl, "id"))
	assert.Equal(t, []any{"even", nil, "even", nil, "even"}, testutil.ColumnValues(t, tbl, "name"))
}

func TestTableRejectsForeignSchema(t *testing.T) {
	t.Parallel()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	batches := makeBatches(t, mem, 1)
	defer batches[0].Release()

	other := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}, nil)
	_, err := table.New(other, [][]arrow.Record{batches})
	assert.ErrorIs(t, err, table.ErrSchemaMismatch)

	_, err = table.New(nil, nil)
	assert.Error(t, err)
}

func TestTableFingerprint(t *testing.T) {
	t.Parallel()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a, err := table.New(schema, [][]arrow.Record{makeBatches(t, mem, 4)})
	require.NoError(t, err)
	defer a.Release()
	b, err := table.New(schema, table.RowRangePartitions{N: 2}.Partition(makeBatches(t, mem, 1, 3)))
	require.NoError(t, err)
	defer b.Release()
	c, err := table.New(schema, [][]arrow.Record{makeBatches(t, mem, 3)})
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestTableScanPartition(t *testing.T) {
	t.Parallel()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl, err := table.New(schema, table.RowRangePartitions{N: 2}.Partition(makeBatches(t, mem, 1, 1, 1)))
	require.NoError(t, err)
	defer tbl.Release()

	rdr, err := tbl.ScanPartition(1)
	require.NoError(t, err)
	defer rdr.Release()
	require.True(t, rdr.Next())
	assert.Equal(t, int64(2), rdr.Record().Column(0).(*array.Int64).Value(0))
	assert.False(t, rdr.Next())

	_, err = tbl.ScanPartition(2)
	assert.Error(t, err)
}

func TestRowRangePartitions(t *testing.T) {
	t.Parallel()

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	batches := makeBatches(t, mem, 1, 1, 1, 1, 1)
	defer func() {
		for _, rec := range batches {
			rec.Release()
		}
	}()

	tests := []struct {
		n    int
		want []int
	}{
		{n: 0, want: []int{5}},
		{n: 1, want: []int{5}},
		{n: 2, want: []int{3, 2}},
		{n: 3, want: []int{2, 2, 1}},
		{n: 5, want: []int{1, 1, 1, 1, 1}},
		{n: 9, want: []int{1, 1, 1, 1, 1}},
	}
	for _, test := range tests {
		parts := table.RowRangePartitions{N: test.n}.Partition(batches)
		var got []int
		var flat []arrow.Record
		for _, p := range parts {
			got = append(got, len(p))
			flat = append(flat, p...)
		}
		assert.Equal(t, test.want, got, "n=%d", test.n)
		assert.Equal(t, batches, flat, "n=%d keeps batch order", test.n)
	}
}

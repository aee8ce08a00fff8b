package arrio_test

import (
	"errors"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/arrowarc/csvtable/internal/arrio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingWriter struct {
	rows int64
	fail error
}

func (w *countingWriter) Write(rec arrow.Record) error {
	if w.fail != nil {
		return w.fail
	}
	w.rows += rec.NumRows()
	return nil
}

func records(t *testing.T, mem memory.Allocator) (*arrow.Schema, []arrow.Record) {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{{Name: "v", Type: arrow.PrimitiveTypes.Int64}}, nil)
	bld := array.NewRecordBuilder(mem, schema)
	defer bld.Release()

	var recs []arrow.Record
	for i := 0; i < 3; i++ {
		bld.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
		recs = append(recs, bld.NewRecord())
	}
	return schema, recs
}

func TestCopy(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema, recs := records(t, mem)
	rdr, err := array.NewRecordReader(schema, recs)
	require.NoError(t, err)
	for _, rec := range recs {
		rec.Release()
	}
	defer rdr.Release()

	w := &countingWriter{}
	n, err := arrio.Copy(w, arrio.NewRecordReader(rdr))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int64(6), w.rows)
}

func TestCopyWriterError(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	schema, recs := records(t, mem)
	rdr, err := array.NewRecordReader(schema, recs)
	require.NoError(t, err)
	for _, rec := range recs {
		rec.Release()
	}
	defer rdr.Release()

	boom := errors.New("boom")
	n, err := arrio.Copy(&countingWriter{fail: boom}, arrio.NewRecordReader(rdr))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), n)
}

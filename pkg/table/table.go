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

// Package table holds fully materialized, partitioned Arrow tables.
package table

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"sync/atomic"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/cespare/xxhash/v2"
)

// ErrSchemaMismatch is returned when a batch does not carry the table schema.
var ErrSchemaMismatch = errors.New("batch schema does not match table schema")

// Table is a schema plus an ordered list of partitions, each an ordered list
// of record batches. A Table is immutable once built and may be scanned
// concurrently.
type Table struct {
	refs       int64
	schema     *arrow.Schema
	partitions [][]arrow.Record
}

// New builds a table from already sealed batches. The table takes over the
// caller's references to the batches.
func New(schema *arrow.Schema, partitions [][]arrow.Record) (*Table, error) {
	if schema == nil {
		return nil, errors.New("table schema cannot be nil")
	}
	for p, batches := range partitions {
		for b, rec := range batches {
			if !rec.Schema().Equal(schema) {
				return nil, fmt.Errorf("%w: partition %d batch %d: got %s", ErrSchemaMismatch, p, b, rec.Schema())
			}
		}
	}
	return &Table{refs: 1, schema: schema, partitions: partitions}, nil
}

// Schema returns the table schema.
func (t *Table) Schema() *arrow.Schema { return t.schema }

// NumPartitions returns the number of partitions.
func (t *Table) NumPartitions() int { return len(t.partitions) }

// Partition returns the batches of partition i. The slice must not be modified.
func (t *Table) Partition(i int) []arrow.Record { return t.partitions[i] }

// NumBatches returns the batch count over all partitions.
func (t *Table) NumBatches() int {
	n := 0
	for _, p := range t.partitions {
		n += len(p)
	}
	return n
}

// NumRows returns the row count over all partitions.
func (t *Table) NumRows() int64 {
	var n int64
	for _, p := range t.partitions {
		for _, rec := range p {
			n += rec.NumRows()
		}
	}
	return n
}

// Scan returns a reader over every batch of every partition in order. Each
// call starts from the first batch; the caller must Release the reader.
func (t *Table) Scan() (array.RecordReader, error) {
	recs := make([]arrow.Record, 0, t.NumBatches())
	for _, p := range t.partitions {
		recs = append(recs, p...)
	}
	return array.NewRecordReader(t.schema, recs)
}

// ScanPartition returns a reader over the batches of partition i.
func (t *Table) ScanPartition(i int) (array.RecordReader, error) {
	if i < 0 || i >= len(t.partitions) {
		return nil, fmt.Errorf("partition %d out of range [0, %d)", i, len(t.partitions))
	}
	return array.NewRecordReader(t.schema, t.partitions[i])
}

// Records yields every batch in order. Yielded records are only valid while
// the table is retained.
func (t *Table) Records() iter.Seq[arrow.Record] {
	return func(yield func(arrow.Record) bool) {
		for _, p := range t.partitions {
			for _, rec := range p {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// Fingerprint hashes the schema and every value of the table. Two tables with
// the same schema and contents in the same order share a fingerprint,
// regardless of how rows are split into batches.
func (t *Table) Fingerprint() uint64 {
	d := xxhash.New()
	d.WriteString(t.schema.String())
	for rec := range t.Records() {
		for i := 0; i < int(rec.NumRows()); i++ {
			d.WriteString("\n")
			for c, col := range rec.Columns() {
				if c > 0 {
					d.WriteString("\x1f")
				}
				if col.IsNull(i) {
					d.WriteString("\x00")
					continue
				}
				d.WriteString(strconv.Quote(col.ValueStr(i)))
			}
		}
	}
	return d.Sum64()
}

// Retain increases the reference count by 1.
func (t *Table) Retain() {
	atomic.AddInt64(&t.refs, 1)
}

// Release decreases the reference count by 1. When it reaches zero every batch
// is released.
func (t *Table) Release() {
	if atomic.AddInt64(&t.refs, -1) == 0 {
		for _, p := range t.partitions {
			for _, rec := range p {
				rec.Release()
			}
		}
		t.partitions = nil
	}
}

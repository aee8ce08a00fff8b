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

package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/arrowarc/csvtable/internal/memory"
	"github.com/arrowarc/csvtable/pkg/source"
	"github.com/arrowarc/csvtable/pkg/table"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Ingestion states, as reported in debug logs.
const (
	stateStart          = "start"
	stateSchemaResolved = "schema_resolved"
	stateReading        = "reading"
	stateSealed         = "sealed"
	stateAssembled      = "assembled"
	stateFailed         = "failed"
)

// ToMemTable resolves the schema of src and ingests the whole file into an
// in-memory table. The file is read twice when the schema is inferred.
func ToMemTable(ctx context.Context, src source.TableSource, opts ReadOptions) (*table.Table, error) {
	logger := log.With(opts.logger(), "table", src.Name, "path", src.URI)
	level.Debug(logger).Log("state", stateStart)

	schema, err := ResolveSchema(ctx, src, opts)
	if err != nil {
		level.Debug(logger).Log("state", stateFailed, "err", err)
		return nil, err
	}
	return Ingest(ctx, src, schema, opts)
}

// Ingest parses every data row of src into batches of opts.BatchSize rows
// typed by schema, and assembles them into a table. Any malformed row aborts
// the ingestion; no partial table is returned.
//
// With a projection the table schema holds only the projected columns, in the
// requested order. Fields outside the projection are counted but not parsed.
func Ingest(ctx context.Context, src source.TableSource, schema *arrow.Schema, opts ReadOptions) (*table.Table, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrSchema)
	}
	if err := uniqueFields(schema); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := log.With(opts.logger(), "table", src.Name, "path", src.URI)
	level.Debug(logger).Log("state", stateSchemaResolved, "columns", schema.NumFields())

	outSchema, columns, err := project(schema, opts.Projection)
	if err != nil {
		return nil, err
	}

	mem, done := memory.Resolve(opts.Allocator)
	defer done()

	bld := array.NewRecordBuilder(mem, outSchema)
	defer bld.Release()

	appenders := make([]columnAppender, len(columns))
	for i := range columns {
		appenders[i], err = newColumnAppender(outSchema.Field(i), bld.Field(i), &opts)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %w", ErrSchema, outSchema.Field(i).Name, err)
		}
	}

	file, err := openSource(src.URI)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var batches []arrow.Record
	fail := func(err error) (*table.Table, error) {
		for _, rec := range batches {
			rec.Release()
		}
		level.Debug(logger).Log("state", stateFailed, "batches_discarded", len(batches), "err", err)
		return nil, err
	}

	reader := newRowReader(file, &opts)
	if opts.HasHeader {
		if _, err := reader.Read(); err != nil && !errors.Is(err, io.EOF) {
			return fail(readError(err, 0))
		}
	}

	width := schema.NumFields()
	rows, pending := 0, 0
	level.Debug(logger).Log("state", stateReading, "batch", 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rows++
		if err != nil {
			return fail(readError(err, rows))
		}

		line, _ := reader.FieldPos(0)
		if len(record) != width {
			return fail(&RowError{
				Row:  rows,
				Line: line,
				Kind: ErrRowShape,
				Err:  fmt.Errorf("got %d fields, schema has %d columns", len(record), width),
			})
		}

		for i, col := range columns {
			if err := appenders[i](record[col]); err != nil {
				return fail(&RowError{
					Row:    rows,
					Line:   line,
					Column: outSchema.Field(i).Name,
					Kind:   ErrFieldType,
					Err:    fmt.Errorf("%q as %s: %w", record[col], outSchema.Field(i).Type, err),
				})
			}
		}

		pending++
		if pending == opts.BatchSize {
			batches = append(batches, bld.NewRecord())
			pending = 0
			level.Debug(logger).Log("state", stateSealed, "batch", len(batches)-1, "rows", opts.BatchSize)
			level.Debug(logger).Log("state", stateReading, "batch", len(batches))
		}
	}
	if pending > 0 {
		batches = append(batches, bld.NewRecord())
		level.Debug(logger).Log("state", stateSealed, "batch", len(batches)-1, "rows", pending)
	}

	tbl, err := table.New(outSchema, opts.partitioner().Partition(batches))
	if err != nil {
		return fail(err)
	}

	level.Debug(logger).Log("state", stateAssembled, "rows", rows, "batches", len(batches), "partitions", tbl.NumPartitions())
	return tbl, nil
}

// project validates the requested column names against schema and returns
// the output schema with the source position of each output column.
func project(schema *arrow.Schema, projection []string) (*arrow.Schema, []int, error) {
	if projection == nil {
		columns := make([]int, schema.NumFields())
		for i := range columns {
			columns[i] = i
		}
		return schema, columns, nil
	}
	if len(projection) == 0 {
		return nil, nil, fmt.Errorf("%w: empty projection", ErrProjection)
	}

	seen := make(map[string]struct{}, len(projection))
	columns := make([]int, len(projection))
	fields := make([]arrow.Field, len(projection))
	for i, name := range projection {
		if _, dup := seen[name]; dup {
			return nil, nil, fmt.Errorf("%w: column %q requested twice", ErrProjection, name)
		}
		seen[name] = struct{}{}

		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return nil, nil, fmt.Errorf("%w: column %q not in schema %s", ErrProjection, name, fieldNames(schema))
		}
		columns[i] = idx[0]
		fields[i] = schema.Field(idx[0])
	}

	meta := schema.Metadata()
	return arrow.NewSchema(fields, &meta), columns, nil
}

func uniqueFields(schema *arrow.Schema) error {
	seen := make(map[string]struct{}, schema.NumFields())
	for _, f := range schema.Fields() {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrSchema, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func fieldNames(schema *arrow.Schema) []string {
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	return names
}

// readError classifies an error returned by the row reader.
func readError(err error, row int) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &RowError{Row: row, Line: perr.Line, Kind: ErrRowShape, Err: perr.Err}
	}
	return fmt.Errorf("%w: %w", ErrSourceNotFound, err)
}

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

// Package sink prints Arrow records to an io.Writer in a chosen text or
// binary format.
package sink

import (
	"bufio"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/arrowarc/csvtable/internal/json"
)

// Output formats accepted by New.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatArrow = "arrow"
)

// RecordWriter writes records and must be closed to flush its output.
type RecordWriter interface {
	Write(rec arrow.Record) error
	Close() error
}

// New returns a writer for format. The writer does not close w.
func New(format string, w io.Writer, schema *arrow.Schema, delimiter rune) (RecordWriter, error) {
	switch format {
	case "", FormatCSV:
		return NewCSVRecordWriter(w, schema, delimiter), nil
	case FormatJSON:
		return NewJSONRecordWriter(w), nil
	case FormatArrow:
		return NewIPCRecordWriter(w, schema), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// CSVRecordWriter writes records as delimited text with a header row.
type CSVRecordWriter struct {
	writer *csv.Writer
}

func NewCSVRecordWriter(w io.Writer, schema *arrow.Schema, delimiter rune) *CSVRecordWriter {
	writer := csv.NewWriter(w, schema,
		csv.WithComma(delimiter),
		csv.WithHeader(true),
		csv.WithNullWriter(""),
	)
	return &CSVRecordWriter{writer: writer}
}

func (w *CSVRecordWriter) Write(record arrow.Record) error {
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record to CSV: %w", err)
	}
	return nil
}

// Close flushes buffered rows.
func (w *CSVRecordWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("CSV writer encountered an error: %w", err)
	}
	return nil
}

// JSONRecordWriter writes one JSON object per row, keys in column order.
type JSONRecordWriter struct {
	w *bufio.Writer
}

func NewJSONRecordWriter(w io.Writer) *JSONRecordWriter {
	return &JSONRecordWriter{w: bufio.NewWriter(w)}
}

func (w *JSONRecordWriter) Write(record arrow.Record) error {
	schema := record.Schema()
	keys := make([][]byte, schema.NumFields())
	for i, f := range schema.Fields() {
		key, err := json.Marshal(f.Name)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	for row := 0; row < int(record.NumRows()); row++ {
		w.w.WriteByte('{')
		for c, col := range record.Columns() {
			if c > 0 {
				w.w.WriteByte(',')
			}
			w.w.Write(keys[c])
			w.w.WriteByte(':')

			value, err := json.Marshal(col.GetOneForMarshal(row))
			if err != nil {
				return fmt.Errorf("failed to encode column %q: %w", schema.Field(c).Name, err)
			}
			w.w.Write(value)
		}
		if _, err := w.w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return nil
}

func (w *JSONRecordWriter) Close() error {
	return w.w.Flush()
}

// IPCRecordWriter writes an Arrow IPC stream.
type IPCRecordWriter struct {
	writer *ipc.Writer
}

func NewIPCRecordWriter(w io.Writer, schema *arrow.Schema) *IPCRecordWriter {
	mem := memory.NewGoAllocator()
	return &IPCRecordWriter{writer: ipc.NewWriter(w, ipc.WithAllocator(mem), ipc.WithSchema(schema))}
}

func (w *IPCRecordWriter) Write(record arrow.Record) error {
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("could not write record: %w", err)
	}
	return nil
}

func (w *IPCRecordWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("could not close writer: %w", err)
	}
	return nil
}

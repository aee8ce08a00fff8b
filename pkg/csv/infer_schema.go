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
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/go-kit/log/level"
)

// valueKind is the narrowest type a sampled value fits in.
type valueKind int

const (
	kindUnknown valueKind = iota
	kindBoolean
	kindInteger
	kindFloat
	kindDate
	kindTimestamp
	kindString
)

var (
	integerPattern = regexp.MustCompile(`^[-+]?\d+$`)
	floatPattern   = regexp.MustCompile(`^[-+]?(\d+\.\d*|\.\d+|\d+)([eE][-+]?\d+)?$`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// InferSchema reads the CSV file at filePath and derives an Arrow schema from
// its values. With a header the first row names the columns; otherwise they
// are called field1..fieldN. Every inferred field is nullable.
//
// The whole file is sampled unless opts.InferenceRows is set.
func InferSchema(ctx context.Context, filePath string, opts ReadOptions) (*arrow.Schema, error) {
	if err := opts.validateParsing(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := openSource(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	defer file.Close()

	reader := newRowReader(file, &opts)

	var headers []string
	first, err := reader.Read()
	switch {
	case errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: %s is empty", ErrSchema, filePath)
	case err != nil:
		return nil, fmt.Errorf("%w: failed to read first row: %w", ErrSchema, err)
	}
	first = append([]string(nil), first...)

	if opts.HasHeader {
		headers = first
		if err := checkHeader(headers); err != nil {
			return nil, err
		}
	} else {
		for i := range first {
			headers = append(headers, fmt.Sprintf("field%d", i+1))
		}
	}

	kinds := make([]valueKind, len(headers))
	observe := func(row []string) error {
		if len(row) != len(headers) {
			line, _ := reader.FieldPos(0)
			return fmt.Errorf("%w: %w: line %d has %d fields, expected %d", ErrSchema, ErrRowShape, line, len(row), len(headers))
		}
		for i, value := range row {
			if opts.isNull(value) {
				continue
			}
			kinds[i] = mergeKinds(kinds[i], classify(value, opts.InferTemporal))
		}
		return nil
	}

	rows := 0
	if !opts.HasHeader {
		if err := observe(first); err != nil {
			return nil, err
		}
		rows++
	}

	for opts.InferenceRows == 0 || rows < opts.InferenceRows {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchema, err)
		}
		if err := observe(row); err != nil {
			return nil, err
		}
		rows++
	}

	fields := make([]arrow.Field, len(headers))
	for i, name := range headers {
		fields[i] = arrow.Field{Name: name, Type: kinds[i].dataType(), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	level.Debug(opts.logger()).Log("msg", "inferred schema", "path", filePath, "rows_sampled", rows, "schema", schema)
	return schema, nil
}

func checkHeader(headers []string) error {
	seen := make(map[string]struct{}, len(headers))
	for i, name := range headers {
		if name == "" {
			return fmt.Errorf("%w: header column %d is empty", ErrSchema, i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate header column %q", ErrSchema, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// classify returns the narrowest kind that value parses as.
func classify(value string, temporal bool) valueKind {
	switch {
	case strings.EqualFold(value, "true"), strings.EqualFold(value, "false"):
		return kindBoolean
	case integerPattern.MatchString(value):
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			return kindInteger
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return kindFloat
		}
		return kindString
	case floatPattern.MatchString(value):
		// Out of range for float64, e.g. 1e400.
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return kindFloat
		}
		return kindString
	}

	if temporal {
		if datePattern.MatchString(value) {
			if _, err := time.Parse(time.DateOnly, value); err == nil {
				return kindDate
			}
		}
		if strings.ContainsAny(value, "T ") {
			if _, err := arrow.TimestampFromString(value, arrow.Millisecond); err == nil {
				return kindTimestamp
			}
		}
	}
	return kindString
}

// mergeKinds widens a column kind with the kind of one more value.
func mergeKinds(a, b valueKind) valueKind {
	switch {
	case a == kindUnknown:
		return b
	case b == kindUnknown, a == b:
		return a
	case isNumeric(a) && isNumeric(b):
		return kindFloat
	case isTemporal(a) && isTemporal(b):
		return kindTimestamp
	default:
		return kindString
	}
}

func isNumeric(k valueKind) bool  { return k == kindInteger || k == kindFloat }
func isTemporal(k valueKind) bool { return k == kindDate || k == kindTimestamp }

func (k valueKind) dataType() arrow.DataType {
	switch k {
	case kindBoolean:
		return arrow.FixedWidthTypes.Boolean
	case kindInteger:
		return arrow.PrimitiveTypes.Int64
	case kindFloat:
		return arrow.PrimitiveTypes.Float64
	case kindDate:
		return arrow.FixedWidthTypes.Date32
	case kindTimestamp:
		return arrow.FixedWidthTypes.Timestamp_ms
	default:
		return arrow.BinaryTypes.String
	}
}

// openSource opens path for reading, reporting failures as ErrSourceNotFound.
func openSource(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrSourceNotFound)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	return f, nil
}

const byteOrderMark = "\ufeff"

func newRowReader(r io.Reader, opts *ReadOptions) *csv.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(byteOrderMark)); err == nil && string(prefix) == byteOrderMark {
		br.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(br)
	reader.Comma = opts.Delimiter
	reader.Comment = opts.Comment
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	return reader
}

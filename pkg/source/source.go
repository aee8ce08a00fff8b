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

// Package source describes where a table comes from: a single delimited text
// file and, optionally, the schema its owner declared for it.
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
)

// ErrInvalidSchema is returned when a declared schema cannot be converted.
var ErrInvalidSchema = errors.New("invalid declared schema")

// TableSource identifies a single text file by path and carries an optional
// declared schema.
type TableSource struct {
	Name   string       `yaml:"name"`
	URI    string       `yaml:"uri"`
	Schema *TableSchema `yaml:"schema,omitempty"`
}

// TableSchema is a schema as written by a user in configuration.
type TableSchema struct {
	Columns []Column `yaml:"columns"`
}

// Column is one declared column.
type Column struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type"`
	Nullable bool   `yaml:"nullable"`
}

// HasSchema reports whether the source carries a declared schema.
func (s TableSource) HasSchema() bool {
	return s.Schema != nil
}

// ToArrow converts the declared schema into an Arrow schema. Column order is
// preserved; names must be non-empty and unique.
func (ts *TableSchema) ToArrow() (*arrow.Schema, error) {
	if ts == nil || len(ts.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns declared", ErrInvalidSchema)
	}

	seen := make(map[string]struct{}, len(ts.Columns))
	fields := make([]arrow.Field, len(ts.Columns))
	for i, col := range ts.Columns {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrInvalidSchema, i)
		}
		if _, dup := seen[col.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, col.Name)
		}
		seen[col.Name] = struct{}{}

		dt, err := ParseDataType(col.DataType)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %w", ErrInvalidSchema, col.Name, err)
		}
		fields[i] = arrow.Field{Name: col.Name, Type: dt, Nullable: col.Nullable}
	}

	return arrow.NewSchema(fields, nil), nil
}

// ParseDataType maps a declared type name to an Arrow data type. Matching is
// case-insensitive.
func ParseDataType(name string) (arrow.DataType, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "boolean", "bool":
		return arrow.FixedWidthTypes.Boolean, nil
	case "int8":
		return arrow.PrimitiveTypes.Int8, nil
	case "int16":
		return arrow.PrimitiveTypes.Int16, nil
	case "int32":
		return arrow.PrimitiveTypes.Int32, nil
	case "int64", "integer", "int":
		return arrow.PrimitiveTypes.Int64, nil
	case "uint8":
		return arrow.PrimitiveTypes.Uint8, nil
	case "uint16":
		return arrow.PrimitiveTypes.Uint16, nil
	case "uint32":
		return arrow.PrimitiveTypes.Uint32, nil
	case "uint64":
		return arrow.PrimitiveTypes.Uint64, nil
	case "float32", "float":
		return arrow.PrimitiveTypes.Float32, nil
	case "float64", "double":
		return arrow.PrimitiveTypes.Float64, nil
	case "utf8", "string":
		return arrow.BinaryTypes.String, nil
	case "large_utf8", "large_string":
		return arrow.BinaryTypes.LargeString, nil
	case "date32", "date":
		return arrow.FixedWidthTypes.Date32, nil
	case "date64":
		return arrow.FixedWidthTypes.Date64, nil
	case "timestamp", "timestamp[ms]":
		return arrow.FixedWidthTypes.Timestamp_ms, nil
	case "timestamp[s]":
		return arrow.FixedWidthTypes.Timestamp_s, nil
	case "timestamp[us]":
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case "timestamp[ns]":
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	case "":
		return nil, errors.New("missing data type")
	default:
		return nil, fmt.Errorf("unsupported data type %q", name)
	}
}

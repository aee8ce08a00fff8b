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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

var errNullNotAllowed = errors.New("null value in non-nullable column")

// columnAppender converts one text field and appends it to a column builder.
type columnAppender func(value string) error

type appendable[T any] interface {
	Append(T)
}

func newColumnAppender(field arrow.Field, b array.Builder, opts *ReadOptions) (columnAppender, error) {
	parse, err := valueParser(field.Type, b)
	if err != nil {
		return nil, err
	}

	nullable := field.Nullable
	honourNulls := opts.StringsCanBeNull || !isStringType(field.Type)
	return func(value string) error {
		if honourNulls && opts.isNull(value) {
			if !nullable {
				return errNullNotAllowed
			}
			b.AppendNull()
			return nil
		}
		return parse(value)
	}, nil
}

func isStringType(dt arrow.DataType) bool {
	return dt.ID() == arrow.STRING || dt.ID() == arrow.LARGE_STRING
}

func valueParser(dt arrow.DataType, b array.Builder) (columnAppender, error) {
	switch dt.ID() {
	case arrow.BOOL:
		bld := b.(*array.BooleanBuilder)
		return func(v string) error {
			x, err := parseBool(v)
			if err != nil {
				return err
			}
			bld.Append(x)
			return nil
		}, nil
	case arrow.INT8:
		return signed[int8](b.(*array.Int8Builder), 8), nil
	case arrow.INT16:
		return signed[int16](b.(*array.Int16Builder), 16), nil
	case arrow.INT32:
		return signed[int32](b.(*array.Int32Builder), 32), nil
	case arrow.INT64:
		return signed[int64](b.(*array.Int64Builder), 64), nil
	case arrow.UINT8:
		return unsigned[uint8](b.(*array.Uint8Builder), 8), nil
	case arrow.UINT16:
		return unsigned[uint16](b.(*array.Uint16Builder), 16), nil
	case arrow.UINT32:
		return unsigned[uint32](b.(*array.Uint32Builder), 32), nil
	case arrow.UINT64:
		return unsigned[uint64](b.(*array.Uint64Builder), 64), nil
	case arrow.FLOAT32:
		return floating[float32](b.(*array.Float32Builder), 32), nil
	case arrow.FLOAT64:
		return floating[float64](b.(*array.Float64Builder), 64), nil
	case arrow.STRING:
		bld := b.(*array.StringBuilder)
		return func(v string) error {
			bld.Append(v)
			return nil
		}, nil
	case arrow.LARGE_STRING:
		bld := b.(*array.LargeStringBuilder)
		return func(v string) error {
			bld.Append(v)
			return nil
		}, nil
	case arrow.DATE32:
		bld := b.(*array.Date32Builder)
		return func(v string) error {
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return err
			}
			bld.Append(arrow.Date32FromTime(t))
			return nil
		}, nil
	case arrow.DATE64:
		bld := b.(*array.Date64Builder)
		return func(v string) error {
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return err
			}
			bld.Append(arrow.Date64FromTime(t))
			return nil
		}, nil
	case arrow.TIMESTAMP:
		bld := b.(*array.TimestampBuilder)
		unit := dt.(*arrow.TimestampType).Unit
		return func(v string) error {
			ts, err := arrow.TimestampFromString(v, unit)
			if err != nil {
				return err
			}
			bld.Append(ts)
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported column type %s", dt)
	}
}

func parseBool(v string) (bool, error) {
	switch {
	case strings.EqualFold(v, "true"):
		return true, nil
	case strings.EqualFold(v, "false"):
		return false, nil
	}
	return strconv.ParseBool(v)
}

func signed[T int8 | int16 | int32 | int64](b appendable[T], bits int) columnAppender {
	return func(v string) error {
		x, err := strconv.ParseInt(v, 10, bits)
		if err != nil {
			return err
		}
		b.Append(T(x))
		return nil
	}
}

func unsigned[T uint8 | uint16 | uint32 | uint64](b appendable[T], bits int) columnAppender {
	return func(v string) error {
		x, err := strconv.ParseUint(v, 10, bits)
		if err != nil {
			return err
		}
		b.Append(T(x))
		return nil
	}
}

func floating[T float32 | float64](b appendable[T], bits int) columnAppender {
	return func(v string) error {
		x, err := strconv.ParseFloat(v, bits)
		if err != nil {
			return err
		}
		b.Append(T(x))
		return nil
	}
}

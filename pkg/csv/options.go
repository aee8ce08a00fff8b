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
	"fmt"
	"unicode/utf8"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/arrowarc/csvtable/pkg/table"
	"github.com/go-kit/log"
)

const (
	DefaultDelimiter = ','
	DefaultBatchSize = 1024
)

// ReadOptions configures both schema inference and ingestion. Build it with
// DefaultReadOptions and override fields as needed.
type ReadOptions struct {
	HasHeader bool
	Delimiter rune
	BatchSize int

	// Projection limits output columns, in the given order. Nil reads every column.
	Projection []string

	// NullValues are the tokens read as null. Strings columns only honour
	// them when StringsCanBeNull is set.
	NullValues       []string
	StringsCanBeNull bool

	// InferenceRows caps the data rows sampled by InferSchema; 0 reads the
	// whole file.
	InferenceRows int
	// InferTemporal lets InferSchema pick date and timestamp types.
	InferTemporal bool

	LazyQuotes bool
	Comment    rune

	Partitioner table.Partitioner
	Allocator   memory.Allocator
	Logger      log.Logger
}

// DefaultReadOptions returns comma separated input with a header row, 1024
// rows per batch and a single partition.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		HasHeader:   true,
		Delimiter:   DefaultDelimiter,
		BatchSize:   DefaultBatchSize,
		NullValues:  []string{""},
		Partitioner: table.SinglePartition{},
		Logger:      log.NewNopLogger(),
	}
}

func (o *ReadOptions) validate() error {
	if o.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be greater than zero, got %d", ErrInvalidOptions, o.BatchSize)
	}
	return o.validateParsing()
}

// validateParsing checks the options shared by inference and ingestion.
func (o *ReadOptions) validateParsing() error {
	if err := validDelimiter(o.Delimiter); err != nil {
		return err
	}
	if o.Comment != 0 {
		if !isSingleByte(o.Comment) {
			return fmt.Errorf("%w: comment must be a single byte other than quote or newline, got %q", ErrInvalidOptions, o.Comment)
		}
		if o.Comment == o.Delimiter {
			return fmt.Errorf("%w: comment and delimiter are both %q", ErrInvalidOptions, o.Comment)
		}
	}
	if o.InferenceRows < 0 {
		return fmt.Errorf("%w: inference rows cannot be negative, got %d", ErrInvalidOptions, o.InferenceRows)
	}
	return nil
}

func validDelimiter(d rune) error {
	if !isSingleByte(d) {
		return fmt.Errorf("%w: delimiter must be a single byte other than quote or newline, got %q", ErrInvalidOptions, d)
	}
	return nil
}

func isSingleByte(r rune) bool {
	return r != 0 && r < utf8.RuneSelf && r != '"' && r != '\r' && r != '\n'
}

func (o *ReadOptions) logger() log.Logger {
	if o.Logger == nil {
		return log.NewNopLogger()
	}
	return o.Logger
}

func (o *ReadOptions) partitioner() table.Partitioner {
	if o.Partitioner == nil {
		return table.SinglePartition{}
	}
	return o.Partitioner
}

func (o *ReadOptions) isNull(v string) bool {
	for _, n := range o.NullValues {
		if v == n {
			return true
		}
	}
	return false
}

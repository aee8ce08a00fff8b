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
)

var (
	// ErrSourceNotFound reports a missing or unreadable source file.
	ErrSourceNotFound = errors.New("csv: source not found")
	// ErrSchema reports an invalid declared schema or a failed inference.
	ErrSchema = errors.New("csv: schema error")
	// ErrRowShape reports a row whose field count differs from the schema.
	ErrRowShape = errors.New("csv: row shape mismatch")
	// ErrFieldType reports a field that cannot be converted to its column type.
	ErrFieldType = errors.New("csv: field type mismatch")
	// ErrProjection reports a projected column that is not in the schema.
	ErrProjection = errors.New("csv: projection error")
	// ErrInvalidOptions reports unusable read options.
	ErrInvalidOptions = errors.New("csv: invalid options")
)

// RowError identifies the row that stopped an ingestion.
type RowError struct {
	Row    int    // 1-based data row, header excluded
	Line   int    // 1-based line in the file
	Column string // empty for shape errors
	Kind   error  // ErrRowShape or ErrFieldType
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%v: row %d (line %d), column %q: %v", e.Kind, e.Row, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%v: row %d (line %d): %v", e.Kind, e.Row, e.Line, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

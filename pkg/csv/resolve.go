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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/csvtable/pkg/source"
	"github.com/go-kit/log/level"
)

// ResolveSchema returns the schema of src: its declared schema converted to
// Arrow when present, without touching the file, and an inferred one
// otherwise.
func ResolveSchema(ctx context.Context, src source.TableSource, opts ReadOptions) (*arrow.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if src.HasSchema() {
		schema, err := src.Schema.ToArrow()
		if err != nil {
			return nil, fmt.Errorf("%w: table %q: %w", ErrSchema, src.Name, err)
		}
		level.Debug(opts.logger()).Log("msg", "using declared schema", "table", src.Name, "columns", schema.NumFields())
		return schema, nil
	}

	return InferSchema(ctx, src.URI, opts)
}

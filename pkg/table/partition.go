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

package table

import "github.com/apache/arrow/go/v17/arrow"

// Partitioner groups the ordered batches of one ingestion into partitions.
// Implementations must keep batch order: concatenating the returned
// partitions yields the input slice.
type Partitioner interface {
	Partition(batches []arrow.Record) [][]arrow.Record
}

// SinglePartition places every batch in one partition.
type SinglePartition struct{}

func (SinglePartition) Partition(batches []arrow.Record) [][]arrow.Record {
	return [][]arrow.Record{batches}
}

// RowRangePartitions splits the batches into at most N contiguous partitions
// of near equal batch count. N <= 1 behaves like SinglePartition.
type RowRangePartitions struct {
	N int
}

func (p RowRangePartitions) Partition(batches []arrow.Record) [][]arrow.Record {
	if p.N <= 1 || len(batches) <= 1 {
		return SinglePartition{}.Partition(batches)
	}

	n := min(p.N, len(batches))
	parts := make([][]arrow.Record, 0, n)
	size, rem := len(batches)/n, len(batches)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		parts = append(parts, batches[start:end:end])
		start = end
	}
	return parts
}

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

// Package catalog loads every table of a configuration into memory.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arrowarc/csvtable/pkg/common/config"
	"github.com/arrowarc/csvtable/pkg/csv"
	"github.com/arrowarc/csvtable/pkg/table"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"
)

// Catalog maps table names to loaded tables.
type Catalog struct {
	names  []string
	tables map[string]*table.Table
}

// Load ingests every configured table. Tables are loaded concurrently, each
// with its own file handles and allocator; the first failure aborts the load
// and releases whatever was already built.
func Load(ctx context.Context, cfg *config.Config, logger log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	var (
		mu     sync.Mutex
		tables = make(map[string]*table.Table, len(cfg.Tables))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range cfg.Tables {
		t := t
		g.Go(func() error {
			start := time.Now()
			tbl, err := csv.ToMemTable(gctx, t.TableSource, ReadOptions(t, logger))
			if err != nil {
				return fmt.Errorf("failed to load table %q: %w", t.Name, err)
			}

			level.Info(logger).Log("msg", "table loaded", "table", t.Name, "rows", tbl.NumRows(), "batches", tbl.NumBatches(), "duration", time.Since(start))

			mu.Lock()
			tables[t.Name] = tbl
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, tbl := range tables {
			tbl.Release()
		}
		level.Error(logger).Log("msg", "catalog load failed", "err", err)
		return nil, err
	}

	names := make([]string, len(cfg.Tables))
	for i, t := range cfg.Tables {
		names[i] = t.Name
	}
	return &Catalog{names: names, tables: tables}, nil
}

// ReadOptions converts the configured CSV options of t, starting from
// csv.DefaultReadOptions.
func ReadOptions(t config.Table, logger log.Logger) csv.ReadOptions {
	opts := csv.DefaultReadOptions()
	if logger != nil {
		opts.Logger = logger
	}

	c := t.CSV
	if c.HasHeader != nil {
		opts.HasHeader = *c.HasHeader
	}
	if c.Delimiter != "" {
		opts.Delimiter = rune(c.Delimiter[0])
	}
	if c.BatchSize > 0 {
		opts.BatchSize = c.BatchSize
	}
	if len(c.Projection) > 0 {
		opts.Projection = c.Projection
	}
	if c.NullValues != nil {
		opts.NullValues = c.NullValues
	}
	opts.StringsCanBeNull = c.StringsCanBeNull
	opts.InferenceRows = c.InferenceRows
	opts.InferTemporal = c.InferTemporal
	opts.LazyQuotes = c.LazyQuotes
	if c.Partitions > 1 {
		opts.Partitioner = table.RowRangePartitions{N: c.Partitions}
	}
	return opts
}

// Names returns the table names in configuration order.
func (c *Catalog) Names() []string {
	return c.names
}

// Table returns the table named name.
func (c *Catalog) Table(name string) (*table.Table, bool) {
	tbl, ok := c.tables[name]
	return tbl, ok
}

// Release releases every table of the catalog.
func (c *Catalog) Release() {
	for _, tbl := range c.tables {
		tbl.Release()
	}
	c.tables = nil
}

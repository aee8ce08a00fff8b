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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/arrowarc/csvtable/internal/arrio"
	"github.com/arrowarc/csvtable/internal/json"
	"github.com/arrowarc/csvtable/internal/logging"
	"github.com/arrowarc/csvtable/internal/sink"
	"github.com/arrowarc/csvtable/internal/ui"
	"github.com/arrowarc/csvtable/pkg/catalog"
	"github.com/arrowarc/csvtable/pkg/common/config"
	"github.com/arrowarc/csvtable/pkg/csv"
	"github.com/arrowarc/csvtable/pkg/source"
	"github.com/arrowarc/csvtable/pkg/table"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
)

const usage = `CSV table loader.

Usage:
  csvtable schema <file> [--delimiter=<char>] [--no-header] [--infer-temporal] [--log-level=<level>]
  csvtable scan <file> [--delimiter=<char>] [--no-header] [--infer-temporal] [--batch-size=<n>] [--columns=<list>] [--format=<fmt>] [--log-level=<level>]
  csvtable load --config=<file> [--table=<name>] [--format=<fmt>]
  csvtable -h | --help

Options:
  -h --help              Show this screen.
  --delimiter=<char>     Field delimiter of the input [default: ,].
  --no-header            The first row is data, not column names.
  --infer-temporal       Infer date and timestamp columns.
  --batch-size=<n>       Rows per record batch [default: 1024].
  --columns=<list>       Comma separated columns to keep, in output order.
  --format=<fmt>         Output format: csv, json or arrow [default: csv].
  --log-level=<level>    debug, info, warn or error [default: info].
  --config=<file>        YAML file describing the tables to load.
  --table=<name>         Table to print after loading.
`

func main() {
	arguments, err := docopt.ParseDoc(usage)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Errorf("parsing arguments: %v", err))
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, arguments, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, ui.Errorf("%v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, arguments docopt.Opts, stdout, stderr io.Writer) error {
	switch {
	case isSet(arguments, "schema"):
		return runSchema(ctx, arguments, stdout, stderr)
	case isSet(arguments, "scan"):
		return runScan(ctx, arguments, stdout, stderr)
	case isSet(arguments, "load"):
		return runLoad(ctx, arguments, stdout, stderr)
	}
	return fmt.Errorf("no command given")
}

func isSet(arguments docopt.Opts, key string) bool {
	v, _ := arguments.Bool(key)
	return v
}

func readOptions(arguments docopt.Opts, stderr io.Writer) (csv.ReadOptions, error) {
	opts := csv.DefaultReadOptions()

	lvl, _ := arguments.String("--log-level")
	logger, err := logging.New(stderr, lvl)
	if err != nil {
		return opts, err
	}
	opts.Logger = logger

	delimiter, _ := arguments.String("--delimiter")
	if len(delimiter) != 1 {
		return opts, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	opts.Delimiter = rune(delimiter[0])
	opts.HasHeader = !isSet(arguments, "--no-header")
	opts.InferTemporal = isSet(arguments, "--infer-temporal")

	if _, ok := arguments["--batch-size"]; ok {
		if opts.BatchSize, err = arguments.Int("--batch-size"); err != nil {
			return opts, fmt.Errorf("invalid --batch-size: %w", err)
		}
	}
	if columns, err := arguments.String("--columns"); err == nil && columns != "" {
		opts.Projection = strings.Split(columns, ",")
	}
	return opts, nil
}

func runSchema(ctx context.Context, arguments docopt.Opts, stdout, stderr io.Writer) error {
	path, _ := arguments.String("<file>")
	opts, err := readOptions(arguments, stderr)
	if err != nil {
		return err
	}

	schema, err := csv.InferSchema(ctx, path, opts)
	if err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(describe(schema))
}

type columnDescription struct {
	Name     string `json:"name"`
	Type     string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

func describe(schema *arrow.Schema) []columnDescription {
	out := make([]columnDescription, schema.NumFields())
	for i, f := range schema.Fields() {
		out[i] = columnDescription{Name: f.Name, Type: f.Type.String(), Nullable: f.Nullable}
	}
	return out
}

func runScan(ctx context.Context, arguments docopt.Opts, stdout, stderr io.Writer) error {
	path, _ := arguments.String("<file>")
	format, _ := arguments.String("--format")
	opts, err := readOptions(arguments, stderr)
	if err != nil {
		return err
	}

	tbl, err := csv.ToMemTable(ctx, source.TableSource{Name: path, URI: path}, opts)
	if err != nil {
		return err
	}
	defer tbl.Release()

	if err := writeTable(stdout, tbl, format, opts.Delimiter); err != nil {
		return err
	}
	fmt.Fprintln(stderr, summary(path, tbl))
	return nil
}

func runLoad(ctx context.Context, arguments docopt.Opts, stdout, stderr io.Writer) error {
	configPath, _ := arguments.String("--config")
	format, _ := arguments.String("--format")
	name, _ := arguments.String("--table")

	cfg, err := config.ParseConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if name != "" {
		if _, ok := cfg.Table(name); !ok {
			return fmt.Errorf("table %q is not configured", name)
		}
	}

	logger, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = log.With(logger, "config", configPath)

	cat, err := catalog.Load(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cat.Release()

	for _, n := range cat.Names() {
		tbl, _ := cat.Table(n)
		fmt.Fprintln(stderr, summary(n, tbl))
	}

	if name == "" {
		return nil
	}
	tbl, _ := cat.Table(name)
	t, _ := cfg.Table(name)
	return writeTable(stdout, tbl, format, catalog.ReadOptions(t, nil).Delimiter)
}

func writeTable(w io.Writer, tbl *table.Table, format string, delimiter rune) error {
	out, err := sink.New(format, w, tbl.Schema(), delimiter)
	if err != nil {
		return err
	}

	rdr, err := tbl.Scan()
	if err != nil {
		return err
	}
	defer rdr.Release()

	if _, err := arrio.Copy(out, arrio.NewRecordReader(rdr)); err != nil {
		out.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}
	return out.Close()
}

func summary(name string, tbl *table.Table) string {
	return ui.Summary(name,
		[2]string{"columns", fmt.Sprint(tbl.Schema().NumFields())},
		[2]string{"rows", fmt.Sprint(tbl.NumRows())},
		[2]string{"batches", fmt.Sprint(tbl.NumBatches())},
		[2]string{"partitions", fmt.Sprint(tbl.NumPartitions())},
		[2]string{"fingerprint", fmt.Sprintf("%016x", tbl.Fingerprint())},
	)
}

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
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arrowarc/csvtable/internal/testutil"
	"github.com/arrowarc/csvtable/pkg/csv"
	"github.com/docopt/docopt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, argv ...string) (string, string, error) {
	t.Helper()
	arguments, err := docopt.ParseArgs(usage, argv, "")
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = run(context.Background(), arguments, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestScanCSV(t *testing.T) {
	path := testutil.WriteCSV(t, "id,name\n1,Alice\n2,Bob\n3,Cara\n")

	stdout, stderr, err := runArgs(t, "scan", path, "--batch-size=2")
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Alice\n2,Bob\n3,Cara\n", stdout)
	assert.Contains(t, stderr, "batches")
}

func TestScanJSONProjection(t *testing.T) {
	path := testutil.WriteCSV(t, "id;name\n1;Alice\n2;Bob\n")

	stdout, _, err := runArgs(t, "scan", path, "--delimiter=;", "--columns=name,id", "--format=json")
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"Alice\",\"id\":1}\n{\"name\":\"Bob\",\"id\":2}\n", stdout)
}

func TestScanFailure(t *testing.T) {
	path := testutil.WriteCSV(t, "a,b\n1,2\n3\n")

	_, _, err := runArgs(t, "scan", path)
	assert.ErrorIs(t, err, csv.ErrSchema)

	_, _, err = runArgs(t, "scan", path, "--columns=zzz")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	path := testutil.WriteCSV(t, "1,x\n2,y\n")

	stdout, _, err := runArgs(t, "schema", path, "--no-header")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"field1","data_type":"int64","nullable":true},{"name":"field2","data_type":"utf8","nullable":true}]`, stdout)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(data, []byte("1\tAlice\n2\tBob\n"), 0o644))

	cfgPath := filepath.Join(dir, "tables.yaml")
	cfg := fmt.Sprintf(`
log_level: error
tables:
  - name: users
    uri: %s
    schema:
      columns:
        - {name: id, data_type: int64}
        - {name: name, data_type: utf8}
    csv:
      has_header: false
      delimiter: "\t"
`, data)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, stderr, err := runArgs(t, "load", "--config="+cfgPath, "--table=users")
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n1\tAlice\n2\tBob\n", stdout)
	assert.Contains(t, stderr, "users")

	_, _, err = runArgs(t, "load", "--config="+cfgPath, "--table=orders")
	assert.Error(t, err)
}

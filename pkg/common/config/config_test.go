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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
log_level: debug
tables:
  - name: users
    uri: ./users.csv
    schema:
      columns:
        - {name: id, data_type: int64}
        - {name: name, data_type: utf8, nullable: true}
    csv:
      has_header: false
      delimiter: ";"
      batch_size: 2
      projection: [name]
      null_values: ["", "NULL"]
      partitions: 2
  - name: events
    uri: ./events.csv
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
	require.Len(t, cfg.Tables, 2)

	users, ok := cfg.Table("users")
	require.True(t, ok)
	assert.Equal(t, "./users.csv", users.URI)
	require.NotNil(t, users.Schema)
	assert.Len(t, users.Schema.Columns, 2)
	require.NotNil(t, users.CSV.HasHeader)
	assert.False(t, *users.CSV.HasHeader)
	assert.Equal(t, ";", users.CSV.Delimiter)
	assert.Equal(t, 2, users.CSV.BatchSize)
	assert.Equal(t, []string{"name"}, users.CSV.Projection)
	assert.Equal(t, 2, users.CSV.Partitions)

	events, ok := cfg.Table("events")
	require.True(t, ok)
	assert.Nil(t, events.Schema)
	assert.Nil(t, events.CSV.HasHeader)

	_, ok = cfg.Table("missing")
	assert.False(t, ok)
}

func TestParseConfigUnknownField(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(writeConfig(t, "tables:\n  - name: a\n    url: ./a.csv\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		description string
		content     string
	}{
		{description: "no tables", content: "log_level: info\n"},
		{description: "bad log level", content: "log_level: loud\ntables:\n  - {name: a, uri: a.csv}\n"},
		{description: "empty name", content: "tables:\n  - {uri: a.csv}\n"},
		{description: "duplicate name", content: "tables:\n  - {name: a, uri: a.csv}\n  - {name: a, uri: b.csv}\n"},
		{description: "missing uri", content: "tables:\n  - {name: a}\n"},
		{description: "long delimiter", content: "tables:\n  - name: a\n    uri: a.csv\n    csv: {delimiter: '::'}\n"},
		{description: "negative batch size", content: "tables:\n  - name: a\n    uri: a.csv\n    csv: {batch_size: -1}\n"},
		{description: "bad declared type", content: "tables:\n  - name: a\n    uri: a.csv\n    schema:\n      columns:\n        - {name: x, data_type: money}\n"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.description, func(t *testing.T) {
			t.Parallel()
			cfg, err := ParseConfig(writeConfig(t, test.content))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

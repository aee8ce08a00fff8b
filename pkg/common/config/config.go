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

// Package config provides configuration utilities.
package config

import (
	"fmt"
	"os"

	"github.com/arrowarc/csvtable/pkg/source"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Tables   []Table `yaml:"tables"`
}

// Table is one table source and the options used to read it.
type Table struct {
	source.TableSource `yaml:",inline"`
	CSV                CSVOptions `yaml:"csv"`
}

// CSVOptions mirrors the read options of package csv. Pointer fields
// distinguish unset values from explicit zero values.
type CSVOptions struct {
	HasHeader        *bool    `yaml:"has_header"`
	Delimiter        string   `yaml:"delimiter"`
	BatchSize        int      `yaml:"batch_size"`
	Projection       []string `yaml:"projection"`
	NullValues       []string `yaml:"null_values"`
	StringsCanBeNull bool     `yaml:"strings_can_be_null"`
	InferenceRows    int      `yaml:"inference_rows"`
	InferTemporal    bool     `yaml:"infer_temporal"`
	LazyQuotes       bool     `yaml:"lazy_quotes"`
	Partitions       int      `yaml:"partitions"`
}

// LogLevel values
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

func ParseConfig(configPath string) (*Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer configFile.Close()

	var config Config
	decoder := yaml.NewDecoder(configFile)
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", configPath, err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.validateSettings(); err != nil {
		return err
	}

	if err := c.validateTables(); err != nil {
		return err
	}

	return nil
}

// Table returns the table named name.
func (c *Config) Table(name string) (Table, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

func (c *Config) validateSettings() error {
	switch c.LogLevel {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
}

func (c *Config) validateTables() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := make(map[string]struct{}, len(c.Tables))
	for _, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("table name cannot be empty")
		}
		if _, dup := seen[table.Name]; dup {
			return fmt.Errorf("table '%s' is configured more than once", table.Name)
		}
		seen[table.Name] = struct{}{}

		if table.URI == "" {
			return fmt.Errorf("table '%s' must have a uri", table.Name)
		}
		if table.Schema != nil {
			if _, err := table.Schema.ToArrow(); err != nil {
				return fmt.Errorf("table '%s': %w", table.Name, err)
			}
		}
		if err := table.CSV.validate(); err != nil {
			return fmt.Errorf("table '%s': %w", table.Name, err)
		}
	}
	return nil
}

func (o CSVOptions) validate() error {
	if o.Delimiter != "" && len(o.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single byte, got %q", o.Delimiter)
	}
	if o.BatchSize < 0 {
		return fmt.Errorf("batch_size cannot be negative")
	}
	if o.InferenceRows < 0 {
		return fmt.Errorf("inference_rows cannot be negative")
	}
	if o.Partitions < 0 {
		return fmt.Errorf("partitions cannot be negative")
	}
	return nil
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package xform

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v2"
)

// Config holds the constants of the cost model. All costs are per row and in
// abstract units.
type Config struct {
	// SeqIOCostPerRow is the cost of reading one row from a table.
	SeqIOCostPerRow float64 `yaml:"seq_io_cost_per_row"`
	// CPUCostPerRow is the cost of passing one row through an operator, and of
	// evaluating one scalar expression for it.
	CPUCostPerRow float64 `yaml:"cpu_cost_per_row"`
	// SortCostFactor scales the n*log2(n) comparisons of a sort.
	SortCostFactor float64 `yaml:"sort_cost_factor"`
	// WindowFunctionCostFactor scales the per-row cost of each window
	// function.
	WindowFunctionCostFactor float64 `yaml:"window_function_cost_factor"`
	// FilterSelectivity is the fraction of rows assumed to pass a predicate.
	FilterSelectivity float64 `yaml:"filter_selectivity"`
}

// DefaultConfig returns the cost constants used when none are configured.
func DefaultConfig() Config {
	return Config{
		SeqIOCostPerRow:          1,
		CPUCostPerRow:            0.01,
		SortCostFactor:           0.02,
		WindowFunctionCostFactor: 0.05,
		FilterSelectivity:        1.0 / 3.0,
	}
}

// ParseConfig parses a YAML cost configuration. Settings missing from data
// keep their default values; unknown settings are an error.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing cost config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML cost configuration at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading cost config")
	}
	return ParseConfig(data)
}

// Validate returns an error if any constant is out of range.
func (c Config) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"seq_io_cost_per_row", c.SeqIOCostPerRow},
		{"cpu_cost_per_row", c.CPUCostPerRow},
		{"sort_cost_factor", c.SortCostFactor},
		{"window_function_cost_factor", c.WindowFunctionCostFactor},
	} {
		if f.val < 0 {
			return errors.Newf("%s must not be negative, found %g", errors.Safe(f.name), f.val)
		}
	}
	if c.FilterSelectivity <= 0 || c.FilterSelectivity > 1 {
		return errors.Newf("filter_selectivity must be in (0, 1], found %g", c.FilterSelectivity)
	}
	return nil
}

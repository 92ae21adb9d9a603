// Package config loads generation settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/zarlcorp/zrows/internal/dataset"
	"github.com/zarlcorp/zrows/internal/record"
)

// Config mirrors the run file:
//
//	file_path: large_test_data.csv
//	total_rows: 10000000
//	batch_size: 100000
//	delimiter: ","
//	crlf: false
//	compression: none
//	seed: 0
type Config struct {
	FilePath    string `yaml:"file_path"`
	TotalRows   int    `yaml:"total_rows"`
	BatchSize   int    `yaml:"batch_size"`
	Delimiter   string `yaml:"delimiter"`
	CRLF        bool   `yaml:"crlf"`
	Compression string `yaml:"compression"`
	// Seed makes output reproducible. Zero draws a fresh seed.
	Seed uint64 `yaml:"seed"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		BatchSize:   dataset.DefaultBatchSize,
		Delimiter:   ",",
		Compression: string(dataset.CompressionNone),
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Delim returns the delimiter as a rune. "tab" and `\t` name a tab.
func (c Config) Delim() (rune, error) {
	switch c.Delimiter {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if size != len(c.Delimiter) {
		return 0, fmt.Errorf("%w: delimiter %q must be one character", dataset.ErrInvalidArgument, c.Delimiter)
	}
	if err := dataset.CheckDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}

// Validate checks the settings the same way the generator will.
func (c Config) Validate() error {
	_, err := c.Options()
	return err
}

// Options converts the config into generator options.
func (c Config) Options() (dataset.Options, error) {
	delim, err := c.Delim()
	if err != nil {
		return dataset.Options{}, err
	}
	comp, err := dataset.ParseCompression(c.Compression)
	if err != nil {
		return dataset.Options{}, err
	}

	opts := dataset.Options{
		Path:        c.FilePath,
		TotalRows:   c.TotalRows,
		BatchSize:   c.BatchSize,
		Delimiter:   delim,
		CRLF:        c.CRLF,
		Compression: comp,
	}
	if c.Seed != 0 {
		opts.Source = record.SeededSource(c.Seed)
	}
	if err := opts.Validate(); err != nil {
		return dataset.Options{}, err
	}
	return opts, nil
}

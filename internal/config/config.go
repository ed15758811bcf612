// Package config loads and validates reuselens configuration from file,
// environment, and defaults.
package config

import (
	"errors"
	"time"
)

// Config is the top-level configuration struct for reuselens.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Scan       ScanConfig       `mapstructure:"scan"`
	Signatures SignaturesConfig `mapstructure:"signatures"`
	Report     ReportConfig     `mapstructure:"report"`
	Baseline   BaselineConfig   `mapstructure:"baseline"`
}

// ScanConfig holds scan pipeline knobs.
type ScanConfig struct {
	Workers     int    `mapstructure:"workers"`
	FileTimeout string `mapstructure:"file_timeout"`
}

// SignaturesConfig points at an optional custom signature file.
type SignaturesConfig struct {
	File string `mapstructure:"file"`
}

// ReportConfig holds rendering settings.
type ReportConfig struct {
	Format    string  `mapstructure:"format"`
	NoColor   bool    `mapstructure:"no_color"`
	Verbose   bool    `mapstructure:"verbose"`
	TopFiles  int     `mapstructure:"top_files"`
	FailUnder float64 `mapstructure:"fail_under"`
}

// BaselineConfig holds baseline gate settings.
type BaselineConfig struct {
	Path      string  `mapstructure:"path"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// reportFormats enumerates the valid report.format values.
var reportFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
	"html": true,
}

// maxPercent is the upper bound for percentage settings.
const maxPercent = 100.0

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("scan.workers must be non-negative")
	// ErrInvalidFileTimeout indicates the file timeout does not parse as a duration.
	ErrInvalidFileTimeout = errors.New("scan.file_timeout must be a valid duration")
	// ErrInvalidFormat indicates an unknown report format.
	ErrInvalidFormat = errors.New("report.format must be one of text, json, yaml, html")
	// ErrInvalidTopFiles indicates the top files value is negative.
	ErrInvalidTopFiles = errors.New("report.top_files must be non-negative")
	// ErrInvalidFailUnder indicates the fail-under threshold is out of range.
	ErrInvalidFailUnder = errors.New("report.fail_under must be between 0 and 100")
	// ErrInvalidTolerance indicates the baseline tolerance is out of range.
	ErrInvalidTolerance = errors.New("baseline.tolerance must be between 0 and 100")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Scan.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Scan.FileTimeout != "" {
		_, parseErr := time.ParseDuration(c.Scan.FileTimeout)
		if parseErr != nil {
			return ErrInvalidFileTimeout
		}
	}

	if !reportFormats[c.Report.Format] {
		return ErrInvalidFormat
	}

	if c.Report.TopFiles < 0 {
		return ErrInvalidTopFiles
	}

	if c.Report.FailUnder < 0 || c.Report.FailUnder > maxPercent {
		return ErrInvalidFailUnder
	}

	if c.Baseline.Tolerance < 0 || c.Baseline.Tolerance > maxPercent {
		return ErrInvalidTolerance
	}

	return nil
}

// Timeout returns the parsed per-file timeout. Validate must have
// succeeded first; an empty setting yields zero, meaning the scanner
// default.
func (c *ScanConfig) Timeout() time.Duration {
	if c.FileTimeout == "" {
		return 0
	}

	timeout, err := time.ParseDuration(c.FileTimeout)
	if err != nil {
		return 0
	}

	return timeout
}

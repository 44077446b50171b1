// Package config provides centralized configuration management for cherictl.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Data    DataConfig
	Report  ReportConfig
	Console ConsoleConfig
	Logging LoggingConfig
}

// DataConfig holds dataset file locations.
type DataConfig struct {
	// Dir is the directory relative dataset paths resolve against (default: .)
	Dir string `env:"DATA_DIR" default:"."`

	// CVEFile is the general CVE dataset
	CVEFile string `env:"CVE_FILE" default:"CHERI Dataset - CVEs.csv"`

	// ComparisonFile is the CHERI vs Rust comparison dataset
	ComparisonFile string `env:"COMPARISON_FILE" envAlt:"RUST_VS_CHERI_FILE" default:"CHERI Dataset - CHERI vs Rust CVEs.csv"`

	// NoRevocationCVEFile registers the "no revocation" CVE variant when set
	NoRevocationCVEFile string `env:"NO_REVOCATION_CVE_FILE"`

	// NoRevocationComparisonFile registers the "no revocation" comparison variant when set
	NoRevocationComparisonFile string `env:"NO_REVOCATION_COMPARISON_FILE"`
}

// ReportConfig holds report aggregation settings.
type ReportConfig struct {
	// RunTimeout bounds one scripted filter run (default: 30s)
	RunTimeout time.Duration `env:"REPORT_RUN_TIMEOUT" default:"30s"`

	// Parallelism is the number of runs in flight at once (default: 1)
	Parallelism int `env:"REPORT_PARALLELISM" default:"1"`

	// MatrixFile overrides the built-in run matrix (YAML)
	MatrixFile string `env:"REPORT_MATRIX_FILE"`

	// Transport selects how runs execute: inprocess or exec (default: inprocess)
	Transport string `env:"REPORT_TRANSPORT" default:"inprocess"`

	// ExecPath is the cherictl binary used by the exec transport (default: own executable)
	ExecPath string `env:"REPORT_EXEC_PATH"`
}

// ConsoleConfig holds interactive session rendering settings.
type ConsoleConfig struct {
	// WrapWidth wraps group labels longer than this many columns; 0 disables (default: 60)
	WrapWidth int `env:"CONSOLE_WRAP_WIDTH" default:"60"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Resolve returns path joined to Dir unless it is already absolute.
func (c *DataConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}

package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc returns the value of an environment variable, "" when unset.
type LookupFunc func(key string) string

// Load reads configuration from the process environment.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads configuration through lookup instead of os.Getenv.
// Returns an error if required values are missing or validation fails.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from lookup.
func loadStruct(v reflect.Value, lookup LookupFunc) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value := lookup(envName)
		if alt := field.Tag.Get("envAlt"); value == "" && alt != "" {
			value = lookup(alt)
		}

		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Data.CVEFile == "" {
		errs = append(errs, "CVE_FILE must not be empty")
	}
	if c.Data.ComparisonFile == "" {
		errs = append(errs, "COMPARISON_FILE must not be empty")
	}

	if c.Report.RunTimeout <= 0 {
		errs = append(errs, "REPORT_RUN_TIMEOUT must be positive")
	}
	if c.Report.Parallelism <= 0 {
		errs = append(errs, fmt.Sprintf("REPORT_PARALLELISM (%d) must be positive", c.Report.Parallelism))
	}
	validTransports := map[string]bool{TransportInProcess: true, TransportExec: true}
	if !validTransports[strings.ToLower(c.Report.Transport)] {
		errs = append(errs, fmt.Sprintf("REPORT_TRANSPORT (%q) must be one of: inprocess, exec", c.Report.Transport))
	}

	if c.Console.WrapWidth < 0 {
		errs = append(errs, "CONSOLE_WRAP_WIDTH must be non-negative")
	} else if c.Console.WrapWidth > 0 && c.Console.WrapWidth < MinWrapWidth {
		errs = append(errs, fmt.Sprintf("CONSOLE_WRAP_WIDTH (%d) must be 0 or at least %d", c.Console.WrapWidth, MinWrapWidth))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Transports accepted by REPORT_TRANSPORT.
const (
	TransportInProcess = "inprocess"
	TransportExec      = "exec"
)

// MinWrapWidth is the narrowest label wrap width that still leaves room for
// a word per line.
const MinWrapWidth = 20

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Data: {Dir: %q, CVEFile: %q, ComparisonFile: %q}, ",
		c.Data.Dir, c.Data.CVEFile, c.Data.ComparisonFile)
	fmt.Fprintf(&b, "Report: {RunTimeout: %s, Parallelism: %d, Transport: %q}, ",
		c.Report.RunTimeout, c.Report.Parallelism, c.Report.Transport)
	fmt.Fprintf(&b, "Console: {WrapWidth: %d}, ", c.Console.WrapWidth)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

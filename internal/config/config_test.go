package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// env returns a LookupFunc over a fixed map.
func env(vars map[string]string) LookupFunc {
	return func(key string) string { return vars[key] }
}

func validConfig() *Config {
	return &Config{
		Data:    DataConfig{Dir: ".", CVEFile: "cves.csv", ComparisonFile: "cmp.csv"},
		Report:  ReportConfig{RunTimeout: time.Second, Parallelism: 1, Transport: TransportInProcess},
		Console: ConsoleConfig{WrapWidth: 60},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Data.Dir != "." {
		t.Errorf("Data.Dir = %q, want %q", cfg.Data.Dir, ".")
	}
	if cfg.Data.CVEFile != "CHERI Dataset - CVEs.csv" {
		t.Errorf("Data.CVEFile = %q", cfg.Data.CVEFile)
	}
	if cfg.Data.ComparisonFile != "CHERI Dataset - CHERI vs Rust CVEs.csv" {
		t.Errorf("Data.ComparisonFile = %q", cfg.Data.ComparisonFile)
	}
	if cfg.Data.NoRevocationCVEFile != "" {
		t.Errorf("Data.NoRevocationCVEFile = %q, want empty", cfg.Data.NoRevocationCVEFile)
	}
	if cfg.Report.RunTimeout != 30*time.Second {
		t.Errorf("Report.RunTimeout = %v, want %v", cfg.Report.RunTimeout, 30*time.Second)
	}
	if cfg.Report.Parallelism != 1 {
		t.Errorf("Report.Parallelism = %d, want 1", cfg.Report.Parallelism)
	}
	if cfg.Report.Transport != TransportInProcess {
		t.Errorf("Report.Transport = %q, want %q", cfg.Report.Transport, TransportInProcess)
	}
	if cfg.Console.WrapWidth != 60 {
		t.Errorf("Console.WrapWidth = %d, want 60", cfg.Console.WrapWidth)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text", cfg.Logging)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"DATA_DIR":           "/data",
		"REPORT_PARALLELISM": "4",
		"REPORT_RUN_TIMEOUT": "1m30s",
		"CONSOLE_WRAP_WIDTH": "0",
		"LOG_LEVEL":          "debug",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Data.Dir != "/data" {
		t.Errorf("Data.Dir = %q, want %q", cfg.Data.Dir, "/data")
	}
	if cfg.Report.Parallelism != 4 {
		t.Errorf("Report.Parallelism = %d, want 4", cfg.Report.Parallelism)
	}
	if cfg.Report.RunTimeout != 90*time.Second {
		t.Errorf("Report.RunTimeout = %v, want %v", cfg.Report.RunTimeout, 90*time.Second)
	}
	if cfg.Console.WrapWidth != 0 {
		t.Errorf("Console.WrapWidth = %d, want 0", cfg.Console.WrapWidth)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"RUST_VS_CHERI_FILE": "alt.csv"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Data.ComparisonFile != "alt.csv" {
		t.Errorf("Data.ComparisonFile = %q, want %q", cfg.Data.ComparisonFile, "alt.csv")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{"bad integer", map[string]string{"REPORT_PARALLELISM": "many"}, "REPORT_PARALLELISM"},
		{"bad duration", map[string]string{"REPORT_RUN_TIMEOUT": "soon"}, "REPORT_RUN_TIMEOUT"},
		{"zero parallelism", map[string]string{"REPORT_PARALLELISM": "0"}, "REPORT_PARALLELISM"},
		{"unknown transport", map[string]string{"REPORT_TRANSPORT": "ssh"}, "REPORT_TRANSPORT"},
		{"narrow wrap", map[string]string{"CONSOLE_WRAP_WIDTH": "5"}, "CONSOLE_WRAP_WIDTH"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(env(tt.vars))
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.Report.RunTimeout = 0
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"REPORT_RUN_TIMEOUT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDataResolve(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "srv", "cves.csv")
	tests := []struct {
		dir  string
		path string
		want string
	}{
		{".", "cves.csv", "cves.csv"},
		{"data", "cves.csv", filepath.Join("data", "cves.csv")},
		{"data", abs, abs},
		{"data", "", ""},
	}

	for _, tt := range tests {
		c := &DataConfig{Dir: tt.dir}
		if got := c.Resolve(tt.path); got != tt.want {
			t.Errorf("Resolve(%q) with dir=%q = %q, want %q", tt.path, tt.dir, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	for _, want := range []string{"cves.csv", "Parallelism: 1", "WrapWidth: 60"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, should contain %q", str, want)
		}
	}
}

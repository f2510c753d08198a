package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Engine.ParseCacheSize != 256 {
		t.Errorf("ParseCacheSize = %d, want 256", cfg.Engine.ParseCacheSize)
	}
	if !cfg.Engine.ObserveEffects {
		t.Error("Expected ObserveEffects to be enabled by default")
	}
	if cfg.Window.ScrollHeight != 2000 || cfg.Window.ViewportHeight != 1000 || cfg.Window.ScrollY != 0 {
		t.Errorf("unexpected window defaults %+v", cfg.Window)
	}
	if cfg.Scene.Distance != 1 {
		t.Errorf("Scene.Distance = %v, want 1", cfg.Scene.Distance)
	}
	if len(cfg.Properties) != 0 {
		t.Errorf("Expected no declared properties, got %d", len(cfg.Properties))
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("Console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("File level = %q, want none", cfg.Logging.FileLogger.Level)
	}
	if !strings.Contains(cfg.Output.Template, "{{ .Name }}") {
		t.Errorf("Output template was expanded while loading: %q", cfg.Output.Template)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
engine:
  parse_cache_size: 16
  observe_effects: false
window:
  scroll_height: 5000
  viewport_height: 800
  scroll_y: 100
scene:
  ideal_camera_distance: 4.5
  bounding_box_center: [0, 1, 0]
properties:
  - name: light-orbit
    basis: "0deg 45deg 2m"
    keywords:
      auto: "_ _ 150%"
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Engine.ParseCacheSize != 16 {
		t.Errorf("ParseCacheSize = %d, want 16", cfg.Engine.ParseCacheSize)
	}
	if cfg.Engine.ObserveEffects {
		t.Error("Expected ObserveEffects to be false")
	}
	if cfg.Window.ScrollHeight != 5000 || cfg.Window.ScrollY != 100 {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	if cfg.Scene.Distance != 4.5 || cfg.Scene.Center[1] != 1 {
		t.Errorf("unexpected scene %+v", cfg.Scene)
	}
	if len(cfg.Properties) != 1 {
		t.Fatalf("Properties length = %d, want 1", len(cfg.Properties))
	}
	p := cfg.Properties[0]
	if p.Name != "light-orbit" || p.Basis != "0deg 45deg 2m" || p.Keywords["auto"] != "_ _ 150%" {
		t.Errorf("unexpected property %+v", p)
	}
	// values not present in the file keep their defaults
	if cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("File level = %q, want none", cfg.Logging.FileLogger.Level)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nengine:\n  parse_cache_size: 1\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"invalid version", "version: 2\n"},
		{"negative cache", "version: 1\nengine:\n  parse_cache_size: -1\n"},
		{"negative scroll", "version: 1\nwindow:\n  scroll_y: -5\n"},
		{"property without basis", "version: 1\nproperties:\n  - name: x\n"},
		{"property without name", "version: 1\nproperties:\n  - basis: 1m\n"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Engine.ParseCacheSize = 42

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Engine.ParseCacheSize != 42 {
		t.Errorf("ParseCacheSize after dump/load = %d, want 42", cfg2.Engine.ParseCacheSize)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestLoggingConfig_Prepare(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger: LoggerConfig{
			Level:       "debug",
			Destination: filepath.Join(dir, "test.log"),
			Mode:        "overwrite",
		},
	}

	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hello from test")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file does not contain message: %q", data)
	}
}

func TestLoggingConfig_PrepareDisabled(t *testing.T) {
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger:    LoggerConfig{Level: "none"},
	}
	log, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Error("Expected disabled logger")
	}
}

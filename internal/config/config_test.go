// Package config tests
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sonemaro/ormf/internal/format"
)

// isolate points HOME at a temp dir and clears ORMF_* overrides
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, EnvPrefix+"_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

// testFlags mirrors the flags registered by the CLI
func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	d := DefaultConfig()
	fs.Int("n", d.Filter.N, "")
	fs.String("return-format", d.Filter.ReturnFormat, "")
	fs.String("keep-regexes", d.Filter.KeepRegexes, "")
	fs.String("remove-regexes", d.Filter.RemoveRegexes, "")
	fs.String("sort-key", d.Filter.SortKey, "")
	fs.String("openrouter-endpoint", d.Provider.Endpoint, "")
	fs.String("model-url", d.Provider.ModelURL, "")
	fs.Duration("timeout", d.Provider.Timeout, "")
	fs.String("log-level", d.Log.Level, "")
	return fs
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Filter.N != -1 {
		t.Errorf("Expected default Filter.N to be -1, got %d", cfg.Filter.N)
	}
	if cfg.Filter.ReturnFormat != "str" {
		t.Errorf("Expected default Filter.ReturnFormat to be 'str', got '%s'", cfg.Filter.ReturnFormat)
	}
	if cfg.Filter.KeepRegexes != ".*:free" {
		t.Errorf("Expected default Filter.KeepRegexes to be '.*:free', got '%s'", cfg.Filter.KeepRegexes)
	}
	if cfg.Filter.RemoveRegexes != `.*\bbase\b.*,.*\binstruct\b.*,.*\bmath\b` {
		t.Errorf("Unexpected default Filter.RemoveRegexes '%s'", cfg.Filter.RemoveRegexes)
	}
	if cfg.Filter.SortKey != "context_length" {
		t.Errorf("Expected default Filter.SortKey to be 'context_length', got '%s'", cfg.Filter.SortKey)
	}
	if cfg.Provider.Endpoint != "https://openrouter.ai/api/v1/" {
		t.Errorf("Expected default Provider.Endpoint to be 'https://openrouter.ai/api/v1/', got '%s'", cfg.Provider.Endpoint)
	}
	if cfg.Provider.ModelURL != "/models" {
		t.Errorf("Expected default Provider.ModelURL to be '/models', got '%s'", cfg.Provider.ModelURL)
	}
	if cfg.Provider.Timeout != 30*time.Second {
		t.Errorf("Expected default Provider.Timeout to be 30s, got %v", cfg.Provider.Timeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected default Log.Level to be 'warn', got '%s'", cfg.Log.Level)
	}
	if !cfg.UI.ColorEnabled {
		t.Error("Expected default UI.ColorEnabled to be true")
	}
}

func TestDefaultConfig_Fresh(t *testing.T) {
	a := DefaultConfig()
	a.Filter.KeepRegexes = "mutated"

	if b := DefaultConfig(); b.Filter.KeepRegexes != ".*:free" {
		t.Errorf("DefaultConfig shares state between calls: got '%s'", b.Filter.KeepRegexes)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Filter != DefaultConfig().Filter {
		t.Errorf("Expected default filter settings, got %+v", cfg.Filter)
	}
	if cfg.Provider != DefaultConfig().Provider {
		t.Errorf("Expected default provider settings, got %+v", cfg.Provider)
	}
}

func TestLoad_UserFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", "ormf", "config.yaml"), `
provider:
  timeout: 5s
filter:
  n: 3
  sort_key: ""
  remove_regexes: ""
`)

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Filter.N != 3 {
		t.Errorf("Expected N 3 from file, got %d", cfg.Filter.N)
	}
	if cfg.Filter.SortKey != "" {
		t.Errorf("Expected sort key disabled by file, got '%s'", cfg.Filter.SortKey)
	}
	if cfg.Filter.RemoveRegexes != "" {
		t.Errorf("Expected remove patterns disabled by file, got '%s'", cfg.Filter.RemoveRegexes)
	}
	if cfg.Provider.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.Provider.Timeout)
	}
	// untouched keys keep their defaults
	if cfg.Filter.KeepRegexes != ".*:free" {
		t.Errorf("Expected default keep pattern, got '%s'", cfg.Filter.KeepRegexes)
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	home := isolate(t)

	_, err := Load(LoadOptions{Path: filepath.Join(home, "missing.yaml")})
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestLoad_AllowMissing(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(LoadOptions{Path: filepath.Join(home, "new.yaml"), AllowMissing: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Filter != DefaultConfig().Filter {
		t.Errorf("Expected defaults for a missing file, got %+v", cfg.Filter)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.yaml")
	writeFile(t, path, "filter: [unterminated\n")

	if _, err := Load(LoadOptions{Path: path}); err == nil {
		t.Fatal("Expected parse error for invalid YAML")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	writeFile(t, path, "filter:\n  return_format: json\n  n: 2\n")
	t.Setenv("ORMF_FILTER_RETURN_FORMAT", "dict")

	cfg, err := Load(LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Filter.ReturnFormat != "dict" {
		t.Errorf("Expected env to override file, got '%s'", cfg.Filter.ReturnFormat)
	}
	if cfg.Filter.N != 2 {
		t.Errorf("Expected N from file, got %d", cfg.Filter.N)
	}
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	writeFile(t, path, "filter:\n  n: 2\n  sort_key: pricing\n")
	t.Setenv("ORMF_FILTER_N", "4")

	fs := testFlags()
	if err := fs.Parse([]string{"--n", "7", "--sort-key", "", "--timeout", "2s"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(LoadOptions{Path: path, Flags: fs})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Filter.N != 7 {
		t.Errorf("Expected N 7 from flag, got %d", cfg.Filter.N)
	}
	if cfg.Filter.SortKey != "" {
		t.Errorf("Expected empty sort key from flag, got '%s'", cfg.Filter.SortKey)
	}
	if cfg.Provider.Timeout != 2*time.Second {
		t.Errorf("Expected timeout 2s from flag, got %v", cfg.Provider.Timeout)
	}
}

func TestLoad_UnchangedFlagsKeepLowerLayers(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	writeFile(t, path, "filter:\n  keep_regexes: 'google/.*'\n")

	fs := testFlags()
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(LoadOptions{Path: path, Flags: fs})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Filter.KeepRegexes != "google/.*" {
		t.Errorf("Expected keep pattern from file, got '%s'", cfg.Filter.KeepRegexes)
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter.N = 5
	cfg.Filter.ReturnFormat = "json"

	opts := cfg.Options()
	if opts.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", opts.Limit)
	}
	if opts.Format != format.JSON {
		t.Errorf("Expected json format, got '%s'", opts.Format)
	}
	if opts.Endpoint != cfg.Provider.Endpoint || opts.ModelPath != cfg.Provider.ModelURL {
		t.Errorf("Endpoint settings not carried over: %+v", opts)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Expected valid options, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "out", "config.yaml")

	cfg := DefaultConfig()
	cfg.Filter.N = 9
	cfg.Provider.Timeout = 90 * time.Second
	if err := Save(cfg, path, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved config is not valid YAML: %v", err)
	}

	loaded, err := Load(LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Filter.N != 9 {
		t.Errorf("Expected N 9 after round trip, got %d", loaded.Filter.N)
	}
	if loaded.Provider.Timeout != 90*time.Second {
		t.Errorf("Expected timeout 90s after round trip, got %v", loaded.Provider.Timeout)
	}
}

func TestSave_RefusesOverwrite(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.yaml")
	writeFile(t, path, "version: 1\n")

	if err := Save(DefaultConfig(), path, false); err == nil {
		t.Error("Expected error when config file exists")
	}
	if err := Save(DefaultConfig(), path, true); err != nil {
		t.Errorf("Expected overwrite to succeed, got %v", err)
	}
}

func TestGetConfigPaths(t *testing.T) {
	home := isolate(t)
	paths := GetConfigPaths()

	if paths.User != filepath.Join(home, ".config", "ormf", "config.yaml") {
		t.Errorf("Unexpected user config path '%s'", paths.User)
	}
	if paths.ProfileDir != filepath.Join(home, ".config", "ormf", "profiles") {
		t.Errorf("Unexpected profile dir '%s'", paths.ProfileDir)
	}
	if DefaultPath() != paths.User {
		t.Errorf("DefaultPath should match user config path")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFrom_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Output.Format != FormatTable {
		t.Errorf("format = %q, want %q", cfg.Output.Format, FormatTable)
	}
	if !cfg.General.Ledger {
		t.Error("ledger should default to on")
	}
}

func TestLoadFrom_ParsesAllSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[general]
statements_dir = "/tmp/vypisy"
workers = 4
ledger = false

[output]
format = "json"

[logging]
level = "debug"

[[rules]]
category = "PETS"
keywords = ["granule", "zverolekar"]
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.StatementsDir != "/tmp/vypisy" || cfg.General.Workers != 4 || cfg.General.Ledger {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("format = %q", cfg.Output.Format)
	}
	if cfg.Output.Theme != "flexoki-dark" {
		t.Errorf("theme default lost: %q", cfg.Output.Theme)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Category != "PETS" {
		t.Fatalf("rules = %+v", cfg.Rules)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[general\nworkers = ")

	_, err := LoadFrom(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing error", err)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.StatementsDir = "/data/statements"
	cfg.Rules = []RuleConfig{{Category: "GIFTS", Keywords: []string{"kvetinarstvo"}}}

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.StatementsDir != cfg.General.StatementsDir {
		t.Errorf("statements_dir = %q", got.General.StatementsDir)
	}
	if len(got.Rules) != 1 || got.Rules[0].Keywords[0] != "kvetinarstvo" {
		t.Errorf("rules = %+v", got.Rules)
	}
}

func TestDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := Path(); got != filepath.Join("/xdg", "stmtburn", "config.toml") {
		t.Errorf("Path() = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvStatementsDir, "/env/dir")
	t.Setenv(EnvWorkers, "7")
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvOutputFormat, "json")

	cfg, err := ApplyEnv(DefaultConfig())
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.General.StatementsDir != "/env/dir" || cfg.General.Workers != 7 {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Logging.Level != "info" || cfg.Output.Format != FormatJSON {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv(EnvWorkers, "many")
	if _, err := ApplyEnv(DefaultConfig()); err == nil {
		t.Error("expected error for non-numeric workers")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, EnvStatementsDir+"=/from/dotenv\n"+EnvLogLevel+"=debug\n")

	t.Setenv(EnvStatementsDir, "")
	os.Unsetenv(EnvStatementsDir)
	t.Setenv(EnvLogLevel, "error") // already set, must win

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvStatementsDir); got != "/from/dotenv" {
		t.Errorf("%s = %q", EnvStatementsDir, got)
	}
	if got := os.Getenv(EnvLogLevel); got != "error" {
		t.Errorf("%s = %q, existing value was overridden", EnvLogLevel, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"negative workers", func(c *Config) { c.General.Workers = -1 }, "general.workers"},
		{"unknown category", func(c *Config) {
			c.Rules = []RuleConfig{{Category: "NOPE", Keywords: []string{"x"}}}
		}, "unknown category"},
		{"missing category", func(c *Config) {
			c.Rules = []RuleConfig{{Keywords: []string{"x"}}}
		}, "rules[0].category"},
		{"blank keywords", func(c *Config) {
			c.Rules = []RuleConfig{{Category: "PETS", Keywords: []string{" ", ""}}}
		}, "no keywords"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestClassifier_UsesConfiguredRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = []RuleConfig{{Category: "gifts", Keywords: []string{"Rozmarin"}}}

	c, err := cfg.Classifier()
	if err != nil {
		t.Fatalf("Classifier: %v", err)
	}
	got := c.Classify(model.Transaction{
		Amount:       decimal.RequireFromString("-12.40"),
		Description:  "05.10.2025 AP nákup POS",
		Counterparty: "KVETY ROZMARIN",
	})
	if got.Code != model.Gifts.Code {
		t.Errorf("category = %s, want %s", got.Code, model.Gifts.Code)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "csv"
	cfg.General.Workers = -2

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"output.format csv", "general.workers -2"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err %q missing %q", err, want)
		}
	}
}

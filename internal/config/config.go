// Package config loads stmtburn settings from TOML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/stmtburn/internal/classify"
	"github.com/theirongolddev/stmtburn/internal/model"
)

// Environment variables that override the config file.
const (
	EnvStatementsDir = "STMTBURN_STATEMENTS_DIR"
	EnvWorkers       = "STMTBURN_WORKERS"
	EnvLogLevel      = "STMTBURN_LOG_LEVEL"
	EnvOutputFormat  = "STMTBURN_FORMAT"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config holds all stmtburn configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Output  OutputConfig  `toml:"output"`
	Logging LoggingConfig `toml:"logging"`
	Rules   []RuleConfig  `toml:"rules,omitempty" validate:"dive"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	StatementsDir string `toml:"statements_dir,omitempty"`
	Workers       int    `toml:"workers" validate:"gte=0"`
	Ledger        bool   `toml:"ledger"`
}

// OutputConfig holds rendering preferences.
type OutputConfig struct {
	Format string `toml:"format" validate:"oneof=table json"`
	Theme  string `toml:"theme"`
}

// LoggingConfig holds the log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// RuleConfig is a user keyword rule for expenses.
type RuleConfig struct {
	Category string   `toml:"category" validate:"required"`
	Keywords []string `toml:"keywords"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Ledger: true,
		},
		Output: OutputConfig{
			Format: FormatTable,
			Theme:  "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stmtburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stmtburn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadDotEnv loads the given .env files (or ./.env) into the process
// environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// ApplyEnv overrides cfg with STMTBURN_* environment variables.
func ApplyEnv(cfg Config) (Config, error) {
	if v := os.Getenv(EnvStatementsDir); v != "" {
		cfg.General.StatementsDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.General.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.Format = v
	}
	return cfg, nil
}

// validate reports field paths by their TOML names.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate reports every problem in cfg at once.
func (c Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			errs = append(errs, fmt.Errorf("%s %v: want %s", field, fe.Value(), rule))
		}
	}
	if _, err := c.ExtraRules(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ExtraRules converts the [[rules]] tables into classifier rules.
func (c Config) ExtraRules() ([]classify.Rule, error) {
	rules := make([]classify.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		cat, ok := model.LookupCategory(rc.Category)
		if !ok {
			return nil, fmt.Errorf("rules[%d]: unknown category %q", i, rc.Category)
		}
		var kws []string
		for _, k := range rc.Keywords {
			if strings.TrimSpace(k) != "" {
				kws = append(kws, k)
			}
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("rules[%d] (%s): no keywords", i, cat.Code)
		}
		rules = append(rules, classify.Rule{Category: cat, Keywords: kws})
	}
	return rules, nil
}

// Classifier builds a classifier with the configured extra rules.
func (c Config) Classifier() (*classify.Classifier, error) {
	extra, err := c.ExtraRules()
	if err != nil {
		return nil, err
	}
	return classify.New(extra...)
}

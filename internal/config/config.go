// Package config loads and saves spesa's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// BudgetEnv overrides the configured budget limit when set.
const BudgetEnv = "SPESA_BUDGET"

// Config holds all spesa configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	Locale     LocaleConfig     `toml:"locale"`
}

// GeneralConfig holds import preferences.
type GeneralConfig struct {
	CatalogDir string `toml:"catalog_dir,omitempty"`
	Sheet      string `toml:"sheet,omitempty"`
}

// BudgetConfig holds the spending ceiling.
type BudgetConfig struct {
	Limit decimal.Decimal `toml:"limit"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
	Dark  bool   `toml:"dark"`
}

// LocaleConfig selects the language of the print view.
type LocaleConfig struct {
	Language string `toml:"language"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Budget: BudgetConfig{
			Limit: decimal.NewFromInt(260),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
			Dark:  true,
		},
		Locale: LocaleConfig{
			Language: "it",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spesa")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spesa")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
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

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
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

// BudgetLimit returns the limit from the environment or config, in that order.
func BudgetLimit(cfg Config) (decimal.Decimal, error) {
	if v := strings.TrimSpace(os.Getenv(BudgetEnv)); v != "" {
		return ParseLimit(v)
	}
	if cfg.Budget.Limit.IsNegative() {
		return decimal.Zero, fmt.Errorf("budget limit %s is negative", cfg.Budget.Limit)
	}
	return cfg.Budget.Limit, nil
}

// ParseLimit parses a user-supplied budget such as "260" or "260,50".
func ParseLimit(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "€", ""))
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid budget %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("budget limit %s is negative", d)
	}
	return d, nil
}

// Language returns the configured print language, defaulting to Italian.
func Language(cfg Config) language.Tag {
	tag, err := language.Parse(cfg.Locale.Language)
	if err != nil {
		return language.Italian
	}
	return tag
}

// CatalogDir returns the configured catalog directory with a leading "~/"
// expanded. Empty when unset.
func CatalogDir(cfg Config) string {
	dir := strings.TrimSpace(cfg.General.CatalogDir)
	if !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir[2:])
}

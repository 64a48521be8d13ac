package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.True(t, cfg.Budget.Limit.Equal(decimal.NewFromInt(260)))
	assert.Equal(t, "flexoki-dark", cfg.Appearance.Theme)
	assert.Equal(t, "it", cfg.Locale.Language)
}

func TestLoadFrom_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[general]
catalog_dir = "/tmp/listini"
sheet = "Foglio1"

[budget]
limit = 180.5

[appearance]
theme = "tokyo-night"
dark = false

[locale]
language = "en"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/listini", cfg.General.CatalogDir)
	assert.Equal(t, "Foglio1", cfg.General.Sheet)
	assert.True(t, cfg.Budget.Limit.Equal(decimal.RequireFromString("180.5")), "limit = %s", cfg.Budget.Limit)
	assert.Equal(t, "tokyo-night", cfg.Appearance.Theme)
	assert.False(t, cfg.Appearance.Dark)
	assert.Equal(t, language.English, Language(cfg))
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[budget\nlimit=1"), 0o600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Budget.Limit = decimal.RequireFromString("99.90")
	cfg.General.Sheet = "Listino"

	require.NoError(t, SaveTo(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, got.Budget.Limit.Equal(cfg.Budget.Limit))
	assert.Equal(t, "Listino", got.General.Sheet)
}

func TestBudgetLimit_EnvOverride(t *testing.T) {
	cfg := DefaultConfig()

	t.Setenv(BudgetEnv, "")
	limit, err := BudgetLimit(cfg)
	require.NoError(t, err)
	assert.True(t, limit.Equal(decimal.NewFromInt(260)))

	t.Setenv(BudgetEnv, "€150,25")
	limit, err = BudgetLimit(cfg)
	require.NoError(t, err)
	assert.True(t, limit.Equal(decimal.RequireFromString("150.25")))

	t.Setenv(BudgetEnv, "lots")
	_, err = BudgetLimit(cfg)
	assert.Error(t, err)
}

func TestParseLimit(t *testing.T) {
	d, err := ParseLimit(" 260 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(260)))

	_, err = ParseLimit("-5")
	assert.Error(t, err)
}

func TestLanguage_Fallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locale.Language = "???"
	assert.Equal(t, language.Italian, Language(cfg))
}

func TestDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "spesa"), Dir())
	assert.Equal(t, filepath.Join("/tmp/xdg", "spesa", "config.toml"), Path())
}

func TestCatalogDir_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/anna")
	cfg := DefaultConfig()
	assert.Equal(t, "", CatalogDir(cfg))

	cfg.General.CatalogDir = "~/listini"
	assert.Equal(t, filepath.Join("/home/anna", "listini"), CatalogDir(cfg))

	cfg.General.CatalogDir = "/srv/listini"
	assert.Equal(t, "/srv/listini", CatalogDir(cfg))
}

// Package cmd implements the spesa CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/pipeline"
	"github.com/theirongolddev/spesa/internal/source"
)

var (
	flagBudget  string
	flagSheet   string
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "spesa [FILE]",
	Short: "Shopping list planner with a fixed budget",
	Long: "Import a product catalog (xlsx or csv), pick products and quantities,\n" +
		"and keep the running total under a fixed budget.",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBudget, "budget", "b", "", "Budget limit in euro (overrides config and "+config.BudgetEnv+")")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "Worksheet to import (default: first sheet)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite parse cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds the stderr logger shared by all commands.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "spesa"})
	switch {
	case flagVerbose:
		logger.SetLevel(log.DebugLevel)
	case flagQuiet:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// settings is the effective configuration after flags and env are applied.
type settings struct {
	cfg   config.Config
	limit decimal.Decimal
	lang  language.Tag
	sheet string
}

func loadSettings(logger *log.Logger) (settings, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config unreadable, using defaults", "path", config.Path(), "err", err)
		cfg = config.DefaultConfig()
	}

	var limit decimal.Decimal
	if flagBudget != "" {
		limit, err = config.ParseLimit(flagBudget)
	} else {
		limit, err = config.BudgetLimit(cfg)
	}
	if err != nil {
		return settings{}, err
	}

	sheet := flagSheet
	if sheet == "" {
		sheet = cfg.General.Sheet
	}

	return settings{
		cfg:   cfg,
		limit: limit,
		lang:  config.Language(cfg),
		sheet: sheet,
	}, nil
}

// resolveCatalog picks the catalog file: the argument when given, otherwise
// the newest catalog in the configured directory.
func resolveCatalog(args []string, cfg config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir := config.CatalogDir(cfg)
	if dir == "" {
		return "", errors.New("no catalog file given (pass FILE or set general.catalog_dir with `spesa setup`)")
	}
	df, ok, err := source.Latest(dir)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no .xlsx or .csv catalog in %s", dir)
	}
	return df.Path, nil
}

// loadCatalog is the shared catalog loading path used by all commands.
// Uses the SQLite cache unless --no-cache is set.
func loadCatalog(path, sheet string, logger *log.Logger) (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Importing %s...\n", filepath.Base(path))
	}

	res, err := pipeline.LoadFile(path, pipeline.Options{Sheet: sheet, Logger: logger}, !flagNoCache)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		src := "parsed"
		if res.FromCache {
			src = "from cache"
		}
		fmt.Fprintf(os.Stderr, "  %s products %s", cli.FormatNumber(int64(len(res.Items))), src)
		if dropped := res.Report.Dropped(); dropped > 0 {
			fmt.Fprintf(os.Stderr, " (%d rows skipped)", dropped)
		}
		fmt.Fprintln(os.Stderr)
	}
	return res, nil
}

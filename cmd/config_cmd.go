package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/pipeline"
	"github.com/theirongolddev/spesa/internal/store"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.CatalogDir != "" {
		fmt.Printf("    Catalog directory: %s\n", cfg.General.CatalogDir)
	} else {
		fmt.Println("    Catalog directory: not configured")
	}
	sheet := cfg.General.Sheet
	if sheet == "" {
		sheet = "(first sheet)"
	}
	fmt.Printf("    Sheet:             %s\n", sheet)
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    Limit: %s\n", cli.FormatEuro(cfg.Budget.Limit))
	if v := os.Getenv(config.BudgetEnv); v != "" {
		limit, err := config.BudgetLimit(cfg)
		if err != nil {
			fmt.Printf("    %s: %q (%s)\n", config.BudgetEnv, v, cli.RenderError(err.Error()))
		} else {
			fmt.Printf("    Effective (%s): %s\n", config.BudgetEnv, cli.FormatEuro(limit))
		}
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", theme.Resolve(cfg.Appearance.Theme, cfg.Appearance.Dark).Name)
	fmt.Printf("    Dark:  %v\n", cfg.Appearance.Dark)
	fmt.Println()

	fmt.Println("  [Locale]")
	fmt.Printf("    Language: %s\n", config.Language(cfg))
	fmt.Println()

	fmt.Printf("  Cache: %s", pipeline.CachePath())
	if info, err := os.Stat(pipeline.CachePath()); err == nil {
		fmt.Printf(" (%s", cli.FormatBytes(info.Size()))
		if c, err := store.Open(pipeline.CachePath()); err == nil {
			if n, err := c.CatalogCount(); err == nil {
				fmt.Printf(", %d catalogs", n)
			}
			_ = c.Close()
		}
		fmt.Print(")")
	}
	fmt.Println()
	fmt.Println()

	fmt.Println("  Run `spesa setup` to reconfigure.")
	return nil
}

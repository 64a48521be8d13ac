package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/source"
	"github.com/theirongolddev/spesa/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	cfg, err = vals.Apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	if dir := config.CatalogDir(cfg); dir != "" {
		files, err := source.ScanDir(dir)
		switch {
		case err != nil:
			fmt.Printf("  Catalog directory unreadable: %v\n", err)
		case len(files) == 0:
			fmt.Printf("  No .xlsx or .csv catalogs in %s yet.\n", dir)
		default:
			fmt.Printf("  Found %d catalogs, newest: %s\n", len(files), files[0].Path)
		}
	}
	fmt.Println()
	fmt.Println("  Run `spesa` to start.")
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/pipeline"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs [DIR]",
	Short: "List the catalogs in a directory and import each one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogs,
}

func init() {
	rootCmd.AddCommand(catalogsCmd)
}

func runCatalogs(_ *cobra.Command, args []string) error {
	logger := newLogger()
	st, err := loadSettings(logger)
	if err != nil {
		return err
	}

	dir := config.CatalogDir(st.cfg)
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory given and general.catalog_dir is not set")
	}

	var progressFn pipeline.ProgressFunc
	if !flagQuiet {
		progressFn = func(current, total int) {
			fmt.Fprintf(os.Stderr, "\r  Importing [%d/%d]", current, total)
		}
	}

	res, err := pipeline.LoadDir(dir, pipeline.Options{Sheet: st.sheet, Logger: logger}, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && len(res.Files) > 0 {
		fmt.Fprintln(os.Stderr)
	}

	if len(res.Files) == 0 {
		fmt.Println()
		fmt.Println(cli.RenderWarning(fmt.Sprintf("No .xlsx or .csv catalogs in %s", dir)))
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(res.Files))
	for i, f := range res.Files {
		row := []string{
			filepath.Base(f.Path),
			string(f.Format),
			cli.FormatBytes(f.Size),
			cli.FormatAge(f.ModTime),
		}
		if lr := res.Loaded[i]; lr != nil {
			row = append(row, cli.FormatNumber(int64(len(lr.Items))), cli.FormatNumber(int64(lr.Report.Dropped())), "")
		} else {
			row = append(row, "-", "-", cli.Truncate(res.Errors[i].Error(), 40))
		}
		rows = append(rows, row)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Catalogs in %s", dir)))
	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"File", "Format", "Size", "Modified", "Products", "Skipped", "Error"},
		Rows:    rows,
		Left:    2,
	}))
	return nil
}

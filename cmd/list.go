package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/model"
)

var flagSearch string

var listCmd = &cobra.Command{
	Use:   "list [FILE]",
	Short: "Import a catalog and print its products",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Filter by code, name or price")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, args []string) error {
	logger := newLogger()
	st, err := loadSettings(logger)
	if err != nil {
		return err
	}
	path, err := resolveCatalog(args, st.cfg)
	if err != nil {
		return err
	}
	res, err := loadCatalog(path, st.sheet, logger)
	if err != nil {
		return err
	}

	items := catalog.Search(res.Items, flagSearch)
	if len(items) == 0 {
		fmt.Println()
		fmt.Println(cli.RenderWarning("No products match."))
		fmt.Println()
		return nil
	}

	title := fmt.Sprintf("Catalog  %s products", cli.FormatNumber(int64(len(items))))
	if flagSearch != "" {
		title += fmt.Sprintf("  matching %q", flagSearch)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println(cli.RenderTable(catalogTable(items)))

	rep := res.Report
	fmt.Println(cli.RenderSummary([][2]string{
		{"Header row", fmt.Sprintf("%d", rep.HeaderRow+1)},
		{"Rows read", cli.FormatNumber(int64(rep.Considered))},
		{"Imported", cli.FormatNumber(int64(rep.Imported))},
		{"Skipped", cli.FormatNumber(int64(rep.Dropped()))},
	}))
	return nil
}

func catalogTable(items []model.CatalogItem) cli.Table {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Code, it.Name, cli.FormatEuro(it.UnitPrice)})
	}
	return cli.Table{
		Headers: []string{"Code", "Product", "Price"},
		Rows:    rows,
		Left:    2,
	}
}

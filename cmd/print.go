package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/report"
)

var (
	printOps []planOp
	flagCSV  string
)

var printCmd = &cobra.Command{
	Use:     "print [FILE]",
	Short:   "Print the dated shopping list for a selection",
	Example: "  spesa print listino.xlsx -a A1:2 -a B7 --csv lista.csv",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runPrint,
}

func init() {
	registerOpsFlags(printCmd, &printOps)
	printCmd.Flags().StringVar(&flagCSV, "csv", "", "Also write the list as CSV to this path")
	rootCmd.AddCommand(printCmd)
}

func runPrint(_ *cobra.Command, args []string) error {
	l, outcomes, st, err := runSelection(args, printOps)
	if err != nil {
		return err
	}

	if writeRejections(os.Stderr, outcomes) > 0 {
		fmt.Fprintln(os.Stderr)
	}

	list := report.Build(l.Snapshot(), l.GrandTotal(), time.Now(), st.lang)

	rows := list.Rows()
	rows = append(rows, []string{"---"}, []string{"", list.TotalLabel(), "", report.FormatAmount(list.Total)})

	fmt.Println()
	fmt.Println(cli.RenderTitle(list.Title))
	fmt.Println(cli.RenderTable(cli.Table{
		Headers: list.Headers(),
		Rows:    rows,
		Left:    2,
	}))

	if flagCSV == "" {
		return nil
	}
	f, err := os.Create(flagCSV) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagCSV, err)
	}
	if err := list.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", flagCSV, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", flagCSV)
	}
	return nil
}

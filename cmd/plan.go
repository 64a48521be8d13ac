package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/ledger"
	"github.com/theirongolddev/spesa/internal/model"
)

// planOp is one add or remove from the command line.
type planOp struct {
	Remove  bool
	Code    string
	Qty     int
	QtyText string // as typed; empty when defaulted
}

// opsFlag collects -a and -r values into one slice so they apply in the
// order they were given.
type opsFlag struct {
	ops    *[]planOp
	remove bool
}

func (f opsFlag) String() string { return "" }

func (f opsFlag) Type() string {
	if f.remove {
		return "CODE"
	}
	return "CODE[:QTY]"
}

func (f opsFlag) Set(v string) error {
	if f.remove {
		code := strings.TrimSpace(v)
		if code == "" {
			return errors.New("empty code")
		}
		*f.ops = append(*f.ops, planOp{Remove: true, Code: code})
		return nil
	}
	op, err := parseAddArg(v)
	if err != nil {
		return err
	}
	*f.ops = append(*f.ops, op)
	return nil
}

// parseAddArg parses "CODE" or "CODE:QTY". Quantity defaults to 1.
// Quantities the ledger will refuse (zero, negative, not a number) are kept
// so the rejection is reported with the other results.
func parseAddArg(s string) (planOp, error) {
	code, qty, hasQty := strings.Cut(strings.TrimSpace(s), ":")
	code = strings.TrimSpace(code)
	if code == "" {
		return planOp{}, fmt.Errorf("invalid add %q: empty code", s)
	}
	op := planOp{Code: code, Qty: 1}
	if hasQty {
		op.QtyText = strings.TrimSpace(qty)
		n, err := strconv.Atoi(op.QtyText)
		if err != nil {
			n = 0
		}
		op.Qty = n
	}
	return op, nil
}

// planOutcome is the result of applying one op.
type planOutcome struct {
	Op  planOp
	Err error
}

var (
	errUnknownCode = errors.New("unknown code")
	errNotSelected = errors.New("not in selection")
)

// applyPlan runs ops in order against l. Rejected ops leave l unchanged.
func applyPlan(items []model.CatalogItem, l *ledger.Ledger, ops []planOp) []planOutcome {
	out := make([]planOutcome, 0, len(ops))
	for _, op := range ops {
		res := planOutcome{Op: op}
		if op.Remove {
			if !l.Remove(op.Code) {
				res.Err = errNotSelected
			}
			out = append(out, res)
			continue
		}
		item, ok := catalog.Lookup(items, op.Code)
		if !ok {
			res.Err = errUnknownCode
		} else {
			res.Err = l.Add(item, op.Qty)
		}
		out = append(out, res)
	}
	return out
}

// rejectionReason turns an apply error into a short user-facing reason.
func rejectionReason(err error) string {
	var be *ledger.BudgetExceededError
	switch {
	case errors.As(err, &be):
		return "over budget by " + cli.FormatEuro(be.Excess)
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return "quantity must be a positive integer"
	default:
		return err.Error()
	}
}

// writeRejections prints one line per rejected op and returns how many there were.
func writeRejections(w io.Writer, outcomes []planOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err == nil {
			continue
		}
		n++
		verb := "add"
		if o.Op.Remove {
			verb = "remove"
		}
		label := o.Op.Code
		if !o.Op.Remove {
			qty := o.Op.QtyText
			if qty == "" {
				qty = strconv.Itoa(o.Op.Qty)
			}
			label = fmt.Sprintf("%s qty %s", o.Op.Code, qty)
		}
		fmt.Fprintln(w, "  "+cli.RenderWarning(fmt.Sprintf("%s %s rejected: %s", verb, label, rejectionReason(o.Err))))
	}
	return n
}

// selectionTable renders the ledger entries in insertion order.
func selectionTable(entries []model.SelectionEntry) cli.Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Item.Code,
			e.Item.Name,
			strconv.Itoa(e.Quantity),
			cli.FormatEuro(e.Item.UnitPrice),
			cli.FormatEuro(e.LineTotal),
		})
	}
	return cli.Table{
		Headers: []string{"Code", "Product", "Qty", "Price", "Total"},
		Rows:    rows,
		Left:    2,
	}
}

func budgetSummary(l *ledger.Ledger) string {
	st := l.Stats()
	return cli.RenderSummary([][2]string{
		{"Total", cli.FormatEuro(st.Spent)},
		{"Remaining", cli.FormatEuro(st.Remaining)},
		{"Limit", cli.FormatEuro(st.Limit)},
	}) + "  " + cli.RenderBudgetBar(st.UsedPercent, 30)
}

var planOps []planOp

var planCmd = &cobra.Command{
	Use:   "plan [FILE]",
	Short: "Build a selection from the command line and check it against the budget",
	Example: "  spesa plan listino.xlsx -a A1:2 -a B7 -r A1\n" +
		"  spesa plan --budget 150 -a C3:4",
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	registerOpsFlags(planCmd, &planOps)
	rootCmd.AddCommand(planCmd)
}

func registerOpsFlags(c *cobra.Command, ops *[]planOp) {
	c.Flags().VarP(opsFlag{ops: ops}, "add", "a", "Add a product (repeatable, QTY defaults to 1)")
	c.Flags().VarP(opsFlag{ops: ops, remove: true}, "remove", "r", "Remove a product (repeatable)")
}

// runSelection loads the catalog and applies ops to a fresh ledger.
func runSelection(args []string, ops []planOp) (*ledger.Ledger, []planOutcome, settings, error) {
	logger := newLogger()
	st, err := loadSettings(logger)
	if err != nil {
		return nil, nil, st, err
	}
	path, err := resolveCatalog(args, st.cfg)
	if err != nil {
		return nil, nil, st, err
	}
	res, err := loadCatalog(path, st.sheet, logger)
	if err != nil {
		return nil, nil, st, err
	}

	l := ledger.New(st.limit)
	outcomes := applyPlan(res.Items, l, ops)
	logger.Debug("selection applied", "ledger", l.ID(), "ops", len(ops), "entries", l.Len(), "total", l.GrandTotal())
	return l, outcomes, st, nil
}

func runPlan(_ *cobra.Command, args []string) error {
	l, outcomes, _, err := runSelection(args, planOps)
	if err != nil {
		return err
	}

	fmt.Println()
	if writeRejections(os.Stdout, outcomes) > 0 {
		fmt.Println()
	}

	if l.Len() == 0 {
		fmt.Println(cli.RenderWarning("Selection is empty."))
	} else {
		fmt.Println(cli.RenderTitle(fmt.Sprintf("Selection  %d products", l.Len())))
		fmt.Println(cli.RenderTable(selectionTable(l.Snapshot())))
	}
	fmt.Println(budgetSummary(l))
	fmt.Println()
	return nil
}

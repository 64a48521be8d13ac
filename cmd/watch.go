package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/watch"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [FILE]",
	Short: "Re-import a catalog whenever it changes and print what changed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 250*time.Millisecond, "Quiet period before re-importing after a change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	logger := newLogger()
	st, err := loadSettings(logger)
	if err != nil {
		return err
	}
	path, err := resolveCatalog(args, st.cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := watch.New(watch.Config{
		Path:     path,
		Sheet:    st.sheet,
		UseCache: !flagNoCache,
		Debounce: flagDebounce,
		Logger:   logger,
	})
	events, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	logger.Info("watching catalog", "path", path, "debounce", flagDebounce)
	for {
		select {
		case ev := <-events:
			printWatchEvent(ev)
		case err := <-done:
			printHistory(os.Stdout, svc.Events())
			st := svc.Status()
			logger.Info("watcher stopped", "imports", st.LoadCount, "events", st.EventCount, "uptime", time.Since(st.StartedAt).Round(time.Second))
			return err
		}
	}
}

func printWatchEvent(ev watch.Event) {
	stamp := ev.Timestamp.Format("15:04:05")
	switch ev.Type {
	case watch.EventSnapshot:
		fmt.Printf("  %s  %s in %s\n", stamp, ev.Summary(), ev.Snapshot.LoadTime.Round(time.Millisecond))
	case watch.EventDelta:
		d := ev.Delta
		fmt.Printf("  %s  %s\n", stamp, ev.Summary())
		for _, code := range d.Added {
			fmt.Printf("      + %s\n", code)
		}
		for _, code := range d.Removed {
			fmt.Printf("      - %s\n", code)
		}
		for _, pc := range d.Repriced {
			fmt.Printf("      ~ %s  %s → %s\n", pc.Code, cli.FormatEuro(pc.Old), cli.FormatEuro(pc.New))
		}
	case watch.EventError:
		fmt.Printf("  %s  %s\n", stamp, cli.RenderError(ev.Summary()))
	}
}

// printHistory lists the events still held in the watcher's buffer.
func printHistory(w io.Writer, events []watch.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("History  %d events", len(events))))
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			strconv.FormatInt(ev.ID, 10),
			ev.Timestamp.Format("15:04:05"),
			ev.Type,
			ev.Summary(),
		})
	}
	fmt.Fprintln(w, cli.RenderTable(cli.Table{
		Headers: []string{"#", "Time", "Type", "Summary"},
		Rows:    rows,
		Left:    4,
	}))
}

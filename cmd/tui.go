package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/pipeline"
	"github.com/theirongolddev/spesa/internal/tui"
	"github.com/theirongolddev/spesa/internal/tui/theme"
	"github.com/theirongolddev/spesa/internal/watch"
)

var flagLiveReload bool

var tuiCmd = &cobra.Command{
	Use:   "tui [FILE]",
	Short: "Launch the interactive shopping list",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().BoolVarP(&flagLiveReload, "watch", "w", false, "Reload the catalog when the file changes")
	}
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	// The alt screen owns the terminal, so logs go to a file or nowhere.
	logger, closeLog := tuiLogger()
	defer closeLog()

	st, err := loadSettings(logger)
	if err != nil {
		return err
	}
	theme.Active = theme.Resolve(st.cfg.Appearance.Theme, st.cfg.Appearance.Dark)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// A missing catalog is not fatal: the app shows the reason and offers setup.
	path, err := resolveCatalog(args, st.cfg)
	if err != nil {
		logger.Debug("no catalog resolved", "err", err)
		path = ""
	}

	opts := tui.Options{
		Path:       path,
		Sheet:      st.sheet,
		UseCache:   !flagNoCache,
		Limit:      st.limit,
		LimitFixed: flagBudget != "",
		Lang:       st.lang,
		Logger:     logger,
		NeedSetup:  !config.Exists(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagLiveReload && path != "" {
		svc := watch.New(watch.Config{
			Path:     path,
			Sheet:    st.sheet,
			UseCache: !flagNoCache,
			Logger:   logger,
		})
		updates, unsubscribe := svc.Subscribe()
		defer unsubscribe()
		opts.Updates = updates

		go func() {
			if err := svc.Run(ctx); err != nil {
				logger.Error("catalog watcher stopped", "err", err)
			}
		}()
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// tuiLogger writes to spesa.log in the cache directory with --verbose,
// and discards otherwise.
func tuiLogger() (*log.Logger, func()) {
	if !flagVerbose {
		return log.New(io.Discard), func() {}
	}
	dir := pipeline.CacheDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "spesa.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // fixed name under the cache dir
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{Prefix: "spesa", ReportTimestamp: true, Level: log.DebugLevel})
	return logger, func() { _ = f.Close() }
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/ledger"
	"github.com/theirongolddev/spesa/internal/report"
	"github.com/theirongolddev/spesa/internal/source"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	CatalogDir string
	Sheet      string
	Limit      string
	Theme      string
	Dark       bool
	Language   string
}

// SetupValuesFrom prefills the form from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		CatalogDir: cfg.General.CatalogDir,
		Sheet:      cfg.General.Sheet,
		Limit:      cfg.Budget.Limit.String(),
		Theme:      cfg.Appearance.Theme,
		Dark:       cfg.Appearance.Dark,
		Language:   cfg.Locale.Language,
	}
}

// Apply copies the answers onto cfg.
func (v *SetupValues) Apply(cfg config.Config) (config.Config, error) {
	limit, err := config.ParseLimit(v.Limit)
	if err != nil {
		return cfg, err
	}
	cfg.General.CatalogDir = strings.TrimSpace(v.CatalogDir)
	cfg.General.Sheet = strings.TrimSpace(v.Sheet)
	cfg.Budget.Limit = limit
	cfg.Appearance.Theme = v.Theme
	cfg.Appearance.Dark = v.Dark
	cfg.Locale.Language = v.Language
	return cfg, nil
}

// NewSetupForm builds the configuration form, writing answers into v.
func NewSetupForm(v *SetupValues) *huh.Form {
	if v.Limit == "" {
		v.Limit = ledger.DefaultLimit.String()
	}
	if v.Theme == "" {
		v.Theme = theme.FlexokiDark.Name
	}
	if v.Language == "" {
		v.Language = "it"
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themes = append(themes, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Benvenuto in spesa").
				Description("Configura listino, budget e aspetto."),
			huh.NewInput().
				Title("Cartella dei listini").
				Description("Il listino più recente viene aperto quando non si indica un file.").
				Value(&v.CatalogDir),
			huh.NewInput().
				Title("Foglio").
				Description("Vuoto per il primo foglio.").
				Value(&v.Sheet),
			huh.NewInput().
				Title("Limite di budget (€)").
				Value(&v.Limit).
				Validate(func(s string) error {
					_, err := config.ParseLimit(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tema").
				Options(themes...).
				Value(&v.Theme),
			huh.NewConfirm().
				Title("Tema scuro?").
				Affirmative("Sì").
				Negative("No").
				Value(&v.Dark),
			huh.NewSelect[string]().
				Title("Lingua della stampa").
				Options(
					huh.NewOption("Italiano", "it"),
					huh.NewOption("English", "en"),
				).
				Value(&v.Language),
		),
	)
}

// saveSetup persists the form answers and applies them to the running app.
// The budget limit only changes while the selection is empty.
func (a *App) saveSetup() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	cfg, err = a.setupVals.Apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	theme.Active = theme.Resolve(cfg.Appearance.Theme, cfg.Appearance.Dark)
	a.opts.Lang = config.Language(cfg)
	a.text = labelsFor(report.Base(a.opts.Lang))
	if a.opts.Path == "" {
		if df, ok, err := source.Latest(config.CatalogDir(cfg)); err == nil && ok {
			a.opts.Path = df.Path
			a.opts.Sheet = cfg.General.Sheet
		}
	}
	if !a.opts.LimitFixed && a.ledger.Len() == 0 {
		if limit, err := config.BudgetLimit(cfg); err == nil {
			a.opts.Limit = limit
			a.ledger = ledger.New(limit)
		}
	}
	return nil
}

package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/config"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/router"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// setupValues backs the first-run form.
type setupValues struct {
	BaseURL string
	Theme   string
	Period  string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		BaseURL: cfg.API.BaseURL,
		Theme:   cfg.Appearance.Theme,
		Period:  string(cfg.Period()),
	}
}

// apply copies the answers onto cfg.
func (v *setupValues) apply(cfg config.Config) config.Config {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.Appearance.Theme = v.Theme
	cfg.General.DefaultPeriod = v.Period
	return cfg
}

func validateServerURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return errors.New("enter a full URL such as http://localhost:5000")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	}
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}
	periods := make([]huh.Option[string], 0, len(model.Periods))
	for _, p := range model.Periods {
		periods = append(periods, huh.NewOption(p.Label(), string(p)))
	}

	return finishForm(huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pfm!").
				Description("Let's set up a few things.\nRun `pfm setup` anytime to reconfigure."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Finance server URL").
				Placeholder("http://localhost:5000").
				Validate(validateServerURL).
				Value(&v.BaseURL),
			huh.NewSelect[string]().
				Title("Default report period").
				Options(periods...).
				Value(&v.Period),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	))
}

// RunSetup runs the setup form standalone and saves the result.
func RunSetup(cfg config.Config) (config.Config, error) {
	v := newSetupValues(cfg)
	if err := newSetupForm(v).Run(); err != nil {
		return cfg, err
	}
	cfg = v.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, config.Save(cfg)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		return a.finishSetup()
	case huh.StateAborted:
		// Keep defaults for this run; setup shows again next launch.
		a.needSetup = false
		a.setupForm = nil
		return a.navigate(string(router.Root))
	}
	return a, cmd
}

func (a App) finishSetup() (App, tea.Cmd) {
	cfg := a.setupVals.apply(a.cfg)
	a.needSetup = false
	a.setupForm = nil

	if err := cfg.Validate(); err != nil {
		a.notice = err.Error()
		return a.navigate(string(router.Root))
	}
	if err := config.Save(cfg); err != nil {
		a.notice = "Could not save config: " + err.Error()
	} else {
		a.notice = "Saved to " + config.Path()
	}

	theme.SetActive(cfg.Appearance.Theme)
	if cfg.API.BaseURL != a.cfg.API.BaseURL {
		client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.Timeout()), api.WithLogger(a.baseLog))
		if err != nil {
			a.notice = err.Error()
			return a.navigate(string(router.Root))
		}
		a.connect(client)
	}
	a.cfg = cfg
	a.reports.SetPeriod(cfg.Period())
	return a.navigate(string(router.Root))
}

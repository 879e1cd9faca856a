package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pfm/internal/config"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/tui/components"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

const (
	settingsFieldAPIURL = iota
	settingsFieldTimeout
	settingsFieldTheme
	settingsFieldPeriod
	settingsFieldLogLevel
	settingsFieldCount // sentinel
)

// settingsState tracks the settings overlay.
type settingsState struct {
	open    bool
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) updateSettingsNav(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "s":
		a.settings.open = false
		a.settings.saved = false
		a.settings.saveErr = nil
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.settings.cursor = moveCursor(a.settings.cursor, 1, settingsFieldCount)
	case "k", "up":
		a.settings.cursor = moveCursor(a.settings.cursor, -1, settingsFieldCount)
	case "enter":
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldAPIURL:
		ti.Placeholder = "http://localhost:5000"
		ti.SetValue(a.cfg.API.BaseURL)
	case settingsFieldTimeout:
		ti.Placeholder = "15 (seconds)"
		ti.SetValue(strconv.Itoa(a.cfg.API.TimeoutSec))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldPeriod:
		ti.Placeholder = "3months, 6months, 1year"
		ti.SetValue(a.cfg.General.DefaultPeriod)
	case settingsFieldLogLevel:
		ti.Placeholder = "debug, info, warn, error, disabled"
		ti.SetValue(a.cfg.Log.Level)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field, validates the whole config and
// writes it. Invalid input leaves the running config untouched.
func (a *App) settingsSave() {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldAPIURL:
		cfg.API.BaseURL = strings.TrimRight(val, "/")
	case settingsFieldTimeout:
		n, err := strconv.Atoi(val)
		if err != nil {
			a.settings.saveErr = errors.New("timeout must be a whole number of seconds")
			return
		}
		cfg.API.TimeoutSec = n
	case settingsFieldTheme:
		found := false
		for _, name := range theme.Names() {
			if name == val {
				found = true
				break
			}
		}
		if !found {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
	case settingsFieldPeriod:
		cfg.General.DefaultPeriod = val
	case settingsFieldLogLevel:
		cfg.Log.Level = strings.ToLower(val)
	}

	if err := cfg.Validate(); err != nil {
		a.settings.saveErr = err
		return
	}
	if err := config.Save(cfg); err != nil {
		a.settings.saveErr = err
		return
	}

	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	if a.settings.cursor == settingsFieldPeriod {
		a.reports.SetPeriod(cfg.Period())
	}
	a.log.Info().Str(logging.FieldOperation, "settings").Int("field", a.settings.cursor).Msg("config saved")
}

func (a App) renderSettings(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.Income).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	period := model.Period(a.cfg.General.DefaultPeriod)
	fields := []struct {
		label string
		value string
	}{
		{"API URL", a.cfg.API.BaseURL},
		{"Timeout", fmt.Sprintf("%ds", a.cfg.API.TimeoutSec)},
		{"Theme", a.cfg.Appearance.Theme},
		{"Report Period", period.Label()},
		{"Log Level", a.cfg.Log.Level},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := components.CardInnerWidth(cw) - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(okStyle.Render("Saved!"))
		if a.settings.cursor == settingsFieldAPIURL || a.settings.cursor == settingsFieldTimeout {
			formBody.WriteString(labelStyle.Render(" Server changes apply on next launch."))
		}
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] close"))

	user := a.session.User().Email
	if user == "" {
		user = "(not logged in)"
	}
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Logged in as:  ") + valueStyle.Render(user) + "\n")
	infoBody.WriteString(labelStyle.Render("Server:        ") + valueStyle.Render(a.client.BaseURL()) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Session file:  ") + valueStyle.Render(a.cfg.SessionPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Log file:      ") + valueStyle.Render(a.cfg.LogPath()))

	return components.ContentCard("Settings", formBody.String(), cw) + "\n" +
		components.ContentCard("General", infoBody.String(), cw)
}

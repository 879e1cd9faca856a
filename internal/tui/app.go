// Package tui provides the interactive Bubble Tea client for pfm.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/config"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/router"
	"github.com/theirongolddev/pfm/internal/session"
	"github.com/theirongolddev/pfm/internal/tui/components"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// Deps are the long-lived objects the TUI drives.
type Deps struct {
	Config   config.Config
	Client   *api.Client
	Session  *session.Store
	Logger   zerolog.Logger
	Chart    components.ChartRenderer // nil uses components.DefaultChart
	FirstRun bool                     // show the setup form before anything else
}

// navigateMsg asks the app to resolve and show a path.
type navigateMsg struct {
	path string
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// App is the root Bubble Tea model.
type App struct {
	cfg     config.Config
	client  *api.Client
	session *session.Store
	baseLog zerolog.Logger
	log     zerolog.Logger
	chart   components.ChartRenderer

	// Screens
	router  *router.Router
	auth    *controller.Auth
	dash    *controller.Dashboard
	txs     *controller.Transactions
	budgets *controller.Budgets
	reports *controller.Reports

	// UI state
	width     int
	height    int
	route     router.Route
	showHelp  bool
	pending   int // requests in flight
	notice    string
	spinner   spinner.Model
	txCursor  int
	budCursor int

	// Active huh form, if any
	form     *huh.Form
	formKind formKind
	formErr  string
	vals     *formValues

	settings settingsState

	// First-run setup
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 140
	maxFormWidth     = 72
	minContentHeight = 5
	recentCount      = 8
)

// NewApp creates the TUI model.
func NewApp(d Deps) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	chart := d.Chart
	if chart == nil {
		chart = components.DefaultChart
	}

	a := App{
		cfg:     d.Config,
		session: d.Session,
		baseLog: d.Logger,
		log:     logging.For(d.Logger, logging.ComponentTUI),
		chart:   chart,
		router:  router.New(d.Session, d.Logger),
		spinner: sp,
		vals:    &formValues{},
	}
	a.connect(d.Client)
	a.route = a.router.Current()

	if d.FirstRun {
		a.needSetup = true
		a.setupVals = newSetupValues(d.Config)
		a.setupForm = newSetupForm(a.setupVals)
	}
	return a
}

// connect points every screen at client.
func (a *App) connect(client *api.Client) {
	a.client = client
	a.auth = controller.NewAuth(client, a.session, a.baseLog)
	a.dash = controller.NewDashboard(client, a.session, a.baseLog)
	a.txs = controller.NewTransactions(client, a.session, a.baseLog)
	a.budgets = controller.NewBudgets(client, a.session, a.baseLog)
	a.reports = controller.NewReports(client, a.session, a.baseLog, a.cfg.Period())
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, a.spinner.Tick}
	if a.needSetup {
		cmds = append(cmds, a.setupForm.Init())
	} else {
		cmds = append(cmds, navigateTo(string(router.Root)))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(min(msg.Width, maxFormWidth))
		}
		if a.form != nil {
			a.form = a.form.WithWidth(min(a.contentWidth(), maxFormWidth))
		}
		return a, nil

	case navigateMsg:
		return a.navigate(msg.path)

	case loadedMsg:
		a.pending = max(0, a.pending-1)
		a.clampCursors()
		return a, nil

	case mutatedMsg:
		a.pending = max(0, a.pending-1)
		return a.afterMutation(msg)

	case authMsg:
		a.pending = max(0, a.pending-1)
		return a.afterAuth(msg)

	case spinner.TickMsg:
		if a.pending > 0 {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.showHelp || a.settings.open || a.needSetup {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				return a.navigate(string(components.Tabs[tab].Route))
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		if a.settings.open {
			return a.updateSettingsNav(key)
		}
		return a.handleKey(key)
	}

	// Forward everything else (cursor blinks etc.) to an active form.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

// navigate resolves path against the session and loads the resulting screen.
func (a App) navigate(path string) (App, tea.Cmd) {
	a.route = a.router.Navigate(path)
	a.log.Debug().Str(logging.FieldRoute, string(a.route)).Str(logging.FieldPath, path).Msg("navigate")

	a.form = nil
	a.formKind = formNone
	a.formErr = ""
	a.settings.open = false

	switch a.route {
	case router.Login:
		return a.openForm(formLogin, newLoginForm(a.vals))
	case router.Register:
		return a.openForm(formRegister, newRegisterForm(a.vals))
	}
	return a.refresh()
}

// refresh refetches everything the current screen shows.
func (a App) refresh() (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case router.Dashboard:
		cmd = loadCmd(a.route, a.dash.Load)
	case router.Transactions:
		cmd = loadCmd(a.route, a.txs.Load)
	case router.Budgeting:
		cmd = loadCmd(a.route, a.budgets.Load, a.txs.Load)
	case router.Reports:
		cmd = loadCmd(a.route, a.reports.Load)
	default:
		return a, nil
	}
	a.pending++
	return a, tea.Batch(cmd, a.spinner.Tick)
}

func (a App) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return a, tea.Quit
	case "s":
		a.settings.open = true
		return a, nil
	case "r":
		a.notice = ""
		return a.refresh()
	case "L":
		if a.auth.Logout(context.Background()) {
			a.notice = "Logged out."
			a.vals = &formValues{}
		} else {
			a.notice = a.auth.ErrMsg()
		}
		return a.navigate(string(a.router.Refresh()))
	case "left", "right":
		idx := components.TabForRoute(a.route)
		if idx < 0 {
			idx = 0
		}
		if key == "left" {
			idx = (idx - 1 + len(components.Tabs)) % len(components.Tabs)
		} else {
			idx = (idx + 1) % len(components.Tabs)
		}
		return a.navigate(string(components.Tabs[idx].Route))
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			return a.navigate(string(components.Tabs[idx].Route))
		}
	}

	switch a.route {
	case router.Dashboard:
		return a.dashboardKey(key)
	case router.Transactions:
		return a.transactionsKey(key)
	case router.Budgeting:
		return a.budgetsKey(key)
	case router.Reports:
		return a.reportsKey(key)
	}
	return a, nil
}

// ─── Forms ──────────────────────────────────────────────────────

func (a App) openForm(kind formKind, f *huh.Form) (App, tea.Cmd) {
	a.formKind = kind
	a.form = f
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.contentWidth(), maxFormWidth))
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return a.cancelForm()
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.submitForm()
	case huh.StateAborted:
		return a.cancelForm()
	}
	return a, cmd
}

func (a App) cancelForm() (tea.Model, tea.Cmd) {
	kind := a.formKind
	a.form = nil
	a.formKind = formNone
	a.formErr = ""

	switch kind {
	case formLogin:
		return a, tea.Quit
	case formRegister:
		return a.navigate(string(router.Login))
	case formTransaction:
		a.txs.CloseForm()
	case formQuickAdd:
		a.dash.CloseForm()
	case formBudget:
		a.budgets.CloseForm()
	}
	return a, nil
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	v := a.vals
	kind := a.formKind
	a.form = nil
	a.formKind = formNone

	var cmd tea.Cmd
	switch kind {
	case formLogin:
		if v.Action == actionRegister {
			v.Action = actionLogin
			v.Password = ""
			return a.navigate(string(router.Register))
		}
		email, password := v.Email, v.Password
		auth := a.auth
		cmd = func() tea.Msg {
			ok := auth.Login(context.Background(), email, password)
			return authMsg{kind: formLogin, ok: ok}
		}

	case formRegister:
		email, password, confirm := v.Email, v.Password, v.Confirm
		auth := a.auth
		cmd = func() tea.Msg {
			message, ok := auth.Register(context.Background(), email, password, confirm)
			return authMsg{kind: formRegister, ok: ok, message: message}
		}

	case formTransaction:
		fields := v.transactionFields()
		a.txs.SetDraft(fields)
		txs := a.txs
		cmd = mutateCmd(router.Transactions, kind, func(ctx context.Context) bool {
			return txs.Submit(ctx, fields)
		})

	case formQuickAdd:
		fields := v.transactionFields()
		dash := a.dash
		cmd = mutateCmd(router.Dashboard, kind, func(ctx context.Context) bool {
			return dash.QuickAdd(ctx, fields)
		})

	case formBudget:
		fields := v.budgetFields()
		a.budgets.SetDraft(fields)
		budgets := a.budgets
		cmd = mutateCmd(router.Budgeting, kind, func(ctx context.Context) bool {
			return budgets.Submit(ctx, fields)
		})

	case formDelete:
		if !v.DeleteOK {
			return a, nil
		}
		id := v.DeleteID
		remove := a.txs.Remove
		if a.route == router.Budgeting {
			remove = a.budgets.Remove
		}
		cmd = mutateCmd(a.route, kind, func(ctx context.Context) bool {
			return remove(ctx, id)
		})

	default:
		return a, nil
	}

	a.pending++
	a.notice = ""
	return a, tea.Batch(cmd, a.spinner.Tick)
}

func (a App) afterAuth(msg authMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case formLogin:
		if msg.ok {
			a.notice = "Logged in as " + a.session.User().Email
			a.vals = &formValues{}
			return a.navigate(string(router.Dashboard))
		}
		a.vals.Password = ""
		a, cmd := a.openForm(formLogin, newLoginForm(a.vals))
		a.formErr = a.auth.ErrMsg()
		return a, cmd

	case formRegister:
		if msg.ok {
			email := a.vals.Email
			a.vals = &formValues{Email: email}
			a.notice = strings.TrimSuffix(msg.message, ".") + ". Please log in."
			return a.navigate(string(router.Login))
		}
		a.vals.Password, a.vals.Confirm = "", ""
		a, cmd := a.openForm(formRegister, newRegisterForm(a.vals))
		a.formErr = a.auth.ErrMsg()
		return a, cmd
	}
	return a, nil
}

func (a App) afterMutation(msg mutatedMsg) (tea.Model, tea.Cmd) {
	if msg.ok {
		a.formErr = ""
		if msg.kind == formDelete {
			a.notice = "Deleted."
		} else {
			a.notice = "Saved."
		}
		a.clampCursors()
		return a, nil
	}

	// A failed submit leaves the controller's form open; show it again with
	// what the user typed and the reason.
	switch msg.kind {
	case formTransaction:
		if _, open := controller.Draft[model.TransactionFields](a.txs.Form()); open {
			a, cmd := a.openForm(formTransaction, newTransactionForm(a.vals, a.transactionFormTitle()))
			a.formErr = a.txs.ErrMsg()
			return a, cmd
		}
	case formQuickAdd:
		if _, open := controller.Draft[model.TransactionFields](a.dash.Form()); open {
			a, cmd := a.openForm(formQuickAdd, newTransactionForm(a.vals, "Quick add"))
			a.formErr = a.dash.ErrMsg()
			return a, cmd
		}
	case formBudget:
		if _, open := controller.Draft[model.BudgetFields](a.budgets.Form()); open {
			a, cmd := a.openForm(formBudget, newBudgetForm(a.vals, a.budgetFormTitle()))
			a.formErr = a.budgets.ErrMsg()
			return a, cmd
		}
	}
	return a, nil
}

// ─── Layout ─────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// screenErr returns the error of the controller behind the current route.
func (a App) screenErr() string {
	switch a.route {
	case router.Dashboard:
		return a.dash.ErrMsg()
	case router.Transactions:
		return a.txs.ErrMsg()
	case router.Budgeting:
		return a.budgets.ErrMsg()
	case router.Reports:
		return a.reports.ErrMsg()
	}
	return ""
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.needSetup && a.setupForm != nil {
		return a.viewCentered(a.setupForm.View())
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.route == router.Login || a.route == router.Register {
		return a.viewAuth()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  pfm needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewCentered(body string) string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewAuth() string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Income)
	errStyle := lipgloss.NewStyle().Foreground(t.Expense).Bold(true)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ pfm"))
	b.WriteString(subtitleStyle.Render(" · Personal Finance · " + a.client.BaseURL()))
	b.WriteString("\n\n")

	if a.notice != "" {
		b.WriteString(noticeStyle.Render(a.notice))
		b.WriteString("\n\n")
	}
	if a.formErr != "" {
		b.WriteString(errStyle.Render("✗ " + a.formErr))
		b.WriteString("\n\n")
	}
	switch {
	case a.pending > 0:
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Contacting server..."))
	case a.form != nil:
		b.WriteString(a.form.View())
	}

	return a.viewCentered(b.String())
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	section := func(b *strings.Builder, name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
		b.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"d t b p", "Jump to screen"},
		{"← →", "Previous / Next screen"},
		{"j k", "Move in lists"},
		{"s", "Settings"},
	})
	section(&b, "Actions", [][2]string{
		{"n", "New transaction / budget"},
		{"e", "Edit selected"},
		{"D", "Delete selected"},
		{"c", "Cycle report period"},
		{"r", "Refresh"},
		{"L", "Log out"},
		{"Esc", "Cancel form"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.viewCentered(b.String())
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(components.TabForRoute(a.route), w)

	status := components.Status{
		User:   a.session.User().Email,
		Server: a.client.BaseURL(),
		Busy:   a.pending > 0,
	}
	if msg := a.screenErr(); msg != "" && a.form == nil {
		status.Message, status.IsError = msg, true
	} else {
		status.Message = a.notice
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.form != nil:
		content = a.renderForm(cw)
	case a.settings.open:
		content = a.renderSettings(cw)
	default:
		switch a.route {
		case router.Dashboard:
			content = a.renderDashboard(cw)
		case router.Transactions:
			content = a.renderTransactions(cw, contentH)
		case router.Budgeting:
			content = a.renderBudgets(cw, contentH)
		case router.Reports:
			content = a.renderReports(cw, contentH)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderForm(cw int) string {
	t := theme.Active
	var b strings.Builder
	if a.formErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface).Bold(true).Render("✗ " + a.formErr))
		b.WriteString("\n\n")
	}
	b.WriteString(a.form.View())
	return components.ContentCard("", b.String(), min(cw, maxFormWidth+4))
}

// loadingLine is shown in a card while its data is first fetched.
func (a App) loadingLine(what string) string {
	t := theme.Active
	return a.spinner.View() + lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" Loading "+what+"...")
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	active := components.TabForRoute(a.route)
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == active)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}

// moveCursor clamps cursor+delta into [0, n).
func moveCursor(cursor, delta, n int) int {
	return max(0, min(cursor+delta, n-1))
}

func (a *App) clampCursors() {
	a.txCursor = moveCursor(a.txCursor, 0, len(a.txs.Items()))
	a.budCursor = moveCursor(a.budCursor, 0, len(a.budgets.Items()))
}

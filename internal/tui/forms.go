package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

type formKind int

const (
	formNone formKind = iota
	formLogin
	formRegister
	formTransaction
	formQuickAdd
	formBudget
	formDelete
)

const (
	actionLogin    = "login"
	actionRegister = "register"
)

// formValues backs every huh form. It lives on the heap so the pointers huh
// writes through stay valid while App is copied by value.
type formValues struct {
	Email    string
	Password string
	Confirm  string
	Action   string

	Description string
	Amount      string
	Type        string
	Category    string
	Date        string
	StartDate   string
	EndDate     string

	DeleteID  int64
	DeleteOK  bool
	EditingID int64
}

func (v *formValues) transactionFields() model.TransactionFields {
	return model.TransactionFields{
		Description: v.Description,
		Amount:      v.Amount,
		Type:        v.Type,
		Category:    v.Category,
		Date:        v.Date,
	}
}

func (v *formValues) setTransactionFields(f model.TransactionFields) {
	v.Description = f.Description
	v.Amount = f.Amount
	v.Type = f.Type
	v.Category = f.Category
	v.Date = f.Date
}

func (v *formValues) budgetFields() model.BudgetFields {
	return model.BudgetFields{
		Category:  v.Category,
		Amount:    v.Amount,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
	}
}

func (v *formValues) setBudgetFields(f model.BudgetFields) {
	v.Category = f.Category
	v.Amount = f.Amount
	v.StartDate = f.StartDate
	v.EndDate = f.EndDate
}

// formTheme derives huh colors from the active theme.
func formTheme() *huh.Theme {
	t := theme.Active
	th := huh.ThemeBase()
	th.Focused.Title = th.Focused.Title.Foreground(t.AccentBright).Bold(true)
	th.Focused.Base = th.Focused.Base.BorderForeground(t.BorderAccent)
	th.Focused.Description = th.Focused.Description.Foreground(t.TextMuted)
	th.Focused.SelectSelector = th.Focused.SelectSelector.Foreground(t.Accent)
	th.Focused.SelectedOption = th.Focused.SelectedOption.Foreground(t.AccentBright)
	th.Focused.FocusedButton = th.Focused.FocusedButton.Background(t.Accent).Foreground(t.Background)
	th.Focused.ErrorMessage = th.Focused.ErrorMessage.Foreground(t.Expense)
	th.Blurred.Title = th.Blurred.Title.Foreground(t.TextMuted)
	return th
}

func finishForm(f *huh.Form) *huh.Form {
	return f.WithTheme(formTheme()).WithShowHelp(true)
}

func newLoginForm(v *formValues) *huh.Form {
	if v.Action == "" {
		v.Action = actionLogin
	}
	return finishForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&v.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.Password),
			huh.NewSelect[string]().
				Title("Then").
				Options(
					huh.NewOption("Log in", actionLogin),
					huh.NewOption("Create an account instead", actionRegister),
				).
				Value(&v.Action),
		).Title("Log in").Description("Sign in to your finance server."),
	))
}

func newRegisterForm(v *formValues) *huh.Form {
	return finishForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&v.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&v.Confirm),
		).Title("Create account").Description("Esc returns to login."),
	))
}

func newTransactionForm(v *formValues, title string) *huh.Form {
	if v.Type == "" {
		v.Type = string(model.Expense)
	}
	return finishForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(&v.Description),
			huh.NewInput().Title("Amount").Placeholder("0.00").Value(&v.Amount),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(model.Expense)),
					huh.NewOption("Income", string(model.Income)),
				).
				Value(&v.Type),
			huh.NewInput().Title("Category").Placeholder("Food").Value(&v.Category),
			huh.NewInput().Title("Date").Placeholder(model.DateLayout).Value(&v.Date),
		).Title(title),
	))
}

func newBudgetForm(v *formValues, title string) *huh.Form {
	return finishForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Category").Value(&v.Category),
			huh.NewInput().Title("Amount").Placeholder("0.00").Value(&v.Amount),
			huh.NewInput().Title("Start date").Placeholder(model.DateLayout).Value(&v.StartDate),
			huh.NewInput().Title("End date").Placeholder(model.DateLayout).Value(&v.EndDate),
		).Title(title),
	))
}

func newDeleteForm(v *formValues, what string) *huh.Form {
	v.DeleteOK = false
	return finishForm(huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", what)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&v.DeleteOK),
		),
	))
}

package tui

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/tui/components"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// txRows returns transactions in display order, newest first.
func (a App) txRows() []model.Transaction {
	rows := slices.Clone(a.txs.Items())
	controller.SortNewestFirst(rows)
	return rows
}

func (a App) selectedTransaction() (model.Transaction, bool) {
	rows := a.txRows()
	if a.txCursor < 0 || a.txCursor >= len(rows) {
		return model.Transaction{}, false
	}
	return rows[a.txCursor], true
}

func (a App) transactionFormTitle() string {
	if _, editing := a.txs.Form().(controller.FormEditing[model.TransactionFields]); editing {
		return "Edit transaction"
	}
	return "New transaction"
}

func (a App) transactionsKey(key string) (tea.Model, tea.Cmd) {
	n := len(a.txs.Items())
	switch key {
	case "j", "down":
		a.txCursor = moveCursor(a.txCursor, 1, n)
	case "k", "up":
		a.txCursor = moveCursor(a.txCursor, -1, n)
	case "g", "home":
		a.txCursor = 0
	case "G", "end":
		a.txCursor = moveCursor(n, 0, n)
	case "n":
		a.txs.OpenCreate(model.NewTransactionFields())
		draft, _ := controller.Draft[model.TransactionFields](a.txs.Form())
		a.vals = &formValues{}
		a.vals.setTransactionFields(draft)
		a.formErr = ""
		return a.openForm(formTransaction, newTransactionForm(a.vals, a.transactionFormTitle()))
	case "e", "enter":
		tx, ok := a.selectedTransaction()
		if !ok {
			return a, nil
		}
		a.txs.OpenEdit(tx.ID, model.FieldsFromTransaction(tx))
		a.vals = &formValues{EditingID: tx.ID}
		a.vals.setTransactionFields(model.FieldsFromTransaction(tx))
		a.formErr = ""
		return a.openForm(formTransaction, newTransactionForm(a.vals, a.transactionFormTitle()))
	case "D", "delete":
		tx, ok := a.selectedTransaction()
		if !ok {
			return a, nil
		}
		a.vals = &formValues{DeleteID: tx.ID}
		what := fmt.Sprintf("%q (%s)", tx.Description, cli.FormatSigned(tx))
		return a.openForm(formDelete, newDeleteForm(a.vals, what))
	}
	return a, nil
}

func (a App) renderTransactions(cw, h int) string {
	t := theme.Active
	rows := a.txRows()

	if len(rows) == 0 {
		switch a.txs.State() {
		case controller.Idle, controller.Loading:
			return components.ContentCard("Transactions", a.loadingLine("transactions"), cw)
		case controller.LoadFailed:
			errStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
			return components.ContentCard("Transactions", errStyle.Render(a.txs.ErrMsg()), cw)
		}
	}

	// Card border, title, column header and the hint line.
	visible := max(h-5, 3)
	offset := 0
	if a.txCursor >= visible {
		offset = a.txCursor - visible + 1
	}
	end := min(offset+visible, len(rows))

	title := fmt.Sprintf("Transactions (%d)", len(rows))
	if len(rows) > visible {
		title = fmt.Sprintf("Transactions (%d-%d of %d)", offset+1, end, len(rows))
	}

	body := renderTransactionRows(rows[offset:end], a.txCursor-offset, components.CardInnerWidth(cw))
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	return components.ContentCard(title, body, cw) + "\n" +
		hintStyle.Render(" [j/k] move  [n] new  [e] edit  [D] delete  [r] refresh")
}

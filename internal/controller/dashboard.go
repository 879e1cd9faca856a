package controller

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
)

// DashboardLoadPrefix starts every dashboard load failure message.
const DashboardLoadPrefix = "Failed to load dashboard data: "

// Dashboard loads the summary totals and the transaction list together and
// offers a quick-add form for new transactions.
type Dashboard struct {
	mu     sync.Mutex
	client *api.Client
	tokens TokenSource
	log    zerolog.Logger

	state   LoadState
	summary model.Summary
	txs     []model.Transaction
	form    FormState[model.TransactionFields]
	err     string
}

// NewDashboard creates a dashboard controller.
func NewDashboard(client *api.Client, tokens TokenSource, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		client: client,
		tokens: tokens,
		log:    logging.For(logger, logging.ComponentController).With().Str(logging.FieldEntity, "dashboard").Logger(),
		form:   FormClosed[model.TransactionFields]{},
	}
}

// Load fetches transactions and the summary concurrently. Either failing
// fails the whole load.
func (d *Dashboard) Load(ctx context.Context) bool {
	d.mu.Lock()
	d.state = Loading
	d.mu.Unlock()

	token := d.tokens.Token()
	var (
		txs     []model.Transaction
		summary model.Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = d.client.ListTransactions(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = d.client.Summary(gctx, token)
		return err
	})
	err := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = LoadFailed
		d.err = DashboardLoadPrefix + Describe(err)
		d.log.Warn().Str(logging.FieldOperation, logging.OpLoad).Err(err).Msg("dashboard load failed")
		return false
	}
	d.txs = txs
	d.summary = summary
	d.state = Loaded
	d.err = ""
	d.log.Debug().Str(logging.FieldOperation, logging.OpLoad).Int(logging.FieldCount, len(txs)).Msg("dashboard loaded")
	return true
}

// OpenQuickAdd shows the add form with a fresh expense draft.
func (d *Dashboard) OpenQuickAdd() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = FormCreating[model.TransactionFields]{Draft: model.NewTransactionFields()}
	d.err = ""
}

// CloseForm hides the quick-add form.
func (d *Dashboard) CloseForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.form = FormClosed[model.TransactionFields]{}
}

// QuickAdd validates and creates a transaction, then reloads everything.
func (d *Dashboard) QuickAdd(ctx context.Context, fields model.TransactionFields) bool {
	in, err := ValidateTransaction(fields)
	if err == nil {
		_, err = d.client.CreateTransaction(ctx, d.tokens.Token(), in)
	}
	if err != nil {
		d.mu.Lock()
		d.err = Describe(err)
		d.mu.Unlock()
		d.log.Debug().Str(logging.FieldOperation, logging.OpCreate).Err(err).Msg("quick add rejected")
		return false
	}

	d.CloseForm()
	d.Load(ctx)
	return true
}

// Summary returns the last loaded totals.
func (d *Dashboard) Summary() model.Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// Transactions returns the last loaded transactions in server order.
func (d *Dashboard) Transactions() []model.Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Transaction(nil), d.txs...)
}

// Recent returns up to n transactions, newest first. n <= 0 returns all.
func (d *Dashboard) Recent(n int) []model.Transaction {
	txs := d.Transactions()
	SortNewestFirst(txs)
	if n > 0 && len(txs) > n {
		txs = txs[:n]
	}
	return txs
}

// SortNewestFirst orders transactions by date, then id, descending.
func SortNewestFirst(txs []model.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].ID > txs[j].ID
	})
}

// State returns the load state.
func (d *Dashboard) State() LoadState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Form returns the quick-add form state.
func (d *Dashboard) Form() FormState[model.TransactionFields] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// ErrMsg returns the last error message, or "".
func (d *Dashboard) ErrMsg() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

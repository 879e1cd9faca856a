package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/report"
)

// Reports loads spending patterns and category distribution for a period.
type Reports struct {
	mu     sync.Mutex
	client *api.Client
	tokens TokenSource
	log    zerolog.Logger

	period   model.Period
	state    LoadState
	patterns []model.ReportPoint
	shares   []model.CategoryShare
	total    decimal.Decimal
	err      string
}

// NewReports creates a reports controller starting at period.
func NewReports(client *api.Client, tokens TokenSource, logger zerolog.Logger, period model.Period) *Reports {
	if period == "" {
		period = model.DefaultPeriod
	}
	return &Reports{
		client: client,
		tokens: tokens,
		log:    logging.For(logger, logging.ComponentController).With().Str(logging.FieldEntity, "reports").Logger(),
		period: period,
	}
}

// Period returns the selected window.
func (r *Reports) Period() model.Period {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.period
}

// SetPeriod selects a window. Callers reload afterwards.
func (r *Reports) SetPeriod(p model.Period) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.period = p
}

// NextPeriod advances to the following window, wrapping around.
func (r *Reports) NextPeriod() model.Period {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range model.Periods {
		if p == r.period {
			r.period = model.Periods[(i+1)%len(model.Periods)]
			return r.period
		}
	}
	r.period = model.DefaultPeriod
	return r.period
}

// Load fetches both reports concurrently.
func (r *Reports) Load(ctx context.Context) bool {
	r.mu.Lock()
	r.state = Loading
	period := r.period
	r.mu.Unlock()

	token := r.tokens.Token()
	var patterns, dist []model.ReportPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		patterns, err = r.client.SpendingPatterns(gctx, token, period)
		return err
	})
	g.Go(func() error {
		var err error
		dist, err = r.client.CategoryDistribution(gctx, token, period)
		return err
	})
	err := g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = LoadFailed
		r.err = Describe(err)
		r.log.Warn().Str(logging.FieldOperation, logging.OpLoad).Str("period", string(period)).Err(err).Msg("reports load failed")
		return false
	}
	r.patterns = patterns
	r.shares = report.Shares(dist)
	report.SortByAmount(r.shares)
	r.total = report.Total(dist)
	r.state = Loaded
	r.err = ""
	return true
}

// Patterns returns monthly spending points in server order.
func (r *Reports) Patterns() []model.ReportPoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ReportPoint(nil), r.patterns...)
}

// Shares returns the category distribution with percentages, largest first.
func (r *Reports) Shares() []model.CategoryShare {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.CategoryShare(nil), r.shares...)
}

// Total returns the summed category spending.
func (r *Reports) Total() decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// State returns the load state.
func (r *Reports) State() LoadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ErrMsg returns the last error message, or "".
func (r *Reports) ErrMsg() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

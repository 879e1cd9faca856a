package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
)

// Entity is a server-owned record with a stable id.
type Entity interface {
	EntityID() int64
}

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// Endpoints adapts one REST collection to the controller.
type Endpoints[E Entity, I any] struct {
	Name   string
	List   func(ctx context.Context, token string) ([]E, error)
	Create func(ctx context.Context, token string, in I) (E, error)
	Update func(ctx context.Context, token string, id int64, in I) (E, error)
	Delete func(ctx context.Context, token string, id int64) error
}

// Controller manages a list of E edited through drafts of type F, which the
// validator turns into request payloads of type I. After every successful
// mutation the whole collection is fetched again; the list is never patched
// locally.
//
// Errors never leave the controller. They are kept as a display string,
// available from ErrMsg, and the list keeps its last good snapshot.
type Controller[E Entity, F, I any] struct {
	mu       sync.Mutex
	ep       Endpoints[E, I]
	validate Validator[F, I]
	tokens   TokenSource
	log      zerolog.Logger

	items []E
	state LoadState
	form  FormState[F]
	err   string
}

// New creates a controller over the given endpoints.
func New[E Entity, F, I any](ep Endpoints[E, I], validate func(F) (I, error), tokens TokenSource, logger zerolog.Logger) *Controller[E, F, I] {
	return &Controller[E, F, I]{
		ep:       ep,
		validate: validate,
		tokens:   tokens,
		log:      logging.For(logger, logging.ComponentController).With().Str(logging.FieldEntity, ep.Name).Logger(),
		form:     FormClosed[F]{},
	}
}

// Load fetches the full collection. It reports whether the fetch succeeded.
func (c *Controller[E, F, I]) Load(ctx context.Context) bool {
	c.mu.Lock()
	c.state = Loading
	c.mu.Unlock()

	items, err := c.ep.List(ctx, c.tokens.Token())

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = LoadFailed
		c.err = Describe(err)
		c.log.Warn().Str(logging.FieldOperation, logging.OpLoad).Err(err).Msg("load failed")
		return false
	}
	c.items = items
	c.state = Loaded
	c.err = ""
	c.log.Debug().Str(logging.FieldOperation, logging.OpLoad).Int(logging.FieldCount, len(items)).Msg("loaded")
	return true
}

// OpenCreate shows an empty form seeded with draft.
func (c *Controller[E, F, I]) OpenCreate(draft F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = FormCreating[F]{Draft: draft}
	c.err = ""
}

// OpenEdit shows the form for an existing record.
func (c *Controller[E, F, I]) OpenEdit(id int64, draft F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = FormEditing[F]{ID: id, Draft: draft}
	c.err = ""
}

// SetDraft replaces the draft of an open form. It is a no-op when closed.
func (c *Controller[E, F, I]) SetDraft(draft F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch f := c.form.(type) {
	case FormCreating[F]:
		c.form = FormCreating[F]{Draft: draft}
	case FormEditing[F]:
		c.form = FormEditing[F]{ID: f.ID, Draft: draft}
	}
}

// CloseForm hides the form and drops its draft.
func (c *Controller[E, F, I]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = FormClosed[F]{}
}

// Submit sends the open form: a create for FormCreating, an update for
// FormEditing. It reports whether the mutation succeeded.
func (c *Controller[E, F, I]) Submit(ctx context.Context, fields F) bool {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	if edit, ok := form.(FormEditing[F]); ok {
		return c.SubmitUpdate(ctx, edit.ID, fields)
	}
	return c.SubmitCreate(ctx, fields)
}

// SubmitCreate validates fields, creates the record and refetches the list.
func (c *Controller[E, F, I]) SubmitCreate(ctx context.Context, fields F) bool {
	in, ok := c.check(fields, logging.OpCreate)
	if !ok {
		return false
	}

	created, err := c.ep.Create(ctx, c.tokens.Token(), in)
	if err != nil {
		c.fail(logging.OpCreate, 0, err)
		return false
	}
	c.log.Info().Str(logging.FieldOperation, logging.OpCreate).Int64(logging.FieldEntityID, created.EntityID()).Msg("created")

	c.CloseForm()
	c.Load(ctx)
	return true
}

// SubmitUpdate validates fields, updates record id and refetches the list.
func (c *Controller[E, F, I]) SubmitUpdate(ctx context.Context, id int64, fields F) bool {
	in, ok := c.check(fields, logging.OpUpdate)
	if !ok {
		return false
	}

	if _, err := c.ep.Update(ctx, c.tokens.Token(), id, in); err != nil {
		c.fail(logging.OpUpdate, id, err)
		return false
	}
	c.log.Info().Str(logging.FieldOperation, logging.OpUpdate).Int64(logging.FieldEntityID, id).Msg("updated")

	c.CloseForm()
	c.Load(ctx)
	return true
}

// Remove deletes record id and refetches the list.
func (c *Controller[E, F, I]) Remove(ctx context.Context, id int64) bool {
	if err := c.ep.Delete(ctx, c.tokens.Token(), id); err != nil {
		c.fail(logging.OpDelete, id, err)
		return false
	}
	c.log.Info().Str(logging.FieldOperation, logging.OpDelete).Int64(logging.FieldEntityID, id).Msg("deleted")

	c.mu.Lock()
	if edit, ok := c.form.(FormEditing[F]); ok && edit.ID == id {
		c.form = FormClosed[F]{}
	}
	c.mu.Unlock()

	c.Load(ctx)
	return true
}

func (c *Controller[E, F, I]) check(fields F, op string) (I, bool) {
	in, err := c.validate(fields)
	if err != nil {
		c.mu.Lock()
		c.err = Describe(err)
		c.mu.Unlock()
		c.log.Debug().Str(logging.FieldOperation, logging.OpValidate).Str("for", op).Err(err).Msg("rejected")
		return in, false
	}
	return in, true
}

func (c *Controller[E, F, I]) fail(op string, id int64, err error) {
	c.mu.Lock()
	c.err = Describe(err)
	c.mu.Unlock()
	c.log.Warn().Str(logging.FieldOperation, op).Int64(logging.FieldEntityID, id).Err(err).Msg("request failed")
}

// Items returns the last successfully loaded snapshot.
func (c *Controller[E, F, I]) Items() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]E(nil), c.items...)
}

// Find returns the loaded record with the given id.
func (c *Controller[E, F, I]) Find(id int64) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero E
	return zero, false
}

// State returns the load state.
func (c *Controller[E, F, I]) State() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns the current form state.
func (c *Controller[E, F, I]) Form() FormState[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// ErrMsg returns the message from the last failed operation, or "".
func (c *Controller[E, F, I]) ErrMsg() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

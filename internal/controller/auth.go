package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/pfm/internal/api"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
)

// MsgNoToken is reported when a login succeeds without issuing a token.
const MsgNoToken = "Server returned no token."

// SessionWriter is the part of the session store that auth changes.
type SessionWriter interface {
	TokenSource
	SetSession(ctx context.Context, token string, user model.User) error
	Clear(ctx context.Context) error
}

// Auth runs login, registration and logout.
type Auth struct {
	mu      sync.Mutex
	client  *api.Client
	session SessionWriter
	log     zerolog.Logger
	err     string
}

// NewAuth creates an auth controller.
func NewAuth(client *api.Client, session SessionWriter, logger zerolog.Logger) *Auth {
	return &Auth{
		client:  client,
		session: session,
		log:     logging.For(logger, logging.ComponentController).With().Str(logging.FieldEntity, "auth").Logger(),
	}
}

// Login exchanges credentials for a token and stores the session.
func (a *Auth) Login(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.setErr(invalid(MsgCredentials))
		return false
	}

	resp, err := a.client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		a.log.Info().Str(logging.FieldOperation, logging.OpLogin).Err(err).Msg("login failed")
		a.setErr(err)
		return false
	}
	if strings.TrimSpace(resp.Token) == "" {
		a.log.Warn().Str(logging.FieldOperation, logging.OpLogin).Msg("login response without token")
		a.setErr(errors.New(MsgNoToken))
		return false
	}
	user := resp.User
	if user.Email == "" {
		user.Email = email
	}
	if err := a.session.SetSession(ctx, resp.Token, user); err != nil {
		a.setErr(err)
		return false
	}
	a.setErr(nil)
	return true
}

// Register creates an account. It does not log in; on success it returns
// the server's confirmation message.
func (a *Auth) Register(ctx context.Context, email, password, confirm string) (string, bool) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.setErr(invalid(MsgCredentials))
		return "", false
	}
	if password != confirm {
		a.setErr(invalid(MsgPasswordMismatch))
		return "", false
	}

	resp, err := a.client.Register(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		a.log.Info().Str(logging.FieldOperation, logging.OpRegister).Err(err).Msg("register failed")
		a.setErr(err)
		return "", false
	}
	a.setErr(nil)
	a.log.Info().Str(logging.FieldOperation, logging.OpRegister).Int64("user_id", resp.UserID).Msg("registered")
	return resp.Message, true
}

// Logout clears the stored session. No request is made.
func (a *Auth) Logout(ctx context.Context) bool {
	if err := a.session.Clear(ctx); err != nil {
		a.setErr(err)
		return false
	}
	a.setErr(nil)
	return true
}

// ErrMsg returns the last error message, or "".
func (a *Auth) ErrMsg() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// setErr records err. A 401 here means bad credentials, not an expired
// session, so the server message is shown as is.
func (a *Auth) setErr(err error) {
	msg := Describe(err)
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = msg
}

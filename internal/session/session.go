// Package session persists the authenticated identity between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/store"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Store holds the token and user. Reads are served from memory; writes go
// through to the backing key/value store.
type Store struct {
	mu  sync.RWMutex
	kv  *store.KV
	cur model.Session
	log zerolog.Logger
}

// Open loads the session persisted at path, creating the file if needed.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	kv, err := store.Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Store{kv: kv, log: logging.For(logger, logging.ComponentSession)}
	if err := s.load(context.Background()); err != nil {
		_ = kv.Close()
		return nil, err
	}
	return s, nil
}

// NewMemory returns a Store that is never persisted.
func NewMemory() *Store {
	return &Store{log: logging.Nop()}
}

func (s *Store) load(ctx context.Context) error {
	token, err := s.kv.Get(ctx, keyToken)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: loading token: %w", err)
	}
	s.cur.Token = token

	raw, err := s.kv.Get(ctx, keyUser)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("session: loading user: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &s.cur.User); err != nil {
			s.log.Warn().Err(err).Msg("discarding unreadable user record")
		}
	}
	return nil
}

// SetSession records a successful login.
func (s *Store) SetSession(ctx context.Context, token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("session: encoding user: %w", err)
		}
		if err := s.kv.SetMany(ctx, map[string]string{keyToken: token, keyUser: string(raw)}); err != nil {
			return fmt.Errorf("session: saving: %w", err)
		}
	}
	s.cur = model.Session{Token: token, User: user}
	s.log.Info().Str(logging.FieldOperation, logging.OpLogin).Str("email", user.Email).Msg("session stored")
	return nil
}

// Clear forgets the token and user.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.Delete(ctx, keyToken, keyUser); err != nil {
			return fmt.Errorf("session: clearing: %w", err)
		}
	}
	s.cur = model.Session{}
	s.log.Info().Str(logging.FieldOperation, logging.OpLogout).Msg("session cleared")
	return nil
}

// Token returns the stored bearer token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// User returns the stored user.
func (s *Store) User() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.User
}

// Session returns a copy of the current session.
func (s *Store) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// IsAuthenticated reports whether a token is present. The server alone
// decides whether it is still valid.
func (s *Store) IsAuthenticated() bool {
	return s.Session().Valid()
}

// Close releases the backing store.
func (s *Store) Close() error {
	if s.kv == nil {
		return nil
	}
	return s.kv.Close()
}

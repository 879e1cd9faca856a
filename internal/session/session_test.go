package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/pfm/internal/logging"
	"github.com/theirongolddev/pfm/internal/model"
)

func TestSessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path, logging.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("fresh store is authenticated")
	}
	if err := s.SetSession(ctx, "tok-1", model.User{Email: "me@example.com"}); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path, logging.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()

	if got := s.Token(); got != "tok-1" {
		t.Fatalf("Token = %q, want tok-1", got)
	}
	if got := s.User().Email; got != "me@example.com" {
		t.Fatalf("User.Email = %q", got)
	}
	if !s.IsAuthenticated() {
		t.Fatal("IsAuthenticated = false after reopen")
	}
}

func TestClearRemovesPersistedSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path, logging.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetSession(ctx, "tok", model.User{Email: "x@y.z"}); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsAuthenticated() || s.User().Email != "" {
		t.Fatalf("session after Clear = %+v", s.Session())
	}
	_ = s.Close()

	s, err = Open(path, logging.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s.Close() }()
	if s.IsAuthenticated() {
		t.Fatal("cleared session came back after reopen")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	if err := s.SetSession(context.Background(), "t", model.User{Email: "m@m.m"}); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if !s.Session().Valid() {
		t.Fatal("memory session not valid")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

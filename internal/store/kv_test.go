package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
)

func openTemp(t *testing.T) (*KV, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session.db")
	kv, err := Open(path, logging.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return kv, path
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	kv, _ := openTemp(t)
	defer func() { _ = kv.Close() }()

	if _, err := kv.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store err = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "def" {
		t.Fatalf("Get = %q, want %q", got, "def")
	}

	if err := kv.Delete(ctx, "token", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v, want ErrNotFound", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	kv, path := openTemp(t)

	if err := kv.SetMany(ctx, map[string]string{"token": "t1", "user": `{"email":"a@b.c"}`}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var buf bytes.Buffer
	reopened, err := Open(path, zerolog.New(&buf).Level(zerolog.DebugLevel))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, `"component":"store"`) || !strings.Contains(out, `"schema_version":1`) {
		t.Fatalf("open log = %s", out)
	}
	defer func() { _ = reopened.Close() }()

	keys, err := reopened.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "token" || keys[1] != "user" {
		t.Fatalf("Keys = %v, want [token user]", keys)
	}
}

package router

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
)

type fakeAuth bool

func (f *fakeAuth) IsAuthenticated() bool { return bool(*f) }

func TestResolve(t *testing.T) {
	cases := []struct {
		path string
		auth bool
		want Route
	}{
		{"/", true, Dashboard},
		{"/", false, Login},
		{"", false, Login},
		{"/login", false, Login},
		{"/login", true, Login},
		{"/register", true, Register},
		{"/transactions", false, Login},
		{"/transactions", true, Transactions},
		{"/budgeting/", true, Budgeting},
		{"reports", true, Reports},
		{"/Dashboard", true, Dashboard},
		{"/nope", true, Dashboard},
		{"/nope", false, Login},
	}
	for _, tc := range cases {
		if got := Resolve(tc.path, tc.auth); got != tc.want {
			t.Errorf("Resolve(%q, %v) = %q, want %q", tc.path, tc.auth, got, tc.want)
		}
	}
}

func TestRouterFollowsSession(t *testing.T) {
	auth := fakeAuth(true)
	r := New(&auth, logging.Nop())
	if r.Current() != Dashboard {
		t.Fatalf("start = %q, want dashboard", r.Current())
	}
	if got := r.Navigate("/reports"); got != Reports {
		t.Fatalf("Navigate = %q", got)
	}

	auth = false
	if got := r.Refresh(); got != Login {
		t.Fatalf("after logout Refresh = %q, want login", got)
	}
}

func TestProtectedSet(t *testing.T) {
	for _, r := range []Route{Login, Register, Root} {
		if IsProtected(r) {
			t.Errorf("%q should not be protected", r)
		}
	}
	for _, r := range Protected {
		if IsPublic(r) {
			t.Errorf("%q should not be public", r)
		}
	}
}

func TestNavigateLogsRedirect(t *testing.T) {
	var buf bytes.Buffer
	auth := fakeAuth(false)
	r := New(&auth, zerolog.New(&buf).Level(zerolog.DebugLevel))

	r.Navigate("/login")
	if buf.Len() != 0 {
		t.Fatalf("direct hit logged: %s", buf.String())
	}
	r.Navigate("/budgeting")
	out := buf.String()
	for _, want := range []string{`"component":"router"`, `"path":"/budgeting"`, `"route":"/login"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log %s missing %s", out, want)
		}
	}
}

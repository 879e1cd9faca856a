// Package router decides which screen a path resolves to for the current
// session.
package router

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/theirongolddev/pfm/internal/logging"
)

// Route is a screen path.
type Route string

const (
	Root         Route = "/"
	Login        Route = "/login"
	Register     Route = "/register"
	Dashboard    Route = "/dashboard"
	Transactions Route = "/transactions"
	Budgeting    Route = "/budgeting"
	Reports      Route = "/reports"
)

// Protected lists the routes that need a token, in tab order.
var Protected = []Route{Dashboard, Transactions, Budgeting, Reports}

// Authenticator reports whether a token is held.
type Authenticator interface {
	IsAuthenticated() bool
}

// IsPublic reports whether r is reachable without a token.
func IsPublic(r Route) bool {
	return r == Login || r == Register
}

// IsProtected reports whether r needs a token.
func IsProtected(r Route) bool {
	for _, p := range Protected {
		if p == r {
			return true
		}
	}
	return false
}

// Resolve maps a requested path to the route to show. Token presence is all
// that is checked; an expired token still resolves to protected routes.
func Resolve(path string, authenticated bool) Route {
	r := normalize(path)
	switch {
	case IsPublic(r):
		return r
	case IsProtected(r):
		if authenticated {
			return r
		}
		return Login
	default:
		if authenticated {
			return Dashboard
		}
		return Login
	}
}

// Router resolves paths against a live session.
type Router struct {
	auth    Authenticator
	current Route
	log     zerolog.Logger
}

// New creates a router positioned at "/".
func New(auth Authenticator, logger zerolog.Logger) *Router {
	r := &Router{auth: auth, log: logging.For(logger, logging.ComponentRouter)}
	r.current = Resolve(string(Root), auth.IsAuthenticated())
	return r
}

// Navigate resolves path and makes it current.
func (r *Router) Navigate(path string) Route {
	r.current = Resolve(path, r.auth.IsAuthenticated())
	if want := normalize(path); want != r.current {
		r.log.Debug().Str(logging.FieldPath, string(want)).Str(logging.FieldRoute, string(r.current)).Msg("redirected")
	}
	return r.current
}

// Current returns the route last navigated to.
func (r *Router) Current() Route {
	return r.current
}

// Refresh re-resolves the current route, e.g. after logout.
func (r *Router) Refresh() Route {
	return r.Navigate(string(r.current))
}

func normalize(path string) Route {
	path = strings.TrimSpace(path)
	if path == "" {
		return Root
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return Route(strings.ToLower(path))
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/theirongolddev/pfm/internal/router"
)

// loadedMsg is sent when the controllers behind a route finish loading.
type loadedMsg struct {
	route router.Route
}

// mutatedMsg is sent when a create, update or delete completes.
type mutatedMsg struct {
	route router.Route
	kind  formKind
	ok    bool
}

// authMsg is sent when login or registration completes.
type authMsg struct {
	kind    formKind
	ok      bool
	message string
}

// loadCmd runs the given loaders one after another and reports the route.
func loadCmd(route router.Route, loaders ...func(context.Context) bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		for _, load := range loaders {
			load(ctx)
		}
		return loadedMsg{route: route}
	}
}

func mutateCmd(route router.Route, kind formKind, op func(context.Context) bool) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg{route: route, kind: kind, ok: op(context.Background())}
	}
}

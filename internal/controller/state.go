// Package controller holds the view-independent state machines behind each
// screen: load a collection, edit it through a form, refetch after changes.
package controller

// LoadState tracks the collection fetch lifecycle.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Loaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FormState is one of FormClosed, FormCreating or FormEditing.
type FormState[F any] interface {
	draft() (F, bool)
}

// FormClosed means no form is shown.
type FormClosed[F any] struct{}

// FormCreating holds the draft of a record not yet sent to the server.
type FormCreating[F any] struct {
	Draft F
}

// FormEditing holds the draft of an existing record.
type FormEditing[F any] struct {
	ID    int64
	Draft F
}

func (FormClosed[F]) draft() (F, bool) {
	var zero F
	return zero, false
}

func (f FormCreating[F]) draft() (F, bool) { return f.Draft, true }
func (f FormEditing[F]) draft() (F, bool)  { return f.Draft, true }

// Draft returns the draft carried by a form state, if any.
func Draft[F any](s FormState[F]) (F, bool) {
	if s == nil {
		var zero F
		return zero, false
	}
	return s.draft()
}

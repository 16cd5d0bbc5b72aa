package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/form"
)

// requestKind identifies which async request settled.
type requestKind int

const (
	reqUsers requestKind = iota
	reqPosts
	reqComments
	reqDelete
)

// requestSettledMsg reports that the attempt owning done has finished. The
// result itself is read from the request's State.
type requestSettledMsg struct {
	kind requestKind
	done <-chan struct{}
}

// awaitCmd blocks until done closes. A nil channel yields no command.
func awaitCmd(kind requestKind, done <-chan struct{}) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		<-done
		return requestSettledMsg{kind: kind, done: done}
	}
}

// formSubmittedMsg carries the outcome of a form submission and, on
// success, the entity the API returned.
type formSubmittedMsg struct {
	outcome form.Outcome
	saved   any
}

func submitCmd(ctx context.Context, ctrl formController, box *savedBox) tea.Cmd {
	return func() tea.Msg {
		out := ctrl.submit(ctx)
		msg := formSubmittedMsg{outcome: out}
		if out.Status == form.OutcomeSubmitted {
			msg.saved = box.value
		}
		return msg
	}
}

// searchDebounceMsg fires once typing in the search box has paused.
type searchDebounceMsg struct{ seq int }

func debounceCmd(seq int) tea.Cmd {
	return tea.Tick(SearchDebounce, func(_ time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

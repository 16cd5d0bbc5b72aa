package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/placeholder"
)

// usersState holds the users list view.
type usersState struct {
	req *async.Request[[]placeholder.User]

	search    textinput.Model
	searching bool
	// term is the filter in effect; it trails the input by SearchDebounce.
	term        string
	debounceSeq int

	selected int
}

func newUsersState(ctx context.Context, api placeholder.API) usersState {
	ti := textinput.New()
	ti.Placeholder = "name, email or username"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	req := async.New(ctx, func(ctx context.Context) ([]placeholder.User, error) {
		if api == nil {
			return nil, fmt.Errorf("no api configured")
		}
		return api.ListUsers(ctx)
	}, async.Options[[]placeholder.User]{RunImmediately: true})

	return usersState{req: req, search: ti}
}

// visible returns the users matching the applied search term.
func (u usersState) visible() []placeholder.User {
	return placeholder.FilterUsers(u.req.State().Data, u.term)
}

func (u usersState) selectedUser() (placeholder.User, bool) {
	list := u.visible()
	if u.selected < 0 || u.selected >= len(list) {
		return placeholder.User{}, false
	}
	return list[u.selected], true
}

func (u *usersState) clamp() {
	n := len(u.visible())
	if u.selected >= n {
		u.selected = n - 1
	}
	if u.selected < 0 {
		u.selected = 0
	}
}

// applySearch commits the typed term unless a newer keystroke is pending.
func (u *usersState) applySearch(seq int) {
	if seq != u.debounceSeq {
		return
	}
	u.term = u.search.Value()
	u.selected = 0
}

// handleUsersKey processes keyboard input for the users list.
func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	u := &m.users

	if u.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			u.searching = false
			u.search.Blur()
			// Commit right away rather than waiting for the timer.
			u.debounceSeq++
			u.term = u.search.Value()
			u.clamp()
			return m, nil
		}
		before := u.search.Value()
		var cmd tea.Cmd
		u.search, cmd = u.search.Update(msg)
		if u.search.Value() == before {
			return m, cmd
		}
		u.debounceSeq++
		return m, tea.Batch(cmd, debounceCmd(u.debounceSeq))
	}

	count := len(u.visible())

	switch {
	case key.Matches(msg, m.keys.Search):
		u.searching = true
		return m, u.search.Focus()

	case key.Matches(msg, m.keys.Escape):
		if u.term != "" || u.search.Value() != "" {
			u.search.SetValue("")
			u.term = ""
			u.debounceSeq++
			u.clamp()
		}

	case key.Matches(msg, m.keys.Retry):
		return m, awaitCmd(reqUsers, u.req.Execute(m.ctx))

	case key.Matches(msg, m.keys.NewUser):
		return m.openUserEditor(nil, ViewUsers)

	case key.Matches(msg, m.keys.Confirm):
		if user, ok := u.selectedUser(); ok {
			return m.openDetails(user)
		}

	case key.Matches(msg, m.keys.Down):
		if u.selected < count-1 {
			u.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if u.selected > 0 {
			u.selected--
		}
	case key.Matches(msg, m.keys.Top):
		u.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		u.selected = max(count-1, 0)
	}

	return m, nil
}

// renderUsers renders the users list.
func (m Model) renderUsers() string {
	styles := m.theme.Styles()
	height := m.contentHeight()
	innerWidth := max(m.width-4, 10)
	bg := m.theme.SurfaceAlt
	boxStyles := styles.WithBackground(bg)

	st := m.users.req.State()
	all := st.Data
	list := m.users.visible()

	var lines []string

	if m.users.searching || m.users.search.Value() != "" {
		lines = append(lines, m.users.search.View())
	}

	if status := renderRequestStatus(m, st, "users"); status != "" {
		lines = append(lines, status)
	}

	if st.HasData {
		lines = append(lines, boxStyles.MutedText.Render(
			fmt.Sprintf("Showing %d of %d users", len(list), len(all))))
		lines = append(lines, "")
	}

	switch {
	case !st.HasData:
	case len(list) == 0 && m.users.term != "":
		lines = append(lines, boxStyles.FaintText.Render(fmt.Sprintf("No users match %q", m.users.term)))
	case len(list) == 0:
		lines = append(lines, boxStyles.FaintText.Render("No users"))
	default:
		rows := max(height-2-len(lines), 1)
		start := 0
		if m.users.selected >= rows {
			start = m.users.selected - rows + 1
		}
		end := min(start+rows, len(list))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderUserRow(list[i], i == m.users.selected, innerWidth))
		}
	}

	return m.renderTitledBox("Users", strings.Join(lines, "\n"), m.width, height, true)
}

func (m Model) renderUserRow(user placeholder.User, selected bool, width int) string {
	nameWidth := min(28, width/3)
	handleWidth := min(18, width/5)

	name := lipgloss.NewStyle().Width(nameWidth).Render(truncate(user.Name, nameWidth-1))
	handle := lipgloss.NewStyle().Width(handleWidth).Render(truncate("@"+user.Username, handleWidth-1))
	email := truncate(user.Email, max(width-nameWidth-handleWidth-2, 0))

	row := "  " + name + handle + email
	if selected {
		return m.theme.Styles().Selected.Width(width).Render("▸ " + name + handle + email)
	}
	return m.theme.Styles().Text.Render(row)
}

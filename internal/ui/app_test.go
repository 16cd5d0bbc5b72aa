package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/placeholder"
	"github.com/five82/roster/internal/placeholder/placeholdertest"
	"github.com/five82/roster/internal/prefs"
)

func newTestModel(t *testing.T, api placeholder.API) Model {
	t.Helper()
	m := New(Options{
		Context:    context.Background(),
		API:        api,
		AppName:    "roster",
		AppVersion: "1.0.0",
		BaseURL:    "https://jsonplaceholder.typicode.com",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	return await(t, m, awaitCmd(reqUsers, m.users.req.Done()))
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the command of the last one.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

// typeText sends s one rune at a time.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

// await runs cmd and feeds back the messages that drive requests and forms,
// following any commands they return.
func await(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(t, cmd) {
		switch msg.(type) {
		case requestSettledMsg, formSubmittedMsg, confirmedMsg, searchDebounceMsg:
			next, follow := m.Update(msg)
			m = await(t, next.(Model), follow)
		}
	}
	return m
}

func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(t, c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(2 * time.Second):
		t.Fatal("command did not finish")
		return nil
	}
}

func openFirstUser(t *testing.T, fake *placeholdertest.Fake) Model {
	t.Helper()
	m := newTestModel(t, fake)
	m, cmd := press(t, m, "enter")
	m = await(t, m, cmd)
	if m.currentView != ViewDetails {
		t.Fatalf("currentView = %v, want Details", m.currentView)
	}
	return m
}

func TestUsersLoadOnStart(t *testing.T) {
	m := newTestModel(t, placeholdertest.NewFake())

	st := m.users.req.State()
	if st.Status != async.StatusSuccess || len(st.Data) != 3 {
		t.Fatalf("users state = %v with %d users, want success with 3", st.Status, len(st.Data))
	}
	view := m.View()
	if !strings.Contains(view, "Showing 3 of 3 users") {
		t.Fatalf("view missing count line:\n%s", view)
	}
	if !strings.Contains(view, "Leanne Graham") {
		t.Fatalf("view missing first user:\n%s", view)
	}
}

func TestUsersLoadFailureThenRetry(t *testing.T) {
	fake := placeholdertest.NewFake()
	fake.Errs = map[string]error{"ListUsers": &placeholder.APIError{Kind: placeholder.KindNetwork, Message: "Network error"}}
	m := newTestModel(t, fake)

	if !m.users.req.State().Failed() {
		t.Fatalf("status = %v, want error", m.users.req.State().Status)
	}
	if view := m.View(); !strings.Contains(view, "Error: Network error") {
		t.Fatalf("view missing error banner:\n%s", view)
	}

	fake.Errs = nil
	m, cmd := press(t, m, "r")
	m = await(t, m, cmd)

	if st := m.users.req.State(); st.Status != async.StatusSuccess || len(st.Data) != 3 {
		t.Fatalf("after retry status = %v with %d users", st.Status, len(st.Data))
	}
	if got := len(fake.MethodCalls("ListUsers")); got != 2 {
		t.Fatalf("ListUsers calls = %d, want 2", got)
	}
}

func TestUsersSearchIsDebounced(t *testing.T) {
	m := newTestModel(t, placeholdertest.NewFake())

	m, _ = press(t, m, "/")
	if !m.users.searching {
		t.Fatal("expected search input to be focused")
	}
	m = typeText(t, m, "ervin")
	if m.users.term != "" {
		t.Fatalf("term = %q before debounce, want empty", m.users.term)
	}

	// A timer from an earlier keystroke must not apply the term.
	next, _ := m.Update(searchDebounceMsg{seq: m.users.debounceSeq - 1})
	m = next.(Model)
	if m.users.term != "" {
		t.Fatalf("stale debounce applied term %q", m.users.term)
	}

	next, _ = m.Update(searchDebounceMsg{seq: m.users.debounceSeq})
	m = next.(Model)
	if m.users.term != "ervin" {
		t.Fatalf("term = %q, want ervin", m.users.term)
	}
	if view := m.View(); !strings.Contains(view, "Showing 1 of 3 users") {
		t.Fatalf("view missing filtered count:\n%s", view)
	}
}

func TestUsersSearchSwallowsGlobalKeys(t *testing.T) {
	m := newTestModel(t, placeholdertest.NewFake())
	theme := m.theme.Name

	m, _ = press(t, m, "/", "T", "?")
	if m.theme.Name != theme {
		t.Fatalf("theme changed to %q while typing", m.theme.Name)
	}
	if m.showHelp {
		t.Fatal("help opened while typing")
	}
	if got := m.users.search.Value(); got != "T?" {
		t.Fatalf("search value = %q, want %q", got, "T?")
	}

	m, _ = press(t, m, "enter")
	if m.users.searching || m.users.term != "T?" {
		t.Fatalf("enter should commit and leave search: searching=%v term=%q", m.users.searching, m.users.term)
	}
	if view := m.View(); !strings.Contains(view, `No users match "T?"`) {
		t.Fatalf("view missing empty-result line:\n%s", view)
	}

	m, _ = press(t, m, "esc")
	if m.users.term != "" || len(m.users.visible()) != 3 {
		t.Fatalf("esc should clear the filter, term=%q", m.users.term)
	}
}

func TestDetailsLoadPostsAndComments(t *testing.T) {
	fake := placeholdertest.NewFake()
	m := openFirstUser(t, fake)

	if got := len(m.detail.postList()); got != 2 {
		t.Fatalf("posts = %d, want 2", got)
	}
	view := m.View()
	for _, want := range []string{"Leanne Graham", "Sincere@april.biz", "Gwenborough", "Romaguera-Crona", "Posts (2)", "sunt aut facere"} {
		if !strings.Contains(view, want) {
			t.Fatalf("details view missing %q:\n%s", want, view)
		}
	}

	m, cmd := press(t, m, "enter")
	m = await(t, m, cmd)
	if got := len(m.detail.comments.State().Data); got != 2 {
		t.Fatalf("comments for post 1 = %d, want 2", got)
	}

	m, _ = press(t, m, "j")
	m, cmd = press(t, m, "enter")
	m = await(t, m, cmd)
	st := m.detail.comments.State()
	if m.detail.commentsFor.ID != 2 || len(st.Data) != 1 || st.Data[0].PostID != 2 {
		t.Fatalf("comments = %+v for post %d, want post 2's", st.Data, m.detail.commentsFor.ID)
	}

	calls := fake.MethodCalls("ListPostComments")
	if len(calls) != 2 || calls[0].ID != 1 || calls[1].ID != 2 {
		t.Fatalf("ListPostComments calls = %+v", calls)
	}
}

func TestDetailsDropsCommentsOfPreviousPost(t *testing.T) {
	fake := placeholdertest.NewFake()
	m := openFirstUser(t, fake)

	block := make(chan struct{})
	fake.Block = block

	m, first := press(t, m, "enter")
	m, _ = press(t, m, "j")
	m, second := press(t, m, "enter")

	m = await(t, m, first)
	if !m.detail.comments.State().Loading() {
		t.Fatalf("superseded attempt changed status to %v", m.detail.comments.State().Status)
	}

	close(block)
	m = await(t, m, second)

	st := m.detail.comments.State()
	if m.detail.commentsFor.ID != 2 || len(st.Data) != 1 || st.Data[0].PostID != 2 {
		t.Fatalf("comments = %+v, want only post 2's", st.Data)
	}
}

func TestDetailsEscapeReturnsToUsers(t *testing.T) {
	m := openFirstUser(t, placeholdertest.NewFake())

	m, _ = press(t, m, "esc")
	if m.currentView != ViewUsers {
		t.Fatalf("currentView = %v, want Users", m.currentView)
	}
	if m.detail.posts != nil {
		t.Fatal("details requests should be dropped on leave")
	}
}

func TestDeleteUserConfirmed(t *testing.T) {
	fake := placeholdertest.NewFake()
	m := openFirstUser(t, fake)

	m, _ = press(t, m, "d")
	if m.modal == nil {
		t.Fatal("expected confirm modal")
	}
	if view := m.View(); !strings.Contains(view, "Delete Leanne Graham") {
		t.Fatalf("modal missing user name:\n%s", view)
	}

	m, cmd := press(t, m, "y")
	if m.modal != nil {
		t.Fatal("modal should close on confirm")
	}
	m = await(t, m, cmd)

	if m.currentView != ViewUsers {
		t.Fatalf("currentView = %v, want Users", m.currentView)
	}
	if m.flash != "Deleted Leanne Graham" || m.flashError {
		t.Fatalf("flash = %q (error=%v)", m.flash, m.flashError)
	}
	calls := fake.MethodCalls("DeleteUser")
	if len(calls) != 1 || calls[0].ID != 1 {
		t.Fatalf("DeleteUser calls = %+v", calls)
	}
}

func TestClosingDetailsDropsPendingDelete(t *testing.T) {
	fake := placeholdertest.NewFake()
	m := openFirstUser(t, fake)
	block := make(chan struct{})
	fake.Block = block
	defer close(block)

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	next, _ := m.Update(cmd())
	m = next.(Model)

	req := m.detail.deleting
	if req == nil || !req.State().Loading() {
		t.Fatal("delete should be in flight")
	}

	m.detail.close()
	if got := req.State().Status; got != async.StatusIdle {
		t.Fatalf("delete status after close = %q, want idle", got)
	}
	if m.detail.deleting != nil {
		t.Fatal("close should drop the delete request")
	}
}

func TestDeleteUserFailureStaysOnDetails(t *testing.T) {
	fake := placeholdertest.NewFake()
	m := openFirstUser(t, fake)
	fake.Errs = map[string]error{"DeleteUser": &placeholder.APIError{Kind: placeholder.KindHTTP, Status: 500, Message: "HTTP 500 Internal Server Error"}}

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	m = await(t, m, cmd)

	if m.currentView != ViewDetails {
		t.Fatalf("currentView = %v, want Details", m.currentView)
	}
	if m.flash != "Delete failed: HTTP 500 Internal Server Error" || !m.flashError {
		t.Fatalf("flash = %q (error=%v)", m.flash, m.flashError)
	}
}

func TestDeleteUserCancelled(t *testing.T) {
	fake := placeholdertest.NewFake()
	m := openFirstUser(t, fake)

	m, _ = press(t, m, "d", "n")
	if m.modal != nil {
		t.Fatal("modal should close on cancel")
	}
	if m.currentView != ViewDetails {
		t.Fatalf("currentView = %v, want Details", m.currentView)
	}
	if got := len(fake.MethodCalls("DeleteUser")); got != 0 {
		t.Fatalf("DeleteUser calls = %d, want 0", got)
	}
}

func TestGlobalKeys(t *testing.T) {
	m := newTestModel(t, placeholdertest.NewFake())

	m, _ = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatal("expected help overlay")
	}
	if view := m.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Fatalf("help view:\n%s", view)
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatal("any key should close help")
	}

	_, cmd := press(t, m, "ctrl+c")
	if cmd == nil {
		t.Fatal("ctrl+c should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should quit")
	}
}

func TestThemeChangeIsSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{API: placeholdertest.NewFake(), ThemeName: "Slate", PrefsPath: path})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	m, _ = press(t, m, "T")

	p, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load() error = %v", err)
	}
	if p.Theme != m.theme.Name || p.Theme == "Slate" {
		t.Fatalf("saved theme = %q, current = %q", p.Theme, m.theme.Name)
	}
}

func TestHeaderShowsBreadcrumb(t *testing.T) {
	m := openFirstUser(t, placeholdertest.NewFake())

	if got := m.breadcrumb(); got != "Users › Leanne Graham" {
		t.Fatalf("breadcrumb = %q", got)
	}
	m, _ = press(t, m, "e")
	if got := m.breadcrumb(); got != "Users › Leanne Graham › Edit Leanne Graham" {
		t.Fatalf("breadcrumb = %q", got)
	}
}

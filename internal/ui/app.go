package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/async"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/placeholder"
	"github.com/five82/roster/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewUsers View = iota
	ViewDetails
	ViewForm
)

func (v View) String() string {
	switch v {
	case ViewDetails:
		return "Details"
	case ViewForm:
		return "Form"
	default:
		return "Users"
	}
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	API        placeholder.API
	Logger     logrus.FieldLogger
	AppName    string
	AppVersion string
	BaseURL    string
	ThemeName  string
	// PrefsPath is where theme changes are saved; empty disables saving.
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	api        placeholder.API
	log        logrus.FieldLogger
	appName    string
	appVersion string
	baseURL    string
	prefsPath  string

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	spinner     spinner.Model
	showHelp    bool
	modal       Modal

	// flash is a one-line notice shown in the header until the next key.
	flash      string
	flashError bool

	users  usersState
	detail detailState
	editor editorState
}

// New creates a new Bubble Tea model. The users list starts loading
// immediately.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	appName := opts.AppName
	if appName == "" {
		appName = "roster"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		api:         opts.API,
		log:         log,
		appName:     appName,
		appVersion:  opts.AppVersion,
		baseURL:     opts.BaseURL,
		prefsPath:   opts.PrefsPath,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewUsers,
		spinner:     sp,
	}
	m.users = newUsersState(ctx, opts.API)
	return m
}

// saveTheme remembers the current theme for the next start.
func (m Model) saveTheme() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		m.log.WithError(err).Warn("save theme preference")
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
		awaitCmd(reqUsers, m.users.req.Done()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeEditor()
		m.syncDetail()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.currentView == ViewDetails {
			m.syncDetail()
		}
		return m, cmd

	case requestSettledMsg:
		return m.handleSettled(msg)

	case searchDebounceMsg:
		m.users.applySearch(msg.seq)
		return m, nil

	case formSubmittedMsg:
		return m.handleSubmitted(msg)

	case confirmedMsg:
		if msg.action == confirmDeleteUser {
			return m.deleteSelectedUser()
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	m.flash = ""
	m.flashError = false

	// Single-letter globals stay out of the way while text is being typed.
	if !m.capturingText() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			m.saveTheme()
			m.syncDetail()
			return m, nil
		}
	}

	switch m.currentView {
	case ViewDetails:
		return m.handleDetailKey(msg)
	case ViewForm:
		return m.handleEditorKey(msg)
	default:
		return m.handleUsersKey(msg)
	}
}

// capturingText reports whether key presses are going into a text input.
func (m Model) capturingText() bool {
	return m.currentView == ViewForm || (m.currentView == ViewUsers && m.users.searching)
}

func (m Model) handleSettled(msg requestSettledMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case reqUsers:
		if msg.done != m.users.req.Done() {
			return m, nil
		}
		m.users.clamp()
		if st := m.users.req.State(); st.Failed() {
			m.log.WithField("error", st.Err).Warn("load users failed")
		}

	case reqPosts:
		if m.detail.posts == nil || msg.done != m.detail.posts.Done() {
			return m, nil
		}
		m.detail.clampPost()
		m.syncDetail()
		m.revealPost()

	case reqComments:
		if m.detail.comments == nil || msg.done != m.detail.comments.Done() {
			return m, nil
		}
		m.syncDetail()

	case reqDelete:
		if m.detail.deleting == nil || msg.done != m.detail.deleting.Done() {
			return m, nil
		}
		return m.handleDeleted()
	}
	return m, nil
}

// navigate switches views. Leaving details drops its in-flight requests.
func (m *Model) navigate(v View) {
	if m.currentView == ViewDetails && v == ViewUsers {
		m.detail.close()
	}
	m.currentView = v
	m.syncDetail()
}

func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashError = isError
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetails:
		return m.renderDetail()
	case ViewForm:
		return m.renderEditor()
	default:
		return m.renderUsers()
	}
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 3)
}

// renderRequestStatus renders the loading or error line shared by every
// async section. It returns "" once the request has settled successfully.
func renderRequestStatus[T any](m Model, st async.State[T], what string) string {
	styles := m.theme.Styles()
	switch {
	case st.Loading():
		return m.spinner.View() + " " + styles.MutedText.Render(fmt.Sprintf("Loading %s...", what))
	case st.Failed():
		retry := styles.AccentText.Render("r") + styles.MutedText.Render(" retry")
		return styles.Error.Render("Error: "+st.Err) + "  " + retry
	}
	return ""
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Cancelled from outside, e.g. SIGINT.
		return nil
	}
	return err
}

var _ tea.Model = Model{}

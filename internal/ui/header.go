package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/async"
)

// renderHeader renders the status bar: app, breadcrumb, request status,
// API root and any flash message.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	var parts []string

	logo := m.appName
	if m.appVersion != "" && !compact {
		logo += " " + m.appVersion
	}
	parts = append(parts, bg.Render(logo, styles.Logo))

	parts = append(parts, bg.Render(m.breadcrumb(), styles.Text))

	if status := m.activeStatus(); status != "" && status != async.StatusIdle {
		parts = append(parts, styles.StatusStyle(string(status)).Render(string(status)))
	}

	if m.baseURL != "" && !compact {
		parts = append(parts,
			bg.Render("api", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(m.baseURL, 40), styles.MutedText))
	}

	if m.flash != "" {
		style := styles.SuccessText
		if m.flashError {
			style = styles.DangerText
		}
		maxFlash := 60
		if compact {
			maxFlash = 30
		}
		parts = append(parts, bg.Render(truncate(m.flash, maxFlash), style))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(bg.Join(parts, "  "))
}

// breadcrumb names where the user is, e.g. "Users › Leanne Graham › Edit".
func (m Model) breadcrumb() string {
	crumbs := []string{"Users"}
	switch m.currentView {
	case ViewDetails:
		crumbs = append(crumbs, truncate(m.detail.user.Name, 30))
	case ViewForm:
		if m.detail.user.ID != 0 && m.editor.returnTo == ViewDetails {
			crumbs = append(crumbs, truncate(m.detail.user.Name, 30))
		}
		crumbs = append(crumbs, truncate(m.editor.title, 30))
	}
	return strings.Join(crumbs, " › ")
}

// activeStatus is the status of the request driving the current view.
func (m Model) activeStatus() async.Status {
	switch m.currentView {
	case ViewDetails:
		if m.detail.deleting != nil {
			return m.detail.deleting.State().Status
		}
		if m.detail.comments != nil && m.detail.comments.State().Loading() {
			return async.StatusLoading
		}
		if m.detail.posts != nil {
			return m.detail.posts.State().Status
		}
	case ViewForm:
		if m.editor.busy() {
			return async.StatusLoading
		}
		return ""
	default:
		return m.users.req.State().Status
	}
	return ""
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewDetails:
		commands = []cmd{
			{"j/k", "Posts"},
			{"enter", "Comments"},
			{"e", "Edit"},
			{"d", "Delete"},
			{"p", "New post"},
			{"E", "Edit post"},
			{"c", "Comment"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case ViewForm:
		submit := "Save"
		if m.editor.ctrl != nil && (m.editor.busy() || !m.editor.ctrl.isValid()) {
			submit = "Save (disabled)"
		}
		commands = []cmd{
			{"tab", "Next"},
			{"shift+tab", "Prev"},
			{"ctrl+s", submit},
			{"ctrl+r", "Reset"},
			{"esc", "Cancel"},
		}
	default:
		if m.users.searching {
			commands = []cmd{
				{"enter", "Apply"},
				{"esc", "Done"},
			}
		} else {
			commands = []cmd{
				{"/", "Search"},
				{"j/k", "Navigate"},
				{"enter", "Details"},
				{"n", "New"},
				{"r", "Reload"},
				{"?", "More"},
			}
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewUsers && m.users.term != "" && !m.users.searching {
		segments = append(segments, bg.Render("/"+truncate(m.users.term, 18), styles.AccentText))
	}

	if m.currentView != ViewForm {
		segments = append(segments,
			bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}

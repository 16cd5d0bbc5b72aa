package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmedMsg is sent when the user accepts a confirm dialog.
type confirmedMsg struct{ action confirmAction }

type confirmAction int

const (
	confirmDeleteUser confirmAction = iota
)

// confirmModal asks a yes/no question before a destructive action.
type confirmModal struct {
	title  string
	body   string
	action confirmAction
}

func newConfirmModal(title, body string, action confirmAction) confirmModal {
	return confirmModal{title: title, body: body, action: action}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		action := c.action
		return c, func() tea.Msg { return confirmedMsg{action: action} }, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.DangerText.Render(c.title),
		"",
		styles.Text.Render(c.body),
		"",
		styles.AccentText.Render("y")+styles.MutedText.Render(" confirm   ")+
			styles.AccentText.Render("n")+styles.MutedText.Render(" cancel"),
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(min(50, max(width-4, 20))).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

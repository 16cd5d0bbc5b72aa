package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	k := m.keys

	sections := []helpSection{
		{title: "Navigation", bindings: []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Confirm, k.Escape}},
		{title: "Users", bindings: []key.Binding{k.Search, k.NewUser, k.Retry}},
		{title: "Details", bindings: []key.Binding{k.EditUser, k.DeleteUser, k.NewPost, k.EditPost, k.AddComment, k.HalfPageDown, k.HalfPageUp}},
		{title: "Forms", bindings: []key.Binding{k.NextField, k.PrevField, k.Submit, k.ResetForm}},
		{title: "General", bindings: []key.Binding{k.CycleTheme, k.Help, k.Quit}},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

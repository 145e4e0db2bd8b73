package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp draws the full-screen key reference. Any key closes it.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	section := func(title string, bindings ...key.Binding) string {
		var b strings.Builder
		b.WriteString(styles.AccentText.Bold(true).Render(title) + "\n")
		for _, binding := range bindings {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				styles.WarningText.Render(fmt.Sprintf("%-8s", h.Key)),
				styles.Text.Render(h.Desc)))
		}
		return b.String()
	}

	keys := m.keys
	body := strings.Join([]string{
		section("General",
			keys.Help, keys.Tab, keys.ViewDashboard, keys.ViewPosts,
			keys.Refresh, keys.CycleTheme, keys.Quit),
		section("Account",
			keys.SwitchAccount, keys.ConnectAccount),
		section("Posts",
			keys.NewPost, keys.EditPost, keys.CycleTab, keys.Search,
			keys.Up, keys.Down, keys.Top, keys.Bottom),
		section("Composer",
			key.NewBinding(key.WithHelp("ctrl+s", "Save draft")),
			key.NewBinding(key.WithHelp("ctrl+p", "Publish post")),
			key.NewBinding(key.WithHelp("ctrl+d", "Schedule post")),
			key.NewBinding(key.WithHelp("ctrl+o", "Attach image from disk")),
			key.NewBinding(key.WithHelp("ctrl+u", "Attach stock photo")),
			key.NewBinding(key.WithHelp("ctrl+x", "Remove attachment")),
			keys.Escape),
		styles.FaintText.Render("press any key to close"),
	}, "\n")

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 3)

	view := frame.Render(body)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view,
			lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
	}
	return view
}

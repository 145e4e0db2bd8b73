package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/krispamB/marquillapp/internal/api"
)

// renderHeader renders the top status bar: logo, account, this month's
// volume, and connectivity.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string
	parts = append(parts, bg.Render("marquill", styles.Logo))

	if acct, ok := m.sess.AccountByID(m.accountID); ok {
		parts = append(parts,
			bg.Render("in", styles.FaintText)+bg.Space()+
				bg.Render(acct.Label(), styles.AccentText))
	} else {
		parts = append(parts, bg.Render("No LinkedIn account connected", styles.WarningText.Bold(true)))
	}

	if m.snapshot.HasMetrics {
		month := time.Now().Format("2006-01")
		parts = append(parts,
			bg.Render("This month:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d posts", m.snapshot.Metrics.CountFor(month)), styles.Text))
		parts = append(parts,
			bg.Render("Total:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", m.snapshot.Metrics.Total), styles.Text))
	}

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	} else if m.snapshot.LastError != nil {
		parts = append(parts, bg.Render("sync error", styles.WarningText))
	} else if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  ") + sep)
}

// renderFooter renders the bottom bar: the feedback banner when one is
// active, otherwise contextual key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	if m.feedback.message != "" {
		style := styles.SuccessText
		if m.feedback.isError {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(style.Render(m.feedback.message))
	}

	hints := "n new post  p posts  d dashboard  a account  C connect  h help  q quit"
	if m.currentView == ViewPosts {
		hints = "n new  enter open  f tab  / search  j/k move  d dashboard  h help  q quit"
	}
	return styles.Footer.Width(m.width).Render(hints)
}

// statusBadge renders a colored badge for a post's normalized status.
func (m Model) statusBadge(post api.Post) string {
	status := post.NormalizedStatus()
	return m.theme.Styles().StatusStyle(status).Render(status)
}

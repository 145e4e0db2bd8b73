package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/krispamB/marquillapp/internal/api"
)

const dashboardListLimit = 5

// renderDashboard renders the overview: monthly volume, recent drafts, and
// upcoming scheduled posts.
func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2 // header + footer
	now := time.Now()

	if len(m.sess.Accounts) == 0 {
		msg := styles.MutedText.Render("Connect a LinkedIn account to get started (press C).")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render("Overview"))
	b.WriteString("\n")
	if m.snapshot.HasMetrics {
		month := now.Format("2006-01")
		b.WriteString(styles.Text.Render(fmt.Sprintf("Posts this month: %d", m.snapshot.Metrics.CountFor(month))))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(fmt.Sprintf("Posts all time:   %d", m.snapshot.Metrics.Total)))
	} else if m.snapshot.LastError != nil {
		b.WriteString(styles.WarningText.Render("Metrics unavailable: " + m.snapshot.LastError.Error()))
	} else {
		b.WriteString(styles.MutedText.Render("Loading metrics..."))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Recent drafts"))
	b.WriteString("\n")
	drafts := m.recentDrafts()
	if len(drafts) == 0 {
		b.WriteString(styles.MutedText.Render("No drafts yet. Press n to compose one."))
		b.WriteString("\n")
	} else {
		for _, post := range drafts {
			line := fmt.Sprintf("%s  %s  %s",
				m.statusBadge(post),
				styles.Text.Render(truncate(postTitle(post.Content), m.width-30)),
				styles.FaintText.Render(relativeTime(post.ParsedUpdatedAt(), now)))
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Upcoming"))
	b.WriteString("\n")
	upcoming := m.upcomingScheduled(now)
	if len(upcoming) == 0 {
		b.WriteString(styles.MutedText.Render("Nothing scheduled."))
		b.WriteString("\n")
	} else {
		for _, post := range upcoming {
			line := fmt.Sprintf("%s  %s  %s",
				m.statusBadge(post),
				styles.Text.Render(truncate(postTitle(post.Content), m.width-34)),
				styles.InfoText.Render(post.ParsedScheduledAt().Local().Format("Jan 2 15:04")))
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(contentHeight).
		Render(b.String())
}

// recentDrafts returns up to dashboardListLimit drafts, newest first.
func (m Model) recentDrafts() []api.Post {
	var drafts []api.Post
	for _, post := range m.snapshot.Posts {
		if post.NormalizedStatus() == api.StatusDraft {
			drafts = append(drafts, post)
		}
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].ParsedUpdatedAt().After(drafts[j].ParsedUpdatedAt())
	})
	if len(drafts) > dashboardListLimit {
		drafts = drafts[:dashboardListLimit]
	}
	return drafts
}

// upcomingScheduled returns scheduled posts that are still in the future,
// soonest first.
func (m Model) upcomingScheduled(now time.Time) []api.Post {
	var upcoming []api.Post
	for _, post := range m.snapshot.Posts {
		if post.NormalizedStatus() != api.StatusScheduled {
			continue
		}
		if at := post.ParsedScheduledAt(); !at.IsZero() && at.After(now) {
			upcoming = append(upcoming, post)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ParsedScheduledAt().Before(upcoming[j].ParsedScheduledAt())
	})
	if len(upcoming) > dashboardListLimit {
		upcoming = upcoming[:dashboardListLimit]
	}
	return upcoming
}

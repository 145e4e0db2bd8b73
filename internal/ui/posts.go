package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krispamB/marquillapp/internal/api"
)

// PostTab filters the posts list by status.
type PostTab int

const (
	TabDrafts PostTab = iota
	TabScheduled
	TabPublished
)

func (t PostTab) status() string {
	switch t {
	case TabScheduled:
		return api.StatusScheduled
	case TabPublished:
		return api.StatusPublished
	default:
		return api.StatusDraft
	}
}

func (t PostTab) label() string {
	switch t {
	case TabScheduled:
		return "Scheduled"
	case TabPublished:
		return "Published"
	default:
		return "Drafts"
	}
}

// visiblePosts returns the posts for the active tab, filtered by the search
// query, newest first.
func (m Model) visiblePosts() []api.Post {
	wantStatus := m.postsTab.status()
	query := strings.ToLower(strings.TrimSpace(m.searchQuery))

	var posts []api.Post
	for _, post := range m.snapshot.Posts {
		if post.NormalizedStatus() != wantStatus {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(post.Content), query) {
			continue
		}
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].ParsedUpdatedAt().After(posts[j].ParsedUpdatedAt())
	})
	return posts
}

func (m *Model) clampPostSelection() {
	count := len(m.visiblePosts())
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m Model) selectedPost() *api.Post {
	posts := m.visiblePosts()
	if len(posts) == 0 || m.selectedRow < 0 || m.selectedRow >= len(posts) {
		return nil
	}
	post := posts[m.selectedRow]
	return &post
}

// handlePostsKey processes keys scoped to the posts view.
func (m Model) handlePostsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.visiblePosts()

	switch msg.String() {
	case "f":
		m.postsTab = (m.postsTab + 1) % 3
		m.selectedRow = 0
		return m, nil

	case "/":
		m.searching = true
		m.searchQuery = ""
		return m, nil

	case "j", "down":
		if m.selectedRow < len(posts)-1 {
			m.selectedRow++
		}
		return m, nil

	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
		return m, nil

	case "g", "home":
		m.selectedRow = 0
		return m, nil

	case "G", "end":
		if len(posts) > 0 {
			m.selectedRow = len(posts) - 1
		}
		return m, nil

	case "enter":
		if post := m.selectedPost(); post != nil {
			return m.openComposerEdit(*post)
		}
		return m, nil
	}
	return m, nil
}

// handleSearchKey collects the search query inline.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchQuery = ""
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.searchQuery += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			m.searchQuery += " "
		}
	}
	m.clampPostSelection()
	return m, nil
}

// renderPosts renders the tabbed posts list.
func (m Model) renderPosts() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 2
	now := time.Now()

	var b strings.Builder

	// Tab bar
	counts := map[string]int{}
	for _, post := range m.snapshot.Posts {
		counts[post.NormalizedStatus()]++
	}
	var tabs []string
	for _, tab := range []PostTab{TabDrafts, TabScheduled, TabPublished} {
		label := fmt.Sprintf("%s (%d)", tab.label(), counts[tab.status()])
		if tab == m.postsTab {
			tabs = append(tabs, styles.Selected.Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Padding(0, 1).Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	if m.searching {
		b.WriteString("   " + styles.AccentText.Render("/"+m.searchQuery+"█"))
	} else if m.searchQuery != "" {
		b.WriteString("   " + styles.FaintText.Render("filter: "+m.searchQuery))
	}
	b.WriteString("\n\n")

	posts := m.visiblePosts()
	if len(posts) == 0 {
		b.WriteString(styles.MutedText.Render("No " + strings.ToLower(m.postsTab.label()) + " posts."))
	}
	for i, post := range posts {
		timestamp := relativeTime(post.ParsedUpdatedAt(), now)
		if m.postsTab == TabScheduled {
			if at := post.ParsedScheduledAt(); !at.IsZero() {
				timestamp = at.Local().Format("Jan 2 15:04")
			}
		}
		media := ""
		if len(post.MediaURNs()) > 0 {
			media = "🖼 "
		}
		row := fmt.Sprintf("%s %s%s  %s",
			m.statusBadge(post),
			media,
			truncate(postTitle(post.Content), m.width-34),
			timestamp)
		if i == m.selectedRow {
			b.WriteString(styles.Selected.Width(m.width - 4).Render("▸ " + row))
		} else {
			b.WriteString(styles.Text.Render("  " + row))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(contentHeight).
		Render(b.String())
}

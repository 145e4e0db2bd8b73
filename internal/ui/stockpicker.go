package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/krispamB/marquillapp/internal/unsplash"
)

// stockPicker is the Unsplash search overlay inside the composer editor.
type stockPicker struct {
	queryInput textinput.Model
	query      string
	page       int
	photos     []unsplash.Photo
	hasMore    bool
	highlight  int
	loading    bool
	errMsg     string
}

type stockResultsMsg struct {
	query      string
	page       int
	result     unsplash.Result
	appendPage bool
	err        error
}

// openStockPicker builds the picker and kicks off the default search.
func (m Model) openStockPicker() (*stockPicker, tea.Cmd) {
	input := textinput.New()
	input.Placeholder = unsplash.DefaultQuery
	input.CharLimit = 100
	input.Width = 40
	input.Focus()

	picker := &stockPicker{
		queryInput: input,
		query:      unsplash.DefaultQuery,
		page:       1,
		loading:    true,
	}
	return picker, tea.Batch(m.stockSearchCmd(unsplash.DefaultQuery, 1, false), textinput.Blink)
}

func (m Model) stockSearchCmd(query string, page int, appendPage bool) tea.Cmd {
	ctx := m.composer.ctx
	client := m.unsplash
	return func() tea.Msg {
		result, err := client.Search(ctx, query, page)
		return stockResultsMsg{query: query, page: page, result: result, appendPage: appendPage, err: err}
	}
}

// apply folds a search response into the picker.
func (p *stockPicker) apply(msg stockResultsMsg) {
	if msg.query != p.query || msg.page != p.page {
		return
	}
	p.loading = false
	if msg.err != nil {
		p.errMsg = msg.err.Error()
		return
	}
	p.errMsg = ""
	if msg.appendPage {
		p.photos = unsplash.Dedupe(append(p.photos, msg.result.Photos...))
	} else {
		p.photos = msg.result.Photos
		p.highlight = 0
	}
	p.hasMore = msg.result.HasMore
	if p.highlight >= len(p.photos) {
		p.highlight = max(len(p.photos)-1, 0)
	}
}

// handleStockKey processes keyboard input while the stock picker is open.
func (m Model) handleStockKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.composer
	p := c.stock

	switch msg.String() {
	case "esc":
		c.stock = nil
		return m, nil

	case "enter":
		typed := strings.TrimSpace(p.queryInput.Value())
		if typed == "" {
			typed = unsplash.DefaultQuery
		}
		if typed != p.query {
			p.query = typed
			p.page = 1
			p.loading = true
			return m, m.stockSearchCmd(typed, 1, false)
		}
		if p.loading || len(p.photos) == 0 {
			return m, nil
		}
		photo := p.photos[p.highlight]
		c.sess.AttachStockPhoto(photo.BestURL())
		c.sess.ClearError()
		c.stock = nil
		return m, nil

	case "down", "ctrl+n":
		if p.highlight < len(p.photos)-1 {
			p.highlight++
		}
		return m, nil

	case "up", "ctrl+p":
		if p.highlight > 0 {
			p.highlight--
		}
		return m, nil

	case "ctrl+l":
		if p.hasMore && !p.loading {
			p.page++
			p.loading = true
			return m, m.stockSearchCmd(p.query, p.page, true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	p.queryInput, cmd = p.queryInput.Update(msg)
	return m, cmd
}

func (p *stockPicker) view(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Render("Stock photos") + styles.FaintText.Render("  (Unsplash)"))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render("Search: ") + p.queryInput.View())
	b.WriteString("\n")

	switch {
	case p.errMsg != "":
		b.WriteString(styles.DangerText.Render(p.errMsg) + "\n")
	case p.loading:
		b.WriteString(styles.MutedText.Render("Searching...") + "\n")
	case len(p.photos) == 0:
		b.WriteString(styles.MutedText.Render("No photos found.") + "\n")
	default:
		for i, photo := range p.photos {
			marker := "  "
			line := styles.MutedText
			if i == p.highlight {
				marker = "▸ "
				line = styles.Text
			}
			desc := photo.AltDescription
			if desc == "" {
				desc = "(untitled)"
			}
			b.WriteString(line.Render(fmt.Sprintf("%s%s", marker, truncate(desc, 48))))
			b.WriteString(styles.FaintText.Render("  by " + photo.User.Name))
			b.WriteString("\n")
		}
		if p.hasMore {
			b.WriteString(styles.FaintText.Render("  ctrl+l more results") + "\n")
		}
	}

	b.WriteString(styles.FaintText.Render("enter search/select • ↑/↓ move • esc back"))
	return b.String()
}

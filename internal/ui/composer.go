package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krispamB/marquillapp/internal/api"
	"github.com/krispamB/marquillapp/internal/composer"
	"github.com/krispamB/marquillapp/internal/platform"
)

// composerInput identifies the single-line overlay prompt open inside the
// editor, if any.
type composerInput int

const (
	inputNone composerInput = iota
	inputSchedule
	inputImagePath
)

// scheduleLayout is the local date-time format accepted by the schedule
// prompt.
const scheduleLayout = "2006-01-02 15:04"

// composerModel is the post composer modal. It wraps a composer.Session,
// which owns the flow state; this type only holds Bubble Tea plumbing on
// top of it. ctx scopes every request the session issues and is cancelled
// when the modal closes.
type composerModel struct {
	sess   *composer.Session
	ctx    context.Context
	cancel context.CancelFunc

	promptInput textinput.Model

	input     textinput.Model
	inputMode composerInput

	spin spinner.Model
	bar  progress.Model

	stock *stockPicker

	busy      bool
	busyLabel string
	notice    string
}

// openComposerCreate opens the composer at the prompt phase.
func (m Model) openComposerCreate() (tea.Model, tea.Cmd) {
	if m.accountID == "" {
		return m.withFeedback("Connect a LinkedIn account before creating posts.", true), nil
	}

	sess := composer.New(composer.Config{Mode: composer.ModeCreate})
	if m.userPrefs.PostType == string(composer.PostTypeInsight) {
		sess.SetPostType(composer.PostTypeInsight)
	}

	prompt := textinput.New()
	prompt.Placeholder = "What should this post be about?"
	prompt.CharLimit = 500
	prompt.Width = 60
	prompt.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))))
	bar := progress.New(progress.WithSolidFill(m.theme.Accent))
	bar.Width = 40
	bar.ShowPercentage = false

	ctx, cancel := context.WithCancel(m.ctx)
	m.composer = &composerModel{
		sess:        sess,
		ctx:         ctx,
		cancel:      cancel,
		promptInput: prompt,
		spin:        spin,
		bar:         bar,
	}
	return m, textinput.Blink
}

// openComposerEdit opens the composer directly in the editor for an
// existing post from the snapshot. No detail fetch is needed; the list
// already carries the content and media references.
func (m Model) openComposerEdit(post api.Post) (tea.Model, tea.Cmd) {
	sess := composer.New(composer.Config{
		Mode:           composer.ModeEdit,
		PostID:         post.ID,
		InitialContent: post.Content,
	})
	sess.SetMediaURNs(post.MediaURNs())
	sess.SetCursor(len([]rune(post.Content)))

	ctx, cancel := context.WithCancel(m.ctx)
	m.composer = &composerModel{sess: sess, ctx: ctx, cancel: cancel}
	if sess.NeedsPreviewResolution() {
		return m, m.resolvePreviewCmd(sess.MediaURNs())
	}
	return m, nil
}

// closeComposer discards the modal. Cancellation is silent: the session
// context is cancelled so in-flight requests abort, downloaded temp images
// are removed, and any late messages are dropped once the modal is gone.
func (m Model) closeComposer() Model {
	if m.composer != nil {
		m.composer.sess.CancelReveal()
		if m.composer.cancel != nil {
			m.composer.cancel()
		}
	}
	m.composer = nil
	m.tempFiles.ReleaseAll()
	return m
}

// updateComposer routes messages to the open composer modal.
func (m Model) updateComposer(msg tea.Msg) (tea.Model, tea.Cmd) {
	c := m.composer
	sess := c.sess

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleComposerKey(msg)

	case draftCreatedMsg:
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		c.busy = false
		if msg.err != nil {
			sess.SetError(msg.err.Error())
			return m, nil
		}
		sess.BeginGeneration(msg.draft.DraftID, time.Now())
		return m, tea.Batch(pollTickCmd(), c.spin.Tick)

	case pollTickMsg:
		switch sess.StartPoll(time.Now()) {
		case composer.PollSend:
			return m, tea.Batch(m.fetchDraftStatusCmd(sess.DraftID()), pollTickCmd())
		case composer.PollSkip:
			return m, pollTickCmd()
		}
		// PollStop and PollTimeout end the tick loop. On timeout the
		// session has already fallen back to the prompt with an error.
		return m, nil

	case draftStatusMsg:
		if msg.draftID != sess.DraftID() {
			return m, nil
		}
		sess.FinishPoll()
		if msg.err != nil {
			sess.FailGeneration(msg.err.Error())
			return m, nil
		}
		done := sess.ApplyStatus(composer.StatusUpdate{
			Untracked:    msg.status.Untracked(),
			Percent:      msg.status.Progress.Percentage,
			PercentValid: true,
			Step:         msg.status.Progress.CurrentStep,
		})
		if done {
			sess.BeginDraftFetch()
			return m, m.fetchDraftContentCmd(sess.DraftID())
		}
		return m, nil

	case draftContentMsg:
		if msg.draftID != sess.DraftID() {
			return m, nil
		}
		if msg.err != nil {
			sess.CompleteGeneration("", nil)
			sess.SetError(composer.LoadDraftFailedMessage())
			return m, nil
		}
		sess.CompleteGeneration(msg.post.Content, msg.post.MediaURNs())
		var cmds []tea.Cmd
		if sess.Revealing() {
			cmds = append(cmds, revealTickCmd())
		}
		if sess.NeedsPreviewResolution() {
			cmds = append(cmds, m.resolvePreviewCmd(sess.MediaURNs()))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if sess.Phase() != composer.PhaseGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		c.spin, cmd = c.spin.Update(msg)
		return m, cmd

	case revealTickMsg:
		if sess.RevealNext() {
			return m, revealTickCmd()
		}
		return m, nil

	case previewResolvedMsg:
		if msg.err == nil {
			sess.SetResolvedPreview(msg.url)
		}
		return m, nil

	case stockResultsMsg:
		if c.stock != nil {
			c.stock.apply(msg)
		}
		return m, nil

	case composerActionMsg:
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		c.busy = false
		if msg.err != nil {
			sess.SetError(msg.err.Error())
			return m, nil
		}
		if msg.kind == actionSave {
			// Saving confirms in place; the editor stays open.
			sess.ClearError()
			c.notice = msg.message
			return m, nil
		}
		m = m.closeComposer()
		if m.refresher != nil {
			m.refresher.Kick()
		}
		return m.withFeedback(msg.message, false), nil
	}

	return m, nil
}

// handleComposerKey processes keyboard input while the composer is open.
func (m Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.composer
	sess := c.sess

	if c.busy {
		// A hung action must not trap the user; esc still closes.
		if msg.String() == "esc" {
			return m.closeComposer(), nil
		}
		return m, nil
	}
	if c.stock != nil {
		return m.handleStockKey(msg)
	}
	if c.inputMode != inputNone {
		return m.handleOverlayKey(msg)
	}

	switch sess.Phase() {
	case composer.PhasePrompt:
		return m.handlePromptKey(msg)
	case composer.PhaseGenerating:
		if msg.String() == "esc" {
			return m.closeComposer(), nil
		}
		return m, nil
	default:
		return m.handleEditorKey(msg)
	}
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.composer
	sess := c.sess

	switch msg.String() {
	case "esc":
		return m.closeComposer(), nil

	case "ctrl+t":
		if sess.PostType() == composer.PostTypeQuick {
			sess.SetPostType(composer.PostTypeInsight)
		} else {
			sess.SetPostType(composer.PostTypeQuick)
		}
		m.userPrefs.PostType = string(sess.PostType())
		m.savePrefs()
		return m, nil

	case "enter":
		sess.SetPrompt(c.promptInput.Value())
		if err := sess.ValidateGenerate(m.accountID); err != nil {
			sess.SetError(err.Error())
			return m, nil
		}
		c.busy = true
		c.busyLabel = "Submitting prompt..."
		return m, m.createDraftCmd(sess.Prompt(), string(sess.PostType()))
	}

	var cmd tea.Cmd
	c.promptInput, cmd = c.promptInput.Update(msg)
	sess.SetPrompt(c.promptInput.Value())
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.composer
	sess := c.sess
	c.notice = ""

	// While the draft streams in, only cancellation is accepted.
	if sess.Revealing() {
		if msg.String() == "esc" {
			return m.closeComposer(), nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m.closeComposer(), nil

	case "ctrl+s":
		if err := sess.ValidateSaveDraft(); err != nil {
			sess.SetError(err.Error())
			return m, nil
		}
		c.busy = true
		c.busyLabel = "Saving draft..."
		return m, m.composerActionCmd(actionSave, time.Time{})

	case "ctrl+p":
		if err := sess.ValidatePublish(); err != nil {
			sess.SetError(err.Error())
			return m, nil
		}
		c.busy = true
		c.busyLabel = "Publishing..."
		return m, m.composerActionCmd(actionPublish, time.Time{})

	case "ctrl+d":
		return m.openOverlay(inputSchedule, "2026-01-02 15:04"), textinput.Blink

	case "ctrl+o":
		return m.openOverlay(inputImagePath, "~/Pictures/photo.jpg"), textinput.Blink

	case "ctrl+u":
		if m.unsplash == nil || !m.unsplash.Configured() {
			sess.SetError("Unsplash access key is missing.")
			return m, nil
		}
		picker, cmd := m.openStockPicker()
		c.stock = picker
		return m, cmd

	case "ctrl+x":
		sess.ClearAttachment()
		return m, nil

	case "left":
		sess.SetCursor(sess.Cursor() - 1)
		return m, nil
	case "right":
		sess.SetCursor(sess.Cursor() + 1)
		return m, nil
	case "home", "ctrl+a":
		sess.SetCursor(0)
		return m, nil
	case "end", "ctrl+e":
		sess.SetCursor(len([]rune(sess.Content())))
		return m, nil

	case "backspace":
		runes := []rune(sess.Content())
		at := sess.Cursor()
		if at > 0 {
			sess.SetContent(string(runes[:at-1]) + string(runes[at:]))
			sess.SetCursor(at - 1)
		}
		return m, nil

	case "enter":
		sess.InsertAtCursor("\n")
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		sess.InsertAtCursor(string(msg.Runes))
	case tea.KeySpace:
		sess.InsertAtCursor(" ")
	}
	return m, nil
}

// openOverlay opens the single-line schedule or image path prompt.
func (m Model) openOverlay(mode composerInput, placeholder string) Model {
	c := m.composer
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 200
	input.Width = 50
	input.Focus()
	c.input = input
	c.inputMode = mode
	return m
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.composer
	sess := c.sess

	switch msg.String() {
	case "esc":
		c.inputMode = inputNone
		return m, nil

	case "enter":
		value := strings.TrimSpace(c.input.Value())
		mode := c.inputMode
		c.inputMode = inputNone

		if mode == inputImagePath {
			return m.attachDeviceFile(value), nil
		}

		at, err := time.ParseInLocation(scheduleLayout, value, time.Local)
		if err != nil {
			sess.SetError("Please choose a valid schedule date and time.")
			return m, nil
		}
		if err := sess.ValidateSchedule(at); err != nil {
			sess.SetError(err.Error())
			return m, nil
		}
		c.busy = true
		c.busyLabel = "Scheduling..."
		return m, m.composerActionCmd(actionSchedule, at)
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return m, cmd
}

// attachDeviceFile validates a local image path and records it as the
// pending attachment.
func (m Model) attachDeviceFile(path string) Model {
	sess := m.composer.sess
	if path == "" {
		return m
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	mimeType := platform.MIMEForPath(path)
	if mimeType == "" {
		sess.SetError("Unsupported image type. Use JPG, PNG, GIF, or WEBP.")
		return m
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		sess.SetError("Unable to read the selected image file.")
		return m
	}
	sess.AttachDeviceFile(path, mimeType)
	sess.ClearError()
	return m
}

// Rendering

func (m Model) renderComposer() string {
	sess := m.composer.sess

	var body string
	switch sess.Phase() {
	case composer.PhasePrompt:
		body = m.renderComposerPrompt()
	case composer.PhaseGenerating:
		body = m.renderComposerGenerating()
	default:
		body = m.renderComposerEditor()
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(min(m.width-4, 78))

	view := frame.Render(body)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view,
			lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
	}
	return view
}

func (m Model) renderComposerPrompt() string {
	c := m.composer
	sess := c.sess
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("New post"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render("Post type: ") + styles.InfoText.Render(postTypeLabel(sess.PostType())))
	b.WriteString(styles.FaintText.Render("  (ctrl+t to switch)"))
	b.WriteString("\n\n")
	b.WriteString(c.promptInput.View())
	b.WriteString("\n")
	if errMsg := sess.Err(); errMsg != "" {
		b.WriteString("\n" + styles.DangerText.Render(errMsg))
	}
	if c.busy {
		b.WriteString("\n" + styles.MutedText.Render(c.busyLabel))
	}
	b.WriteString("\n\n" + styles.FaintText.Render("enter generate • ctrl+t post type • esc cancel"))
	return b.String()
}

func (m Model) renderComposerGenerating() string {
	c := m.composer
	sess := c.sess
	styles := m.theme.Styles()
	prog := sess.Progress()

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Generating your draft"))
	b.WriteString("\n\n")
	b.WriteString(c.bar.ViewAs(float64(prog.Percent) / 100))
	b.WriteString(styles.Text.Render(fmt.Sprintf(" %3d%%", prog.Percent)))
	b.WriteString("\n\n")
	b.WriteString(c.spin.View() + styles.InfoText.Render(prog.StepLabel+"..."))
	b.WriteString("\n\n" + styles.FaintText.Render("esc cancel"))
	return b.String()
}

func (m Model) renderComposerEditor() string {
	c := m.composer
	sess := c.sess
	styles := m.theme.Styles()

	title := "New post"
	if sess.Mode() == composer.ModeEdit {
		title = "Edit post"
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderEditorContent())
	b.WriteString("\n\n")
	b.WriteString(m.renderCharCounter())

	if line := m.renderAttachmentLine(); line != "" {
		b.WriteString("\n" + line)
	}
	if errMsg := sess.Err(); errMsg != "" {
		b.WriteString("\n" + styles.DangerText.Render(errMsg))
	}
	if c.notice != "" {
		b.WriteString("\n" + styles.SuccessText.Render(c.notice))
	}
	if c.busy {
		b.WriteString("\n" + styles.MutedText.Render(c.busyLabel))
	}

	switch {
	case c.stock != nil:
		b.WriteString("\n\n" + c.stock.view(styles))
	case c.inputMode == inputSchedule:
		b.WriteString("\n\n" + styles.Text.Render("Schedule for ("+scheduleLayout+"): ") + c.input.View())
		b.WriteString("\n" + styles.FaintText.Render("enter schedule • esc back"))
	case c.inputMode == inputImagePath:
		b.WriteString("\n\n" + styles.Text.Render("Image path: ") + c.input.View())
		b.WriteString("\n" + styles.FaintText.Render("enter attach • esc back"))
	default:
		b.WriteString("\n\n" + styles.FaintText.Render(m.editorHints()))
	}
	return b.String()
}

func (m Model) editorHints() string {
	sess := m.composer.sess
	hints := []string{}
	if sess.CanSaveDraft() {
		hints = append(hints, "ctrl+s save")
	}
	hints = append(hints,
		"ctrl+p publish",
		"ctrl+d schedule",
		"ctrl+o image",
		"ctrl+u stock photo",
	)
	if sess.Attachment().Source != composer.ImageNone || sess.PreviewURL() != "" {
		hints = append(hints, "ctrl+x remove image")
	}
	hints = append(hints, "esc close")
	return strings.Join(hints, " • ")
}

// renderEditorContent shows the post body, wrapped, with a block cursor at
// the insertion point. The cursor is hidden while the draft streams in.
func (m Model) renderEditorContent() string {
	sess := m.composer.sess
	styles := m.theme.Styles()

	content := sess.Content()
	if !sess.Revealing() {
		runes := []rune(content)
		at := sess.Cursor()
		if at > len(runes) {
			at = len(runes)
		}
		content = string(runes[:at]) + "▌" + string(runes[at:])
	}
	if strings.TrimSpace(content) == "" && !sess.Revealing() {
		return styles.FaintText.Render("Start typing your post...") + "\n"
	}
	return styles.Text.Render(wrap(content, min(m.width-10, 72)))
}

func (m Model) renderCharCounter() string {
	sess := m.composer.sess
	styles := m.theme.Styles()
	counter := fmt.Sprintf("%d / %d", sess.CharsUsed(), sess.MaxChars())
	switch {
	case sess.OverLimit():
		return styles.DangerText.Render(counter + "  over the character limit")
	case sess.NearLimit():
		return styles.WarningText.Render(counter)
	default:
		return styles.MutedText.Render(counter)
	}
}

func (m Model) renderAttachmentLine() string {
	sess := m.composer.sess
	styles := m.theme.Styles()

	switch sess.Attachment().Source {
	case composer.ImageDevice:
		return styles.InfoText.Render("🖼 " + truncate(sess.Attachment().FilePath, 60))
	case composer.ImageStock:
		return styles.InfoText.Render("🖼 stock photo selected")
	}
	if sess.PreviewURL() != "" {
		return styles.InfoText.Render("🖼 attached image")
	}
	if sess.NeedsPreviewResolution() {
		return styles.FaintText.Render("🖼 loading attached image...")
	}
	return ""
}

func postTypeLabel(t composer.PostType) string {
	if t == composer.PostTypeInsight {
		return "Insight post"
	}
	return "Quick post"
}

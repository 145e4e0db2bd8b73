// Package ui provides the Bubble Tea TUI for marquill: a dashboard and
// posts list over the shared snapshot store, plus the composer modal that
// drives AI draft generation, editing, scheduling, and publishing.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krispamB/marquillapp/internal/api"
	"github.com/krispamB/marquillapp/internal/imagecache"
	"github.com/krispamB/marquillapp/internal/platform"
	"github.com/krispamB/marquillapp/internal/prefs"
	"github.com/krispamB/marquillapp/internal/session"
	"github.com/krispamB/marquillapp/internal/state"
	"github.com/krispamB/marquillapp/internal/unsplash"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewPosts
)

// AccountRefresher is the slice of the background refresher the UI drives.
type AccountRefresher interface {
	SetAccount(accountID string)
	Kick()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    api.Service
	Store     *state.Store
	Session   session.Session
	Refresher AccountRefresher
	Resolver  *imagecache.Resolver
	Unsplash  *unsplash.Client
	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
}

// feedback is a transient footer banner.
type feedback struct {
	message   string
	isError   bool
	expiresAt time.Time
}

const (
	uiTick           = time.Second
	feedbackDuration = 4 * time.Second
)

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	client    api.Service
	store     *state.Store
	sess      session.Session
	refresher AccountRefresher
	resolver  *imagecache.Resolver
	unsplash  *unsplash.Client
	tempFiles *platform.TempFiles
	prefsPath string
	userPrefs prefs.Prefs

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	accountID   string

	// Posts view state
	postsTab    PostTab
	selectedRow int
	searching   bool
	searchQuery string

	// Composer modal, nil when closed
	composer *composerModel

	feedback feedback
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type authURLMsg struct {
	url string
	err error
}

// New creates the root Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	accountID := opts.Prefs.AccountID
	if _, ok := opts.Session.AccountByID(accountID); !ok || accountID == "" {
		accountID = opts.Session.PrimaryAccountID()
	}

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		sess:      opts.Session,
		refresher: opts.Refresher,
		resolver:  opts.Resolver,
		unsplash:  opts.Unsplash,
		tempFiles: &platform.TempFiles{},
		prefsPath: prefsPath,
		userPrefs: opts.Prefs,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		accountID: accountID,
		postsTab:  TabDrafts,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(uiTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
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
		return m, nil

	case tickMsg:
		if !m.feedback.expiresAt.IsZero() && time.Time(msg).After(m.feedback.expiresAt) {
			m.feedback = feedback{}
		}
		cmds := []tea.Cmd{tickCmd()}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampPostSelection()
		return m, nil

	case authURLMsg:
		if msg.err != nil {
			return m.withFeedback(msg.err.Error(), true), nil
		}
		if err := platform.OpenBrowser(msg.url); err != nil {
			return m.withFeedback(err.Error(), true), nil
		}
		return m.withFeedback("Opened the LinkedIn connect flow in your browser.", false), nil
	}

	// Everything else belongs to the open composer.
	if m.composer != nil {
		return m.updateComposer(msg)
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
	if m.composer != nil {
		return m.renderComposer()
	}

	var content string
	switch m.currentView {
	case ViewPosts:
		content = m.renderPosts()
	default:
		content = m.renderDashboard()
	}
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help.
		m.showHelp = false
		return m, nil
	}
	if m.composer != nil {
		return m.updateComposer(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case "tab":
		if m.currentView == ViewDashboard {
			m.currentView = ViewPosts
		} else {
			m.currentView = ViewDashboard
		}
		return m, nil

	case "d":
		m.currentView = ViewDashboard
		return m, nil

	case "p":
		m.currentView = ViewPosts
		return m, nil

	case "r":
		if m.refresher != nil {
			m.refresher.Kick()
		}
		return m.withFeedback("Refreshing...", false), nil

	case "a":
		return m.cycleAccount(), nil

	case "C":
		return m, m.connectAccountCmd()

	case "n":
		return m.openComposerCreate()

	case "esc":
		m.currentView = ViewDashboard
		return m, nil
	}

	if m.currentView == ViewPosts {
		return m.handlePostsKey(msg)
	}
	return m, nil
}

// cycleAccount selects the next connected account and retargets the
// background refresher.
func (m Model) cycleAccount() Model {
	accounts := m.sess.Accounts
	if len(accounts) < 2 {
		return m.withFeedback("No other connected accounts.", false)
	}
	next := 0
	for i, acct := range accounts {
		if acct.ID == m.accountID {
			next = (i + 1) % len(accounts)
			break
		}
	}
	m.accountID = accounts[next].ID
	if m.refresher != nil {
		m.refresher.SetAccount(m.accountID)
	}
	m.savePrefs()
	return m.withFeedback("Switched to "+accounts[next].Label(), false)
}

// connectAccountCmd requests an OAuth URL for connecting a LinkedIn account.
func (m Model) connectAccountCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		url, err := client.LinkedinAuthURL(ctx)
		return authURLMsg{url: url, err: err}
	}
}

func (m Model) withFeedback(message string, isError bool) Model {
	m.feedback = feedback{
		message:   message,
		isError:   isError,
		expiresAt: time.Now().Add(feedbackDuration),
	}
	return m
}

func (m *Model) savePrefs() {
	m.userPrefs.Theme = m.theme.Name
	m.userPrefs.AccountID = m.accountID
	_ = prefs.Save(m.prefsPath, m.userPrefs)
}

// Run starts the UI and blocks until exit.
func Run(opts Options) error {
	model := New(opts)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	model.tempFiles.ReleaseAll()
	return err
}

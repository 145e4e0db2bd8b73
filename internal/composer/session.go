package composer

import (
	"math"
	"strings"
	"time"
)

// Phase identifies the composer's current screen.
type Phase int

const (
	// PhasePrompt collects the AI prompt and post type.
	PhasePrompt Phase = iota
	// PhaseGenerating waits on a backend generation job.
	PhaseGenerating
	// PhaseEditor is the free-form editor. Terminal for the session.
	PhaseEditor
)

// Mode distinguishes creating a new post from editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// PostType selects the generation style offered by the backend.
type PostType string

const (
	PostTypeQuick   PostType = "quickPostLinkedin"
	PostTypeInsight PostType = "insightPostLinkedin"
)

// Timing and budget defaults for the generation flow.
const (
	DefaultMaxChars = 3000
	PollInterval    = 3 * time.Second
	PollBudget      = 240 * time.Second
	RevealInterval  = 35 * time.Millisecond

	nearLimitRatio = 0.85
)

const startingStepLabel = "Starting draft generation"

// ValidationError is a pre-network failure: reported inline, never retried.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Session validation and flow messages shown to the user.
const (
	errEmptyPrompt     = ValidationError("Please add a prompt before generating a draft.")
	errNoAccount       = ValidationError("Please select a connected account first.")
	errNoContent       = ValidationError("Please add post content before continuing.")
	errOverLimit       = ValidationError("Post content exceeds the character limit.")
	errNoPostID        = ValidationError("Unable to continue because post ID is missing.")
	errSaveNeedsPost   = ValidationError("Unable to save draft because post ID is missing.")
	errNoScheduleTime  = ValidationError("Please choose a valid schedule date and time.")
	timeoutMessage     = "Draft generation is taking longer than expected. Please try again."
	finalizingLabel    = "Finalizing draft"
	loadDraftFailedMsg = "Unable to load generated draft content."
)

// Config seeds a new composer session.
type Config struct {
	Mode            Mode
	PostID          string
	InitialContent  string
	InitialImageURL string
	MaxChars        int
}

// Session is the composer state machine for one open modal. It owns every
// piece of transient composer state: timers and in-flight flags that were
// ambient refs in the web client are fields here, with methods enforcing
// one in-flight poll and one active reveal at a time. A Session is not safe
// for concurrent use; the UI event loop drives it single-threaded.
type Session struct {
	mode     Mode
	postID   string
	phase    Phase
	prompt   string
	postType PostType
	maxChars int

	content []rune
	cursor  int

	attachment         Attachment
	mediaURNs          []string
	resolvedPreviewURL string

	draftID       string
	progress      Progress
	pollStartedAt time.Time
	pollInFlight  bool
	fetchingDraft bool
	reveal        []string

	errMsg string
}

// Progress is the displayed generation progress.
type Progress struct {
	Percent   int
	StepLabel string
}

// New creates a session. Edit mode opens directly in the editor; create mode
// starts at the prompt.
func New(cfg Config) *Session {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s := &Session{
		mode:     cfg.Mode,
		postID:   cfg.PostID,
		postType: PostTypeQuick,
		maxChars: maxChars,
		progress: Progress{StepLabel: startingStepLabel},
	}
	if cfg.Mode == ModeEdit {
		s.phase = PhaseEditor
	}
	s.setContent(cfg.InitialContent)
	if url := strings.TrimSpace(cfg.InitialImageURL); url != "" {
		s.attachment = Attachment{Source: ImageRemote, URL: url}
	}
	return s
}

// Phase returns the current composer phase.
func (s *Session) Phase() Phase { return s.phase }

// Mode returns whether the session creates or edits a post.
func (s *Session) Mode() Mode { return s.mode }

// PostID returns the post being edited, empty in create mode.
func (s *Session) PostID() string { return s.postID }

// DraftID returns the generation job ID, empty before generation starts.
func (s *Session) DraftID() string { return s.draftID }

// EffectivePostID is the ID exit actions operate on: the edited post, or the
// generated draft once one exists.
func (s *Session) EffectivePostID() string {
	if s.postID != "" {
		return s.postID
	}
	return s.draftID
}

// Prompt returns the AI prompt text.
func (s *Session) Prompt() string { return s.prompt }

// SetPrompt updates the AI prompt and clears any stale inline error.
func (s *Session) SetPrompt(text string) {
	s.prompt = text
	s.errMsg = ""
}

// PostType returns the selected generation style.
func (s *Session) PostType() PostType { return s.postType }

// SetPostType selects the generation style.
func (s *Session) SetPostType(t PostType) { s.postType = t }

// Err returns the last surfaced error message, empty when none.
func (s *Session) Err() string { return s.errMsg }

// SetError records a user-visible error message.
func (s *Session) SetError(msg string) { s.errMsg = msg }

// ClearError discards the surfaced error.
func (s *Session) ClearError() { s.errMsg = "" }

// Progress returns the displayed generation progress.
func (s *Session) Progress() Progress { return s.progress }

// ValidateGenerate checks the prompt and account selection before any network
// call. A failure keeps the session at the prompt phase.
func (s *Session) ValidateGenerate(accountID string) error {
	if strings.TrimSpace(s.prompt) == "" {
		s.errMsg = string(errEmptyPrompt)
		return errEmptyPrompt
	}
	if strings.TrimSpace(accountID) == "" {
		s.errMsg = string(errNoAccount)
		return errNoAccount
	}
	s.errMsg = ""
	return nil
}

// BeginGeneration transitions prompt → generating after a draft job was
// created. now anchors the wall-clock polling budget.
func (s *Session) BeginGeneration(draftID string, now time.Time) {
	s.draftID = draftID
	s.pollStartedAt = now
	s.pollInFlight = false
	s.fetchingDraft = false
	s.progress = Progress{Percent: 0, StepLabel: startingStepLabel}
	s.errMsg = ""
	s.phase = PhaseGenerating
}

// PollDecision tells the caller what to do on a poll tick.
type PollDecision int

const (
	// PollSend means a status request should be issued now.
	PollSend PollDecision = iota
	// PollSkip means a request is already outstanding; do nothing, do not queue.
	PollSkip
	// PollStop means the session left the generating phase; stop ticking.
	PollStop
	// PollTimeout means the budget expired; the session has already returned
	// to the prompt phase with a timeout error.
	PollTimeout
)

// StartPoll gates a poll tick. At most one poll is in flight at a time, and
// the overall budget is an absolute cutoff from job submission. On PollSend
// the in-flight flag is set; the caller must pair it with FinishPoll.
func (s *Session) StartPoll(now time.Time) PollDecision {
	if s.phase != PhaseGenerating || s.fetchingDraft {
		return PollStop
	}
	if s.pollInFlight {
		return PollSkip
	}
	if now.Sub(s.pollStartedAt) >= PollBudget {
		s.abortGeneration(timeoutMessage)
		return PollTimeout
	}
	s.pollInFlight = true
	return PollSend
}

// FinishPoll releases the in-flight slot after a poll response or failure.
func (s *Session) FinishPoll() { s.pollInFlight = false }

// StatusUpdate carries one poll response into the session.
type StatusUpdate struct {
	Untracked    bool
	Percent      float64
	PercentValid bool
	Step         string
}

// ApplyStatus folds a poll response into the displayed progress and reports
// whether generation is complete. The displayed percentage is clamped to a
// running maximum so jittery backend values never regress it. An untracked
// job means the draft is already finalized. Once the draft fetch has begun,
// late responses report done at most once: further updates are ignored.
func (s *Session) ApplyStatus(update StatusUpdate) (done bool) {
	if s.phase != PhaseGenerating || s.fetchingDraft {
		return false
	}
	if update.Untracked {
		return true
	}
	if update.PercentValid && !math.IsNaN(update.Percent) && !math.IsInf(update.Percent, 0) {
		clamped := int(math.Round(update.Percent))
		if clamped < 0 {
			clamped = 0
		}
		if clamped > 100 {
			clamped = 100
		}
		if clamped > s.progress.Percent {
			s.progress.Percent = clamped
		}
		if clamped >= 100 {
			return true
		}
	}
	if step := strings.TrimSpace(update.Step); step != "" {
		s.progress.StepLabel = FormatStep(step)
	}
	return false
}

// BeginDraftFetch marks the generation job finished and the final draft
// fetch in flight. From here StartPoll returns PollStop and ApplyStatus
// ignores late responses, so exactly one fetch follows completion.
func (s *Session) BeginDraftFetch() {
	s.pollInFlight = false
	s.fetchingDraft = true
}

// FailGeneration aborts polling, surfaces the error, and returns to the
// prompt phase so the user can retry.
func (s *Session) FailGeneration(msg string) {
	s.abortGeneration(msg)
}

func (s *Session) abortGeneration(msg string) {
	s.pollInFlight = false
	s.fetchingDraft = false
	s.phase = PhasePrompt
	s.errMsg = msg
}

// CompleteGeneration transitions generating → editor with the fetched draft
// content and any attached media references, then begins the streaming
// reveal. Fetch failures degrade to an empty editor: pass empty content and
// surface the error separately so the user is never stuck.
func (s *Session) CompleteGeneration(content string, mediaURNs []string) {
	s.pollInFlight = false
	s.fetchingDraft = false
	s.progress = Progress{Percent: 100, StepLabel: finalizingLabel}
	s.mediaURNs = mediaURNs
	s.phase = PhaseEditor
	s.startReveal(content)
}

// LoadDraftFailedMessage is surfaced when the finalized draft's content
// cannot be fetched; the session still proceeds to the editor.
func LoadDraftFailedMessage() string { return loadDraftFailedMsg }

// MediaURNs returns the media references of the loaded or edited post.
func (s *Session) MediaURNs() []string { return s.mediaURNs }

// SetMediaURNs replaces the known media references (used when editing an
// existing post whose detail was fetched lazily).
func (s *Session) SetMediaURNs(urns []string) { s.mediaURNs = urns }

// Content returns the visible editor content.
func (s *Session) Content() string { return string(s.content) }

// SetContent replaces the editor content, clamping the cursor into range.
func (s *Session) SetContent(text string) {
	s.setContent(text)
}

func (s *Session) setContent(text string) {
	s.content = []rune(text)
	if s.cursor > len(s.content) {
		s.cursor = len(s.content)
	}
}

// CharsUsed counts content length in characters, not bytes.
func (s *Session) CharsUsed() int { return len(s.content) }

// MaxChars returns the character budget.
func (s *Session) MaxChars() int { return s.maxChars }

// NearLimit reports whether content has reached 85% of the budget.
func (s *Session) NearLimit() bool {
	return s.CharsUsed() >= int(math.Floor(float64(s.maxChars)*nearLimitRatio))
}

// OverLimit reports whether content exceeds the budget. Over-limit content
// blocks publish and schedule but not editing or saving.
func (s *Session) OverLimit() bool { return s.CharsUsed() > s.maxChars }

// Cursor returns the insertion point as a character offset.
func (s *Session) Cursor() int { return s.cursor }

// SetCursor moves the insertion point, clamped into the content.
func (s *Session) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.content) {
		pos = len(s.content)
	}
	s.cursor = pos
}

// InsertAtCursor inserts text at the insertion point and leaves the cursor
// immediately after it, so emoji and hashtag insertion never jumps the caret.
func (s *Session) InsertAtCursor(text string) {
	if text == "" {
		return
	}
	inserted := []rune(text)
	at := s.cursor
	if at < 0 {
		at = 0
	}
	if at > len(s.content) {
		at = len(s.content)
	}
	next := make([]rune, 0, len(s.content)+len(inserted))
	next = append(next, s.content[:at]...)
	next = append(next, inserted...)
	next = append(next, s.content[at:]...)
	s.content = next
	s.cursor = at + len(inserted)
}

// CanSaveDraft reports whether "save draft" applies: only when editing an
// existing post.
func (s *Session) CanSaveDraft() bool {
	return s.mode == ModeEdit && s.postID != ""
}

// ValidateSaveDraft checks preconditions for updating stored content.
func (s *Session) ValidateSaveDraft() error {
	if strings.TrimSpace(s.Content()) == "" {
		return errNoContent
	}
	if !s.CanSaveDraft() {
		return errSaveNeedsPost
	}
	return nil
}

// ValidatePublish checks preconditions for publishing: non-empty
// within-budget content and a post to publish.
func (s *Session) ValidatePublish() error {
	if strings.TrimSpace(s.Content()) == "" {
		return errNoContent
	}
	if s.OverLimit() {
		return errOverLimit
	}
	if s.EffectivePostID() == "" {
		return errNoPostID
	}
	return nil
}

// ValidateSchedule checks publish preconditions plus a target time.
func (s *Session) ValidateSchedule(at time.Time) error {
	if err := s.ValidatePublish(); err != nil {
		return err
	}
	if at.IsZero() {
		return errNoScheduleTime
	}
	return nil
}

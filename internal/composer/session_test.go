package composer

import (
	"errors"
	"testing"
	"time"
)

func TestValidateGenerate_RejectsBlankPrompts(t *testing.T) {
	for _, prompt := range []string{"", " ", "\t", "\n", "  \t\n  "} {
		s := New(Config{Mode: ModeCreate})
		s.SetPrompt(prompt)
		err := s.ValidateGenerate("acct-1")
		if err == nil {
			t.Fatalf("ValidateGenerate(%q) = nil, want validation error", prompt)
		}
		var verr ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ValidateGenerate(%q) error type = %T, want ValidationError", prompt, err)
		}
		if s.Phase() != PhasePrompt {
			t.Fatalf("phase after invalid prompt = %v, want PhasePrompt", s.Phase())
		}
		if s.Err() == "" {
			t.Fatalf("no inline error surfaced for blank prompt")
		}
	}
}

func TestValidateGenerate_RequiresSelectedAccount(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	s.SetPrompt("Write about remote work")
	if err := s.ValidateGenerate(""); err == nil {
		t.Fatalf("ValidateGenerate with no account = nil, want error")
	}
	if err := s.ValidateGenerate("acct-1"); err != nil {
		t.Fatalf("ValidateGenerate = %v, want nil", err)
	}
}

func TestSetPrompt_ClearsStaleError(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	_ = s.ValidateGenerate("acct-1")
	if s.Err() == "" {
		t.Fatalf("expected inline error before typing")
	}
	s.SetPrompt("n")
	if s.Err() != "" {
		t.Fatalf("typing should clear the inline error, got %q", s.Err())
	}
}

func TestEditModeOpensInEditor(t *testing.T) {
	s := New(Config{Mode: ModeEdit, PostID: "p1", InitialContent: "hello", InitialImageURL: "https://img"})
	if s.Phase() != PhaseEditor {
		t.Fatalf("phase = %v, want PhaseEditor", s.Phase())
	}
	if s.Content() != "hello" {
		t.Fatalf("content = %q, want hello", s.Content())
	}
	if s.Attachment().Source != ImageRemote {
		t.Fatalf("attachment source = %v, want ImageRemote", s.Attachment().Source)
	}
	if !s.CanSaveDraft() {
		t.Fatalf("CanSaveDraft = false in edit mode with post ID")
	}
}

func TestProgressIsMonotonicAcrossJitteryPolls(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	s.BeginGeneration("abc123", time.Now())

	var displayed []int
	for _, pct := range []float64{10, 40, 25, 80} {
		done := s.ApplyStatus(StatusUpdate{Percent: pct, PercentValid: true})
		if done {
			t.Fatalf("ApplyStatus(%v) reported done", pct)
		}
		displayed = append(displayed, s.Progress().Percent)
	}
	want := []int{10, 40, 40, 80}
	for i := range want {
		if displayed[i] != want[i] {
			t.Fatalf("displayed sequence = %v, want %v", displayed, want)
		}
	}
}

func TestApplyStatus_CompletionPaths(t *testing.T) {
	t.Run("hundred percent", func(t *testing.T) {
		s := New(Config{Mode: ModeCreate})
		s.BeginGeneration("abc123", time.Now())
		if done := s.ApplyStatus(StatusUpdate{Percent: 100, PercentValid: true}); !done {
			t.Fatalf("ApplyStatus(100) = not done")
		}
	})
	t.Run("untracked job", func(t *testing.T) {
		s := New(Config{Mode: ModeCreate})
		s.BeginGeneration("abc123", time.Now())
		if done := s.ApplyStatus(StatusUpdate{Untracked: true}); !done {
			t.Fatalf("ApplyStatus(untracked) = not done")
		}
	})
	t.Run("over-reporting clamps to 100", func(t *testing.T) {
		s := New(Config{Mode: ModeCreate})
		s.BeginGeneration("abc123", time.Now())
		if done := s.ApplyStatus(StatusUpdate{Percent: 140, PercentValid: true}); !done {
			t.Fatalf("ApplyStatus(140) = not done")
		}
		if s.Progress().Percent != 100 {
			t.Fatalf("percent = %d, want 100", s.Progress().Percent)
		}
	})
}

func TestApplyStatus_HumanizesStepLabel(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	s.BeginGeneration("abc123", time.Now())
	s.ApplyStatus(StatusUpdate{Percent: 30, PercentValid: true, Step: "fetchingContext"})
	if got := s.Progress().StepLabel; got != "Fetching Context" {
		t.Fatalf("step label = %q, want Fetching Context", got)
	}
	// Blank steps keep the previous label.
	s.ApplyStatus(StatusUpdate{Percent: 35, PercentValid: true, Step: "  "})
	if got := s.Progress().StepLabel; got != "Fetching Context" {
		t.Fatalf("step label after blank step = %q, want Fetching Context", got)
	}
}

func TestStartPoll_SerializesAndTimesOut(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s := New(Config{Mode: ModeCreate})
	s.BeginGeneration("abc123", start)

	if d := s.StartPoll(start.Add(time.Second)); d != PollSend {
		t.Fatalf("first StartPoll = %v, want PollSend", d)
	}
	// A tick while one is outstanding is a no-op, not a queue.
	if d := s.StartPoll(start.Add(2 * time.Second)); d != PollSkip {
		t.Fatalf("overlapping StartPoll = %v, want PollSkip", d)
	}
	s.FinishPoll()
	if d := s.StartPoll(start.Add(4 * time.Second)); d != PollSend {
		t.Fatalf("StartPoll after FinishPoll = %v, want PollSend", d)
	}
	s.FinishPoll()

	// Budget exhausted: back to prompt with a timeout error.
	if d := s.StartPoll(start.Add(PollBudget)); d != PollTimeout {
		t.Fatalf("StartPoll at budget = %v, want PollTimeout", d)
	}
	if s.Phase() != PhasePrompt {
		t.Fatalf("phase after timeout = %v, want PhasePrompt", s.Phase())
	}
	if s.Err() == "" {
		t.Fatalf("no timeout error surfaced")
	}
	// Session left the generating phase; ticks stop.
	if d := s.StartPoll(start.Add(PollBudget + time.Minute)); d != PollStop {
		t.Fatalf("StartPoll after timeout = %v, want PollStop", d)
	}
}

func TestBeginDraftFetch_StopsPollingAndIgnoresLateStatus(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s := New(Config{Mode: ModeCreate})
	s.BeginGeneration("abc123", start)

	if d := s.StartPoll(start.Add(time.Second)); d != PollSend {
		t.Fatalf("StartPoll = %v, want PollSend", d)
	}
	if done := s.ApplyStatus(StatusUpdate{Percent: 100, PercentValid: true}); !done {
		t.Fatalf("ApplyStatus(100) = not done")
	}
	s.FinishPoll()
	s.BeginDraftFetch()

	// The draft fetch is in flight; ticks stop and a late status response
	// must not report done a second time.
	if d := s.StartPoll(start.Add(4 * time.Second)); d != PollStop {
		t.Fatalf("StartPoll during draft fetch = %v, want PollStop", d)
	}
	if done := s.ApplyStatus(StatusUpdate{Percent: 100, PercentValid: true}); done {
		t.Fatalf("late ApplyStatus reported done again")
	}

	s.CompleteGeneration("Remote work is here to stay.", nil)
	if s.Phase() != PhaseEditor {
		t.Fatalf("phase = %v, want PhaseEditor", s.Phase())
	}
}

func TestFailGeneration_ReturnsToPrompt(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	s.BeginGeneration("abc123", time.Now())
	s.FailGeneration("Unable to retrieve draft status.")
	if s.Phase() != PhasePrompt {
		t.Fatalf("phase = %v, want PhasePrompt", s.Phase())
	}
	if s.Err() != "Unable to retrieve draft status." {
		t.Fatalf("err = %q", s.Err())
	}
	// Retry is possible: the prompt and draft bookkeeping reset on the next
	// BeginGeneration.
	s.BeginGeneration("def456", time.Now())
	if s.Phase() != PhaseGenerating || s.DraftID() != "def456" || s.Err() != "" {
		t.Fatalf("retry state = phase %v draft %q err %q", s.Phase(), s.DraftID(), s.Err())
	}
}

func TestCompleteGeneration_EntersEditorAndStoresMedia(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	s.BeginGeneration("abc123", time.Now())
	s.CompleteGeneration("Remote work is here to stay.", []string{"urn:li:image:1"})

	if s.Phase() != PhaseEditor {
		t.Fatalf("phase = %v, want PhaseEditor", s.Phase())
	}
	if got := s.MediaURNs(); len(got) != 1 || got[0] != "urn:li:image:1" {
		t.Fatalf("media urns = %v", got)
	}
	if s.Progress().Percent != 100 {
		t.Fatalf("progress = %d, want 100", s.Progress().Percent)
	}
	if s.EffectivePostID() != "abc123" {
		t.Fatalf("EffectivePostID = %q, want generated draft ID", s.EffectivePostID())
	}
}

func TestCharacterBudgetFlags(t *testing.T) {
	s := New(Config{Mode: ModeCreate, MaxChars: 100})
	s.SetContent(repeat("a", 84))
	if s.NearLimit() {
		t.Fatalf("NearLimit at 84/100")
	}
	s.SetContent(repeat("a", 85))
	if !s.NearLimit() || s.OverLimit() {
		t.Fatalf("85/100: NearLimit=%v OverLimit=%v", s.NearLimit(), s.OverLimit())
	}
	s.SetContent(repeat("a", 100))
	if s.OverLimit() {
		t.Fatalf("OverLimit at exactly the budget")
	}
	s.SetContent(repeat("a", 101))
	if !s.OverLimit() {
		t.Fatalf("not OverLimit at 101/100")
	}
}

func TestOverLimitBlocksPublishButNotSave(t *testing.T) {
	s := New(Config{Mode: ModeEdit, PostID: "p1", MaxChars: 10})
	s.SetContent("this is well over the limit")
	if err := s.ValidatePublish(); err == nil {
		t.Fatalf("ValidatePublish over limit = nil, want error")
	}
	if err := s.ValidateSchedule(time.Now()); err == nil {
		t.Fatalf("ValidateSchedule over limit = nil, want error")
	}
	if err := s.ValidateSaveDraft(); err != nil {
		t.Fatalf("ValidateSaveDraft over limit = %v, want nil (saving stays allowed)", err)
	}
}

func TestExitActionValidation(t *testing.T) {
	s := New(Config{Mode: ModeCreate})
	s.SetContent("ready to go")
	if err := s.ValidatePublish(); err == nil {
		t.Fatalf("ValidatePublish without post ID = nil, want error")
	}
	if err := s.ValidateSaveDraft(); err == nil {
		t.Fatalf("ValidateSaveDraft in create mode = nil, want error")
	}

	s.BeginGeneration("abc123", time.Now())
	s.CompleteGeneration("generated", nil)
	for s.RevealNext() {
	}
	if err := s.ValidatePublish(); err != nil {
		t.Fatalf("ValidatePublish with draft ID = %v, want nil", err)
	}
	if err := s.ValidateSchedule(time.Time{}); err == nil {
		t.Fatalf("ValidateSchedule without time = nil, want error")
	}
	if err := s.ValidateSchedule(time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("ValidateSchedule = %v, want nil", err)
	}
}

func TestInsertAtCursor_PreservesCursorPlacement(t *testing.T) {
	s := New(Config{Mode: ModeEdit, PostID: "p1", InitialContent: "hello world"})
	s.SetCursor(5)
	s.InsertAtCursor(" 🎉")
	if got := s.Content(); got != "hello 🎉 world" {
		t.Fatalf("content = %q", got)
	}
	if got := s.Cursor(); got != 7 {
		t.Fatalf("cursor = %d, want 7 (after inserted runes)", got)
	}
	// Out-of-range cursors clamp instead of panicking.
	s.SetCursor(9999)
	s.InsertAtCursor("!")
	if got := s.Content(); got != "hello 🎉 world!" {
		t.Fatalf("content = %q", got)
	}
}

func TestAttachmentSwitchingClearsOtherSources(t *testing.T) {
	s := New(Config{Mode: ModeEdit, PostID: "p1"})
	s.SetMediaURNs([]string{"urn:li:image:1"})
	if !s.NeedsPreviewResolution() {
		t.Fatalf("NeedsPreviewResolution = false with unresolved URNs")
	}
	s.SetResolvedPreview("https://cdn/resolved.jpg")
	if s.PreviewURL() != "https://cdn/resolved.jpg" {
		t.Fatalf("PreviewURL = %q", s.PreviewURL())
	}
	if s.NeedsPreviewResolution() {
		t.Fatalf("NeedsPreviewResolution = true after resolution")
	}

	s.AttachDeviceFile("/tmp/pic.png", "image/png")
	if s.PreviewURL() != "" {
		t.Fatalf("device attachment should clear the resolved preview, got %q", s.PreviewURL())
	}
	// A late resolution result must not override the user's pick.
	s.SetResolvedPreview("https://cdn/stale.jpg")
	if s.PreviewURL() != "" {
		t.Fatalf("stale resolution overrode device attachment")
	}

	s.AttachStockPhoto("https://images.example.com/stock.jpg")
	if s.Attachment().Source != ImageStock || s.PreviewURL() != "https://images.example.com/stock.jpg" {
		t.Fatalf("stock attachment = %#v preview %q", s.Attachment(), s.PreviewURL())
	}

	s.ClearAttachment()
	if s.Attachment().Source != ImageNone || s.PreviewURL() != "" {
		t.Fatalf("ClearAttachment left state behind: %#v %q", s.Attachment(), s.PreviewURL())
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

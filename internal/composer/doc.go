// Package composer implements the post-composer state machine.
//
// # Overview
//
// A Session models the lifecycle of composing one post: collecting a prompt,
// submitting an AI generation job, polling the job's progress, progressively
// revealing the generated text, and finally free-form editing with image
// attachment, character budgeting, and publish/schedule validation.
//
// The package is deliberately platform-agnostic: it performs no I/O, owns no
// timers, and knows nothing about terminals or HTTP. The UI layer drives it
// by calling methods on tick and response events, which keeps every
// transition unit-testable with plain clocks and fake responses.
//
// # Phases
//
//	prompt ──ValidateGenerate/BeginGeneration──> generating
//	generating ──CompleteGeneration──> editor
//	generating ──FailGeneration / poll timeout──> prompt
//	(edit mode opens directly in editor)
//
// # Polling protocol
//
// While generating, the caller invokes StartPoll on a fixed cadence
// (PollInterval). StartPoll enforces the session invariants:
//
//   - at most one status request in flight (PollSkip, not queued)
//   - an absolute wall-clock budget from job submission (PollBudget);
//     exceeding it surfaces a timeout error and returns to the prompt
//
// ApplyStatus folds each response into the displayed progress, which is
// clamped to a running maximum so the bar never moves backwards, and
// humanizes the raw step token via FormatStep. Completion is either a
// reported 100% or an untracked job (the backend dropped the progress
// record once the draft finalized).
//
// # Streaming reveal
//
// CompleteGeneration splits the fetched content into word chunks and the UI
// appends them one per RevealInterval tick via RevealNext, simulating
// incremental generation. At every intermediate tick the visible content is
// a strict prefix of the full text; after the last tick they are equal.
package composer

package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krispamB/marquillapp/internal/api"
	"github.com/krispamB/marquillapp/internal/composer"
	"github.com/krispamB/marquillapp/internal/platform"
)

// Composer messages. Draft-scoped messages carry the draft ID so responses
// from an abandoned generation never leak into a newer session.

type draftCreatedMsg struct {
	draft api.CreatedDraft
	err   error
}

type pollTickMsg time.Time

type draftStatusMsg struct {
	draftID string
	status  api.DraftStatus
	err     error
}

type draftContentMsg struct {
	draftID string
	post    api.Post
	err     error
}

type revealTickMsg struct{}

type previewResolvedMsg struct {
	url string
	err error
}

// composerAction is a terminal editor action issued over the network.
type composerAction int

const (
	actionSave composerAction = iota
	actionPublish
	actionSchedule
)

type composerActionMsg struct {
	kind    composerAction
	message string
	err     error
}

func pollTickCmd() tea.Cmd {
	return tea.Tick(composer.PollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func revealTickCmd() tea.Cmd {
	return tea.Tick(composer.RevealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{}
	})
}

// createDraftCmd submits the prompt for generation.
func (m Model) createDraftCmd(prompt, contentType string) tea.Cmd {
	ctx := m.composer.ctx
	client := m.client
	accountID := m.accountID
	return func() tea.Msg {
		draft, err := client.CreateDraft(ctx, accountID, api.CreateDraftRequest{
			Input:       prompt,
			ContentType: contentType,
		})
		return draftCreatedMsg{draft: draft, err: err}
	}
}

// fetchDraftStatusCmd polls the generation job once.
func (m Model) fetchDraftStatusCmd(draftID string) tea.Cmd {
	ctx := m.composer.ctx
	client := m.client
	return func() tea.Msg {
		status, err := client.FetchDraftStatus(ctx, draftID)
		return draftStatusMsg{draftID: draftID, status: status, err: err}
	}
}

// fetchDraftContentCmd loads the finalized draft for the editor.
func (m Model) fetchDraftContentCmd(draftID string) tea.Cmd {
	ctx := m.composer.ctx
	client := m.client
	return func() tea.Msg {
		post, err := client.FetchPost(ctx, draftID)
		return draftContentMsg{draftID: draftID, post: post, err: err}
	}
}

// resolvePreviewCmd turns the post's media references into a preview URL
// via the download URL cache.
func (m Model) resolvePreviewCmd(urns []string) tea.Cmd {
	ctx := m.composer.ctx
	resolver := m.resolver
	return func() tea.Msg {
		if resolver == nil {
			return previewResolvedMsg{err: fmt.Errorf("no image resolver")}
		}
		url, err := resolver.Resolve(ctx, urns)
		return previewResolvedMsg{url: url, err: err}
	}
}

// composerActionCmd performs save, publish, or schedule. Any pending image
// attachment is uploaded first, then the edited content is persisted, then
// the terminal action runs. The session is read on the UI goroutine before
// the command starts; the closure only touches plain values.
func (m Model) composerActionCmd(kind composerAction, at time.Time) tea.Cmd {
	sess := m.composer.sess
	ctx := m.composer.ctx
	client := m.client
	tempFiles := m.tempFiles
	postID := sess.EffectivePostID()
	content := sess.Content()
	attachment := sess.Attachment()

	return func() tea.Msg {
		if err := uploadPendingImage(ctx, client, tempFiles, postID, attachment); err != nil {
			return composerActionMsg{kind: kind, err: err}
		}
		if _, err := client.UpdatePostContent(ctx, postID, content); err != nil {
			return composerActionMsg{kind: kind, err: fmt.Errorf("save content: %w", err)}
		}

		switch kind {
		case actionPublish:
			message, err := client.PublishPost(ctx, postID)
			if err != nil {
				return composerActionMsg{kind: kind, err: err}
			}
			return composerActionMsg{kind: kind, message: fallbackMessage(message, "Post published.")}

		case actionSchedule:
			message, err := client.SchedulePost(ctx, postID, at)
			if err != nil {
				return composerActionMsg{kind: kind, err: err}
			}
			return composerActionMsg{kind: kind, message: fallbackMessage(message, "Post scheduled.")}

		default:
			return composerActionMsg{kind: kind, message: "Draft saved."}
		}
	}
}

// uploadPendingImage attaches the selected image to the post before the
// terminal action. Device files stream from disk; stock photos are
// downloaded to a tracked temp file first. A remote attachment is already
// on the post and needs no upload.
func uploadPendingImage(ctx context.Context, client api.Service, tempFiles *platform.TempFiles, postID string, att composer.Attachment) error {
	switch att.Source {
	case composer.ImageDevice:
		mimeType := att.MimeType
		if mimeType == "" {
			mimeType = platform.MIMEForPath(att.FilePath)
		}
		file, err := os.Open(att.FilePath)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer file.Close()
		if _, err := client.UploadPostImage(ctx, postID, filepath.Base(att.FilePath), mimeType, file); err != nil {
			return fmt.Errorf("upload image: %w", err)
		}

	case composer.ImageStock:
		data, contentType, err := client.DownloadImage(ctx, att.URL)
		if err != nil {
			return fmt.Errorf("download image: %w", err)
		}
		path, err := tempFiles.Write(data, contentType)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer file.Close()
		if _, err := client.UploadPostImage(ctx, postID, filepath.Base(path), contentType, file); err != nil {
			return fmt.Errorf("upload image: %w", err)
		}
	}
	return nil
}

func fallbackMessage(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

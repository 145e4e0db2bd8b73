package api

import (
	"strings"
	"time"
)

// Post statuses as reported by the backend.
const (
	StatusDraft     = "DRAFT"
	StatusScheduled = "SCHEDULED"
	StatusPublished = "PUBLISHED"
)

// Generation job status flag meaning the backend no longer tracks the job.
// Observed when a draft finishes and its progress record is dropped, so the
// client treats it as a completion signal.
const StatusUntracked = "not found"

// CreateDraftRequest is the body of POST /posts/{accountId}/draft.
type CreateDraftRequest struct {
	Input       string `json:"input"`
	ContentType string `json:"contentType"`
}

// CreatedDraft is the client-side result of a draft creation call.
type CreatedDraft struct {
	DraftID string
	Message string
}

// DraftProgress reports how far a generation job has come.
type DraftProgress struct {
	Percentage  float64 `json:"percentage"`
	CurrentStep string  `json:"currentStep"`
}

// DraftStatus mirrors the data payload of GET /posts/{draftId}/status.
type DraftStatus struct {
	Status   string        `json:"status"`
	Progress DraftProgress `json:"progress"`
}

// Untracked reports whether the backend has stopped tracking the job.
func (s DraftStatus) Untracked() bool {
	return strings.ToLower(strings.TrimSpace(s.Status)) == StatusUntracked
}

// MediaItem references an uploaded image by its opaque URN.
type MediaItem struct {
	ID string `json:"id"`
}

// Post describes a post in transport-friendly form.
type Post struct {
	ID          string      `json:"_id"`
	Content     string      `json:"content"`
	Status      string      `json:"status"`
	ScheduledAt string      `json:"scheduledAt"`
	PublishedAt string      `json:"publishedAt"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	Media       []MediaItem `json:"media"`
}

// MediaURNs returns the non-empty media reference IDs attached to the post.
func (p Post) MediaURNs() []string {
	if len(p.Media) == 0 {
		return nil
	}
	urns := make([]string, 0, len(p.Media))
	for _, item := range p.Media {
		if id := strings.TrimSpace(item.ID); id != "" {
			urns = append(urns, id)
		}
	}
	return urns
}

// NormalizedStatus maps arbitrary backend status strings onto the three
// statuses the UI renders. Unknown values count as drafts.
func (p Post) NormalizedStatus() string {
	switch strings.ToUpper(strings.TrimSpace(p.Status)) {
	case StatusPublished:
		return StatusPublished
	case StatusScheduled:
		return StatusScheduled
	default:
		return StatusDraft
	}
}

// ParsedScheduledAt returns the parsed ScheduledAt timestamp.
func (p Post) ParsedScheduledAt() time.Time {
	return parseTime(p.ScheduledAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (p Post) ParsedUpdatedAt() time.Time {
	return parseTime(p.UpdatedAt)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// LinkedinImage is a resolved media reference: a download URL that expires.
type LinkedinImage struct {
	DownloadURL          string `json:"downloadUrl"`
	DownloadURLExpiresAt int64  `json:"downloadUrlExpiresAt"`
}

// Expiry returns the expiry timestamp (reported as Unix milliseconds).
func (l LinkedinImage) Expiry() time.Time {
	return time.UnixMilli(l.DownloadURLExpiresAt)
}

// MonthlyCount is one bucket of the metrics series.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// PostMetrics mirrors GET /posts/metrics/{accountId}.
type PostMetrics struct {
	Total   int            `json:"total"`
	Monthly []MonthlyCount `json:"monthly"`
}

// CountFor returns the count for a YYYY-MM key, zero when absent.
func (m PostMetrics) CountFor(month string) int {
	for _, bucket := range m.Monthly {
		if bucket.Month == month {
			return bucket.Count
		}
	}
	return 0
}

// Response envelopes. Every endpoint wraps its payload in {data, message}.

type messageResponse struct {
	Message string `json:"message"`
}

type authURLResponse struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

type createDraftResponse struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

type draftStatusResponse struct {
	Data    DraftStatus `json:"data"`
	Message string      `json:"message"`
}

type postDetailResponse struct {
	Data    Post   `json:"data"`
	Message string `json:"message"`
}

type postListResponse struct {
	Data    []Post `json:"data"`
	Message string `json:"message"`
}

type postMetricsResponse struct {
	Data    PostMetrics `json:"data"`
	Message string      `json:"message"`
}

type linkedinImageResponse struct {
	Data    LinkedinImage `json:"data"`
	Message string        `json:"message"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

package composer

import "strings"

// ImageSource identifies where a pending attachment came from.
type ImageSource int

const (
	// ImageNone means no attachment is active.
	ImageNone ImageSource = iota
	// ImageDevice is a locally chosen file.
	ImageDevice
	// ImageStock is a stock-photo search result fetched by URL.
	ImageStock
	// ImageRemote is an image already attached to the post being edited,
	// referenced by URN and resolved to a time-limited URL for preview.
	ImageRemote
)

// Attachment is the single active image for the session. Selecting a new
// source replaces it entirely.
type Attachment struct {
	Source   ImageSource
	FilePath string // device file path
	URL      string // stock preview URL, or initial remote preview URL
	MimeType string
}

// Attachment returns the active attachment; Source is ImageNone when absent.
func (s *Session) Attachment() Attachment { return s.attachment }

// AttachDeviceFile selects a local file as the pending attachment, clearing
// any preview resolved from a different source.
func (s *Session) AttachDeviceFile(path, mimeType string) {
	s.attachment = Attachment{Source: ImageDevice, FilePath: path, MimeType: mimeType}
	s.resolvedPreviewURL = ""
}

// AttachStockPhoto selects a remote stock photo as the pending attachment.
func (s *Session) AttachStockPhoto(url string) {
	s.attachment = Attachment{Source: ImageStock, URL: url}
	s.resolvedPreviewURL = ""
}

// ClearAttachment removes the pending attachment and any resolved preview.
func (s *Session) ClearAttachment() {
	s.attachment = Attachment{}
	s.resolvedPreviewURL = ""
}

// NeedsPreviewResolution reports whether a preview URL must be resolved from
// the post's media references: there are URNs to try and the user has not
// picked a device or stock image instead.
func (s *Session) NeedsPreviewResolution() bool {
	if len(s.mediaURNs) == 0 {
		return false
	}
	switch s.attachment.Source {
	case ImageDevice, ImageStock:
		return false
	}
	return s.resolvedPreviewURL == ""
}

// SetResolvedPreview records the resolved download URL for a remote media
// reference. Ignored if the user attached a device or stock image while the
// resolution was in flight.
func (s *Session) SetResolvedPreview(url string) {
	switch s.attachment.Source {
	case ImageDevice, ImageStock:
		return
	}
	s.resolvedPreviewURL = strings.TrimSpace(url)
}

// PreviewURL returns the image to show in the post preview: the explicit
// attachment URL when present, else the resolved remote preview.
func (s *Session) PreviewURL() string {
	if s.attachment.URL != "" {
		return s.attachment.URL
	}
	return s.resolvedPreviewURL
}

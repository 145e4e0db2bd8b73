package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// mimeExtensions maps image MIME types to upload file extensions.
var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ExtensionForMIME returns the file extension for an image MIME type,
// defaulting to .jpg for unknown types.
func ExtensionForMIME(mimeType string) string {
	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}
	return ".jpg"
}

// MIMEForPath guesses the image MIME type from a filename extension. An
// empty string means the file does not look like a supported image.
func MIMEForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

// TempFiles tracks temp files written for downloaded images so they can be
// removed together when the composer closes. The browser-side equivalent was
// object URLs revoked on unmount.
type TempFiles struct {
	mu    sync.Mutex
	paths []string
}

// Write stores data in a new temp file named for its MIME type and tracks it
// for later cleanup.
func (t *TempFiles) Write(data []byte, mimeType string) (string, error) {
	file, err := os.CreateTemp("", "marquill-*"+ExtensionForMIME(mimeType))
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close temp image: %w", err)
	}

	t.mu.Lock()
	t.paths = append(t.paths, file.Name())
	t.mu.Unlock()
	return file.Name(), nil
}

// ReleaseAll removes every tracked temp file. Removal errors are ignored;
// the OS reclaims temp space anyway.
func (t *TempFiles) ReleaseAll() {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

package platform

import (
	"os"
	"strings"
	"testing"
)

func TestExtensionForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"application/octet-stream", ".jpg"},
		{"", ".jpg"},
	}
	for _, tt := range tests {
		if got := ExtensionForMIME(tt.mime); got != tt.want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}

func TestMIMEForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/me/pic.JPG", "image/jpeg"},
		{"shot.jpeg", "image/jpeg"},
		{"logo.png", "image/png"},
		{"anim.gif", "image/gif"},
		{"img.webp", "image/webp"},
		{"doc.pdf", ""},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := MIMEForPath(tt.path); got != tt.want {
			t.Errorf("MIMEForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTempFiles_WriteAndReleaseAll(t *testing.T) {
	var files TempFiles

	path1, err := files.Write([]byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	path2, err := files.Write([]byte("jpg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !strings.HasSuffix(path1, ".png") {
		t.Errorf("path1 = %q, want .png suffix", path1)
	}
	if !strings.HasSuffix(path2, ".jpg") {
		t.Errorf("path2 = %q, want .jpg suffix", path2)
	}

	data, err := os.ReadFile(path1)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("ReadFile(path1) = %q, %v", data, err)
	}

	files.ReleaseAll()
	for _, p := range []string{path1, path2} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%q still exists after ReleaseAll", p)
		}
	}

	// Releasing twice is a no-op.
	files.ReleaseAll()
}

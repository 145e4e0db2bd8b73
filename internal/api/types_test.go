package api

import (
	"testing"
	"time"
)

func TestPost_NormalizedStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"PUBLISHED", StatusPublished},
		{"published", StatusPublished},
		{" scheduled ", StatusScheduled},
		{"DRAFT", StatusDraft},
		{"", StatusDraft},
		{"GENERATING", StatusDraft},
	}
	for _, tt := range tests {
		if got := (Post{Status: tt.raw}).NormalizedStatus(); got != tt.want {
			t.Errorf("NormalizedStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestPost_MediaURNsSkipsBlankEntries(t *testing.T) {
	post := Post{Media: []MediaItem{{ID: " urn:li:image:1 "}, {ID: "   "}, {ID: "urn:li:image:2"}}}
	got := post.MediaURNs()
	want := []string{"urn:li:image:1", "urn:li:image:2"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("MediaURNs = %v, want %v", got, want)
	}
	if (Post{}).MediaURNs() != nil {
		t.Fatalf("MediaURNs on empty post should be nil")
	}
}

func TestDraftStatus_Untracked(t *testing.T) {
	if !(DraftStatus{Status: " Not Found "}).Untracked() {
		t.Fatalf("Untracked() = false for 'Not Found'")
	}
	if (DraftStatus{Status: "processing"}).Untracked() {
		t.Fatalf("Untracked() = true for 'processing'")
	}
}

func TestLinkedinImage_Expiry(t *testing.T) {
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	img := LinkedinImage{DownloadURLExpiresAt: at.UnixMilli()}
	if !img.Expiry().Equal(at) {
		t.Fatalf("Expiry = %v, want %v", img.Expiry(), at)
	}
}

func TestParseTime(t *testing.T) {
	if got := parseTime("2026-09-01T10:00:00Z"); got.IsZero() {
		t.Fatalf("parseTime rejected RFC3339 value")
	}
	if got := parseTime("garbage"); !got.IsZero() {
		t.Fatalf("parseTime(%q) = %v, want zero", "garbage", got)
	}
}

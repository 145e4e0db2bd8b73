package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "now"},
		{12 * time.Second, "12s"},
		{3 * time.Minute, "3m"},
		{5 * time.Hour, "5h"},
		{49 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		if got := humanizeDuration(tt.d); got != tt.want {
			t.Errorf("humanizeDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := relativeTime(time.Time{}, now); got != "–" {
		t.Errorf("zero time = %q, want dash", got)
	}
	if got := relativeTime(now.Add(2*time.Hour), now); got != "in 2h" {
		t.Errorf("future = %q, want %q", got, "in 2h")
	}
	if got := relativeTime(now, now); got != "just now" {
		t.Errorf("same instant = %q, want %q", got, "just now")
	}
	if got := relativeTime(now.Add(-3*time.Minute), now); got != "3m ago" {
		t.Errorf("past = %q, want %q", got, "3m ago")
	}
}

func TestPostTitle(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"Hello world\nmore text", "Hello world"},
		{"\n\n  First real line\nrest", "First real line"},
		{"   \n\t\n", "(empty post)"},
		{"", "(empty post)"},
	}
	for _, tt := range tests {
		if got := postTitle(tt.content); got != tt.want {
			t.Errorf("postTitle(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("hello world", 8); got != "hello w…" {
		t.Errorf("truncated = %q, want %q", got, "hello w…")
	}
	if got := truncate("héllo", 3); got != "hé…" {
		t.Errorf("rune truncation = %q, want %q", got, "hé…")
	}
	if got := truncate("anything", 0); got != "" {
		t.Errorf("zero limit = %q, want empty", got)
	}
}

func TestWrapGuardsZeroWidth(t *testing.T) {
	if got := wrap("some long text", 0); got != "some long text" {
		t.Errorf("zero width should pass through, got %q", got)
	}
	if got := wrap("aaa bbb", 3); got != "aaa\nbbb" {
		t.Errorf("wrap = %q, want %q", got, "aaa\nbbb")
	}
}

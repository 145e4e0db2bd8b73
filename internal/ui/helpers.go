package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
)

// humanizeDuration renders a duration as a compact age label.
func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// relativeTime renders "<age> ago" for list rows, or a dash for zero times.
func relativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "–"
	}
	age := now.Sub(t)
	if age < 0 {
		return "in " + humanizeDuration(-age)
	}
	if age < time.Second {
		return "just now"
	}
	return humanizeDuration(age) + " ago"
}

// postTitle extracts the first non-empty line of post content for list rows.
func postTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "(empty post)"
}

// truncate shortens a string to limit runes, ending with an ellipsis.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// wrap reflows text to the given width, guarding zero widths during startup.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

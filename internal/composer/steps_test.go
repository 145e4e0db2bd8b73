package composer

import "testing"

func TestFormatStep(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"fetchingContext", "Fetching Context"},
		{"generating_content", "Generating Content"},
		{"posting-to-linkedin", "Posting To LinkedIn"},
		{"optimizingForLinkedin", "Optimizing For LinkedIn"},
		{"analyzing", "Analyzing"},
		{"step2Polish", "Step2 Polish"},
		{"  spaced   out  ", "Spaced Out"},
		{"", "Working on your draft"},
		{"   ", "Working on your draft"},
		{"___", "Working on your draft"},
	}
	for _, tt := range tests {
		if got := FormatStep(tt.raw); got != tt.want {
			t.Errorf("FormatStep(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLayoutEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		got := Layout(text, 200, 100, 14)
		if len(got) != 1 || got[0] != "" {
			t.Errorf("Layout(%q) = %v, want one empty line", text, got)
		}
	}
}

func TestLayoutSingleWordFits(t *testing.T) {
	got := Layout("Acme", 200, 100, 14)
	if len(got) != 1 || got[0] != "Acme" {
		t.Errorf("got %v, want [Acme]", got)
	}
}

func TestLayoutGreedyWrap(t *testing.T) {
	// 100px wide, font 14: usable = 92, char width = 8.12 → 11 chars/line.
	got := Layout("red green blue", 100, 200, 14)
	want := []string{"red green", "blue"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLayoutHardSplitsOversizedToken(t *testing.T) {
	maxChars := MaxChars(100, 14)
	token := strings.Repeat("x", maxChars*2+3)
	got := Layout(token, 100, 500, 14)

	if len(got) != 3 {
		t.Fatalf("got %d lines %v, want 3", len(got), got)
	}
	if joined := strings.Join(got, ""); joined != token {
		t.Errorf("rejoined = %q, want original token (nothing dropped)", joined)
	}
	for i, line := range got[:2] {
		if utf8.RuneCountInString(line) != maxChars {
			t.Errorf("chunk %d length = %d, want %d", i, utf8.RuneCountInString(line), maxChars)
		}
	}
}

func TestLayoutTruncatesWithEllipsis(t *testing.T) {
	// Zone fits only 2 lines: usable height 40-8=32, line height 17 → 1... use taller.
	text := strings.Repeat("word ", 40)
	width, height, fontSize := 100.0, 50.0, 14.0

	got := Layout(text, width, height, fontSize)
	maxLines := MaxLines(height, fontSize)
	if len(got) != maxLines {
		t.Fatalf("got %d lines, want %d", len(got), maxLines)
	}

	last := got[len(got)-1]
	if !strings.HasSuffix(last, "…") {
		t.Errorf("last line %q does not end in ellipsis", last)
	}

	// Truncation must not grow the line.
	untruncated := wrap(text, MaxChars(width, fontSize))
	orig := untruncated[maxLines-1]
	if utf8.RuneCountInString(last) > utf8.RuneCountInString(orig) {
		t.Errorf("truncated line longer than original: %q vs %q", last, orig)
	}
}

func TestLayoutBounds(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		w, h     float64
		fontSize float64
	}{
		{"short", "Acme Corp", 120, 60, 12},
		{"long prose", strings.Repeat("lorem ipsum dolor ", 30), 200, 80, 16},
		{"one giant token", strings.Repeat("A", 500), 150, 90, 10},
		{"tiny zone", "overflow city", 10, 10, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Layout(tt.text, tt.w, tt.h, tt.fontSize)

			if len(got) == 0 {
				t.Fatal("layout returned zero lines")
			}
			if maxLines := MaxLines(tt.h, tt.fontSize); len(got) > maxLines {
				t.Errorf("got %d lines, max %d", len(got), maxLines)
			}
			maxChars := MaxChars(tt.w, tt.fontSize)
			for i, line := range got {
				if n := utf8.RuneCountInString(line); n > maxChars {
					t.Errorf("line %d length %d exceeds budget %d: %q", i, n, maxChars, line)
				}
			}
		})
	}
}

func TestMaxCharsAndMaxLinesFloorAtOne(t *testing.T) {
	if got := MaxChars(1, 48); got != 1 {
		t.Errorf("MaxChars = %d, want 1", got)
	}
	if got := MaxLines(1, 48); got != 1 {
		t.Errorf("MaxLines = %d, want 1", got)
	}
}

func TestLineHeight(t *testing.T) {
	tests := []struct {
		fontSize float64
		want     int
	}{
		{10, 12},
		{14, 17},
		{16, 19},
		{20, 24},
	}
	for _, tt := range tests {
		if got := LineHeight(tt.fontSize); got != tt.want {
			t.Errorf("LineHeight(%v) = %d, want %d", tt.fontSize, got, tt.want)
		}
	}
}

// Package layout fits a string into a fixed rectangular zone.
//
// The engine is deliberately font-agnostic: it estimates line capacity from
// a fixed character-width ratio rather than real glyph metrics, which keeps
// layout deterministic across platforms and font fallbacks. The ratio is
// tuned for the default typeface and errs slightly wide so text stays
// inside its zone.
package layout

import (
	"math"
	"strings"
)

const (
	// Padding is the fixed inner padding, in pixels, subtracted from both
	// dimensions of a zone before layout. Independent of zone size.
	Padding = 4.0

	// charWidthRatio approximates the advance width of one character as a
	// fraction of the font size.
	charWidthRatio = 0.58

	// lineHeightRatio is the baseline-to-baseline distance as a fraction
	// of the font size.
	lineHeightRatio = 1.2

	ellipsis = '…'
)

// LineHeight returns the baseline-to-baseline distance in pixels for the
// given font size.
func LineHeight(fontSize float64) int {
	return int(math.Round(fontSize * lineHeightRatio))
}

// MaxChars returns the number of characters that fit on one line of a zone
// with the given width. Always at least 1.
func MaxChars(width, fontSize float64) int {
	usable := width - 2*Padding
	n := int(usable / (fontSize * charWidthRatio))
	return max(n, 1)
}

// MaxLines returns the number of lines that fit in a zone with the given
// height. Always at least 1.
func MaxLines(height, fontSize float64) int {
	usable := height - 2*Padding
	n := int(usable) / LineHeight(fontSize)
	return max(n, 1)
}

// Layout breaks text into display lines for a zone of the given dimensions.
//
// Whitespace-delimited tokens are wrapped greedily; a single token wider
// than the line budget is hard-split into fixed-width chunks rather than
// dropped. If more lines are produced than fit, the result is truncated and
// the last visible line ends in an ellipsis without growing past its
// original length.
//
// Empty (or all-whitespace) text yields exactly one empty line so callers
// always have a stable anchor.
func Layout(text string, width, height, fontSize float64) []string {
	maxChars := MaxChars(width, fontSize)
	maxLines := MaxLines(height, fontSize)

	lines := wrap(text, maxChars)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncateLine(lines[maxLines-1])
	}
	return lines
}

// wrap performs greedy word-wrapping at the given per-line character budget.
func wrap(text string, maxChars int) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []rune
	for _, tok := range tokens {
		r := []rune(tok)
		switch {
		case len(cur) == 0 && len(r) <= maxChars:
			cur = r
		case len(cur)+1+len(r) <= maxChars:
			cur = append(append(cur, ' '), r...)
		default:
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			// Hard-split an oversized token into full-width chunks; the
			// remainder seeds the next line so later tokens can join it.
			for len(r) > maxChars {
				lines = append(lines, string(r[:maxChars]))
				r = r[maxChars:]
			}
			cur = r
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// truncateLine marks a line as cut off by replacing its final character
// with an ellipsis. The line never grows.
func truncateLine(line string) string {
	r := []rune(line)
	if len(r) == 0 {
		return line
	}
	r[len(r)-1] = ellipsis
	return string(r)
}

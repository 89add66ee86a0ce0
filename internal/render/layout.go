package render

import "strings"

// MeasureFunc reports the rendered pixel width of s. It is injected so
// the wrapping geometry can be tested without a font backend.
type MeasureFunc func(s string) int

// WrapText splits text into lines that fit within maxWidth using greedy
// line fill: words accumulate onto the current line while the line plus
// the next word and a trailing space still measures within maxWidth.
// The final line is always emitted, so empty input yields one empty
// line. Words are never broken, so a single word wider than maxWidth
// occupies its own over-wide line.
func WrapText(text string, maxWidth int, measure MeasureFunc) []string {
	words := strings.Split(text, " ")
	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if measure(candidate+" ") > maxWidth && line != "" {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

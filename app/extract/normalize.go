package extract

import (
	"regexp"
	"strings"
)

// TruncationMarker is appended when content exceeds the length cap.
const TruncationMarker = "\n\n...(内容过长已截断)"

var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Normalize collapses blank-line runs, strips trailer sections that survived
// DOM cleanup, and enforces the length cap. Truncation is by runes, never
// mid-character.
func Normalize(markdown string, maxLength int) string {
	markdown = excessBlankLines.ReplaceAllString(markdown, "\n\n")
	markdown = StripMarkdownBoilerplate(markdown)
	markdown = strings.TrimSpace(markdown)

	if maxLength > 0 {
		runes := []rune(markdown)
		if len(runes) > maxLength {
			markdown = strings.TrimSpace(string(runes[:maxLength])) + TruncationMarker
		}
	}

	return markdown
}

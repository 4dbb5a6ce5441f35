package translate

import (
	"strings"
	"unicode"
)

// CleanResponse normalizes a model reply: code-fence wrappers are unwrapped
// and any reasoning preamble before the actual translation is dropped.
func CleanResponse(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = unwrapFence(reply)
	return stripThinking(reply)
}

// unwrapFence removes a single fence that wraps the entire reply, a common
// habit when the prompt mentions Markdown.
func unwrapFence(reply string) string {
	if !strings.HasPrefix(reply, "```") {
		return reply
	}

	lines := strings.Split(reply, "\n")
	if len(lines) < 2 || !strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return reply
	}

	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// stripThinking drops reasoning preamble by finding where the translation
// itself starts: the first line containing Chinese text, or failing that,
// the first line that begins with a Markdown structure marker.
func stripThinking(reply string) string {
	lines := strings.Split(reply, "\n")

	for i, line := range lines {
		if containsCJK(line) {
			return strings.TrimSpace(strings.Join(lines[i:], "\n"))
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, marker := range []string{"# ", "## ", "### ", "![", "- ", "* "} {
			if strings.HasPrefix(trimmed, marker) {
				return strings.TrimSpace(strings.Join(lines[i:], "\n"))
			}
		}
	}

	return strings.TrimSpace(reply)
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

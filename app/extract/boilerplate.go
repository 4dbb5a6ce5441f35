package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplatePatterns match section headings and container labels that mark
// the start of non-article trailers: recommendation widgets, comment
// sections, share bars and the like. Matching is case-insensitive substring.
var boilerplatePatterns = []string{
	"related posts",
	"related articles",
	"recommended",
	"you might also like",
	"you may also like",
	"read more",
	"read next",
	"see also",
	"popular posts",
	"more from",
	"explore more",
	"frequently asked questions",
	"comments",
	"discussion",
	"share this",
	"social",
	"subscribe",
	"newsletter",
	"about the author",
	"advertisement",
	"sponsored",
}

// maxHeadingMatchLen guards against stripping real content: a heading much
// longer than these labels is article prose that merely mentions one.
const maxHeadingMatchLen = 48

func isBoilerplateLabel(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" || len(text) > maxHeadingMatchLen {
		return false
	}
	for _, pattern := range boilerplatePatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}

// StripBoilerplate removes trailer sections from a parsed document in place.
// Two mechanisms: containers whose class, id or short text names a
// boilerplate concept, and heading cascades where a boilerplate heading plus
// everything after it up to the next equal-or-higher heading is dropped.
// Running it twice is a no-op.
func StripBoilerplate(doc *goquery.Document) {
	stripContainers(doc)
	stripHeadingCascades(doc)
}

func stripContainers(doc *goquery.Document) {
	doc.Find("div, section, aside, nav").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		id, _ := sel.Attr("id")
		label := strings.ToLower(class + " " + id)
		for _, pattern := range boilerplatePatterns {
			token := strings.ReplaceAll(pattern, " ", "-")
			if strings.Contains(label, token) || strings.Contains(label, strings.ReplaceAll(pattern, " ", "_")) {
				sel.Remove()
				return
			}
		}

		// Widgets with neutral class names still give themselves away
		// through their visible label.
		if isBoilerplateLabel(normalizeSpace(sel.Text())) {
			sel.Remove()
		}
	})
}

func stripHeadingCascades(doc *goquery.Document) {
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, heading *goquery.Selection) {
		if !isBoilerplateLabel(heading.Text()) {
			return
		}
		level := headingLevel(goquery.NodeName(heading))

		heading.NextAll().EachWithBreak(func(_ int, sibling *goquery.Selection) bool {
			name := goquery.NodeName(sibling)
			if siblingLevel := headingLevel(name); siblingLevel > 0 && siblingLevel <= level {
				return false
			}
			sibling.Remove()
			return true
		})
		heading.Remove()
	})
}

func headingLevel(nodeName string) int {
	if len(nodeName) == 2 && nodeName[0] == 'h' && nodeName[1] >= '1' && nodeName[1] <= '6' {
		return int(nodeName[1] - '0')
	}
	return 0
}

// StripMarkdownBoilerplate applies the same heading-cascade rule to already
// rendered Markdown: a boilerplate heading drops itself and every line until
// the next heading of equal or higher level.
func StripMarkdownBoilerplate(markdown string) string {
	lines := strings.Split(markdown, "\n")
	var kept []string
	skipLevel := 0

	for _, line := range lines {
		level, text := markdownHeading(line)
		if level > 0 {
			if skipLevel > 0 && level <= skipLevel {
				skipLevel = 0
			}
			if skipLevel == 0 && isBoilerplateLabel(text) {
				skipLevel = level
				continue
			}
		}
		if skipLevel > 0 {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func markdownHeading(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level >= len(trimmed) || trimmed[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(trimmed[level:])
}

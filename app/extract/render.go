package extract

import (
	"fmt"
	"strings"
)

// RenderMarkdown serializes an event stream as Markdown. Images become
// numbered figure markers so a reader can cross-reference them against the
// uploaded attachments.
func RenderMarkdown(events []Event) string {
	var b strings.Builder

	for _, ev := range events {
		switch ev.Kind {
		case KindHeading:
			fmt.Fprintf(&b, "\n%s %s\n", strings.Repeat("#", ev.Level), ev.Text)
		case KindParagraph:
			b.WriteString("\n")
			b.WriteString(ev.Text)
			b.WriteString("\n")
		case KindListItem:
			if ev.Ordinal > 0 {
				fmt.Fprintf(&b, "%d. %s\n", ev.Ordinal, ev.Text)
			} else {
				fmt.Fprintf(&b, "- %s\n", ev.Text)
			}
		case KindCode:
			fmt.Fprintf(&b, "\n```\n%s\n```\n", ev.Text)
		case KindImage:
			fmt.Fprintf(&b, "\n![图片%d](%s)\n", ev.Index, ev.URL)
		case KindVideo:
			fmt.Fprintf(&b, "\n[视频](%s)\n", ev.URL)
		case KindBreak:
			b.WriteString("\n---\n")
		}
	}

	return strings.TrimSpace(b.String())
}

func countImageEvents(events []Event) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == KindImage {
			n++
		}
	}
	return n
}

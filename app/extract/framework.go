package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// frameworkBodyKeys are the serialized-state properties that can hold
// article text in SPA hydration payloads.
var frameworkBodyKeys = []string{
	"content", "body", "articleBody", "markdown", "mdx", "html", "text", "description", "summary",
}

var statePrefixes = []string{
	"window.__INITIAL_STATE__",
	"window.__NUXT__",
	"window.__APOLLO_STATE__",
	"window.__PRELOADED_STATE__",
}

// ExtractFrameworkState mines SPA hydration payloads (__NEXT_DATA__ and
// window.__*__ assignments) for article text. Returns the best candidate
// or empty.
func (o Options) ExtractFrameworkState(doc *goquery.Document) string {
	var best string

	consider := func(raw string) {
		var payload any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}
		for _, candidate := range collectFrameworkValues(payload, 0) {
			if strings.Contains(candidate, "<") && strings.Contains(candidate, ">") {
				candidate = htmlFragmentToMarkdown(candidate, o)
			}
			if o.validFallback(candidate) {
				best = betterCandidate(best, candidate)
			}
		}
	}

	doc.Find("script#__NEXT_DATA__").Each(func(_ int, sel *goquery.Selection) {
		consider(sel.Text())
	})

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		for _, prefix := range statePrefixes {
			i := strings.Index(text, prefix)
			if i < 0 {
				continue
			}
			if raw := balancedJSON(text[i+len(prefix):]); raw != "" {
				consider(raw)
			}
		}
	})

	return best
}

// balancedJSON finds the first balanced {...} object after an assignment
// operator, respecting string literals and escapes.
func balancedJSON(s string) string {
	start := strings.Index(s, "{")
	eq := strings.Index(s, "=")
	if start < 0 || eq < 0 || eq > start {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// collectFrameworkValues gathers body-bearing strings from hydration state.
// Arrays of block objects (title/heading/text/children shapes) are joined
// into a single text.
func collectFrameworkValues(payload any, depth int) []string {
	if depth > 10 {
		return nil
	}

	var found []string
	switch v := payload.(type) {
	case map[string]any:
		for _, key := range frameworkBodyKeys {
			switch child := v[key].(type) {
			case string:
				if child != "" {
					found = append(found, child)
				}
			case []any:
				if joined := joinBlockArray(child, depth+1); joined != "" {
					found = append(found, joined)
				}
			}
		}
		for _, child := range v {
			switch child.(type) {
			case map[string]any, []any:
				found = append(found, collectFrameworkValues(child, depth+1)...)
			}
		}
	case []any:
		for _, item := range v {
			found = append(found, collectFrameworkValues(item, depth+1)...)
		}
	}
	return found
}

// joinBlockArray flattens an array of block objects into newline-joined
// text. Recognized shapes carry title, heading, text or nested children.
func joinBlockArray(blocks []any, depth int) string {
	if depth > 10 {
		return ""
	}

	var parts []string
	for _, item := range blocks {
		block, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"title", "heading", "text"} {
			if s, ok := block[key].(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		if children, ok := block["children"].([]any); ok {
			if nested := joinBlockArray(children, depth+1); nested != "" {
				parts = append(parts, nested)
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

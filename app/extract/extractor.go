package extract

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Extractor runs the strategy chain for one page. It never returns an
// error: every failure mode degrades to a weaker strategy, and the worst
// case is an empty result the caller can publish as a link-only stub.
type Extractor struct {
	opts    Options
	fetcher Fetcher
}

func NewExtractor(opts Options, fetcher Fetcher) *Extractor {
	return &Extractor{opts: opts, fetcher: fetcher}
}

// Run extracts article content from fetched HTML. Strategy order: preloaded
// static Markdown (authoritative when present), DOM walk, structured data
// (ld+json and framework hydration state, whichever scores higher), then a
// whole-text readability pass.
func (e *Extractor) Run(ctx context.Context, pageURL string, body []byte) Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		slog.Warn("Failed to parse HTML", "url", pageURL, "error", err)
		return Result{Source: SourceDOM}
	}

	author := extractAuthor(doc)

	if md := ExtractStaticMarkdown(ctx, doc, pageURL, e.fetcher); md != "" && e.opts.validFallback(md) {
		slog.Debug("Using preloaded markdown source", "url", pageURL)
		return Result{
			Markdown: Normalize(md, e.opts.MaxContentLength),
			Author:   author,
			Source:   SourceStaticMarkdown,
		}
	}

	StripBoilerplate(doc)

	resolver := NewResolver(pageURL)
	events := NewWalker(e.opts, resolver).Walk(doc)
	markdown := RenderMarkdown(events)
	images := resolver.Refs()

	if e.opts.IsLowText(markdown, countImageEvents(events)) {
		if alt, altImages := e.lineBreakPass(pageURL, body); MeaningfulChars(alt) > MeaningfulChars(markdown) {
			markdown = alt
			images = altImages
		}
	}

	if !e.opts.IsLowText(markdown, len(images)) {
		return Result{
			Markdown: Normalize(markdown, e.opts.MaxContentLength),
			Images:   images,
			Author:   author,
			Source:   SourceDOM,
		}
	}

	slog.Debug("DOM walk yielded low text, trying structured data", "url", pageURL)

	ldCandidate := e.opts.ExtractJSONLD(doc)
	fwCandidate := e.opts.ExtractFrameworkState(doc)
	if candidate := betterCandidate(ldCandidate, fwCandidate); candidate != "" {
		source := SourceJSONLD
		if candidate == fwCandidate && candidate != ldCandidate {
			source = SourceFramework
		}
		return Result{
			Markdown: Normalize(candidate, e.opts.MaxContentLength),
			Author:   author,
			Source:   source,
		}
	}

	if text := wholeText(body); e.opts.validFallback(text) {
		return Result{
			Markdown: Normalize(text, e.opts.MaxContentLength),
			Author:   author,
			Source:   SourceWholeText,
		}
	}

	// Nothing worked. Keep whatever the walk produced so the reader at
	// least gets a fragment with the original link.
	return Result{
		Markdown: Normalize(markdown, e.opts.MaxContentLength),
		Images:   images,
		Author:   author,
		Source:   SourceDOM,
	}
}

// RunReadability extracts with the whole-text pass as the primary strategy,
// falling back to the full chain when it comes up short. Used for feeds
// configured with the readability extractor.
func (e *Extractor) RunReadability(ctx context.Context, pageURL string, body []byte) Result {
	if text := wholeText(body); e.opts.validFallback(text) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		author := ""
		if err == nil {
			author = extractAuthor(doc)
		}
		return Result{
			Markdown: Normalize(text, e.opts.MaxContentLength),
			Author:   author,
			Source:   SourceWholeText,
		}
	}
	return e.Run(ctx, pageURL, body)
}

// lineBreakPass retries the DOM walk with br tags turned into newlines.
// Some older sites carry their whole article as br-separated text in one
// container, which the block walk reads as a single thin paragraph.
func (e *Extractor) lineBreakPass(pageURL string, body []byte) (string, []ImageRef) {
	patched := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n").Replace(string(body))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(patched))
	if err != nil {
		return "", nil
	}
	StripBoilerplate(doc)

	resolver := NewResolver(pageURL)
	events := NewWalker(e.opts, resolver).Walk(doc)
	return RenderMarkdown(events), resolver.Refs()
}

// wholeText runs a readability pass and returns plain text paragraphs.
func wholeText(body []byte) string {
	article, err := readability.FromReader(bytes.NewReader(body), nil)
	if err != nil {
		return ""
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return ""
	}

	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// extractAuthor pulls the author from page metadata, preferring meta tags
// over structured data.
func extractAuthor(doc *goquery.Document) string {
	for _, selector := range []string{`meta[name="author"]`, `meta[property="article:author"]`} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if author := strings.TrimSpace(content); author != "" && !strings.HasPrefix(author, "http") {
				return author
			}
		}
	}

	var author string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return true
		}
		if name := authorName(payload["author"]); name != "" {
			author = name
			return false
		}
		return true
	})
	return author
}

func authorName(v any) string {
	switch author := v.(type) {
	case string:
		return strings.TrimSpace(author)
	case map[string]any:
		if name, ok := author["name"].(string); ok {
			return strings.TrimSpace(name)
		}
	case []any:
		for _, item := range author {
			if name := authorName(item); name != "" {
				return name
			}
		}
	}
	return ""
}

package extract

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Get(_ context.Context, url string) ([]byte, error) {
	if body, ok := f.pages[url]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("no fixture for %s", url)
}

func TestExtractor_Run_DOMStrategy(t *testing.T) {
	html := `<html><body><article>
		<h2>A Section</h2>
		<p>` + strings.Repeat("Plenty of meaningful article prose right here. ", 5) + `</p>
	</article></body></html>`

	e := NewExtractor(DefaultOptions(), nil)
	result := e.Run(context.Background(), "https://example.com/post", []byte(html))

	if result.Source != SourceDOM {
		t.Errorf("Expected dom source, got %q", result.Source)
	}
	if !strings.Contains(result.Markdown, "## A Section") {
		t.Errorf("Expected heading in markdown, got:\n%s", result.Markdown)
	}
	if !strings.Contains(result.Markdown, "meaningful article prose") {
		t.Error("Expected paragraph text in markdown")
	}
}

func TestExtractor_Run_FallsBackToJSONLD(t *testing.T) {
	body := strings.Repeat("The full article text lives only in structured data on this site. ", 6)
	html := `<html><head>
		<script type="application/ld+json">{"@type": "NewsArticle", "articleBody": "` + body + `"}</script>
	</head><body><div id="app"></div></body></html>`

	e := NewExtractor(DefaultOptions(), nil)
	result := e.Run(context.Background(), "https://example.com/spa-post", []byte(html))

	if result.Source != SourceJSONLD {
		t.Errorf("Expected ld+json source, got %q", result.Source)
	}
	if !strings.Contains(result.Markdown, "structured data on this site") {
		t.Errorf("Expected structured data body, got:\n%s", result.Markdown)
	}
}

func TestExtractor_Run_FallsBackToFrameworkState(t *testing.T) {
	body := strings.Repeat("Hydration state carries the article body for client rendering. ", 6)
	html := `<html><head>
		<script id="__NEXT_DATA__" type="application/json">{"props": {"pageProps": {"article": {"content": "` + body + `"}}}}</script>
	</head><body><div id="__next"></div></body></html>`

	e := NewExtractor(DefaultOptions(), nil)
	result := e.Run(context.Background(), "https://example.com/next-post", []byte(html))

	if result.Source != SourceFramework {
		t.Errorf("Expected framework-data source, got %q", result.Source)
	}
	if !strings.Contains(result.Markdown, "Hydration state carries") {
		t.Errorf("Expected hydration body, got:\n%s", result.Markdown)
	}
}

func TestExtractor_Run_PrefersStaticMarkdown(t *testing.T) {
	markdown := "# Ignored Title\n\n" + strings.Repeat("Authoritative markdown straight from the source file. ", 6)
	html := `<html><head>
		<link rel="preload" href="/content/post.md" as="fetch">
	</head><body><article><p>A short rendered teaser.</p></article></body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/content/post.md": markdown,
	}}

	e := NewExtractor(DefaultOptions(), fetcher)
	result := e.Run(context.Background(), "https://example.com/post", []byte(html))

	if result.Source != SourceStaticMarkdown {
		t.Errorf("Expected static-markdown source, got %q", result.Source)
	}
	if !strings.Contains(result.Markdown, "Authoritative markdown") {
		t.Errorf("Expected markdown file content, got:\n%s", result.Markdown)
	}
}

func TestExtractor_Run_WholeTextLastResort(t *testing.T) {
	prose := strings.Repeat("Somewhere else on the page there is a long run of genuine prose. ", 8)
	html := `<html><body>
		<article><p>tiny</p><p>also</p><p>small bits</p></article>
		<div class="shell"><p>` + prose + `</p><p>` + prose + `</p></div>
	</body></html>`

	e := NewExtractor(DefaultOptions(), nil)
	result := e.Run(context.Background(), "https://example.com/odd-layout", []byte(html))

	if result.Source != SourceWholeText {
		t.Errorf("Expected whole-text source, got %q", result.Source)
	}
	if !strings.Contains(result.Markdown, "genuine prose") {
		t.Errorf("Expected prose outside the article root to be recovered, got:\n%s", result.Markdown)
	}
}

func TestExtractor_Run_NeverFails(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)

	fixtures := [][]byte{
		nil,
		[]byte(""),
		[]byte("complete garbage \x00\x01"),
		[]byte("<html><body></body></html>"),
	}
	for _, fixture := range fixtures {
		result := e.Run(context.Background(), "https://example.com/broken", fixture)
		if result.Source == "" {
			t.Errorf("Expected a source to always be set for %q", fixture)
		}
	}
}

func TestExtractor_Run_LineBreakFallback(t *testing.T) {
	text := strings.Repeat("A line of the old school article separated by breaks. ", 3)
	html := `<html><body><article><div class="content">` +
		text + "<br>" + text + "<br>" + text +
		`</div></article></body></html>`

	e := NewExtractor(DefaultOptions(), nil)
	result := e.Run(context.Background(), "https://example.com/old-post", []byte(html))

	if !strings.Contains(result.Markdown, "old school article") {
		t.Errorf("Expected br-separated text to be recovered, got:\n%s", result.Markdown)
	}
}

func TestExtractor_RunReadability(t *testing.T) {
	paragraphs := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		paragraphs = append(paragraphs, "<p>"+strings.Repeat("Readable prose for the whole text strategy to find. ", 4)+"</p>")
	}
	html := `<html><head><title>Post</title></head><body><article>` +
		strings.Join(paragraphs, "\n") + `</article></body></html>`

	e := NewExtractor(DefaultOptions(), nil)
	result := e.RunReadability(context.Background(), "https://example.com/post", []byte(html))

	if result.Markdown == "" {
		t.Fatal("Expected non-empty markdown")
	}
	if !strings.Contains(result.Markdown, "Readable prose") {
		t.Errorf("Expected article text, got:\n%s", result.Markdown)
	}
}

func TestExtractAuthor_FromMetaTag(t *testing.T) {
	doc := docFromHTML(t, `<html><head><meta name="author" content="Jane Doe"></head><body></body></html>`)
	if got := extractAuthor(doc); got != "Jane Doe" {
		t.Errorf("Expected author from meta tag, got %q", got)
	}
}

func TestExtractAuthor_FromJSONLD(t *testing.T) {
	doc := docFromHTML(t, `<html><head>
		<script type="application/ld+json">{"@type": "Article", "author": {"@type": "Person", "name": "John Smith"}}</script>
	</head><body></body></html>`)
	if got := extractAuthor(doc); got != "John Smith" {
		t.Errorf("Expected author from structured data, got %q", got)
	}
}

func TestExtractAuthor_IgnoresURLs(t *testing.T) {
	doc := docFromHTML(t, `<html><head><meta property="article:author" content="https://example.com/profile"></head><body></body></html>`)
	if got := extractAuthor(doc); got != "" {
		t.Errorf("Expected URL author to be ignored, got %q", got)
	}
}

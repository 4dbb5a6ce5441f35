package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func walkHTML(t *testing.T, html, pageURL string) ([]Event, *Resolver) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	resolver := NewResolver(pageURL)
	events := NewWalker(DefaultOptions(), resolver).Walk(doc)
	return events, resolver
}

func TestWalker_Walk_BasicStructure(t *testing.T) {
	html := `<html><body><article>
		<h1>Page Title</h1>
		<h2>Section One</h2>
		<p>First paragraph with enough words to matter.</p>
		<ul><li>alpha</li><li>beta</li></ul>
		<ol><li>one</li><li>two</li></ol>
		<pre>fmt.Println("hi")</pre>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")
	markdown := RenderMarkdown(events)

	if strings.Contains(markdown, "Page Title") {
		t.Error("Expected h1 to be suppressed")
	}
	if !strings.Contains(markdown, "## Section One") {
		t.Errorf("Expected h2 heading in output, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "First paragraph") {
		t.Error("Expected paragraph text in output")
	}
	if !strings.Contains(markdown, "- alpha") || !strings.Contains(markdown, "- beta") {
		t.Error("Expected bullet items in output")
	}
	if !strings.Contains(markdown, "1. one") || !strings.Contains(markdown, "2. two") {
		t.Error("Expected numbered items in output")
	}
	if !strings.Contains(markdown, "```\nfmt.Println(\"hi\")\n```") {
		t.Error("Expected fenced code block in output")
	}
}

func TestWalker_Walk_EmitsEachNodeOnce(t *testing.T) {
	html := `<html><body><article>
		<div><p>unique sentinel paragraph</p></div>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")
	markdown := RenderMarkdown(events)

	if count := strings.Count(markdown, "unique sentinel paragraph"); count != 1 {
		t.Errorf("Expected paragraph to appear exactly once, got %d occurrences", count)
	}
}

func TestWalker_Walk_SkipsChromeAndMetadata(t *testing.T) {
	html := `<html><body>
		<nav>Home About Contact</nav>
		<article>
			<p>Published on January 2, 2026</p>
			<p>Tags: golang, feeds</p>
			<p>The actual article body with plenty of real prose in it.</p>
		</article>
		<footer>Copyright</footer>
	</body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")
	markdown := RenderMarkdown(events)

	if strings.Contains(markdown, "Home About") {
		t.Error("Expected nav content to be skipped")
	}
	if strings.Contains(markdown, "Copyright") {
		t.Error("Expected footer content to be skipped")
	}
	if strings.Contains(markdown, "Published on") {
		t.Error("Expected metadata paragraph to be dropped")
	}
	if strings.Contains(markdown, "Tags:") {
		t.Error("Expected tags paragraph to be dropped")
	}
	if !strings.Contains(markdown, "actual article body") {
		t.Error("Expected real content to survive")
	}
}

func TestWalker_Walk_NumbersImages(t *testing.T) {
	html := `<html><body><article class="post-content">
		<p>Intro text.</p>
		<figure><img src="/img/a.jpg"><figcaption>A caption</figcaption></figure>
		<p>Middle text. <img src="/img/b.jpg"></p>
	</article></body></html>`

	events, resolver := walkHTML(t, html, "https://example.com/post")
	markdown := RenderMarkdown(events)

	if !strings.Contains(markdown, "![图片1](https://example.com/img/a.jpg)") {
		t.Errorf("Expected first figure marker, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "![图片2](https://example.com/img/b.jpg)") {
		t.Errorf("Expected second figure marker, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "A caption") {
		t.Error("Expected figcaption text in output")
	}
	if len(resolver.Refs()) != 2 {
		t.Errorf("Expected 2 image refs, got %d", len(resolver.Refs()))
	}
}

func TestWalker_Walk_IgnoresChromeImages(t *testing.T) {
	html := `<html><body><article>
		<div class="sidebar-widget"><img src="/img/widget.jpg"></div>
		<p>Body text long enough to count as a real paragraph here.</p>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")
	for _, ev := range events {
		if ev.Kind == KindImage {
			t.Errorf("Expected no image events, got %q", ev.URL)
		}
	}
}

func TestWalker_Walk_InlineMarkupStaysOneParagraph(t *testing.T) {
	html := `<html><body><article>
		<div class="content">Hello <b>brave</b> new <a href="/w">world</a> right now</div>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")

	var paragraphs []string
	for _, ev := range events {
		if ev.Kind == KindParagraph {
			paragraphs = append(paragraphs, ev.Text)
		}
	}
	if len(paragraphs) != 1 {
		t.Fatalf("Expected one paragraph, got %d: %v", len(paragraphs), paragraphs)
	}
	if paragraphs[0] != "Hello brave new world right now" {
		t.Errorf("Expected joined inline text, got %q", paragraphs[0])
	}
}

func TestWalker_Walk_InlineAnchorWithImageStillEmitsImage(t *testing.T) {
	html := `<html><body><article class="post-content">
		<div>Intro text before the shot <a href="/full"><img src="/img/shot.jpg"></a> and after it.</div>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")

	foundImage := false
	for _, ev := range events {
		if ev.Kind == KindImage && ev.URL == "https://example.com/img/shot.jpg" {
			foundImage = true
		}
	}
	if !foundImage {
		t.Error("Expected image inside an inline anchor to be emitted")
	}
}

func TestWalker_Walk_RewritesVideoEmbeds(t *testing.T) {
	html := `<html><body><article>
		<iframe src="https://www.youtube.com/embed/abc123?rel=0"></iframe>
		<iframe src="https://player.vimeo.com/video/987654"></iframe>
		<iframe src="https://example.com/some-widget"></iframe>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")
	markdown := RenderMarkdown(events)

	if !strings.Contains(markdown, "[视频](https://www.youtube.com/watch?v=abc123)") {
		t.Errorf("Expected youtube watch URL, got:\n%s", markdown)
	}
	if !strings.Contains(markdown, "[视频](https://vimeo.com/987654)") {
		t.Errorf("Expected vimeo watch URL, got:\n%s", markdown)
	}
	if strings.Contains(markdown, "some-widget") {
		t.Error("Expected unknown embed to be dropped")
	}
}

func TestWalker_Walk_Blockquote(t *testing.T) {
	html := `<html><body><article>
		<blockquote>Quoted wisdom</blockquote>
	</article></body></html>`

	events, _ := walkHTML(t, html, "https://example.com/post")
	markdown := RenderMarkdown(events)

	if !strings.Contains(markdown, "> Quoted wisdom") {
		t.Errorf("Expected quoted paragraph, got:\n%s", markdown)
	}
}

func TestWatchURL(t *testing.T) {
	if got := watchURL("//www.youtube.com/embed/xyz"); got != "https://www.youtube.com/watch?v=xyz" {
		t.Errorf("Expected protocol-relative embed to rewrite, got %q", got)
	}
	if got := watchURL("https://example.com/embed/xyz"); got != "" {
		t.Errorf("Expected unknown player to be dropped, got %q", got)
	}
}

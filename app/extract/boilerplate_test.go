package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestStripBoilerplate_HeadingCascade(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<p>Real content paragraph.</p>
		<h2>Related Posts</h2>
		<ul><li><a href="/other">Other post</a></li></ul>
		<p>Teaser for another article</p>
		<h2>Conclusion</h2>
		<p>The closing thought.</p>
	</article></body></html>`)

	StripBoilerplate(doc)
	html, _ := doc.Html()

	if strings.Contains(html, "Related Posts") {
		t.Error("Expected boilerplate heading to be removed")
	}
	if strings.Contains(html, "Other post") {
		t.Error("Expected content under boilerplate heading to be removed")
	}
	if strings.Contains(html, "Teaser for another") {
		t.Error("Expected trailing boilerplate content to be removed")
	}
	if !strings.Contains(html, "Conclusion") {
		t.Error("Expected the next equal-level heading to survive")
	}
	if !strings.Contains(html, "closing thought") {
		t.Error("Expected content after the cascade to survive")
	}
	if !strings.Contains(html, "Real content paragraph") {
		t.Error("Expected content before the cascade to survive")
	}
}

func TestStripBoilerplate_LongHeadingIsKept(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<h2>Why you should subscribe to the idea that testing matters more than anything else</h2>
		<p>Real argumentation follows.</p>
	</article></body></html>`)

	StripBoilerplate(doc)
	html, _ := doc.Html()

	if !strings.Contains(html, "testing matters") {
		t.Error("Expected long heading mentioning a pattern word to survive")
	}
	if !strings.Contains(html, "Real argumentation") {
		t.Error("Expected content under long heading to survive")
	}
}

func TestStripBoilerplate_Containers(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<p>Body text.</p>
		<div class="related-posts"><a href="/x">Linked article</a></div>
		<aside id="newsletter-signup">Subscribe now</aside>
	</article></body></html>`)

	StripBoilerplate(doc)
	html, _ := doc.Html()

	if strings.Contains(html, "Linked article") {
		t.Error("Expected related-posts container to be removed")
	}
	if strings.Contains(html, "Subscribe now") {
		t.Error("Expected newsletter container to be removed")
	}
	if !strings.Contains(html, "Body text") {
		t.Error("Expected body text to survive")
	}
}

func TestStripBoilerplate_ShortTextContainers(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<p>A paragraph of actual article prose that should stay intact.</p>
		<div class="w-full"><span>Share this</span> <a href="#">Twitter</a></div>
		<div class="w-full"><p>A longer passage that happens to mention comments somewhere deep inside a real discussion of the topic.</p></div>
	</article></body></html>`)

	StripBoilerplate(doc)
	html, _ := doc.Html()

	if strings.Contains(html, "Twitter") {
		t.Error("Expected share widget with neutral class to be removed")
	}
	if !strings.Contains(html, "real discussion of the topic") {
		t.Error("Expected long prose mentioning a pattern word to survive")
	}
	if !strings.Contains(html, "stay intact") {
		t.Error("Expected article prose to survive")
	}
}

func TestStripBoilerplate_Idempotent(t *testing.T) {
	doc := docFromHTML(t, `<html><body><article>
		<p>Content.</p>
		<h3>Comments</h3>
		<p>Leave a comment below</p>
	</article></body></html>`)

	StripBoilerplate(doc)
	first, _ := doc.Html()
	StripBoilerplate(doc)
	second, _ := doc.Html()

	if first != second {
		t.Error("Expected second strip to be a no-op")
	}
}

func TestStripMarkdownBoilerplate(t *testing.T) {
	markdown := strings.Join([]string{
		"## Introduction",
		"Opening text.",
		"## Related Articles",
		"- [one](https://a)",
		"- [two](https://b)",
		"## Summary",
		"Closing text.",
	}, "\n")

	got := StripMarkdownBoilerplate(markdown)

	if strings.Contains(got, "Related Articles") {
		t.Error("Expected boilerplate heading to be removed")
	}
	if strings.Contains(got, "https://a") {
		t.Error("Expected lines under boilerplate heading to be removed")
	}
	if !strings.Contains(got, "Opening text.") || !strings.Contains(got, "Closing text.") {
		t.Errorf("Expected surrounding content to survive, got:\n%s", got)
	}
}

func TestStripMarkdownBoilerplate_LowerLevelHeadingsAreSwallowed(t *testing.T) {
	markdown := strings.Join([]string{
		"## See Also",
		"### Nested subsection",
		"nested text",
		"# Top Level",
		"kept text",
	}, "\n")

	got := StripMarkdownBoilerplate(markdown)

	if strings.Contains(got, "Nested subsection") || strings.Contains(got, "nested text") {
		t.Error("Expected nested subsection to be swallowed by the cascade")
	}
	if !strings.Contains(got, "Top Level") || !strings.Contains(got, "kept text") {
		t.Error("Expected higher-level heading to end the cascade")
	}
}

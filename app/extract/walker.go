package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipTags never contain article content.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"aside":    true,
	"form":     true,
	"noscript": true,
	"button":   true,
	"svg":      true,
}

// inlineTags flow within a line of text. Bare text interleaved with these
// stays part of the same paragraph run.
var inlineTags = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"code":   true,
	"em":     true,
	"i":      true,
	"mark":   true,
	"s":      true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"time":   true,
	"u":      true,
}

// metadataPrefixes identify short lead-in paragraphs that duplicate item
// metadata (byline, date, category) already carried by the feed entry.
var metadataPrefixes = []string{
	"category:",
	"categories:",
	"product:",
	"date:",
	"reading time",
	"published",
	"tags:",
	"author:",
	"by ",
	"分类",
	"作者",
	"日期",
}

// contentAncestorTokens mark wrappers that plausibly hold article media.
// Images outside such wrappers are usually page chrome.
var contentAncestorTokens = []string{
	"hero", "card", "content", "article", "post",
	"body", "main", "media", "image", "figure", "photo",
}

// Walker traverses an HTML document and emits a flat event stream in
// reading order. Each DOM node is visited at most once even when selector
// based root discovery overlaps.
type Walker struct {
	opts     Options
	resolver *Resolver
	visited  map[*html.Node]bool
	events   []Event
}

func NewWalker(opts Options, resolver *Resolver) *Walker {
	return &Walker{
		opts:     opts,
		resolver: resolver,
		visited:  make(map[*html.Node]bool),
	}
}

// Walk extracts the event stream from a document. The content root is the
// first of article, main, a content-classed div, then body.
func (w *Walker) Walk(doc *goquery.Document) []Event {
	root := findContentRoot(doc)
	if root == nil {
		return nil
	}

	root.Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			w.walkNode(node)
		}
	})

	return w.events
}

func findContentRoot(doc *goquery.Document) *goquery.Selection {
	for _, selector := range []string{
		"article",
		"main",
		"div.post-content, div.article-content, div.entry-content, div.content, div.post-body, div.article-body",
	} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return nil
}

func (w *Walker) walkNode(node *html.Node) {
	if node == nil || w.visited[node] {
		return
	}
	w.visited[node] = true

	if node.Type != html.ElementNode {
		return
	}
	if skipTags[node.Data] {
		return
	}

	sel := selectionOf(node)

	switch node.Data {
	case "h1":
		// Dropped: the page title is already the item title.
		return
	case "h2", "h3", "h4", "h5", "h6":
		w.emitHeading(int(node.Data[1]-'0'), sel)
		return
	case "p":
		w.emitParagraph(sel)
		return
	case "blockquote":
		w.emitBlockquote(sel)
		return
	case "pre":
		w.emitCode(sel)
		return
	case "ul":
		w.emitList(sel, false)
		return
	case "ol":
		w.emitList(sel, true)
		return
	case "img":
		w.emitImage(sel)
		return
	case "iframe":
		w.emitVideo(sel)
		return
	case "figure":
		w.emitFigure(sel)
		return
	case "hr":
		w.events = append(w.events, Event{Kind: KindBreak})
		return
	}

	var run strings.Builder
	flush := func() {
		if run.Len() > 0 {
			w.emitTextRuns(run.String())
			run.Reset()
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			w.visited[child] = true
			run.WriteString(child.Data)
			continue
		}
		if child.Type == html.ElementNode && inlineTags[child.Data] && !containsMedia(child) {
			run.WriteString(selectionOf(child).Text())
			w.markSubtreeVisited(child)
			continue
		}
		flush()
		w.walkNode(child)
	}
	flush()
}

func containsMedia(node *html.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && (child.Data == "img" || child.Data == "iframe") {
			return true
		}
		if containsMedia(child) {
			return true
		}
	}
	return false
}

// emitTextRuns handles bare text sitting directly in a container, a layout
// older sites use with br-separated articles. Text runs are collected
// across inline markup first so one sentence stays one paragraph; each
// newline-separated line then becomes its own.
func (w *Walker) emitTextRuns(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = normalizeSpace(line)
		if MeaningfulChars(line) == 0 || isMetadataParagraph(line) {
			continue
		}
		w.events = append(w.events, Event{Kind: KindParagraph, Text: line})
	}
}

func (w *Walker) markSubtreeVisited(node *html.Node) {
	if node == nil {
		return
	}
	w.visited[node] = true
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		w.markSubtreeVisited(child)
	}
}

func (w *Walker) emitHeading(level int, sel *goquery.Selection) {
	text := normalizeSpace(sel.Text())
	w.markSubtreeVisited(sel.Nodes[0])
	if text == "" {
		return
	}
	w.events = append(w.events, Event{Kind: KindHeading, Level: level, Text: text})
}

func (w *Walker) emitParagraph(sel *goquery.Selection) {
	text := normalizeSpace(sel.Text())

	if isMetadataParagraph(text) {
		w.markSubtreeVisited(sel.Nodes[0])
		return
	}

	if text != "" {
		w.events = append(w.events, Event{Kind: KindParagraph, Text: text})
	}

	// Images nested inside the paragraph still count as content.
	imgs := sel.Find("img")
	w.markSubtreeVisited(sel.Nodes[0])
	imgs.Each(func(_ int, img *goquery.Selection) {
		w.appendImage(img)
	})
}

func isMetadataParagraph(text string) bool {
	if len(text) >= 80 {
		return false
	}
	lower := strings.ToLower(text)
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(lower, prefix) || strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

func (w *Walker) emitBlockquote(sel *goquery.Selection) {
	text := normalizeSpace(sel.Text())
	w.markSubtreeVisited(sel.Nodes[0])
	if text == "" {
		return
	}
	w.events = append(w.events, Event{Kind: KindParagraph, Text: "> " + text})
}

func (w *Walker) emitCode(sel *goquery.Selection) {
	text := strings.Trim(sel.Text(), "\n")
	w.markSubtreeVisited(sel.Nodes[0])
	if strings.TrimSpace(text) == "" {
		return
	}
	w.events = append(w.events, Event{Kind: KindCode, Text: text})
}

func (w *Walker) emitList(sel *goquery.Selection, ordered bool) {
	if class, _ := sel.Attr("class"); strings.Contains(class, "details") {
		w.markSubtreeVisited(sel.Nodes[0])
		return
	}

	ordinal := 0
	items := sel.ChildrenFiltered("li")
	w.markSubtreeVisited(sel.Nodes[0])
	items.Each(func(_ int, li *goquery.Selection) {
		text := normalizeSpace(li.Text())
		if text == "" {
			return
		}
		if ordered {
			ordinal++
			w.events = append(w.events, Event{Kind: KindListItem, Ordinal: ordinal, Text: text})
		} else {
			w.events = append(w.events, Event{Kind: KindListItem, Text: text})
		}
	})
}

func (w *Walker) emitFigure(sel *goquery.Selection) {
	imgs := sel.Find("img")
	caption := normalizeSpace(sel.Find("figcaption").Text())
	w.markSubtreeVisited(sel.Nodes[0])
	imgs.Each(func(_ int, img *goquery.Selection) {
		w.appendImage(img)
	})
	if caption != "" {
		w.events = append(w.events, Event{Kind: KindParagraph, Text: caption})
	}
}

func (w *Walker) emitImage(sel *goquery.Selection) {
	w.markSubtreeVisited(sel.Nodes[0])
	if !hasContentAncestor(sel) {
		return
	}
	w.appendImage(sel)
}

func (w *Walker) appendImage(sel *goquery.Selection) {
	if !w.opts.IncludeImages {
		return
	}
	url, idx, ok := w.resolver.Resolve(sel)
	if !ok {
		return
	}
	w.events = append(w.events, Event{Kind: KindImage, URL: url, Index: idx})
}

// hasContentAncestor decides whether a standalone img sits inside article
// content. Either an ancestor carries a content-ish class token, or the
// image is wrapped in a non-generic element like figure or picture.
func hasContentAncestor(sel *goquery.Selection) bool {
	ok := false
	sel.Parents().EachWithBreak(func(_ int, parent *goquery.Selection) bool {
		name := goquery.NodeName(parent)
		if name == "figure" || name == "picture" {
			ok = true
			return false
		}
		class, _ := parent.Attr("class")
		lower := strings.ToLower(class)
		for _, token := range contentAncestorTokens {
			if strings.Contains(lower, token) {
				ok = true
				return false
			}
		}
		return true
	})
	return ok
}

func (w *Walker) emitVideo(sel *goquery.Selection) {
	w.markSubtreeVisited(sel.Nodes[0])
	src, ok := sel.Attr("src")
	if !ok {
		return
	}
	if url := watchURL(src); url != "" {
		w.events = append(w.events, Event{Kind: KindVideo, URL: url})
	}
}

// watchURL rewrites embed player URLs into their shareable watch form.
// Unknown players are dropped: an embed URL is useless outside an iframe.
func watchURL(src string) string {
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}

	if i := strings.Index(src, "youtube.com/embed/"); i >= 0 {
		id := src[i+len("youtube.com/embed/"):]
		if j := strings.IndexAny(id, "?&"); j >= 0 {
			id = id[:j]
		}
		if id != "" {
			return "https://www.youtube.com/watch?v=" + id
		}
		return ""
	}

	if i := strings.Index(src, "player.vimeo.com/video/"); i >= 0 {
		id := src[i+len("player.vimeo.com/video/"):]
		if j := strings.IndexAny(id, "?&"); j >= 0 {
			id = id[:j]
		}
		if id != "" {
			return "https://vimeo.com/" + id
		}
		return ""
	}

	return ""
}

func selectionOf(node *html.Node) *goquery.Selection {
	doc := goquery.NewDocumentFromNode(node)
	return doc.Selection
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

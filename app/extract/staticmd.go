package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher is the sub-fetch dependency for strategies that need a second
// request, such as preloaded Markdown sources.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// ExtractStaticMarkdown handles sites that preload their article source as
// a raw .md asset. When a preload link points at a Markdown file, fetching
// it yields the authoritative content with no DOM reconstruction at all.
func ExtractStaticMarkdown(ctx context.Context, doc *goquery.Document, pageURL string, fetcher Fetcher) string {
	if fetcher == nil {
		return ""
	}

	var mdURL string
	doc.Find(`link[rel="preload"], link[rel="prefetch"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		clean := href
		if i := strings.IndexAny(clean, "?#"); i >= 0 {
			clean = clean[:i]
		}
		if strings.HasSuffix(clean, ".md") {
			mdURL = href
			return false
		}
		return true
	})

	if mdURL == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err == nil {
		if ref, err := url.Parse(mdURL); err == nil {
			mdURL = base.ResolveReference(ref).String()
		}
	}

	body, err := fetcher.Get(ctx, mdURL)
	if err != nil {
		return ""
	}

	markdown := string(body)
	if mdBase, err := url.Parse(mdURL); err == nil {
		markdown = rebaseImageRefs(markdown, mdBase)
	}
	return markdown
}

// rebaseImageRefs makes relative Markdown image paths absolute against the
// Markdown resource URL, which may live on a different path than the
// article page, so they survive outside the origin site.
func rebaseImageRefs(markdown string, base *url.URL) string {
	var b strings.Builder
	rest := markdown
	for {
		i := strings.Index(rest, "![")
		if i < 0 {
			b.WriteString(rest)
			break
		}
		j := strings.Index(rest[i:], "](")
		if j < 0 {
			b.WriteString(rest)
			break
		}
		k := strings.Index(rest[i+j+2:], ")")
		if k < 0 {
			b.WriteString(rest)
			break
		}

		linkStart := i + j + 2
		link := rest[linkStart : linkStart+k]
		b.WriteString(rest[:linkStart])
		b.WriteString(absoluteRef(link, base))
		b.WriteString(")")
		rest = rest[linkStart+k+1:]
	}
	return b.String()
}

func absoluteRef(link string, base *url.URL) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") || strings.HasPrefix(link, "data:") {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}

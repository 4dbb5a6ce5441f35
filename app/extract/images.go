package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// skipPatterns marks tracking pixels, social widgets and chrome images that
// never belong in article content.
var skipPatterns = []string{
	"adsct",
	"analytics",
	"pixel",
	"facebook.com/tr",
	"twitter.com/i/",
	".gif",
	"icon",
	"logo",
	"favicon",
	"avatar",
	"placeholder",
}

// sizeTokens appear in CDN URLs for thumbnails and decorations.
var sizeTokens = []string{
	"w_32", "w_36", "w_64", "w_80",
	"h_32", "h_36", "h_64", "h_80",
}

// Resolver turns raw img attributes into absolute, deduplicated image URLs.
type Resolver struct {
	base *url.URL
	seen map[string]int
	refs []ImageRef
}

func NewResolver(pageURL string) *Resolver {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	return &Resolver{
		base: base,
		seen: make(map[string]int),
	}
}

// Resolve normalizes one candidate image URL. It returns the resolved URL
// and its stable 1-based figure index, or ok=false when the image should be
// skipped. The same resolved URL always maps to the same index, and a URL
// naming an already seen asset through a different prefix reuses that
// asset's index.
func (r *Resolver) Resolve(sel *goquery.Selection) (string, int, bool) {
	raw := pickImageSource(sel)
	if raw == "" {
		return "", 0, false
	}

	resolved := r.normalize(raw)
	if resolved == "" {
		return "", 0, false
	}

	if idx, ok := r.IndexFor(resolved); ok {
		r.seen[resolved] = idx
		return resolved, idx, true
	}

	idx := len(r.refs) + 1
	r.seen[resolved] = idx
	r.refs = append(r.refs, ImageRef{Original: raw, Resolved: resolved, Index: idx})
	return resolved, idx, true
}

// Refs returns every resolved image in document order.
func (r *Resolver) Refs() []ImageRef {
	return r.refs
}

// IndexFor finds a previously resolved image whose URL shares the final
// path segment with the given URL. Sites often reference the same asset
// through several CDN prefixes, and a lazy-loading variant should not get
// its own figure number.
func (r *Resolver) IndexFor(rawURL string) (int, bool) {
	if idx, ok := r.seen[rawURL]; ok {
		return idx, true
	}
	segment := lastPathSegment(rawURL)
	if segment == "" {
		return 0, false
	}
	for _, ref := range r.refs {
		if lastPathSegment(ref.Resolved) == segment {
			return ref.Index, true
		}
	}
	return 0, false
}

// pickImageSource prefers lazy-loading attributes over src, and falls back
// to the first srcset entry.
func pickImageSource(sel *goquery.Selection) string {
	for _, attr := range []string{"data-src", "data-original", "data-lazy-src", "src"} {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if srcset, ok := sel.Attr("srcset"); ok {
		first := strings.Split(srcset, ",")[0]
		return strings.TrimSpace(strings.SplitN(strings.TrimSpace(first), " ", 2)[0])
	}
	return ""
}

func (r *Resolver) normalize(raw string) string {
	raw = unwrapProxy(raw)

	if strings.HasPrefix(raw, "data:") {
		return ""
	}

	lower := strings.ToLower(raw)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return ""
		}
	}
	for _, token := range sizeTokens {
		if strings.Contains(raw, token) {
			return ""
		}
	}

	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	default:
		if r.base == nil {
			return ""
		}
		ref, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return r.base.ResolveReference(ref).String()
	}
}

// unwrapProxy peels image-proxy layers: URLs of the shape
// https://cdn.example.com/_next/image?url=<encoded> are replaced by the
// decoded inner URL, repeatedly, until no proxy layer remains.
func unwrapProxy(raw string) string {
	for i := 0; i < 5; i++ {
		u, err := url.Parse(raw)
		if err != nil {
			return raw
		}
		inner := u.Query().Get("url")
		if inner == "" {
			return raw
		}
		if !strings.HasPrefix(inner, "http://") && !strings.HasPrefix(inner, "https://") && !strings.HasPrefix(inner, "//") {
			return raw
		}
		raw = inner
	}
	return raw
}

func lastPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

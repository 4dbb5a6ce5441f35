package extract

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonLDBodyKeys are the properties that can hold article text in
// schema.org structured data.
var jsonLDBodyKeys = []string{"articleBody", "content", "body", "text"}

// ExtractJSONLD pulls article text out of ld+json script blocks. Sites that
// render their body with JavaScript often still ship the full text in
// structured data for crawlers. Returns the best candidate or empty.
func (o Options) ExtractJSONLD(doc *goquery.Document) string {
	var best string

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return
		}
		for _, candidate := range collectBodyValues(payload, 0) {
			candidate = html.UnescapeString(candidate)
			if strings.Contains(candidate, "<") && strings.Contains(candidate, ">") {
				candidate = htmlFragmentToMarkdown(candidate, o)
			}
			if o.validFallback(candidate) {
				best = betterCandidate(best, candidate)
			}
		}
	})

	return best
}

// collectBodyValues walks arbitrarily nested JSON-LD, including @graph
// wrappers, gathering every string under a body-bearing key.
func collectBodyValues(payload any, depth int) []string {
	if depth > 8 {
		return nil
	}

	var found []string
	switch v := payload.(type) {
	case map[string]any:
		for _, key := range jsonLDBodyKeys {
			if s, ok := v[key].(string); ok && s != "" {
				found = append(found, s)
			}
		}
		if graph, ok := v["@graph"]; ok {
			found = append(found, collectBodyValues(graph, depth+1)...)
		}
		for key, child := range v {
			switch child.(type) {
			case map[string]any, []any:
				if key != "@graph" {
					found = append(found, collectBodyValues(child, depth+1)...)
				}
			}
		}
	case []any:
		for _, item := range v {
			found = append(found, collectBodyValues(item, depth+1)...)
		}
	}
	return found
}

// htmlFragmentToMarkdown runs the regular DOM walk over an HTML fragment
// embedded in structured data. Image indices restart per fragment.
func htmlFragmentToMarkdown(fragment string, opts Options) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	walker := NewWalker(opts, NewResolver(""))
	return RenderMarkdown(walker.Walk(doc))
}

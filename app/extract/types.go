package extract

// EventKind identifies one kind of content event emitted by the DOM walker.
type EventKind int

const (
	KindHeading EventKind = iota
	KindParagraph
	KindListItem
	KindCode
	KindImage
	KindVideo
	KindBreak
)

// Event is one unit of article content in reading order. The flat ordered
// sequence is the only carrier of document structure; downstream Markdown
// and Notion blocks are line-oriented anyway.
type Event struct {
	Kind    EventKind
	Level   int    // heading level 1-6
	Ordinal int    // list item number, 0 for bullets
	Text    string
	URL     string // image or video URL
	Index   int    // 1-based figure number for images
}

// ImageRef ties a resolved image URL back to its position in the page.
type ImageRef struct {
	Original string
	Resolved string
	Index    int
}

// Source names the extraction strategy that produced a candidate.
type Source string

const (
	SourceDOM            Source = "dom"
	SourceJSONLD         Source = "ld+json"
	SourceFramework      Source = "framework-data"
	SourceStaticMarkdown Source = "static-markdown"
	SourceWholeText      Source = "whole-text"
)

// Result is the final extraction outcome for one URL. It is never nil-like:
// a failed extraction yields empty content so the pipeline can publish a
// stub instead of aborting.
type Result struct {
	Markdown string
	Images   []ImageRef
	Author   string
	Source   Source
}

// Options carries the tunable extraction constants. The thresholds are
// empirical; treat them as configuration, not invariants.
type Options struct {
	IncludeImages      bool
	MaxContentLength   int
	MinMeaningfulChars int
	MinCharsWithImages int
	MinFallbackChars   int
}

func DefaultOptions() Options {
	return Options{
		IncludeImages:      true,
		MaxContentLength:   50000,
		MinMeaningfulChars: 40,
		MinCharsWithImages: 120,
		MinFallbackChars:   200,
	}
}

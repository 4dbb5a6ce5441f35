package extract

import (
	"strings"
	"unicode"
)

// MeaningfulChars counts the characters that carry content signal:
// letters, digits and CJK. Markdown punctuation, braces and whitespace
// do not count, so a page full of syntax scores near zero.
func MeaningfulChars(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Han, r) {
			n++
		}
	}
	return n
}

// IsLowText reports whether a candidate is too sparse to count as a
// successful extraction. A candidate that carries images needs more
// surrounding text to be believable as an article body.
func (o Options) IsLowText(content string, imageCount int) bool {
	meaningful := MeaningfulChars(content)
	if meaningful < o.MinMeaningfulChars {
		return true
	}
	if imageCount > 0 && meaningful < o.MinCharsWithImages {
		return true
	}
	return false
}

var bundlerArtifacts = []string{
	"webpackJsonp",
	"__webpack",
	"sourceMappingURL",
	"self.__next_f",
	"window.__",
}

// looksLikeData rejects candidates that are code or serialized state rather
// than prose: heavy brace usage, heavy markup without paragraph tags, or
// bundler droppings.
func looksLikeData(s string) bool {
	if strings.Count(s, "{") > 20 && strings.Count(s, "}") > 20 {
		return true
	}
	if strings.Count(s, "<") > 20 && strings.Count(s, ">") > 20 && !strings.Contains(s, "<p") {
		return true
	}
	for _, marker := range bundlerArtifacts {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

var sentenceMarks = []string{". ", ".\n", "。", "！", "？", "! ", "? "}

// scoreCandidate ranks fallback candidates: longer meaningful text wins,
// with a mild bonus for text that has the shape of prose (multiple line
// breaks and multiple sentence terminators).
func scoreCandidate(s string) int {
	score := MeaningfulChars(s)

	sentences := 0
	for _, mark := range sentenceMarks {
		sentences += strings.Count(s, mark)
	}
	if strings.Count(s, "\n") >= 3 && sentences >= 3 {
		score += score / 10
	}
	return score
}

// validFallback filters structured-data candidates before they compete:
// too-short or data-shaped text never beats anything.
func (o Options) validFallback(s string) bool {
	return len(s) >= o.MinFallbackChars && !looksLikeData(s)
}

// betterCandidate returns the higher-scoring of two texts; empty strings
// always lose.
func betterCandidate(a, b string) string {
	if b == "" {
		return a
	}
	if a == "" {
		return b
	}
	if scoreCandidate(b) > scoreCandidate(a) {
		return b
	}
	return a
}

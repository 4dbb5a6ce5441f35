package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalize_CollapsesBlankLines(t *testing.T) {
	got := Normalize("first\n\n\n\n\nsecond", 0)
	if got != "first\n\nsecond" {
		t.Errorf("Expected blank lines collapsed, got %q", got)
	}
}

func TestNormalize_TruncatesWithMarker(t *testing.T) {
	long := strings.Repeat("内容", 100)
	got := Normalize(long, 50)

	if !strings.HasSuffix(got, TruncationMarker) {
		t.Errorf("Expected truncation marker suffix, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("Expected truncation to preserve rune boundaries")
	}
	body := strings.TrimSuffix(got, TruncationMarker)
	if utf8.RuneCountInString(body) > 50 {
		t.Errorf("Expected at most 50 runes of content, got %d", utf8.RuneCountInString(body))
	}
}

func TestNormalize_ShortContentUntouched(t *testing.T) {
	got := Normalize("short text", 50000)
	if got != "short text" {
		t.Errorf("Expected short content unchanged, got %q", got)
	}
	if strings.Contains(got, TruncationMarker) {
		t.Error("Expected no marker on short content")
	}
}

func TestNormalize_StripsTrailerSections(t *testing.T) {
	markdown := "Real content here.\n\n## You Might Also Like\n- something else"
	got := Normalize(markdown, 0)

	if strings.Contains(got, "You Might Also Like") {
		t.Errorf("Expected trailer section removed, got %q", got)
	}
	if !strings.Contains(got, "Real content here.") {
		t.Error("Expected real content to survive")
	}
}

package feed

import (
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>A test feed</description>
    <item>
      <title>First Post</title>
      <link>https://example.com/first</link>
      <guid>post-1</guid>
      <description>First description</description>
      <pubDate>Mon, 02 Jan 2026 15:04:05 GMT</pubDate>
      <author>jane@example.com (Jane Doe)</author>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/second</link>
      <description>Second description</description>
    </item>
  </channel>
</rss>`

func TestParser_Run_ParsesMetadataAndItems(t *testing.T) {
	parser := NewParser()

	metadata, items, err := parser.Run([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if metadata.Title != "Test Feed" {
		t.Errorf("Expected feed title 'Test Feed', got %q", metadata.Title)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	if items[0].GUID != "post-1" {
		t.Errorf("Expected GUID 'post-1', got %q", items[0].GUID)
	}
	if items[0].PublishedAt.IsZero() {
		t.Error("Expected published date to be parsed")
	}
	if len(items[0].Authors) != 1 {
		t.Fatalf("Expected 1 author, got %d", len(items[0].Authors))
	}
}

func TestParser_Run_GUIDFallsBackToLink(t *testing.T) {
	parser := NewParser()

	_, items, err := parser.Run([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if items[1].GUID != "https://example.com/second" {
		t.Errorf("Expected link as GUID fallback, got %q", items[1].GUID)
	}
}

func TestParser_Run_InvalidData(t *testing.T) {
	parser := NewParser()

	if _, _, err := parser.Run([]byte("definitely not a feed")); err == nil {
		t.Error("Expected error for invalid feed data")
	}
}

func TestParser_FormatAuthor(t *testing.T) {
	parser := NewParser()

	if got := parser.formatAuthor("Jane", "jane@example.com"); got != "jane@example.com (Jane)" {
		t.Errorf("Unexpected author format: %q", got)
	}
	if got := parser.formatAuthor("Jane", ""); got != "Jane" {
		t.Errorf("Expected name only, got %q", got)
	}
	if got := parser.formatAuthor("", ""); got != "" {
		t.Errorf("Expected empty author, got %q", got)
	}
}

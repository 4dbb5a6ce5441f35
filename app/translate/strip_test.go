package translate

import (
	"strings"
	"testing"
)

func TestCleanResponse_UnwrapsFence(t *testing.T) {
	reply := "```markdown\n# 标题\n\n正文内容\n```"
	got := CleanResponse(reply)

	if strings.HasPrefix(got, "```") {
		t.Errorf("Expected fence removed, got %q", got)
	}
	if !strings.Contains(got, "正文内容") {
		t.Error("Expected content preserved after unwrap")
	}
}

func TestCleanResponse_KeepsInnerFences(t *testing.T) {
	reply := "这是翻译。\n\n```go\nfmt.Println(1)\n```\n\n结束。"
	got := CleanResponse(reply)

	if !strings.Contains(got, "```go") {
		t.Error("Expected inner code fence preserved")
	}
}

func TestCleanResponse_StripsThinkingPreamble(t *testing.T) {
	reply := strings.Join([]string{
		"Okay, the user wants a translation.",
		"Let me work through the markdown structure first.",
		"好的，这是翻译后的内容。",
		"第二段。",
	}, "\n")

	got := CleanResponse(reply)

	if strings.Contains(got, "Okay, the user") {
		t.Errorf("Expected English preamble removed, got %q", got)
	}
	if !strings.HasPrefix(got, "好的") {
		t.Errorf("Expected reply to start at first Chinese line, got %q", got)
	}
	if !strings.Contains(got, "第二段") {
		t.Error("Expected following lines preserved")
	}
}

func TestCleanResponse_FallsBackToMarkdownMarker(t *testing.T) {
	reply := strings.Join([]string{
		"Reasoning about the translation approach.",
		"## Translated Heading",
		"Body line.",
	}, "\n")

	got := CleanResponse(reply)

	if !strings.HasPrefix(got, "## Translated Heading") {
		t.Errorf("Expected reply to start at markdown marker, got %q", got)
	}
}

func TestCleanResponse_PlainReplyUntouched(t *testing.T) {
	reply := "A plain English reply with no structure."
	if got := CleanResponse(reply); got != reply {
		t.Errorf("Expected plain reply unchanged, got %q", got)
	}
}

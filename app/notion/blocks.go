package notion

import (
	"strconv"
	"strings"

	"github.com/jomei/notionapi"
)

const (
	// maxRichTextLen is the API limit for a single rich text element.
	maxRichTextLen = 2000
	// maxBlocksPerPage is the API limit for blocks in one create request.
	maxBlocksPerPage = 100
)

// truncationNotice is appended as a visible paragraph when the block cap
// forces content to be cut.
const truncationNotice = "...(内容过长已截断)"

// ToBlocks converts rendered Markdown into Notion blocks, one block per
// logical line. Recognized forms: headings, dividers, bullet and numbered
// list items, fenced code, images and plain paragraphs. Overlong text is
// split across rich text elements, never dropped.
func ToBlocks(markdown string) []notionapi.Block {
	var blocks []notionapi.Block

	lines := strings.Split(markdown, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, heading3(strings.TrimPrefix(line, "### ")))
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, heading2(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, heading1(strings.TrimPrefix(line, "# ")))
		case line == "---":
			blocks = append(blocks, divider())
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			blocks = append(blocks, bulletedItem(line[2:]))
		case isNumberedItem(line):
			_, text, _ := strings.Cut(line, ". ")
			blocks = append(blocks, numberedItem(text))
		case strings.HasPrefix(line, "```"):
			var code []string
			for i++; i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```"); i++ {
				code = append(code, lines[i])
			}
			blocks = append(blocks, codeBlock(strings.Join(code, "\n")))
		case strings.HasPrefix(line, "!["):
			if url := imageTarget(line); url != "" {
				blocks = append(blocks, imageBlock(url))
			} else {
				blocks = append(blocks, paragraph(line))
			}
		default:
			blocks = append(blocks, paragraph(line))
		}
	}

	return CapBlocks(blocks, maxBlocksPerPage)
}

// CapBlocks enforces the per-page block limit. When content is cut, the
// final block is a visible truncation notice so readers know to follow the
// original link.
func CapBlocks(blocks []notionapi.Block, limit int) []notionapi.Block {
	if len(blocks) <= limit {
		return blocks
	}
	capped := blocks[:limit-1]
	return append(capped, paragraph(truncationNotice))
}

func isNumberedItem(line string) bool {
	digits, _, found := strings.Cut(line, ". ")
	if !found || digits == "" {
		return false
	}
	_, err := strconv.Atoi(digits)
	return err == nil
}

func imageTarget(line string) string {
	_, rest, found := strings.Cut(line, "](")
	if !found || !strings.HasSuffix(rest, ")") {
		return ""
	}
	url := strings.TrimSuffix(rest, ")")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ""
	}
	return url
}

// richText converts text into rich text elements, honoring **bold** runs
// and splitting anything over the per-element length limit. Splitting never
// discards characters; an unmatched ** is kept literally.
func richText(text string) []notionapi.RichText {
	var elements []notionapi.RichText

	for len(text) > 0 {
		start := strings.Index(text, "**")
		if start < 0 {
			elements = append(elements, plainRuns(text, false)...)
			break
		}
		end := strings.Index(text[start+2:], "**")
		if end < 0 {
			elements = append(elements, plainRuns(text, false)...)
			break
		}

		if start > 0 {
			elements = append(elements, plainRuns(text[:start], false)...)
		}
		if bold := text[start+2 : start+2+end]; bold != "" {
			elements = append(elements, plainRuns(bold, true)...)
		}
		text = text[start+2+end+2:]
	}

	if len(elements) == 0 {
		elements = plainRuns("", false)
	}
	return elements
}

func plainRuns(text string, bold bool) []notionapi.RichText {
	var elements []notionapi.RichText
	for _, chunk := range splitRunes(text, maxRichTextLen) {
		rt := notionapi.RichText{
			Text: &notionapi.Text{Content: chunk},
		}
		if bold {
			rt.Annotations = &notionapi.Annotations{Bold: true}
		}
		elements = append(elements, rt)
	}
	if len(elements) == 0 {
		elements = append(elements, notionapi.RichText{Text: &notionapi.Text{Content: ""}})
	}
	return elements
}

// splitRunes breaks text into limit-sized chunks at rune boundaries.
func splitRunes(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		n := min(limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}

func basicBlock(blockType notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   blockType,
	}
}

func paragraph(text string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
		Paragraph: notionapi.Paragraph{
			RichText: richText(text),
		},
	}
}

func heading1(text string) notionapi.Block {
	return &notionapi.Heading1Block{
		BasicBlock: basicBlock(notionapi.BlockTypeHeading1),
		Heading1: notionapi.Heading{
			RichText: richText(text),
		},
	}
}

func heading2(text string) notionapi.Block {
	return &notionapi.Heading2Block{
		BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
		Heading2: notionapi.Heading{
			RichText: richText(text),
		},
	}
}

func heading3(text string) notionapi.Block {
	return &notionapi.Heading3Block{
		BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
		Heading3: notionapi.Heading{
			RichText: richText(text),
		},
	}
}

func bulletedItem(text string) notionapi.Block {
	return &notionapi.BulletedListItemBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeBulletedListItem),
		BulletedListItem: notionapi.ListItem{
			RichText: richText(text),
		},
	}
}

func numberedItem(text string) notionapi.Block {
	return &notionapi.NumberedListItemBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeNumberedListItem),
		NumberedListItem: notionapi.ListItem{
			RichText: richText(text),
		},
	}
}

func codeBlock(code string) notionapi.Block {
	return &notionapi.CodeBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeCode),
		Code: notionapi.Code{
			RichText: plainRuns(code, false),
			Language: "plain text",
		},
	}
}

func imageBlock(url string) notionapi.Block {
	return &notionapi.ImageBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeImage),
		Image: notionapi.Image{
			Type:     notionapi.FileTypeExternal,
			External: &notionapi.FileObject{URL: url},
		},
	}
}

func divider() notionapi.Block {
	return &notionapi.DividerBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeDivider),
		Divider:    notionapi.Divider{},
	}
}

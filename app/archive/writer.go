package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// maxFileNameLen keeps generated names comfortably inside filesystem limits.
const maxFileNameLen = 80

// Article is the archived form of one published item.
type Article struct {
	Title       string
	URL         string
	Author      string
	Source      string
	PublishedAt time.Time
	Markdown    string
}

// Writer saves a local Markdown copy of every published article, grouped by
// save date. The archive is the offline backup of the Notion database.
type Writer struct {
	baseDir string
	now     func() time.Time
}

func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, now: time.Now}
}

// Save writes the article under <base>/YYYYMMDD/<title>.md and returns the
// file path. Name collisions get a numeric suffix instead of overwriting.
func (w *Writer) Save(article Article) (string, error) {
	dir := filepath.Join(w.baseDir, w.now().Format("20060102"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	name := sanitizeTitle(article.Title)
	path := filepath.Join(dir, name+".md")
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", name, i))
	}

	if err := os.WriteFile(path, []byte(w.render(article)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return path, nil
}

func (w *Writer) render(article Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", article.Title)
	b.WriteString("## 元数据\n\n")
	fmt.Fprintf(&b, "- 链接: %s\n", article.URL)
	if article.Author != "" {
		fmt.Fprintf(&b, "- 作者: %s\n", article.Author)
	}
	if article.Source != "" {
		fmt.Fprintf(&b, "- 来源: %s\n", article.Source)
	}
	if !article.PublishedAt.IsZero() {
		fmt.Fprintf(&b, "- 发布时间: %s\n", article.PublishedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- 保存时间: %s\n", w.now().Format(time.RFC3339))
	b.WriteString("\n## 正文\n\n")
	b.WriteString(article.Markdown)
	b.WriteString("\n")

	return b.String()
}

// sanitizeTitle produces a safe file name, keeping letters, digits and CJK
// and collapsing everything else to single hyphens.
func sanitizeTitle(title string) string {
	var b strings.Builder
	lastHyphen := false

	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Han, r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "untitled"
	}

	runes := []rune(name)
	if len(runes) > maxFileNameLen {
		name = strings.Trim(string(runes[:maxFileNameLen]), "-")
	}
	return name
}

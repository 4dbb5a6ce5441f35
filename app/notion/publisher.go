package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jomei/notionapi"
)

// maxExcerptLen keeps the summary property under the rich text limit with
// headroom for the API's own metadata.
const maxExcerptLen = 1900

const publishAttempts = 3

// Page is one article ready for publishing.
type Page struct {
	Title           string
	TranslatedTitle string
	URL             string
	Author          string
	Source          string
	PublishedAt     time.Time
	Excerpt         string
	CoverURL        string
	Blocks          []notionapi.Block
}

// Publisher writes article pages into a Notion database. The database uses
// a fixed Chinese property schema shared with manual clippings.
type Publisher struct {
	client *notionapi.Client
	dbID   notionapi.DatabaseID
}

func NewPublisher(token, databaseID string) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("notion token is required")
	}

	p := &Publisher{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
	if databaseID != "" {
		p.dbID = notionapi.DatabaseID(databaseID)
	}
	return p, nil
}

// EnsureDatabase verifies the configured database exists, or creates one
// under the given parent page when no database ID is configured.
func (p *Publisher) EnsureDatabase(ctx context.Context, parentPageID string) error {
	if p.dbID != "" {
		if _, err := p.client.Database.Get(ctx, p.dbID); err != nil {
			return fmt.Errorf("failed to access database: %w", err)
		}
		return nil
	}

	if parentPageID == "" {
		return fmt.Errorf("either a database ID or a parent page ID is required")
	}

	db, err := p.client.Database.Create(ctx, &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(parentPageID),
		},
		Title: []notionapi.RichText{
			{Text: &notionapi.Text{Content: "文章收藏"}},
		},
		Properties: notionapi.PropertyConfigs{
			"标题": notionapi.TitlePropertyConfig{
				Type: notionapi.PropertyConfigTypeTitle,
			},
			"链接": notionapi.URLPropertyConfig{
				Type: notionapi.PropertyConfigTypeURL,
			},
			"作者": notionapi.RichTextPropertyConfig{
				Type: notionapi.PropertyConfigTypeRichText,
			},
			"发布时间": notionapi.DatePropertyConfig{
				Type: notionapi.PropertyConfigTypeDate,
			},
			"来源": notionapi.SelectPropertyConfig{
				Type:   notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{},
			},
			"状态": notionapi.SelectPropertyConfig{
				Type: notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{
					Options: []notionapi.Option{
						{Name: "未读", Color: notionapi.ColorBlue},
						{Name: "已读", Color: notionapi.ColorGreen},
						{Name: "收藏", Color: notionapi.ColorYellow},
					},
				},
			},
			"摘要": notionapi.RichTextPropertyConfig{
				Type: notionapi.PropertyConfigTypeRichText,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	p.dbID = notionapi.DatabaseID(db.ID)
	slog.Info("Notion database created", "database_id", db.ID)
	return nil
}

// Publish creates the article page. Transient API failures are retried with
// exponential backoff; the last error is returned after the final attempt.
func (p *Publisher) Publish(ctx context.Context, page Page) error {
	if p.dbID == "" {
		return fmt.Errorf("database ID not set")
	}

	request := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: p.dbID,
		},
		Properties: p.properties(page),
		Children:   page.Blocks,
	}

	if page.CoverURL != "" {
		request.Cover = &notionapi.Image{
			Type:     notionapi.FileTypeExternal,
			External: &notionapi.FileObject{URL: page.CoverURL},
		}
	}

	var lastErr error
	for attempt := 0; attempt < publishAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1<<attempt) * time.Second
			slog.Debug("Retrying page creation", "attempt", attempt+1, "delay", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if _, err := p.client.Page.Create(ctx, request); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to create page after %d attempts: %w", publishAttempts, lastErr)
}

func (p *Publisher) properties(page Page) notionapi.Properties {
	title := page.Title
	if page.TranslatedTitle != "" {
		title = page.TranslatedTitle
	}

	properties := notionapi.Properties{
		"标题": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Text: &notionapi.Text{Content: title}},
			},
		},
		"状态": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: "未读"},
		},
	}

	if page.URL != "" {
		properties["链接"] = notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  page.URL,
		}
	}

	if page.Author != "" {
		properties["作者"] = notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Text: &notionapi.Text{Content: page.Author}},
			},
		}
	}

	if page.Source != "" {
		properties["来源"] = notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: page.Source},
		}
	}

	if !page.PublishedAt.IsZero() {
		date := notionapi.Date(page.PublishedAt)
		properties["发布时间"] = notionapi.DateProperty{
			Type: notionapi.PropertyTypeDate,
			Date: &notionapi.DateObject{Start: &date},
		}
	}

	if page.Excerpt != "" {
		properties["摘要"] = notionapi.RichTextProperty{
			Type: notionapi.PropertyTypeRichText,
			RichText: []notionapi.RichText{
				{Text: &notionapi.Text{Content: truncateRunes(page.Excerpt, maxExcerptLen)}},
			},
		}
	}

	return properties
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

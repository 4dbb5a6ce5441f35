package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clipfeed/app/archive"
	"clipfeed/app/cache"
	"clipfeed/app/config"
	"clipfeed/app/extract"
	"clipfeed/app/feed"
	"clipfeed/app/fetch"
	"clipfeed/app/notion"
	"clipfeed/app/translate"
)

// maxExcerptSourceLen bounds how much of the body feeds the summary
// property.
const maxExcerptSourceLen = 300

// ProcessFeedTask handles one subscription end to end: fetch the feed,
// extract each unseen article, translate when configured, publish to Notion
// and archive locally. Item failures are logged and skipped so one broken
// article never blocks the rest of the feed.
type ProcessFeedTask struct {
	Task
	subscription config.Subscription
	feedConfig   config.Config
	client       *fetch.Client
	parser       *feed.Parser
	extractor    *extract.Extractor
	translator   translate.Provider
	publisher    *notion.Publisher
	archiver     *archive.Writer
	seen         *cache.SeenCache
}

func NewProcessFeedTask(subscription config.Subscription, feedConfig config.Config,
	client *fetch.Client, parser *feed.Parser, extractor *extract.Extractor,
	translator translate.Provider, publisher *notion.Publisher,
	archiver *archive.Writer, seen *cache.SeenCache) *ProcessFeedTask {

	return &ProcessFeedTask{
		Task:         NewTask(TaskTypeProcessFeed, subscription.Name()),
		subscription: subscription,
		feedConfig:   feedConfig,
		client:       client,
		parser:       parser,
		extractor:    extractor,
		translator:   translator,
		publisher:    publisher,
		archiver:     archiver,
		seen:         seen,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	data, err := t.client.Get(ctx, t.subscription.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	_, items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	published := 0
	skipped := 0
	for _, item := range items {
		if t.feedConfig.MaxArticlesPerFeed > 0 && published >= t.feedConfig.MaxArticlesPerFeed {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		key := cache.Key(item.Link, item.GUID, item.Title, item.PublishedAt.Format(time.RFC3339))
		if t.seen.IsSeen(key) {
			skipped++
			continue
		}

		if err := t.processItem(ctx, item, key); err != nil {
			slog.Warn("Failed to process item, skipping",
				"feed", t.FeedName, "title", item.Title, "error", err)
			continue
		}
		published++
	}

	if _, err := t.seen.Save(); err != nil {
		slog.Warn("Failed to save cache", "feed", t.FeedName, "error", err)
	}

	slog.Info("Feed processed", "feed", t.FeedName, "items", len(items),
		"published", published, "already_seen", skipped,
		"duration", t.GetDuration().Round(time.Millisecond).String())
	return nil
}

func (t *ProcessFeedTask) processItem(ctx context.Context, item feed.Item, key string) error {
	result := t.extractItem(ctx, item)

	title := item.Title
	translatedTitle := ""
	markdown := result.Markdown

	if t.feedConfig.Translation.Enabled && t.translator != nil {
		if translated, err := t.translator.TranslateTitle(ctx, title); err != nil {
			slog.Warn("Title translation failed, keeping original",
				"feed", t.FeedName, "title", title, "error", err)
		} else {
			translatedTitle = translated
		}

		if markdown != "" {
			if translated, err := t.translator.Translate(ctx, markdown); err != nil {
				slog.Warn("Content translation failed, keeping original",
					"feed", t.FeedName, "title", title, "error", err)
			} else {
				markdown = translated
			}
		}
	}

	author := result.Author
	if author == "" && len(item.Authors) > 0 {
		author = strings.Join(item.Authors, ", ")
	}

	page := notion.Page{
		Title:           title,
		TranslatedTitle: translatedTitle,
		URL:             item.Link,
		Author:          author,
		Source:          t.subscription.Name(),
		PublishedAt:     item.PublishedAt,
		Excerpt:         buildExcerpt(markdown, item.Description),
		Blocks:          notion.ToBlocks(markdown),
	}
	if len(result.Images) > 0 {
		page.CoverURL = result.Images[0].Resolved
	}

	if err := t.publisher.Publish(ctx, page); err != nil {
		return fmt.Errorf("failed to publish page: %w", err)
	}

	archiveTitle := title
	if translatedTitle != "" {
		archiveTitle = translatedTitle
	}
	if _, err := t.archiver.Save(archive.Article{
		Title:       archiveTitle,
		URL:         item.Link,
		Author:      author,
		Source:      t.subscription.Name(),
		PublishedAt: item.PublishedAt,
		Markdown:    markdown,
	}); err != nil {
		slog.Warn("Failed to archive article", "feed", t.FeedName, "title", title, "error", err)
	}

	t.seen.MarkSeen(key, cache.Entry{
		Title:       title,
		Link:        item.Link,
		Author:      author,
		PublishedAt: item.PublishedAt.Format(time.RFC3339),
	})

	slog.Debug("Item published", "feed", t.FeedName, "title", title, "source", string(result.Source))
	return nil
}

// extractItem fetches the article page and runs extraction. When the page
// cannot be fetched, the feed's own content or description is used instead
// so the item is never dropped entirely.
func (t *ProcessFeedTask) extractItem(ctx context.Context, item feed.Item) extract.Result {
	if item.Link != "" {
		if body, err := t.client.Get(ctx, item.Link); err != nil {
			slog.Warn("Failed to fetch article page, falling back to feed content",
				"feed", t.FeedName, "url", item.Link, "error", err)
		} else if t.feedConfig.Extractor == "readability" {
			return t.extractor.RunReadability(ctx, item.Link, body)
		} else {
			return t.extractor.Run(ctx, item.Link, body)
		}
	}

	embedded := item.Content
	if embedded == "" {
		embedded = item.Description
	}
	if embedded == "" {
		return extract.Result{Source: extract.SourceDOM}
	}
	return t.extractor.Run(ctx, item.Link, []byte(embedded))
}

// buildExcerpt derives the summary property from the feed description, or
// the first text lines of the body when the feed has none.
func buildExcerpt(markdown, description string) string {
	if desc := strings.TrimSpace(description); desc != "" {
		return truncateExcerpt(stripTags(desc))
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "![") {
			continue
		}
		return truncateExcerpt(line)
	}
	return ""
}

func truncateExcerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= maxExcerptSourceLen {
		return s
	}
	return string(runes[:maxExcerptSourceLen]) + "..."
}

// stripTags removes simple markup from feed descriptions, which frequently
// carry raw HTML.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

package articles

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/yab007-glitch/linkedinto/app/database"
)

// Fetcher turns raw RSS/Atom bytes into article records
type Fetcher struct {
	gofeedParser *gofeed.Parser
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		gofeedParser: gofeed.NewParser(),
	}
}

func (f *Fetcher) Run(data []byte, source *Source) ([]database.Article, error) {
	feed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	limit := source.Settings.MaxItems
	if limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	articles := make([]database.Article, 0, limit)
	for _, item := range feed.Items[:limit] {
		articles = append(articles, f.normalizeItem(item, source))
	}

	return articles, nil
}

func (f *Fetcher) normalizeItem(item *gofeed.Item, source *Source) database.Article {
	article := database.Article{
		ID:          uuid.NewString(),
		Source:      source.Name,
		GUID:        cmp.Or(item.GUID, item.Link),
		Link:        item.Link,
		Title:       item.Title,
		Description: item.Description,
		Category:    source.Category,
		CreatedAt:   time.Now().UTC(),
	}

	if item.PublishedParsed != nil {
		published := item.PublishedParsed.UTC()
		article.PublishedAt = &published
	}

	if article.Category == "" && len(item.Categories) > 0 {
		article.Category = item.Categories[0]
	}

	article.ContentHash = generateContentHash(article)

	article.ExtractionStatus = "skipped"
	if source.Settings.ExtractContent && article.Link != "" {
		article.ExtractionStatus = "pending"
	}

	return article
}

func generateContentHash(article database.Article) string {
	content := fmt.Sprintf("%s|%s", article.Title, article.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yab007-glitch/linkedinto/app/articles"
	"github.com/yab007-glitch/linkedinto/app/database"
)

// ExtractContentTask fetches the pages behind freshly ingested articles and
// stores their readable text, which the generator prefers over the usually
// thin feed description
type ExtractContentTask struct {
	Task
	Source      *articles.Source
	httpClient  *http.Client
	extractor   *articles.Extractor
	articleRepo database.ArticleRepository
	userAgent   string
}

func NewExtractContentTask(source *articles.Source, httpClient *http.Client, extractor *articles.Extractor,
	articleRepo database.ArticleRepository, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:        NewTask(TaskTypeExtractContent, source.Name),
		Source:      source,
		httpClient:  httpClient,
		extractor:   extractor,
		articleRepo: articleRepo,
		userAgent:   userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for source", "source", t.Source.Name)
		return nil
	}

	items, err := t.articleRepo.GetArticlesForExtraction(t.Source.Name, t.Source.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get articles for content extraction: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No articles need content extraction", "source", t.Source.Name)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, article := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		extractCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Source.Settings.Timeout)*time.Second)
		err := t.extractArticle(extractCtx, article)
		cancel()

		if err != nil {
			slog.Error("Failed to extract content for article", "article", article.ID, "url", article.Link, "error", err)
			errorCount++

			if err := t.articleRepo.UpdateExtractionStatus(article.ID, "failed"); err != nil {
				slog.Error("Failed to update extraction status", "article", article.ID, "error", err)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Source.Name,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractArticle(ctx context.Context, article database.Article) error {
	if article.Link == "" {
		return fmt.Errorf("article has no link")
	}

	data, err := t.fetchPage(ctx, article.Link)
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	text, err := t.extractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	if err := t.articleRepo.UpdateExtractedContent(article.ID, text, "success"); err != nil {
		return fmt.Errorf("failed to store extracted content: %w", err)
	}

	return nil
}

func (t *ExtractContentTask) fetchPage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

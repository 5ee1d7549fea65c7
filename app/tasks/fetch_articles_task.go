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

// FetchArticlesTask pulls one source feed and stores its new articles
type FetchArticlesTask struct {
	Task
	Source      *articles.Source
	httpClient  *http.Client
	fetcher     *articles.Fetcher
	articleRepo database.ArticleRepository
	userAgent   string
}

func NewFetchArticlesTask(source *articles.Source, httpClient *http.Client, fetcher *articles.Fetcher,
	articleRepo database.ArticleRepository, userAgent string) *FetchArticlesTask {
	return &FetchArticlesTask{
		Task:        NewTask(TaskTypeFetchArticles, source.Name),
		Source:      source,
		httpClient:  httpClient,
		fetcher:     fetcher,
		articleRepo: articleRepo,
		userAgent:   userAgent,
	}
}

func (t *FetchArticlesTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.Source.Name)
		return nil
	}

	data, err := t.fetchFeed(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	items, err := t.fetcher.Run(data, t.Source)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	duplicateCount := 0
	newCount := 0

	for _, article := range items {
		isDuplicate, err := t.articleRepo.CheckDuplicate(article.ContentHash)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}

		if isDuplicate {
			duplicateCount++
			continue
		}

		if err := t.articleRepo.UpsertArticle(article); err != nil {
			return fmt.Errorf("failed to store article: %w", err)
		}
		newCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Source.Name,
		"duration", t.GetDuration(),
		"total", len(items),
		"duplicates", duplicateCount,
		"new", newCount)

	return nil
}

func (t *FetchArticlesTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Source.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
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

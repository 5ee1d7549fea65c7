package database

import (
	"database/sql"
	"fmt"
)

var _ ArticleRepository = (*ArticleRepositoryImpl)(nil)

// ArticleRepositoryImpl handles database operations for ingested articles
type ArticleRepositoryImpl struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepositoryImpl {
	return &ArticleRepositoryImpl{db: db}
}

const articleColumns = `id, source, guid, link, title, description, content, category,
	       published_at, content_hash, processed, extraction_status, created_at`

// UpsertArticle stores an article, refreshing mutable fields when the same
// (source, guid) pair is seen again
func (r *ArticleRepositoryImpl) UpsertArticle(article Article) error {
	_, err := r.db.Exec(`
		INSERT INTO articles (id, source, guid, link, title, description, content, category,
			published_at, content_hash, extraction_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source, guid) DO UPDATE SET
			link = excluded.link,
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			content_hash = excluded.content_hash
	`, article.ID, article.Source, article.GUID, article.Link, article.Title,
		article.Description, article.Content, article.Category, article.PublishedAt,
		article.ContentHash, article.ExtractionStatus, article.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	return nil
}

// CheckDuplicate reports whether an article with the same content hash
// already exists, across all sources
func (r *ArticleRepositoryImpl) CheckDuplicate(contentHash string) (bool, error) {
	var id string
	err := r.db.QueryRow(`
		SELECT id FROM articles WHERE content_hash = ? LIMIT 1
	`, contentHash).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}

	return true, nil
}

// GetNextUnprocessed returns the most recently published article that has
// not been consumed by a generation cycle yet, or nil when none remain
func (r *ArticleRepositoryImpl) GetNextUnprocessed() (*Article, error) {
	var article Article
	err := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE processed = 0
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT 1
	`).Scan(
		&article.ID, &article.Source, &article.GUID, &article.Link, &article.Title,
		&article.Description, &article.Content, &article.Category, &article.PublishedAt,
		&article.ContentHash, &article.Processed, &article.ExtractionStatus, &article.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next unprocessed article: %w", err)
	}

	return &article, nil
}

// GetArticlesForExtraction returns unprocessed articles of a source that
// still await full-text extraction
func (r *ArticleRepositoryImpl) GetArticlesForExtraction(source string, limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE source = ?
		  AND processed = 0
		  AND extraction_status = 'pending'
		  AND link != ''
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT ?
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for extraction: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		err := rows.Scan(
			&article.ID, &article.Source, &article.GUID, &article.Link, &article.Title,
			&article.Description, &article.Content, &article.Category, &article.PublishedAt,
			&article.ContentHash, &article.Processed, &article.ExtractionStatus, &article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *ArticleRepositoryImpl) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// MarkProcessed flags an article as consumed by a generation cycle
func (r *ArticleRepositoryImpl) MarkProcessed(id string) error {
	result, err := r.db.Exec(`
		UPDATE articles SET processed = 1 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark article processed: %w", err)
	}

	return checkAffected(result)
}

func (r *ArticleRepositoryImpl) UpdateExtractedContent(id string, content string, status string) error {
	result, err := r.db.Exec(`
		UPDATE articles SET content = ?, extraction_status = ? WHERE id = ?
	`, content, status, id)
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}

	return checkAffected(result)
}

func (r *ArticleRepositoryImpl) UpdateExtractionStatus(id string, status string) error {
	result, err := r.db.Exec(`
		UPDATE articles SET extraction_status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update extraction status: %w", err)
	}

	return checkAffected(result)
}

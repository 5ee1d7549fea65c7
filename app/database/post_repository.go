package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ PostRepository = (*PostRepositoryImpl)(nil)

// PostRepositoryImpl handles database operations for scheduled posts
type PostRepositoryImpl struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

const postColumns = `id, article_id, content, scheduled_for, status, external_post_id, error, created_at, posted_at`

func (r *PostRepositoryImpl) CreatePost(post ScheduledPost) error {
	_, err := r.db.Exec(`
		INSERT INTO scheduled_posts (id, article_id, content, scheduled_for, status, external_post_id, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, post.ID, post.ArticleID, post.Content, post.ScheduledFor.UTC(), post.Status,
		post.ExternalPostID, post.Error, post.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetPost(id string) (*ScheduledPost, error) {
	row := r.db.QueryRow(`
		SELECT `+postColumns+`
		FROM scheduled_posts
		WHERE id = ?
	`, id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// GetAllPosts returns every queue record ordered by scheduled time
func (r *PostRepositoryImpl) GetAllPosts() ([]ScheduledPost, error) {
	rows, err := r.db.Query(`
		SELECT ` + postColumns + `
		FROM scheduled_posts
		ORDER BY scheduled_for ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// GetUpcomingPosts returns pending/approved records scheduled at or after now
func (r *PostRepositoryImpl) GetUpcomingPosts(now time.Time, limit int) ([]ScheduledPost, error) {
	rows, err := r.db.Query(`
		SELECT `+postColumns+`
		FROM scheduled_posts
		WHERE status IN ('pending', 'approved')
		  AND scheduled_for >= ?
		ORDER BY scheduled_for ASC
		LIMIT ?
	`, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// GetDuePosts returns approved, not yet posted records whose scheduled time has passed
func (r *PostRepositoryImpl) GetDuePosts(now time.Time) ([]ScheduledPost, error) {
	rows, err := r.db.Query(`
		SELECT `+postColumns+`
		FROM scheduled_posts
		WHERE status = 'approved'
		  AND scheduled_for <= ?
		  AND posted_at IS NULL
		ORDER BY scheduled_for ASC
	`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get due posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *PostRepositoryImpl) GetPostStats(now time.Time) (PostStats, error) {
	var stats PostStats

	err := r.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'posted' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'approved' AND scheduled_for <= ? AND posted_at IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN ('pending', 'approved') AND scheduled_for >= ? THEN 1 ELSE 0 END), 0)
		FROM scheduled_posts
	`, now.UTC(), now.UTC()).Scan(
		&stats.Pending, &stats.Approved, &stats.Posted, &stats.Failed,
		&stats.Overdue, &stats.Upcoming,
	)
	if err != nil {
		return PostStats{}, fmt.Errorf("failed to get post stats: %w", err)
	}

	var nextDue *time.Time
	err = r.db.QueryRow(`
		SELECT scheduled_for
		FROM scheduled_posts
		WHERE status IN ('pending', 'approved')
		  AND posted_at IS NULL
		ORDER BY scheduled_for ASC
		LIMIT 1
	`).Scan(&nextDue)
	if err != nil && err != sql.ErrNoRows {
		return PostStats{}, fmt.Errorf("failed to get next due time: %w", err)
	}
	stats.NextDue = nextDue

	return stats, nil
}

func (r *PostRepositoryImpl) UpdatePostStatus(id string, status string) error {
	result, err := r.db.Exec(`
		UPDATE scheduled_posts
		SET status = ?
		WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	return checkAffected(result)
}

func (r *PostRepositoryImpl) UpdatePostContent(id string, content string) error {
	result, err := r.db.Exec(`
		UPDATE scheduled_posts
		SET content = ?
		WHERE id = ?
		  AND status != 'posted'
	`, content, id)
	if err != nil {
		return fmt.Errorf("failed to update post content: %w", err)
	}

	return checkAffected(result)
}

// MarkPostPosted transitions a record into its success terminal state,
// setting status, external id and posted time in a single statement
func (r *PostRepositoryImpl) MarkPostPosted(id string, externalPostID string, postedAt time.Time) error {
	result, err := r.db.Exec(`
		UPDATE scheduled_posts
		SET status = 'posted', external_post_id = ?, posted_at = ?
		WHERE id = ?
	`, externalPostID, postedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark post posted: %w", err)
	}

	return checkAffected(result)
}

// MarkPostFailed records a failure. The error column keeps the most recent
// failure reason and is never cleared. Posted records cannot fail, a posted
// timestamp always means status posted.
func (r *PostRepositoryImpl) MarkPostFailed(id string, errorMessage string) error {
	result, err := r.db.Exec(`
		UPDATE scheduled_posts
		SET status = 'failed', error = ?
		WHERE id = ? AND status != 'posted'
	`, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark post failed: %w", err)
	}

	return checkAffected(result)
}

func (r *PostRepositoryImpl) DeletePost(id string) error {
	result, err := r.db.Exec(`DELETE FROM scheduled_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(row *sql.Row) (*ScheduledPost, error) {
	var post ScheduledPost
	err := row.Scan(
		&post.ID, &post.ArticleID, &post.Content, &post.ScheduledFor,
		&post.Status, &post.ExternalPostID, &post.Error,
		&post.CreatedAt, &post.PostedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func collectPosts(rows *sql.Rows) ([]ScheduledPost, error) {
	var posts []ScheduledPost
	for rows.Next() {
		var post ScheduledPost
		err := rows.Scan(
			&post.ID, &post.ArticleID, &post.Content, &post.ScheduledFor,
			&post.Status, &post.ExternalPostID, &post.Error,
			&post.CreatedAt, &post.PostedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

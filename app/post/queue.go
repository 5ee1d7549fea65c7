package post

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yab007-glitch/linkedinto/app/database"
)

// Queue owns the lifecycle of scheduled post records. It never talks to
// external services; publish outcomes are reported back to it by the
// publish cycle.
type Queue struct {
	repo database.PostRepository
}

func NewQueue(repo database.PostRepository) *Queue {
	return &Queue{repo: repo}
}

// Create enqueues a new record in pending state
func (q *Queue) Create(articleID *string, content string, scheduledFor time.Time) (*database.ScheduledPost, error) {
	record := database.ScheduledPost{
		ID:           uuid.NewString(),
		ArticleID:    articleID,
		Content:      content,
		ScheduledFor: scheduledFor.UTC(),
		Status:       StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := q.repo.CreatePost(record); err != nil {
		return nil, fmt.Errorf("failed to enqueue post: %w", err)
	}

	return &record, nil
}

// Approve releases a pending record for publishing
func (q *Queue) Approve(id string) error {
	if err := q.repo.UpdatePostStatus(id, StatusApproved); err != nil {
		return fmt.Errorf("failed to approve post %s: %w", id, err)
	}
	return nil
}

// Retry returns a failed record to pending for another review round.
// Operator action, never triggered automatically.
func (q *Queue) Retry(id string) error {
	record, err := q.repo.GetPost(id)
	if err != nil {
		return fmt.Errorf("failed to load post %s: %w", id, err)
	}
	if record == nil {
		return database.ErrNotFound
	}
	if record.Status != StatusFailed {
		return fmt.Errorf("post %s is %s, only failed posts can be retried", id, record.Status)
	}

	if err := q.repo.UpdatePostStatus(id, StatusPending); err != nil {
		return fmt.Errorf("failed to retry post %s: %w", id, err)
	}
	return nil
}

// MarkPosted records a successful publish, setting the external id and the
// posted timestamp together so the record can never be posted without one
func (q *Queue) MarkPosted(id string, externalPostID string) error {
	if err := q.repo.MarkPostPosted(id, externalPostID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark post %s posted: %w", id, err)
	}
	return nil
}

// MarkFailed records a publish failure from any non-terminal status
func (q *Queue) MarkFailed(id string, errorMessage string) error {
	if err := q.repo.MarkPostFailed(id, errorMessage); err != nil {
		return fmt.Errorf("failed to mark post %s failed: %w", id, err)
	}
	return nil
}

// UpdateContent edits the text of a record that has not been posted yet
func (q *Queue) UpdateContent(id string, content string) error {
	if err := q.repo.UpdatePostContent(id, content); err != nil {
		return fmt.Errorf("failed to update post %s content: %w", id, err)
	}
	return nil
}

// Delete removes a record entirely, any status
func (q *Queue) Delete(id string) error {
	if err := q.repo.DeletePost(id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

func (q *Queue) Get(id string) (*database.ScheduledPost, error) {
	return q.repo.GetPost(id)
}

// List returns all records ordered by scheduled time
func (q *Queue) List() ([]database.ScheduledPost, error) {
	return q.repo.GetAllPosts()
}

// Upcoming returns pending/approved records not yet due, capped
func (q *Queue) Upcoming(now time.Time, limit int) ([]database.ScheduledPost, error) {
	return q.repo.GetUpcomingPosts(now, limit)
}

// Due returns approved records whose scheduled time has passed. These are
// the candidates for the publish cycle.
func (q *Queue) Due(now time.Time) ([]database.ScheduledPost, error) {
	return q.repo.GetDuePosts(now)
}

func (q *Queue) Stats(now time.Time) (database.PostStats, error) {
	return q.repo.GetPostStats(now)
}

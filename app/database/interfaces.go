package database

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an operation targets a record that does not exist
var ErrNotFound = errors.New("record not found")

type PostRepository interface {
	CreatePost(post ScheduledPost) error
	GetPost(id string) (*ScheduledPost, error)
	GetAllPosts() ([]ScheduledPost, error)
	GetUpcomingPosts(now time.Time, limit int) ([]ScheduledPost, error)
	GetDuePosts(now time.Time) ([]ScheduledPost, error)
	GetPostStats(now time.Time) (PostStats, error)

	UpdatePostStatus(id string, status string) error
	UpdatePostContent(id string, content string) error
	MarkPostPosted(id string, externalPostID string, postedAt time.Time) error
	MarkPostFailed(id string, errorMessage string) error
	DeletePost(id string) error
}

type ArticleRepository interface {
	UpsertArticle(article Article) error
	CheckDuplicate(contentHash string) (bool, error)
	GetNextUnprocessed() (*Article, error)
	GetArticlesForExtraction(source string, limit int) ([]Article, error)
	GetArticleCount() (int, error)

	MarkProcessed(id string) error
	UpdateExtractedContent(id string, content string, status string) error
	UpdateExtractionStatus(id string, status string) error
}

type AutomationRepository interface {
	GetConfig() (*AutomationConfig, error)
	UpdateConfig(config AutomationConfig) error
	UpdateRunTimes(lastRun time.Time, nextRun time.Time) error
}

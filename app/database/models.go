package database

import (
	"time"
)

// Article is an ingested source item waiting to be turned into a post
type Article struct {
	ID               string
	Source           string // Source name derived from the config filename
	GUID             string
	Link             string
	Title            string
	Description      string
	Content          string // Full text extracted from the article page, if available
	Category         string
	PublishedAt      *time.Time
	ContentHash      string
	Processed        bool
	ExtractionStatus string // pending, success, failed, skipped
	CreatedAt        time.Time
}

// ScheduledPost is a queued post record moving through
// pending -> approved -> posted (or -> failed)
type ScheduledPost struct {
	ID             string     `json:"id"`
	ArticleID      *string    `json:"article_id,omitempty"` // nil for manually created posts
	Content        string     `json:"content"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	Status         string     `json:"status"`
	ExternalPostID string     `json:"external_post_id,omitempty"` // Identifier returned by the network on publish
	Error          string     `json:"error,omitempty"`            // Most recent failure reason
	CreatedAt      time.Time  `json:"created_at"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
}

// AutomationConfig is the singleton automation state. A single row is
// created with defaults on first read and updated in place after that.
type AutomationConfig struct {
	Enabled         bool                `json:"enabled"`
	ScheduleType    string              `json:"schedule_type"` // interval or custom
	PostingInterval int                 `json:"posting_interval"` // hours, used in interval mode
	CustomSchedule  map[string][]string `json:"custom_schedule"`
	PauseOnWeekends bool                `json:"pause_on_weekends"`
	LastRun         *time.Time          `json:"last_run,omitempty"`
	NextRun         *time.Time          `json:"next_run,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// PostStats summarizes the queue for the stats endpoint
type PostStats struct {
	Pending  int
	Approved int
	Posted   int
	Failed   int
	Overdue  int
	Upcoming int
	NextDue  *time.Time
}

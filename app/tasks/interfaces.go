package tasks

import (
	"context"

	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/llm"
)

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application manages the worker pool through it and
// the API handlers use it to trigger pipeline cycles on demand.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueGeneration() error
	EnqueuePublish() error
}

// ContentGenerator drafts posts from articles. Implemented by llm.Client.
type ContentGenerator interface {
	GeneratePost(ctx context.Context, article *database.Article, suggestions []string) (*llm.Draft, error)
}

// Publisher pushes rendered post text to the social network and returns the
// external post id. Implemented by linkedin.Client.
type Publisher interface {
	Publish(ctx context.Context, content string) (string, error)
}

// Notifier delivers best-effort pipeline event messages
type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, subject string, message string) error
}

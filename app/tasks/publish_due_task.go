package tasks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yab007-glitch/linkedinto/app/linkedin"
	"github.com/yab007-glitch/linkedinto/app/post"
)

// How long a single publish attempt may take
const publishTimeout = 30 * time.Second

// Fallback external id recorded when LinkedIn rejects a share as duplicate
// without telling us the id of the earlier post
const duplicateSentinelID = "duplicate"

// PublishDueTask runs one publish cycle: sweep the approved records whose
// scheduled time has passed and publish them one at a time in scheduled
// order. One record failing never stops the rest of the sweep.
type PublishDueTask struct {
	Task
	queue     *post.Queue
	publisher Publisher
	notifier  Notifier
}

func NewPublishDueTask(queue *post.Queue, publisher Publisher, notifier Notifier) *PublishDueTask {
	return &PublishDueTask{
		Task:      NewTask(TaskTypePublishDue, "queue"),
		queue:     queue,
		publisher: publisher,
		notifier:  notifier,
	}
}

func (t *PublishDueTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	due, err := t.queue.Due(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to get due posts: %w", err)
	}

	if len(due) == 0 {
		slog.Debug("No posts due for publishing")
		return nil
	}

	published := 0
	failed := 0

	for _, record := range due {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if t.publishOne(ctx, record.ID, record.Content) {
			published++
		} else {
			failed++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"due", len(due),
		"published", published,
		"failed", failed)

	return nil
}

// publishOne attempts a single record and persists the outcome. Duplicate
// rejections count as success: the content is already out there.
func (t *PublishDueTask) publishOne(ctx context.Context, id string, content string) bool {
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	externalID, err := t.publisher.Publish(publishCtx, content)

	if errors.Is(err, linkedin.ErrDuplicatePost) {
		slog.Warn("Post rejected as duplicate, marking posted", "post", id)
		if markErr := t.queue.MarkPosted(id, cmp.Or(externalID, duplicateSentinelID)); markErr != nil {
			slog.Error("Failed to mark duplicate post as posted", "post", id, "error", markErr)
			return false
		}
		t.notify(ctx, "Post published", fmt.Sprintf("Post %s was already published (duplicate)", id))
		return true
	}

	if err != nil {
		slog.Error("Failed to publish post", "post", id, "error", err)
		if markErr := t.queue.MarkFailed(id, err.Error()); markErr != nil {
			slog.Error("Failed to mark post as failed", "post", id, "error", markErr)
		}
		t.notify(ctx, "Post failed", fmt.Sprintf("Post %s failed to publish: %v", id, err))
		return false
	}

	if err := t.queue.MarkPosted(id, externalID); err != nil {
		slog.Error("Failed to mark post as posted", "post", id, "external_id", externalID, "error", err)
		return false
	}

	t.notify(ctx, "Post published", fmt.Sprintf("Post %s published as %s", id, externalID))
	return true
}

func (t *PublishDueTask) notify(ctx context.Context, subject string, message string) {
	if t.notifier == nil || !t.notifier.Enabled() {
		return
	}
	if err := t.notifier.Send(ctx, subject, message); err != nil {
		slog.Warn("Failed to send notification", "subject", subject, "error", err)
	}
}

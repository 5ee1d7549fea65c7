package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/post"
)

// GeneratePostTask runs one generation cycle: pick the next unprocessed
// article, draft a post, score it, regenerate once if the score is below
// the quality gate, schedule the result and update automation bookkeeping.
type GeneratePostTask struct {
	Task
	automationRepo   database.AutomationRepository
	articleRepo      database.ArticleRepository
	queue            *post.Queue
	clock            *post.Clock
	scorer           *post.Scorer
	generator        ContentGenerator
	notifier         Notifier
	minScore         int
	autoApproveScore int
}

func NewGeneratePostTask(automationRepo database.AutomationRepository, articleRepo database.ArticleRepository,
	queue *post.Queue, clock *post.Clock, scorer *post.Scorer, generator ContentGenerator,
	notifier Notifier, minScore int, autoApproveScore int) *GeneratePostTask {
	return &GeneratePostTask{
		Task:             NewTask(TaskTypeGeneratePost, "automation"),
		automationRepo:   automationRepo,
		articleRepo:      articleRepo,
		queue:            queue,
		clock:            clock,
		scorer:           scorer,
		generator:        generator,
		notifier:         notifier,
		minScore:         minScore,
		autoApproveScore: autoApproveScore,
	}
}

func (t *GeneratePostTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Config is re-read every cycle, never cached across invocations
	config, err := t.automationRepo.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load automation config: %w", err)
	}

	if !config.Enabled {
		slog.Debug("Automation disabled, skipping generation cycle")
		return nil
	}

	article, err := t.articleRepo.GetNextUnprocessed()
	if err != nil {
		return fmt.Errorf("failed to get next article: %w", err)
	}
	if article == nil {
		// Input exhaustion is a silent no-op, not an error
		slog.Debug("No unprocessed articles available")
		return nil
	}

	content, score, err := t.draftContent(ctx, article)
	if err != nil {
		t.notify(ctx, "Generation failed", fmt.Sprintf("Article: %s\nError: %v", article.Title, err))
		return err
	}

	now := time.Now().UTC()
	scheduledFor := t.clock.NextPostTime(now, *config)

	record, err := t.queue.Create(&article.ID, content, scheduledFor)
	if err != nil {
		return err
	}

	status := post.StatusPending
	if score.Total >= t.autoApproveScore {
		if err := t.queue.Approve(record.ID); err != nil {
			return err
		}
		status = post.StatusApproved
	}

	if err := t.articleRepo.MarkProcessed(article.ID); err != nil {
		return err
	}

	nextRun := t.clock.NextPostTime(now, *config)
	if err := t.automationRepo.UpdateRunTimes(now, nextRun); err != nil {
		return err
	}

	t.notify(ctx, "Post queued",
		fmt.Sprintf("Article: %s\nScore: %d\nStatus: %s\nScheduled: %s",
			article.Title, score.Total, status, scheduledFor.Format(time.RFC3339)))

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"article", article.ID,
		"post", record.ID,
		"score", score.Total,
		"status", status,
		"scheduled_for", scheduledFor)

	return nil
}

// draftContent generates a draft and gives the model exactly one shot at
// improving it when the score falls below the quality gate. A failed
// regeneration keeps the original draft instead of aborting the cycle.
func (t *GeneratePostTask) draftContent(ctx context.Context, article *database.Article) (string, post.Score, error) {
	draft, err := t.generator.GeneratePost(ctx, article, nil)
	if err != nil {
		return "", post.Score{}, fmt.Errorf("failed to generate draft: %w", err)
	}

	content := draft.Render()
	score := t.scorer.Run(content)

	if score.Total >= t.minScore {
		return content, score, nil
	}

	slog.Debug("Draft below quality gate, regenerating",
		"score", score.Total, "min_score", t.minScore, "suggestions", len(score.Suggestions))

	improved, err := t.generator.GeneratePost(ctx, article, score.Suggestions)
	if err != nil {
		slog.Warn("Regeneration failed, keeping original draft", "article", article.ID, "error", err)
		return content, score, nil
	}

	improvedContent := improved.Render()
	improvedScore := t.scorer.Run(improvedContent)

	if improvedScore.Total <= score.Total {
		slog.Debug("Regeneration did not improve score, keeping original",
			"original", score.Total, "regenerated", improvedScore.Total)
		return content, score, nil
	}

	return improvedContent, improvedScore, nil
}

func (t *GeneratePostTask) notify(ctx context.Context, subject string, message string) {
	if t.notifier == nil || !t.notifier.Enabled() {
		return
	}
	if err := t.notifier.Send(ctx, subject, message); err != nil {
		slog.Warn("Failed to send notification", "subject", subject, "error", err)
	}
}

package api

import (
	"github.com/yab007-glitch/linkedinto/app/articles"
	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/post"
	"github.com/yab007-glitch/linkedinto/app/tasks"
)

type Handler struct {
	queue          *post.Queue
	scorer         *post.Scorer
	articleRepo    database.ArticleRepository
	automationRepo database.AutomationRepository
	sourceCache    *articles.SourceCache
	scheduler      tasks.TaskSchedulerInterface
}

type updatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type scoreRequest struct {
	Content string `json:"content" binding:"required"`
}

type updateAutomationRequest struct {
	Enabled         *bool               `json:"enabled"`
	ScheduleType    *string             `json:"schedule_type"`
	PostingInterval *int                `json:"posting_interval"`
	CustomSchedule  map[string][]string `json:"custom_schedule"`
	PauseOnWeekends *bool               `json:"pause_on_weekends"`
}

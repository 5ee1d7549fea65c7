package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/post"
	"github.com/yab007-glitch/linkedinto/app/tasks"
)

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	health["loaded_sources"] = h.sourceCache.GetSourceCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.queue.Stats(time.Now().UTC())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := map[string]interface{}{
		"pending":  stats.Pending,
		"approved": stats.Approved,
		"posted":   stats.Posted,
		"failed":   stats.Failed,
		"overdue":  stats.Overdue,
		"upcoming": stats.Upcoming,
	}
	if stats.NextDue != nil {
		response["next_due"] = stats.NextDue.Format(time.RFC3339)
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		response["articles"] = articleCount
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APIListPosts(c *gin.Context) {
	records, err := h.queue.List()
	if err != nil {
		slog.Error("Database error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"posts": records,
		"total": len(records),
	})
}

func (h *Handler) APIUpcomingPosts(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	records, err := h.queue.Upcoming(time.Now().UTC(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "upcoming_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"posts": records,
		"total": len(records),
	})
}

func (h *Handler) APIGetPost(c *gin.Context) {
	record, err := h.queue.Get(c.Param("id"))
	if err != nil {
		slog.Error("Database error", "operation", "get_post", "post", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) APIUpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.queue.UpdateContent(id, req.Content); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or already posted"})
			return
		}
		slog.Error("Database error", "operation", "update_post", "post", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	score := h.scorer.Run(req.Content)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"post":    id,
		"score":   score,
	})
}

func (h *Handler) APIApprovePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.queue.Approve(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or not pending"})
			return
		}
		slog.Error("Database error", "operation", "approve_post", "post", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": id, "status": post.StatusApproved})
}

func (h *Handler) APIRetryPost(c *gin.Context) {
	id := c.Param("id")
	if err := h.queue.Retry(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found or not failed"})
			return
		}
		slog.Error("Database error", "operation", "retry_post", "post", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": id, "status": post.StatusPending})
}

func (h *Handler) APIDeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.queue.Delete(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		slog.Error("Database error", "operation", "delete_post", "post", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "post": id})
}

func (h *Handler) APIListSources(c *gin.Context) {
	sources := h.sourceCache.GetSources()

	list := make([]map[string]interface{}, 0, len(sources))
	for _, source := range sources {
		list = append(list, map[string]interface{}{
			"name":             source.Name,
			"url":              source.URL,
			"category":         source.Category,
			"enabled":          source.Settings.Enabled,
			"max_items":        source.Settings.MaxItems,
			"extract_content":  source.Settings.ExtractContent,
			"refresh_interval": (time.Duration(source.Settings.RefreshInterval) * time.Second).String(),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) APIGetAutomation(c *gin.Context) {
	config, err := h.automationRepo.GetConfig()
	if err != nil {
		slog.Error("Database error", "operation", "get_automation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *Handler) APIUpdateAutomation(c *gin.Context) {
	var req updateAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	config, err := h.automationRepo.GetConfig()
	if err != nil {
		slog.Error("Database error", "operation", "get_automation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if req.Enabled != nil {
		config.Enabled = *req.Enabled
	}
	if req.ScheduleType != nil {
		if *req.ScheduleType != post.ScheduleInterval && *req.ScheduleType != post.ScheduleCustom {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule type", "message": "Must be 'interval' or 'custom'"})
			return
		}
		config.ScheduleType = *req.ScheduleType
	}
	if req.PostingInterval != nil {
		if *req.PostingInterval < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid posting interval", "message": "Must be at least 1 hour"})
			return
		}
		config.PostingInterval = *req.PostingInterval
	}
	if req.CustomSchedule != nil {
		for day, slots := range req.CustomSchedule {
			for _, slot := range slots {
				if _, err := time.Parse("15:04", slot); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{
						"error":   "Invalid schedule slot",
						"message": "Slot '" + slot + "' for '" + day + "' is not in HH:MM format",
					})
					return
				}
			}
		}
		config.CustomSchedule = req.CustomSchedule
	}
	if req.PauseOnWeekends != nil {
		config.PauseOnWeekends = *req.PauseOnWeekends
	}

	if err := h.automationRepo.UpdateConfig(*config); err != nil {
		slog.Error("Database error", "operation", "update_automation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *Handler) APIScoreContent(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.scorer.Run(req.Content))
}

func (h *Handler) APIRunGenerate(c *gin.Context) {
	if err := h.scheduler.EnqueueGeneration(); err != nil {
		if errors.Is(err, tasks.ErrCycleInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "A generation cycle is already running"})
			return
		}
		slog.Error("Error enqueueing generation task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue generation task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Generation cycle enqueued"})
}

func (h *Handler) APIRunPublish(c *gin.Context) {
	if err := h.scheduler.EnqueuePublish(); err != nil {
		if errors.Is(err, tasks.ErrCycleInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "A publish sweep is already running"})
			return
		}
		slog.Error("Error enqueueing publish task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue publish task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Publish sweep enqueued"})
}

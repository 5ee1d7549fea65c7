package api

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yab007-glitch/linkedinto/app/articles"
	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/post"
	"github.com/yab007-glitch/linkedinto/app/tasks"
)

func NewHandler(queue *post.Queue, scorer *post.Scorer, articleRepo database.ArticleRepository,
	automationRepo database.AutomationRepository, sourceCache *articles.SourceCache,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		queue:          queue,
		scorer:         scorer,
		articleRepo:    articleRepo,
		automationRepo: automationRepo,
		sourceCache:    sourceCache,
		scheduler:      scheduler,
	}
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Health and status endpoints
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)

	// API endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.GET("/posts", handler.APIListPosts)
			api.GET("/posts/upcoming", handler.APIUpcomingPosts)
			api.GET("/posts/:id", handler.APIGetPost)
			api.PUT("/posts/:id", handler.APIUpdatePost)
			api.POST("/posts/:id/approve", handler.APIApprovePost)
			api.POST("/posts/:id/retry", handler.APIRetryPost)
			api.DELETE("/posts/:id", handler.APIDeletePost)
			api.GET("/sources", handler.APIListSources)
			api.GET("/automation", handler.APIGetAutomation)
			api.PUT("/automation", handler.APIUpdateAutomation)
			api.POST("/score", handler.APIScoreContent)
			api.POST("/run/generate", handler.APIRunGenerate)
			api.POST("/run/publish", handler.APIRunPublish)
		}
		log.Printf("API endpoints enabled with authentication")
	} else {
		log.Printf("API endpoints disabled (API_ACCESS_KEY not set)")
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"health": "/health",
			"stats":  "/stats",
		}

		// Add API endpoints if authentication is enabled
		if apiAccessKey != "" {
			endpoints["posts"] = "/api/posts (requires X-API-Key header)"
			endpoints["upcoming"] = "/api/posts/upcoming (requires X-API-Key header)"
			endpoints["automation"] = "/api/automation (requires X-API-Key header)"
			endpoints["score"] = "/api/score (POST, requires X-API-Key header)"
			endpoints["generate"] = "/api/run/generate (POST, requires X-API-Key header)"
			endpoints["publish"] = "/api/run/publish (POST, requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "Linkedinto",
			"description": "Automated LinkedIn posting pipeline with quality scoring and scheduling",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// Check if API key is provided and matches
		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		// Continue to next middleware/handler
		c.Next()
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/yab007-glitch/linkedinto/app/api"
	"github.com/yab007-glitch/linkedinto/app/articles"
	"github.com/yab007-glitch/linkedinto/app/cfg"
	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/linkedin"
	"github.com/yab007-glitch/linkedinto/app/llm"
	"github.com/yab007-glitch/linkedinto/app/notify"
	"github.com/yab007-glitch/linkedinto/app/post"
	"github.com/yab007-glitch/linkedinto/app/tasks"
)

func main() {
	// Optional .env file, real environment wins
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Linkedinto server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	sourceCache := articles.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetSourceCount())

	articleRepo := database.NewArticleRepository(db)
	postRepo := database.NewPostRepository(db)
	automationRepo := database.NewAutomationRepository(db)

	queue := post.NewQueue(postRepo)
	scorer := post.NewScorer(appCfg.MinQualityScore)
	clock := post.NewClock(time.Duration(appCfg.SlotDebounceMinutes) * time.Minute)

	generator := llm.NewClient(appCfg.OpenAIEndpoint, appCfg.OpenAIAPIKey, appCfg.OpenAIModel)
	publisher := linkedin.NewClient(appCfg.LinkedInAccessToken, appCfg.LinkedInPersonURN)
	notifier := notify.NewNotifier(appCfg.TelegramBotToken, appCfg.TelegramChatID)
	if notifier.Enabled() {
		slog.Info("Telegram notifications enabled")
	}

	fetcher := articles.NewFetcher()
	extractor := articles.NewExtractor()
	httpClient := &http.Client{Timeout: 60 * time.Second}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(sourceCache, articleRepo, automationRepo, queue, clock, scorer,
		generator, publisher, notifier, fetcher, extractor, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(queue, scorer, articleRepo, automationRepo, sourceCache, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}

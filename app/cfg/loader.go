package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/linkedinto.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing article source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for task processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	PublishInterval   int    `long:"publish-interval" env:"PUBLISH_INTERVAL" default:"60" description:"Minimum interval between publish sweeps in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Content generation
	OpenAIEndpoint string `long:"openai-endpoint" env:"OPENAI_ENDPOINT" default:"https://api.openai.com/v1" description:"OpenAI-compatible API base URL"`
	OpenAIAPIKey   string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key"`
	OpenAIModel    string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Model used for post generation"`

	// Publishing
	LinkedInAccessToken string `long:"linkedin-access-token" env:"LINKEDIN_ACCESS_TOKEN" description:"LinkedIn OAuth access token"`
	LinkedInPersonURN   string `long:"linkedin-person-urn" env:"LINKEDIN_PERSON_URN" description:"LinkedIn person URN identifier (without the urn:li:person: prefix)"`

	// Notifications
	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token for notifications (optional)"`
	TelegramChatID   string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat id for notifications (optional)"`

	// Quality and scheduling thresholds
	MinQualityScore     int `long:"min-quality-score" env:"MIN_QUALITY_SCORE" default:"70" description:"Minimum quality score before a regeneration is attempted"`
	AutoApproveScore    int `long:"auto-approve-score" env:"AUTO_APPROVE_SCORE" default:"80" description:"Quality score at which queued posts are approved automatically"`
	SlotDebounceMinutes int `long:"slot-debounce-minutes" env:"SLOT_DEBOUNCE_MINUTES" default:"50" description:"Minutes within which a custom schedule slot counts as already used"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Linkedinto/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:              raw.DBPath,
		SourcesDir:          raw.SourcesDir,
		Port:                raw.Port,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   raw.SchedulerInterval,
		PublishInterval:     raw.PublishInterval,
		APIAccessKey:        raw.APIAccessKey,
		OpenAIEndpoint:      raw.OpenAIEndpoint,
		OpenAIAPIKey:        raw.OpenAIAPIKey,
		OpenAIModel:         raw.OpenAIModel,
		LinkedInAccessToken: raw.LinkedInAccessToken,
		LinkedInPersonURN:   raw.LinkedInPersonURN,
		TelegramBotToken:    raw.TelegramBotToken,
		TelegramChatID:      raw.TelegramChatID,
		MinQualityScore:     raw.MinQualityScore,
		AutoApproveScore:    raw.AutoApproveScore,
		SlotDebounceMinutes: raw.SlotDebounceMinutes,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}

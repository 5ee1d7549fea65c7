package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	PublishInterval   int
	APIAccessKey      string

	// Content generation
	OpenAIEndpoint string
	OpenAIAPIKey   string
	OpenAIModel    string

	// Publishing
	LinkedInAccessToken string
	LinkedInPersonURN   string

	// Notifications
	TelegramBotToken string
	TelegramChatID   string

	// Quality and scheduling thresholds
	MinQualityScore     int
	AutoApproveScore    int
	SlotDebounceMinutes int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

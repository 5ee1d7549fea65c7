package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:              "./data/test.db",
		SourcesDir:          "./sources",
		Port:                "8080",
		WorkerCount:         5,
		SchedulerInterval:   30,
		PublishInterval:     60,
		APIAccessKey:        "test-key",
		OpenAIEndpoint:      "https://api.openai.com/v1",
		OpenAIModel:         "gpt-4o-mini",
		MinQualityScore:     70,
		AutoApproveScore:    80,
		SlotDebounceMinutes: 50,
		UserAgent:           "Test Agent",
		Timezone:            "UTC",
		Debug:               true,
		Version:             "test-version",
	}

	if cfg.DBPath != "./data/test.db" {
		t.Errorf("Expected DB path './data/test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 30 {
		t.Errorf("Expected scheduler interval 30, got %d", cfg.SchedulerInterval)
	}
	if cfg.PublishInterval != 60 {
		t.Errorf("Expected publish interval 60, got %d", cfg.PublishInterval)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.MinQualityScore != 70 {
		t.Errorf("Expected min quality score 70, got %d", cfg.MinQualityScore)
	}
	if cfg.AutoApproveScore != 80 {
		t.Errorf("Expected auto approve score 80, got %d", cfg.AutoApproveScore)
	}
	if cfg.SlotDebounceMinutes != 50 {
		t.Errorf("Expected slot debounce 50, got %d", cfg.SlotDebounceMinutes)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

var _ AutomationRepository = (*AutomationRepositoryImpl)(nil)

// AutomationRepositoryImpl handles the singleton automation config row
type AutomationRepositoryImpl struct {
	db *DB
}

func NewAutomationRepository(db *DB) *AutomationRepositoryImpl {
	return &AutomationRepositoryImpl{db: db}
}

// GetConfig reads the automation config, creating the row with defaults on
// first access. The row is never deleted.
func (r *AutomationRepositoryImpl) GetConfig() (*AutomationConfig, error) {
	config, err := r.readConfig()
	if err != nil {
		return nil, err
	}
	if config != nil {
		return config, nil
	}

	defaults := AutomationConfig{
		Enabled:         false,
		ScheduleType:    "interval",
		PostingInterval: 6,
		CustomSchedule:  map[string][]string{},
		UpdatedAt:       time.Now().UTC(),
	}

	if err := r.insertConfig(defaults); err != nil {
		return nil, err
	}

	return &defaults, nil
}

func (r *AutomationRepositoryImpl) UpdateConfig(config AutomationConfig) error {
	schedule, err := marshalSchedule(config.CustomSchedule)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		UPDATE automation_config
		SET enabled = ?, schedule_type = ?, posting_interval = ?,
		    custom_schedule = ?, pause_on_weekends = ?, updated_at = ?
		WHERE id = 1
	`, config.Enabled, config.ScheduleType, config.PostingInterval,
		schedule, config.PauseOnWeekends, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to update automation config: %w", err)
	}

	return nil
}

// UpdateRunTimes records generation cycle bookkeeping after a cycle completes
func (r *AutomationRepositoryImpl) UpdateRunTimes(lastRun time.Time, nextRun time.Time) error {
	_, err := r.db.Exec(`
		UPDATE automation_config
		SET last_run = ?, next_run = ?, updated_at = ?
		WHERE id = 1
	`, lastRun.UTC(), nextRun.UTC(), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to update run times: %w", err)
	}

	return nil
}

func (r *AutomationRepositoryImpl) readConfig() (*AutomationConfig, error) {
	var config AutomationConfig
	var schedule string

	err := r.db.QueryRow(`
		SELECT enabled, schedule_type, posting_interval, custom_schedule,
		       pause_on_weekends, last_run, next_run, updated_at
		FROM automation_config
		WHERE id = 1
	`).Scan(
		&config.Enabled, &config.ScheduleType, &config.PostingInterval, &schedule,
		&config.PauseOnWeekends, &config.LastRun, &config.NextRun, &config.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read automation config: %w", err)
	}

	config.CustomSchedule = map[string][]string{}
	if schedule != "" {
		if err := json.Unmarshal([]byte(schedule), &config.CustomSchedule); err != nil {
			// A malformed schedule degrades to interval behavior downstream
			config.CustomSchedule = map[string][]string{}
		}
	}

	return &config, nil
}

func (r *AutomationRepositoryImpl) insertConfig(config AutomationConfig) error {
	schedule, err := marshalSchedule(config.CustomSchedule)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO automation_config (id, enabled, schedule_type, posting_interval,
			custom_schedule, pause_on_weekends, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, config.Enabled, config.ScheduleType, config.PostingInterval,
		schedule, config.PauseOnWeekends, config.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert automation config: %w", err)
	}

	return nil
}

func marshalSchedule(schedule map[string][]string) (string, error) {
	if schedule == nil {
		schedule = map[string][]string{}
	}

	data, err := json.Marshal(schedule)
	if err != nil {
		return "", fmt.Errorf("failed to marshal custom schedule: %w", err)
	}

	return string(data), nil
}

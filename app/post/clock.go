package post

import (
	"strings"
	"time"

	"github.com/yab007-glitch/linkedinto/app/database"
)

const (
	// DefaultSlotDebounce treats a custom slot as already consumed when the
	// last run landed within this window of it
	DefaultSlotDebounce = 50 * time.Minute

	// fallbackInterval applies when a custom schedule yields no usable slot.
	// The clock must never leave the system without a next time.
	fallbackInterval = 6 * time.Hour

	scheduleScanDays = 7
)

// Clock computes generation eligibility and the next posting time from the
// automation config. It holds no state beyond its tuning and performs no I/O.
type Clock struct {
	slotDebounce time.Duration
}

func NewClock(slotDebounce time.Duration) *Clock {
	if slotDebounce <= 0 {
		slotDebounce = DefaultSlotDebounce
	}
	return &Clock{slotDebounce: slotDebounce}
}

// Due reports whether a generation cycle should run now. The enabled flag is
// the only gate in interval mode; the NextRun bookkeeping spaces out cycles.
func (c *Clock) Due(now time.Time, config database.AutomationConfig) bool {
	if !config.Enabled {
		return false
	}
	return config.NextRun == nil || !config.NextRun.After(now)
}

// NextPostTime returns the earliest future posting time allowed by the
// schedule. A missing or unparseable custom schedule degrades to the
// interval fallback rather than failing.
func (c *Clock) NextPostTime(now time.Time, config database.AutomationConfig) time.Time {
	if config.ScheduleType == ScheduleCustom {
		return c.nextCustomSlot(now, config)
	}

	hours := config.PostingInterval
	if hours <= 0 {
		hours = int(fallbackInterval / time.Hour)
	}

	return now.Add(time.Duration(hours) * time.Hour)
}

// nextCustomSlot scans forward day by day, bounded to a week so it always
// terminates, and picks the earliest slot that has not passed yet
func (c *Clock) nextCustomSlot(now time.Time, config database.AutomationConfig) time.Time {
	for day := 0; day <= scheduleScanDays; day++ {
		date := now.AddDate(0, 0, day)

		if config.PauseOnWeekends && isWeekend(date) {
			continue
		}

		weekday := strings.ToLower(date.Weekday().String())
		for _, slot := range config.CustomSchedule[weekday] {
			parsed, err := time.Parse("15:04", strings.TrimSpace(slot))
			if err != nil {
				continue
			}

			candidate := time.Date(date.Year(), date.Month(), date.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, now.Location())

			if !candidate.After(now) {
				continue
			}
			if c.slotConsumed(candidate, config.LastRun) {
				continue
			}

			return candidate
		}
	}

	return now.Add(fallbackInterval)
}

// slotConsumed guards against double-posting into the same slot when the
// trigger fires close to a slot that was just served
func (c *Clock) slotConsumed(slot time.Time, lastRun *time.Time) bool {
	if lastRun == nil {
		return false
	}

	diff := slot.Sub(*lastRun)
	if diff < 0 {
		diff = -diff
	}

	return diff < c.slotDebounce
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

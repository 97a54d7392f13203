package settingsstore

import (
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/manuscript/internal/entities"
)

const (
	envAutoSnapshotEnabled  = "AUTO_SNAPSHOT_ENABLED"
	envAutoSnapshotSchedule = "AUTO_SNAPSHOT_SCHEDULE"

	DefaultAutoSnapshotSchedule = "0 3 * * *"
)

// AutoSnapshotConfig represents the effective configuration for scheduled snapshots
type AutoSnapshotConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
}

// AutoSnapshotConfigInfo includes source information for each field
type AutoSnapshotConfigInfo struct {
	Enabled       bool   `json:"enabled"`
	EnabledSource string `json:"enabled_source"`

	Schedule            string     `json:"schedule"`
	ScheduleSource      string     `json:"schedule_source"`
	ScheduleDescription string     `json:"schedule_description"`
	NextRunAt           *time.Time `json:"next_run_at,omitempty"`
}

// AutoSnapshotStatus represents the outcome of the last scheduled run
type AutoSnapshotStatus struct {
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Status    string     `json:"status,omitempty"` // "success", "failed", ""
	Message   string     `json:"message,omitempty"`
}

func (s *SettingsStore) GetAutoSnapshotEnabled() bool {
	raw, _ := s.resolve(entities.SettingKeyAutoSnapshotEnabled, envAutoSnapshotEnabled, "false")
	return parseBool(raw)
}

func (s *SettingsStore) GetAutoSnapshotEnabledSource() string {
	_, source := s.resolve(entities.SettingKeyAutoSnapshotEnabled, envAutoSnapshotEnabled, "")
	return source
}

func (s *SettingsStore) SetAutoSnapshotEnabled(enabled bool) error {
	return s.repo.SetSetting(entities.SettingKeyAutoSnapshotEnabled, strconv.FormatBool(enabled))
}

// GetAutoSnapshotSchedule returns the cron schedule. An invalid stored value
// falls back to the default so the scheduler never starts with garbage.
func (s *SettingsStore) GetAutoSnapshotSchedule() string {
	raw, _ := s.resolve(entities.SettingKeyAutoSnapshotSchedule, envAutoSnapshotSchedule, DefaultAutoSnapshotSchedule)
	if ValidateCronSchedule(raw) != nil {
		return DefaultAutoSnapshotSchedule
	}
	return raw
}

func (s *SettingsStore) GetAutoSnapshotScheduleSource() string {
	_, source := s.resolve(entities.SettingKeyAutoSnapshotSchedule, envAutoSnapshotSchedule, "")
	return source
}

func (s *SettingsStore) SetAutoSnapshotSchedule(schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return entities.NewValidationError(entities.SettingKeyAutoSnapshotSchedule, "invalid cron schedule: "+err.Error())
	}
	return s.repo.SetSetting(entities.SettingKeyAutoSnapshotSchedule, schedule)
}

func (s *SettingsStore) GetAutoSnapshotConfig() AutoSnapshotConfig {
	return AutoSnapshotConfig{
		Enabled:  s.GetAutoSnapshotEnabled(),
		Schedule: s.GetAutoSnapshotSchedule(),
	}
}

func (s *SettingsStore) GetAutoSnapshotConfigInfo() AutoSnapshotConfigInfo {
	schedule := s.GetAutoSnapshotSchedule()
	info := AutoSnapshotConfigInfo{
		Enabled:             s.GetAutoSnapshotEnabled(),
		EnabledSource:       s.GetAutoSnapshotEnabledSource(),
		Schedule:            schedule,
		ScheduleSource:      s.GetAutoSnapshotScheduleSource(),
		ScheduleDescription: GetCronDescription(schedule),
	}
	if info.Enabled {
		info.NextRunAt, _ = GetNextRunTime(schedule)
	}
	return info
}

func (s *SettingsStore) GetAutoSnapshotStatus() AutoSnapshotStatus {
	status := AutoSnapshotStatus{}

	if setting, err := s.repo.GetSetting(entities.SettingKeyAutoSnapshotLastAt); err == nil && setting.Value != "" {
		if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastRunAt = &t
		}
	}
	if setting, err := s.repo.GetSetting(entities.SettingKeyAutoSnapshotLastStatus); err == nil {
		status.Status = setting.Value
	}
	if setting, err := s.repo.GetSetting(entities.SettingKeyAutoSnapshotLastMessage); err == nil {
		status.Message = setting.Value
	}
	return status
}

// SetAutoSnapshotStatus records the outcome of a scheduled run.
func (s *SettingsStore) SetAutoSnapshotStatus(status, message string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.repo.SetSetting(entities.SettingKeyAutoSnapshotLastAt, now); err != nil {
		return err
	}
	if err := s.repo.SetSetting(entities.SettingKeyAutoSnapshotLastStatus, status); err != nil {
		return err
	}
	return s.repo.SetSetting(entities.SettingKeyAutoSnapshotLastMessage, message)
}

// ClearAutoSnapshotSettings removes database overrides, reverting to env/default
func (s *SettingsStore) ClearAutoSnapshotSettings() error {
	return s.clear(
		entities.SettingKeyAutoSnapshotEnabled,
		entities.SettingKeyAutoSnapshotSchedule,
	)
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule validates a five-field cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// GetCronDescription returns a human-readable description of a cron schedule
func GetCronDescription(schedule string) string {
	switch schedule {
	case "0 * * * *":
		return "Every hour at :00"
	case "0 */6 * * *":
		return "Every 6 hours"
	case "0 0 * * *":
		return "Daily at midnight"
	case "0 3 * * *":
		return "Daily at 03:00"
	case "0 0 * * 0":
		return "Weekly on Sunday at midnight"
	default:
		return "Custom schedule: " + schedule
	}
}

// GetNextRunTime calculates when the schedule fires next
func GetNextRunTime(schedule string) (*time.Time, error) {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return nil, err
	}
	next := sched.Next(time.Now())
	return &next, nil
}

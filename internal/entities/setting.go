package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingKeyDailyWordGoal    = "daily_word_goal"
	SettingKeyAutoSaveInterval = "auto_save_interval"
	SettingKeyTheme            = "theme"
	SettingKeyFontSize         = "font_size"
	SettingKeyPomodoroDuration = "pomodoro_duration"

	// Scheduled snapshots
	SettingKeyAutoSnapshotEnabled     = "auto_snapshot_enabled"
	SettingKeyAutoSnapshotSchedule    = "auto_snapshot_schedule"
	SettingKeyAutoSnapshotLastAt      = "auto_snapshot_last_at"
	SettingKeyAutoSnapshotLastStatus  = "auto_snapshot_last_status"
	SettingKeyAutoSnapshotLastMessage = "auto_snapshot_last_message"

	SettingKeyExportRetentionDays = "export_retention_days"
)

// DefaultSettings are seeded on first start and never overwrite user values.
// Scheduler and retention keys are not seeded; they resolve through
// database, then environment, then built-in default.
var DefaultSettings = map[string]string{
	SettingKeyDailyWordGoal:    "1000",
	SettingKeyAutoSaveInterval: "30",
	SettingKeyTheme:            "light",
	SettingKeyFontSize:         "16",
	SettingKeyPomodoroDuration: "25",
}

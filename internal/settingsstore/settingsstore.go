package settingsstore

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/mrlokans/manuscript/internal/entities"
)

// Where an effective value came from.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

type Repository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Priority: database > environment > default
type SettingsStore struct {
	repo Repository
}

func New(repo Repository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// resolve returns the effective raw value of key and its source.
func (s *SettingsStore) resolve(key, envKey, fallback string) (string, string) {
	setting, err := s.repo.GetSetting(key)
	if err == nil && setting.Value != "" {
		return setting.Value, SourceDatabase
	}
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal, SourceEnvironment
	}
	return fallback, SourceDefault
}

func parseBool(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	return raw == "true" || raw == "1"
}

// clear removes database overrides, ignoring keys that are already absent.
func (s *SettingsStore) clear(keys ...string) error {
	for _, key := range keys {
		if err := s.repo.DeleteSetting(key); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return err
		}
	}
	return nil
}

const (
	envExportRetentionDays     = "EXPORT_RETENTION_DAYS"
	defaultExportRetentionDays = 14
)

// GetExportRetentionDays returns how long exported artifacts are kept.
// Zero disables cleanup.
func (s *SettingsStore) GetExportRetentionDays() int {
	raw, _ := s.resolve(entities.SettingKeyExportRetentionDays, envExportRetentionDays, strconv.Itoa(defaultExportRetentionDays))
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days < 0 {
		return defaultExportRetentionDays
	}
	return days
}

func (s *SettingsStore) GetExportRetentionDaysSource() string {
	_, source := s.resolve(entities.SettingKeyExportRetentionDays, envExportRetentionDays, "")
	return source
}

func (s *SettingsStore) SetExportRetentionDays(days int) error {
	return s.repo.SetSetting(entities.SettingKeyExportRetentionDays, strconv.Itoa(days))
}

// GetDailyWordGoal reads the seeded goal, falling back to its default when
// the stored value is unusable.
func (s *SettingsStore) GetDailyWordGoal() int {
	fallback := entities.DefaultSettings[entities.SettingKeyDailyWordGoal]
	raw, _ := s.resolve(entities.SettingKeyDailyWordGoal, "DAILY_WORD_GOAL", fallback)
	goal, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || goal < 0 {
		goal, _ = strconv.Atoi(fallback)
	}
	return goal
}

package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/settingsstore"
)

// Status keys are written by the scheduler only.
var readOnlySettings = map[string]struct{}{
	entities.SettingKeyAutoSnapshotLastAt:      {},
	entities.SettingKeyAutoSnapshotLastStatus:  {},
	entities.SettingKeyAutoSnapshotLastMessage: {},
}

var settingRules = map[string][]validation.Rule{
	entities.SettingKeyDailyWordGoal:        {validation.By(nonNegativeInt)},
	entities.SettingKeyAutoSaveInterval:     {validation.By(nonNegativeInt)},
	entities.SettingKeyFontSize:             {validation.By(positiveInt)},
	entities.SettingKeyPomodoroDuration:     {validation.By(positiveInt)},
	entities.SettingKeyExportRetentionDays:  {validation.By(nonNegativeInt)},
	entities.SettingKeyTheme:                {validation.Required, validation.Length(1, 32)},
	entities.SettingKeyAutoSnapshotEnabled:  {validation.In("true", "false", "1", "0").Error("must be true or false")},
	entities.SettingKeyAutoSnapshotSchedule: {validation.Required, validation.By(cronSchedule)},
}

// SettingsService exposes the key/value settings with validation of the
// known keys. Unknown keys are stored as given.
type SettingsService struct {
	repo     SettingsRepository
	store    *settingsstore.SettingsStore
	log      *logging.Logger
	onChange []func(keys []string)
}

func NewSettingsService(repo SettingsRepository, store *settingsstore.SettingsStore, log *logging.Logger) *SettingsService {
	return &SettingsService{repo: repo, store: store, log: log}
}

// OnChange registers a callback invoked with the keys of each successful upsert.
func (s *SettingsService) OnChange(fn func(keys []string)) {
	s.onChange = append(s.onChange, fn)
}

// All returns every stored setting merged with the effective values of
// settings that resolve through environment and defaults.
func (s *SettingsService) All() (map[string]string, error) {
	out, err := s.repo.GetAllSettings()
	if err != nil {
		return nil, err
	}
	cfg := s.store.GetAutoSnapshotConfig()
	out[entities.SettingKeyAutoSnapshotEnabled] = strconv.FormatBool(cfg.Enabled)
	out[entities.SettingKeyAutoSnapshotSchedule] = cfg.Schedule
	out[entities.SettingKeyExportRetentionDays] = strconv.Itoa(s.store.GetExportRetentionDays())
	return out, nil
}

// Upsert validates and stores all values in one transaction. Values may be
// strings, numbers or booleans as decoded from JSON.
func (s *SettingsService) Upsert(values map[string]any) (map[string]string, error) {
	if len(values) == 0 {
		return nil, entities.NewValidationError("", "no settings to update")
	}

	normalized := make(map[string]string, len(values))
	errs := validation.Errors{}
	for key, raw := range values {
		key = strings.TrimSpace(key)
		if key == "" || len(key) > 100 {
			errs[key] = fmt.Errorf("invalid setting key")
			continue
		}
		if _, ro := readOnlySettings[key]; ro {
			errs[key] = fmt.Errorf("setting is read-only")
			continue
		}
		value, err := settingString(raw)
		if err != nil {
			errs[key] = err
			continue
		}
		if rules, known := settingRules[key]; known {
			if err := validation.Validate(value, rules...); err != nil {
				errs[key] = err
				continue
			}
		}
		normalized[key] = value
	}
	if len(errs) > 0 {
		return nil, asValidationError(errs)
	}

	if err := s.repo.SetSettings(normalized); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(normalized))
	for key := range normalized {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	s.log.Debug("Settings updated", "keys", keys)
	for _, fn := range s.onChange {
		fn(keys)
	}
	return s.All()
}

func (s *SettingsService) AutoSnapshotInfo() settingsstore.AutoSnapshotConfigInfo {
	return s.store.GetAutoSnapshotConfigInfo()
}

func (s *SettingsService) AutoSnapshotStatus() settingsstore.AutoSnapshotStatus {
	return s.store.GetAutoSnapshotStatus()
}

func settingString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("must be a string, number or boolean")
	}
}

func nonNegativeInt(value interface{}) error {
	n, err := strconv.Atoi(value.(string))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func positiveInt(value interface{}) error {
	n, err := strconv.Atoi(value.(string))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func cronSchedule(value interface{}) error {
	if err := settingsstore.ValidateCronSchedule(value.(string)); err != nil {
		return fmt.Errorf("invalid cron schedule")
	}
	return nil
}

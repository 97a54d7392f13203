package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
	"github.com/mrlokans/manuscript/internal/settingsstore"
)

// VersionCapturer captures a version of a variant.
type VersionCapturer interface {
	Capture(in services.CaptureInput) (*entities.Version, error)
}

// ChapterLister reports the chapters of a variant.
type ChapterLister interface {
	List(variant entities.BookVariant) ([]entities.Chapter, error)
}

// AutoSnapshotScheduler captures a version of every non-empty variant on a
// cron schedule. It never touches chapter ordering.
type AutoSnapshotScheduler struct {
	snapshots     VersionCapturer
	chapters      ChapterLister
	settingsStore *settingsstore.SettingsStore
	log           *logging.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	runMu      sync.Mutex
}

func NewAutoSnapshotScheduler(snapshots VersionCapturer, chapters ChapterLister, settingsStore *settingsstore.SettingsStore, log *logging.Logger) *AutoSnapshotScheduler {
	return &AutoSnapshotScheduler{
		snapshots:     snapshots,
		chapters:      chapters,
		settingsStore: settingsStore,
		log:           log.With("component", "auto_snapshot"),
		cron:          newCron(log),
	}
}

func newCron(log *logging.Logger) *cron.Cron {
	return cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)),
		cron.WithLogger(cron.PrintfLogger(log)),
	)
}

// Start begins the scheduler if auto snapshots are enabled
func (s *AutoSnapshotScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	config := s.settingsStore.GetAutoSnapshotConfig()
	if !config.Enabled {
		s.log.Info("Auto snapshot scheduler disabled")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	s.cron = newCron(s.log)
	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(config.Schedule)
	s.log.Info("Auto snapshot scheduler started",
		"schedule", config.Schedule,
		"description", settingsstore.GetCronDescription(config.Schedule),
		"next_run", nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler
func (s *AutoSnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info("Auto snapshot scheduler stopped")
}

// Reschedule applies changed settings
func (s *AutoSnapshotScheduler) Reschedule() error {
	s.Stop()
	return s.Start(context.Background())
}

// OnSettingsChanged reschedules when one of the auto snapshot keys changed.
func (s *AutoSnapshotScheduler) OnSettingsChanged(keys []string) {
	for _, key := range keys {
		if key == entities.SettingKeyAutoSnapshotEnabled || key == entities.SettingKeyAutoSnapshotSchedule {
			if err := s.Reschedule(); err != nil {
				s.log.Error("Failed to reschedule auto snapshots", "error", err)
			}
			return
		}
	}
}

func (s *AutoSnapshotScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next snapshot will be taken
func (s *AutoSnapshotScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunOnce captures every non-empty variant and records the outcome. Runs
// never overlap.
func (s *AutoSnapshotScheduler) RunOnce() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	name := "Auto snapshot " + start.Format("2006-01-02 15:04")

	var captured, skipped []string
	var failures []string
	for _, variant := range entities.BookVariants {
		list, err := s.chapters.List(variant)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", variant, err))
			continue
		}
		if len(list) == 0 {
			skipped = append(skipped, string(variant))
			continue
		}
		version, err := s.snapshots.Capture(services.CaptureInput{
			BookVariant: variant,
			VersionName: name,
			Description: "Captured by the scheduler",
		})
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", variant, err))
			continue
		}
		captured = append(captured, fmt.Sprintf("%s (%d chapters)", variant, version.ChapterCount))
	}

	if len(failures) > 0 {
		msg := "Snapshot failed for " + strings.Join(failures, "; ")
		s.log.Error("Auto snapshot failed", "failures", failures)
		_ = s.settingsStore.SetAutoSnapshotStatus("failed", msg)
		return
	}

	msg := "No chapters to snapshot"
	if len(captured) > 0 {
		msg = fmt.Sprintf("Captured %s in %v", strings.Join(captured, ", "), time.Since(start).Round(time.Millisecond))
	}
	s.log.Info("Auto snapshot finished", "captured", captured, "skipped", skipped)
	_ = s.settingsStore.SetAutoSnapshotStatus("success", msg)
}

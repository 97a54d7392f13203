package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/tasks"
)

// DefaultExportCleanupSchedule runs the cleanup once an hour.
const DefaultExportCleanupSchedule = "15 * * * *"

// ExportCleanupScheduler periodically enqueues a CleanupExportsTask. The
// task queue has no recurring jobs of its own.
type ExportCleanupScheduler struct {
	enqueue  func() (string, error)
	schedule string
	log      *logging.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewExportCleanupScheduler(client *tasks.Client, schedule string, log *logging.Logger) *ExportCleanupScheduler {
	return newExportCleanupScheduler(func() (string, error) {
		return client.Enqueue(tasks.CleanupExportsTask{})
	}, schedule, log)
}

func newExportCleanupScheduler(enqueue func() (string, error), schedule string, log *logging.Logger) *ExportCleanupScheduler {
	if schedule == "" {
		schedule = DefaultExportCleanupSchedule
	}
	return &ExportCleanupScheduler{
		enqueue:  enqueue,
		schedule: schedule,
		log:      log.With("component", "export_cleanup"),
		cron:     newCron(log),
	}
}

func (s *ExportCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.trigger); err != nil {
		return fmt.Errorf("failed to schedule export cleanup: %w", err)
	}
	s.cron.Start()
	s.isRunning = true
	s.log.Info("Export cleanup scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *ExportCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("Export cleanup scheduler stopped")
}

func (s *ExportCleanupScheduler) trigger() {
	id, err := s.enqueue()
	if err != nil {
		s.log.Error("Failed to enqueue export cleanup", "error", err)
		return
	}
	s.log.Debug("Export cleanup enqueued", "task_id", id)
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/internal/ingest"
)

// IngestSyncConfig holds the scheduling knobs of the ingest sweep.
type IngestSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// IngestSyncService runs the ingest organizer on a cron schedule and on
// demand. Only one sweep runs at a time; overlapping triggers are ignored.
type IngestSyncService struct {
	scheduler           *gocron.Scheduler
	config              IngestSyncConfig
	organizer           *ingest.Organizer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastStats           ingest.Stats
}

func NewIngestSyncService(organizer *ingest.Organizer, appConfig *config.Config) *IngestSyncService {
	syncConfig := IngestSyncConfig{
		CronSchedule: appConfig.Ingest.CronSchedule,
		SyncEnabled:  appConfig.Ingest.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Ingest sweep scheduler configuration loaded")

	return &IngestSyncService{
		scheduler: scheduler,
		config:    syncConfig,
		organizer: organizer,
	}
}

// Start schedules the sweep and runs the scheduler until the context is
// canceled.
func (s *IngestSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Ingest sweep disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Starting ingest sweep scheduler")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule the ingest sweep: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Stopping ingest sweep scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *IngestSyncService) runSweep(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ingest sweep already in progress, skipping")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Starting ingest sweep")

	stats, err := s.organizer.Run(ctx)
	if err != nil {
		logrus.WithError(err).Error("Ingest sweep failed")
		return
	}

	s.lastStats = stats
	s.lastSyncCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"duration":          time.Since(startTime).String(),
		"primary_sales":     stats.PrimarySales,
		"advertising_spend": stats.AdvertisingSpend,
		"warehouse_storage": stats.WarehouseStorage,
		"unrecognized":      stats.Unrecognized,
	}).Info("Ingest sweep completed")
}

// TriggerManualSync starts a sweep outside the schedule. The call returns
// immediately; a sweep already in progress makes it a no-op.
func (s *IngestSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ingest sweep already in progress, ignoring manual trigger")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Starting manual ingest sweep")
	go s.runSweep(context.Background())
}

// GetStatus reports the scheduler state for the status endpoint.
func (s *IngestSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sweep_stats":       s.lastStats,
	}
}

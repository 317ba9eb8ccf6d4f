// Package scheduler runs the dataset refresh on a cron schedule or on demand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
)

const (
	// JobRefresh reloads the served dataset from the store and retrains the base model.
	JobRefresh = "refresh"
	// JobPipeline reruns every batch stage and then refreshes.
	JobPipeline = "pipeline"
)

var (
	ErrSyncRunning         = errors.New("scheduler: a sync is already running")
	ErrUnknownJob          = errors.New("scheduler: unknown job type")
	ErrPipelineUnavailable = errors.New("scheduler: pipeline job is not configured")
)

// Reloader swaps the dataset served by the API.
type Reloader interface {
	Reload(transactions []domain.Transaction)
}

type PipelineRunner interface {
	RunAll(ctx context.Context) (*pipeline.Report, error)
}

type RefreshSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

type RefreshSyncService struct {
	scheduler  *gocron.Scheduler
	store      repository.SalesStore
	analyzer   Reloader
	forecaster forecasting.Forecaster
	runner     PipelineRunner
	config     RefreshSyncConfig

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncType        string
	lastSyncError       string
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewRefreshSyncService(
	store repository.SalesStore,
	analyzer Reloader,
	forecaster forecasting.Forecaster,
	cfg *config.Config,
) *RefreshSyncService {
	refreshConfig := RefreshSyncConfig{
		CronSchedule: cfg.RefreshSync.CronSchedule,
		SyncEnabled:  cfg.RefreshSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": refreshConfig.CronSchedule,
		"enabled":       refreshConfig.SyncEnabled,
	}).Info("refresh scheduler configured")

	return &RefreshSyncService{
		scheduler:  gocron.NewScheduler(time.Local),
		store:      store,
		analyzer:   analyzer,
		forecaster: forecaster,
		config:     refreshConfig,
	}
}

// WithPipeline enables the pipeline job.
func (s *RefreshSyncService) WithPipeline(runner PipelineRunner) *RefreshSyncService {
	s.runner = runner
	return s
}

func (s *RefreshSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("refresh cron disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("starting refresh cron")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.Refresh(ctx); err != nil {
			logrus.WithError(err).Error("scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping refresh cron")
		s.scheduler.Stop()
	}()

	return nil
}

// Refresh loads the stored transactions into the analyzer and retrains the
// forecaster. It fails with ErrSyncRunning when another sync is in progress.
func (s *RefreshSyncService) Refresh(ctx context.Context) error {
	if err := s.begin(JobRefresh); err != nil {
		return err
	}

	err := s.refresh(ctx)
	s.finish(err)
	return err
}

// Regenerate reruns the batch pipeline and then refreshes the served data.
func (s *RefreshSyncService) Regenerate(ctx context.Context) error {
	if s.runner == nil {
		return ErrPipelineUnavailable
	}
	if err := s.begin(JobPipeline); err != nil {
		return err
	}

	err := s.regenerate(ctx)
	s.finish(err)
	return err
}

func (s *RefreshSyncService) refresh(ctx context.Context) error {
	logrus.Info("refreshing dataset")

	transactions, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	s.analyzer.Reload(transactions)

	if err := s.forecaster.Load(transactions); err != nil {
		return fmt.Errorf("training base model: %w", err)
	}

	logrus.WithField("transactions", len(transactions)).Info("dataset refreshed")
	return nil
}

func (s *RefreshSyncService) regenerate(ctx context.Context) error {
	report, err := s.runner.RunAll(ctx)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"transactions": report.Generation.Transactions,
		"insights":     len(report.Insights),
	}).Info("pipeline finished")

	return s.refresh(ctx)
}

func (s *RefreshSyncService) begin(jobType string) error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.WithField("requested", jobType).Warn("sync already running")
		return ErrSyncRunning
	}

	s.syncRunning = true
	s.lastSyncType = jobType
	s.lastSyncStartedAt = time.Now()
	return nil
}

func (s *RefreshSyncService) finish(err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
}

// TriggerManualSync starts jobType in the background. The running guard is
// taken before returning so a second trigger fails immediately.
func (s *RefreshSyncService) TriggerManualSync(jobType string) error {
	var work func(ctx context.Context) error

	switch jobType {
	case JobRefresh:
		work = s.refresh
	case JobPipeline:
		if s.runner == nil {
			return ErrPipelineUnavailable
		}
		work = s.regenerate
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, jobType)
	}

	if err := s.begin(jobType); err != nil {
		return err
	}

	logrus.WithField("type", jobType).Info("starting manual sync")

	go func() {
		err := work(context.Background())
		if err != nil {
			logrus.WithError(err).WithField("type", jobType).Error("manual sync failed")
		}
		s.finish(err)
	}()

	return nil
}

func (s *RefreshSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"pipeline_enabled":       s.runner != nil,
		"last_sync_type":         s.lastSyncType,
		"last_sync_error":        s.lastSyncError,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository/mocks"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/analyzing"
	forecastmocks "github.com/vfg2006/bizpredict-api/internal/usecases/forecasting/mocks"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
	"go.uber.org/mock/gomock"
)

type fakeRunner struct {
	report *pipeline.Report
	err    error
	calls  int
}

func (f *fakeRunner) RunAll(context.Context) (*pipeline.Report, error) {
	f.calls++
	return f.report, f.err
}

func transactions() []domain.Transaction {
	return []domain.Transaction{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductCategory: "Coffee", TotalSales: 10},
	}
}

func newTestService(t *testing.T, cfg config.RefreshSync) (*RefreshSyncService, *mocks.MockSalesStore, *forecastmocks.MockForecaster, *analyzing.Service) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSalesStore(ctrl)
	forecaster := forecastmocks.NewMockForecaster(ctrl)
	analyzer := analyzing.NewService()

	service := NewRefreshSyncService(store, analyzer, forecaster, &config.Config{RefreshSync: cfg})
	return service, store, forecaster, analyzer
}

func TestRefreshSyncService_Refresh(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("model failed")

	tests := []struct {
		name       string
		setup      func(store *mocks.MockSalesStore, forecaster *forecastmocks.MockForecaster)
		wantErr    error
		wantLoaded bool
	}{
		{
			name: "reloads analyzer and forecaster",
			setup: func(store *mocks.MockSalesStore, forecaster *forecastmocks.MockForecaster) {
				store.EXPECT().LoadTransactions(gomock.Any()).Return(transactions(), nil)
				forecaster.EXPECT().Load(transactions()).Return(nil)
			},
			wantLoaded: true,
		},
		{
			name: "missing dataset",
			setup: func(store *mocks.MockSalesStore, forecaster *forecastmocks.MockForecaster) {
				store.EXPECT().LoadTransactions(gomock.Any()).Return(nil, repository.ErrNotFound)
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name: "training failure keeps the analyzer data",
			setup: func(store *mocks.MockSalesStore, forecaster *forecastmocks.MockForecaster) {
				store.EXPECT().LoadTransactions(gomock.Any()).Return(transactions(), nil)
				forecaster.EXPECT().Load(gomock.Any()).Return(boom)
			},
			wantErr:    boom,
			wantLoaded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, forecaster, analyzer := newTestService(t, config.RefreshSync{})
			tt.setup(store, forecaster)

			err := service.Refresh(ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotEmpty(t, service.GetStatus()["last_sync_error"])
			} else {
				require.NoError(t, err)
				assert.Empty(t, service.GetStatus()["last_sync_error"])
			}

			assert.Equal(t, tt.wantLoaded, analyzer.Loaded())
			assert.Equal(t, false, service.GetStatus()["sync_running"])
		})
	}
}

func TestRefreshSyncService_RejectsConcurrentSync(t *testing.T) {
	service, _, _, _ := newTestService(t, config.RefreshSync{})
	service.syncRunning = true

	assert.ErrorIs(t, service.Refresh(context.Background()), ErrSyncRunning)
	assert.ErrorIs(t, service.TriggerManualSync(JobRefresh), ErrSyncRunning)
}

func TestRefreshSyncService_TriggerManualSync(t *testing.T) {
	service, store, forecaster, analyzer := newTestService(t, config.RefreshSync{})

	release := make(chan struct{})
	store.EXPECT().LoadTransactions(gomock.Any()).Return(transactions(), nil)
	forecaster.EXPECT().Load(gomock.Any()).DoAndReturn(func([]domain.Transaction) error {
		<-release
		return nil
	})

	require.NoError(t, service.TriggerManualSync(JobRefresh))
	assert.Equal(t, true, service.GetStatus()["sync_running"])
	assert.ErrorIs(t, service.TriggerManualSync(JobRefresh), ErrSyncRunning)

	close(release)

	assert.Eventually(t, func() bool {
		return service.GetStatus()["sync_running"] == false
	}, time.Second, 5*time.Millisecond)
	assert.True(t, analyzer.Loaded())
	assert.Equal(t, JobRefresh, service.GetStatus()["last_sync_type"])
}

func TestRefreshSyncService_TriggerValidation(t *testing.T) {
	service, _, _, _ := newTestService(t, config.RefreshSync{})

	assert.ErrorIs(t, service.TriggerManualSync("reindex"), ErrUnknownJob)
	assert.ErrorIs(t, service.TriggerManualSync(JobPipeline), ErrPipelineUnavailable)
	assert.ErrorIs(t, service.Regenerate(context.Background()), ErrPipelineUnavailable)
}

func TestRefreshSyncService_Regenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the pipeline then refreshes", func(t *testing.T) {
		service, store, forecaster, analyzer := newTestService(t, config.RefreshSync{})
		runner := &fakeRunner{report: &pipeline.Report{}}
		service.WithPipeline(runner)

		store.EXPECT().LoadTransactions(gomock.Any()).Return(transactions(), nil)
		forecaster.EXPECT().Load(gomock.Any()).Return(nil)

		require.NoError(t, service.Regenerate(ctx))
		assert.Equal(t, 1, runner.calls)
		assert.True(t, analyzer.Loaded())
		assert.Equal(t, true, service.GetStatus()["pipeline_enabled"])
	})

	t.Run("pipeline failure skips the refresh", func(t *testing.T) {
		service, _, _, analyzer := newTestService(t, config.RefreshSync{})
		boom := errors.New("generate: disk full")
		service.WithPipeline(&fakeRunner{err: boom})

		assert.ErrorIs(t, service.Regenerate(ctx), boom)
		assert.False(t, analyzer.Loaded())
	})
}

func TestRefreshSyncService_Start(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.RefreshSync
		wantErr bool
	}{
		{name: "disabled", cfg: config.RefreshSync{CronSchedule: "not a cron", Enabled: false}},
		{name: "valid schedule", cfg: config.RefreshSync{CronSchedule: "0 3 * * *", Enabled: true}},
		{name: "invalid schedule", cfg: config.RefreshSync{CronSchedule: "not a cron", Enabled: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			service, _, _, _ := newTestService(t, tt.cfg)
			err := service.Start(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

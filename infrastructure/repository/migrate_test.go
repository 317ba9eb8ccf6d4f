package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository/mocks"
	"go.uber.org/mock/gomock"
)

func TestCopy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	from := NewCSVStore(filepath.Join(dir, "raw.csv"), filepath.Join(dir, "forecast.csv"), filepath.Join(dir, "insights.csv"))
	require.NoError(t, from.SaveTransactions(ctx, sampleTransactions()))
	require.NoError(t, from.SaveInsights(ctx, sampleInsights()))

	to := NewCSVStore(filepath.Join(dir, "out", "raw.csv"), filepath.Join(dir, "out", "forecast.csv"), filepath.Join(dir, "out", "insights.csv"))

	report, err := Copy(ctx, from, to)
	require.NoError(t, err)

	assert.Equal(t, len(sampleTransactions()), report.Transactions)
	assert.Equal(t, 0, report.Forecast)
	assert.Equal(t, len(sampleInsights()), report.Insights)
	assert.Equal(t, []string{"forecast"}, report.Skipped)

	copied, err := to.LoadTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTransactions(), copied)

	_, err = to.LoadForecast(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCopy_Failures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("permission denied")

	tests := []struct {
		name  string
		setup func(from, to *mocks.MockSalesStore)
	}{
		{
			name: "source read fails",
			setup: func(from, to *mocks.MockSalesStore) {
				from.EXPECT().LoadTransactions(gomock.Any()).Return(nil, boom)
			},
		},
		{
			name: "destination write fails",
			setup: func(from, to *mocks.MockSalesStore) {
				from.EXPECT().LoadTransactions(gomock.Any()).Return(sampleTransactions(), nil)
				to.EXPECT().SaveTransactions(gomock.Any(), gomock.Any()).Return(boom)
			},
		},
		{
			name: "insight write fails after the rest",
			setup: func(from, to *mocks.MockSalesStore) {
				from.EXPECT().LoadTransactions(gomock.Any()).Return(nil, ErrNotFound)
				from.EXPECT().LoadForecast(gomock.Any()).Return(sampleForecast(), nil)
				to.EXPECT().SaveForecast(gomock.Any(), gomock.Any()).Return(nil)
				from.EXPECT().LoadInsights(gomock.Any()).Return(sampleInsights(), nil)
				to.EXPECT().SaveInsights(gomock.Any(), gomock.Any()).Return(boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			from := mocks.NewMockSalesStore(ctrl)
			to := mocks.NewMockSalesStore(ctrl)
			tt.setup(from, to)

			_, err := Copy(ctx, from, to)
			assert.ErrorIs(t, err, boom)
		})
	}
}

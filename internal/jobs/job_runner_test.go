package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"buurbak-availability/internal/config"
)

type MockRetentionService struct {
	mock.Mock
}

func (m *MockRetentionService) PruneBlockedPeriods(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRetentionService) PruneExceptions(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Retention.BlockedPeriodDays = 365
	cfg.Retention.ExceptionDays = 90
	return cfg
}

func TestRunAll(t *testing.T) {
	retention := new(MockRetentionService)
	retention.On("PruneBlockedPeriods", mock.Anything, 365).Return(int64(3), nil).Once()
	retention.On("PruneExceptions", mock.Anything, 90).Return(int64(0), nil).Once()

	NewJobRunner(retention, testConfig()).RunAll()

	retention.AssertExpectations(t)
}

func TestPruneFailureDoesNotStopOtherJobs(t *testing.T) {
	retention := new(MockRetentionService)
	retention.On("PruneBlockedPeriods", mock.Anything, 365).Return(int64(0), errors.New("db down")).Once()
	retention.On("PruneExceptions", mock.Anything, 90).Return(int64(2), nil).Once()

	NewJobRunner(retention, testConfig()).RunAll()

	retention.AssertExpectations(t)
}

func TestRunWithRecovery(t *testing.T) {
	jr := NewJobRunner(new(MockRetentionService), testConfig())

	assert.NotPanics(t, func() {
		jr.runWithRecovery("Explode", func(ctx context.Context) {
			panic("boom")
		})
	})

	var sawDeadline bool
	jr.runWithRecovery("Deadline", func(ctx context.Context) {
		_, sawDeadline = ctx.Deadline()
	})
	assert.True(t, sawDeadline)
}

func TestConfigAccessor(t *testing.T) {
	cfg := testConfig()
	assert.Same(t, cfg, NewJobRunner(new(MockRetentionService), cfg).Config())
}

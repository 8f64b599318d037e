package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"buurbak-availability/internal/cache"
	"buurbak-availability/internal/domain"
	"buurbak-availability/internal/events"
)

type MockTrailerRepo struct {
	mock.Mock
}

func (m *MockTrailerRepo) GetByID(ctx context.Context, id int32) (*domain.Trailer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trailer), args.Error(1)
}

type MockWeeklyRepo struct {
	mock.Mock
}

func (m *MockWeeklyRepo) ListByTrailer(ctx context.Context, trailerID int32) ([]domain.WeeklyAvailability, error) {
	args := m.Called(ctx, trailerID)
	return args.Get(0).([]domain.WeeklyAvailability), args.Error(1)
}
func (m *MockWeeklyRepo) Upsert(ctx context.Context, trailerID int32, days []domain.WeeklyAvailability) error {
	args := m.Called(ctx, trailerID, days)
	return args.Error(0)
}

type MockExceptionRepo struct {
	mock.Mock
}

func (m *MockExceptionRepo) ListByTrailer(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.AvailabilityException, error) {
	args := m.Called(ctx, trailerID, from, to)
	return args.Get(0).([]domain.AvailabilityException), args.Error(1)
}
func (m *MockExceptionRepo) GetByDate(ctx context.Context, trailerID int32, date domain.Date) (*domain.AvailabilityException, error) {
	args := m.Called(ctx, trailerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityException), args.Error(1)
}
func (m *MockExceptionRepo) Upsert(ctx context.Context, e *domain.AvailabilityException) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockExceptionRepo) Delete(ctx context.Context, trailerID int32, date domain.Date) error {
	args := m.Called(ctx, trailerID, date)
	return args.Error(0)
}
func (m *MockExceptionRepo) DeleteBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockBlockedPeriodRepo struct {
	mock.Mock
}

func (m *MockBlockedPeriodRepo) Create(ctx context.Context, p *domain.BlockedPeriod) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockBlockedPeriodRepo) CreateMany(ctx context.Context, periods []*domain.BlockedPeriod) error {
	args := m.Called(ctx, periods)
	return args.Error(0)
}
func (m *MockBlockedPeriodRepo) GetByID(ctx context.Context, id int32) (*domain.BlockedPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlockedPeriod), args.Error(1)
}
func (m *MockBlockedPeriodRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBlockedPeriodRepo) ListForTrailer(ctx context.Context, trailerID, ownerID int32, from, to domain.Date) ([]domain.BlockedPeriod, error) {
	args := m.Called(ctx, trailerID, ownerID, from, to)
	return args.Get(0).([]domain.BlockedPeriod), args.Error(1)
}
func (m *MockBlockedPeriodRepo) ListByUser(ctx context.Context, userID int32, trailerID *int32) ([]domain.BlockedPeriod, error) {
	args := m.Called(ctx, userID, trailerID)
	return args.Get(0).([]domain.BlockedPeriod), args.Error(1)
}
func (m *MockBlockedPeriodRepo) DeleteEndedBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) ListBlocking(ctx context.Context, trailerID int32, from, to domain.Date) ([]domain.Rental, error) {
	args := m.Called(ctx, trailerID, from, to)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockTemplateCache struct {
	mock.Mock
}

func (m *MockTemplateCache) Get(ctx context.Context, trailerID int32) (*cache.Template, error) {
	args := m.Called(ctx, trailerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.Template), args.Error(1)
}
func (m *MockTemplateCache) Set(ctx context.Context, t *cache.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTemplateCache) Invalidate(ctx context.Context, trailerID int32) error {
	args := m.Called(ctx, trailerID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
